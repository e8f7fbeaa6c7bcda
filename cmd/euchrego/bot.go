package main

import (
	"context"
	"fmt"
	"time"

	rand "math/rand/v2"

	charmlog "github.com/charmbracelet/log"

	"github.com/natelac/euchrego/cmd/euchrego/shared"
	"github.com/natelac/euchrego/internal/bot"
	"github.com/natelac/euchrego/internal/client"
	"github.com/natelac/euchrego/internal/game"
	"github.com/natelac/euchrego/internal/randutil"
)

// BotCmd connects a built-in bot to a remote table and plays until the
// match ends
type BotCmd struct {
	Strategy string `arg:"" default:"greedy" enum:"greedy,random" help:"Bot strategy (greedy|random)"`
	Server   string `default:"ws://localhost:8080" help:"WebSocket server URL"`
	Name     string `help:"Bot name (defaults to the strategy plus a random tag)"`
	Token    string `help:"Join token if the table requires one"`
	Seed     *int64 `help:"Deterministic RNG seed (optional)"`
	Debug    bool   `help:"Enable debug logging"`
}

func (c *BotCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	rng := randutil.Fresh()
	if c.Seed != nil {
		rng = randutil.New(*c.Seed)
	}

	name := c.Name
	if name == "" {
		name = fmt.Sprintf("%s-%04d", c.Strategy, rng.IntN(10000))
	}

	player := c.newBot(name, rng, logger)

	cl := client.NewClient(c.Server, player, logger)
	cl.Token = c.Token
	if err := cl.Connect(); err != nil {
		return err
	}
	defer func() { _ = cl.Disconnect() }()

	ctx := shared.SetupSignalHandler(logger)
	joinCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	seat, err := cl.Join(joinCtx, name)
	if err != nil {
		return fmt.Errorf("joining table: %w", err)
	}
	logger.Info("seated", "name", name, "seat", seat)

	select {
	case <-ctx.Done():
		return nil
	case <-cl.Done():
		logger.Info("table closed")
		return nil
	}
}

func (c *BotCmd) newBot(name string, rng *rand.Rand, logger *charmlog.Logger) game.Player {
	if c.Strategy == "random" {
		return bot.NewRandom(name, rng, logger)
	}
	return bot.NewGreedy(name, rng, logger)
}
