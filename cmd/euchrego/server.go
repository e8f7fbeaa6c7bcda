package main

import (
	"fmt"

	"github.com/natelac/euchrego/cmd/euchrego/shared"
	"github.com/natelac/euchrego/internal/server"
)

// ServerCmd hosts a table over WebSocket. Most settings live in the
// HCL config file; the flags here override it for quick runs.
type ServerCmd struct {
	Config       string `short:"c" default:"euchrego.hcl" help:"HCL config file (missing file uses defaults)"`
	Address      string `help:"Override the listen address"`
	Port         *int   `help:"Override the listen port"`
	WinningScore *int   `help:"Override the points needed to win"`
	Seed         *int64 `help:"Override the deterministic RNG seed"`
	Debug        bool   `help:"Enable debug logging"`
}

func (c *ServerCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if c.Address != "" {
		cfg.Server.Address = c.Address
	}
	if c.Port != nil {
		cfg.Server.Port = *c.Port
	}
	if c.WinningScore != nil {
		cfg.Game.WinningScore = *c.WinningScore
	}
	if c.Seed != nil {
		cfg.Game.Seed = *c.Seed
	}

	s, err := server.NewServer(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("starting table",
		"addr", cfg.ListenAddress(),
		"winning_score", cfg.Game.WinningScore,
		"decision_timeout", cfg.Game.DecisionTimeout,
		"bots", len(cfg.Bots))

	ctx := shared.SetupSignalHandler(logger)
	return s.Start(ctx)
}
