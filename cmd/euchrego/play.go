package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	charmlog "github.com/charmbracelet/log"

	rand "math/rand/v2"

	"github.com/natelac/euchrego/cmd/euchrego/shared"
	"github.com/natelac/euchrego/internal/bot"
	"github.com/natelac/euchrego/internal/game"
	"github.com/natelac/euchrego/internal/randutil"
	"github.com/natelac/euchrego/internal/tui"
)

// PlayCmd hosts a local table: you and a bot partner against two bots,
// or four bots head to head with --bots-only.
type PlayCmd struct {
	Name         string `default:"You" help:"Your name at the table"`
	Strategy     string `default:"greedy" enum:"greedy,random" help:"Bot strategy (greedy|random)"`
	WinningScore int    `default:"10" help:"Points needed to win the match"`
	Seed         *int64 `help:"Deterministic RNG seed (optional)"`
	RoundLog     string `help:"Append completed rounds as JSON lines to this file"`
	LogFile      string `default:"euchrego.log" help:"Debug log destination while the TUI owns the terminal"`
	BotsOnly     bool   `help:"Watch four bots play without a TUI"`
	Debug        bool   `help:"Enable debug logging"`
}

func (c *PlayCmd) Run() error {
	rng := randutil.Fresh()
	if c.Seed != nil {
		rng = randutil.New(*c.Seed)
	}

	if c.BotsOnly {
		return c.runBotsOnly(rng)
	}

	logger, logFile, err := shared.SetupFileLogger(c.LogFile, c.Debug)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	model := tui.NewModel(logger)
	human := tui.NewConsolePlayer(c.Name, model, logger)
	partner := c.newBot("Pat", rng, logger)

	team1 := game.NewTeam(human, partner)
	team2 := game.NewTeam(c.newBot("Lefty", rng, logger), c.newBot("Righty", rng, logger))

	opts := []game.Option{
		game.WithLogger(logger),
		game.WithWinningScore(c.WinningScore),
	}
	if c.RoundLog != "" {
		writer, err := game.NewFileRoundWriter(c.RoundLog)
		if err != nil {
			return fmt.Errorf("opening round log: %w", err)
		}
		defer func() { _ = writer.Close() }()
		opts = append(opts, game.WithRoundWriter(writer))
	}

	engine, err := game.New(rng, team1, team2, opts...)
	if err != nil {
		return err
	}

	program := tea.NewProgram(model, tea.WithAltScreen())
	model.SetProgram(program)

	go func() {
		if _, err := engine.Play(); err != nil {
			logger.Error("match failed", "error", err)
			model.SendQuitSignal()
			return
		}
		model.AddLogEntry("")
		model.AddLogEntry("Match over. Ctrl+C to leave the table.")
	}()

	_, err = program.Run()
	return err
}

// runBotsOnly plays the match straight to the console log
func (c *PlayCmd) runBotsOnly(rng *rand.Rand) error {
	logger := shared.SetupLogger(c.Debug)

	team1 := game.NewTeam(c.newBot("Pat", rng, logger), c.newBot("Sam", rng, logger))
	team2 := game.NewTeam(c.newBot("Lefty", rng, logger), c.newBot("Righty", rng, logger))

	opts := []game.Option{
		game.WithLogger(logger),
		game.WithWinningScore(c.WinningScore),
	}
	if c.RoundLog != "" {
		writer, err := game.NewFileRoundWriter(c.RoundLog)
		if err != nil {
			return fmt.Errorf("opening round log: %w", err)
		}
		defer func() { _ = writer.Close() }()
		opts = append(opts, game.WithRoundWriter(writer))
	}

	engine, err := game.New(rng, team1, team2, opts...)
	if err != nil {
		return err
	}

	winner, err := engine.Play()
	if err != nil {
		return err
	}

	logger.Info("match finished",
		"winner", winner.Name(),
		"points", winner.Points())
	return nil
}

func (c *PlayCmd) newBot(name string, rng *rand.Rand, logger *charmlog.Logger) game.Player {
	if c.Strategy == "random" {
		return bot.NewRandom(name, rng, logger)
	}
	return bot.NewGreedy(name, rng, logger)
}
