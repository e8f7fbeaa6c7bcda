package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/natelac/euchrego/cmd/euchrego/shared"
	"github.com/natelac/euchrego/internal/client"
	"github.com/natelac/euchrego/internal/tui"
)

// JoinCmd takes a seat at a remote table with the interactive TUI
type JoinCmd struct {
	Server  string `default:"ws://localhost:8080" help:"WebSocket server URL"`
	Name    string `default:"You" help:"Your name at the table"`
	Token   string `help:"Join token if the table requires one"`
	LogFile string `default:"euchrego.log" help:"Debug log destination while the TUI owns the terminal"`
	Debug   bool   `help:"Enable debug logging"`
}

func (c *JoinCmd) Run() error {
	logger, logFile, err := shared.SetupFileLogger(c.LogFile, c.Debug)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	model := tui.NewModel(logger)
	player := tui.NewConsolePlayer(c.Name, model, logger)

	cl := client.NewClient(c.Server, player, logger)
	cl.Token = c.Token
	if err := cl.Connect(); err != nil {
		return err
	}
	defer func() { _ = cl.Disconnect() }()

	joinCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	seat, err := cl.Join(joinCtx, c.Name)
	if err != nil {
		return fmt.Errorf("joining table: %w", err)
	}
	logger.Info("seated", "seat", seat)

	program := tea.NewProgram(model, tea.WithAltScreen())
	model.SetProgram(program)
	model.AddLogEntry(fmt.Sprintf("Seated at %s. Waiting for the table to fill...", c.Server))

	go func() {
		<-cl.Done()
		model.AddLogEntry("")
		model.AddLogEntry("Table closed. Ctrl+C to leave.")
	}()

	_, err = program.Run()
	return err
}
