package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" help:"Play a local game against bots"`
	Server  ServerCmd        `cmd:"" help:"Host a table over WebSocket"`
	Join    JoinCmd          `cmd:"" help:"Join a remote table interactively"`
	Bot     BotCmd           `cmd:"" help:"Connect a built-in bot to a remote table"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("euchrego"),
		kong.Description("Euchre at the terminal, locally or over the network"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
