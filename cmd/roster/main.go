package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/roster/cmd/roster/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Export  commands.ExportCmd  `cmd:"" default:"withargs" help:"Export a youth class roster as CSV"`
		Classes commands.ClassesCmd `cmd:"" help:"List organizations and their class letters"`
		Debug   bool                `help:"Enable debug mode." env:"ROSTER_DEBUG"`
		Version kong.VersionFlag
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := kong.Parse(&cli,
		kong.Name("roster"),
		kong.Description("Export youth class rosters with household emails from the membership directory."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
