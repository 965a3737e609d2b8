package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/iconsite/cmd/iconsite/commands"
	"git.home.luguber.info/inful/iconsite/internal/foundation/errors"
	"git.home.luguber.info/inful/iconsite/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("iconsite"),
		kong.Description("Builds the icon site and rebuilds it when sources change."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := parser.Run(&commands.Global{Logger: slog.Default()}, cli)
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
