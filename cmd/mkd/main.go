package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mkd"
	"git.home.luguber.info/inful/mkd/cmd/mkd/commands"
	"git.home.luguber.info/inful/mkd/internal/foundation/errors"
)

func main() {
	var cli commands.CLI
	g := &commands.Global{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	ctx := kong.Parse(&cli,
		kong.Name("mkd"),
		kong.Description("Compile Markdown documents to HTML."),
		kong.UsageOnError(),
		kong.Vars{"version": mkd.Version()},
		kong.Bind(g),
	)
	err := ctx.Run(g, &cli)
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
