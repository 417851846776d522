package main

import (
	"os"

	appiCli "github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via Command.Version
func globalFlags() []appiCli.Flag {
	return []appiCli.Flag{
		&appiCli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&appiCli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&appiCli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=gp.key=value",
		},
		&appiCli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "Override the browser theme",
		},
		&appiCli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable coloured output",
		},
	}
}

// isTerminal reports whether both stdin and stdout are terminals, which the
// browser needs.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec
}
