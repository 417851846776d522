// Package main is the entry point for the gitplus command.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/daichongdev/gitplus/internal/buildinfo"
	"github.com/daichongdev/gitplus/internal/log"
	appiCli "github.com/urfave/cli/v3"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// errActionFailed is returned when at least one action failed. The failure
// has already been reported, so main only sets the exit status.
var errActionFailed = errors.New("one or more actions failed")

func main() {
	buildinfo.Set(version, commit, date, builtBy)

	err := newApp(os.Stdout, os.Stderr).Run(context.Background(), os.Args)
	if closeErr := log.Close(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "Error closing debug log: %v\n", closeErr)
	}
	if err != nil {
		if !errors.Is(err, errActionFailed) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *appiCli.Command {
	return &appiCli.Command{
		Name:                  "gitplus",
		Usage:                 "Add paths to .gitignore and remove them from the git index",
		Version:               buildinfo.Get().Version,
		EnableShellCompletion: true,
		Writer:                stdout,
		ErrWriter:             stderr,
		Flags:                 globalFlags(),
		Commands: []*appiCli.Command{
			ignoreCommand(stdout, stderr),
			untrackCommand(stdout, stderr),
			browseCommand(stderr),
			versionCommand(stdout),
		},
		Action: func(ctx context.Context, cmd *appiCli.Command) error {
			if cmd.Args().Len() > 0 {
				return fmt.Errorf("unknown command %q", cmd.Args().First())
			}
			if !isTerminal() {
				return appiCli.ShowAppHelp(cmd)
			}
			return browse(ctx, cmd, stderr, "")
		},
	}
}
