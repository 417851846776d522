package main

import (
	"context"
	"fmt"
	"io"

	"github.com/daichongdev/gitplus/internal/app"
	"github.com/daichongdev/gitplus/internal/buildinfo"
	"github.com/daichongdev/gitplus/internal/config"
	"github.com/daichongdev/gitplus/internal/git"
	"github.com/daichongdev/gitplus/internal/log"
	"github.com/daichongdev/gitplus/internal/models"
	"github.com/daichongdev/gitplus/internal/notify"
	"github.com/daichongdev/gitplus/internal/operations"
	appiCli "github.com/urfave/cli/v3"
)

// runBrowser starts the interactive browser; tests replace it.
var runBrowser = app.Run

func ignoreCommand(stdout, stderr io.Writer) *appiCli.Command {
	return &appiCli.Command{
		Name:      "ignore",
		Aliases:   []string{"i"},
		Usage:     "Append paths to the nearest ignore file",
		ArgsUsage: "<path>...",
		Action: func(ctx context.Context, cmd *appiCli.Command) error {
			s, err := newSession(ctx, cmd, stdout, stderr)
			if err != nil {
				return err
			}
			return s.run(ctx, cmd.Args().Slice(), func(sink notify.Sink) operations.ActionFunc {
				return s.ignorer(sink).Ignore
			})
		},
	}
}

func untrackCommand(stdout, stderr io.Writer) *appiCli.Command {
	return &appiCli.Command{
		Name:      "untrack",
		Aliases:   []string{"u"},
		Usage:     "Remove paths from the git index, keeping them on disk",
		ArgsUsage: "<path>...",
		Flags: []appiCli.Flag{
			&appiCli.BoolFlag{
				Name:  "ignore",
				Usage: "Also add each path to the ignore file after untracking it",
			},
		},
		Action: func(ctx context.Context, cmd *appiCli.Command) error {
			s, err := newSession(ctx, cmd, stdout, stderr)
			if err != nil {
				return err
			}
			if !s.git.Available() {
				return fmt.Errorf("untrack: %w", git.ErrGitNotFound)
			}
			alsoIgnore := cmd.Bool("ignore") || s.cfg.UntrackAlsoIgnores
			return s.run(ctx, cmd.Args().Slice(), func(sink notify.Sink) operations.ActionFunc {
				return s.untracker(sink, alsoIgnore).Untrack
			})
		},
	}
}

func browseCommand(stderr io.Writer) *appiCli.Command {
	return &appiCli.Command{
		Name:      "browse",
		Aliases:   []string{"b"},
		Usage:     "Browse a directory and ignore or untrack entries interactively",
		ArgsUsage: "[dir]",
		Action: func(ctx context.Context, cmd *appiCli.Command) error {
			if cmd.Args().Len() > 1 {
				return fmt.Errorf("browse accepts at most one directory")
			}
			return browse(ctx, cmd, stderr, cmd.Args().First())
		},
	}
}

func versionCommand(stdout io.Writer) *appiCli.Command {
	return &appiCli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(_ context.Context, _ *appiCli.Command) error {
			_, err := fmt.Fprintln(stdout, buildinfo.Get().String())
			return err
		},
	}
}

func browse(_ context.Context, cmd *appiCli.Command, stderr io.Writer, dir string) error {
	cwd, err := osGetwd()
	if err != nil {
		return err
	}
	if dir == "" {
		dir = cwd
	} else if expanded, err := config.ExpandPath(dir); err == nil {
		dir = expanded
	}

	cfg, err := loadCLIConfig(cmd, stderr, dir)
	if err != nil {
		return err
	}
	// The browser owns the terminal, so git service messages go to the debug log.
	svc := git.NewService(func(message string, severity models.Severity) {
		log.Printf("git [%s]: %s", severity, message)
	}, cfg.MaxWorkers)
	return runBrowser(cfg, svc, dir)
}
