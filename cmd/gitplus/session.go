package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/daichongdev/gitplus/internal/config"
	"github.com/daichongdev/gitplus/internal/git"
	"github.com/daichongdev/gitplus/internal/ignore"
	"github.com/daichongdev/gitplus/internal/log"
	"github.com/daichongdev/gitplus/internal/models"
	"github.com/daichongdev/gitplus/internal/notify"
	"github.com/daichongdev/gitplus/internal/operations"
	appiCli "github.com/urfave/cli/v3"
)

var osGetwd = os.Getwd

const titleError = "Error"

// session holds what a single gitplus invocation shares between actions.
type session struct {
	cfg         *config.AppConfig
	git         *git.Service
	lookup      operations.RepositoryLookup
	locks       *operations.Locks
	pool        *operations.Pool
	sink        notify.Sink
	projectRoot string
}

// loadCLIConfig loads configuration, applies flag overrides and sets up the
// debug log.
func loadCLIConfig(cmd *appiCli.Command, stderr io.Writer, cwd string) (*config.AppConfig, error) {
	cfg, err := config.LoadConfig(cmd.String("config-file"), cwd)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if overrides := cmd.StringSlice("config"); len(overrides) > 0 {
		if err := cfg.ApplyCLIOverrides(overrides); err != nil {
			return nil, fmt.Errorf("error applying config overrides: %w", err)
		}
	}

	if themeName := cmd.String("theme"); themeName != "" {
		normalized := config.NormalizeThemeName(themeName)
		if normalized == "" {
			return nil, fmt.Errorf("unknown theme %q", themeName)
		}
		cfg.Theme = normalized
	}

	if debugLog := cmd.String("debug-log"); debugLog != "" {
		cfg.DebugLog = debugLog
	}
	setupDebugLog(cfg, stderr)
	return cfg, nil
}

func setupDebugLog(cfg *config.AppConfig, stderr io.Writer) {
	if cfg.DebugLog == "" {
		// No debug log configured, discard any buffered logs
		_ = log.SetFile("")
		return
	}
	path := cfg.DebugLog
	if expanded, err := config.ExpandPath(path); err == nil {
		path = expanded
	}
	if err := log.SetFile(path); err != nil {
		fmt.Fprintf(stderr, "Error opening debug log file %q: %v\n", path, err)
		return
	}
	cfg.DebugLog = path
}

func newSession(ctx context.Context, cmd *appiCli.Command, stdout, stderr io.Writer) (*session, error) {
	cwd, err := osGetwd()
	if err != nil {
		return nil, err
	}
	cfg, err := loadCLIConfig(cmd, stderr, cwd)
	if err != nil {
		return nil, err
	}

	sink := notify.NewConsole(stdout, stderr, cmd.Bool("no-color"))
	svc := git.NewService(func(message string, severity models.Severity) {
		sink.Notify("", message, severity)
	}, cfg.MaxWorkers)

	s := &session{
		cfg:         cfg,
		git:         svc,
		lookup:      operations.NewGitLookup(svc),
		locks:       operations.NewLocks(),
		pool:        operations.NewPool(cfg.MaxWorkers),
		sink:        sink,
		projectRoot: cwd,
	}
	repo, err := s.lookup.FindOwningRepository(ctx, cwd)
	if err != nil {
		log.Printf("cli: repository lookup for %s failed: %v", cwd, err)
	}
	if repo != nil {
		s.projectRoot = repo.RootPath()
	}
	log.Debug().Str("project", s.projectRoot).Int("workers", cfg.MaxWorkers).Msg("cli: session")
	return s, nil
}

func (s *session) ignorer(sink notify.Sink) *operations.Ignorer {
	return operations.NewIgnorer(sink,
		operations.WithIgnoreFileName(s.cfg.IgnoreFile),
		operations.WithVCSMarker(s.cfg.VCSDir),
		operations.WithIgnoreLocks(s.locks),
		operations.WithRefresher(ignore.RefreshFunc(operations.RepositoryRefresher(s.lookup))),
	)
}

func (s *session) untracker(sink notify.Sink, alsoIgnore bool) *operations.Untracker {
	opts := []operations.UntrackerOption{operations.WithUntrackLocks(s.locks)}
	if alsoIgnore {
		opts = append(opts, operations.WithAlsoIgnore(s.ignorer(sink)))
	}
	return operations.NewUntracker(s.lookup, s.git, sink, opts...)
}

// invocations turns command-line paths into invocations. No paths yields a
// single invocation without a target so the action reports it.
func (s *session) invocations(paths []string) []models.Invocation {
	if len(paths) == 0 {
		return []models.Invocation{{ProjectRoot: s.projectRoot}}
	}
	invs := make([]models.Invocation, 0, len(paths))
	for _, p := range paths {
		target := models.NewTargetEntry(p)
		invs = append(invs, models.Invocation{ProjectRoot: s.projectRoot, Target: &target})
	}
	return invs
}

// run dispatches one action per path on the worker pool and prints each
// action's notifications in argument order.
func (s *session) run(ctx context.Context, paths []string, build func(sink notify.Sink) operations.ActionFunc) error {
	invs := s.invocations(paths)
	recorders := make([]*notify.Recorder, len(invs))
	pending := make([]<-chan models.CommandResult, len(invs))
	for i, inv := range invs {
		recorders[i] = &notify.Recorder{}
		pending[i] = s.pool.Dispatch(ctx, inv, build(recorders[i]))
	}

	failed := 0
	for i, ch := range pending {
		result := <-ch
		reported := recorders[i].Replay(s.sink)
		if !result.Success {
			failed++
			// The pool fails canceled work without running the action.
			if reported == 0 {
				s.sink.Notify(titleError, result.Output, models.SeverityError)
			}
		}
	}
	if failed > 0 {
		log.Debug().Int("failed", failed).Int("total", len(invs)).Msg("cli: done")
		return errActionFailed
	}
	return nil
}
