// Package app implements the interactive repository browser.
package app

import (
	"context"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/daichongdev/gitplus/internal/app/services"
	"github.com/daichongdev/gitplus/internal/config"
	"github.com/daichongdev/gitplus/internal/git"
	"github.com/daichongdev/gitplus/internal/ignore"
	"github.com/daichongdev/gitplus/internal/log"
	"github.com/daichongdev/gitplus/internal/models"
	"github.com/daichongdev/gitplus/internal/notify"
	"github.com/daichongdev/gitplus/internal/operations"
	"github.com/daichongdev/gitplus/internal/theme"
)

// Message types for the Bubble Tea app
type (
	entriesLoadedMsg struct {
		dir     string
		entries []entry
		err     error
	}
	actionResultMsg struct {
		action string
		result models.CommandResult
	}
	notificationMsg struct {
		note models.Notification
	}
	repoChangedMsg struct{}
)

// notesPerAction is the most notifications one action emits (untrack, then
// the follow-up ignore).
const notesPerAction = 2

// minNotificationBuffer is the smallest browser notification buffer.
const minNotificationBuffer = 16

// notificationBufferSize lets every worker report a full action before the
// browser drains the channel.
func notificationBufferSize(workers int) int {
	return max(minNotificationBuffer, workers*notesPerAction)
}

// Model is the browser state.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	config *config.AppConfig
	theme  *theme.Theme
	git    *git.Service
	repo   *git.Repository

	ignorer   *operations.Ignorer
	untracker *operations.Untracker
	pool      *operations.Pool
	notes     *notify.Channel
	watch     *services.RepoWatchService

	root string // project root; the repository root when there is one
	dir  string // directory being listed

	entries  []entry
	filtered []entry
	pending  string // entry to select after the next load

	table         table.Model
	filterInput   textinput.Model
	showingFilter bool

	status   models.Notification
	busy     int
	width    int
	height   int
	quitting bool
}

// NewModel builds a browser rooted at the repository containing dir. When dir
// is not inside a repository it is browsed as a plain project and the actions
// report why they cannot run.
func NewModel(cfg *config.AppConfig, svc *git.Service, dir string) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())

	dir = models.NewTargetEntry(dir).Path
	root := dir
	repo, err := svc.FindOwningRepository(ctx, dir)
	if err != nil {
		log.Printf("browse: repository lookup for %s failed: %v", dir, err)
	}
	if repo != nil {
		root = repo.RootPath()
	}

	notes := notify.NewChannel(notificationBufferSize(cfg.MaxWorkers))
	locks := operations.NewLocks()
	lookup := operations.NewGitLookup(svc)
	ignorer := operations.NewIgnorer(notes,
		operations.WithIgnoreFileName(cfg.IgnoreFile),
		operations.WithVCSMarker(cfg.VCSDir),
		operations.WithIgnoreLocks(locks),
		operations.WithRefresher(ignore.RefreshFunc(operations.RepositoryRefresher(lookup))),
	)
	untrackOpts := []operations.UntrackerOption{operations.WithUntrackLocks(locks)}
	if cfg.UntrackAlsoIgnores {
		untrackOpts = append(untrackOpts, operations.WithAlsoIgnore(ignorer))
	}

	filterInput := textinput.New()
	filterInput.Placeholder = "Filter entries..."
	filterInput.Prompt = "/ "
	filterInput.Width = 50

	m := &Model{
		ctx:         ctx,
		cancel:      cancel,
		config:      cfg,
		theme:       theme.GetTheme(cfg.Theme),
		git:         svc,
		repo:        repo,
		ignorer:     ignorer,
		untracker:   operations.NewUntracker(lookup, svc, notes, untrackOpts...),
		pool:        operations.NewPool(cfg.MaxWorkers),
		notes:       notes,
		root:        root,
		dir:         dir,
		filterInput: filterInput,
	}
	m.table = m.newTable()
	return m
}

// Init loads the first listing and starts background listeners.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadEntries(m.dir),
		m.waitForNotification(),
		m.startRepoWatcher(),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setWindowSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case entriesLoadedMsg:
		return m.handleEntriesLoaded(msg)

	case actionResultMsg:
		m.busy--
		log.Debug().Str("action", msg.action).Bool("success", msg.result.Success).Str("path", msg.result.Path).Msg("browse")
		return m, m.reload()

	case notificationMsg:
		m.status = msg.note
		return m, m.waitForNotification()

	case repoChangedMsg:
		m.watch.ResetWaiting()
		var cmd tea.Cmd
		if m.shouldRefreshRepoEvent() {
			cmd = m.reload()
		}
		return m, tea.Batch(cmd, m.waitForRepoEvent())
	}
	return m, nil
}

// Close stops background work.
func (m *Model) Close() {
	m.stopRepoWatcher()
	m.cancel()
}

// Root returns the project root being browsed.
func (m *Model) Root() string {
	return m.root
}

// Dir returns the directory currently listed.
func (m *Model) Dir() string {
	return m.dir
}

// Run starts the browser on dir and blocks until the user quits.
func Run(cfg *config.AppConfig, svc *git.Service, dir string) error {
	m := NewModel(cfg, svc, dir)
	defer m.Close()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
