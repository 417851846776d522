package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/daichongdev/gitplus/internal/git"
	"github.com/daichongdev/gitplus/internal/log"
	"github.com/daichongdev/gitplus/internal/models"
)

type entryState int

const (
	stateUnknown entryState = iota
	stateUntracked
	stateTracked
	stateIgnored
	stateTrackedIgnored
)

func (s entryState) String() string {
	switch s {
	case stateUntracked:
		return "untracked"
	case stateTracked:
		return "tracked"
	case stateIgnored:
		return "ignored"
	case stateTrackedIgnored:
		return "tracked, ignored"
	default:
		return ""
	}
}

type entry struct {
	name  string
	path  string
	isDir bool
	state entryState
}

func (e entry) target() *models.TargetEntry {
	return &models.TargetEntry{Path: e.path, IsDir: e.isDir}
}

// listOptions controls which directory entries are shown.
type listOptions struct {
	root       string
	showHidden bool
	vcsDir     string
}

// readEntries lists dir, directories first, annotated with repository state.
func readEntries(dir string, repo *git.Repository, opts listOptions) ([]entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	entries := make([]entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if name == opts.vcsDir {
			continue
		}
		if !opts.showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		e := entry{
			name:  name,
			path:  filepath.Join(dir, name),
			isDir: de.IsDir(),
		}
		if repo != nil {
			e.state = stateOf(repo, opts.root, e)
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].isDir != entries[j].isDir {
			return entries[i].isDir
		}
		return strings.ToLower(entries[i].name) < strings.ToLower(entries[j].name)
	})
	return entries, nil
}

func stateOf(repo *git.Repository, root string, e entry) entryState {
	rel, err := filepath.Rel(root, e.path)
	if err != nil {
		return stateUnknown
	}
	rel = filepath.ToSlash(rel)
	if e.isDir {
		rel += "/"
	}
	tracked := repo.IsTracked(rel)
	ignored := repo.IsIgnored(rel, e.isDir)
	switch {
	case tracked && ignored:
		return stateTrackedIgnored
	case tracked:
		return stateTracked
	case ignored:
		return stateIgnored
	default:
		return stateUntracked
	}
}

func filterEntries(entries []entry, query string) []entry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entries
	}
	filtered := make([]entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.name), query) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func (m *Model) loadEntries(dir string) tea.Cmd {
	repo := m.repo
	opts := listOptions{
		root:       m.root,
		showHidden: m.config.ShowHidden,
		vcsDir:     m.config.VCSDir,
	}
	return func() tea.Msg {
		if repo != nil {
			if err := repo.Refresh(); err != nil {
				log.Printf("browse: refresh of %s failed: %v", repo.RootPath(), err)
			}
		}
		entries, err := readEntries(dir, repo, opts)
		return entriesLoadedMsg{dir: dir, entries: entries, err: err}
	}
}

func (m *Model) reload() tea.Cmd {
	if e, ok := m.selected(); ok {
		m.pending = e.name
	}
	return m.loadEntries(m.dir)
}

func (m *Model) handleEntriesLoaded(msg entriesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = models.Notification{Title: titleError, Message: msg.err.Error(), Severity: models.SeverityError}
		return m, nil
	}
	m.dir = msg.dir
	m.entries = msg.entries
	if m.watch != nil {
		m.watch.WatchDir(m.dir)
	}
	m.applyFilter()
	return m, nil
}

func (m *Model) applyFilter() {
	m.filtered = filterEntries(m.entries, m.filterInput.Value())
	m.table.SetRows(m.rows())

	cursor := 0
	for i, e := range m.filtered {
		if e.name == m.pending {
			cursor = i
			break
		}
	}
	m.pending = ""
	if len(m.filtered) > 0 {
		m.table.SetCursor(cursor)
	}
}

func (m *Model) selected() (entry, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.filtered) {
		return entry{}, false
	}
	return m.filtered[idx], true
}

// enterDir lists dir unless it would leave the project root.
func (m *Model) enterDir(dir string) tea.Cmd {
	if !isWithin(m.root, dir) {
		return nil
	}
	m.filterInput.SetValue("")
	return m.loadEntries(dir)
}

func (m *Model) parentDir() tea.Cmd {
	if filepath.Clean(m.dir) == filepath.Clean(m.root) {
		return nil
	}
	m.pending = filepath.Base(m.dir)
	return m.enterDir(filepath.Dir(m.dir))
}

func isWithin(base, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(target))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
