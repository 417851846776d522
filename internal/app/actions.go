package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/daichongdev/gitplus/internal/models"
	"github.com/daichongdev/gitplus/internal/operations"
)

const (
	actionIgnore  = "ignore"
	actionUntrack = "untrack"
	titleError    = "Error"
)

func (m *Model) invocation() models.Invocation {
	inv := models.Invocation{ProjectRoot: m.root}
	if e, ok := m.selected(); ok {
		inv.Target = e.target()
	}
	return inv
}

// runAction dispatches action on the worker pool. The result comes back as
// an actionResultMsg; notifications arrive separately on the channel sink.
func (m *Model) runAction(name string, action operations.ActionFunc) tea.Cmd {
	m.busy++
	results := m.pool.Dispatch(m.ctx, m.invocation(), action)
	return func() tea.Msg {
		return actionResultMsg{action: name, result: <-results}
	}
}

func (m *Model) waitForNotification() tea.Cmd {
	notes := m.notes.C()
	return func() tea.Msg {
		select {
		case note := <-notes:
			return notificationMsg{note: note}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showingFilter {
		return m.handleFilterKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "enter", "l", "right":
		if e, ok := m.selected(); ok && e.isDir {
			return m, m.enterDir(e.path)
		}
		return m, nil

	case "backspace", "h", "left":
		return m, m.parentDir()

	case "i":
		return m, m.runAction(actionIgnore, m.ignorer.Ignore)

	case "u":
		return m, m.runAction(actionUntrack, m.untracker.Untrack)

	case "r":
		return m, m.reload()

	case "/":
		m.showingFilter = true
		return m, m.filterInput.Focus()

	case "esc":
		if m.filterInput.Value() != "" {
			m.filterInput.SetValue("")
			m.applyFilter()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.showingFilter = false
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.showingFilter = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.applyFilter()
		return m, nil
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.applyFilter()
	return m, cmd
}
