package app

import (
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/daichongdev/gitplus/internal/app/services"
	"github.com/daichongdev/gitplus/internal/log"
	"github.com/daichongdev/gitplus/internal/models"
)

func (m *Model) startRepoWatcher() tea.Cmd {
	if !m.config.AutoRefresh || m.repo == nil {
		return nil
	}
	if m.watch == nil {
		m.watch = services.NewRepoWatchService(m.config.IgnoreFile, log.Printf)
	}
	started, err := m.watch.Start(m.root, filepath.Join(m.root, m.config.VCSDir))
	if err != nil {
		return func() tea.Msg {
			return notificationMsg{note: models.Notification{
				Title:    titleError,
				Message:  "auto refresh disabled: " + err.Error(),
				Severity: models.SeverityError,
			}}
		}
	}
	if !started {
		return nil
	}
	m.watch.WatchDir(m.dir)
	return m.waitForRepoEvent()
}

func (m *Model) stopRepoWatcher() {
	if m.watch == nil || !m.watch.Started {
		return
	}
	m.watch.Stop()
}

func (m *Model) waitForRepoEvent() tea.Cmd {
	if m.watch == nil {
		return nil
	}
	events := m.watch.NextEvent()
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case _, ok := <-events:
			if !ok {
				return nil
			}
			return repoChangedMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) shouldRefreshRepoEvent() bool {
	if m.watch == nil {
		return false
	}
	return m.watch.ShouldRefresh(time.Now())
}
