package app

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"

	"github.com/daichongdev/gitplus/internal/models"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	stateColWidth = 18
	chromeLines   = 7 // header, borders, table header, status and footer
)

func (m *Model) newTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns(defaultWidth)),
		table.WithFocused(true),
		table.WithHeight(defaultHeight-chromeLines),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		Foreground(m.theme.MutedFg).
		BorderForeground(m.theme.Border).
		Bold(true)
	s.Cell = s.Cell.Foreground(m.theme.TextFg)
	s.Selected = s.Selected.
		Foreground(m.theme.AccentFg).
		Background(m.theme.Accent).
		Bold(true)
	t.SetStyles(s)
	return t
}

func (m *Model) columns(width int) []table.Column {
	nameWidth := width - stateColWidth - 6
	if nameWidth < 10 {
		nameWidth = 10
	}
	return []table.Column{
		{Title: "Name", Width: nameWidth},
		{Title: "State", Width: stateColWidth},
	}
}

func (m *Model) rows() []table.Row {
	rows := make([]table.Row, 0, len(m.filtered))
	for _, e := range m.filtered {
		name := e.name
		if e.isDir {
			name += "/"
		}
		if m.config.ShowIcons {
			name = iconPrefix(e) + name
		}
		rows = append(rows, table.Row{name, e.state.String()})
	}
	return rows
}

func (m *Model) setWindowSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetColumns(m.columns(width))
	m.table.SetWidth(width - 2)
	m.table.SetHeight(max(height-chromeLines, 3))
}

// View renders the browser.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	sections := []string{
		m.renderHeader(width),
		lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(m.theme.Border).
			Render(m.table.View()),
	}
	if m.showingFilter || m.filterInput.Value() != "" {
		sections = append(sections, m.filterInput.View())
	}
	if status := m.renderStatus(width); status != "" {
		sections = append(sections, status)
	}
	sections = append(sections, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader(width int) string {
	title := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true).Render("gitplus")
	location := m.root
	if rel, err := filepath.Rel(m.root, m.dir); err == nil && rel != "." {
		location = filepath.Join(m.root, rel)
	}
	if m.repo == nil {
		location += " (not a repository)"
	}
	path := lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render(location)
	return lipgloss.NewStyle().MaxWidth(width).Render(title + " " + path)
}

func (m *Model) renderStatus(width int) string {
	if m.status.Message == "" && m.busy == 0 {
		return ""
	}
	text := m.status.Message
	if m.status.Title != "" && m.status.Title != titleError && m.status.Title != text {
		text = m.status.Title + ": " + text
	}
	if m.busy > 0 && text == "" {
		text = "Working..."
	}
	color := m.theme.SuccessFg
	if m.status.Severity == models.SeverityError {
		color = m.theme.ErrorFg
	}
	return lipgloss.NewStyle().Foreground(color).Render(wrap.String(text, max(width-2, 10)))
}

func (m *Model) renderFooter() string {
	inv := m.invocation()
	hints := []string{m.renderKeyHint("enter", "open"), m.renderKeyHint("⌫", "up")}
	if m.ignorer.Available(inv) {
		hints = append(hints, m.renderKeyHint("i", "ignore"))
	}
	if m.untracker.Available(inv) && m.repo != nil {
		hints = append(hints, m.renderKeyHint("u", "untrack"))
	}
	hints = append(hints,
		m.renderKeyHint("/", "filter"),
		m.renderKeyHint("r", "refresh"),
		m.renderKeyHint("q", "quit"),
	)
	return strings.Join(hints, "  ")
}

func (m *Model) renderKeyHint(key, label string) string {
	keyStyle := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	return keyStyle.Render(key) + " " + labelStyle.Render(label)
}
