// Package tui provides a Bubble Tea browser over the snippet store.
// The top pane lists shortcuts; the bottom pane previews the selected
// body. Enter copies the body to the clipboard.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.design/x/clipboard"

	"github.com/fakeyudi/snipt/internal/snippet"
)

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	shortcutStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))

	previewBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))
)

// Model is the browser state.
type Model struct {
	entries     []snippet.Indexed
	selected    int
	width       int
	height      int
	status      string
	clipboardOK bool
	preview     viewport.Model
	ready       bool
}

// New builds the browser model over a store snapshot.
func New(sn *snippet.Snapshot) Model {
	return Model{
		entries:     sn.Entries(),
		clipboardOK: clipboard.Init() == nil,
	}
}

// Run starts the interactive browser.
func Run(sn *snippet.Snapshot) error {
	_, err := tea.NewProgram(New(sn), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		previewHeight := msg.Height / 3
		if previewHeight < 3 {
			previewHeight = 3
		}
		if !m.ready {
			m.preview = viewport.New(msg.Width-4, previewHeight)
			m.ready = true
		} else {
			m.preview.Width = msg.Width - 4
			m.preview.Height = previewHeight
		}
		m.syncPreview()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			m.status = ""
			m.syncPreview()
		case "down", "j":
			if m.selected < len(m.entries)-1 {
				m.selected++
			}
			m.status = ""
			m.syncPreview()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		case "enter":
			if len(m.entries) == 0 {
				return m, nil
			}
			if !m.clipboardOK {
				m.status = "clipboard unavailable"
				return m, nil
			}
			body := m.entries[m.selected].Entry.Snippet
			clipboard.Write(clipboard.FmtText, []byte(body))
			m.status = fmt.Sprintf("copied %s", m.entries[m.selected].Entry.Shortcut)
		}
	}
	return m, nil
}

// syncPreview loads the selected body into the preview pane.
func (m *Model) syncPreview() {
	if !m.ready || len(m.entries) == 0 {
		return
	}
	m.preview.SetContent(m.entries[m.selected].Entry.Snippet)
	m.preview.GotoTop()
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(" snipt ") + "\n\n")

	if len(m.entries) == 0 {
		b.WriteString(hintStyle.Render("  no snippets yet — add one with 'snipt add' or 'snipt new'") + "\n")
		return b.String()
	}

	visible := m.visibleRows()
	start, end := m.window(visible)
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(i) + "\n")
	}

	if m.ready {
		b.WriteString("\n" + previewBorder.Render(m.preview.View()) + "\n")
	}

	if m.status != "" {
		b.WriteString(statusStyle.Render("  "+m.status) + "\n")
	}
	b.WriteString(hintStyle.Render("  ↑/↓ select · pgup/pgdn scroll body · enter copy · q quit"))
	return b.String()
}

// visibleRows is how many list rows fit above the preview pane.
func (m Model) visibleRows() int {
	rows := m.height - m.preview.Height - 8
	if rows < 1 {
		rows = len(m.entries)
	}
	return rows
}

// window keeps the selection in view.
func (m Model) window(visible int) (start, end int) {
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end = start + visible
	if end > len(m.entries) {
		end = len(m.entries)
	}
	return start, end
}

func (m Model) renderRow(i int) string {
	ix := m.entries[i]

	row := fmt.Sprintf("%s %s %-24s %s",
		cursorFor(i == m.selected),
		timeStyle.Render(elapsed(ix.Entry.Timestamp)),
		shortcutStyle.Render(ix.Entry.Shortcut),
		kindStyle.Render("["+ix.Kind.String()+"]"),
	)
	if i == m.selected {
		return selectedRowStyle.Render(row)
	}
	return row
}

func cursorFor(selected bool) string {
	if selected {
		return "> "
	}
	return "  "
}

// elapsed renders a compact "how long ago" column.
func elapsed(ts time.Time) string {
	d := time.Since(ts)
	var s string
	switch {
	case d < time.Minute:
		s = fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		s = fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		s = fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		s = fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
	return fmt.Sprintf("%7s", s)
}
