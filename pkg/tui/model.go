// Package tui provides the interactive terminal dashboard for `tapcpd
// monitor`. It is built on the bubbletea/lipgloss stack: a ticker-driven
// Model that polls a data source and re-renders. There is only one view
// here — live transfer counters — since that is all the server core
// exposes (monitor.Counters).
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/casper-tapcp/tapcpd/pkg/monitor"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			Width(22)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingLeft(1)
)

const refreshInterval = time.Second

// tickMsg triggers a poll of the Counters.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the bubbletea model for `tapcpd monitor`. It holds no server
// state of its own; every tick takes a fresh Counters.Snapshot, which View
// renders.
type Model struct {
	counters *monitor.Counters
	snap     monitor.Snapshot
	width    int
}

// New returns a Model polling counters.
func New(counters *monitor.Counters) Model {
	return Model{counters: counters}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil
	case tickMsg:
		m.snap = m.counters.Snapshot()
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("  tapcpd live transfers  "))
	sb.WriteString("\n\n")

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(label))
		sb.WriteString(valueStyle.Render(value))
		sb.WriteString("\n")
	}
	row("Transfers opened:", fmt.Sprintf("%d", m.snap.TransfersOpened))
	row("Transfers failed:", fmt.Sprintf("%d", m.snap.TransfersFailed))
	row("Bytes read:", fmt.Sprintf("%d", m.snap.BytesRead))
	row("Bytes written:", fmt.Sprintf("%d", m.snap.BytesWritten))
	row("Last resource:", orDash(m.snap.LastResource))

	sb.WriteString("\n")
	if m.snap.LastError != "" {
		sb.WriteString(errorStyle.Render(fmt.Sprintf("last error (%s): %s",
			m.snap.LastErrorAt.Format("15:04:05"), m.snap.LastError)))
	} else {
		sb.WriteString(dimStyle.Render("no errors observed"))
	}
	sb.WriteString("\n\n")
	sb.WriteString(statusBarStyle.Render("q: quit  refreshes every " + refreshInterval.String()))
	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
