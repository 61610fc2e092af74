// Package tui implements the terminal dashboard: a periodically
// refreshed table of per-interface health drawn with
// bubbletea/bubbles/lipgloss.
package tui

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/netmix/egressd/internal/health"
)

// RefreshInterval is how often the dashboard re-reads the store.
const RefreshInterval = time.Second

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

type tickMsg time.Time

// Model is the bubbletea model backing the dashboard. It holds no
// reference to anything the SOCKS5 server or monitor mutate directly —
// every refresh pulls a fresh, independent health.Store.Snapshot.
type Model struct {
	store *health.Store
	table table.Model
}

// New builds a dashboard Model reading from store.
func New(store *health.Store) Model {
	columns := []table.Column{
		{Title: "interface", Width: 12},
		{Title: "avg latency", Width: 12},
		{Title: "successes", Width: 10},
		{Title: "failures", Width: 10},
		{Title: "active", Width: 8},
		{Title: "bytes sent", Width: 12},
		{Title: "bytes recv", Width: 12},
	}
	t := table.New(table.WithColumns(columns), table.WithFocused(false), table.WithHeight(12))
	return Model{store: store, table: t}
}

// Init starts the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles ticks and keypresses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tickMsg:
		m.table.SetRows(rowsFromSnapshot(m.store.Snapshot()))
		return m, tick()
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table under a header.
func (m Model) View() string {
	return headerStyle.Render("egressd — interface health") + "\n" + m.table.View() + "\n(q to quit)\n"
}

func rowsFromSnapshot(snaps []health.Snapshot) []table.Row {
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Name < snaps[j].Name })
	rows := make([]table.Row, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, table.Row{
			s.Name,
			avgLatencyString(s.Latencies),
			fmt.Sprintf("%d", s.Successes),
			fmt.Sprintf("%d", s.Failures),
			fmt.Sprintf("%d", s.ActiveConns),
			fmt.Sprintf("%d", s.BytesSent),
			fmt.Sprintf("%d", s.BytesReceived),
		})
	}
	return rows
}

func avgLatencyString(latencies []float64) string {
	if len(latencies) == 0 {
		return "-"
	}
	var sum float64
	for _, l := range latencies {
		sum += l
	}
	return fmt.Sprintf("%.1f", sum/float64(len(latencies)))
}

// Run starts the bubbletea program and blocks until the user quits.
func Run(store *health.Store) error {
	p := tea.NewProgram(New(store))
	_, err := p.Run()
	return err
}
