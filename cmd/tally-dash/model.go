package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tally/pkg/eventlog"
	"tally/pkg/patstore"
	"tally/pkg/perf"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// tickMsg is sent by Bubble Tea on every tick interval to trigger a
// periodic refresh.
type tickMsg time.Time

// agentsMsg carries freshly loaded aggregates. nil means the store is
// unreadable.
type agentsMsg []perf.AgentStats

// eventsMsg carries the newest events from the log.
type eventsMsg []eventlog.Event

// healthMsg carries document health for the status bar.
type healthMsg []patstore.DocHealth

// tickCmd returns a command that sends a tickMsg after 2 seconds.
func tickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func loadAgentsCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		agents, err := loadAgents(dir)
		if err != nil {
			return agentsMsg(nil)
		}
		if agents == nil {
			agents = []perf.AgentStats{}
		}
		return agentsMsg(agents)
	}
}

func loadEventsCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		return eventsMsg(loadEvents(context.Background(), dir))
	}
}

func loadHealthCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		return healthMsg(loadHealth(dir))
	}
}

// Model is the Bubble Tea model for the tally dashboard.
type Model struct {
	dir          string
	storeHealthy bool
	agents       []perf.AgentStats
	events       []eventlog.Event
	health       []patstore.DocHealth

	agentsTable table.Model

	width  int
	height int
}

// newModel creates a Model over the given patterns directory.
func newModel(dir string) Model {
	return Model{
		dir:         dir,
		agentsTable: newAgentsTable(),
	}
}

// refreshCmds reloads every pane.
func (m Model) refreshCmds() tea.Cmd {
	return tea.Batch(loadAgentsCmd(m.dir), loadEventsCmd(m.dir), loadHealthCmd(m.dir))
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmds(), tickCmd(), watchPatternsDir(m.dir))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.refreshCmds()
		}
		var cmd tea.Cmd
		m.agentsTable, cmd = m.agentsTable.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case agentsMsg:
		if msg == nil {
			m.storeHealthy = false
			break
		}
		m.storeHealthy = true
		m.agents = []perf.AgentStats(msg)
		m.agentsTable.SetRows(agentRows(m.agents))

	case eventsMsg:
		m.events = []eventlog.Event(msg)

	case healthMsg:
		m.health = []patstore.DocHealth(msg)

	case fsChangeMsg:
		// Store files changed; refresh and re-arm the watcher.
		return m, tea.Batch(m.refreshCmds(), watchPatternsDir(m.dir))

	case tickMsg:
		return m, tea.Batch(m.refreshCmds(), tickCmd())
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	theme := DefaultTheme()
	sections := []string{
		m.renderStatusBar(theme),
		m.renderAgentsPane(theme),
		m.renderEventsPane(theme),
		lipgloss.NewStyle().Foreground(theme.Muted).Render("j/k navigate, r refresh, q quit"),
	}
	return strings.Join(sections, "\n")
}

// renderStatusBar renders store health, document count and lock warnings.
func (m Model) renderStatusBar(theme Theme) string {
	var storeStatus string
	if m.storeHealthy {
		storeStatus = lipgloss.NewStyle().Foreground(theme.Success).Render("store: ok")
	} else {
		storeStatus = lipgloss.NewStyle().Foreground(theme.Error).Render("store: unreadable")
	}

	present := 0
	locked := 0
	for _, h := range m.health {
		if h.Present {
			present++
		}
		if h.Locked {
			locked++
		}
	}
	lockNote := ""
	if locked > 0 {
		lockNote = " | " + lipgloss.NewStyle().Foreground(theme.Warning).Render(fmt.Sprintf("%d locked", locked))
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		storeStatus,
		lipgloss.NewStyle().Render(" | Agents: "),
		lipgloss.NewStyle().Foreground(theme.Primary).Render(fmt.Sprintf("%d", len(m.agents))),
		lipgloss.NewStyle().Render(" | Documents: "),
		lipgloss.NewStyle().Foreground(theme.Primary).Render(fmt.Sprintf("%d", present)),
		lipgloss.NewStyle().Render(lockNote),
	)
}

// renderAgentsPane renders the aggregates table, or a hint when empty.
func (m Model) renderAgentsPane(theme Theme) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Render("Agents")
	if len(m.agents) == 0 {
		empty := lipgloss.NewStyle().Foreground(theme.Muted).Render("No outcomes recorded yet")
		return title + "\n" + empty
	}
	return title + "\n" + m.agentsTable.View()
}

// renderEventsPane renders the newest events, one per line.
func (m Model) renderEventsPane(theme Theme) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Render("Recent events")
	if len(m.events) == 0 {
		empty := lipgloss.NewStyle().Foreground(theme.Muted).Render("No events")
		return title + "\n" + empty
	}

	timeStyle := lipgloss.NewStyle().Foreground(theme.Muted)
	var b strings.Builder
	for _, e := range m.events {
		b.WriteString(fmt.Sprintf("%s  %-20s %s\n",
			timeStyle.Render(e.CreatedAt.Format("15:04:05")),
			e.Type, e.Agent))
	}
	return title + "\n" + strings.TrimRight(b.String(), "\n")
}
