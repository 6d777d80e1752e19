package main

import (
	"strings"
	"testing"
	"time"

	"tally/pkg/eventlog"
	"tally/pkg/perf"

	tea "github.com/charmbracelet/bubbletea"
)

// TestStatusBar verifies the status bar shows store health, agent count and
// lock warnings.
func TestStatusBar(t *testing.T) {
	tests := []struct {
		name         string
		model        Model
		wantContains []string
	}{
		{
			name:         "unreadable store shows error",
			model:        Model{storeHealthy: false},
			wantContains: []string{"unreadable"},
		},
		{
			name: "healthy store shows agent count",
			model: Model{
				storeHealthy: true,
				agents:       []perf.AgentStats{{Agent: "a"}, {Agent: "b"}, {Agent: "c"}},
			},
			wantContains: []string{"store: ok", "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statusBar := tt.model.renderStatusBar(DefaultTheme())
			for _, want := range tt.wantContains {
				if !strings.Contains(statusBar, want) {
					t.Errorf("renderStatusBar() missing %q, got: %s", want, statusBar)
				}
			}
		})
	}
}

func TestUpdateAgentsMsgFillsTable(t *testing.T) {
	m := newModel(t.TempDir())

	updated, _ := m.Update(agentsMsg([]perf.AgentStats{
		{Agent: "debug-specialist", TaskCount: 4, SuccessCount: 3, MeanQuality: 82.5},
	}))
	got := updated.(Model)

	if !got.storeHealthy {
		t.Error("storeHealthy should be set after agents load")
	}
	view := got.View()
	if !strings.Contains(view, "debug-specialist") {
		t.Errorf("table missing agent:\n%s", view)
	}
	if !strings.Contains(view, "75%") {
		t.Errorf("table missing success rate:\n%s", view)
	}
}

func TestUpdateNilAgentsMarksUnhealthy(t *testing.T) {
	m := newModel(t.TempDir())
	m.storeHealthy = true

	updated, _ := m.Update(agentsMsg(nil))
	if updated.(Model).storeHealthy {
		t.Error("nil agents load should mark the store unhealthy")
	}
}

func TestUpdateQuitKeys(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c"} {
		t.Run(key, func(t *testing.T) {
			m := newModel(t.TempDir())
			keyMsg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
			if key == "ctrl+c" {
				keyMsg = tea.KeyMsg{Type: tea.KeyCtrlC}
			}
			_, cmd := m.Update(keyMsg)
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("expected tea.Quit")
			}
		})
	}
}

func TestViewRendersEventsPane(t *testing.T) {
	m := newModel(t.TempDir())
	updated, _ := m.Update(eventsMsg([]eventlog.Event{
		{Type: "outcome_recorded", Agent: "test-engineer", CreatedAt: time.Now()},
	}))

	view := updated.(Model).View()
	if !strings.Contains(view, "Recent events") {
		t.Errorf("events pane title missing:\n%s", view)
	}
	if !strings.Contains(view, "outcome_recorded") {
		t.Errorf("event line missing:\n%s", view)
	}
}

func TestViewEmptyState(t *testing.T) {
	view := newModel(t.TempDir()).View()

	if !strings.Contains(view, "No outcomes recorded yet") {
		t.Errorf("empty agents hint missing:\n%s", view)
	}
	if !strings.Contains(view, "No events") {
		t.Errorf("empty events hint missing:\n%s", view)
	}
}

func TestTickTriggersRefresh(t *testing.T) {
	m := newModel(t.TempDir())

	_, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("tick should schedule a refresh")
	}
}
