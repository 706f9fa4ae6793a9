package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"lifeforge/internal/engine"
)

func boardState(t *testing.T, now time.Time) *engine.State {
	t.Helper()
	st, err := engine.NewState(engine.NewCharacterInput{ID: "ada", Name: "Ada"}, nil, now)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	o := engine.NewOrchestrator(engine.StreakPolicy{EarlyTolerancePercent: 25})
	st, q, err := o.CreateQuest(st, engine.QuestDraft{
		Name:       "Tidy",
		Objectives: []engine.ObjectiveDraft{{Text: "Papers"}, {Text: "Lamp", Optional: true}},
	}, now)
	if err != nil {
		t.Fatalf("CreateQuest: %v", err)
	}
	if st, _, err = o.StartQuest(st, q.ID, now); err != nil {
		t.Fatalf("StartQuest: %v", err)
	}
	if st, _, err = o.AddRecurringItem(st, engine.RecurringDraft{Name: "Water", Kind: engine.RecurringNeed, CadenceHours: 24, XPReward: 10}, now); err != nil {
		t.Fatalf("AddRecurringItem: %v", err)
	}
	return st
}

func TestBoardLinesExpandActiveQuests(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m := newBoardModel(context.Background(), nil, "ada")
	next, _ := m.Update(loadedMsg{state: boardState(t, now), now: now})
	m = next.(boardModel)

	lines := m.lines()
	// quest, two objectives, one need
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4", len(lines))
	}
	if lines[0].kind != lineQuest || !lines[0].expanded {
		t.Fatalf("first line = %+v", lines[0])
	}
	if lines[1].kind != lineObjective || lines[1].questID != lines[0].id {
		t.Fatalf("objective line = %+v", lines[1])
	}
	if lines[3].kind != lineRecurring || lines[3].status != "due" {
		t.Fatalf("recurring line = %+v", lines[3])
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(boardModel)
	if got := len(m.lines()); got != 2 {
		t.Fatalf("collapsed lines = %d, want 2", got)
	}

	view := m.View()
	for _, want := range []string{"Ada", "Level 1", "Needs & Dailies", "energy"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestBoardNavigationClamps(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m := newBoardModel(context.Background(), nil, "ada")
	next, _ := m.Update(loadedMsg{state: boardState(t, now), now: now})
	m = next.(boardModel)

	for i := 0; i < 10; i++ {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(boardModel)
	}
	if m.selected != len(m.lines())-1 {
		t.Fatalf("selected = %d, want last line", m.selected)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(boardModel)
	if m.selected != len(m.lines())-2 {
		t.Fatalf("selected = %d after up", m.selected)
	}
}
