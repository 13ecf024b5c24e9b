package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/routinize/internal/constants"
	"github.com/julianstephens/routinize/internal/models"
	"github.com/julianstephens/routinize/internal/seed"
	"github.com/julianstephens/routinize/internal/storage"
	"github.com/julianstephens/routinize/internal/tui/components/blocktimer"
)

var testNow = time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, seeded bool) (Model, *storage.Accessor) {
	t.Helper()
	accessor := storage.NewAccessor(storage.NewMemoryBackend())
	if seeded {
		if err := seed.Write(context.Background(), accessor, testNow); err != nil {
			t.Fatal(err)
		}
	}
	return NewModel(context.Background(), accessor, func() time.Time { return testNow }), accessor
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyPress(k))
		m = next.(Model)
	}
	return m, cmd
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestTabNavigation(t *testing.T) {
	m, _ := newTestModel(t, false)

	tests := []struct {
		key  string
		want constants.SessionState
	}{
		{"tab", constants.StateRoutines},
		{"tab", constants.StateBlocks},
		{"tab", constants.StateHealth},
		{"tab", constants.StateDashboard},
		{"shift+tab", constants.StateHealth},
	}
	for _, tt := range tests {
		m, _ = press(t, m, tt.key)
		if m.state != tt.want {
			t.Fatalf("after %s: state = %v, want %v", tt.key, m.state, tt.want)
		}
	}
}

func TestRoutineFilterCycling(t *testing.T) {
	m, _ := newTestModel(t, true)
	m, _ = press(t, m, "tab")

	want := []string{"morning", "work", "health", "evening", "all"}
	for _, f := range want {
		m, _ = press(t, m, "f")
		if m.filter != f {
			t.Fatalf("filter = %q, want %q", m.filter, f)
		}
		for _, r := range m.visibleRoutines() {
			if f != "all" && string(r.Category) != f {
				t.Errorf("filter %q shows %s routine", f, r.Category)
			}
		}
	}
}

func TestRoutineStartKeepsSingleActive(t *testing.T) {
	m, accessor := newTestModel(t, true)
	m, _ = press(t, m, "tab", "down", "down", "s")

	active := 0
	for _, r := range accessor.Routines.GetAll(context.Background()) {
		if r.Active {
			active++
			if r.ID != "3" {
				t.Errorf("expected routine 3 active, got %s", r.ID)
			}
		}
	}
	if active != 1 {
		t.Errorf("expected 1 active routine, got %d", active)
	}
}

func TestRoutineToggleTask(t *testing.T) {
	m, accessor := newTestModel(t, true)
	m, _ = press(t, m, "tab", "down", "down", "2")

	r, _ := accessor.Routines.Find(context.Background(), "3")
	if !r.SortedTasks()[1].Completed {
		t.Errorf("expected second task toggled: %+v", r.Tasks)
	}
	if !strings.Contains(m.View(), "✓") {
		t.Error("expected toggled task to render as done")
	}
}

func TestBlockCountdownLifecycle(t *testing.T) {
	m, accessor := newTestModel(t, false)
	accessor.TimeBlocks.Add(context.Background(), models.TimeBlock{ID: "b1", Title: "Sprint", DurationMin: 1})
	m.reload()

	m, _ = press(t, m, "tab", "tab")
	m, cmd := press(t, m, "s")
	if cmd == nil {
		t.Fatal("expected a tick command after start")
	}
	if b, _ := accessor.TimeBlocks.Find(context.Background(), "b1"); b.Status() != models.BlockActive {
		t.Fatalf("expected active block after start, got %s", b.Status())
	}

	gen := m.timers.Gen()
	for i := 0; i < 59; i++ {
		m, cmd = send(m, blocktimer.TickMsg{Gen: gen})
		if cmd == nil {
			t.Fatalf("tick %d: expected next tick", i)
		}
	}
	m, cmd = send(m, blocktimer.TickMsg{Gen: gen})
	if cmd != nil {
		t.Error("expected the tick loop to end at zero")
	}

	b, _ := accessor.TimeBlocks.Find(context.Background(), "b1")
	if b.Status() != models.BlockCompleted || b.EndTime == nil {
		t.Errorf("expected completed block, got %+v", b)
	}
	if m.timers.Running() != "" {
		t.Error("expected no running countdown after expiry")
	}
}

func TestStaleTicksAreDropped(t *testing.T) {
	m, accessor := newTestModel(t, false)
	accessor.TimeBlocks.Add(context.Background(), models.TimeBlock{ID: "b1", Title: "Focus", DurationMin: 5})
	m.reload()
	m, _ = press(t, m, "tab", "tab", "s")

	staleGen := m.timers.Gen()
	m, _ = press(t, m, "p")
	m, _ = press(t, m, "s")

	timer := m.timers.Timer(m.blocks[0])
	before := timer.Remaining()
	m, cmd := send(m, blocktimer.TickMsg{Gen: staleGen})
	if cmd != nil || timer.Remaining() != before {
		t.Error("stale tick advanced the countdown")
	}

	_, cmd = send(m, blocktimer.TickMsg{Gen: m.timers.Gen()})
	if cmd == nil || timer.Remaining() != before-time.Second {
		t.Errorf("current tick did not advance: remaining %v", timer.Remaining())
	}
}

func TestStartingAnotherBlockPausesTheFirst(t *testing.T) {
	m, accessor := newTestModel(t, false)
	accessor.TimeBlocks.SaveAll(context.Background(), []models.TimeBlock{
		{ID: "a", Title: "A", DurationMin: 5},
		{ID: "b", Title: "B", DurationMin: 5},
	})
	m.reload()

	m, _ = press(t, m, "tab", "tab", "s", "down", "s")
	if m.timers.Running() != "b" {
		t.Errorf("expected b running, got %q", m.timers.Running())
	}
	blocks := accessor.TimeBlocks.GetAll(context.Background())
	if blocks[0].Active || !blocks[1].Active {
		t.Errorf("expected only b active: %+v", blocks)
	}
}

func TestBlockDeleteConfirmation(t *testing.T) {
	m, accessor := newTestModel(t, true)
	m, _ = press(t, m, "tab", "tab", "d")
	if m.state != constants.StateConfirmDelete {
		t.Fatalf("expected confirm state, got %v", m.state)
	}
	m, _ = press(t, m, "n")
	if m.state != constants.StateBlocks || len(accessor.TimeBlocks.GetAll(context.Background())) != 3 {
		t.Fatal("cancel should keep the block")
	}

	m, _ = press(t, m, "d", "y")
	if got := len(accessor.TimeBlocks.GetAll(context.Background())); got != 2 {
		t.Errorf("expected 2 blocks after delete, got %d", got)
	}
	if !strings.Contains(m.status, "Deleted Deep Work Session") {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestHealthFormOpensAndCancels(t *testing.T) {
	m, _ := newTestModel(t, false)
	m, _ = press(t, m, "shift+tab", "n")
	if m.state != constants.StateHealthForm || m.healthForm == nil {
		t.Fatalf("expected health form, got state %v", m.state)
	}
	if m.healthForm.Check != models.DefaultHealthCheck() {
		t.Errorf("form should start at defaults: %+v", m.healthForm.Check)
	}
	m, _ = press(t, m, "esc")
	if m.state != constants.StateHealth {
		t.Errorf("esc should return to health tab, got %v", m.state)
	}
}

func TestDashboardView(t *testing.T) {
	m, _ := newTestModel(t, true)
	view := m.View()
	for _, want := range []string{"Dashboard", "1/4", "33%", "7/10", "Learning & Research"} {
		if !strings.Contains(view, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestEmptyStoreViews(t *testing.T) {
	m, _ := newTestModel(t, false)
	for i := 0; i < len(tabs); i++ {
		if m.View() == "" {
			t.Errorf("empty view for state %v", m.state)
		}
		m, _ = press(t, m, "tab")
	}
}

func TestBlockPauseStoresRemaining(t *testing.T) {
	m, accessor := newTestModel(t, false)
	accessor.TimeBlocks.Add(context.Background(), models.TimeBlock{ID: "b1", Title: "Focus", DurationMin: 5})
	m.reload()

	m, _ = press(t, m, "tab", "tab", "s")
	for i := 0; i < 3; i++ {
		m, _ = send(m, blocktimer.TickMsg{Gen: m.timers.Gen()})
	}
	_, _ = press(t, m, "p")

	b, _ := accessor.TimeBlocks.Find(context.Background(), "b1")
	if b.Active || b.RemainingSec != 297 {
		t.Errorf("paused block = %+v, want 297s remaining", b)
	}

	// a fresh session picks the countdown up where it stopped
	fresh := NewModel(context.Background(), accessor, func() time.Time { return testNow })
	if got := fresh.timers.Timer(fresh.blocks[0]).Remaining(); got != 297*time.Second {
		t.Errorf("new session remaining = %v", got)
	}
}
