package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/citysim/internal/city"
	"github.com/vovakirdan/citysim/internal/config"
	"github.com/vovakirdan/citysim/internal/storage"
)

// noRoll never starts events so dashboard tests see plain arithmetic.
type noRoll struct{}

func (noRoll) Float64() float64 { return 1.0 }
func (noRoll) Intn(int) int     { return 0 }

func newTestModel(t *testing.T, store *storage.Store) (Model, *city.Session) {
	t.Helper()
	session := city.NewSession(city.NewEngine(noRoll{}))
	return NewModel(session, store, config.Default(), "test-slot"), session
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func spaceKey() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func TestTickWhilePausedDoesNothing(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, cmd := step(t, m, TickMsg(time.Now()))
	if cmd == nil {
		t.Error("Tick must schedule the next tick")
	}
	if m.City().Day != 0 {
		t.Errorf("Paused city advanced to day %d", m.City().Day)
	}
}

func TestToggleThenTickAdvances(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = step(t, m, spaceKey())
	if !m.City().Running {
		t.Fatal("Space should start the city")
	}

	m, _ = step(t, m, TickMsg(time.Now()))
	if m.City().Day != 1 || m.City().Food != 465 {
		t.Errorf("Expected day 1 with food 465, got day %d food %d", m.City().Day, m.City().Food)
	}

	m, _ = step(t, m, runeKey('p'))
	if m.City().Running {
		t.Error("P should pause the city")
	}
}

func TestSpeedKeysSelectConfiguredSpeeds(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = step(t, m, runeKey('3'))
	if m.City().Speed != 5 {
		t.Fatalf("Expected speed 5, got %d", m.City().Speed)
	}

	m, _ = step(t, m, spaceKey())
	m, _ = step(t, m, TickMsg(time.Now()))
	if m.City().Day != 5 {
		t.Errorf("Expected 5 days per interval at speed 5, got %d", m.City().Day)
	}

	m, _ = step(t, m, runeKey('9'))
	if m.City().Speed != 5 {
		t.Errorf("Unbound digit changed speed to %d", m.City().Speed)
	}
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, cmd := step(t, m, runeKey('q'))
	if cmd == nil {
		t.Fatal("Quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Quit command should produce tea.QuitMsg")
	}
	if m.View() != "" {
		t.Error("View should be empty after quitting")
	}
}

func TestSaveWithoutStore(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = step(t, m, runeKey('s'))
	if !strings.Contains(m.View(), "Saving unavailable") {
		t.Error("Expected notice about missing database")
	}
}

func TestSaveWritesSlot(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "tui.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	m, _ := newTestModel(t, store)
	m, _ = step(t, m, spaceKey())
	m, _ = step(t, m, TickMsg(time.Now()))
	m, _ = step(t, m, runeKey('s'))

	loaded, err := store.LoadCity("test-slot")
	if err != nil {
		t.Fatalf("LoadCity() failed: %v", err)
	}
	if loaded.Day != 1 || loaded.Food != 465 {
		t.Errorf("Saved wrong state: day %d food %d", loaded.Day, loaded.Food)
	}
	if !strings.Contains(m.View(), `Saved to slot "test-slot"`) {
		t.Error("Expected save notice in view")
	}
}

func TestNewCityOnlyAfterCollapse(t *testing.T) {
	m, session := newTestModel(t, nil)

	m, _ = step(t, m, spaceKey())
	m, _ = step(t, m, TickMsg(time.Now()))
	m, _ = step(t, m, runeKey('n'))
	if m.City().Day != 1 {
		t.Fatalf("New city key must be ignored while alive, day is %d", m.City().Day)
	}

	dead := city.NewState()
	dead.Population = 0
	dead.Collapsed = true
	dead.Day = 30
	session.Replace(dead)

	m, _ = step(t, m, TickMsg(time.Now()))
	if !strings.Contains(m.View(), "COLLAPSED") {
		t.Error("Expected collapsed status in view")
	}

	m, _ = step(t, m, runeKey('n'))
	if m.City().Collapsed || m.City().Day != 0 {
		t.Errorf("Expected fresh city after new city key, got %+v", m.City())
	}
}

func TestViewShowsDashboard(t *testing.T) {
	m, session := newTestModel(t, nil)
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	for _, want := range []string{"Day: 0", "PAUSED", "Population: 100", "Food: 500", "Energy: 300", "Money: 200", "No active events"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}

	st := city.NewState()
	st.Events = []city.Event{city.NewEvent(city.PowerOutage)}
	st.AddLog("Event started: Power Outage")
	session.Replace(st)
	m, _ = step(t, m, TickMsg(time.Now()))

	view = m.View()
	if !strings.Contains(view, "Power Outage (4d)") {
		t.Error("View should list active events")
	}
	if !strings.Contains(view, "Day 0: Event started: Power Outage") {
		t.Error("View should show log entries")
	}
}

func TestFraction(t *testing.T) {
	cases := []struct {
		value, scale int
		want         float64
	}{
		{250, 500, 0.5},
		{900, 300, 1},
		{0, 300, 0},
		{10, 0, 0},
	}
	for _, c := range cases {
		if got := fraction(c.value, c.scale); got != c.want {
			t.Errorf("fraction(%d, %d) = %v, want %v", c.value, c.scale, got, c.want)
		}
	}
}

func TestSessionSlot(t *testing.T) {
	if SessionSlot("alice") != "ssh-alice" {
		t.Errorf("Unexpected slot %q", SessionSlot("alice"))
	}
	if SessionSlot("") != "ssh-anonymous" {
		t.Errorf("Unexpected slot %q", SessionSlot(""))
	}
}

func TestKeyMapHelpListsSpeeds(t *testing.T) {
	km := NewKeyMap([]int{1, 2, 5})
	if len(km.Speeds) != 3 {
		t.Fatalf("Expected 3 speed bindings, got %d", len(km.Speeds))
	}
	if got := km.speedHelp.Help().Desc; got != "speed x1/x2/x5" {
		t.Errorf("Unexpected speed help %q", got)
	}
}
