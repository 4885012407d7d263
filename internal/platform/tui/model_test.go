package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tilecrawl/internal/core"
	"github.com/vovakirdan/tilecrawl/internal/storage"
)

// fakeGame ends its run on ActionEnd and restarts on ActionRestart.
type fakeGame struct {
	memSize  int
	resetErr error

	mem    *core.GameMemory
	frames []core.InputFrame
	rooms  int
	over   bool
	paused bool
}

func (g *fakeGame) ID() string    { return "fake" }
func (g *fakeGame) Title() string { return "Fake" }

func (g *fakeGame) MemoryBytes() (int, error) { return g.memSize, nil }

func (g *fakeGame) Reset(_ core.RuntimeConfig, mem *core.GameMemory) error {
	g.mem = mem
	g.rooms = 1
	g.over = false
	return g.resetErr
}

func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	g.frames = append(g.frames, in.Clone())
	switch {
	case in.Has(core.ActionRestart) && g.over:
		g.over = false
		g.rooms = 1
	case in.Has(core.ActionEnd):
		g.over = true
	case in.Has(core.ActionRight):
		g.rooms++
	}
	return core.StepResult{State: g.State()}
}

func (g *fakeGame) Render(dst *core.Screen) { dst.DrawText(0, 0, "fake") }

func (g *fakeGame) State() core.GameState {
	return core.GameState{Score: g.rooms, GameOver: g.over, Paused: g.paused}
}

func (g *fakeGame) FloorChanges() int      { return 2 }
func (g *fakeGame) Seed() int64            { return 42 }
func (g *fakeGame) Elapsed() time.Duration { return 3 * time.Second }

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 40, ScreenH: 10, TickRate: 60, Seed: 7}
}

// press sends key to m with the model clock at now.
func press(m Model, now time.Time, key tea.KeyMsg) Model {
	m.now = func() time.Time { return now }
	next, _ := m.Update(key)
	return next.(Model)
}

func tick(m Model, at time.Time) Model {
	next, _ := m.Update(TickMsg(at))
	return next.(Model)
}

func TestNewModelAllocatesMemory(t *testing.T) {
	g := &fakeGame{memSize: 4096}
	m := NewModel(g, nil, testConfig(), "")

	if m.Err() != nil {
		t.Fatalf("Err() = %v, expected nil", m.Err())
	}
	if g.mem == nil || len(g.mem.PermanentStorage) != 4096 {
		t.Errorf("game memory = %v, expected 4096 bytes", g.mem)
	}
	if m.player != LocalPlayer {
		t.Errorf("player = %q, expected %q", m.player, LocalPlayer)
	}
}

func TestNewModelKeepsResetError(t *testing.T) {
	boom := errors.New("boom")
	m := NewModel(&fakeGame{memSize: 16, resetErr: boom}, nil, testConfig(), "ann")
	if !errors.Is(m.Err(), boom) {
		t.Errorf("Err() = %v, expected boom", m.Err())
	}
}

func TestTickFrameTime(t *testing.T) {
	g := &fakeGame{memSize: 16}
	m := NewModel(g, nil, testConfig(), "")
	start := time.Unix(1000, 0)

	m = tick(m, start)
	m = tick(m, start.Add(20*time.Millisecond))
	m = tick(m, start.Add(5*time.Second))

	expected := []float64{0, 0.02, maxFrameDT}
	if len(g.frames) != len(expected) {
		t.Fatalf("got %d frames, expected %d", len(g.frames), len(expected))
	}
	for i, dt := range expected {
		if diff := g.frames[i].DT - dt; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("frame %d DT = %v, expected %v", i, g.frames[i].DT, dt)
		}
	}
}

func TestHeldKeyAcrossTicks(t *testing.T) {
	g := &fakeGame{memSize: 16}
	m := NewModel(g, nil, testConfig(), "")
	start := time.Unix(1000, 0)

	m = press(m, start, tea.KeyMsg{Type: tea.KeyRight})
	m = tick(m, start.Add(16*time.Millisecond))
	m = tick(m, start.Add(32*time.Millisecond))
	m = tick(m, start.Add(time.Second))

	if !g.frames[0].Has(core.ActionRight) || !g.frames[1].Has(core.ActionRight) {
		t.Error("Right should be held inside the hold window")
	}
	if g.frames[2].Has(core.ActionRight) {
		t.Error("Right should be released after the hold window")
	}
}

func TestRunSavedOnceWhenEnded(t *testing.T) {
	store := newTestStore(t)
	g := &fakeGame{memSize: 16}
	m := NewModel(g, store, testConfig(), "ann")
	start := time.Unix(1000, 0)

	m = press(m, start, tea.KeyMsg{Type: tea.KeyRight})
	m = tick(m, start)
	m = press(m, start, runeKey('e'))
	m = tick(m, start.Add(16*time.Millisecond))
	m = tick(m, start.Add(32*time.Millisecond))

	runs, err := store.AllRuns("fake")
	if err != nil {
		t.Fatalf("AllRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, expected 1", len(runs))
	}
	r := runs[0]
	if r.Player != "ann" || r.Score != 2 || r.FloorChanges != 2 || r.Seed != 42 || r.Duration != 3*time.Second {
		t.Errorf("saved run = %+v", r)
	}

	// Restarting starts a new run that is saved separately.
	m = press(m, start, runeKey('r'))
	m = tick(m, start.Add(48*time.Millisecond))
	m = press(m, start, runeKey('e'))
	tick(m, start.Add(64*time.Millisecond))

	runs, _ = store.AllRuns("fake")
	if len(runs) != 2 {
		t.Errorf("got %d runs after restart, expected 2", len(runs))
	}
}

func TestBackLeavesEndedRun(t *testing.T) {
	g := &fakeGame{memSize: 16}
	m := NewModel(g, nil, testConfig(), "")
	start := time.Unix(1000, 0)

	m = press(m, start, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Fatal("Back during a run should be ignored")
	}

	m = press(m, start, runeKey('e'))
	m = tick(m, start)
	m = press(m, start, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("Back after the run ended should return to the menu")
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(&fakeGame{memSize: 16}, nil, testConfig(), "")
	next, cmd := m.Update(runeKey('q'))
	if !next.(Model).IsQuitting() {
		t.Error("q should quit")
	}
	if cmd == nil {
		t.Error("q should return tea.Quit")
	}
	if next.(Model).View() != "" {
		t.Error("View() after quit should be empty")
	}
}

func TestQuitMidRunSavesRun(t *testing.T) {
	store := newTestStore(t)
	g := &fakeGame{memSize: 16}
	m := NewModel(g, store, testConfig(), "ann")
	start := time.Unix(1000, 0)

	m = press(m, start, tea.KeyMsg{Type: tea.KeyRight})
	m = tick(m, start)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(Model)

	runs, err := store.AllRuns("fake")
	if err != nil {
		t.Fatalf("AllRuns() failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Score != 2 {
		t.Fatalf("runs after quitting = %+v, expected one run with 2 rooms", runs)
	}

	// A run already recorded is not saved twice.
	m.Update(runeKey('q'))
	runs, _ = store.AllRuns("fake")
	if len(runs) != 1 {
		t.Errorf("got %d runs after a second quit, expected 1", len(runs))
	}
}

func TestViewRendersGame(t *testing.T) {
	m := NewModel(&fakeGame{memSize: 16}, nil, testConfig(), "")
	if !strings.Contains(m.View(), "fake") {
		t.Errorf("View() = %q, expected the game's text", m.View())
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	m = next.(Model)
	if m.screen.Width() != 20 || m.screen.Height() != 5 {
		t.Errorf("screen = %dx%d after resize, expected 20x5", m.screen.Width(), m.screen.Height())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{0, "0:00"},
		{59 * time.Second, "0:59"},
		{90*time.Second + 400*time.Millisecond, "1:30"},
		{61 * time.Minute, "61:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.expected {
			t.Errorf("formatDuration(%v) = %q, expected %q", tt.d, got, tt.expected)
		}
	}
}
