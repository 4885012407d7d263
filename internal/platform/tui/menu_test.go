package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tilecrawl/internal/registry"
	"github.com/vovakirdan/tilecrawl/internal/storage"
)

func init() {
	registry.Register("fake", func() registry.Game { return &fakeGame{memSize: 16} })
}

func TestMenuShowsRecord(t *testing.T) {
	store := newTestStore(t)
	for _, r := range []storage.Run{
		{GameID: "fake", Score: 9, Duration: time.Minute},
		{GameID: "fake", Score: 4, Duration: 30 * time.Second},
	} {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	m := NewMenuModel(store, testConfig())
	m.width = 80
	view := m.View()
	if !strings.Contains(view, "best 9 rooms  2 runs  1:30 played") {
		t.Errorf("View() = %q, expected the dungeon record next to the title", view)
	}
	if !strings.Contains(view, "world seed 7") {
		t.Errorf("View() = %q, expected the pinned seed", view)
	}
}

func TestMenuUnexplored(t *testing.T) {
	cfg := testConfig()
	cfg.Seed = 0
	m := NewMenuModel(nil, cfg)
	m.width = 80

	view := m.View()
	if !strings.Contains(view, "unexplored") {
		t.Errorf("View() = %q, expected an unexplored dungeon", view)
	}
	if !strings.Contains(view, "a fresh world every visit") {
		t.Errorf("View() = %q, expected a random seed label", view)
	}
}

func TestMenuItemRecord(t *testing.T) {
	tests := []struct {
		item     MenuItem
		expected string
	}{
		{MenuItem{}, "unexplored"},
		{MenuItem{Best: 3, Runs: 1, Played: 45 * time.Second}, "best 3 rooms  1 run  0:45 played"},
		{MenuItem{Best: 12, Runs: 5, Played: 10 * time.Minute}, "best 12 rooms  5 runs  10:00 played"},
	}
	for _, tt := range tests {
		if got := tt.item.record(); got != tt.expected {
			t.Errorf("record(%+v) = %q, expected %q", tt.item, got, tt.expected)
		}
	}
}

func TestMenuSelect(t *testing.T) {
	m := NewMenuModel(nil, testConfig())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)
	if m.Selected() == nil || m.Selected().GameID != "fake" {
		t.Fatalf("Selected() = %v, expected fake", m.Selected())
	}
	if cmd == nil {
		t.Error("selecting should end the menu program")
	}
}

func TestMenuScoreboardAndQuit(t *testing.T) {
	m := NewMenuModel(nil, testConfig())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !next.(MenuModel).WantsScoreboard() {
		t.Error("Tab should open the scoreboard")
	}

	next, _ = m.Update(runeKey('q'))
	if !next.(MenuModel).IsQuitting() {
		t.Error("q should quit the menu")
	}
}
