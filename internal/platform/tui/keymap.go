package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tilecrawl/internal/core"
)

// Terminals report key presses but never key releases, so holding is
// inferred from the auto-repeat stream. The first press has to outlast the
// OS delay before auto-repeat starts (typically 250-660ms); repeats then
// arrive every 30-50ms and only need a short window.
const (
	DefaultFirstHoldWindow  = 500 * time.Millisecond
	DefaultRepeatHoldWindow = 200 * time.Millisecond
)

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to the actions it triggers.
// Shifted directions and upper-case WASD also trigger ActionRun.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (actions []core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return []core.Action{core.ActionQuit}, true

	case "w", "up":
		return []core.Action{core.ActionUp}, false
	case "s", "down":
		return []core.Action{core.ActionDown}, false
	case "a", "left":
		return []core.Action{core.ActionLeft}, false
	case "d", "right":
		return []core.Action{core.ActionRight}, false

	case "W", "shift+up":
		return []core.Action{core.ActionUp, core.ActionRun}, false
	case "S", "shift+down":
		return []core.Action{core.ActionDown, core.ActionRun}, false
	case "A", "shift+left":
		return []core.Action{core.ActionLeft, core.ActionRun}, false
	case "D", "shift+right":
		return []core.Action{core.ActionRight, core.ActionRun}, false
	case " ", "space":
		return []core.Action{core.ActionRun}, false

	case "enter":
		return []core.Action{core.ActionConfirm}, false
	case "b", "esc":
		return []core.Action{core.ActionBack}, false
	case "p":
		return []core.Action{core.ActionPause}, false
	case "r":
		return []core.Action{core.ActionRestart}, false
	case "e":
		return []core.Action{core.ActionEnd}, false
	}

	return nil, false
}

// HeldInput accumulates key presses between ticks and turns them into
// input frames. Movement actions stay held for a window after each press:
// the first window after a fresh press, the repeat window after a press that
// arrives while the key is still held. Everything else fires once on the
// next frame.
type HeldInput struct {
	first   time.Duration
	repeat  time.Duration
	held    map[core.Action]time.Time // Deadline per held action
	pending map[core.Action]bool
}

// NewHeldInput creates an input accumulator with the given first-press and
// repeat hold windows.
func NewHeldInput(first, repeat time.Duration) *HeldInput {
	return &HeldInput{
		first:   first,
		repeat:  repeat,
		held:    make(map[core.Action]time.Time),
		pending: make(map[core.Action]bool),
	}
}

func isHoldable(a core.Action) bool {
	switch a {
	case core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight, core.ActionRun:
		return true
	}
	return false
}

// Press records that a was pressed at now.
func (h *HeldInput) Press(a core.Action, now time.Time) {
	if isHoldable(a) {
		window := h.first
		until, ok := h.held[a]
		if ok && !now.After(until) {
			window = h.repeat
		}
		if next := now.Add(window); !ok || next.After(until) {
			h.held[a] = next
		}
		return
	}
	h.pending[a] = true
}

// Frame builds the input for a tick at now and consumes one-shot actions.
func (h *HeldInput) Frame(now time.Time, dt float64) core.InputFrame {
	frame := core.NewInputFrame()
	frame.DT = dt

	for a, until := range h.held {
		if now.After(until) {
			delete(h.held, a)
			continue
		}
		frame.Set(a)
	}
	for a := range h.pending {
		frame.Set(a)
		delete(h.pending, a)
	}
	return frame
}

// Release forgets every held and pending action.
func (h *HeldInput) Release() {
	clear(h.held)
	clear(h.pending)
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
