package core

import "testing"

func TestInputFrameDirection(t *testing.T) {
	tests := []struct {
		name   string
		held   []Action
		dx, dy float64
	}{
		{"idle", nil, 0, 0},
		{"up", []Action{ActionUp}, 0, 1},
		{"down left", []Action{ActionDown, ActionLeft}, -1, -1},
		{"opposites cancel", []Action{ActionLeft, ActionRight, ActionUp}, 0, 1},
		{"run alone does not move", []Action{ActionRun}, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := NewInputFrame()
			for _, a := range tc.held {
				f.Set(a)
			}
			dx, dy := f.Direction()
			if dx != tc.dx || dy != tc.dy {
				t.Errorf("Direction() = (%v, %v), expected (%v, %v)", dx, dy, tc.dx, tc.dy)
			}
		})
	}
}

func TestInputFrameClearAndClone(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionRun)
	f.DT = 0.016

	c := f.Clone()
	f.Clear()

	if f.Has(ActionRun) || f.DT != 0 {
		t.Errorf("Clear() left state behind: %+v", f)
	}
	if !c.Has(ActionRun) || c.DT != 0.016 {
		t.Errorf("Clone() should be independent, got %+v", c)
	}

	var zero InputFrame
	if zero.Has(ActionUp) {
		t.Error("zero InputFrame should have no actions")
	}
}

func TestActionString(t *testing.T) {
	if ActionEnd.String() != "End" {
		t.Errorf("ActionEnd.String() = %q, expected End", ActionEnd.String())
	}
	if Action(100).String() != "Unknown" {
		t.Errorf("Action(100).String() = %q, expected Unknown", Action(100).String())
	}
}
