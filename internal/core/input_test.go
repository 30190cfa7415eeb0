package core

import "testing"

func TestInputFrameLastMove(t *testing.T) {
	f := NewInputFrame()
	if f.LastMove() != ActionNone {
		t.Errorf("empty frame LastMove() = %v", f.LastMove())
	}

	f.Set(ActionLeft)
	f.Set(ActionPause)
	f.Set(ActionUp)
	if f.LastMove() != ActionUp {
		t.Errorf("LastMove() = %v, expected Up", f.LastMove())
	}
	if !f.Has(ActionLeft) || !f.Has(ActionPause) {
		t.Error("earlier actions should still be set")
	}

	clone := f.Clone()
	f.Clear()
	if f.LastMove() != ActionNone || f.Has(ActionUp) {
		t.Error("Clear should reset the frame")
	}
	if clone.LastMove() != ActionUp || !clone.Has(ActionPause) {
		t.Error("clone should be independent of the original")
	}
}

func TestInputFrameZeroValue(t *testing.T) {
	var f InputFrame
	if f.Has(ActionQuit) {
		t.Error("zero frame should have no actions")
	}
	f.Set(ActionQuit)
	if !f.Has(ActionQuit) {
		t.Error("Set on zero frame should allocate")
	}
}

func TestFrameOf(t *testing.T) {
	f := FrameOf(ActionRight, ActionDown)
	if f.LastMove() != ActionDown {
		t.Errorf("LastMove() = %v, expected Down", f.LastMove())
	}
}

func TestActionIsMove(t *testing.T) {
	moves := map[Action]bool{
		ActionUp:      true,
		ActionDown:    true,
		ActionLeft:    true,
		ActionRight:   true,
		ActionPause:   false,
		ActionRestart: false,
		ActionNone:    false,
	}
	for a, want := range moves {
		if a.IsMove() != want {
			t.Errorf("%v.IsMove() = %v, expected %v", a, a.IsMove(), want)
		}
	}
}
