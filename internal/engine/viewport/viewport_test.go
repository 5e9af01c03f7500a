package viewport

import "testing"

func TestFitAndLineRange(t *testing.T) {
	v := New()
	v.UpdateEnd(100)
	v.Fit(10, 80)
	top, bottom := v.LineRange()
	if top != 0 || bottom != 10 {
		t.Fatalf("got [%d,%d), want [0,10)", top, bottom)
	}
}

func TestJumpToMinimalMovement(t *testing.T) {
	v := New()
	v.UpdateEnd(1000)
	v.Fit(10, 80)

	v.JumpTo(5)
	if v.Top() != 0 {
		t.Fatalf("index already visible should not move top, got %d", v.Top())
	}

	v.JumpTo(50)
	top, bottom := v.LineRange()
	if 50 < top || 50 >= bottom {
		t.Fatalf("index 50 not visible in [%d,%d)", top, bottom)
	}

	v.JumpTo(0)
	if v.Top() != 0 {
		t.Fatalf("expected top 0 after jumping back to start, got %d", v.Top())
	}
}

func TestFollowTracksEnd(t *testing.T) {
	v := New()
	v.UpdateEnd(20)
	v.Fit(5, 80)
	v.Follow()
	v.UpdateEnd(20)
	if v.Top() != 15 {
		t.Fatalf("expected top 15 while following, got %d", v.Top())
	}
	v.UpdateEnd(30)
	if v.Top() != 25 {
		t.Fatalf("expected top 25 while following, got %d", v.Top())
	}
}

func TestPanVerticalDisablesFollow(t *testing.T) {
	v := New()
	v.UpdateEnd(20)
	v.Fit(5, 80)
	v.Follow()
	v.UpdateEnd(20)
	v.PanVertical(Back, 3)
	if v.Top() != 12 {
		t.Fatalf("expected top 12 after panning back 3 from 15, got %d", v.Top())
	}
	// A subsequent UpdateEnd should no longer re-snap to the bottom.
	v.UpdateEnd(25)
	if v.Top() != 12 {
		t.Fatalf("expected follow to stay disabled, top=%d", v.Top())
	}
}

func TestCursorSingletonMovement(t *testing.T) {
	cs := NewCursorState()
	cs.Forward(false, func(i int) int { return i + 1 })
	if cs.State.Kind != Singleton || cs.State.Index != 1 {
		t.Fatalf("expected singleton at 1, got %+v", cs.State)
	}
}

func TestCursorSelectionGrowsAndCollapses(t *testing.T) {
	cs := NewCursorState()
	cs.State = Cursor{Kind: Singleton, Index: 5}

	cs.Forward(true, func(i int) int { return i + 3 })
	if cs.State.Kind != Selection || cs.State.Start != 5 || cs.State.End != 8 {
		t.Fatalf("expected selection [5,8), got %+v", cs.State)
	}

	cs.Forward(false, nil)
	if cs.State.Kind != Singleton || cs.State.Index != 8 {
		t.Fatalf("expected collapse to end 8, got %+v", cs.State)
	}
}

func TestCursorBackReversesIntoFlippedOrigin(t *testing.T) {
	cs := NewCursorState()
	cs.State = Cursor{Kind: Singleton, Index: 5}
	cs.Back(true, func(i int) int { return i - 2 })
	if cs.State.Kind != Selection || cs.State.Start != 3 || cs.State.End != 5 {
		t.Fatalf("expected selection [3,5), got %+v", cs.State)
	}
}
