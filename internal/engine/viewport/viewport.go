// Package viewport implements the windowed view over a composite's line
// numbers, and the singleton/selection cursor used to navigate it.
package viewport

// Direction is the direction of a pan or cursor movement.
type Direction int

const (
	Back Direction = iota
	Next
)

// Viewport is a rectangular window over a virtual line sequence of
// length End, ported field-for-field from the original's Viewport.
type Viewport struct {
	end    int
	top    int
	left   int
	height int
	width  int
	follow bool
}

// New returns a zero-sized Viewport, matching Viewport::new.
func New() *Viewport { return &Viewport{} }

func (v *Viewport) Height() int { return v.height }
func (v *Viewport) Width() int  { return v.width }
func (v *Viewport) Top() int    { return v.top }
func (v *Viewport) Left() int   { return v.left }
func (v *Viewport) End() int    { return v.end }

// Fit resizes the viewport to height x width and re-clamps its position.
func (v *Viewport) Fit(height, width int) {
	v.height = height
	v.width = width
	v.fixup()
}

func (v *Viewport) bottom() int { return v.top + v.height }

func (v *Viewport) fixup() {
	if v.top >= v.end {
		v.top = satSub(v.end, 1)
	}
	if v.height > v.end {
		v.height = v.end
	}
	if v.follow {
		v.top = satSub(v.end, v.height)
	}
}

// JumpTo moves the viewport by the minimal amount needed to bring index
// into view, preferring whichever edge is closer.
func (v *Viewport) JumpTo(index int) {
	if index >= v.top && index < v.bottom() {
		return
	}
	if absDiff(v.top, index) < absDiff(v.bottom(), index) {
		v.top = index
	} else {
		v.top = satAdd(satSub(index, v.height), 1)
	}
}

// PanVertical scrolls the top of the viewport by delta lines and turns
// off follow mode.
func (v *Viewport) PanVertical(dir Direction, delta int) {
	v.follow = false
	switch dir {
	case Back:
		v.top = satSub(v.top, delta)
	case Next:
		v.top = min(satAdd(v.top, delta), satSub(v.end, 1))
	}
}

// PanHorizontal scrolls the left edge of the viewport by delta columns.
func (v *Viewport) PanHorizontal(dir Direction, delta int) {
	switch dir {
	case Back:
		v.left = satSub(v.left, delta)
	case Next:
		v.left = satAdd(v.left, delta)
	}
}

// Follow turns on follow-output mode: the viewport tracks End on every
// subsequent UpdateEnd call.
func (v *Viewport) Follow() { v.follow = true }

// UpdateEnd sets the virtual line count and re-clamps the viewport.
func (v *Viewport) UpdateEnd(maxHeight int) {
	v.end = maxHeight
	v.fixup()
}

// LineRange returns the half-open range of virtual line indices
// currently visible.
func (v *Viewport) LineRange() (int, int) {
	b := v.bottom()
	if b > v.end {
		b = v.end
	}
	return v.top, b
}

func satSub(a, b int) int {
	if a < b {
		return 0
	}
	return a - b
}

func satAdd(a, b int) int {
	r := a + b
	if r < a {
		return int(^uint(0) >> 1) // overflow clamp, unreachable for line counts in practice
	}
	return r
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
