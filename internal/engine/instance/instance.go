// Package instance ties one buffer to its filters, viewport, cursor, and
// materialized view cache: everything a single pane of the multiplexer
// needs to render and navigate.
package instance

import (
	"fmt"

	"github.com/kimaguri/simplx-toolkit/internal/engine/buffer"
	"github.com/kimaguri/simplx-toolkit/internal/engine/composite"
	"github.com/kimaguri/simplx-toolkit/internal/engine/compositor"
	"github.com/kimaguri/simplx-toolkit/internal/engine/viewport"
)

// ViewDelta is how far a move-selection request should travel.
type ViewDelta struct {
	Kind  ViewDeltaKind
	Lines int
}

type ViewDeltaKind int

const (
	DeltaLines ViewDeltaKind = iota
	DeltaPage
	DeltaHalfPage
	DeltaBoundary
)

// Instance is one open buffer: its name, data, filters, viewport, cursor,
// and the cache of currently materialized lines.
type Instance struct {
	name       string
	buf        *buffer.Buffer
	compositor *compositor.Compositor
	viewport   *viewport.Viewport
	cursor     *viewport.CursorState
	view       *ViewCache
	follow     bool
}

// New creates an Instance named name over buf.
func New(name string, buf *buffer.Buffer) *Instance {
	c := compositor.New(buf)
	return &Instance{
		name:       name,
		buf:        buf,
		compositor: c,
		viewport:   viewport.New(),
		cursor:     viewport.NewCursorState(),
		view:       NewViewCache(c.Current()),
	}
}

func (in *Instance) Name() string                  { return in.name }
func (in *Instance) Buffer() *buffer.Buffer        { return in.buf }
func (in *Instance) Viewport() *viewport.Viewport  { return in.viewport }
func (in *Instance) Cursor() *viewport.CursorState { return in.cursor }

// Filters returns the Compositor's ordered filter list, for UI panels
// that need to list, toggle, or remove them.
func (in *Instance) Filters() []*compositor.Filter { return in.compositor.Filters() }

// Strategy reports the Compositor's current merge strategy.
func (in *Instance) Strategy() composite.Strategy { return in.compositor.Strategy() }

// SelectedFilter returns the index of the filter panel's current selection.
func (in *Instance) SelectedFilter() int { return in.compositor.SelectedCursor() }

// MoveFilterSelection shifts the filter panel's selection by delta.
func (in *Instance) MoveFilterSelection(delta int) { in.compositor.MoveSelection(delta) }

// SetFollowOutput turns output-follow mode on or off.
func (in *Instance) SetFollowOutput(on bool) {
	in.follow = on
	if on {
		in.viewport.Follow()
	}
}

func (in *Instance) IsFollowingOutput() bool { return in.follow }

// VisibleLineCount returns the composite's current line count.
func (in *Instance) VisibleLineCount() int {
	if in.compositor.Current().Identity() {
		return in.buf.LineCount()
	}
	return in.compositor.Current().Len()
}

// NearestIndex returns the virtual index whose underlying line number is
// the nearest one at or before lineNumber.
func (in *Instance) NearestIndex(lineNumber int) (int, bool) {
	c := in.compositor.Current()
	if c.Identity() {
		if lineNumber >= in.buf.LineCount() {
			return in.buf.LineCount() - 1, in.buf.LineCount() > 0
		}
		return lineNumber, true
	}
	for i := c.Len() - 1; i >= 0; i-- {
		v, ok := c.Get(i)
		if ok && int(v) <= lineNumber {
			return i, true
		}
	}
	return 0, false
}

// View refits the viewport to (height, width), rebuilds the materialized
// window, and returns it.
func (in *Instance) View(height, width int) []Line {
	in.viewport.UpdateEnd(in.VisibleLineCount())
	in.viewport.Fit(height, width)
	top, bottom := in.viewport.LineRange()
	in.view.Rebuild(in.buf, top, bottom-top, func(ln int) bool {
		return in.compositor.Bookmarks().Contains(uint64(ln))
	})
	return in.view.Lines()
}

// AddSearch compiles pattern into a new, enabled search filter.
func (in *Instance) AddSearch(name, pattern, color string) (int, error) {
	idx, err := in.compositor.AddSearch(name, pattern, color, in.buf)
	if err != nil {
		return -1, err
	}
	in.invalidate()
	return idx, nil
}

// ToggleFilter flips whether filter i contributes to the composite.
func (in *Instance) ToggleFilter(i int) error {
	if err := in.compositor.Toggle(i); err != nil {
		return err
	}
	in.invalidate()
	return nil
}

// RemoveFilter deletes filter i.
func (in *Instance) RemoveFilter(i int) error {
	if err := in.compositor.Remove(i); err != nil {
		return err
	}
	in.invalidate()
	return nil
}

// SetStrategy sets the compositor's merge strategy.
func (in *Instance) SetStrategy(s composite.Strategy) {
	in.compositor.SetStrategy(s)
	in.invalidate()
}

// ToggleBookmark toggles lineNumber in the Bookmarks filter and
// invalidates only what's necessary: the composite is rebuilt if the
// Bookmarks filter is enabled and lineNumber wasn't already covered by
// some other enabled filter; otherwise only the materialized window
// (whose bookmarked flags need a refresh) is dropped.
func (in *Instance) ToggleBookmark(lineNumber int) {
	coveredElsewhere := in.lineCoveredByOtherFilter(lineNumber)
	in.compositor.Bookmarks().Toggle(uint64(lineNumber))
	if in.compositor.Filters()[1].Enabled && !coveredElsewhere {
		in.compositor.RebuildComposite()
		in.invalidate()
	} else {
		in.view.Invalidate()
	}
}

func (in *Instance) lineCoveredByOtherFilter(lineNumber int) bool {
	for _, f := range in.compositor.Filters() {
		if f.Name == "Bookmarks" || !f.Enabled {
			continue
		}
		if f.Set.Contains(uint64(lineNumber)) {
			return true
		}
	}
	return false
}

// JumpToVirtual moves the viewport to make virtual index i visible.
func (in *Instance) JumpToVirtual(i int) {
	in.viewport.JumpTo(i)
}

// MoveSelect moves the cursor by delta in dir, optionally extending a
// selection, then brings it into view.
func (in *Instance) MoveSelect(dir viewport.Direction, sel bool, delta ViewDelta) {
	compute := func(i int) int {
		switch delta.Kind {
		case DeltaPage:
			return in.viewport.Height()
		case DeltaHalfPage:
			return (in.viewport.Height() + 1) / 2
		case DeltaBoundary:
			return int(^uint(0) >> 1)
		default:
			return delta.Lines
		}
	}

	switch dir {
	case viewport.Back:
		in.cursor.Back(sel, func(i int) int { return satSub(i, compute(i)) })
	case viewport.Next:
		in.cursor.Forward(sel, func(i int) int { return satAdd(i, compute(i)) })
	}
	in.cursor.Clamp(satSub(in.VisibleLineCount(), 1))

	idx := in.cursor.State.Index
	if in.cursor.State.Kind == viewport.Selection {
		switch in.cursor.State.Origin {
		case viewport.OriginLeft:
			idx = in.cursor.State.Start
		case viewport.OriginRight:
			idx = in.cursor.State.End
		}
	}
	in.viewport.JumpTo(idx)
}

// Export writes the composite's current line set to w as the buffer's
// matching lines, one per line.
func (in *Instance) Export(w interface{ Write([]byte) (int, error) }) error {
	n := in.VisibleLineCount()
	for i := 0; i < n; i++ {
		ln, ok := in.view.lineNumberAt(i)
		if !ok {
			break
		}
		text, err := in.buf.GetLine(ln)
		if err != nil {
			return fmt.Errorf("instance: export line %d: %w", ln, err)
		}
		if _, err := w.Write([]byte(text.String() + "\n")); err != nil {
			return err
		}
	}
	return nil
}

// invalidate re-points the view cache at the compositor's freshly
// rebuilt composite handle, dropping any materialized window that
// referenced the superseded one.
func (in *Instance) invalidate() {
	in.view.Replace(in.compositor.Current())
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
		return int(^uint(0) >> 1)
	}
	return r
}
