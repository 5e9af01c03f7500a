package instance

import (
	"github.com/kimaguri/simplx-toolkit/internal/engine/buffer"
	"github.com/kimaguri/simplx-toolkit/internal/engine/composite"
	"github.com/kimaguri/simplx-toolkit/internal/engine/segment"
)

// Line is one materialized, rendered row: its position in the composite
// (virtual index), the underlying buffer line number, its text, and
// whether it's currently bookmarked.
type Line struct {
	VirtualIndex int
	LineNumber   int
	Text         segment.Str
	Bookmarked   bool
}

// ViewCache holds the materialized lines for the composite's currently
// visible window, rebuilding only the slice that changed.
type ViewCache struct {
	composite *composite.Composite
	top       int
	height    int
	lines     []Line
}

// NewViewCache wraps c with an empty window.
func NewViewCache(c *composite.Composite) *ViewCache {
	return &ViewCache{composite: c}
}

// Composite returns the current Composite handle.
func (vc *ViewCache) Composite() *composite.Composite { return vc.composite }

// Replace installs a new Composite handle, discarding the cached window
// (the old handle's worker may now be cancelled by the caller).
func (vc *ViewCache) Replace(c *composite.Composite) {
	vc.composite = c
	vc.lines = nil
}

// lineNumberAt resolves virtual index i to a buffer line number, either
// directly (identity composite) or via the merged composite's storage.
func (vc *ViewCache) lineNumberAt(i int) (int, bool) {
	if vc.composite.Identity() {
		return i, true
	}
	v, ok := vc.composite.Get(i)
	return int(v), ok
}

// Rebuild materializes rows [top, top+height) from buf, marking any line
// present in bookmarks.
func (vc *ViewCache) Rebuild(buf *buffer.Buffer, top, height int, bookmarkSet func(int) bool) {
	vc.top = top
	vc.height = height
	vc.lines = vc.lines[:0]

	for i := top; i < top+height; i++ {
		ln, ok := vc.lineNumberAt(i)
		if !ok {
			break
		}
		text, err := buf.GetLine(ln)
		if err != nil {
			break
		}
		vc.lines = append(vc.lines, Line{
			VirtualIndex: i,
			LineNumber:   ln,
			Text:         text,
			Bookmarked:   bookmarkSet(ln),
		})
	}
}

// Lines returns the currently materialized window.
func (vc *ViewCache) Lines() []Line { return vc.lines }

// Invalidate drops the cached window without changing the composite
// handle, used when only per-line color/flag state changed.
func (vc *ViewCache) Invalidate() { vc.lines = nil }
