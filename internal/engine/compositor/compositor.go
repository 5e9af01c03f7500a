// Package compositor owns the ordered list of filters for one Instance
// (All, Bookmarks, and zero or more Searches) and produces the current
// Composite over whichever of them are enabled.
package compositor

import (
	"fmt"

	"github.com/kimaguri/simplx-toolkit/internal/engine/composite"
	"github.com/kimaguri/simplx-toolkit/internal/engine/matchset"
)

// Filter is one entry in a Compositor's ordered list. All and Bookmarks
// are fixed singletons at positions 0 and 1; Search filters follow at
// positions 2 and up.
type Filter struct {
	Name    string
	Color   string
	Enabled bool
	Set     matchset.MatchSet
}

// Compositor holds one Instance's filter list and rebuilds a Composite
// whenever the enabled set, the merge strategy, or an input's identity
// changes.
type Compositor struct {
	filters  []*Filter // filters[0] = All, filters[1] = Bookmarks
	strategy composite.Strategy
	current  *composite.Composite
	selected int
}

// New creates a Compositor with its two mandatory singleton filters
// already installed: All enabled, Bookmarks disabled.
func New(src matchset.LineCounter) *Compositor {
	c := &Compositor{
		filters: []*Filter{
			{Name: "All", Enabled: true, Set: matchset.NewAll(src)},
			{Name: "Bookmarks", Enabled: false, Set: matchset.NewBookmarks()},
		},
	}
	c.RebuildComposite()
	return c
}

// AddSearch compiles pattern and appends a new, enabled search filter.
func (c *Compositor) AddSearch(name, pattern, color string, src matchset.SegmentSource) (int, error) {
	s, err := matchset.NewSearch(pattern, src)
	if err != nil {
		return -1, fmt.Errorf("compositor: add search %q: %w", name, err)
	}
	c.filters = append(c.filters, &Filter{Name: name, Color: color, Enabled: true, Set: s})
	c.RebuildComposite()
	return len(c.filters) - 1, nil
}

// Remove deletes the filter at index i. Removing index 0 or 1 (All,
// Bookmarks) is rejected: those are per-Instance singletons.
func (c *Compositor) Remove(i int) error {
	if i < 2 || i >= len(c.filters) {
		return fmt.Errorf("compositor: index %d is not a removable filter", i)
	}
	if s, ok := c.filters[i].Set.(interface{ Close() }); ok {
		s.Close()
	}
	c.filters = append(c.filters[:i], c.filters[i+1:]...)
	if c.selected >= len(c.filters) {
		c.selected = len(c.filters) - 1
	}
	c.RebuildComposite()
	return nil
}

// Toggle flips whether filter i contributes to the composite.
func (c *Compositor) Toggle(i int) error {
	if i < 0 || i >= len(c.filters) {
		return fmt.Errorf("compositor: index %d out of range", i)
	}
	c.filters[i].Enabled = !c.filters[i].Enabled
	c.RebuildComposite()
	return nil
}

// Strategy returns the merge strategy currently used to build the composite.
func (c *Compositor) Strategy() composite.Strategy { return c.strategy }

// SetStrategy sets the merge strategy used to build the composite.
func (c *Compositor) SetStrategy(s composite.Strategy) {
	if c.strategy == s {
		return
	}
	c.strategy = s
	c.RebuildComposite()
}

// Filters returns the current ordered filter list. Callers must not
// mutate the returned slice.
func (c *Compositor) Filters() []*Filter { return c.filters }

// Bookmarks returns the Bookmarks singleton at index 1.
func (c *Compositor) Bookmarks() *matchset.Bookmarks {
	return c.filters[1].Set.(*matchset.Bookmarks)
}

// Current returns the Compositor's current Composite handle.
func (c *Compositor) Current() *composite.Composite { return c.current }

// SelectedCursor returns the index of the currently selected filter, used
// by the UI to highlight a row in the filter panel.
func (c *Compositor) SelectedCursor() int { return c.selected }

// MoveSelection shifts the selected filter index by delta, clamped to the
// filter list's bounds.
func (c *Compositor) MoveSelection(delta int) {
	c.selected += delta
	if c.selected < 0 {
		c.selected = 0
	}
	if c.selected >= len(c.filters) {
		c.selected = len(c.filters) - 1
	}
}

// RebuildComposite drops the old composite handle (cancelling any worker
// it alone was keeping alive by readership) and installs a new one built
// from the currently enabled filters.
func (c *Compositor) RebuildComposite() {
	old := c.current

	var enabled []matchset.MatchSet
	for _, f := range c.filters {
		if f.Enabled {
			enabled = append(enabled, f.Set)
		}
	}
	c.current = composite.New(enabled, c.strategy)

	if old != nil {
		old.Close()
	}
}
