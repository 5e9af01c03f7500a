package matchset

import (
	"sort"
	"sync"
)

// Bookmarks is a user-edited, always-sorted set of line numbers. Unlike
// Search it has no worker: every mutation happens synchronously on
// whichever goroutine calls it (in practice, the UI thread), grounded
// directly on Bookmarks::toggle/has_line/nearest_forward/nearest_backward.
type Bookmarks struct {
	mu    sync.RWMutex
	lines []uint64
}

// NewBookmarks creates an empty bookmark set.
func NewBookmarks() *Bookmarks {
	return &Bookmarks{}
}

func (b *Bookmarks) Kind() Kind { return KindBookmarks }

// Toggle inserts line if absent, removes it if present, preserving sort
// order. It reports whether line is now present.
func (b *Bookmarks) Toggle(line uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := sort.Search(len(b.lines), func(i int) bool { return b.lines[i] >= line })
	if i < len(b.lines) && b.lines[i] == line {
		b.lines = append(b.lines[:i], b.lines[i+1:]...)
		return false
	}
	b.lines = append(b.lines, 0)
	copy(b.lines[i+1:], b.lines[i:])
	b.lines[i] = line
	return true
}

func (b *Bookmarks) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

func (b *Bookmarks) Get(i int) (uint64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 || i >= len(b.lines) {
		return 0, false
	}
	return b.lines[i], true
}

func (b *Bookmarks) Contains(line uint64) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i := sort.Search(len(b.lines), func(i int) bool { return b.lines[i] >= line })
	return i < len(b.lines) && b.lines[i] == line
}

func (b *Bookmarks) NearestForward(line uint64) (uint64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i := sort.Search(len(b.lines), func(i int) bool { return b.lines[i] >= line })
	if i >= len(b.lines) {
		return 0, false
	}
	return b.lines[i], true
}

func (b *Bookmarks) NearestBackward(line uint64) (uint64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i := sort.Search(len(b.lines), func(i int) bool { return b.lines[i] > line }) - 1
	if i < 0 {
		return 0, false
	}
	return b.lines[i], true
}

// IsComplete is always true: Bookmarks has no background worker to wait on.
func (b *Bookmarks) IsComplete() bool { return true }
