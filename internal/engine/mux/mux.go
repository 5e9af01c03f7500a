// Package mux holds the set of open Instances and which one is active,
// the way the teacher's own App/dashboardModel holds a list of child
// models and an active index.
package mux

import (
	"github.com/kimaguri/simplx-toolkit/internal/engine/instance"
)

// Mode selects how the multiplexer's instances are laid out: one at a
// time (Tabs) or several at once (Panes).
type Mode int

const (
	Tabs Mode = iota
	Panes
)

func (m Mode) swap() Mode {
	if m == Tabs {
		return Panes
	}
	return Tabs
}

// Direction is the direction of a MoveActive step.
type Direction int

const (
	Back Direction = iota
	Next
)

// Multiplexer owns every open Instance and the currently active index.
type Multiplexer struct {
	views  []*instance.Instance
	mode   Mode
	active int
	linked bool
}

// New returns an empty Multiplexer in Tabs mode.
func New() *Multiplexer {
	return &Multiplexer{mode: Tabs}
}

func (m *Multiplexer) Len() int      { return len(m.views) }
func (m *Multiplexer) IsEmpty() bool { return len(m.views) == 0 }

// Push appends a new Instance.
func (m *Multiplexer) Push(in *instance.Instance) {
	m.views = append(m.views, in)
}

// CloseActive removes the active Instance and re-clamps the active
// index into range.
func (m *Multiplexer) CloseActive() {
	if len(m.views) == 0 {
		return
	}
	m.views = append(m.views[:m.active], m.views[m.active+1:]...)
	if m.active >= len(m.views) {
		m.active = max0(len(m.views) - 1)
	}
}

// At returns the Instance at idx.
func (m *Multiplexer) At(idx int) *instance.Instance { return m.views[idx] }

// Views returns every open Instance, in order.
func (m *Multiplexer) Views() []*instance.Instance { return m.views }

// Active returns the currently active index.
func (m *Multiplexer) Active() int { return m.active }

// MoveActive steps the active index by one in dir, clamped to range.
func (m *Multiplexer) MoveActive(dir Direction) {
	switch dir {
	case Back:
		m.SetActive(m.active - 1)
	case Next:
		m.SetActive(m.active + 1)
	}
}

// SetActive sets the active index, clamped into [0, len).
func (m *Multiplexer) SetActive(index int) {
	if index < 0 {
		index = 0
	}
	if max := len(m.views) - 1; index > max {
		index = max0(max)
	}
	m.active = index
}

// ActiveInstance returns the currently active Instance, or nil if there
// are none open.
func (m *Multiplexer) ActiveInstance() *instance.Instance {
	if len(m.views) == 0 {
		return nil
	}
	return m.views[m.active]
}

func (m *Multiplexer) Mode() Mode      { return m.mode }
func (m *Multiplexer) SetMode(mo Mode) { m.mode = mo }
func (m *Multiplexer) SwapMode()       { m.mode = m.mode.swap() }

// SetLinked turns linked-filter broadcast on or off: when linked, a
// search or bookmark applied to the active Instance is mirrored onto
// every other open Instance.
func (m *Multiplexer) SetLinked(on bool) { m.linked = on }
func (m *Multiplexer) Linked() bool      { return m.linked }

// ForEachIfLinked runs fn over every Instance other than the active one,
// but only when linked mode is on.
func (m *Multiplexer) ForEachIfLinked(fn func(*instance.Instance)) {
	if !m.linked {
		return
	}
	for i, in := range m.views {
		if i != m.active {
			fn(in)
		}
	}
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
