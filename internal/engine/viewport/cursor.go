package viewport

// SelectionOrigin records which end of a Selection is being moved:
// extending an OriginRight selection moves End, extending an OriginLeft
// selection moves Start, and the other end stays fixed as the anchor.
type SelectionOrigin int

const (
	OriginRight SelectionOrigin = iota
	OriginLeft
)

func (o SelectionOrigin) flip() SelectionOrigin {
	if o == OriginRight {
		return OriginLeft
	}
	return OriginRight
}

// CursorKind distinguishes a single-line cursor from a range selection.
type CursorKind int

const (
	Singleton CursorKind = iota
	Selection
)

// Cursor is either a single line index or a [start, end] range with an
// origin, mirroring the original's Cursor enum.
type Cursor struct {
	Kind   CursorKind
	Index  int // valid when Kind == Singleton
	Start  int // valid when Kind == Selection
	End    int
	Origin SelectionOrigin
}

// newRange builds a Cursor from a possibly-unordered (start, end) pair,
// normalizing to Singleton when they're equal and flipping the origin
// when start/end arrive reversed.
func newRange(start, end int, origin SelectionOrigin) Cursor {
	switch {
	case start < end:
		return Cursor{Kind: Selection, Start: start, End: end, Origin: origin}
	case start == end:
		return Cursor{Kind: Singleton, Index: start}
	default:
		return Cursor{Kind: Selection, Start: end, End: start, Origin: origin.flip()}
	}
}

// CursorState owns the current Cursor and evolves it in response to
// navigation input.
type CursorState struct {
	State Cursor
}

// NewCursorState returns a cursor sitting at line 0.
func NewCursorState() *CursorState {
	return &CursorState{State: Cursor{Kind: Singleton, Index: 0}}
}

// Clamp bounds every index in the current cursor to [0, bound].
func (c *CursorState) Clamp(bound int) {
	switch c.State.Kind {
	case Singleton:
		c.State = Cursor{Kind: Singleton, Index: min(c.State.Index, bound)}
	case Selection:
		c.State = newRange(min(c.State.Start, bound), min(c.State.End, bound), c.State.Origin)
	}
}

// Reset replaces the cursor with a fresh singleton at 0, returning the
// previous state.
func (c *CursorState) Reset() Cursor {
	old := c.State
	c.State = Cursor{Kind: Singleton, Index: 0}
	return old
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Back moves the cursor toward lower indices via transform. If select is
// true a Singleton grows into an OriginLeft Selection (its Start moves,
// anchored at the old index); an existing
// Selection either extends (following its origin) or, when not
// selecting, collapses to its start.
func (c *CursorState) Back(sel bool, transform func(int) int) {
	switch c.State.Kind {
	case Singleton:
		i := c.State.Index
		if sel && i > 0 {
			c.State = Cursor{Kind: Selection, Start: transform(i), End: i, Origin: OriginLeft}
		} else {
			c.State = Cursor{Kind: Singleton, Index: transform(i)}
		}
	case Selection:
		if sel {
			switch c.State.Origin {
			case OriginRight:
				c.State = newRange(c.State.Start, transform(c.State.End), c.State.Origin)
			case OriginLeft:
				c.State = newRange(transform(c.State.Start), c.State.End, c.State.Origin)
			}
		} else {
			c.State = Cursor{Kind: Singleton, Index: c.State.Start}
		}
	}
}

// Forward moves the cursor toward higher indices, symmetric to Back.
func (c *CursorState) Forward(sel bool, transform func(int) int) {
	switch c.State.Kind {
	case Singleton:
		i := c.State.Index
		if sel {
			c.State = newRange(i, transform(i), OriginRight)
		} else {
			c.State = Cursor{Kind: Singleton, Index: transform(i)}
		}
	case Selection:
		if sel {
			switch c.State.Origin {
			case OriginRight:
				c.State = newRange(c.State.Start, transform(c.State.End), c.State.Origin)
			case OriginLeft:
				c.State = newRange(transform(c.State.Start), c.State.End, c.State.Origin)
			}
		} else {
			c.State = Cursor{Kind: Singleton, Index: c.State.End}
		}
	}
}
