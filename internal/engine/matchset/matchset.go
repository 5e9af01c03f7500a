// Package matchset implements the three ways a set of line numbers can be
// produced over a buffer: every line (All), a regex search (Search), and a
// user-edited set of bookmarks (Bookmarks).
package matchset

// Kind identifies which MatchSet representation a Filter holds.
type Kind int

const (
	KindAll Kind = iota
	KindBookmarks
	KindSearch
)

func (k Kind) String() string {
	switch k {
	case KindAll:
		return "all"
	case KindBookmarks:
		return "bookmarks"
	case KindSearch:
		return "search"
	default:
		return "unknown"
	}
}

// MatchSet is a strictly increasing sequence of line numbers, produced
// either synchronously (Bookmarks, All) or by a background worker
// (Search). Get uses a point-in-time snapshot so concurrent appends by a
// worker never invalidate an index returned by a previous call.
type MatchSet interface {
	Kind() Kind
	Len() int
	Get(i int) (uint64, bool)
	Contains(line uint64) bool
	NearestForward(line uint64) (uint64, bool)
	NearestBackward(line uint64) (uint64, bool)
	IsComplete() bool
}

// LineCounter reports how many lines a buffer currently knows about. All
// is defined relative to one of these rather than to a concrete buffer
// type, so this package stays independent of internal/engine/buffer.
type LineCounter interface {
	LineCount() int
	IsComplete() bool
}
