package matchset

import (
	"fmt"
	"regexp"

	"github.com/rs/zerolog/log"

	"github.com/kimaguri/simplx-toolkit/internal/engine/cowvec"
	"github.com/kimaguri/simplx-toolkit/internal/engine/lineindex"
)

// MaxPatternLen bounds the length, in bytes, of a regex's pattern text.
// Go's regexp has no direct analogue of the original's configurable
// size-limit parameter to a DFA builder, so this package approximates it
// by rejecting patterns whose source text (Regexp.String) is longer than
// this; the compiled program's size is not measured.
const MaxPatternLen = 1 << 16

// SegmentSource is the slice of buffer.Buffer a Search worker needs: a
// line-aligned walk over the raw, unvalidated bytes backing the buffer,
// with enough of the line index exposed to translate a match's absolute
// byte offset back to a line number. This is the sole input Search scans;
// it never reads per-line, UTF-8-validated strings, because a lossy
// UTF-8 rewrite can shift byte positions and corrupt offset-to-line
// translation for any line containing invalid UTF-8.
type SegmentSource interface {
	SegmentIter(fn func(idx *lineindex.Index, absStart uint64, data []byte) bool) error
}

// ErrPatternTooLarge is returned by NewSearch (never as a panic) when a
// pattern compiles but its text is longer than MaxPatternLen.
type ErrPatternTooLarge struct {
	Pattern string
}

func (e *ErrPatternTooLarge) Error() string {
	return fmt.Sprintf("pattern %q exceeded size limit", e.Pattern)
}

// Search is a MatchSet backed by a regex run against a SegmentSource in
// the background. Matching lines are pushed in increasing order; multiple
// matches on one line collapse to a single push (dedup-by-last-pushed).
type Search struct {
	pattern string
	re      *regexp.Regexp
	reader  *cowvec.Reader[uint64]
}

// NewSearch compiles pattern and starts a worker scanning src's segments
// until SegmentIter returns. It returns synchronously: a compile error or
// a too-large pattern is reported immediately and no worker is started,
// matching spec error ordering.
func NewSearch(pattern string, src SegmentSource) (*Search, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("search: compile %q: %w", pattern, err)
	}
	if len(re.String()) > MaxPatternLen {
		return nil, &ErrPatternTooLarge{Pattern: pattern}
	}

	reader, writer := cowvec.New[uint64]()
	s := &Search{pattern: pattern, re: re, reader: reader}
	go runSearch(writer, re, src)
	return s, nil
}

// runSearch scans each line-aligned chunk src.SegmentIter hands it with
// re.FindAllIndex, translating each match's absolute byte offset back to
// a line number. Multiple matches on one line collapse to a single push,
// and a chunk boundary can never split that dedup because SegmentIter's
// chunks are always line-aligned.
func runSearch(writer *cowvec.Writer[uint64], re *regexp.Regexp, src SegmentSource) {
	defer writer.Close()

	lastPushed := -1
	err := src.SegmentIter(func(idx *lineindex.Index, absStart uint64, data []byte) bool {
		if !writer.HasReaders() {
			return false
		}
		for _, loc := range re.FindAllIndex(data, -1) {
			ln, ok := idx.LineOfOffset(absStart + uint64(loc[0]))
			if !ok || ln == lastPushed {
				continue
			}
			writer.Push(uint64(ln))
			lastPushed = ln
		}
		return true
	})
	if err != nil {
		log.Error().Err(err).Str("pattern", re.String()).Msg("search: segment iteration failed")
	}
}

// Pattern returns the regex text this Search was compiled from.
func (s *Search) Pattern() string { return s.pattern }

func (s *Search) Kind() Kind { return KindSearch }

func (s *Search) Len() int { return s.reader.Len() }

func (s *Search) Get(i int) (uint64, bool) { return s.reader.Get(i) }

func (s *Search) Contains(line uint64) bool {
	snap := s.reader.Snapshot()
	n := snap.Len()
	lo, hi := 0, n
	for lo < hi {
		mid := lo + (hi-lo)/2
		v, _ := snap.Get(mid)
		if v < line {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo >= n {
		return false
	}
	v, _ := snap.Get(lo)
	return v == line
}

func (s *Search) NearestForward(line uint64) (uint64, bool) {
	snap := s.reader.Snapshot()
	n := snap.Len()
	lo, hi := 0, n
	for lo < hi {
		mid := lo + (hi-lo)/2
		v, _ := snap.Get(mid)
		if v < line {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo >= n {
		return 0, false
	}
	return snap.Get(lo)
}

func (s *Search) NearestBackward(line uint64) (uint64, bool) {
	snap := s.reader.Snapshot()
	n := snap.Len()
	lo, hi := 0, n
	for lo < hi {
		mid := lo + (hi-lo)/2
		v, _ := snap.Get(mid)
		if v > line {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	if lo == 0 {
		return 0, false
	}
	return snap.Get(lo - 1)
}

func (s *Search) IsComplete() bool { return s.reader.IsComplete() }

// Close drops this Search's reader handle, which the composite/compositor
// layers use to cancel the background worker once nothing reads it.
func (s *Search) Close() { s.reader.Close() }
