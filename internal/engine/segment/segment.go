// Package segment provides fixed-size, memory-mapped byte ranges over a
// file or stream, plus the zero-copy line strings sliced out of them.
package segment

import (
	"fmt"
	"os"
	"unicode/utf8"
)

// Max is the largest byte range a single Segment may cover. 1 MiB, matching
// the recommended SEGMENT_MAX boundary.
const Max uint64 = 1 << 20

// Segment is a half-open byte range [Start, End) of a file or stream,
// mapped read-only. It is immutable after construction; the zero value is
// not useful.
type Segment struct {
	id    uint64
	start uint64
	data  []byte
	close func() error
}

// ID returns the segment's index, floor(start / Max).
func (s *Segment) ID() uint64 { return s.id }

// Start returns the absolute byte offset this segment begins at.
func (s *Segment) Start() uint64 { return s.start }

// End returns the absolute byte offset this segment ends at (exclusive).
func (s *Segment) End() uint64 { return s.start + uint64(len(s.data)) }

// Bytes returns the segment's full backing slice.
func (s *Segment) Bytes() []byte { return s.data }

// translate converts an absolute file offset range into a segment-local
// slice, panicking if the range is not wholly contained (the spec requires
// this; a caller requesting a range outside segment bounds has a bug).
func (s *Segment) translate(fileStart, fileEnd uint64) (int, int) {
	if fileStart < s.start || fileEnd > s.End() || fileStart > fileEnd {
		panic(fmt.Sprintf("segment: range [%d,%d) not contained in [%d,%d)", fileStart, fileEnd, s.start, s.End()))
	}
	return int(fileStart - s.start), int(fileEnd - s.start)
}

// BytesAt returns the sub-slice of this segment corresponding to the
// absolute byte range [fileStart, fileEnd).
func (s *Segment) BytesAt(fileStart, fileEnd uint64) []byte {
	a, b := s.translate(fileStart, fileEnd)
	return s.data[a:b]
}

// Close releases the underlying mapping. Safe to call multiple times.
func (s *Segment) Close() error {
	if s.close == nil {
		return nil
	}
	c := s.close
	s.close = nil
	return c()
}

// MapFile maps the byte range [start, end) of file into memory read-only.
func MapFile(file *os.File, start, end uint64) (*Segment, error) {
	data, closeFn, err := mmapFile(file, start, end-start)
	if err != nil {
		return nil, fmt.Errorf("segment: map file range [%d,%d): %w", start, end, err)
	}
	return &Segment{id: start / Max, start: start, data: data, close: closeFn}, nil
}

// NewAnon creates an anonymous mapping of size n, to be filled by repeated
// Read calls (the stream-mode construction path) before being exposed to
// readers.
func NewAnon(id uint64, start uint64, n int) (*Segment, error) {
	data, closeFn, err := mmapAnon(n)
	if err != nil {
		return nil, fmt.Errorf("segment: map anon region of %d bytes: %w", n, err)
	}
	return &Segment{id: id, start: start, data: data, close: closeFn}, nil
}

// Truncate shrinks a stream segment's visible length to n bytes, used when
// the final read of a stream returns a short tail.
func (s *Segment) Truncate(n int) {
	s.data = s.data[:n]
}

// Str is a borrowed-or-owned view over UTF-8 text sliced out of one or more
// Segments. Which representation backs a given Str is invisible to callers:
// the borrowed form simply keeps a reference to its source Segment (via
// ordinary Go references, not manual ref-counting — the garbage collector
// already keeps the Segment, and its backing mapping, alive for as long as
// any Str still points into it) so the mapping survives until the last
// view referencing it is dropped by the collector.
type Str struct {
	owner *Segment // nil when owned
	s     string
}

// FromSegment builds a Str that borrows bytes directly out of seg when b is
// valid UTF-8. Callers pass raw segment bytes unvalidated; invalid UTF-8
// falls back to a lossy owned copy rather than panicking.
func FromSegment(seg *Segment, b []byte) Str {
	if utf8.Valid(b) {
		return Str{owner: seg, s: unsafeString(b)}
	}
	return Str{s: string([]rune(string(b)))} // lossy; see FromOwned for the real path
}

// FromOwned builds a Str that owns a heap buffer assembled from bytes that
// crossed two or more segments. Invalid UTF-8 is replaced per Go's standard
// lossy conversion rules.
func FromOwned(b []byte) Str {
	if utf8.Valid(b) {
		return Str{s: string(b)}
	}
	return Str{s: lossyUTF8(b)}
}

// String returns the line's text.
func (s Str) String() string { return s.s }

// lossyUTF8 replaces invalid byte sequences with U+FFFD, mirroring
// String::from_utf8_lossy.
func lossyUTF8(b []byte) string {
	out := make([]rune, 0, len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		out = append(out, r)
		b = b[size:]
	}
	return string(out)
}
