// Package buffer ties a LineIndex to a segment provider (a file-backed LRU
// cache or a stream's growing segment store) and yields line strings and
// line-aligned byte ranges for match workers to scan.
package buffer

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/kimaguri/simplx-toolkit/internal/engine/lineindex"
	"github.com/kimaguri/simplx-toolkit/internal/engine/segment"
)

// Buffer is a file or stream presented as a sequence of lines.
type Buffer struct {
	index *lineindex.Index

	file      *os.File
	cache     *segment.Cache
	stream    *segment.StreamStore
	streamOut chan *segment.Segment
}

// OpenFile indexes path concurrently and returns a Buffer immediately; the
// index fills in over time and IsComplete reports when it's done.
func OpenFile(path string, lruCapacity int) (*Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("buffer: open %s: %w", path, err)
	}
	ix, err := lineindex.BuildFile(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("buffer: index %s: %w", path, err)
	}
	fi, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	cache, err := segment.NewCache(file, uint64(fi.Size()), lruCapacity)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &Buffer{index: ix, file: file, cache: cache}, nil
}

// OpenStream starts indexing r in the background. Segments are published
// to an internal store as they fill, with SegmentChannelDepth of
// back-pressure on the indexer.
func OpenStream(r io.Reader) *Buffer {
	store := segment.NewStreamStore()
	out := make(chan *segment.Segment, SegmentChannelDepth)
	ix := lineindex.BuildStream(r, store, out)
	b := &Buffer{index: ix, stream: store, streamOut: out}
	go func() {
		for range out {
			// Segments are already appended to store by the indexer;
			// draining here just keeps the bounded channel from
			// blocking the indexer once a consumer stops polling it.
		}
	}()
	return b
}

// SegmentChannelDepth bounds how far the stream indexer can run ahead of a
// slow consumer before it blocks.
const SegmentChannelDepth = 4

// LineCount returns the number of complete lines currently known.
func (b *Buffer) LineCount() int { return b.index.LineCount() }

// IsComplete reports whether no further lines will arrive.
func (b *Buffer) IsComplete() bool { return b.index.IsComplete() }

// Index exposes the underlying line index, e.g. for progress reporting.
func (b *Buffer) Index() *lineindex.Index { return b.index }

// Close releases the Buffer's file handle and cached mappings.
func (b *Buffer) Close() error {
	if b.cache != nil {
		b.cache.Close()
	}
	if b.stream != nil {
		b.stream.Close()
	}
	if b.file != nil {
		return b.file.Close()
	}
	return nil
}

// fetchSegment returns the segment covering id, from whichever provider
// this Buffer was opened with.
func (b *Buffer) fetchSegment(id uint64) (*segment.Segment, error) {
	if b.cache != nil {
		return b.cache.Get(id)
	}
	for {
		if seg, ok := b.stream.Get(id); ok {
			return seg, nil
		}
		if b.index.IsComplete() {
			return nil, fmt.Errorf("buffer: segment %d never arrived", id)
		}
	}
}

// GetLine returns the text of line i, borrowing directly from a single
// segment when possible and assembling an owned, UTF-8-lossy copy when the
// line spans more than one segment.
func (b *Buffer) GetLine(i int) (segment.Str, error) {
	a, ok := b.index.OffsetOfLine(i)
	if !ok {
		return segment.Str{}, fmt.Errorf("buffer: line %d not indexed", i)
	}
	bEnd, ok := b.index.OffsetOfLine(i + 1)
	if !ok {
		return segment.Str{}, fmt.Errorf("buffer: line %d not indexed", i)
	}
	end := bEnd
	if end > a && hasTrailingNewline(b, end) {
		end--
	}
	if end <= a {
		return segment.Str{}, nil
	}

	raw, seg, err := b.fetchRange(a, end)
	if err != nil {
		return segment.Str{}, err
	}
	if seg != nil {
		return segment.FromSegment(seg, raw), nil
	}
	return segment.FromOwned(raw), nil
}

// fetchRange returns the raw bytes covering [a, end), which must already
// lie entirely within indexed, available data. When the range is covered
// by a single segment, the returned *segment.Segment lets the caller
// borrow the slice instead of copying; it is nil when the range had to be
// assembled across more than one segment.
func (b *Buffer) fetchRange(a, end uint64) ([]byte, *segment.Segment, error) {
	sa := segment.IDOf(a)
	sb := segment.IDOf(end - 1)

	if sa == sb {
		seg, err := b.fetchSegment(sa)
		if err != nil {
			return nil, nil, err
		}
		return seg.BytesAt(a, end), seg, nil
	}

	buf := make([]byte, 0, end-a)
	for id := sa; id <= sb; id++ {
		seg, err := b.fetchSegment(id)
		if err != nil {
			return nil, nil, err
		}
		start, stop := a, end
		if seg.Start() > start {
			start = seg.Start()
		}
		if seg.End() < stop {
			stop = seg.End()
		}
		buf = append(buf, seg.BytesAt(start, stop)...)
	}
	return buf, nil, nil
}

// SegmentIter walks the buffer from offset 0 in roughly segment.Max-sized,
// line-aligned strides, calling fn with the index (for translating a
// match's byte offset back to a line number), the chunk's absolute start
// offset, and its raw, unvalidated bytes. It is the sole input matchset.Search
// scans: regex matching runs directly against these byte slices rather
// than against per-line, UTF-8-validated strings, so that a match's byte
// offset always corresponds exactly to a real file position. fn returning
// false stops the walk early, as does running out of readers; either way
// SegmentIter returns nil. A propagated indexing error (I/O failure
// during the scan) stops the walk and is returned.
func (b *Buffer) SegmentIter(fn func(idx *lineindex.Index, absStart uint64, data []byte) bool) error {
	pos := uint64(0)
	for {
		end, done, err := b.waitBoundary(pos)
		if err != nil {
			return err
		}
		if end > pos {
			raw, _, err := b.fetchRange(pos, end)
			if err != nil {
				return err
			}
			if !fn(b.index, pos, raw) {
				return nil
			}
			pos = end
		}
		if done {
			return nil
		}
	}
}

// waitBoundary blocks until either a line boundary at or beyond
// pos+segment.Max is known, or the index finishes (successfully or via
// abort), whichever comes first. It returns the furthest known line
// boundary not exceeding that target (or, when the line starting at or
// before pos runs past the target, that line's end; never more than the
// current frontier) and whether the walk has reached the end of a
// complete index.
func (b *Buffer) waitBoundary(pos uint64) (uint64, bool, error) {
	target := pos + segment.Max
	for {
		frontier, ok := b.index.OffsetOfLine(b.index.LineCount())
		if !ok {
			frontier = pos
		}
		if b.index.IsAborted() {
			return frontier, true, fmt.Errorf("buffer: segment iteration aborted: index build failed")
		}
		complete := b.index.IsComplete()
		if frontier > target {
			if ln, ok := b.index.LineOfOffset(target); ok {
				if cut, _ := b.index.OffsetOfLine(ln); cut > pos {
					return cut, false, nil
				}
				if cut, ok := b.index.OffsetOfLine(ln + 1); ok {
					return cut, false, nil
				}
			}
		}
		if frontier >= target || complete {
			return frontier, complete, nil
		}
		runtime.Gosched()
		time.Sleep(time.Millisecond)
	}
}

// hasTrailingNewline reports whether the byte immediately preceding end
// is '\n'. Only the final line (end == file length with no terminator)
// ever lacks one.
func hasTrailingNewline(b *Buffer, end uint64) bool {
	if end == 0 {
		return false
	}
	id := segment.IDOf(end - 1)
	seg, err := b.fetchSegment(id)
	if err != nil {
		return false
	}
	return seg.BytesAt(end-1, end)[0] == '\n'
}
