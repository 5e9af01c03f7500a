// Package lineindex builds and queries the offset table mapping line
// numbers to byte offsets, incrementally and concurrently with file or
// stream reads.
package lineindex

import (
	"bytes"
	"sort"
	"sync/atomic"

	"github.com/kimaguri/simplx-toolkit/internal/engine/cowvec"
)

// Index is a monotone sequence of byte offsets O[0..=N] with O[0]=0 and
// O[N]=file length (the sentinel-included convention). Line i
// spans [O[i], O[i+1]), exclusive of any trailing '\n'. The index may be
// partial while a worker is still discovering lines.
type Index struct {
	offsets *cowvec.Reader[uint64]

	streamMode bool
	aborted    atomic.Bool
	progress   atomic.Uint32 // file mode: 0..100
	active     atomic.Bool   // stream mode: true while a read is in flight
}

// LineCount returns the number of complete lines currently known.
func (ix *Index) LineCount() int {
	n := ix.offsets.Len()
	if n == 0 {
		return 0
	}
	return n - 1
}

// OffsetOfLine returns the byte offset at which line i starts. Passing
// LineCount() is valid and returns the file's total length.
func (ix *Index) OffsetOfLine(i int) (uint64, bool) {
	return ix.offsets.Get(i)
}

// LineOfOffset returns the line number i such that O[i] <= p < O[i+1].
func (ix *Index) LineOfOffset(p uint64) (int, bool) {
	snap := ix.offsets.Snapshot()
	n := snap.Len()
	if n < 2 {
		return 0, false
	}
	// snap holds O[0..n), representing n-1 complete lines.
	lo, hi := 0, n-1
	for lo < hi {
		mid := lo + (hi-lo)/2
		end, _ := snap.Get(mid + 1)
		if end <= p {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	start, _ := snap.Get(lo)
	if lo >= n-1 || start > p {
		return 0, false
	}
	return lo, true
}

// IsComplete reports whether no further offsets will ever arrive. An
// aborted index (I/O error mid-build) is treated as complete by readers.
func (ix *Index) IsComplete() bool {
	return ix.offsets.IsComplete() || ix.aborted.Load()
}

// IsAborted reports whether the index stopped early because of an I/O
// error, as distinct from reaching a natural, successful completion.
func (ix *Index) IsAborted() bool {
	return ix.aborted.Load()
}

// IsStream reports whether this index was built in stream mode.
func (ix *Index) IsStream() bool {
	return ix.streamMode
}

// Progress returns the file-mode indexing percentage (0..100). Meaningless
// in stream mode, where progress is not percent-scalable.
func (ix *Index) Progress() int {
	return int(ix.progress.Load())
}

// Active reports, in stream mode, whether the indexer is currently waiting
// on or processing a read.
func (ix *Index) Active() bool {
	return ix.active.Load()
}

// scanNewlines returns, for each '\n' found in b, the absolute offset of
// the byte immediately following it (i.e. the start of the next line).
// This is the one place this package reaches for a plain stdlib scan
// rather than an ecosystem dependency: the pack carries no newline/byte
// search library that improves on bytes.IndexByte for this.
func scanNewlines(base uint64, b []byte) []uint64 {
	var out []uint64
	off := 0
	for {
		i := bytes.IndexByte(b[off:], '\n')
		if i < 0 {
			break
		}
		out = append(out, base+uint64(off+i)+1)
		off += i + 1
	}
	return out
}

// lineOfOffsetSorted finds i with O[i] <= p < O[i+1] over a plain offset
// slice, without going through an Index. Nothing in this repository calls
// it at present.
func lineOfOffsetSorted(offsets []uint64, p uint64) (int, bool) {
	n := len(offsets)
	if n < 2 {
		return 0, false
	}
	i := sort.Search(n-1, func(i int) bool { return offsets[i+1] > p })
	if i >= n-1 || offsets[i] > p {
		return 0, false
	}
	return i, true
}
