// Package cowvec implements an append-only, copy-on-snapshot vector shared
// between a single writer and many readers without locking.
//
// A CowVec is split into a Writer (unique, may Push/Reserve) and any number
// of Reader handles (may Len/Get/Snapshot). Elements already made visible by
// the writer are never modified again, so readers never need to coordinate
// with the writer beyond a single atomic length load.
package cowvec

import (
	"sync/atomic"
)

// header is one allocation backing the vector. It is replaced wholesale on
// growth; once replaced, the old header is immutable and kept alive for as
// long as any Snapshot or Reader still references it. Go's garbage collector
// provides this "stays valid until the last view is dropped" guarantee for
// free, in place of the manual reference counting a non-GC'd implementation
// would need.
type header[T any] struct {
	data   []T // len(data) == cap always; only indices < length are published
	length atomic.Uint64
}

// shared is the state a Writer and all its Readers hold in common.
type shared[T any] struct {
	hdr      atomic.Pointer[header[T]]
	readers  atomic.Int64
	complete atomic.Bool
}

func newShared[T any]() *shared[T] {
	s := &shared[T]{}
	s.hdr.Store(&header[T]{})
	return s
}

// Writer is the unique handle that may append to a CowVec.
type Writer[T any] struct {
	s *shared[T]
}

// Reader observes the published prefix of a CowVec. Readers are cheap to
// clone; cloning increments a readership counter that Writer.HasReaders
// consults so producers can cancel themselves once the last interested
// Reader goes away.
type Reader[T any] struct {
	s      *shared[T]
	closed bool
}

// New creates a CowVec and returns its paired Reader and Writer handles.
func New[T any]() (*Reader[T], *Writer[T]) {
	s := newShared[T]()
	s.readers.Add(1)
	return &Reader[T]{s: s}, &Writer[T]{s: s}
}

// Snapshot is a pinned (buffer, length) pair, stable even if the writer
// later reallocates its backing array.
type Snapshot[T any] struct {
	data []T
	len  int
}

// Len returns the number of elements visible in the snapshot.
func (s Snapshot[T]) Len() int { return s.len }

// Get returns the element at index i, or the zero value and false if i is
// out of range.
func (s Snapshot[T]) Get(i int) (T, bool) {
	if i < 0 || i >= s.len {
		var zero T
		return zero, false
	}
	return s.data[i], true
}

// Slice returns the snapshot's elements as a read-only slice. Callers must
// not mutate it.
func (s Snapshot[T]) Slice() []T {
	return s.data[:s.len:s.len]
}

// Len returns the currently published length of the vector.
func (r *Reader[T]) Len() int {
	h := r.s.hdr.Load()
	return int(h.length.Load())
}

// Get returns the element at index i if it has been published.
func (r *Reader[T]) Get(i int) (T, bool) {
	h := r.s.hdr.Load()
	l := int(h.length.Load())
	if i < 0 || i >= l {
		var zero T
		return zero, false
	}
	return h.data[i], true
}

// Snapshot pins the current buffer and length.
func (r *Reader[T]) Snapshot() Snapshot[T] {
	h := r.s.hdr.Load()
	return Snapshot[T]{data: h.data, len: int(h.length.Load())}
}

// IsComplete reports whether the writer handle has been closed.
func (r *Reader[T]) IsComplete() bool {
	return r.s.complete.Load()
}

// Clone returns a new Reader handle over the same vector, incrementing the
// readership count.
func (r *Reader[T]) Clone() *Reader[T] {
	r.s.readers.Add(1)
	return &Reader[T]{s: r.s}
}

// Close releases this reader handle. It is idempotent.
func (r *Reader[T]) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.s.readers.Add(-1)
}

// Len returns the currently published length, from the writer's side.
func (w *Writer[T]) Len() int {
	return int(w.s.hdr.Load().length.Load())
}

// HasReaders reports whether any Reader handle is still outstanding. Workers
// poll this to cancel themselves once nobody is listening anymore.
func (w *Writer[T]) HasReaders() bool {
	return w.s.readers.Load() > 0
}

// Push appends an element, growing the backing array if necessary.
// Amortized O(1).
func (w *Writer[T]) Push(elem T) {
	h := w.s.hdr.Load()
	l := int(h.length.Load())
	if l == len(h.data) {
		h = w.grow(l + 1)
	}
	h.data[l] = elem
	h.length.Store(uint64(l + 1))
}

// Reserve ensures the backing array has room for at least n more elements
// without reallocating, performing at most one allocation.
func (w *Writer[T]) Reserve(n int) {
	h := w.s.hdr.Load()
	l := int(h.length.Load())
	if len(h.data)-l >= n {
		return
	}
	w.grow(l + n)
}

// grow allocates a new header with capacity for at least minCap elements,
// copies the live prefix, and publishes it. Returns the new header.
func (w *Writer[T]) grow(minCap int) *header[T] {
	h := w.s.hdr.Load()
	l := int(h.length.Load())

	newCap := 2 * len(h.data)
	if newCap == 0 {
		newCap = 1
	}
	for newCap < minCap {
		newCap *= 2
	}

	nh := &header[T]{data: make([]T, newCap)}
	copy(nh.data, h.data[:l])
	nh.length.Store(uint64(l))
	w.s.hdr.Store(nh)
	return nh
}

// Close marks the vector complete. After Close, Len no longer changes and
// Reader.IsComplete latches true. Close is idempotent.
func (w *Writer[T]) Close() {
	w.s.complete.Store(true)
}
