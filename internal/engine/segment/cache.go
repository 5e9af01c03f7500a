package segment

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/semaphore"
)

// DefaultCacheCapacity is the default number of segments an LRU cache keeps
// mapped at once (LRU_CAPACITY in the boundary constants).
const DefaultCacheCapacity = 25

// Cache is an LRU of Segments over a single file, keyed by segment id
// (floor(offset / Max)). Unlike the teacher's single-writer dashboard
// state, a Cache here is shared: every enabled matchset.Search runs its
// own scan goroutine against the owning buffer.Buffer, so Get is called
// concurrently once more than one filter is active.
type Cache struct {
	file    *os.File
	fileLen uint64

	mu  sync.Mutex
	lru *lru.Cache[uint64, *Segment]

	// fetchLimit caps how many segment_iter consumers can be mid-mmap at
	// once. Without it a buffer with many concurrent filters enabled can
	// drive an mmap/munmap storm as each scan goroutine faults in its own
	// segment at the same moment.
	fetchLimit *semaphore.Weighted
}

// NewCache opens file for mapping and prepares an LRU of the given
// capacity (segments per buffer).
func NewCache(file *os.File, fileLen uint64, capacity int) (*Cache, error) {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	c, err := lru.NewWithEvict[uint64, *Segment](capacity, func(_ uint64, seg *Segment) {
		_ = seg.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("segment: create LRU: %w", err)
	}
	limit := int64(runtime.GOMAXPROCS(0))
	if limit < 1 {
		limit = 1
	}
	return &Cache{
		file:       file,
		fileLen:    fileLen,
		lru:        c,
		fetchLimit: semaphore.NewWeighted(limit),
	}, nil
}

// Get returns the segment covering the given segment id, mapping it on
// first access.
func (c *Cache) Get(id uint64) (*Segment, error) {
	c.mu.Lock()
	if seg, ok := c.lru.Get(id); ok {
		c.mu.Unlock()
		return seg, nil
	}
	c.mu.Unlock()

	if err := c.fetchLimit.Acquire(context.Background(), 1); err != nil {
		return nil, err
	}
	defer c.fetchLimit.Release(1)

	// Re-check: another goroutine may have mapped id while this one
	// waited for a fetch slot.
	c.mu.Lock()
	if seg, ok := c.lru.Get(id); ok {
		c.mu.Unlock()
		return seg, nil
	}
	c.mu.Unlock()

	start := id * Max
	end := start + Max
	if end > c.fileLen {
		end = c.fileLen
	}
	seg, err := MapFile(c.file, start, end)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if existing, ok := c.lru.Get(id); ok {
		c.mu.Unlock()
		_ = seg.Close()
		return existing, nil
	}
	c.lru.Add(id, seg)
	c.mu.Unlock()
	return seg, nil
}

// IDOf returns the segment id that byte offset off falls within.
func IDOf(off uint64) uint64 { return off / Max }

// Close evicts every cached segment, unmapping their backing memory.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}
