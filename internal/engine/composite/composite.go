// Package composite merges multiple matchset.MatchSets into a single
// strictly increasing sequence of line numbers, by union or intersection.
package composite

import (
	"runtime"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kimaguri/simplx-toolkit/internal/engine/cowvec"
	"github.com/kimaguri/simplx-toolkit/internal/engine/matchset"
)

// Strategy selects how multiple inputs are merged.
type Strategy int

const (
	Union Strategy = iota
	Intersection
)

// Composite is the merged output of one or more MatchSets. An enabled
// matchset.All among the inputs collapses a Composite into the logical
// identity: Identity() reports this and Len/Get/etc. are never called in
// that case by callers that check Identity() first.
type Composite struct {
	reader   *cowvec.Reader[uint64]
	identity bool
}

// New merges inputs under strategy. If any input is a matchset.All, the
// result is the logical identity: no worker is spawned and no storage is
// used, matching the "All present" composite short-circuit.
func New(inputs []matchset.MatchSet, strategy Strategy) *Composite {
	for _, in := range inputs {
		if in.Kind() == matchset.KindAll {
			return &Composite{identity: true}
		}
	}

	reader, writer := cowvec.New[uint64]()
	c := &Composite{reader: reader}
	switch strategy {
	case Intersection:
		go runIntersection(writer, inputs)
	default:
		go runUnion(writer, inputs)
	}
	return c
}

// Identity reports whether this Composite is the logical identity
// (produced because an enabled All filter was in the input list).
func (c *Composite) Identity() bool { return c.identity }

func (c *Composite) Len() int {
	if c.identity {
		return 0
	}
	return c.reader.Len()
}

func (c *Composite) Get(i int) (uint64, bool) {
	if c.identity {
		return 0, false
	}
	return c.reader.Get(i)
}

func (c *Composite) IsComplete() bool {
	if c.identity {
		return true
	}
	return c.reader.IsComplete()
}

// Close drops this Composite's reader handle, allowing its merge worker
// to cancel. The input MatchSets' own reader handles are left open.
func (c *Composite) Close() {
	if c.reader != nil {
		c.reader.Close()
	}
}

// cursor tracks how far this goroutine has consumed one input MatchSet.
type cursor struct {
	in  matchset.MatchSet
	pos int
}

func (c *cursor) peek() (uint64, bool) {
	return c.in.Get(c.pos)
}

func (c *cursor) exhausted() bool {
	return c.pos >= c.in.Len() && c.in.IsComplete()
}

// spinWait yields politely while an input cursor waits for more data,
// mirroring the original's std::hint::spin_loop with a small sleep
// backoff rather than busy-spinning a whole OS thread.
func spinWait() {
	runtime.Gosched()
	time.Sleep(time.Millisecond)
}

func runUnion(writer *cowvec.Writer[uint64], inputs []matchset.MatchSet) {
	log.Debug().Int("inputs", len(inputs)).Msg("composite: union worker started")
	defer log.Debug().Msg("composite: union worker stopped")
	defer writer.Close()

	cursors := make([]*cursor, len(inputs))
	for i, in := range inputs {
		cursors[i] = &cursor{in: in}
	}

	lastEmitted := uint64(0)
	haveEmitted := false

	for {
		if !writer.HasReaders() {
			return
		}

		allExhausted := true
		bestVal := uint64(0)
		bestFound := false
		pending := false

		for _, c := range cursors {
			v, ok := c.peek()
			if !ok {
				if !c.exhausted() {
					pending = true
				}
				continue
			}
			allExhausted = false
			if !bestFound || v < bestVal {
				bestVal = v
				bestFound = true
			}
		}

		if !bestFound {
			if pending {
				spinWait()
				continue
			}
			if allExhausted {
				return
			}
			spinWait()
			continue
		}

		if pending {
			// A cursor with no current value might still produce
			// something smaller than bestVal once it catches up;
			// re-peek everything rather than emitting bestVal now.
			spinWait()
			continue
		}

		if haveEmitted && bestVal == lastEmitted {
			advancePast(cursors, bestVal)
			continue
		}
		writer.Push(bestVal)
		lastEmitted = bestVal
		haveEmitted = true
		advancePast(cursors, bestVal)
	}
}

func advancePast(cursors []*cursor, v uint64) {
	for _, c := range cursors {
		if val, ok := c.peek(); ok && val == v {
			c.pos++
		}
	}
}

func runIntersection(writer *cowvec.Writer[uint64], inputs []matchset.MatchSet) {
	log.Debug().Int("inputs", len(inputs)).Msg("composite: intersection worker started")
	defer log.Debug().Msg("composite: intersection worker stopped")
	defer writer.Close()

	cursors := make([]*cursor, len(inputs))
	for i, in := range inputs {
		cursors[i] = &cursor{in: in}
	}
	if len(cursors) == 0 {
		return
	}

	for {
		if !writer.HasReaders() {
			return
		}

		maxVal := uint64(0)
		haveMax := false
		anyPending := false
		for _, c := range cursors {
			v, ok := c.peek()
			if !ok {
				if c.exhausted() {
					return
				}
				anyPending = true
				continue
			}
			if !haveMax || v > maxVal {
				maxVal = v
				haveMax = true
			}
		}
		if !haveMax {
			spinWait()
			continue
		}
		if anyPending {
			spinWait()
			continue
		}

		allMatch := true
		stillPending := false
		for _, c := range cursors {
			v, ok := c.peek()
			if !ok {
				stillPending = true
				continue
			}
			if v < maxVal {
				c.pos++
				allMatch = false
			} else if v > maxVal {
				allMatch = false
			}
		}
		if stillPending {
			spinWait()
			continue
		}
		if allMatch {
			writer.Push(maxVal)
			for _, c := range cursors {
				c.pos++
			}
		}
	}
}
