package composite

import (
	"testing"
	"time"

	"github.com/kimaguri/simplx-toolkit/internal/engine/matchset"
)

func staticSet(lines ...uint64) *matchset.Bookmarks {
	b := matchset.NewBookmarks()
	for _, l := range lines {
		b.Toggle(l)
	}
	return b
}

func waitComplete(t *testing.T, c *Composite) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !c.IsComplete() {
		if time.Now().After(deadline) {
			t.Fatal("composite never completed")
		}
		time.Sleep(time.Millisecond)
	}
}

func collect(c *Composite) []uint64 {
	var out []uint64
	for i := 0; ; i++ {
		v, ok := c.Get(i)
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}

func TestUnion(t *testing.T) {
	m1 := staticSet(1, 2, 3, 4, 5)
	m2 := staticSet(1, 3, 5, 7, 9)
	c := New([]matchset.MatchSet{m1, m2}, Union)
	defer c.Close()
	waitComplete(t, c)

	got := collect(c)
	want := []uint64{1, 2, 3, 4, 5, 7, 9}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestIntersection(t *testing.T) {
	m1 := staticSet(1, 2, 3, 4, 5)
	m2 := staticSet(1, 3, 5, 7, 9)
	c := New([]matchset.MatchSet{m1, m2}, Intersection)
	defer c.Close()
	waitComplete(t, c)

	got := collect(c)
	want := []uint64{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

// delayedSet simulates a slow-producing MatchSet: its values become
// visible only once the deadline passes, so a merge worker that observes
// it as "pending" (no current value, not yet exhausted) must re-peek
// before emitting anything smaller that a faster input already produced.
type delayedSet struct {
	values   []uint64
	deadline time.Time
}

func (d *delayedSet) ready() bool { return time.Now().After(d.deadline) }

func (d *delayedSet) Kind() matchset.Kind { return matchset.KindSearch }

func (d *delayedSet) Len() int {
	if !d.ready() {
		return 0
	}
	return len(d.values)
}

func (d *delayedSet) Get(i int) (uint64, bool) {
	if !d.ready() || i >= len(d.values) {
		return 0, false
	}
	return d.values[i], true
}

func (d *delayedSet) Contains(line uint64) bool {
	if !d.ready() {
		return false
	}
	for _, v := range d.values {
		if v == line {
			return true
		}
	}
	return false
}

func (d *delayedSet) NearestForward(line uint64) (uint64, bool) {
	if !d.ready() {
		return 0, false
	}
	for _, v := range d.values {
		if v >= line {
			return v, true
		}
	}
	return 0, false
}

func (d *delayedSet) NearestBackward(line uint64) (uint64, bool) {
	if !d.ready() {
		return 0, false
	}
	var best uint64
	found := false
	for _, v := range d.values {
		if v <= line {
			best, found = v, true
		}
	}
	return best, found
}

func (d *delayedSet) IsComplete() bool { return d.ready() }

func TestUnionWaitsOnPendingCursorBeforeEmitting(t *testing.T) {
	fast := staticSet(5)
	slow := &delayedSet{values: []uint64{1}, deadline: time.Now().Add(20 * time.Millisecond)}

	c := New([]matchset.MatchSet{fast, slow}, Union)
	defer c.Close()
	waitComplete(t, c)

	got := collect(c)
	want := []uint64{1, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v (union must not emit 5 before the slow input's smaller 1 is known)", got, want)
		}
	}
}

type allStub struct{ n int }

func (a *allStub) Kind() matchset.Kind                              { return matchset.KindAll }
func (a *allStub) Len() int                                         { return a.n }
func (a *allStub) Get(i int) (uint64, bool)                         { return uint64(i), i < a.n }
func (a *allStub) Contains(line uint64) bool                        { return int(line) < a.n }
func (a *allStub) NearestForward(line uint64) (uint64, bool)        { return line, int(line) < a.n }
func (a *allStub) NearestBackward(line uint64) (uint64, bool)       { return line, a.n > 0 }
func (a *allStub) IsComplete() bool                                 { return true }

func TestAllShortCircuitsToIdentity(t *testing.T) {
	c := New([]matchset.MatchSet{&allStub{n: 10}, staticSet(1, 2)}, Union)
	if !c.Identity() {
		t.Fatal("expected an enabled All input to produce the identity composite")
	}
	if !c.IsComplete() {
		t.Fatal("identity composite should report complete immediately")
	}
}

func TestCancellationByReaderDrop(t *testing.T) {
	// A large synthetic input; dropping the composite's reader should let
	// the merge worker exit well before it would otherwise finish.
	big := matchset.NewBookmarks()
	for i := uint64(0); i < 200000; i += 2 {
		big.Toggle(i)
	}
	c := New([]matchset.MatchSet{big}, Union)
	time.Sleep(10 * time.Millisecond)
	c.Close()
	// No assertion beyond "this returns promptly": HasReaders() going to
	// zero is polled by the worker loop on its next iteration.
}
