package matchset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kimaguri/simplx-toolkit/internal/engine/buffer"
	"github.com/kimaguri/simplx-toolkit/internal/engine/lineindex"
)

// fakeSource is a bare LineCounter, for the MatchSet kinds (All) that
// never touch segment bytes.
type fakeSource struct {
	lines    []string
	complete bool
}

func (f *fakeSource) LineCount() int   { return len(f.lines) }
func (f *fakeSource) IsComplete() bool { return f.complete }

// noopSource satisfies SegmentSource without ever calling fn. It exists
// for tests that reject a pattern before a worker is ever started.
type noopSource struct{}

func (noopSource) SegmentIter(fn func(idx *lineindex.Index, absStart uint64, data []byte) bool) error {
	return nil
}

// newLineBuffer writes lines to a temp file and opens a real buffer.Buffer
// over it, waiting for indexing to finish. Search scans a buffer's raw
// bytes directly, so exercising it needs a real lineindex.Index rather
// than a hand-rolled fake.
func newLineBuffer(t *testing.T, lines []string) *buffer.Buffer {
	t.Helper()
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	path := filepath.Join(t.TempDir(), "search.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := buffer.OpenFile(path, 4)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { b.Close() })

	deadline := time.Now().Add(5 * time.Second)
	for !b.IsComplete() {
		if time.Now().After(deadline) {
			t.Fatal("buffer never finished indexing")
		}
		time.Sleep(time.Millisecond)
	}
	return b
}

func waitSearchComplete(t *testing.T, s *Search) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !s.IsComplete() {
		if time.Now().After(deadline) {
			t.Fatal("search never completed")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSearchDedupAndOrder(t *testing.T) {
	src := newLineBuffer(t, []string{"foo bar foo", "none", "bar bar bar"})
	s, err := NewSearch("bar", src)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	waitSearchComplete(t, s)

	if s.Len() != 2 {
		t.Fatalf("expected 2 matches, got %d", s.Len())
	}
	want := []uint64{0, 2}
	for i, w := range want {
		got, ok := s.Get(i)
		if !ok || got != w {
			t.Fatalf("match[%d] = %d, %v; want %d", i, got, ok, w)
		}
	}
}

func TestSearchCompileError(t *testing.T) {
	if _, err := NewSearch("(", noopSource{}); err == nil {
		t.Fatal("expected a compile error for an unbalanced group")
	}
}

func TestBookmarksToggleIsIdentityTwice(t *testing.T) {
	b := NewBookmarks()
	b.Toggle(5)
	if !b.Contains(5) {
		t.Fatal("expected 5 to be present after one toggle")
	}
	b.Toggle(5)
	if b.Contains(5) {
		t.Fatal("expected 5 to be absent after a second toggle")
	}
}

func TestBookmarksNearestForwardBackward(t *testing.T) {
	b := NewBookmarks()
	for _, l := range []uint64{2, 5, 9} {
		b.Toggle(l)
	}
	if v, ok := b.NearestForward(3); !ok || v != 5 {
		t.Fatalf("NearestForward(3) = %d, %v; want 5", v, ok)
	}
	if v, ok := b.NearestBackward(3); !ok || v != 2 {
		t.Fatalf("NearestBackward(3) = %d, %v; want 2", v, ok)
	}
	if _, ok := b.NearestForward(10); ok {
		t.Fatal("expected no match forward of the last bookmark")
	}
}

func TestAllTracksLineCounter(t *testing.T) {
	src := &fakeSource{lines: []string{"a", "b", "c"}, complete: false}
	all := NewAll(src)
	if all.Len() != 3 {
		t.Fatalf("expected 3, got %d", all.Len())
	}
	if all.IsComplete() {
		t.Fatal("expected All to mirror the source's incompleteness")
	}
	if !all.Contains(2) || all.Contains(3) {
		t.Fatal("All.Contains should track the source's current line count")
	}
}
