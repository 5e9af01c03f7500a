package compositor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kimaguri/simplx-toolkit/internal/engine/buffer"
)

// newLineBuffer writes lines to a temp file and opens a real buffer.Buffer
// over it, waiting for indexing to finish. Compositor.AddSearch now needs
// a matchset.SegmentSource, which a Buffer satisfies directly.
func newLineBuffer(t *testing.T, lines []string) *buffer.Buffer {
	t.Helper()
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	path := filepath.Join(t.TempDir(), "compositor.txt")
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

func TestAddSearchRejectsBadPattern(t *testing.T) {
	src := newLineBuffer(t, []string{"a", "b"})
	c := New(src)
	if _, err := c.AddSearch("broken", "(", "", src); err == nil {
		t.Fatal("expected an error for an invalid pattern")
	}
	if len(c.Filters()) != 2 {
		t.Fatalf("expected filter list to stay at 2 entries, got %d", len(c.Filters()))
	}
}

func TestToggleAndRemove(t *testing.T) {
	src := newLineBuffer(t, []string{"foo", "bar", "foo bar"})
	c := New(src)

	idx, err := c.AddSearch("foo", "foo", "", src)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 2 {
		t.Fatalf("expected new filter at index 2, got %d", idx)
	}

	if err := c.Remove(0); err == nil {
		t.Fatal("expected removing the All singleton to be rejected")
	}
	if err := c.Remove(1); err == nil {
		t.Fatal("expected removing the Bookmarks singleton to be rejected")
	}

	if err := c.Toggle(0); err != nil {
		t.Fatal(err)
	}
	if c.Filters()[0].Enabled {
		t.Fatal("expected All to be disabled after toggling")
	}

	if err := c.Remove(2); err != nil {
		t.Fatal(err)
	}
	if len(c.Filters()) != 2 {
		t.Fatalf("expected 2 filters after removal, got %d", len(c.Filters()))
	}
}

func TestRebuildComposeIdentityWhenAllEnabled(t *testing.T) {
	src := newLineBuffer(t, []string{"a", "b", "c"})
	c := New(src)
	time.Sleep(time.Millisecond)
	if !c.Current().Identity() {
		t.Fatal("expected the composite to be the identity while All is enabled")
	}
}
