package filterio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kimaguri/simplx-toolkit/internal/engine/buffer"
	"github.com/kimaguri/simplx-toolkit/internal/engine/compositor"
)

// newLineBuffer writes lines to a temp file and opens a real buffer.Buffer
// over it, waiting for indexing to finish. compositor.AddSearch takes a
// matchset.SegmentSource, which a Buffer satisfies directly.
func newLineBuffer(t *testing.T, lines []string) *buffer.Buffer {
	t.Helper()
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	path := filepath.Join(t.TempDir(), "filterio.txt")
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

func TestExportImportRoundTrip(t *testing.T) {
	src := newLineBuffer(t, []string{"foo", "bar", "foo bar"})
	c := compositor.New(src)
	if _, err := c.AddSearch("foo", "foo", "red", src); err != nil {
		t.Fatal(err)
	}
	if _, err := c.AddSearch("bar", "bar", "blue", src); err != nil {
		t.Fatal(err)
	}
	if err := c.Toggle(3); err != nil { // disable the "bar" filter
		t.Fatal(err)
	}

	doc := Export("myfilters", c)
	if len(doc.Filters) != 2 {
		t.Fatalf("expected 2 exported filters, got %d", len(doc.Filters))
	}

	path := filepath.Join(t.TempDir(), "filters.json")
	if err := WriteFile(path, doc); err != nil {
		t.Fatal(err)
	}

	loaded, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != "myfilters" || len(loaded.Filters) != 2 {
		t.Fatalf("unexpected round-trip result: %+v", loaded)
	}

	c2 := compositor.New(src)
	if errs := Import(loaded, c2, src); len(errs) != 0 {
		t.Fatalf("unexpected import errors: %v", errs)
	}
	if len(c2.Filters()) != 4 {
		t.Fatalf("expected 2 singleton + 2 imported filters, got %d", len(c2.Filters()))
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected an error reading a missing file")
	}
}
