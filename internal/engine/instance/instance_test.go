package instance

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kimaguri/simplx-toolkit/internal/engine/buffer"
)

func openTestBuffer(t *testing.T, content string) *buffer.Buffer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := buffer.OpenFile(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for !b.IsComplete() {
		if time.Now().After(deadline) {
			t.Fatal("buffer never finished indexing")
		}
		time.Sleep(time.Millisecond)
	}
	return b
}

func TestViewReturnsAllLinesByDefault(t *testing.T) {
	buf := openTestBuffer(t, "one\ntwo\nthree\n")
	in := New("test", buf)
	defer buf.Close()

	lines := in.View(10, 80)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0].Text.String() != "one" {
		t.Fatalf("expected one, got %q", lines[0].Text.String())
	}
}

func TestAddSearchFiltersView(t *testing.T) {
	buf := openTestBuffer(t, "foo bar foo\nnone\nbar bar bar\n")
	in := New("test", buf)
	defer buf.Close()

	if err := in.ToggleFilter(0); err != nil { // disable All
		t.Fatal(err)
	}
	if _, err := in.AddSearch("bar", "bar", ""); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for in.VisibleLineCount() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("search never produced 2 matches, got %d", in.VisibleLineCount())
		}
		time.Sleep(time.Millisecond)
	}

	lines := in.View(10, 80)
	if len(lines) != 2 {
		t.Fatalf("expected 2 visible lines, got %d", len(lines))
	}
	if lines[0].LineNumber != 0 || lines[1].LineNumber != 2 {
		t.Fatalf("expected lines 0 and 2, got %d and %d", lines[0].LineNumber, lines[1].LineNumber)
	}
}

func TestToggleBookmarkMarksLine(t *testing.T) {
	buf := openTestBuffer(t, "a\nb\nc\n")
	in := New("test", buf)
	defer buf.Close()

	in.ToggleBookmark(1)
	lines := in.View(10, 80)
	if !lines[1].Bookmarked {
		t.Fatal("expected line 1 to be marked bookmarked")
	}
}

func TestExportWritesVisibleLines(t *testing.T) {
	buf := openTestBuffer(t, "a\nb\nc\n")
	in := New("test", buf)
	defer buf.Close()

	var out bytes.Buffer
	if err := in.Export(&out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "a\nb\nc\n" {
		t.Fatalf("got %q", out.String())
	}
}
