package buffer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kimaguri/simplx-toolkit/internal/engine/lineindex"
	"github.com/kimaguri/simplx-toolkit/internal/engine/segment"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "buf.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func waitComplete(t *testing.T, b *Buffer) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !b.IsComplete() {
		if time.Now().After(deadline) {
			t.Fatal("buffer never finished indexing")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestOpenFileReadsLines(t *testing.T) {
	path := writeFile(t, "one\ntwo\nthree\n")
	b, err := OpenFile(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	waitComplete(t, b)

	if b.LineCount() != 3 {
		t.Fatalf("expected 3 lines, got %d", b.LineCount())
	}
	want := []string{"one", "two", "three"}
	for i, w := range want {
		line, err := b.GetLine(i)
		if err != nil {
			t.Fatal(err)
		}
		if line.String() != w {
			t.Fatalf("line %d: got %q, want %q", i, line.String(), w)
		}
	}
}

func TestOpenFileUnterminatedLastLine(t *testing.T) {
	path := writeFile(t, "one\ntwo")
	b, err := OpenFile(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	waitComplete(t, b)

	line, err := b.GetLine(1)
	if err != nil {
		t.Fatal(err)
	}
	if line.String() != "two" {
		t.Fatalf("got %q, want %q", line.String(), "two")
	}
}

func TestOpenStreamReadsLines(t *testing.T) {
	b := OpenStream(strings.NewReader("alpha\nbeta\ngamma\n"))
	defer b.Close()
	waitComplete(t, b)

	if b.LineCount() != 3 {
		t.Fatalf("expected 3 lines, got %d", b.LineCount())
	}
	line, err := b.GetLine(1)
	if err != nil {
		t.Fatal(err)
	}
	if line.String() != "beta" {
		t.Fatalf("got %q, want %q", line.String(), "beta")
	}
}

func TestGetLineSpanningTwoSegments(t *testing.T) {
	// Build a single line long enough to straddle a segment boundary, so
	// GetLine must fall back to the owned, multi-segment assembly path.
	pad := strings.Repeat("a", int(segment.Max)-4)
	content := pad + "bbbbbbbb\n" + "next\n"
	path := writeFile(t, content)

	b, err := OpenFile(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	waitComplete(t, b)

	if b.LineCount() != 2 {
		t.Fatalf("expected 2 lines, got %d", b.LineCount())
	}
	line, err := b.GetLine(0)
	if err != nil {
		t.Fatal(err)
	}
	want := pad + "bbbbbbbb"
	if line.String() != want {
		t.Fatalf("assembled line length = %d, want %d", len(line.String()), len(want))
	}
	second, err := b.GetLine(1)
	if err != nil {
		t.Fatal(err)
	}
	if second.String() != "next" {
		t.Fatalf("got %q, want %q", second.String(), "next")
	}
}

func TestGetLineOutOfRange(t *testing.T) {
	path := writeFile(t, "only\n")
	b, err := OpenFile(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	waitComplete(t, b)

	if _, err := b.GetLine(5); err == nil {
		t.Fatal("expected an error for an out-of-range line")
	}
}

func TestSegmentIterFindsMatchOffsets(t *testing.T) {
	path := writeFile(t, "foo bar foo\nnone\nbar bar bar\n")
	b, err := OpenFile(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	waitComplete(t, b)

	var starts []uint64
	var datas [][]byte
	if err := b.SegmentIter(func(idx *lineindex.Index, absStart uint64, data []byte) bool {
		starts = append(starts, absStart)
		datas = append(datas, data)
		return true
	}); err != nil {
		t.Fatal(err)
	}
	if len(starts) != 1 || starts[0] != 0 {
		t.Fatalf("expected one chunk starting at 0, got %v", starts)
	}
	if string(datas[0]) != "foo bar foo\nnone\nbar bar bar\n" {
		t.Fatalf("unexpected chunk contents: %q", datas[0])
	}
}

func TestSegmentIterSpansMultipleSegments(t *testing.T) {
	pad := strings.Repeat("a", int(segment.Max)-4)
	content := pad + "bbbbbbbb\n" + "next\n"
	path := writeFile(t, content)

	b, err := OpenFile(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	waitComplete(t, b)

	var total int
	if err := b.SegmentIter(func(idx *lineindex.Index, absStart uint64, data []byte) bool {
		total += len(data)
		return true
	}); err != nil {
		t.Fatal(err)
	}
	if total != len(content) {
		t.Fatalf("expected SegmentIter to cover all %d bytes, got %d", len(content), total)
	}
}
