package mux

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kimaguri/simplx-toolkit/internal/engine/buffer"
	"github.com/kimaguri/simplx-toolkit/internal/engine/instance"
)

func openTestInstance(t *testing.T, name, content string) *instance.Instance {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+".txt")
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
	return instance.New(name, b)
}

func TestPushAndMoveActive(t *testing.T) {
	m := New()
	m.Push(openTestInstance(t, "a", "1\n"))
	m.Push(openTestInstance(t, "b", "2\n"))
	m.Push(openTestInstance(t, "c", "3\n"))

	if m.Active() != 0 {
		t.Fatalf("expected active 0, got %d", m.Active())
	}
	m.MoveActive(Next)
	if m.Active() != 1 {
		t.Fatalf("expected active 1, got %d", m.Active())
	}
	m.SetActive(10)
	if m.Active() != 2 {
		t.Fatalf("expected active clamped to 2, got %d", m.Active())
	}
}

func TestCloseActiveReclampsIndex(t *testing.T) {
	m := New()
	m.Push(openTestInstance(t, "a", "1\n"))
	m.Push(openTestInstance(t, "b", "2\n"))
	m.SetActive(1)
	m.CloseActive()
	if m.Len() != 1 {
		t.Fatalf("expected 1 instance left, got %d", m.Len())
	}
	if m.Active() != 0 {
		t.Fatalf("expected active to clamp to 0, got %d", m.Active())
	}
}

func TestLinkedBroadcastSkipsActive(t *testing.T) {
	m := New()
	m.Push(openTestInstance(t, "a", "1\n"))
	m.Push(openTestInstance(t, "b", "2\n"))
	m.SetLinked(true)

	var touched []string
	m.ForEachIfLinked(func(in *instance.Instance) { touched = append(touched, in.Name()) })
	if len(touched) != 1 || touched[0] != "b" {
		t.Fatalf("expected only the inactive instance to be touched, got %v", touched)
	}
}
