package tui

import "testing"

func TestSanitizeLineStripsCursorMovement(t *testing.T) {
	in := "loading\x1b[2Kdone"
	if got := sanitizeLine(in); got != "loadingdone" {
		t.Fatalf("expected cursor/clear sequence stripped, got %q", got)
	}
}

func TestSanitizeLineKeepsSGR(t *testing.T) {
	in := "\x1b[31merror\x1b[0m"
	if got := sanitizeLine(in); got != in {
		t.Fatalf("expected SGR sequences preserved, got %q", got)
	}
}

func TestSanitizeLineStripsOSCTitle(t *testing.T) {
	in := "\x1b]0;window title\x07rest"
	if got := sanitizeLine(in); got != "rest" {
		t.Fatalf("expected OSC sequence stripped, got %q", got)
	}
}

func TestSanitizeLineDropsCarriageReturn(t *testing.T) {
	in := "progress 50%\rprogress 100%"
	if got := sanitizeLine(in); got != "progress 50%progress 100%" {
		t.Fatalf("expected bare \\r dropped, got %q", got)
	}
}
