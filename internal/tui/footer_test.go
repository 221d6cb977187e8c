package tui

import (
	"strings"
	"testing"

	"github.com/ahmed-okal1/typing/internal/session"
)

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{
		allTests:    12,
		allWPM:      68.1,
		allAccuracy: 96.9,
	}
	stats := session.LiveStats{
		WPM:            72.4,
		Accuracy:       97.8,
		Errors:         2,
		WordsCompleted: 3,
		TotalWords:     10,
	}
	out := m.renderFooter(stats)
	if out == "" {
		t.Fatalf("expected footer output")
	}
	for _, want := range []string{"Words 3/10", "WPM 72.4", "Acc 97.8%", "Errors 2", "All-time 68.1 WPM · 96.9%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}

func TestRenderFooterWithoutHistory(t *testing.T) {
	m := &Model{}
	out := m.renderFooter(session.LiveStats{TotalWords: 5})
	if strings.Contains(out, "All-time") {
		t.Fatalf("expected no all-time segment without history: %s", out)
	}
}

func TestRenderFooterNotice(t *testing.T) {
	m := &Model{notice: "finish the word before pressing space"}
	out := m.renderFooter(session.LiveStats{TotalWords: 5})
	if !strings.Contains(out, "finish the word") {
		t.Fatalf("expected rejection notice in footer: %s", out)
	}
}
