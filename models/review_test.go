package models

import (
	"strings"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"My Great Paper":    "my-great-paper",
		"  spaced  out  ":   "spaced-out",
		"Ünïcode Tïtle":     "ünïcode-tïtle",
		"v2.1 (final) !!":   "v2-1-final",
		"already-clean":     "already-clean",
		"UPPER_under_lower": "upper-under-lower",
	}
	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewReviewID(t *testing.T) {
	id := NewReviewID("2026-03-01T10:00:00Z", "My Paper")
	if id != "2026-03-01T10:00:00Z-my-paper" {
		t.Errorf("unexpected id %q", id)
	}
}

func TestMakePreview(t *testing.T) {
	short := "A short review."
	if got := MakePreview(short); got != short {
		t.Errorf("short text must pass through unchanged, got %q", got)
	}

	long := strings.Repeat("word ", 60)
	got := MakePreview(long)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("long text must end with an ellipsis, got %q", got)
	}
	if len([]rune(got)) != 153 {
		t.Errorf("preview length = %d runes, want 153", len([]rune(got)))
	}
}
