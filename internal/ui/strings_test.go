package ui

import (
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"short", "abc", 10, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"ellipsis", "abcdefgh", 6, "abc..."},
		{"tiny_limit", "abcdefgh", 2, "ab"},
		{"zero_limit", "abc", 0, "abc"},
		{"trims", "  abc  ", 10, "abc"},
		{"unicode", "Пользователь не найден", 10, "Пользов..."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncate(tc.in, tc.limit); got != tc.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Fatalf("padRight over-width = %q", got)
	}
	if got := padRight("ab", 0); got != "ab" {
		t.Fatalf("padRight zero = %q", got)
	}
}

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"reserved":     "Reserved",
		"not_found":    "Not Found",
		"  active  ":   "Active",
		"":             "",
		"ALREADY_DONE": "Already Done",
	}
	for in, want := range cases {
		if got := titleCase(in); got != want {
			t.Fatalf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHumanizeDuration(t *testing.T) {
	cases := []struct {
		name string
		in   time.Duration
		want string
	}{
		{"subsecond", 500 * time.Millisecond, "now"},
		{"seconds", 12 * time.Second, "12s"},
		{"minutes", 61 * time.Second, "1m"},
		{"hours_only", 2 * time.Hour, "2h"},
		{"hours_minutes", 2*time.Hour + 3*time.Minute, "2h 3m"},
		{"days", 24 * time.Hour, "1d"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := humanizeDuration(tc.in); got != tc.want {
				t.Fatalf("humanizeDuration(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	if got := formatDate(time.Time{}); got != "-" {
		t.Fatalf("formatDate(zero) = %q", got)
	}
	ts := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	if got := formatDate(ts); got != "2026-03-14" {
		t.Fatalf("formatDate = %q", got)
	}
	if got := formatDateTime(ts); got != "2026-03-14 10:30" {
		t.Fatalf("formatDateTime = %q", got)
	}
}

func TestIsISBN(t *testing.T) {
	cases := []struct {
		query string
		want  bool
	}{
		{"9785170802395", true},
		{"978-5-17-080239-5", true},
		{"5170802390", true},
		{"517080239X", true},
		{"517080239x", true},
		{"war and peace", false},
		{"1234", false},
		{"978517080239a", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isISBN(tc.query); got != tc.want {
			t.Errorf("isISBN(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}
