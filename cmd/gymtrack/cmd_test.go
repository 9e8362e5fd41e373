// ABOUTME: Tests parseDate, truncate, padRight, and ID prefix matching.
// ABOUTME: Pure helper tests; command wiring is covered by integration tests.
package main

import (
	"testing"

	"github.com/google/uuid"
)

func TestParseDate(t *testing.T) {
	valid := []string{
		"2026-03-14",
		"2026-03-14 18:30",
		"2026-03-14T18:30",
		"2026-03-14T18:30:00Z",
	}
	for _, s := range valid {
		if _, err := parseDate(s); err != nil {
			t.Errorf("parseDate(%q) failed: %v", s, err)
		}
	}

	invalid := []string{"", "tomorrow", "14/03/2026"}
	for _, s := range invalid {
		if _, err := parseDate(s); err == nil {
			t.Errorf("parseDate(%q) should fail", s)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"this is too long", 10, "this is..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"ab", 5, "ab   "},
		{"abcde", 5, "abcde"},
		{"abcdef", 5, "abcdef"},
	}
	for _, tt := range tests {
		if got := padRight(tt.input, tt.length); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestMatchID(t *testing.T) {
	a := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000000")
	b := uuid.MustParse("abbbbbbb-0000-0000-0000-000000000000")
	candidates := []uuid.UUID{a, b}

	// Full UUID always resolves, even outside the candidate list.
	outside := uuid.New()
	if got, err := matchID(outside.String(), candidates); err != nil || got != outside {
		t.Errorf("full UUID should parse directly, got %v, %v", got, err)
	}

	if got, err := matchID("aa", candidates); err != nil || got != a {
		t.Errorf("unique prefix should match, got %v, %v", got, err)
	}

	if _, err := matchID("a", candidates); err == nil {
		t.Error("ambiguous prefix should fail")
	}
	if _, err := matchID("ff", candidates); err == nil {
		t.Error("unknown prefix should fail")
	}
}

func TestParseWeightReps(t *testing.T) {
	tests := []struct {
		input  string
		weight float64
		reps   int
		ok     bool
	}{
		{"80x8", 80, 8, true},
		{"82.5x5", 82.5, 5, true},
		{"0x0", 0, 0, true},
		{"80", 0, 0, false},
		{"80x", 0, 0, false},
		{"x8", 0, 0, false},
		{"heavy x many", 0, 0, false},
	}
	for _, tt := range tests {
		weight, reps, err := parseWeightReps(tt.input)
		if tt.ok != (err == nil) {
			t.Errorf("parseWeightReps(%q) error = %v, want ok=%v", tt.input, err, tt.ok)
			continue
		}
		if tt.ok && (weight != tt.weight || reps != tt.reps) {
			t.Errorf("parseWeightReps(%q) = %v, %v, want %v, %v", tt.input, weight, reps, tt.weight, tt.reps)
		}
	}
}
