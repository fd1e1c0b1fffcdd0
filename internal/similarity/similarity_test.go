package similarity

import (
	"math"
	"strings"
	"testing"
)

func TestRatio(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"abc", "abc", 1},
		{"abc", "", 0},
		{"abcdefghij", "abcdefghiX", 0.9},
		{"kitten", "sitting", 1 - 3.0/7.0},
	}
	for _, tc := range cases {
		if got := Ratio(tc.a, tc.b); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("Ratio(%q,%q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestBest_PicksClosest(t *testing.T) {
	got, score, ok := Best("acme metals", []string{"acme metal", "zeta recycling", "acme"}, 0.6)
	if !ok || got != "acme metal" {
		t.Fatalf("Best = %q, %v, %v", got, score, ok)
	}
}

func TestBest_CutoffBoundary(t *testing.T) {
	key := strings.Repeat("a", 25)
	// Three substitutions out of 25 runes is exactly 0.88.
	probe := "bbb" + strings.Repeat("a", 22)
	if _, _, ok := Best(probe, []string{key}, 0.88); !ok {
		t.Error("ratio equal to the cutoff must be accepted")
	}

	short := strings.Repeat("a", 20)
	probe = "bbb" + strings.Repeat("a", 17)
	if _, _, ok := Best(probe, []string{short}, 0.88); ok {
		t.Error("0.85 must be rejected at cutoff 0.88")
	}
}

func TestBest_TieKeepsFirst(t *testing.T) {
	got, _, ok := Best("ab", []string{"ax", "ay"}, 0.5)
	if !ok || got != "ax" {
		t.Errorf("Best = %q, %v", got, ok)
	}
}

func TestBest_NoCandidates(t *testing.T) {
	if _, _, ok := Best("x", nil, 0); ok {
		t.Error("no candidates must not match")
	}
}
