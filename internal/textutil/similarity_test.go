package textutil

import (
	"math"
	"testing"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"both empty", "", "", 0},
		{"a empty", "", "abc", 3},
		{"b empty", "abc", "", 3},
		{"identical", "report", "report", 0},
		{"single substitution", "report", "resort", 1},
		{"classic", "kitten", "sitting", 3},
		{"insertion", "invoice", "invoices", 1},
		{"unicode runes", "café", "cafe", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Levenshtein(tt.a, tt.b); got != tt.want {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestLevenshteinSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"acme-invoice", "acme-receipt"},
		{"screenshot", "photo"},
		{"", "xyz"},
	}
	for _, pair := range pairs {
		if Levenshtein(pair[0], pair[1]) != Levenshtein(pair[1], pair[0]) {
			t.Errorf("Levenshtein not symmetric for %q, %q", pair[0], pair[1])
		}
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "report_final", "report_final", 1},
		{"both empty", "", "", 1},
		{"disjoint", "aaaa", "bbbb", 0},
		{"three quarters", "abcd", "abce", 0.75},
		{"one empty", "", "abcd", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ratio(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRatioBounds(t *testing.T) {
	pairs := [][2]string{
		{"acme-invoice-2024", "acme-invoice-2025"},
		{"x", "completely different name"},
		{"report", "reports"},
	}
	for _, pair := range pairs {
		got := Ratio(pair[0], pair[1])
		if got < 0 || got > 1 {
			t.Errorf("Ratio(%q, %q) = %v, out of [0, 1]", pair[0], pair[1], got)
		}
	}
}
