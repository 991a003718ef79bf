package grouping

import (
	"math"
	"testing"
)

func TestSimilar(t *testing.T) {
	policy := DefaultPolicy()
	cases := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{
			name: "shared billing keyword",
			a:    "ACME-Invoice-2024-01-05",
			b:    "megacorp receipt march",
			want: true,
		},
		{
			name: "shared business prefix",
			a:    "report_final",
			b:    "report_final (1)",
			want: true,
		},
		{
			name: "version markers",
			a:    "notes v1",
			b:    "summary V2",
			want: true,
		},
		{
			name: "identical after cleaning",
			a:    "final_report_acme",
			b:    "final_report_acme v2",
			want: true,
		},
		{
			name: "date coincidence alone",
			a:    "alpha-2024-01-05",
			b:    "beta-2024-01-05",
			want: false,
		},
		{
			name: "unrelated",
			a:    "holiday plan",
			b:    "tax worksheet",
			want: false,
		},
		{
			name: "cleans to empty",
			a:    "2024-01-05",
			b:    "2024-01-05 (1)",
			want: false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := policy.Similar(tc.a, tc.b); got != tc.want {
				t.Fatalf("Similar(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			if got := policy.Similar(tc.b, tc.a); got != tc.want {
				t.Fatalf("Similar(%q, %q) = %v, want %v", tc.b, tc.a, got, tc.want)
			}
		})
	}
}

func TestSharedWordBoost(t *testing.T) {
	policy := DefaultPolicy()

	if got := policy.sharedWordBoost("acme ledger march", "march ledger acme"); math.Abs(got-0.15) > 1e-9 {
		t.Fatalf("boost = %v, want 0.15", got)
	}
	if got := policy.sharedWordBoost("one two three four five six", "one two three four five six"); got != maxSharedWordBoost {
		t.Fatalf("boost = %v, want cap %v", got, maxSharedWordBoost)
	}
	if got := policy.sharedWordBoost("copy backup temp", "copy backup temp"); got != 0 {
		t.Fatalf("stopwords must not contribute to the boost, got %v", got)
	}
	if got := policy.sharedWordBoost("alpha", "beta"); got != 0 {
		t.Fatalf("disjoint names must not get a boost, got %v", got)
	}
}

func TestSimilarHonorsThreshold(t *testing.T) {
	strict := DefaultPolicy()
	strict.SimilarityThreshold = 1.01

	if strict.Similar("old_notes_alpha", "old_notes_alphas") {
		t.Fatal("unreachable threshold must reject ratio matches")
	}
	if !strict.Similar("ACME invoice", "ACME receipt") {
		t.Fatal("keyword category match must bypass the threshold")
	}
}
