package insights

import (
	"testing"

	"repurpose/internal/core"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases and strips punctuation",
			input:    "Ship Early, Ship Often!",
			expected: "shipearlyshipoften",
		},
		{
			name:     "keeps digits",
			input:    "The 80/20 rule",
			expected: "the8020rule",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "  \t\n  ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSimilaritySymmetry(t *testing.T) {
	pairs := [][2]string{
		{"ship early and often", "deploy continuously"},
		{"the map is not the territory", "the territory is not the map"},
		{"abc", "xyz"},
		{"", "something"},
	}

	for _, pair := range pairs {
		ab := Similarity(pair[0], pair[1])
		ba := Similarity(pair[1], pair[0])
		if ab != ba {
			t.Errorf("Similarity(%q, %q) = %v but reversed = %v", pair[0], pair[1], ab, ba)
		}
	}
}

func TestSimilarityIdentical(t *testing.T) {
	if got := Similarity("same claim", "same claim"); got != 1.0 {
		t.Errorf("identical claims: got %v, want 1.0", got)
	}
}

func TestSimilarityBothEmpty(t *testing.T) {
	if got := Similarity("", "!!!"); got != 1.0 {
		t.Errorf("two claims that normalize to empty: got %v, want 1.0", got)
	}
}

func TestSimilarityOneEmpty(t *testing.T) {
	if got := Similarity("", "realclaim"); got != 0.0 {
		t.Errorf("one empty claim: got %v, want 0.0", got)
	}
}

func TestSimilarityDisjoint(t *testing.T) {
	if got := Similarity("abc", "xyz"); got != 0.0 {
		t.Errorf("disjoint character sets: got %v, want 0.0", got)
	}
}

func TestDedupeCollapsesNearDuplicates(t *testing.T) {
	insights := []core.ExtractedInsight{
		{Topic: "process", Claim: "Ship early and ship often to learn faster"},
		{Topic: "process", Claim: "ship early, ship often — learn faster!"},
		{Topic: "hiring", Claim: "XYZQ VWXJ KQZ"},
	}

	kept := Dedupe(insights)
	if len(kept) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(kept))
	}
	if kept[0].Claim != insights[0].Claim {
		t.Errorf("first occurrence should win, got %q", kept[0].Claim)
	}
	if kept[1].Topic != "hiring" {
		t.Errorf("dissimilar insight should survive, got %+v", kept[1])
	}
}

func TestDedupePreservesOrder(t *testing.T) {
	insights := []core.ExtractedInsight{
		{Claim: "aaaa bbbb"},
		{Claim: "qqqq rrrr"},
		{Claim: "xxxx zzzz"},
	}

	kept := Dedupe(insights)
	if len(kept) != 3 {
		t.Fatalf("expected all 3 to survive, got %d", len(kept))
	}
	for i, insight := range kept {
		if insight.Claim != insights[i].Claim {
			t.Errorf("position %d: got %q, want %q", i, insight.Claim, insights[i].Claim)
		}
	}
}

func TestDedupeIdempotent(t *testing.T) {
	insights := []core.ExtractedInsight{
		{Claim: "Ship early and ship often"},
		{Claim: "SHIP EARLY, SHIP OFTEN"},
		{Claim: "measure twice cut once"},
	}

	once := Dedupe(insights)
	twice := Dedupe(once)

	if len(once) != len(twice) {
		t.Fatalf("second pass changed count: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Claim != twice[i].Claim {
			t.Errorf("position %d changed between passes", i)
		}
	}
}

func TestDedupeEmptyInput(t *testing.T) {
	kept := Dedupe(nil)
	if len(kept) != 0 {
		t.Errorf("expected empty result, got %d", len(kept))
	}
}
