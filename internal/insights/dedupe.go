package insights

import (
	"strings"
	"unicode"

	"repurpose/internal/core"
)

// similarityThreshold is the character-set Jaccard similarity above which two
// claims are treated as duplicates.
const similarityThreshold = 0.7

// Normalize lowercases a claim and strips everything but letters and digits,
// so similarity ignores punctuation and spacing.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Similarity computes the Jaccard similarity of the character sets of two
// normalized claims. Two empty claims are identical; one empty claim is
// entirely dissimilar to a non-empty one.
func Similarity(a, b string) float64 {
	setA := charSet(Normalize(a))
	setB := charSet(Normalize(b))

	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}

	intersection := 0
	for r := range setA {
		if _, ok := setB[r]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func charSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}

// Dedupe collapses near-duplicate insights, keeping the first occurrence.
// Input order is preserved among survivors.
func Dedupe(insights []core.ExtractedInsight) []core.ExtractedInsight {
	kept := make([]core.ExtractedInsight, 0, len(insights))
	for _, candidate := range insights {
		duplicate := false
		for _, survivor := range kept {
			if Similarity(candidate.Claim, survivor.Claim) > similarityThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, candidate)
		}
	}
	return kept
}
