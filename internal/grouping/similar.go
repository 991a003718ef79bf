package grouping

import (
	"regexp"
	"strings"

	"cubby/internal/textutil"
)

// keywordCategories are domain vocabularies whose presence in both names
// counts as a match on its own, regardless of edit distance.
var keywordCategories = map[string][]string{
	"billing": {"invoice", "receipt", "payment"},
	"project": {"project", "task", "ticket"},
}

var versionMarkerPattern = regexp.MustCompile(`\bv\d+\b`)

const maxSharedWordBoost = 0.2

// Similar reports whether two stems belong together. A shared keyword
// category or a shared business prefix matches outright; otherwise the
// cleaned names are scored by edit-distance ratio plus a small boost per
// shared meaningful word, against the policy threshold. Names that merely
// share a date token do not match.
func (p Policy) Similar(a, b string) bool {
	if sameKeywordCategory(a, b) {
		return true
	}
	prefixA := p.BusinessPrefix(a)
	if prefixA != "" && prefixA == p.BusinessPrefix(b) {
		return true
	}
	cleanedA := cleanName(a)
	cleanedB := cleanName(b)
	if cleanedA == "" || cleanedB == "" {
		return false
	}
	score := textutil.Ratio(cleanedA, cleanedB) + p.sharedWordBoost(cleanedA, cleanedB)
	if score > 1 {
		score = 1
	}
	return score >= p.SimilarityThreshold
}

func sameKeywordCategory(a, b string) bool {
	for _, keywords := range keywordCategories {
		if containsAnyWord(a, keywords) && containsAnyWord(b, keywords) {
			return true
		}
	}
	return versionMarkerPattern.MatchString(strings.ToLower(a)) &&
		versionMarkerPattern.MatchString(strings.ToLower(b))
}

func containsAnyWord(name string, words []string) bool {
	for _, word := range words {
		if textutil.ContainsWord(name, word) {
			return true
		}
	}
	return false
}

func (p Policy) sharedWordBoost(a, b string) float64 {
	wordsB := make(map[string]struct{})
	for _, word := range textutil.Tokenize(b) {
		wordsB[word] = struct{}{}
	}
	shared := 0
	for _, word := range textutil.Tokenize(a) {
		if p.IsStopword(word) {
			continue
		}
		if _, ok := wordsB[word]; ok {
			shared++
		}
	}
	boost := 0.05 * float64(shared)
	if boost > maxSharedWordBoost {
		return maxSharedWordBoost
	}
	return boost
}
