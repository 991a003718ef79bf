package grouping

import (
	"regexp"
	"strings"
)

// defaultStopwords are names too generic to identify or match a group.
var defaultStopwords = []string{
	"active", "new", "copy", "backup", "final", "draft", "old",
	"image", "file", "document", "untitled", "screenshot", "photo",
	"picture", "scan", "export", "import", "temp", "tmp", "test",
	"sample", "demo",
}

var (
	leadingDatePattern   = regexp.MustCompile(`^20\d{2}[-_]\d{2}[-_]\d{2}[-_ ]+`)
	leadingNumberPattern = regexp.MustCompile(`^\d+[-_ ]+`)
	leadingTokenPattern  = regexp.MustCompile(`^[A-Za-z0-9]+`)
	allDigitsPattern     = regexp.MustCompile(`^\d+$`)
)

// Policy carries the tunable knobs of the grouping heuristics. The zero value
// is not usable; start from DefaultPolicy.
type Policy struct {
	SimilarityThreshold float64
	MinPrefixLen        int
	MinGroupSize        int

	stopwords map[string]struct{}
}

// DefaultPolicy returns the stock policy with the built-in stopword set.
func DefaultPolicy() Policy {
	stopwords := make(map[string]struct{}, len(defaultStopwords))
	for _, word := range defaultStopwords {
		stopwords[word] = struct{}{}
	}
	return Policy{
		SimilarityThreshold: 0.65,
		MinPrefixLen:        4,
		MinGroupSize:        2,
		stopwords:           stopwords,
	}
}

// WithExtraStopwords returns a copy of the policy with additional stopwords
// merged into the built-in set.
func (p Policy) WithExtraStopwords(words ...string) Policy {
	merged := make(map[string]struct{}, len(p.stopwords)+len(words))
	for word := range p.stopwords {
		merged[word] = struct{}{}
	}
	for _, word := range words {
		normalized := strings.ToLower(strings.TrimSpace(word))
		if normalized == "" {
			continue
		}
		merged[normalized] = struct{}{}
	}
	p.stopwords = merged
	return p
}

// IsStopword reports whether word is too generic to serve as a group identity.
func (p Policy) IsStopword(word string) bool {
	_, ok := p.stopwords[strings.ToLower(strings.TrimSpace(word))]
	return ok
}

// BusinessPrefix extracts the leading vendor-style token of a name: the first
// alphanumeric run after discarding one leading date-shaped or purely numeric
// prefix. Returns "" when the token is shorter than the policy minimum, a
// stopword, or all digits.
func (p Policy) BusinessPrefix(name string) string {
	stem := strings.TrimSpace(name)
	stem = leadingDatePattern.ReplaceAllString(stem, "")
	stem = leadingNumberPattern.ReplaceAllString(stem, "")
	token := leadingTokenPattern.FindString(stem)
	if len(token) < p.MinPrefixLen {
		return ""
	}
	if allDigitsPattern.MatchString(token) {
		return ""
	}
	lowered := strings.ToLower(token)
	if p.IsStopword(lowered) {
		return ""
	}
	return lowered
}
