package grouping

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"cubby/internal/textutil"
)

var (
	duplicateMarkerPattern = regexp.MustCompile(`\s*\(\d+\)`)
	versionSuffixPattern   = regexp.MustCompile(`(?i)\s+v\d+(\.\d+)?\b`)
	embeddedDatePattern    = regexp.MustCompile(`20\d{2}[-_]\d{2}[-_]\d{2}`)
	modifierPattern        = regexp.MustCompile(`(?i)\s+-\s+copy\b|\s+copy\b|\s+final\b|\s+draft\b|\s+new\b`)

	// Ordered alternation: the epoch form must precede the bare 8-digit form
	// so a 10-digit timestamp is not truncated to its first 8 digits.
	datePattern = regexp.MustCompile(`20\d{2}[-_]?\d{2}[-_]?\d{2}|\d{2}[-_]?\d{2}[-_]?20\d{2}|17\d{8}|\d{8}`)
)

var titleCaser = cases.Title(language.Und)

// cleanName strips cosmetic noise from a stem for similarity scoring:
// duplicate markers like " (2)", version suffixes like " v3", embedded
// dates, and trailing copy/final/draft/new modifiers. The result is
// lowercased and trimmed of leftover separators.
func cleanName(name string) string {
	cleaned := duplicateMarkerPattern.ReplaceAllString(name, "")
	cleaned = versionSuffixPattern.ReplaceAllString(cleaned, "")
	cleaned = embeddedDatePattern.ReplaceAllString(cleaned, "")
	cleaned = modifierPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.ToLower(strings.TrimSpace(cleaned))
	return strings.Trim(cleaned, "-_ ")
}

// DateToken returns the first date-shaped token embedded in name. Recognized
// shapes are year-first and year-last calendar dates with optional - or _
// separators, 10-digit epoch timestamps, and bare 8-digit runs.
func DateToken(name string) (string, bool) {
	token := datePattern.FindString(name)
	if token == "" {
		return "", false
	}
	return token, true
}

// SuggestName derives a group name shared by all stems, trying in order a
// common business prefix, a common whole word, and a common date token.
// Returns false when the stems share none of these; a group is never given
// an invented name.
func (p Policy) SuggestName(stems []string) (string, bool) {
	if len(stems) == 0 {
		return "", false
	}
	if prefix, ok := p.sharedPrefix(stems); ok {
		return titleCaser.String(prefix), true
	}
	if word, ok := p.sharedWord(stems); ok {
		return titleCaser.String(word), true
	}
	if token, ok := sharedDateToken(stems); ok {
		label := token
		if len(label) > 10 {
			label = label[:10]
		}
		return "Date-" + label, true
	}
	return "", false
}

func (p Policy) sharedPrefix(stems []string) (string, bool) {
	first := p.BusinessPrefix(stems[0])
	if first == "" {
		return "", false
	}
	for _, stem := range stems[1:] {
		if p.BusinessPrefix(stem) != first {
			return "", false
		}
	}
	return first, true
}

func (p Policy) sharedWord(stems []string) (string, bool) {
	for _, word := range textutil.LetterWords(stems[0]) {
		if p.IsStopword(word) {
			continue
		}
		shared := true
		for _, stem := range stems[1:] {
			if !textutil.ContainsWord(stem, word) {
				shared = false
				break
			}
		}
		if shared {
			return word, true
		}
	}
	return "", false
}

func sharedDateToken(stems []string) (string, bool) {
	first, ok := DateToken(stems[0])
	if !ok {
		return "", false
	}
	for _, stem := range stems[1:] {
		token, ok := DateToken(stem)
		if !ok || token != first {
			return "", false
		}
	}
	return first, true
}
