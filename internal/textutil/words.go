package textutil

import (
	"regexp"
	"strings"
)

// tokenSplitPattern matches non-alphanumeric character sequences for tokenization.
var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// letterRunPattern matches alphabetic runs of three or more characters.
var letterRunPattern = regexp.MustCompile(`[a-zA-Z]{3,}`)

// Tokenize splits text into lowercase alphanumeric tokens, filtering tokens
// shorter than 3 characters.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	raw := tokenSplitPattern.Split(lowered, -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		token = strings.TrimSpace(token)
		if len(token) < 3 {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// LetterWords returns the lowercase alphabetic runs of three or more letters
// in text, in order of appearance.
func LetterWords(text string) []string {
	raw := letterRunPattern.FindAllString(text, -1)
	words := make([]string, 0, len(raw))
	for _, word := range raw {
		words = append(words, strings.ToLower(word))
	}
	return words
}

// ContainsWord reports whether s contains word as a whole word, delimited by
// non-alphanumeric boundaries. Comparison is case-insensitive.
func ContainsWord(s, word string) bool {
	if word == "" {
		return false
	}
	haystack := strings.ToLower(s)
	needle := strings.ToLower(word)
	for start := 0; start <= len(haystack)-len(needle); {
		idx := strings.Index(haystack[start:], needle)
		if idx < 0 {
			return false
		}
		idx += start
		boundedLeft := idx == 0 || !isWordByte(haystack[idx-1])
		end := idx + len(needle)
		boundedRight := end >= len(haystack) || !isWordByte(haystack[end])
		if boundedLeft && boundedRight {
			return true
		}
		start = idx + 1
	}
	return false
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
