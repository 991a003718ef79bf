// Package textutil provides the text primitives behind name-similarity
// grouping: rune-level edit distance, a normalized similarity ratio, and
// word extraction helpers.
//
// Tokenization lowercases text, splits on non-alphanumeric characters, and
// filters tokens shorter than 3 characters.
package textutil
