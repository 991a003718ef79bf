// Package classify maps files to category labels.
//
// Classification is a two-step lookup: the file extension against an ordered
// category table, then a mimetype-class fallback for extensions the table
// does not own. Every file resolves to exactly one category; the catch-all
// "Others" absorbs whatever neither step recognizes. The table can be
// overridden by a JSON resource; a missing or malformed resource silently
// falls back to the built-in defaults.
package classify
