// Package staleness finds files and folders that have not been accessed for
// a configured span, the candidates for the review sweep.
package staleness
