// Package grouping clusters related files and folders inside extension
// buckets by name similarity.
//
// Matching never invents identities. An item joins an existing populated
// group through a strong name match or a shared business prefix, and batches
// of similar leftovers are clustered and named only from what the names
// themselves share; anything else stays ungrouped.
package grouping
