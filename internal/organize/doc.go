// Package organize drives the scan cycle: classify and relocate loose
// top-level items into category buckets, batch-regroup bucket residue by
// name similarity, sweep long-unaccessed items into the Review folder, and
// prune the directories the cycle emptied.
package organize
