// Package prune sweeps organized roots for empty directories left behind by
// moves and removes them down to a fixed point.
package prune
