// Package daemon coordinates the long-running cubby process.
//
// It wires the organize engine, the optional filesystem watcher, and
// notifications into a single scheduler lifecycle with flock-based locking to
// prevent multiple instances. Cycles run immediately at startup, then on the
// configured interval; a watch trigger pulls the next cycle forward, and a
// failed cycle is retried after the error cooldown instead of the full
// interval.
//
// Keep orchestration logic here: what a cycle actually does lives in the
// organize package while the daemon focuses on startup, shutdown, and timing.
package daemon
