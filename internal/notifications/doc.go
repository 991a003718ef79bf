// Package notifications delivers organizer events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. The organizer and the daemon loop depend only on the small
// Service interface, so alternative transports slot in without touching
// engine code.
package notifications
