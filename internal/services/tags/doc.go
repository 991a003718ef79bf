// Package tags shells out to the tag command-line utility to apply colored
// Finder tags to the Manual and Review folders. The capability is optional:
// when the binary is absent a no-op service is substituted and the organizer
// proceeds untagged.
package tags
