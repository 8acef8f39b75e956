// Package notifications delivers sync-run events via ntfy.
//
// The default implementation publishes to the topic configured in
// config.toml and degrades to a no-op when notifications are disabled.
// Publish failures are the caller's to log; they never fail a sync run.
package notifications
