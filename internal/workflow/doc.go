// Package workflow drives one sync pass against the media source.
//
// The orchestrator owns the ordering and partial-failure semantics of the
// run: authenticate when credentials exist, list the remote files, then for
// each file skip-if-present, download, place, and delete remotely — in that
// order, with remote deletion strictly after local durability. Failures on
// one file never abort the rest of the pass; failures on authentication or
// listing abort the whole run. A Plex rescan and an optional ntfy summary
// close out the pass.
package workflow
