// Package services defines the error classification shared by the sync
// pipeline's external integrations.
//
// Every failure from a network or filesystem operation is wrapped with a
// sentinel marker describing its severity: configuration and auth/listing
// errors abort the run, transient errors are scoped to a single file, and
// the already-running marker signals a graceful no-op exit. Callers use
// errors.Is against the exported sentinels to choose between aborting,
// skipping, and exiting cleanly.
package services
