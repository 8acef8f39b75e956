// Package lockfile enforces single-instance execution via an advisory
// filesystem lock.
//
// The lock is a non-blocking exclusive flock held for the entire run and
// released on every exit path. Because the kernel drops advisory locks when
// the owning process dies, a crashed run never leaves a stale lock behind.
package lockfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"ytsync/internal/services"
)

// Handle is an acquired lock. Release it when the run ends.
type Handle struct {
	lock *flock.Flock
}

// Acquire takes a non-blocking exclusive lock on path. It fails with a
// configuration error when path is a directory and with
// services.ErrAlreadyRunning when another process currently holds the lock.
func Acquire(path string) (*Handle, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return nil, services.Wrap(services.ErrConfiguration, "lockfile", "acquire", fmt.Sprintf("lock path %s is a directory", path), nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "lockfile", "acquire", "create lock directory", err)
	}

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "lockfile", "acquire", fmt.Sprintf("lock %s", path), err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrAlreadyRunning, "lockfile", "acquire", fmt.Sprintf("another sync holds %s", path), nil)
	}
	return &Handle{lock: lock}, nil
}

// Path returns the filesystem path backing the lock.
func (h *Handle) Path() string {
	if h == nil || h.lock == nil {
		return ""
	}
	return h.lock.Path()
}

// Release unlocks and closes the underlying file. Safe to call on a nil
// handle so callers can defer it unconditionally.
func (h *Handle) Release() error {
	if h == nil || h.lock == nil {
		return nil
	}
	return h.lock.Unlock()
}
