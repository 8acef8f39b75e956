package main

import (
	"testing"

	"github.com/gofrs/flock"
)

// acquireTestLock grabs the lock file the way a concurrent run would, and
// returns a release func.
func acquireTestLock(t *testing.T, path string) func() {
	t.Helper()
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		t.Fatalf("acquire test lock: %v", err)
	}
	if !ok {
		t.Fatalf("test lock at %s already held", path)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			t.Fatalf("release test lock: %v", err)
		}
	}
}
