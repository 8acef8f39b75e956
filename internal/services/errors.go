package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks fatal configuration problems detected before
	// any network call is made.
	ErrConfiguration = errors.New("configuration error")
	// ErrAlreadyRunning marks the graceful "another instance holds the
	// lock" outcome. It is not a failure and maps to exit code 0.
	ErrAlreadyRunning = errors.New("already running")
	// ErrAuth marks authentication failures against the media source.
	ErrAuth = errors.New("authentication error")
	// ErrListing marks failures to retrieve the remote file list.
	ErrListing = errors.New("listing error")
	// ErrTransient marks failures scoped to a single file; the run logs
	// them and continues with the next item.
	ErrTransient = errors.New("transient failure")
	// ErrNotFound marks lookups that completed but matched nothing.
	ErrNotFound = errors.New("not found")
)

// Wrap builds an error message that includes component and operation context
// while tagging it with the provided marker for later classification. The
// marker should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether err should abort the whole run rather than the
// current file.
func Fatal(err error) bool {
	return errors.Is(err, ErrConfiguration) || errors.Is(err, ErrAuth) || errors.Is(err, ErrListing)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
