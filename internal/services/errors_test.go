package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("connection refused")
	err := Wrap(ErrListing, "ytdl", "list files", "request failed", base)
	if !errors.Is(err, ErrListing) {
		t.Fatalf("expected wrapped error to match ErrListing, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to retain the cause, got %v", err)
	}
	want := "listing error: ytdl: list files: request failed: connection refused"
	if err.Error() != want {
		t.Fatalf("error text = %q, want %q", err.Error(), want)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "ytdl", "download", "stream aborted", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected nil marker to default to ErrTransient, got %v", err)
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := Wrap(ErrTransient, "", "", "", nil)
	if err.Error() != "transient failure: service failure" {
		t.Fatalf("error text = %q", err.Error())
	}
}

func TestFatal(t *testing.T) {
	tests := []struct {
		name   string
		marker error
		want   bool
	}{
		{name: "configuration", marker: ErrConfiguration, want: true},
		{name: "auth", marker: ErrAuth, want: true},
		{name: "listing", marker: ErrListing, want: true},
		{name: "transient", marker: ErrTransient, want: false},
		{name: "not found", marker: ErrNotFound, want: false},
		{name: "already running", marker: ErrAlreadyRunning, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Wrap(tt.marker, "component", "op", "", nil)
			if got := Fatal(err); got != tt.want {
				t.Fatalf("Fatal(%v) = %v, want %v", err, got, tt.want)
			}
		})
	}
}
