package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMoveFileCreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "track.mp3")
	if err := os.WriteFile(src, []byte("audio bytes"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	dst := filepath.Join(dir, "Artist", "Album", "Track.mp3")
	if err := MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile returned error: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(data) != "audio bytes" {
		t.Fatalf("destination content = %q, want %q", data, "audio bytes")
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("source still present after move (stat err = %v)", err)
	}
}

func TestMoveFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := MoveFile(filepath.Join(dir, "absent.mp3"), filepath.Join(dir, "out", "absent.mp3"))
	if err == nil {
		t.Fatal("expected error moving a missing source")
	}
}
