package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ytsync/internal/services"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for a missing config file")
	}
	if cfg.Paths.DownloadDir != "/music" {
		t.Fatalf("download dir = %q, want /music", cfg.Paths.DownloadDir)
	}
	if cfg.Paths.LockFile != "/tmp/ytsync.lock" {
		t.Fatalf("lock file = %q, want /tmp/ytsync.lock", cfg.Paths.LockFile)
	}
	if cfg.Source.Timeout != 30 {
		t.Fatalf("source timeout = %d, want 30", cfg.Source.Timeout)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("logging defaults = %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadParsesFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[source]
url = "https://ytdl.example.com/"
api_key = " secret "

[plex]
url = "https://plex.example.com/"
token = "plex-token"
section_id = "4"

[paths]
download_dir = "` + dir + `/music"
lock_file = "` + dir + `/ytsync.lock"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Source.URL != "https://ytdl.example.com" {
		t.Fatalf("source url = %q, trailing slash not trimmed", cfg.Source.URL)
	}
	if cfg.Source.APIKey != "secret" {
		t.Fatalf("api key = %q, whitespace not trimmed", cfg.Source.APIKey)
	}
	if cfg.Plex.URL != "https://plex.example.com" {
		t.Fatalf("plex url = %q", cfg.Plex.URL)
	}
	if !cfg.PlexConfigured() {
		t.Fatal("expected PlexConfigured to be true")
	}
	if err := cfg.RequireSource(); err != nil {
		t.Fatalf("RequireSource returned error: %v", err)
	}
}

func TestLoadRejectsPartialPlexGroup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[plex]
url = "https://plex.example.com"
token = "plex-token"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := Load(path)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("Load error = %v, want ErrConfiguration", err)
	}
	if !strings.Contains(err.Error(), "section_id") {
		t.Fatalf("error %q does not mention the missing field group", err)
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := Load(path)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("Load error = %v, want ErrConfiguration", err)
	}
}

func TestEnvironmentFallbacks(t *testing.T) {
	t.Setenv("YTDL_URL", "https://env.example.com/")
	t.Setenv("YTDL_API_KEY", "env-key")
	t.Setenv("LOCAL_DOWNLOAD_DIR", t.TempDir())

	cfg, _, _, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Source.URL != "https://env.example.com" {
		t.Fatalf("source url = %q, env fallback not applied", cfg.Source.URL)
	}
	if cfg.Source.APIKey != "env-key" {
		t.Fatalf("api key = %q, env fallback not applied", cfg.Source.APIKey)
	}
}

func TestFileValueWinsOverEnvironment(t *testing.T) {
	t.Setenv("YTDL_URL", "https://env.example.com")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[source]\nurl = \"https://file.example.com\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Source.URL != "https://file.example.com" {
		t.Fatalf("source url = %q, file value should win", cfg.Source.URL)
	}
}

func TestRequireSourceMissingFields(t *testing.T) {
	cfg := Default()
	if err := cfg.RequireSource(); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("RequireSource error = %v, want ErrConfiguration", err)
	}
	cfg.Source.URL = "https://ytdl.example.com"
	if err := cfg.RequireSource(); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("RequireSource without api key = %v, want ErrConfiguration", err)
	}
	cfg.Source.APIKey = "key"
	if err := cfg.RequireSource(); err != nil {
		t.Fatalf("RequireSource returned error: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.DownloadDir = filepath.Join(dir, "music")
	cfg.Paths.LogFile = filepath.Join(dir, "logs", "ytsync.log")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	if info, err := os.Stat(cfg.Paths.DownloadDir); err != nil || !info.IsDir() {
		t.Fatalf("download dir not created: %v", err)
	}
	if info, err := os.Stat(filepath.Dir(cfg.Paths.LogFile)); err != nil || !info.IsDir() {
		t.Fatalf("log dir not created: %v", err)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	if _, _, exists, err := Load(path); err != nil || !exists {
		t.Fatalf("sample config did not load cleanly: exists=%v err=%v", exists, err)
	}
}
