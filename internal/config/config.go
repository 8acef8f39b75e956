package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Source contains the connection settings for the YTDL media source.
type Source struct {
	URL      string `toml:"url"`
	APIKey   string `toml:"api_key"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	// Timeout is the per-request timeout in seconds.
	Timeout int `toml:"timeout"`
	// DeferredCleanup postpones remote deletes to a single end-of-run pass.
	// Only files that synced successfully in this run are deleted.
	DeferredCleanup bool `toml:"deferred_cleanup"`
}

// Plex contains configuration for the library rescan trigger. The three
// fields form an all-or-nothing group.
type Plex struct {
	URL       string `toml:"url"`
	Token     string `toml:"token"`
	SectionID string `toml:"section_id"`
	Timeout   int    `toml:"timeout"`
}

// Catalog contains configuration for the metadata lookup service used to
// resolve canonical artist/album/title triples.
type Catalog struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
	Timeout int    `toml:"timeout"`
	Limit   int    `toml:"limit"`
}

// Paths contains local filesystem locations.
type Paths struct {
	DownloadDir string `toml:"download_dir"`
	LockFile    string `toml:"lock_file"`
	LogFile     string `toml:"log_file"`
}

// Notifications contains ntfy push notification settings.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for ytsync.
type Config struct {
	Source        Source        `toml:"source"`
	Plex          Plex          `toml:"plex"`
	Catalog       Catalog       `toml:"catalog"`
	Paths         Paths         `toml:"paths"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/ytsync/config.toml")
}

// Load locates, parses, and normalizes a configuration file. The returned
// config has path fields expanded, environment fallbacks applied, and
// structural validation performed. Presence of required source/plex fields
// is checked separately (RequireSource, RequirePlex) so commands can merge
// flag overrides first.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("ytsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the download directory and, when file logging is
// configured, the log file's parent directory.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.DownloadDir, 0o755); err != nil {
		return fmt.Errorf("create download directory %q: %w", c.Paths.DownloadDir, err)
	}
	if strings.TrimSpace(c.Paths.LogFile) != "" {
		if err := os.MkdirAll(filepath.Dir(c.Paths.LogFile), 0o755); err != nil {
			return fmt.Errorf("create log directory for %q: %w", c.Paths.LogFile, err)
		}
	}
	return nil
}

// PlexConfigured reports whether the full plex group is present.
func (c *Config) PlexConfigured() bool {
	return strings.TrimSpace(c.Plex.URL) != "" &&
		strings.TrimSpace(c.Plex.Token) != "" &&
		strings.TrimSpace(c.Plex.SectionID) != ""
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// ExpandPath expands a leading ~ and resolves the path to absolute form.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
