package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeSource()
	c.normalizePlex()
	c.normalizeCatalog()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeSource() {
	fallbackEnv(&c.Source.URL, "YTDL_URL")
	fallbackEnv(&c.Source.APIKey, "YTDL_API_KEY")
	fallbackEnv(&c.Source.Username, "YTDL_USER")
	fallbackEnv(&c.Source.Password, "YTDL_PASSWORD")
	c.Source.URL = strings.TrimRight(strings.TrimSpace(c.Source.URL), "/")
	c.Source.APIKey = strings.TrimSpace(c.Source.APIKey)
	if c.Source.Timeout <= 0 {
		c.Source.Timeout = defaultSourceTimeout
	}
}

func (c *Config) normalizePlex() {
	fallbackEnv(&c.Plex.URL, "PLEX_URL")
	fallbackEnv(&c.Plex.Token, "PLEX_TOKEN")
	fallbackEnv(&c.Plex.SectionID, "PLEX_MUSIC_SECTION_ID")
	c.Plex.URL = strings.TrimRight(strings.TrimSpace(c.Plex.URL), "/")
	c.Plex.Token = strings.TrimSpace(c.Plex.Token)
	c.Plex.SectionID = strings.TrimSpace(c.Plex.SectionID)
	if c.Plex.Timeout <= 0 {
		c.Plex.Timeout = defaultPlexTimeout
	}
}

func (c *Config) normalizeCatalog() {
	c.Catalog.BaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.BaseURL), "/")
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = defaultCatalogBaseURL
	}
	if c.Catalog.Timeout <= 0 {
		c.Catalog.Timeout = defaultCatalogTimeout
	}
	if c.Catalog.Limit <= 0 {
		c.Catalog.Limit = defaultCatalogLimit
	}
}

func (c *Config) normalizePaths() error {
	fallbackEnv(&c.Paths.DownloadDir, "LOCAL_DOWNLOAD_DIR")
	fallbackEnv(&c.Paths.LockFile, "LOCK_FILE_PATH")
	fallbackEnv(&c.Paths.LogFile, "LOG_PATH")
	if strings.TrimSpace(c.Paths.DownloadDir) == "" {
		c.Paths.DownloadDir = defaultDownloadDir
	}
	if strings.TrimSpace(c.Paths.LockFile) == "" {
		c.Paths.LockFile = defaultLockFile
	}

	var err error
	if c.Paths.DownloadDir, err = ExpandPath(c.Paths.DownloadDir); err != nil {
		return fmt.Errorf("paths.download_dir: %w", err)
	}
	if c.Paths.LockFile, err = ExpandPath(c.Paths.LockFile); err != nil {
		return fmt.Errorf("paths.lock_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogFile) != "" {
		if c.Paths.LogFile, err = ExpandPath(c.Paths.LogFile); err != nil {
			return fmt.Errorf("paths.log_file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

// fallbackEnv fills target from the named environment variable when the
// configured value is empty.
func fallbackEnv(target *string, key string) {
	if strings.TrimSpace(*target) != "" {
		return
	}
	if value, ok := os.LookupEnv(key); ok {
		*target = value
	}
}
