package config

import (
	"fmt"
	"strings"

	"ytsync/internal/services"
)

// Validate checks structural configuration constraints. Presence of the
// required source fields is deferred to RequireSource so flag overrides can
// be merged first.
func (c *Config) Validate() error {
	if err := c.validatePlex(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePlex() error {
	url := strings.TrimSpace(c.Plex.URL)
	token := strings.TrimSpace(c.Plex.Token)
	section := strings.TrimSpace(c.Plex.SectionID)
	if url == "" && token == "" && section == "" {
		return nil
	}
	if url == "" || token == "" || section == "" {
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			"plex.url, plex.token, and plex.section_id must be set together or not at all", nil)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			fmt.Sprintf("logging.format: unsupported value %q", c.Logging.Format), nil)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			fmt.Sprintf("logging.level: unsupported value %q", c.Logging.Level), nil)
	}
	return nil
}

// RequireSource ensures the media source connection fields are present.
// Called after CLI flag overrides are applied.
func (c *Config) RequireSource() error {
	if strings.TrimSpace(c.Source.URL) == "" {
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			"source.url is required (set YTDL_URL or edit the config file; create one with 'ytsync config init')", nil)
	}
	if strings.TrimSpace(c.Source.APIKey) == "" {
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			"source.api_key is required (set YTDL_API_KEY or edit the config file)", nil)
	}
	return nil
}

// RequirePlex ensures the plex connection fields needed for section listing
// are present.
func (c *Config) RequirePlex() error {
	if strings.TrimSpace(c.Plex.URL) == "" || strings.TrimSpace(c.Plex.Token) == "" {
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			"plex.url and plex.token are required (set PLEX_URL and PLEX_TOKEN or edit the config file)", nil)
	}
	return nil
}
