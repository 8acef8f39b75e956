// Package config loads, normalizes, and validates ytsync configuration.
//
// Values come from a TOML file merged over repository defaults, with
// environment-variable fallbacks for fields the original deployment scripts
// exported (YTDL_URL, PLEX_TOKEN, and friends). Command flags override the
// loaded values at the CLI layer. The resulting Config is built once at
// startup and passed into every component; nothing in this package is
// process-global.
package config
