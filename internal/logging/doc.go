// Package logging builds the slog loggers used throughout ytsync.
//
// Two output formats are supported: a colorized console format for
// interactive use and a JSON format for log collectors. When a log file is
// configured, records fan out to both stdout and the file, with ANSI color
// reserved for terminals.
package logging
