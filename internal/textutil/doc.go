// Package textutil provides text helpers for safe filesystem naming.
//
// Path components derived from embedded tags or catalog responses are
// untrusted: a slash in an artist name must not create extra directory
// levels under the download root. SanitizePathComponent neutralizes
// separators and other characters that are unsafe in file names.
package textutil
