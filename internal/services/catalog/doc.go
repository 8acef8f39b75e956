// Package catalog resolves canonical artist/album/title metadata for a
// track via the iTunes Search API.
//
// A lookup that completes but matches nothing returns an error tagged with
// services.ErrNotFound; the organizer treats that the same as a file with
// missing tags and falls back to flat placement.
package catalog
