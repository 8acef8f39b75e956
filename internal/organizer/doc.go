// Package organizer decides where a downloaded file comes to rest.
//
// Two interchangeable strategies implement the Placer interface: flat
// placement leaves files where the download put them, and tag-based
// organization reads the embedded title/artist, resolves a canonical
// artist/album/title triple through the metadata catalog, rewrites the tags,
// and moves the file into <root>/<Artist>/<Album>/<Title>.<ext>. Missing
// tags and catalog misses degrade to flat placement rather than failing the
// file.
package organizer
