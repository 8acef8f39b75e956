// Package plex triggers library rescans on a Plex media server and lists
// its library sections.
//
// A rescan is fire-and-forget: the sync run logs failures but never fails
// because of them, since the files are already on disk by the time the
// server is poked.
package plex
