// Package ytdl is the HTTP client for the YTDL download manager that ytsync
// drains.
//
// The client covers the four operations the sync pass needs: optional login
// for a JWT, listing the remote files, streaming a file's bytes to disk, and
// deleting a file after its local copy is durable. Downloads land in a
// temporary file beside the destination and are renamed into place only once
// the stream fully drains, so an aborted transfer never leaves a partial
// file at the final path.
package ytdl
