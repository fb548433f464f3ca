// Package handlers implements the JSON API.
//
// All photo, album, tag, recycle and search routes require a session,
// which AuthMiddleware accepts from the session cookie, an Authorization
// bearer header, or a token query parameter; the query form exists so
// plain <img> tags can load raw files and thumbnails. The authenticated
// user travels in the request context and every store call is scoped to
// it.
//
// Uploads are identified by content sniffing, stored under random hex
// tokens, and thumbnailed at ingest time. Deletion is a two-stage
// recycle bin; only purge and clear touch files on disk.
package handlers
