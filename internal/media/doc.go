// Package media verifies uploaded image files and generates their
// thumbnails.
//
// Uploads are identified by content sniffing, never by the client-supplied
// filename. Thumbnail generation prefers libvips for decode-time shrinking
// and falls back to a pure-Go pipeline when libvips is unavailable.
package media
