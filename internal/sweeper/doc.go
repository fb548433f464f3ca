// Package sweeper reconciles the image catalog with the filesystem.
//
// On each pass it recycles catalog rows whose original file no longer
// exists on disk and deletes expired authentication sessions. File checks
// run concurrently with a worker pool sized for I/O-bound work.
package sweeper
