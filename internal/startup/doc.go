// Package startup handles application initialization and configuration.
//
// Configuration is loaded entirely from environment variables with
// sensible defaults so the binary runs unconfigured in a container:
//
//	UPLOAD_DIR        directory holding original image files (default /uploads)
//	CACHE_DIR         directory for derived files such as thumbnails (default /cache)
//	DATABASE_DIR      directory for the SQLite database (default /database)
//	PORT              application listen port (default 8080)
//	METRICS_PORT      Prometheus listen port (default 9090)
//	SWEEP_INTERVAL    missing-file sweep interval (default 15m)
//	SESSION_DURATION  login session lifetime (default 168h)
//	MAX_UPLOAD_MB     per-request upload limit in MiB (default 100)
//
// The upload and database directories are required and must be writable;
// the thumbnail directory is optional and failure to set it up only
// disables thumbnail generation.
//
// The package also owns the structured startup log output (banner,
// system info, configuration summary, route listing) and the matching
// shutdown log helpers, so main stays thin.
package startup
