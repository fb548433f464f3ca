// Package metrics provides Prometheus instrumentation for the photo
// manager.
//
// All metrics carry the photo_manager_ prefix and register themselves via
// promauto at package load. The groups are:
//
//   - HTTP: request counts, durations, and in-flight gauge, labeled by
//     method, normalized path, and status.
//   - Database: per-operation query counts and durations, transaction
//     durations, connection and file-size gauges.
//   - Search: query outcomes (compiled, match_all, match_none), extractor
//     hits, dropped disjunction segments, and result-count histograms.
//   - Thumbnails: generation counts and durations per backend.
//   - Sweeper: run counts, durations, recycled-file and expired-session
//     counters.
//   - Library: gauges for image, album, tag, user, and byte totals,
//     refreshed by the Collector.
//   - Uploads and auth: ingest and login attempt counters.
//   - Filesystem: NFS stale-handle error and retry counters.
//
// Call InitializeMetrics once at startup to pre-populate expected label
// combinations so the first scrape exports every series, and run a
// Collector to keep the library gauges current.
package metrics
