package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_manager_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_manager_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_manager_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_manager_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_manager_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_manager_db_connections_open",
			Help: "Number of open database connections",
		},
	)

	DBTransactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_manager_db_transaction_duration_seconds",
			Help:    "Database transaction duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"outcome"}, // "commit" or "rollback"
	)

	DBSizeBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photo_manager_db_size_bytes",
			Help: "Size of SQLite database files in bytes",
		},
		[]string{"file"}, // "main", "wal", "shm"
	)
)

// Search compiler metrics
var (
	SearchQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_manager_search_queries_total",
			Help: "Total number of natural-language search compilations by outcome",
		},
		[]string{"outcome"}, // "compiled", "match_all", "match_none"
	)

	SearchExtractorHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_manager_search_extractor_hits_total",
			Help: "Total number of structured-field extractor matches",
		},
		[]string{"extractor"}, // "date", "size", "resolution", "album", "camera"
	)

	SearchSegmentsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_manager_search_segments_dropped_total",
			Help: "Total number of OR-split query segments dropped as unparseable",
		},
	)

	SearchResultsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_manager_search_results_returned",
			Help:    "Number of entries returned per search",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"kind"}, // "smart", "structured"
	)
)

// Thumbnail metrics
var (
	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_manager_thumbnail_generations_total",
			Help: "Total number of thumbnail generations",
		},
		[]string{"backend", "status"}, // backend: "vips" or "imaging"
	)

	ThumbnailGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_manager_thumbnail_generation_duration_seconds",
			Help:    "Thumbnail generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"backend"},
	)
)

// Sweeper metrics
var (
	SweeperRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_manager_sweeper_runs_total",
			Help: "Total number of sweeper runs",
		},
	)

	SweeperLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_manager_sweeper_last_run_timestamp",
			Help: "Timestamp of the last sweeper run",
		},
	)

	SweeperLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_manager_sweeper_last_run_duration_seconds",
			Help: "Duration of the last sweeper run in seconds",
		},
	)

	SweeperMissingFiles = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_manager_sweeper_missing_files_total",
			Help: "Total number of catalog rows soft-deleted because their file vanished",
		},
	)

	SweeperSessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_manager_sweeper_sessions_expired_total",
			Help: "Total number of expired sessions removed by the sweeper",
		},
	)

	SweeperErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_manager_sweeper_errors_total",
			Help: "Total number of sweeper errors",
		},
	)

	SweeperIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_manager_sweeper_running",
			Help: "Whether the sweeper is currently running (1 = running, 0 = idle)",
		},
	)
)

// Library metrics
var (
	LibraryImagesTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photo_manager_library_images_total",
			Help: "Total number of images by state",
		},
		[]string{"state"}, // "active", "recycled"
	)

	LibraryAlbumsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_manager_library_albums_total",
			Help: "Total number of albums",
		},
	)

	LibraryTagsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_manager_library_tags_total",
			Help: "Total number of tags",
		},
	)

	LibraryUsersTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_manager_library_users_total",
			Help: "Total number of registered users",
		},
	)

	LibraryBytesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_manager_library_bytes_total",
			Help: "Total byte size of stored originals",
		},
	)
)

// Upload metrics
var (
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_manager_uploads_total",
			Help: "Total number of image uploads",
		},
		[]string{"status"},
	)

	UploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_manager_upload_bytes_total",
			Help: "Total bytes of uploaded originals",
		},
	)
)

// Authentication metrics
var (
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_manager_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_manager_active_sessions",
			Help: "Number of active user sessions",
		},
	)
)

// Filesystem retry metrics
var (
	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_manager_filesystem_stale_errors_total",
			Help: "Total NFS stale file handle errors encountered",
		},
		[]string{"operation"},
	)

	FilesystemRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_manager_filesystem_retries_total",
			Help: "Total filesystem operation retries",
		},
		[]string{"operation"},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photo_manager_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
