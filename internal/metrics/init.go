package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	// --- Database storage files ---
	for _, file := range []string{"main", "wal", "shm"} {
		DBSizeBytes.WithLabelValues(file)
	}

	// --- Search compiler ---
	for _, outcome := range []string{"compiled", "match_all", "match_none"} {
		SearchQueriesTotal.WithLabelValues(outcome)
	}
	for _, extractor := range []string{"date", "size", "resolution", "album", "camera"} {
		SearchExtractorHits.WithLabelValues(extractor)
	}
	for _, kind := range []string{"smart", "structured"} {
		SearchResultsReturned.WithLabelValues(kind)
	}

	// --- Thumbnails ---
	for _, backend := range []string{"vips", "imaging"} {
		ThumbnailGenerationDuration.WithLabelValues(backend)
		for _, status := range []string{"success", "error"} {
			ThumbnailGenerationsTotal.WithLabelValues(backend, status)
		}
	}

	// --- Library gauges ---
	for _, state := range []string{"active", "recycled"} {
		LibraryImagesTotal.WithLabelValues(state)
	}

	// --- Uploads and auth ---
	for _, status := range []string{"success", "rejected", "error"} {
		UploadsTotal.WithLabelValues(status)
	}
	for _, status := range []string{"success", "failure"} {
		AuthAttemptsTotal.WithLabelValues(status)
	}

	// --- DB query operations ---
	for _, op := range []string{"initialize_schema", "insert_image", "update_image",
		"search_images", "recycle_image", "restore_image", "purge_image",
		"create_album", "create_tag", "create_session", "validate_session"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}
}
