package handlers

import (
	"net/http"
	"strconv"
	"time"

	"photo-manager/internal/database"
	"photo-manager/internal/logging"
	"photo-manager/internal/metrics"
	"photo-manager/internal/search"
)

// SmartSearch answers free-form queries. Parameters: q (query text), hint
// (repeated advisory keywords), sort, order, limit, offset. An empty q
// returns the caller's photos unfiltered; a query that parses to nothing
// returns an empty list rather than an error. A limit that is absent or
// not positive means unbounded.
func (h *Handlers) SmartSearch(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	query := r.URL.Query().Get("q")

	pred := search.Compile(query, r.URL.Query()["hint"])

	result, err := h.db.SearchCompiled(
		r.Context(),
		user.ID,
		pred,
		r.URL.Query().Get("sort"),
		r.URL.Query().Get("order") != "asc",
		queryInt(r, "limit", 0),
		queryInt(r, "offset", 0),
	)
	if err != nil {
		logging.Error("SmartSearch failed: %v", err)
		writeJSONError(w, "Search failed", http.StatusInternalServerError)
		return
	}
	result.Query = query

	metrics.SearchResultsReturned.WithLabelValues("smart").Observe(float64(len(result.Items)))
	writeJSON(w, result)
}

// StructuredSearch answers explicit-filter queries, bypassing the query
// compiler. All filters are optional and combine with AND.
func (h *Handlers) StructuredSearch(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	q := r.URL.Query()

	filters := database.Filters{
		Keyword:    q.Get("keyword"),
		Tags:       q["tag"],
		Folder:     q.Get("folder"),
		Formats:    q["format"],
		CameraLike: q.Get("camera"),
		SortBy:     q.Get("sort"),
		SortDesc:   q.Get("order") != "asc",
		Limit:      queryInt(r, "limit", 0),
		Offset:     queryInt(r, "offset", 0),
	}

	var parseErr error
	filters.UploadedFrom, parseErr = parseTimeParam(q.Get("uploadedFrom"), parseErr)
	filters.UploadedTo, parseErr = parseTimeParam(q.Get("uploadedTo"), parseErr)
	filters.TakenFrom, parseErr = parseTimeParam(q.Get("takenFrom"), parseErr)
	filters.TakenTo, parseErr = parseTimeParam(q.Get("takenTo"), parseErr)
	if parseErr != nil {
		writeJSONError(w, "Date filters must be RFC 3339 or YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	if mb, err := strconv.ParseFloat(q.Get("minSizeMb"), 64); err == nil && mb > 0 {
		filters.MinSize = int64(mb * (1 << 20))
	}
	if mb, err := strconv.ParseFloat(q.Get("maxSizeMb"), 64); err == nil && mb > 0 {
		filters.MaxSize = int64(mb * (1 << 20))
	}
	if v := q.Get("featured"); v == "true" || v == "false" {
		featured := v == "true"
		filters.Featured = &featured
	}

	result, err := h.db.StructuredSearch(r.Context(), user.ID, filters)
	if err != nil {
		logging.Error("StructuredSearch failed: %v", err)
		writeJSONError(w, "Search failed", http.StatusInternalServerError)
		return
	}

	metrics.SearchResultsReturned.WithLabelValues("structured").Observe(float64(len(result.Items)))
	writeJSON(w, result)
}

// parseTimeParam parses a date filter, accepting RFC 3339 timestamps and
// bare dates. Threads an earlier error through so callers can chain calls.
func parseTimeParam(value string, prev error) (*time.Time, error) {
	if prev != nil || value == "" {
		return nil, prev
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
