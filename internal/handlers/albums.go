package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"photo-manager/internal/database"
	"photo-manager/internal/logging"
)

// AlbumRequest is the create/update body for albums.
type AlbumRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	CoverImageID *int64  `json:"coverImageId"`
}

// CreateAlbum creates an empty album. Titles are unique per user.
func (h *Handlers) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req AlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		writeJSONError(w, "Album title is required", http.StatusBadRequest)
		return
	}

	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	album, err := h.db.CreateAlbum(r.Context(), user.ID, strings.TrimSpace(*req.Title), description)
	if err != nil {
		logging.Warn("CreateAlbum failed: %v", err)
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(album); err != nil {
		logging.Error("failed to encode album response: %v", err)
	}
}

// ListAlbums returns the caller's albums with live member counts.
func (h *Handlers) ListAlbums(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	albums, err := h.db.ListAlbums(r.Context(), user.ID)
	if err != nil {
		logging.Error("ListAlbums failed: %v", err)
		writeJSONError(w, "Failed to list albums", http.StatusInternalServerError)
		return
	}
	if albums == nil {
		albums = []database.Album{}
	}
	writeJSON(w, albums)
}

// GetAlbum returns one owned album.
func (h *Handlers) GetAlbum(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, "Invalid album id", http.StatusBadRequest)
		return
	}

	album, err := h.db.GetAlbum(r.Context(), user.ID, id)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Album not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("GetAlbum failed: %v", err)
		writeJSONError(w, "Failed to load album", http.StatusInternalServerError)
		return
	}
	writeJSON(w, album)
}

// UpdateAlbum applies a partial update. A coverImageId of 0 clears the
// cover.
func (h *Handlers) UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, "Invalid album id", http.StatusBadRequest)
		return
	}

	var req AlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err = h.db.UpdateAlbum(r.Context(), user.ID, id, req.Title, req.Description, req.CoverImageID)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Album not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("UpdateAlbum failed: %v", err)
		writeJSONError(w, "Failed to update album", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "updated")
}

// DeleteAlbum removes an album. Member photos stay in the catalog.
func (h *Handlers) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, "Invalid album id", http.StatusBadRequest)
		return
	}

	err = h.db.DeleteAlbum(r.Context(), user.ID, id)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Album not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("DeleteAlbum failed: %v", err)
		writeJSONError(w, "Failed to delete album", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "deleted")
}

// AddAlbumImages adds owned photos to an album. Foreign and recycled ids
// are skipped.
func (h *Handlers) AddAlbumImages(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, "Invalid album id", http.StatusBadRequest)
		return
	}

	var req struct {
		ImageIDs []int64 `json:"imageIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.ImageIDs) == 0 {
		writeJSONError(w, "No image ids given", http.StatusBadRequest)
		return
	}

	added, err := h.db.AddImagesToAlbum(r.Context(), user.ID, id, req.ImageIDs)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Album not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("AddAlbumImages failed: %v", err)
		writeJSONError(w, "Failed to add images", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]int64{"added": added})
}

// RemoveAlbumImage removes one photo from an album.
func (h *Handlers) RemoveAlbumImage(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	albumID, err := pathID(r)
	if err != nil {
		writeJSONError(w, "Invalid album id", http.StatusBadRequest)
		return
	}

	var req struct {
		ImageID int64 `json:"imageId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err = h.db.RemoveImageFromAlbum(r.Context(), user.ID, albumID, req.ImageID)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Album membership not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("RemoveAlbumImage failed: %v", err)
		writeJSONError(w, "Failed to remove image", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "removed")
}

// ListAlbumImages returns a page of an album's photos.
func (h *Handlers) ListAlbumImages(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, "Invalid album id", http.StatusBadRequest)
		return
	}

	result, err := h.db.ListAlbumImages(r.Context(), user.ID, id, queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Album not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("ListAlbumImages failed: %v", err)
		writeJSONError(w, "Failed to list album images", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}
