package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"photo-manager/internal/database"
	"photo-manager/internal/filesystem"
	"photo-manager/internal/logging"
)

// ListRecycle returns the caller's recycled photos, newest deletion first.
func (h *Handlers) ListRecycle(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	images, err := h.db.ListRecycled(r.Context(), user.ID)
	if err != nil {
		logging.Error("ListRecycle failed: %v", err)
		writeJSONError(w, "Failed to list recycle bin", http.StatusInternalServerError)
		return
	}
	if images == nil {
		images = []*database.Image{}
	}
	writeJSON(w, images)
}

// Trash moves one owned photo to the recycle bin.
func (h *Handlers) Trash(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, "Invalid image id", http.StatusBadRequest)
		return
	}

	err = h.db.RecycleImage(r.Context(), user.ID, id)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Image not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("Trash failed: %v", err)
		writeJSONError(w, "Failed to recycle image", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "recycled")
}

// TrashBatch moves a list of owned photos to the recycle bin. Foreign and
// already-recycled ids are skipped, not errors.
func (h *Handlers) TrashBatch(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req struct {
		IDs []int64 `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.IDs) == 0 {
		writeJSONError(w, "No image ids given", http.StatusBadRequest)
		return
	}

	recycled, err := h.db.RecycleImages(user.ID, req.IDs)
	if err != nil {
		logging.Error("TrashBatch failed: %v", err)
		writeJSONError(w, "Failed to recycle images", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]int64{"recycled": recycled})
}

// Restore returns one recycled photo to the active catalog.
func (h *Handlers) Restore(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := h.db.RestoreImage(r.Context(), user.ID, req.ID)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Image not found in recycle bin", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("Restore failed: %v", err)
		writeJSONError(w, "Failed to restore image", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "restored")
}

// Purge permanently removes one recycled photo, row and files both.
func (h *Handlers) Purge(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	img, err := h.db.PurgeImage(r.Context(), user.ID, req.ID)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Image not found in recycle bin", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("Purge failed: %v", err)
		writeJSONError(w, "Failed to purge image", http.StatusInternalServerError)
		return
	}

	removeImageFiles(img)
	writeJSONStatus(w, "purged")
}

// ClearRecycle permanently removes everything in the caller's recycle bin.
func (h *Handlers) ClearRecycle(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	images, err := h.db.ClearRecycleBin(r.Context(), user.ID)
	if err != nil {
		logging.Error("ClearRecycle failed: %v", err)
		writeJSONError(w, "Failed to clear recycle bin", http.StatusInternalServerError)
		return
	}

	for _, img := range images {
		removeImageFiles(img)
	}
	writeJSON(w, map[string]int{"purged": len(images)})
}

// removeImageFiles deletes a purged photo's original and thumbnail. The
// catalog row is already gone, so failures are logged and left for the
// sweeper rather than surfaced.
func removeImageFiles(img *database.Image) {
	config := filesystem.DefaultRetryConfig()
	if err := filesystem.RemoveWithRetry(img.FilePath, config); err != nil {
		logging.Warn("Failed to remove purged file %s: %v", img.FilePath, err)
	}
	if img.ThumbPath != "" {
		if err := filesystem.RemoveWithRetry(img.ThumbPath, config); err != nil {
			logging.Warn("Failed to remove purged thumbnail %s: %v", img.ThumbPath, err)
		}
	}
}
