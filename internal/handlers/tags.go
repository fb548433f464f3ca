package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"photo-manager/internal/database"
	"photo-manager/internal/logging"
)

// ListTags returns the caller's tags with live usage counts.
func (h *Handlers) ListTags(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	tags, err := h.db.ListTags(r.Context(), user.ID)
	if err != nil {
		logging.Error("ListTags failed: %v", err)
		writeJSONError(w, "Failed to list tags", http.StatusInternalServerError)
		return
	}
	if tags == nil {
		tags = []database.Tag{}
	}
	writeJSON(w, tags)
}

// RenameTag renames a tag everywhere it is used.
func (h *Handlers) RenameTag(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, "Invalid tag id", http.StatusBadRequest)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSONError(w, "Tag name is required", http.StatusBadRequest)
		return
	}

	err = h.db.RenameTag(r.Context(), user.ID, id, strings.TrimSpace(req.Name))
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Tag not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("RenameTag failed: %v", err)
		writeJSONError(w, "Failed to rename tag", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "renamed")
}

// DeleteTag removes a tag and all its image links.
func (h *Handlers) DeleteTag(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, "Invalid tag id", http.StatusBadRequest)
		return
	}

	err = h.db.DeleteTag(r.Context(), user.ID, id)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Tag not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("DeleteTag failed: %v", err)
		writeJSONError(w, "Failed to delete tag", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "deleted")
}
