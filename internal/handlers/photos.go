package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"photo-manager/internal/database"
	"photo-manager/internal/filesystem"
	"photo-manager/internal/logging"
	"photo-manager/internal/media"
	"photo-manager/internal/metrics"
)

// DefaultFolder is the folder assigned to uploads that do not name one.
const DefaultFolder = "默认图库"

// UploadResponse reports the outcome of a multipart upload.
type UploadResponse struct {
	Uploaded []database.Image `json:"uploaded"`
	Failed   []UploadFailure  `json:"failed,omitempty"`
}

// UploadFailure names one rejected file and why it was rejected.
type UploadFailure struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// Upload ingests one or more image files from a multipart form. Accepted
// form fields: files (repeated), folder, name, description, visibility,
// featured, tags (comma separated).
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSONError(w, "Invalid or oversized multipart form", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logging.Debug("multipart cleanup: %v", err)
		}
	}()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		files = r.MultipartForm.File["file"]
	}
	if len(files) == 0 {
		writeJSONError(w, "No files in upload", http.StatusBadRequest)
		return
	}

	folder := strings.TrimSpace(r.FormValue("folder"))
	if folder == "" {
		folder = DefaultFolder
	}
	visibility := database.VisibilityPrivate
	if r.FormValue("visibility") == "public" || r.FormValue("visibility") == "1" {
		visibility = database.VisibilityPublic
	}
	featured := r.FormValue("featured") == "true"
	tags := splitTags(r.FormValue("tags"))

	response := UploadResponse{Uploaded: []database.Image{}}
	for _, header := range files {
		img, err := h.ingestFile(r, user.ID, header, folder, visibility, featured, tags)
		if err != nil {
			logging.Warn("Upload of %q rejected: %v", header.Filename, err)
			metrics.UploadsTotal.WithLabelValues("rejected").Inc()
			response.Failed = append(response.Failed, UploadFailure{
				Filename: header.Filename,
				Reason:   err.Error(),
			})
			continue
		}
		metrics.UploadsTotal.WithLabelValues("success").Inc()
		metrics.UploadBytes.Add(float64(img.Size))
		response.Uploaded = append(response.Uploaded, *img)
	}

	status := http.StatusCreated
	if len(response.Uploaded) == 0 {
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.Error("failed to encode upload response: %v", err)
	}
}

// ingestFile writes one uploaded file to the upload directory, probes it,
// and records it in the catalog. The file lands under a random token name
// so original filenames never touch the filesystem.
func (h *Handlers) ingestFile(r *http.Request, userID int64, header *multipart.FileHeader, folder string, visibility int, featured bool, tags []string) (*database.Image, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	tmpPath := filepath.Join(h.config.UploadDir, token+".tmp")
	dst, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to finish upload: %w", err)
	}

	// Identity comes from file content, never from the client's filename.
	info, err := media.Probe(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return nil, err
	}

	finalPath := filepath.Join(h.config.UploadDir, token+media.ExtensionFor(info.Format))
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to place upload: %w", err)
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	img := &database.Image{
		UserID:       userID,
		Token:        token,
		Name:         name,
		Description:  strings.TrimSpace(r.FormValue("description")),
		OriginalName: header.Filename,
		Folder:       folder,
		FilePath:     finalPath,
		Format:       info.Format,
		Size:         info.Size,
		Width:        info.Width,
		Height:       info.Height,
		Visibility:   visibility,
		Featured:     featured,
		UploadedAt:   time.Now(),
	}

	if h.thumbs != nil {
		thumbPath, err := h.thumbs.Generate(finalPath, token)
		if err != nil {
			logging.Warn("Thumbnail generation failed for %s: %v", token, err)
		} else {
			img.ThumbPath = thumbPath
		}
	}

	id, err := h.db.InsertImage(r.Context(), img)
	if err != nil {
		os.Remove(finalPath)
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}
	img.ID = id

	if len(tags) > 0 {
		if err := h.db.SetImageTags(r.Context(), userID, id, tags); err != nil {
			logging.Warn("Failed to tag upload %d: %v", id, err)
		} else {
			img.Tags = tags
		}
	}

	return img, nil
}

// ListImages returns the caller's active photos, newest first by default.
// Supports folder, featured, sort, order, limit and offset parameters.
func (h *Handlers) ListImages(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	filters := database.Filters{
		Folder:   r.URL.Query().Get("folder"),
		SortBy:   r.URL.Query().Get("sort"),
		SortDesc: r.URL.Query().Get("order") != "asc",
		Limit:    queryInt(r, "limit", 50),
		Offset:   queryInt(r, "offset", 0),
	}
	if r.URL.Query().Get("featured") == "true" {
		featured := true
		filters.Featured = &featured
	}

	result, err := h.db.StructuredSearch(r.Context(), user.ID, filters)
	if err != nil {
		logging.Error("ListImages failed: %v", err)
		writeJSONError(w, "Failed to list images", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}

// GetImageMeta returns full metadata for one photo. Owners see their own
// photos; public photos are visible to any authenticated user.
func (h *Handlers) GetImageMeta(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, "Invalid image id", http.StatusBadRequest)
		return
	}

	img, err := h.db.GetVisibleImage(r.Context(), user.ID, id)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Image not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("GetImageMeta failed: %v", err)
		writeJSONError(w, "Failed to load image", http.StatusInternalServerError)
		return
	}
	writeJSON(w, img)
}

// metaPatch is the PATCH body for image metadata. Absent fields are left
// unchanged; takenAt accepts RFC 3339.
type metaPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Folder      *string `json:"folder"`
	Visibility  *int    `json:"visibility"`
	Featured    *bool   `json:"featured"`
	TakenAt     *string `json:"takenAt"`
	Camera      *string `json:"camera"`
	Lens        *string `json:"lens"`
}

// UpdateImageMeta applies a partial metadata update to an owned photo.
func (h *Handlers) UpdateImageMeta(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, "Invalid image id", http.StatusBadRequest)
		return
	}

	var patch metaPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	fields := database.UpdateImageFields{
		Name:        patch.Name,
		Description: patch.Description,
		Folder:      patch.Folder,
		Visibility:  patch.Visibility,
		Featured:    patch.Featured,
		Camera:      patch.Camera,
		Lens:        patch.Lens,
	}
	if patch.TakenAt != nil {
		takenAt, err := time.Parse(time.RFC3339, *patch.TakenAt)
		if err != nil {
			writeJSONError(w, "takenAt must be RFC 3339", http.StatusBadRequest)
			return
		}
		fields.TakenAt = &takenAt
	}

	err = h.db.UpdateImage(r.Context(), user.ID, id, fields)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Image not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("UpdateImageMeta failed: %v", err)
		writeJSONError(w, "Failed to update image", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "updated")
}

// SetTags replaces the tag set of an owned photo.
func (h *Handlers) SetTags(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, "Invalid image id", http.StatusBadRequest)
		return
	}

	var req struct {
		Tags []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err = h.db.SetImageTags(r.Context(), user.ID, id, req.Tags)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Image not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("SetTags failed: %v", err)
		writeJSONError(w, "Failed to set tags", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "updated")
}

// SetCaption stores a machine-generated caption and label set for an owned
// photo. Both become searchable keywords.
func (h *Handlers) SetCaption(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, "Invalid image id", http.StatusBadRequest)
		return
	}

	var req struct {
		Caption string   `json:"caption"`
		Labels  []string `json:"labels"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err = h.db.SetImageAIMetadata(r.Context(), user.ID, id, strings.TrimSpace(req.Caption), strings.Join(req.Labels, ","))
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Image not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("SetCaption failed: %v", err)
		writeJSONError(w, "Failed to set caption", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "updated")
}

// ServeRaw streams the original file of a visible photo.
func (h *Handlers) ServeRaw(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, "Invalid image id", http.StatusBadRequest)
		return
	}

	img, err := h.db.GetVisibleImage(r.Context(), user.ID, id)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Image not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("ServeRaw failed: %v", err)
		writeJSONError(w, "Failed to load image", http.StatusInternalServerError)
		return
	}

	h.serveFile(w, r, img.FilePath, img.Format)
}

// ServeThumb streams the thumbnail of a visible photo, falling back to the
// original when no thumbnail exists.
func (h *Handlers) ServeThumb(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, "Invalid image id", http.StatusBadRequest)
		return
	}

	img, err := h.db.GetVisibleImage(r.Context(), user.ID, id)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Image not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("ServeThumb failed: %v", err)
		writeJSONError(w, "Failed to load image", http.StatusInternalServerError)
		return
	}

	if img.ThumbPath != "" {
		if _, err := filesystem.StatWithRetry(img.ThumbPath, filesystem.DefaultRetryConfig()); err == nil {
			h.serveFile(w, r, img.ThumbPath, "jpeg")
			return
		}
	}
	h.serveFile(w, r, img.FilePath, img.Format)
}

// serveFile streams a stored file with stale-handle retries for NFS-backed
// upload directories.
func (h *Handlers) serveFile(w http.ResponseWriter, r *http.Request, path, format string) {
	file, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		logging.Error("Failed to open %s: %v", path, err)
		writeJSONError(w, "File unavailable", http.StatusNotFound)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		writeJSONError(w, "File unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/"+format)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	http.ServeContent(w, r, filepath.Base(path), info.ModTime(), file)
}

// ListFolders returns the caller's folders with image counts.
func (h *Handlers) ListFolders(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	folders, err := h.db.ListFolders(r.Context(), user.ID)
	if err != nil {
		logging.Error("ListFolders failed: %v", err)
		writeJSONError(w, "Failed to list folders", http.StatusInternalServerError)
		return
	}
	if folders == nil {
		folders = []database.FolderInfo{}
	}
	writeJSON(w, folders)
}

// GetUserStats returns the caller's dashboard numbers.
func (h *Handlers) GetUserStats(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	stats, err := h.db.GetUserStats(r.Context(), user.ID)
	if err != nil {
		logging.Error("GetUserStats failed: %v", err)
		writeJSONError(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats)
}

// newToken returns a 32-character hex token for file naming and URLs.
func newToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// splitTags parses a comma separated tag field, dropping empties.
func splitTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
