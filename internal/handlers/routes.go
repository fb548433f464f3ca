package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter builds the application router. Health, version and the
// register/login endpoints are open; everything under /api/v1 otherwise
// requires a session.
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes (no auth required)
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.Livez).Methods("GET")
	r.HandleFunc("/readyz", h.Readyz).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/api/v1/auth").Subrouter()
	auth.HandleFunc("/register", h.Register).Methods("POST")
	auth.HandleFunc("/login", h.Login).Methods("POST")
	auth.HandleFunc("/logout", h.Logout).Methods("POST")
	auth.Handle("/me", h.AuthMiddleware(http.HandlerFunc(h.Me))).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(h.AuthMiddleware)

	// Images
	api.HandleFunc("/images", h.ListImages).Methods("GET")
	api.HandleFunc("/images/upload", h.Upload).Methods("POST")
	api.HandleFunc("/images/search", h.StructuredSearch).Methods("GET")
	api.HandleFunc("/images/smart-search", h.SmartSearch).Methods("GET")
	api.HandleFunc("/images/stats", h.GetUserStats).Methods("GET")
	api.HandleFunc("/images/folders", h.ListFolders).Methods("GET")

	// Recycle bin (registered before /images/{id} so the literal paths win)
	api.HandleFunc("/images/recycle", h.ListRecycle).Methods("GET")
	api.HandleFunc("/images/trash-batch", h.TrashBatch).Methods("POST")
	api.HandleFunc("/images/recycle/restore", h.Restore).Methods("POST")
	api.HandleFunc("/images/recycle/purge", h.Purge).Methods("POST")
	api.HandleFunc("/images/recycle/clear", h.ClearRecycle).Methods("POST")

	api.HandleFunc("/images/{id:[0-9]+}", h.GetImageMeta).Methods("GET")
	api.HandleFunc("/images/{id:[0-9]+}/meta", h.UpdateImageMeta).Methods("PATCH")
	api.HandleFunc("/images/{id:[0-9]+}/tags", h.SetTags).Methods("POST")
	api.HandleFunc("/images/{id:[0-9]+}/caption", h.SetCaption).Methods("POST")
	api.HandleFunc("/images/{id:[0-9]+}/raw", h.ServeRaw).Methods("GET")
	api.HandleFunc("/images/{id:[0-9]+}/thumb", h.ServeThumb).Methods("GET")
	api.HandleFunc("/images/{id:[0-9]+}/trash", h.Trash).Methods("POST")

	// Albums
	api.HandleFunc("/albums", h.ListAlbums).Methods("GET")
	api.HandleFunc("/albums", h.CreateAlbum).Methods("POST")
	api.HandleFunc("/albums/{id:[0-9]+}", h.GetAlbum).Methods("GET")
	api.HandleFunc("/albums/{id:[0-9]+}", h.UpdateAlbum).Methods("PATCH")
	api.HandleFunc("/albums/{id:[0-9]+}", h.DeleteAlbum).Methods("DELETE")
	api.HandleFunc("/albums/{id:[0-9]+}/images", h.ListAlbumImages).Methods("GET")
	api.HandleFunc("/albums/{id:[0-9]+}/images", h.AddAlbumImages).Methods("POST")
	api.HandleFunc("/albums/{id:[0-9]+}/images", h.RemoveAlbumImage).Methods("DELETE")

	// Tags
	api.HandleFunc("/tags", h.ListTags).Methods("GET")
	api.HandleFunc("/tags/{id:[0-9]+}", h.RenameTag).Methods("PUT")
	api.HandleFunc("/tags/{id:[0-9]+}", h.DeleteTag).Methods("DELETE")

	return r
}
