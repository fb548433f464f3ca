package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"photo-manager/internal/database"
	"photo-manager/internal/logging"
	"photo-manager/internal/metrics"
)

// SessionCookieName is the name of the session cookie
const SessionCookieName = "photo_manager_session"

type contextKey string

const userContextKey contextKey = "user"

// RegisterRequest creates a new account
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest authenticates an existing account
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by the authentication endpoints
type AuthResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Username  string `json:"username,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"` // Seconds until session expires
}

// userFrom returns the authenticated user stored by AuthMiddleware.
func userFrom(r *http.Request) *database.User {
	user, _ := r.Context().Value(userContextKey).(*database.User)
	return user
}

// Register creates a new user account
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Password) > 72 {
		writeJSONError(w, "Password must not exceed 72 characters", http.StatusBadRequest)
		return
	}

	user, err := h.db.CreateUser(ctx, req.Username, req.Password)
	if err != nil {
		logging.Warn("Registration failed for %q: %v", req.Username, err)
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	logging.Info("User %q registered", user.Username)

	writeJSON(w, AuthResponse{
		Success:  true,
		Message:  "Account created",
		Username: user.Username,
	})
}

// Login authenticates with username and password
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.db.ValidateCredentials(ctx, req.Username, req.Password)
	if err != nil {
		logging.Warn("Failed login attempt for %q", req.Username)
		metrics.AuthAttemptsTotal.WithLabelValues("failure").Inc()
		writeJSONError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()

	session, err := h.db.CreateSession(ctx, user.ID, h.config.SessionDuration)
	if err != nil {
		logging.Error("Failed to create session: %v", err)
		writeJSONError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	logging.Info("User %q logged in, session expires at %v", user.Username, session.ExpiresAt)

	writeJSON(w, AuthResponse{
		Success:   true,
		Username:  user.Username,
		Token:     session.Token,
		ExpiresIn: int(time.Until(session.ExpiresAt).Seconds()),
	})
}

// Logout ends the current session
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if token := sessionToken(r); token != "" {
		// Best-effort session cleanup - don't fail logout if this errors
		if err := h.db.DeleteSession(ctx, token); err != nil {
			logging.Error("failed to delete session during logout: %v", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, AuthResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}

// Me returns the authenticated user's profile
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	if user == nil {
		writeJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, user)
}

// sessionToken finds the session credential on a request. Cookies are
// preferred; a bearer token or a token query parameter also works since
// image tags cannot carry headers.
func sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// AuthMiddleware protects routes that require authentication
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := sessionToken(r)
		if token == "" {
			writeJSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		user, err := h.db.ValidateSession(ctx, token)
		if err != nil {
			// Clear invalid cookie
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    "",
				Path:     "/",
				Expires:  time.Unix(0, 0),
				HttpOnly: true,
			})
			writeJSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if err := h.db.ExtendSession(ctx, token, h.config.SessionDuration); err != nil {
			logging.Debug("session extension failed: %v", err)
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, userContextKey, user)))
	})
}
