package database

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"photo-manager/internal/logging"
)

// SessionDuration is the default length of time a session remains valid.
const SessionDuration = 7 * 24 * time.Hour

// ErrInvalidCredentials is returned for a bad username or password. The
// two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// HasUsers reports whether any account exists yet.
func (d *Database) HasUsers() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var count int
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		logging.Error("failed to count users: %v", err)
		return false
	}
	return count > 0
}

// CreateUser registers a new account. Usernames are unique
// case-insensitively.
func (d *Database) CreateUser(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	done := observeQuery("create_user")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now()
	result, err := d.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?)",
		username, string(hash), now.Unix(), now.Unix(),
	)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &User{ID: id, Username: username, CreatedAt: now, UpdatedAt: now}, nil
}

// ValidateCredentials checks a username and password and returns the user.
func (d *Database) ValidateCredentials(ctx context.Context, username, password string) (*User, error) {
	done := observeQuery("validate_credentials")

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	user, err := d.scanUser(d.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at, updated_at FROM users WHERE username = ? COLLATE NOCASE",
		username,
	))
	if err != nil {
		done(err)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	done(err)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// UpdatePassword sets a new password for the named user and invalidates
// all of their sessions.
func (d *Database) UpdatePassword(ctx context.Context, username, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	done := observeQuery("update_password")

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		done(err)
		return fmt.Errorf("failed to hash password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE username = ? COLLATE NOCASE",
		string(hash), time.Now().Unix(), username,
	)
	if err != nil {
		done(err)
		return fmt.Errorf("failed to update password: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		done(nil)
		return ErrNotFound
	}

	_, err = d.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE user_id = (SELECT id FROM users WHERE username = ? COLLATE NOCASE)",
		username,
	)
	done(err)
	return err
}

// CreateSession issues a new session for a user. The returned token goes
// to the client; only its hash is stored.
func (d *Database) CreateSession(ctx context.Context, userID int64, duration time.Duration) (*Session, error) {
	done := observeQuery("create_session")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		done(err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	hash := sha256.Sum256(tokenBytes)
	tokenHash := hex.EncodeToString(hash[:])
	token := hex.EncodeToString(tokenBytes)

	if duration <= 0 {
		duration = SessionDuration
	}
	now := time.Now()
	expiresAt := now.Add(duration)

	result, err := d.db.ExecContext(ctx,
		"INSERT INTO sessions (user_id, token, expires_at, created_at) VALUES (?, ?, ?, ?)",
		userID, tokenHash, expiresAt.Unix(), now.Unix(),
	)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	id, _ := result.LastInsertId()
	return &Session{
		ID:        id,
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}, nil
}

// ValidateSession resolves a session token to its user. Expired sessions
// are cleaned up out of band so validation stays fast.
func (d *Database) ValidateSession(ctx context.Context, token string) (*User, error) {
	done := observeQuery("validate_session")

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tokenBytes, err := hex.DecodeString(token)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("invalid token format")
	}
	hash := sha256.Sum256(tokenBytes)
	tokenHash := hex.EncodeToString(hash[:])

	var userID, expiresAt int64
	err = d.db.QueryRowContext(ctx,
		"SELECT user_id, expires_at FROM sessions WHERE token = ?", tokenHash,
	).Scan(&userID, &expiresAt)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("invalid session")
	}

	if time.Now().Unix() > expiresAt {
		// Remove in the background so validation does not block on a write.
		go func() {
			if delErr := d.deleteSessionByHash(tokenHash); delErr != nil {
				logging.Error("failed to delete expired session: %v", delErr)
			}
		}()
		done(nil)
		return nil, fmt.Errorf("session expired")
	}

	user, err := d.scanUser(d.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at, updated_at FROM users WHERE id = ?",
		userID,
	))
	done(err)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}
	return user, nil
}

func (d *Database) deleteSessionByHash(tokenHash string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	_, err := d.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", tokenHash)
	return err
}

// ExtendSession pushes a session's expiry out to now+duration, but only
// once less than half the duration remains, so active users stay logged in
// without a write on every request.
func (d *Database) ExtendSession(ctx context.Context, token string, duration time.Duration) error {
	done := observeQuery("extend_session")

	tokenBytes, err := hex.DecodeString(token)
	if err != nil {
		done(err)
		return fmt.Errorf("invalid token format")
	}
	hash := sha256.Sum256(tokenBytes)

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now()
	_, err = d.db.ExecContext(ctx,
		"UPDATE sessions SET expires_at = ? WHERE token = ? AND expires_at < ?",
		now.Add(duration).Unix(), hex.EncodeToString(hash[:]), now.Add(duration/2).Unix())
	done(err)
	return err
}

// DeleteSession logs out one session by its client token.
func (d *Database) DeleteSession(ctx context.Context, token string) error {
	done := observeQuery("delete_session")

	tokenBytes, err := hex.DecodeString(token)
	if err != nil {
		done(err)
		return fmt.Errorf("invalid token format")
	}
	hash := sha256.Sum256(tokenBytes)

	err = d.deleteSessionByHash(hex.EncodeToString(hash[:]))
	done(err)
	return err
}

// DeleteUserSessions logs a user out everywhere.
func (d *Database) DeleteUserSessions(ctx context.Context, userID int64) error {
	done := observeQuery("delete_session")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := d.db.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", userID)
	done(err)
	return err
}

// CleanExpiredSessions removes expired sessions and returns how many went.
func (d *Database) CleanExpiredSessions() (int64, error) {
	done := observeQuery("clean_sessions")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE expires_at < ?", time.Now().Unix(),
	)
	done(err)
	if err != nil {
		return 0, fmt.Errorf("failed to clean expired sessions: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// CountActiveSessions returns the number of unexpired sessions.
func (d *Database) CountActiveSessions() (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var count int
	err := d.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sessions WHERE expires_at >= ?", time.Now().Unix(),
	).Scan(&count)
	return count, err
}

func (d *Database) scanUser(row rowScanner) (*User, error) {
	var user User
	var createdAt, updatedAt int64
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	user.CreatedAt = time.Unix(createdAt, 0)
	user.UpdatedAt = time.Unix(updatedAt, 0)
	return &user, nil
}
