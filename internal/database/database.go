package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	"photo-manager/internal/logging"
	"photo-manager/internal/metrics"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// sqlite's built-in lower() and NOCASE only fold ASCII, so case-insensitive
// matching on CJK-adjacent libraries with accented or Cyrillic text needs a
// Go-side fold. ulower() is registered on every connection and used by the
// search conditions in place of lower().
func init() {
	sql.Register("sqlite3_ulower", &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("ulower", strings.ToLower, true)
		},
	})
}

// Database manages all catalog operations for the photo manager.
type Database struct {
	db      *sql.DB
	dbPath  string
	mu      sync.RWMutex
	txStart time.Time // Track transaction start time for metrics
}

// New creates a new Database instance.
// IMPORTANT: dbPath should be the full path to the database FILE (e.g., "/database/photos.db"),
// and the parent directory must already exist and be writable.
// Use startup.LoadConfig() to ensure proper directory validation before calling this.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Info("Database path: %s", dbPath)

	// Diagnose potential permission issues
	if err := diagnoseDatabasePermissions(dbPath); err != nil {
		logging.Warn("Database permission diagnostics: %v", err)
	}

	// Use WAL mode and other optimizations
	// busy_timeout helps prevent "database is locked" errors
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_temp_store=MEMORY&_busy_timeout=5000&_foreign_keys=on", dbPath)

	db, err := sql.Open("sqlite3_ulower", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Allow multiple readers - increased for better concurrency under load
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	d := &Database{
		db:     db,
		dbPath: dbPath,
	}

	if err := d.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.Info("Database initialized successfully at %s", dbPath)
	return d, nil
}

func (d *Database) initialize(ctx context.Context) error {
	schema := `
	-- User accounts
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE COLLATE NOCASE,
		password_hash TEXT NOT NULL,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	-- Sessions table
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		token TEXT NOT NULL UNIQUE,
		expires_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions(token);
	CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at);

	-- Image catalog. Timestamps are unix seconds; taken_at is nullable
	-- because not every original carries EXIF. deleted_at marks the
	-- recycle bin; purging removes the row.
	CREATE TABLE IF NOT EXISTS images (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		token TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		original_name TEXT NOT NULL,
		folder TEXT NOT NULL DEFAULT '默认图库',
		file_path TEXT NOT NULL,
		thumb_path TEXT NOT NULL DEFAULT '',
		format TEXT NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		width INTEGER NOT NULL DEFAULT 0,
		height INTEGER NOT NULL DEFAULT 0,
		camera TEXT NOT NULL DEFAULT '',
		lens TEXT NOT NULL DEFAULT '',
		ai_caption TEXT,
		ai_labels TEXT,
		visibility INTEGER NOT NULL DEFAULT 0,
		featured INTEGER NOT NULL DEFAULT 0,
		uploaded_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		taken_at INTEGER,
		deleted_at INTEGER,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_images_user ON images(user_id);
	CREATE INDEX IF NOT EXISTS idx_images_user_deleted ON images(user_id, deleted_at);
	CREATE INDEX IF NOT EXISTS idx_images_folder ON images(folder);
	CREATE INDEX IF NOT EXISTS idx_images_uploaded ON images(uploaded_at);
	CREATE INDEX IF NOT EXISTS idx_images_taken ON images(taken_at);
	CREATE INDEX IF NOT EXISTS idx_images_name ON images(name COLLATE NOCASE);

	-- Tags table, scoped per user
	CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL COLLATE NOCASE,
		color TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		UNIQUE(user_id, name)
	);

	CREATE INDEX IF NOT EXISTS idx_tags_user ON tags(user_id);

	-- Image-Tag relationship table
	CREATE TABLE IF NOT EXISTS image_tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		image_id INTEGER NOT NULL,
		tag_id INTEGER NOT NULL,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		FOREIGN KEY (image_id) REFERENCES images(id) ON DELETE CASCADE,
		FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE,
		UNIQUE(image_id, tag_id)
	);

	CREATE INDEX IF NOT EXISTS idx_image_tags_image ON image_tags(image_id);
	CREATE INDEX IF NOT EXISTS idx_image_tags_tag ON image_tags(tag_id);

	-- Albums, scoped per user
	CREATE TABLE IF NOT EXISTS albums (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		title TEXT NOT NULL COLLATE NOCASE,
		description TEXT NOT NULL DEFAULT '',
		cover_image_id INTEGER,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		UNIQUE(user_id, title)
	);

	CREATE INDEX IF NOT EXISTS idx_albums_user ON albums(user_id);

	-- Album-Image relationship table
	CREATE TABLE IF NOT EXISTS album_images (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		album_id INTEGER NOT NULL,
		image_id INTEGER NOT NULL,
		added_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		FOREIGN KEY (album_id) REFERENCES albums(id) ON DELETE CASCADE,
		FOREIGN KEY (image_id) REFERENCES images(id) ON DELETE CASCADE,
		UNIQUE(album_id, image_id)
	);

	CREATE INDEX IF NOT EXISTS idx_album_images_album ON album_images(album_id);
	CREATE INDEX IF NOT EXISTS idx_album_images_image ON album_images(image_id);
	`

	_, err := d.db.ExecContext(ctx, schema)
	if err != nil {
		return err
	}

	// Run migrations
	return d.runMigrations(ctx)
}

// runMigrations applies database schema migrations
func (d *Database) runMigrations(ctx context.Context) error {
	// Migration 1: Add ai_caption/ai_labels columns if they don't exist
	// (catalogs created before the caption pipeline lack them)
	var captionExists bool
	err := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*) > 0
		FROM pragma_table_info('images')
		WHERE name='ai_caption'
	`).Scan(&captionExists)

	if err != nil {
		return fmt.Errorf("failed to check for ai_caption column: %w", err)
	}

	if !captionExists {
		logging.Info("Migrating database: adding ai_caption and ai_labels columns to images table")

		if _, err = d.db.ExecContext(ctx, `ALTER TABLE images ADD COLUMN ai_caption TEXT`); err != nil {
			return fmt.Errorf("failed to add ai_caption column: %w", err)
		}
		if _, err = d.db.ExecContext(ctx, `ALTER TABLE images ADD COLUMN ai_labels TEXT`); err != nil {
			return fmt.Errorf("failed to add ai_labels column: %w", err)
		}

		logging.Info("Migration complete: AI metadata columns added")
	}

	// Migration 2: Add featured column if it doesn't exist
	var featuredExists bool
	err = d.db.QueryRowContext(ctx, `
		SELECT COUNT(*) > 0
		FROM pragma_table_info('images')
		WHERE name='featured'
	`).Scan(&featuredExists)

	if err != nil {
		return fmt.Errorf("failed to check for featured column: %w", err)
	}

	if !featuredExists {
		logging.Info("Migrating database: adding featured column to images table")

		_, err = d.db.ExecContext(ctx, `
			ALTER TABLE images ADD COLUMN featured INTEGER NOT NULL DEFAULT 0
		`)
		if err != nil {
			return fmt.Errorf("failed to add featured column: %w", err)
		}

		logging.Info("Migration complete: featured column added")
	}

	return err
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// BeginBatch starts a transaction for multi-statement operations.
// The caller is responsible for calling EndBatch when done.
func (d *Database) BeginBatch() (*sql.Tx, error) {
	d.mu.Lock()
	txStart := time.Now()

	// Use background context - transaction lifetime is managed by EndBatch,
	// not a timeout. A deferred cancel here would kill the transaction as
	// soon as this function returns.
	tx, err := d.db.BeginTx(context.Background(), nil)
	d.mu.Unlock()

	if err != nil {
		return nil, err
	}

	d.txStart = txStart
	return tx, nil
}

// EndBatch commits or rolls back a transaction.
func (d *Database) EndBatch(tx *sql.Tx, err error) error {
	duration := time.Since(d.txStart).Seconds()

	if err != nil {
		metrics.DBTransactionDuration.WithLabelValues("rollback").Observe(duration)
		rbErr := tx.Rollback()
		if rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback also failed: %w", rbErr))
		}
		return err
	}

	metrics.DBTransactionDuration.WithLabelValues("commit").Observe(duration)
	return tx.Commit()
}

// recordQuery records database query metrics
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}

// observeQuery starts a query timer and returns the completion callback.
func observeQuery(operation string) func(error) {
	start := time.Now()
	return func(err error) {
		recordQuery(operation, start, err)
	}
}

// UpdateDBMetrics updates database connection metrics
func (d *Database) UpdateDBMetrics() {
	stats := d.db.Stats()
	metrics.DBConnectionsOpen.Set(float64(stats.OpenConnections))

	for suffix, label := range map[string]string{"": "main", "-wal": "wal", "-shm": "shm"} {
		if info, err := os.Stat(d.dbPath + suffix); err == nil {
			metrics.DBSizeBytes.WithLabelValues(label).Set(float64(info.Size()))
		}
	}
}

// diagnoseDatabasePermissions checks database directory and file permissions
func diagnoseDatabasePermissions(dbPath string) error {
	dir := filepath.Dir(dbPath)

	// Check directory permissions
	dirInfo, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot stat database directory: %w", err)
	}

	logging.Debug("Database directory: %s (mode: %v)", dir, dirInfo.Mode())

	// Check if directory is writable by testing
	testFile := filepath.Join(dir, ".perm-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return fmt.Errorf("database directory not writable: %w", err)
	}
	_ = os.Remove(testFile) // Explicitly ignore cleanup error
	logging.Debug("Database directory is writable")

	// Check main database file
	if dbInfo, err := os.Stat(dbPath); err == nil {
		logging.Debug("Database file exists: %s (mode: %v, size: %d bytes)", dbPath, dbInfo.Mode(), dbInfo.Size())
		if dbInfo.Mode().Perm()&0o200 == 0 {
			logging.Warn("Database file is read-only! Mode: %v", dbInfo.Mode())
		}
	}

	// WAL and SHM sidecar files must stay writable or every write fails
	for _, suffix := range []string{"-wal", "-shm"} {
		sidecar := dbPath + suffix
		info, err := os.Stat(sidecar)
		if err != nil {
			continue
		}
		logging.Debug("Sidecar file exists: %s (mode: %v, size: %d bytes)", sidecar, info.Mode(), info.Size())
		if info.Mode().Perm()&0o200 == 0 {
			logging.Warn("Sidecar file is read-only! Mode: %v - this will cause write failures", info.Mode())
			if chmodErr := os.Chmod(sidecar, 0o600); chmodErr != nil {
				logging.Error("Failed to fix %s permissions: %v", sidecar, chmodErr)
			} else {
				logging.Info("Fixed %s permissions", sidecar)
			}
		}
	}

	return nil
}
