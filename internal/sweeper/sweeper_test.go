package sweeper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"photo-manager/internal/database"
)

func newTestDB(t *testing.T) *database.Database {
	t.Helper()

	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedImage(t *testing.T, db *database.Database, userID int64, name, filePath string) int64 {
	t.Helper()

	id, err := db.InsertImage(context.Background(), &database.Image{
		UserID:       userID,
		Token:        "tok-" + name,
		Name:         name,
		OriginalName: name + ".jpg",
		Folder:       "默认图库",
		FilePath:     filePath,
		Format:       "jpeg",
		UploadedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("failed to insert image: %v", err)
	}
	return id
}

func TestSweepRecyclesMissingFiles(t *testing.T) {
	db := newTestDB(t)
	user, err := db.CreateUser(context.Background(), "alice", "password123")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	dir := t.TempDir()
	present := filepath.Join(dir, "present.jpg")
	if err := os.WriteFile(present, []byte("jpeg bytes"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	kept := seedImage(t, db, user.ID, "kept", present)
	lost := seedImage(t, db, user.ID, "lost", filepath.Join(dir, "gone.jpg"))

	s := New(db, time.Hour)
	if err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	if _, err := db.GetImage(context.Background(), user.ID, kept); err != nil {
		t.Errorf("image with file on disk was recycled: %v", err)
	}
	if _, err := db.GetImage(context.Background(), user.ID, lost); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("image with missing file still active: err = %v, want ErrNotFound", err)
	}

	recycled, err := db.ListRecycled(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListRecycled failed: %v", err)
	}
	if len(recycled) != 1 || recycled[0].ID != lost {
		t.Errorf("recycle bin = %v, want the lost image only", recycled)
	}
}

func TestSweepCleansExpiredSessions(t *testing.T) {
	db := newTestDB(t)
	user, err := db.CreateUser(context.Background(), "alice", "password123")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	live, err := db.CreateSession(context.Background(), user.ID, time.Hour)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	s := New(db, time.Hour)
	if err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	if _, err := db.ValidateSession(context.Background(), live.Token); err != nil {
		t.Errorf("live session swept: %v", err)
	}
}

func TestSweepEmptyCatalog(t *testing.T) {
	db := newTestDB(t)
	s := New(db, time.Hour)

	if err := s.Sweep(context.Background()); err != nil {
		t.Errorf("Sweep of empty catalog failed: %v", err)
	}
}

func TestNewAppliesDefaultInterval(t *testing.T) {
	s := New(nil, 0)
	if s.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", s.interval, DefaultInterval)
	}
}
