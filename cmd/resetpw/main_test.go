package main

import (
	"context"
	"path/filepath"
	"testing"

	"photo-manager/internal/database"
)

func setupTestDB(t *testing.T) *database.Database {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "photos.db")
	db, err := database.New(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close database: %v", err)
		}
	})
	return db
}

func TestPrintUsage(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("printUsage panicked: %v", r)
		}
	}()

	printUsage()
}

func TestShowStatusEmptyDatabase(t *testing.T) {
	db := setupTestDB(t)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("showStatus panicked: %v", r)
		}
	}()

	showStatus(db)
}

func TestShowStatusWithAccount(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.CreateUser(context.Background(), "admin", "longenough"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if !db.HasUsers() {
		t.Fatal("HasUsers returned false after CreateUser")
	}

	showStatus(db)

	if got := db.GetStats().TotalUsers; got != 1 {
		t.Errorf("TotalUsers = %d, want 1", got)
	}
}

func TestUpdatePasswordUnknownUser(t *testing.T) {
	db := setupTestDB(t)

	if err := db.UpdatePassword(context.Background(), "ghost", "longenough"); err == nil {
		t.Error("UpdatePassword succeeded for a user that does not exist")
	}
}
