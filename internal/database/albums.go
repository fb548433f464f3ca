package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// CreateAlbum creates an album for the user. Titles are unique per user,
// case-insensitively.
func (d *Database) CreateAlbum(ctx context.Context, userID int64, title, description string) (*Album, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("album title cannot be empty")
	}

	done := observeQuery("create_album")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now()
	result, err := d.db.ExecContext(ctx,
		"INSERT INTO albums (user_id, title, description, created_at) VALUES (?, ?, ?, ?)",
		userID, title, description, now.Unix(),
	)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to create album: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Album{ID: id, Title: title, Description: description, CreatedAt: now}, nil
}

// GetAlbum retrieves one of the user's albums with its live image count.
func (d *Database) GetAlbum(ctx context.Context, userID, id int64) (*Album, error) {
	done := observeQuery("get_album")

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	album, err := d.scanAlbum(d.db.QueryRowContext(ctx,
		selectAlbumColumns+" WHERE a.id = ? AND a.user_id = ?", id, userID,
	))
	done(err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return album, nil
}

// ListAlbums returns the user's albums, newest first.
func (d *Database) ListAlbums(ctx context.Context, userID int64) ([]Album, error) {
	done := observeQuery("list_albums")

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx,
		selectAlbumColumns+" WHERE a.user_id = ? ORDER BY a.created_at DESC", userID,
	)
	if err != nil {
		done(err)
		return nil, err
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		album, scanErr := d.scanAlbum(rows)
		if scanErr != nil {
			done(scanErr)
			return nil, scanErr
		}
		albums = append(albums, *album)
	}
	err = rows.Err()
	done(err)
	return albums, err
}

// UpdateAlbum changes an album's title, description, or cover image.
// Nil pointers leave fields unchanged; a zero cover id clears the cover.
func (d *Database) UpdateAlbum(ctx context.Context, userID, id int64, title, description *string, coverImageID *int64) error {
	done := observeQuery("update_album")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := ""
	var args []interface{}
	appendSet := func(column string, value interface{}) {
		if set != "" {
			set += ", "
		}
		set += column + " = ?"
		args = append(args, value)
	}

	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			done(nil)
			return fmt.Errorf("album title cannot be empty")
		}
		appendSet("title", trimmed)
	}
	if description != nil {
		appendSet("description", *description)
	}
	if coverImageID != nil {
		if *coverImageID == 0 {
			appendSet("cover_image_id", nil)
		} else {
			appendSet("cover_image_id", *coverImageID)
		}
	}
	if set == "" {
		done(nil)
		return nil
	}

	args = append(args, id, userID)
	result, err := d.db.ExecContext(ctx,
		"UPDATE albums SET "+set+" WHERE id = ? AND user_id = ?", args...,
	)
	done(err)
	if err != nil {
		return fmt.Errorf("failed to update album: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAlbum removes an album. Member images stay in the library; only
// the membership rows cascade away.
func (d *Database) DeleteAlbum(ctx context.Context, userID, id int64) error {
	done := observeQuery("delete_album")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx,
		"DELETE FROM albums WHERE id = ? AND user_id = ?", id, userID,
	)
	done(err)
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// AddImagesToAlbum links the user's images into one of their albums and
// returns how many new links were made. Ids the user does not own are
// skipped rather than failing the batch.
func (d *Database) AddImagesToAlbum(ctx context.Context, userID, albumID int64, imageIDs []int64) (int64, error) {
	if _, err := d.GetAlbum(ctx, userID, albumID); err != nil {
		return 0, err
	}

	defer recordQuery("add_album_images", time.Now(), nil)

	tx, err := d.BeginBatch()
	if err != nil {
		return 0, err
	}

	var added int64
	for _, imageID := range imageIDs {
		result, execErr := tx.ExecContext(context.Background(), `
			INSERT OR IGNORE INTO album_images (album_id, image_id)
			SELECT ?, id FROM images WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
			albumID, imageID, userID,
		)
		if execErr != nil {
			return added, d.EndBatch(tx, execErr)
		}
		rows, _ := result.RowsAffected()
		added += rows
	}
	return added, d.EndBatch(tx, nil)
}

// RemoveImageFromAlbum unlinks an image from one of the user's albums.
func (d *Database) RemoveImageFromAlbum(ctx context.Context, userID, albumID, imageID int64) error {
	done := observeQuery("remove_album_image")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx, `
		DELETE FROM album_images WHERE image_id = ? AND album_id IN (
			SELECT id FROM albums WHERE id = ? AND user_id = ?)`,
		imageID, albumID, userID,
	)
	done(err)
	if err != nil {
		return fmt.Errorf("failed to remove image from album: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAlbumImages returns an album's active members, newest upload first.
func (d *Database) ListAlbumImages(ctx context.Context, userID, albumID int64, limit, offset int) (*SearchResult, error) {
	if _, err := d.GetAlbum(ctx, userID, albumID); err != nil {
		return nil, err
	}

	done := observeQuery("list_album_images")

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	where := `user_id = ? AND deleted_at IS NULL AND EXISTS (
		SELECT 1 FROM album_images ai WHERE ai.image_id = images.id AND ai.album_id = ?)`
	result, err := d.runImageQuery(ctx, where, []interface{}{userID, albumID}, "uploaded_at DESC", limit, offset)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to list album images: %w", err)
	}
	return result, nil
}

const selectAlbumColumns = `
	SELECT a.id, a.title, a.description, a.cover_image_id, a.created_at,
		(SELECT COUNT(*) FROM album_images ai
			JOIN images i ON i.id = ai.image_id
			WHERE ai.album_id = a.id AND i.deleted_at IS NULL) AS item_count
	FROM albums a`

func (d *Database) scanAlbum(row rowScanner) (*Album, error) {
	var album Album
	var cover sql.NullInt64
	var createdAt int64
	if err := row.Scan(&album.ID, &album.Title, &album.Description, &cover, &createdAt, &album.ItemCount); err != nil {
		return nil, err
	}
	album.CoverImageID = cover.Int64
	album.CreatedAt = time.Unix(createdAt, 0)
	return &album, nil
}
