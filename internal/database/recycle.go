package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RecycleImage moves an image to the recycle bin. The file stays on disk
// until the row is purged.
func (d *Database) RecycleImage(ctx context.Context, userID, id int64) error {
	done := observeQuery("recycle_image")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx,
		"UPDATE images SET deleted_at = ? WHERE id = ? AND user_id = ? AND deleted_at IS NULL",
		time.Now().Unix(), id, userID,
	)
	done(err)
	if err != nil {
		return fmt.Errorf("failed to recycle image: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// RecycleImages recycles a batch of images in one transaction and returns
// how many rows actually moved.
func (d *Database) RecycleImages(userID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	defer recordQuery("recycle_image", time.Now(), nil)

	tx, err := d.BeginBatch()
	if err != nil {
		return 0, err
	}

	now := time.Now().Unix()
	var total int64
	for _, id := range ids {
		result, execErr := tx.ExecContext(context.Background(),
			"UPDATE images SET deleted_at = ? WHERE id = ? AND user_id = ? AND deleted_at IS NULL",
			now, id, userID,
		)
		if execErr != nil {
			return total, d.EndBatch(tx, execErr)
		}
		rows, _ := result.RowsAffected()
		total += rows
	}
	return total, d.EndBatch(tx, nil)
}

// RestoreImage moves a recycled image back to the active library.
func (d *Database) RestoreImage(ctx context.Context, userID, id int64) error {
	done := observeQuery("restore_image")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx,
		"UPDATE images SET deleted_at = NULL WHERE id = ? AND user_id = ? AND deleted_at IS NOT NULL",
		id, userID,
	)
	done(err)
	if err != nil {
		return fmt.Errorf("failed to restore image: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRecycled returns the user's recycle bin, most recently deleted first.
func (d *Database) ListRecycled(ctx context.Context, userID int64) ([]*Image, error) {
	done := observeQuery("list_recycled")

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx,
		selectImageColumns+` FROM images
		WHERE user_id = ? AND deleted_at IS NOT NULL
		ORDER BY deleted_at DESC`,
		userID,
	)
	if err != nil {
		done(err)
		return nil, err
	}
	defer rows.Close()

	var images []*Image
	for rows.Next() {
		img, scanErr := d.scanImageRow(rows)
		if scanErr != nil {
			done(scanErr)
			return nil, scanErr
		}
		images = append(images, img)
	}
	err = rows.Err()
	done(err)
	return images, err
}

// PurgeImage permanently deletes a recycled row and returns it so the
// caller can remove the files. Tag and album links go with the row via
// foreign key cascades.
func (d *Database) PurgeImage(ctx context.Context, userID, id int64) (*Image, error) {
	done := observeQuery("purge_image")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	img, err := d.scanImageRow(d.db.QueryRowContext(ctx,
		selectImageColumns+` FROM images WHERE id = ? AND user_id = ? AND deleted_at IS NOT NULL`,
		id, userID,
	))
	if err != nil {
		done(err)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	_, err = d.db.ExecContext(ctx, "DELETE FROM images WHERE id = ?", id)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to purge image: %w", err)
	}
	return img, nil
}

// ClearRecycleBin permanently deletes every recycled row for the user and
// returns the removed rows so the caller can delete their files.
func (d *Database) ClearRecycleBin(ctx context.Context, userID int64) ([]*Image, error) {
	images, err := d.ListRecycled(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, nil
	}

	done := observeQuery("purge_image")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = d.db.ExecContext(ctx,
		"DELETE FROM images WHERE user_id = ? AND deleted_at IS NOT NULL",
		userID,
	)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to clear recycle bin: %w", err)
	}
	return images, nil
}
