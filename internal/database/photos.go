package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested row does not exist or is not
// visible to the requesting user.
var ErrNotFound = errors.New("not found")

// FileRef pairs a catalog row with its on-disk original, for the sweeper.
type FileRef struct {
	ID       int64
	UserID   int64
	FilePath string
}

// FolderInfo is one folder grouping with its image count.
type FolderInfo struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// UpdateImageFields holds the mutable image attributes. Nil means "leave
// unchanged".
type UpdateImageFields struct {
	Name        *string
	Description *string
	Folder      *string
	Visibility  *int
	Featured    *bool
	TakenAt     *time.Time
	Camera      *string
	Lens        *string
}

// InsertImage inserts a catalog row and returns its id.
func (d *Database) InsertImage(ctx context.Context, img *Image) (int64, error) {
	done := observeQuery("insert_image")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var takenAt interface{}
	if img.TakenAt != nil {
		takenAt = img.TakenAt.Unix()
	}

	result, err := d.db.ExecContext(ctx, `
		INSERT INTO images (user_id, token, name, description, original_name, folder,
			file_path, thumb_path, format, size, width, height, camera, lens,
			ai_caption, ai_labels, visibility, featured, uploaded_at, taken_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		img.UserID, img.Token, img.Name, img.Description, img.OriginalName, img.Folder,
		img.FilePath, img.ThumbPath, img.Format, img.Size, img.Width, img.Height,
		img.Camera, img.Lens, nullableString(img.AICaption), nullableString(img.AILabels),
		img.Visibility, boolToInt(img.Featured), img.UploadedAt.Unix(), takenAt,
	)
	done(err)
	if err != nil {
		return 0, fmt.Errorf("failed to insert image: %w", err)
	}
	return result.LastInsertId()
}

// GetImage retrieves a non-recycled image owned by the user, with its tags.
func (d *Database) GetImage(ctx context.Context, userID, id int64) (*Image, error) {
	done := observeQuery("get_image")

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	img, err := d.scanImageRow(d.db.QueryRowContext(ctx,
		selectImageColumns+` FROM images WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		id, userID,
	))
	if err != nil {
		done(err)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	img.Tags, err = d.loadTags(ctx, img.ID)
	done(err)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// GetVisibleImage retrieves an image the user may view: their own, or any
// public one. Used when serving raw files and thumbnails.
func (d *Database) GetVisibleImage(ctx context.Context, userID, id int64) (*Image, error) {
	done := observeQuery("get_visible_image")

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	img, err := d.scanImageRow(d.db.QueryRowContext(ctx,
		selectImageColumns+` FROM images
		WHERE id = ? AND deleted_at IS NULL AND (user_id = ? OR visibility = ?)`,
		id, userID, VisibilityPublic,
	))
	done(err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return img, nil
}

// UpdateImage applies the provided fields to an image owned by the user.
func (d *Database) UpdateImage(ctx context.Context, userID, id int64, fields UpdateImageFields) error {
	done := observeQuery("update_image")

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

	if fields.Name != nil {
		appendSet("name", *fields.Name)
	}
	if fields.Description != nil {
		appendSet("description", *fields.Description)
	}
	if fields.Folder != nil {
		appendSet("folder", *fields.Folder)
	}
	if fields.Visibility != nil {
		appendSet("visibility", *fields.Visibility)
	}
	if fields.Featured != nil {
		appendSet("featured", boolToInt(*fields.Featured))
	}
	if fields.TakenAt != nil {
		appendSet("taken_at", fields.TakenAt.Unix())
	}
	if fields.Camera != nil {
		appendSet("camera", *fields.Camera)
	}
	if fields.Lens != nil {
		appendSet("lens", *fields.Lens)
	}
	if set == "" {
		done(nil)
		return nil
	}

	args = append(args, id, userID)
	result, err := d.db.ExecContext(ctx,
		"UPDATE images SET "+set+" WHERE id = ? AND user_id = ? AND deleted_at IS NULL",
		args...,
	)
	done(err)
	if err != nil {
		return fmt.Errorf("failed to update image: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// SetImageAIMetadata stores the caption and serialized label list produced
// by an external captioning pipeline.
func (d *Database) SetImageAIMetadata(ctx context.Context, userID, id int64, caption, labels string) error {
	done := observeQuery("set_image_ai_metadata")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx,
		"UPDATE images SET ai_caption = ?, ai_labels = ? WHERE id = ? AND user_id = ?",
		nullableString(caption), nullableString(labels), id, userID,
	)
	done(err)
	if err != nil {
		return fmt.Errorf("failed to set AI metadata: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFolders returns the user's folder groupings with image counts.
func (d *Database) ListFolders(ctx context.Context, userID int64) ([]FolderInfo, error) {
	done := observeQuery("list_folders")

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, `
		SELECT folder, COUNT(*) FROM images
		WHERE user_id = ? AND deleted_at IS NULL
		GROUP BY folder ORDER BY folder COLLATE NOCASE`,
		userID,
	)
	if err != nil {
		done(err)
		return nil, err
	}
	defer rows.Close()

	var folders []FolderInfo
	for rows.Next() {
		var f FolderInfo
		if err := rows.Scan(&f.Name, &f.Count); err != nil {
			done(err)
			return nil, err
		}
		folders = append(folders, f)
	}
	err = rows.Err()
	done(err)
	return folders, err
}

// ListActiveFiles returns every non-recycled row's id and original path.
// The sweeper uses this to find rows whose file has vanished.
func (d *Database) ListActiveFiles(ctx context.Context) ([]FileRef, error) {
	done := observeQuery("list_active_files")

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows, err := d.db.QueryContext(ctx,
		"SELECT id, user_id, file_path FROM images WHERE deleted_at IS NULL",
	)
	if err != nil {
		done(err)
		return nil, err
	}
	defer rows.Close()

	var refs []FileRef
	for rows.Next() {
		var ref FileRef
		if err := rows.Scan(&ref.ID, &ref.UserID, &ref.FilePath); err != nil {
			done(err)
			return nil, err
		}
		refs = append(refs, ref)
	}
	err = rows.Err()
	done(err)
	return refs, err
}

// SoftDeleteMissing moves the given rows to the recycle bin in one batch.
// Used by the sweeper when originals disappear from disk.
func (d *Database) SoftDeleteMissing(ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := d.BeginBatch()
	if err != nil {
		return 0, err
	}

	var total int64
	for _, id := range ids {
		result, execErr := tx.ExecContext(context.Background(),
			"UPDATE images SET deleted_at = strftime('%s', 'now') WHERE id = ? AND deleted_at IS NULL",
			id,
		)
		if execErr != nil {
			return total, d.EndBatch(tx, execErr)
		}
		rows, _ := result.RowsAffected()
		total += rows
	}
	return total, d.EndBatch(tx, nil)
}

const selectImageColumns = `
	SELECT id, user_id, token, name, description, original_name, folder,
		file_path, thumb_path, format, size, width, height, camera, lens,
		ai_caption, ai_labels, visibility, featured, uploaded_at, taken_at, deleted_at`

// rowScanner abstracts *sql.Row and *sql.Rows for scanImageRow.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (d *Database) scanImageRow(row rowScanner) (*Image, error) {
	var img Image
	var caption, labels sql.NullString
	var featured int
	var uploadedAt int64
	var takenAt, deletedAt sql.NullInt64

	err := row.Scan(
		&img.ID, &img.UserID, &img.Token, &img.Name, &img.Description,
		&img.OriginalName, &img.Folder, &img.FilePath, &img.ThumbPath,
		&img.Format, &img.Size, &img.Width, &img.Height, &img.Camera, &img.Lens,
		&caption, &labels, &img.Visibility, &featured, &uploadedAt, &takenAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	img.AICaption = caption.String
	img.AILabels = labels.String
	img.Featured = featured != 0
	img.UploadedAt = time.Unix(uploadedAt, 0)
	if takenAt.Valid {
		t := time.Unix(takenAt.Int64, 0)
		img.TakenAt = &t
	}
	if deletedAt.Valid {
		t := time.Unix(deletedAt.Int64, 0)
		img.DeletedAt = &t
	}
	return &img, nil
}

// loadTags returns the tag names attached to an image. Callers hold d.mu.
func (d *Database) loadTags(ctx context.Context, imageID int64) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT t.name FROM tags t
		JOIN image_tags it ON it.tag_id = t.id
		WHERE it.image_id = ?
		ORDER BY t.name COLLATE NOCASE`,
		imageID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
