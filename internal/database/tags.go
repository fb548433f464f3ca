package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// tagPalette is the fixed set of display colors. A tag's color is derived
// from its name so the same tag renders the same everywhere.
var tagPalette = []string{
	"#e57373", "#f06292", "#ba68c8", "#7986cb", "#64b5f6",
	"#4dd0e1", "#4db6ac", "#81c784", "#dce775", "#ffb74d",
}

func tagColor(name string) string {
	sum := 0
	for _, r := range name {
		sum += int(r)
	}
	return tagPalette[sum%len(tagPalette)]
}

// GetOrCreateTag returns the user's tag with the given name, creating it
// if needed. Names are compared case-insensitively.
func (d *Database) GetOrCreateTag(ctx context.Context, userID int64, name string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("tag name cannot be empty")
	}

	done := observeQuery("create_tag")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := d.scanTag(d.db.QueryRowContext(ctx,
		"SELECT id, name, color, created_at FROM tags WHERE user_id = ? AND name = ? COLLATE NOCASE",
		userID, name,
	))
	if err == nil {
		done(nil)
		return tag, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		done(err)
		return nil, err
	}

	now := time.Now()
	result, err := d.db.ExecContext(ctx,
		"INSERT INTO tags (user_id, name, color, created_at) VALUES (?, ?, ?, ?)",
		userID, name, tagColor(name), now.Unix(),
	)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Tag{ID: id, Name: name, Color: tagColor(name), CreatedAt: now}, nil
}

// SetImageTags replaces an image's tag set with the given names, creating
// tags as needed. An empty list clears all tags.
func (d *Database) SetImageTags(ctx context.Context, userID, imageID int64, names []string) error {
	// Resolve tags first; GetOrCreateTag takes the write lock itself.
	tagIDs := make([]int64, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		tag, err := d.GetOrCreateTag(ctx, userID, name)
		if err != nil {
			return err
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	defer recordQuery("set_image_tags", time.Now(), nil)

	tx, err := d.BeginBatch()
	if err != nil {
		return err
	}

	var owned int
	err = tx.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM images WHERE id = ? AND user_id = ?", imageID, userID,
	).Scan(&owned)
	if err == nil && owned == 0 {
		err = ErrNotFound
	}
	if err != nil {
		return d.EndBatch(tx, err)
	}

	if _, err = tx.ExecContext(context.Background(),
		"DELETE FROM image_tags WHERE image_id = ?", imageID); err != nil {
		return d.EndBatch(tx, err)
	}
	for _, tagID := range tagIDs {
		if _, err = tx.ExecContext(context.Background(),
			"INSERT OR IGNORE INTO image_tags (image_id, tag_id) VALUES (?, ?)",
			imageID, tagID); err != nil {
			return d.EndBatch(tx, err)
		}
	}
	return d.EndBatch(tx, nil)
}

// ListTags returns the user's tags with live usage counts, most used first.
func (d *Database) ListTags(ctx context.Context, userID int64) ([]Tag, error) {
	done := observeQuery("list_tags")

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.color, t.created_at,
			(SELECT COUNT(*) FROM image_tags it
				JOIN images i ON i.id = it.image_id
				WHERE it.tag_id = t.id AND i.deleted_at IS NULL) AS item_count
		FROM tags t WHERE t.user_id = ?
		ORDER BY item_count DESC, t.name COLLATE NOCASE`,
		userID,
	)
	if err != nil {
		done(err)
		return nil, err
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var tag Tag
		var createdAt int64
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Color, &createdAt, &tag.ItemCount); err != nil {
			done(err)
			return nil, err
		}
		tag.CreatedAt = time.Unix(createdAt, 0)
		tags = append(tags, tag)
	}
	err = rows.Err()
	done(err)
	return tags, err
}

// RenameTag renames a user's tag and refreshes its derived color.
func (d *Database) RenameTag(ctx context.Context, userID, id int64, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("tag name cannot be empty")
	}

	done := observeQuery("rename_tag")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx,
		"UPDATE tags SET name = ?, color = ? WHERE id = ? AND user_id = ?",
		newName, tagColor(newName), id, userID,
	)
	done(err)
	if err != nil {
		return fmt.Errorf("failed to rename tag: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTag removes a user's tag; image links cascade away with it.
func (d *Database) DeleteTag(ctx context.Context, userID, id int64) error {
	done := observeQuery("delete_tag")

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx,
		"DELETE FROM tags WHERE id = ? AND user_id = ?", id, userID,
	)
	done(err)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *Database) scanTag(row rowScanner) (*Tag, error) {
	var tag Tag
	var createdAt int64
	if err := row.Scan(&tag.ID, &tag.Name, &tag.Color, &createdAt); err != nil {
		return nil, err
	}
	tag.CreatedAt = time.Unix(createdAt, 0)
	return &tag, nil
}
