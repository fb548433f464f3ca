package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"photo-manager/internal/search"
)

// Filters is the structured search form. Zero values mean "no constraint".
type Filters struct {
	Keyword      string
	Tags         []string
	Folder       string
	Formats      []string
	UploadedFrom *time.Time
	UploadedTo   *time.Time
	TakenFrom    *time.Time
	TakenTo      *time.Time
	MinSize      int64
	MaxSize      int64
	CameraLike   string
	Featured     *bool
	SortBy       string
	SortDesc     bool
	Limit        int
	Offset       int
}

// sortColumns maps API sort keys to ORDER BY expressions.
var sortColumns = map[string]string{
	"uploaded":   "uploaded_at",
	"captured":   "taken_at",
	"size":       "size",
	"resolution": "width * height",
	"name":       "name COLLATE NOCASE",
	"tags":       "(SELECT COUNT(*) FROM image_tags WHERE image_tags.image_id = images.id)",
}

// SearchCompiled runs a compiled query predicate against the user's active
// images and returns an ordered page of summaries plus the unpaged total.
func (d *Database) SearchCompiled(ctx context.Context, userID int64, pred search.Predicate, sortBy string, sortDesc bool, limit, offset int) (*SearchResult, error) {
	done := observeQuery("search_images")

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cond, args := compilePredicate(pred, userID)
	where := "user_id = ? AND deleted_at IS NULL AND (" + cond + ")"
	whereArgs := append([]interface{}{userID}, args...)

	result, err := d.runImageQuery(ctx, where, whereArgs, orderClause(sortBy, sortDesc), limit, offset)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to search images: %w", err)
	}
	return result, nil
}

// StructuredSearch runs an explicit-filter search, bypassing the query
// compiler entirely.
func (d *Database) StructuredSearch(ctx context.Context, userID int64, f Filters) (*SearchResult, error) {
	done := observeQuery("search_images")

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	conds := []string{"user_id = ?", "deleted_at IS NULL"}
	args := []interface{}{userID}

	if f.Keyword != "" {
		cond, kwArgs := keywordCondition(f.Keyword, userID)
		conds = append(conds, cond)
		args = append(args, kwArgs...)
	}
	for _, tag := range f.Tags {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM image_tags it JOIN tags t ON t.id = it.tag_id
			WHERE it.image_id = images.id AND t.name = ? COLLATE NOCASE)`)
		args = append(args, tag)
	}
	if f.Folder != "" {
		conds = append(conds, "folder = ? COLLATE NOCASE")
		args = append(args, f.Folder)
	}
	if len(f.Formats) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(f.Formats)), ", ")
		conds = append(conds, "format IN ("+placeholders+")")
		for _, format := range f.Formats {
			args = append(args, strings.ToLower(format))
		}
	}
	if f.UploadedFrom != nil {
		conds = append(conds, "uploaded_at >= ?")
		args = append(args, f.UploadedFrom.Unix())
	}
	if f.UploadedTo != nil {
		conds = append(conds, "uploaded_at <= ?")
		args = append(args, f.UploadedTo.Unix())
	}
	if f.TakenFrom != nil {
		conds = append(conds, "taken_at IS NOT NULL AND taken_at >= ?")
		args = append(args, f.TakenFrom.Unix())
	}
	if f.TakenTo != nil {
		conds = append(conds, "taken_at IS NOT NULL AND taken_at <= ?")
		args = append(args, f.TakenTo.Unix())
	}
	if f.MinSize > 0 {
		conds = append(conds, "size >= ?")
		args = append(args, f.MinSize)
	}
	if f.MaxSize > 0 {
		conds = append(conds, "size <= ?")
		args = append(args, f.MaxSize)
	}
	if f.CameraLike != "" {
		conds = append(conds, "(ulower(camera) LIKE ? ESCAPE '\\' OR ulower(lens) LIKE ? ESCAPE '\\')")
		p := likePattern(f.CameraLike)
		args = append(args, p, p)
	}
	if f.Featured != nil {
		conds = append(conds, "featured = ?")
		args = append(args, boolToInt(*f.Featured))
	}

	result, err := d.runImageQuery(ctx, strings.Join(conds, " AND "), args, orderClause(f.SortBy, f.SortDesc), f.Limit, f.Offset)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to search images: %w", err)
	}
	return result, nil
}

// runImageQuery executes the count and page queries for a WHERE clause.
// Callers hold d.mu.
func (d *Database) runImageQuery(ctx context.Context, where string, args []interface{}, order string, limit, offset int) (*SearchResult, error) {
	result := &SearchResult{Items: []ImageSummary{}}

	err := d.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM images WHERE "+where, args...,
	).Scan(&result.TotalItems)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, name, description, format, size, width, height, featured, uploaded_at
		FROM images WHERE ` + where + " ORDER BY " + order
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item ImageSummary
		var featured int
		var uploadedAt int64
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Format,
			&item.Size, &item.Width, &item.Height, &featured, &uploadedAt); err != nil {
			return nil, err
		}
		item.Featured = featured != 0
		item.UploadedAt = time.Unix(uploadedAt, 0)
		item.ThumbURL = fmt.Sprintf("/api/v1/images/%d/thumb", item.ID)
		item.RawURL = fmt.Sprintf("/api/v1/images/%d/raw", item.ID)
		result.Items = append(result.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result.Items {
		tags, err := d.loadTags(ctx, result.Items[i].ID)
		if err != nil {
			return nil, err
		}
		result.Items[i].Tags = tags
	}
	return result, nil
}

// compilePredicate lowers a query predicate to a SQL condition over the
// images table. The condition never references columns outside images
// except through EXISTS subqueries, so it composes under AND and OR.
func compilePredicate(p search.Predicate, userID int64) (string, []interface{}) {
	switch v := p.(type) {
	case search.MatchAll:
		return "1 = 1", nil
	case search.MatchNone:
		return "1 = 0", nil
	case search.TimeRange:
		start, end := v.Start.Unix(), v.End.Unix()
		if v.Field == search.TimeTaken {
			return "(taken_at IS NOT NULL AND taken_at BETWEEN ? AND ?)", []interface{}{start, end}
		}
		return "uploaded_at BETWEEN ? AND ?", []interface{}{start, end}
	case search.SizeAtLeast:
		return "size >= ?", []interface{}{v.Bytes}
	case search.SizeAtMost:
		return "size <= ?", []interface{}{v.Bytes}
	case search.MinPixels:
		return "(width * height) >= ?", []interface{}{v.Pixels}
	case search.MinWidth:
		return "width >= ?", []interface{}{v.Width}
	case search.MinHeight:
		return "height >= ?", []interface{}{v.Height}
	case search.AlbumLike:
		pattern := likePattern(v.Title)
		return `(ulower(folder) LIKE ? ESCAPE '\' OR EXISTS (
			SELECT 1 FROM album_images ai JOIN albums a ON a.id = ai.album_id
			WHERE ai.image_id = images.id AND a.user_id = ? AND ulower(a.title) LIKE ? ESCAPE '\'))`,
			[]interface{}{pattern, userID, pattern}
	case search.GearLike:
		pattern := likePattern(v.Text)
		return `(ulower(camera) LIKE ? ESCAPE '\' OR ulower(lens) LIKE ? ESCAPE '\')`,
			[]interface{}{pattern, pattern}
	case search.Keyword:
		return keywordCondition(v.Term, userID)
	case search.And:
		return joinConditions(v.Preds, " AND ", userID)
	case search.Or:
		return joinConditions(v.Preds, " OR ", userID)
	default:
		// Unknown node types match nothing rather than everything.
		return "1 = 0", nil
	}
}

func joinConditions(preds []search.Predicate, sep string, userID int64) (string, []interface{}) {
	conds := make([]string, 0, len(preds))
	var args []interface{}
	for _, p := range preds {
		cond, condArgs := compilePredicate(p, userID)
		conds = append(conds, cond)
		args = append(args, condArgs...)
	}
	return "(" + strings.Join(conds, sep) + ")", args
}

// keywordCondition matches a term against every text surface an image has:
// its own fields, its tags, and the titles of albums containing it.
func keywordCondition(term string, userID int64) (string, []interface{}) {
	pattern := likePattern(term)
	cond := `(ulower(name) LIKE ? ESCAPE '\'
		OR ulower(description) LIKE ? ESCAPE '\'
		OR ulower(original_name) LIKE ? ESCAPE '\'
		OR ulower(folder) LIKE ? ESCAPE '\'
		OR ulower(COALESCE(ai_caption, '')) LIKE ? ESCAPE '\'
		OR ulower(COALESCE(ai_labels, '')) LIKE ? ESCAPE '\'
		OR EXISTS (
			SELECT 1 FROM image_tags it JOIN tags t ON t.id = it.tag_id
			WHERE it.image_id = images.id AND ulower(t.name) LIKE ? ESCAPE '\')
		OR EXISTS (
			SELECT 1 FROM album_images ai JOIN albums a ON a.id = ai.album_id
			WHERE ai.image_id = images.id AND a.user_id = ? AND ulower(a.title) LIKE ? ESCAPE '\'))`
	return cond, []interface{}{pattern, pattern, pattern, pattern, pattern, pattern, pattern, userID, pattern}
}

// likePattern builds a substring LIKE pattern, escaping the SQL wildcard
// characters in the term itself. Column values are folded with ulower()
// so the Go-side ToLower here sees the same case rules.
func likePattern(term string) string {
	term = strings.ToLower(term)
	term = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + term + "%"
}

func orderClause(sortBy string, desc bool) string {
	column, ok := sortColumns[sortBy]
	if !ok {
		column, desc = "uploaded_at", true
	}
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}
