package database

import (
	"context"
	"time"

	"photo-manager/internal/logging"
	"photo-manager/internal/metrics"
)

// GetStats returns library-wide statistics for the metrics collector.
func (d *Database) GetStats() metrics.Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var stats metrics.Stats
	row := d.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM images WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM images WHERE deleted_at IS NOT NULL),
			(SELECT COUNT(*) FROM albums),
			(SELECT COUNT(*) FROM tags),
			(SELECT COUNT(*) FROM users),
			(SELECT COALESCE(SUM(size), 0) FROM images WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM sessions WHERE expires_at >= ?)`,
		time.Now().Unix(),
	)
	err := row.Scan(
		&stats.ActiveImages, &stats.RecycledImages, &stats.TotalAlbums,
		&stats.TotalTags, &stats.TotalUsers, &stats.TotalBytes, &stats.ActiveSessions,
	)
	if err != nil {
		logging.Error("failed to collect library stats: %v", err)
	}

	d.UpdateDBMetrics()
	return stats
}

// GetUserStats returns the per-user dashboard summary. "Today" windows use
// the server's local midnight.
func (d *Database) GetUserStats(ctx context.Context, userID int64) (*UserStats, error) {
	done := observeQuery("get_user_stats")

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Unix()

	var stats UserStats
	row := d.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM images WHERE user_id = ?1 AND deleted_at IS NULL),
			(SELECT COUNT(*) FROM images WHERE user_id = ?1 AND deleted_at IS NOT NULL),
			(SELECT COUNT(*) FROM images WHERE user_id = ?1 AND deleted_at IS NULL AND uploaded_at >= ?2),
			(SELECT COUNT(*) FROM images WHERE user_id = ?1 AND deleted_at >= ?2),
			(SELECT COALESCE(SUM(size), 0) FROM images WHERE user_id = ?1 AND deleted_at IS NULL),
			(SELECT COUNT(*) FROM albums WHERE user_id = ?1),
			(SELECT COUNT(*) FROM tags WHERE user_id = ?1)`,
		userID, midnight,
	)
	err := row.Scan(
		&stats.ActiveImages, &stats.RecycledImages, &stats.UploadedToday,
		&stats.DeletedToday, &stats.TotalBytes, &stats.TotalAlbums, &stats.TotalTags,
	)
	done(err)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
