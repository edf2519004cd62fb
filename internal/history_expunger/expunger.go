package history_expunger

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

// Policy bounds the size of the verse history.
type Policy struct {
	MaxAge     time.Duration
	MaxEntries int
}

// DefaultPolicy keeps a year of history, at most 500 verses.
var DefaultPolicy = Policy{
	MaxAge:     365 * 24 * time.Hour,
	MaxEntries: 500,
}

// Expunge removes old and excess entries from the history table and returns
// how many rows were deleted.
// It enforces two rules:
// 1. Remove entries viewed more than MaxAge before now.
// 2. Keep at most MaxEntries entries (removing oldest first).
// A zero field disables its rule.
func Expunge(ctx context.Context, db *sql.DB, p Policy, now time.Time) (int64, error) {
	var removed int64

	// 1. Time-based purge. viewed_at is stored in UTC.
	if p.MaxAge > 0 {
		cutoff := now.Add(-p.MaxAge).UTC()
		res, err := db.ExecContext(ctx, "DELETE FROM history WHERE viewed_at < ?", cutoff)
		if err != nil {
			return removed, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return removed, err
		}
		removed += n
	}

	// 2. Count-based purge
	if p.MaxEntries > 0 {
		var count int
		err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM history").Scan(&count)
		if err != nil {
			return removed, err
		}

		if count > p.MaxEntries {
			limit := count - p.MaxEntries
			query := `
				DELETE FROM history
				WHERE id IN (
					SELECT id
					FROM history
					ORDER BY viewed_at ASC, id ASC
					LIMIT ?
				)
			`
			res, err := db.ExecContext(ctx, query, limit)
			if err != nil {
				return removed, err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return removed, err
			}
			removed += n
		}
	}

	if removed > 0 {
		slog.Info("expunged history entries", "removed_count", removed)
	}
	return removed, nil
}
