// Package journal keeps a local history of the verses that were shown.
package journal

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"derrclan.com/daily-bread/internal/bible"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Entry is one displayed verse.
type Entry struct {
	ID           int64
	ViewedAt     time.Time
	Mode         string
	BibleVersion string
	Verse        bible.Verse
}

// Journal is a SQLite backed verse history.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path and brings
// its schema up to date.
func Open(ctx context.Context, path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Journal{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if len(results) > 0 {
		slog.Info("database migrated", "applied", len(results))
	}
	return nil
}

// DB exposes the underlying handle for maintenance such as expunging.
func (j *Journal) DB() *sql.DB {
	return j.db
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends e to the history. A zero ViewedAt is replaced with the
// current time.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.ViewedAt.IsZero() {
		e.ViewedAt = time.Now()
	}

	query := `
		INSERT INTO history (viewed_at, mode, bible_version, book, chapter, number, text)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := j.db.ExecContext(ctx, query,
		e.ViewedAt.UTC(), e.Mode, e.BibleVersion,
		e.Verse.Book, e.Verse.Chapter, e.Verse.Number, e.Verse.Text)
	if err != nil {
		return fmt.Errorf("failed to record verse: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, viewed_at, mode, bible_version, book, chapter, number, text
		FROM history
		ORDER BY viewed_at DESC, id DESC
		LIMIT ?
	`
	rows, err := j.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(&e.ID, &e.ViewedAt, &e.Mode, &e.BibleVersion,
			&e.Verse.Book, &e.Verse.Chapter, &e.Verse.Number, &e.Verse.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}
