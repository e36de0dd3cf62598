// Package sqlite provides a SQLite-backed feed cache store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/leonardcser/feed-mcp/internal/cache"
	"github.com/leonardcser/feed-mcp/internal/cache/sqlite/migrations"
)

// Store persists the feed snapshot in SQLite: one feed_cache row and its
// ordered feed_images rows.
type Store struct {
	sqlDB *sql.DB
}

var _ cache.FeedStore = (*Store)(nil)

// Open opens a SQLite feed store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Insert replaces the snapshot within one transaction.
func (s *Store) Insert(ctx context.Context, feed []cache.LocalFeedImage, timestamp time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := clearSnapshot(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO feed_cache (id, timestamp_ns) VALUES (1, ?)`,
		timestamp.UnixNano(),
	); err != nil {
		return fmt.Errorf("insert feed cache: %w", err)
	}
	for i, img := range feed {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO feed_images (cache_id, position, id, description, location, url)
			 VALUES (1, ?, ?, ?, ?, ?)`,
			i,
			img.ID.String(),
			nullString(img.Description),
			nullString(img.Location),
			img.URL,
		); err != nil {
			return fmt.Errorf("insert feed image %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}
	return nil
}

// Retrieve returns the snapshot, or nil when the cache is empty.
func (s *Store) Retrieve(ctx context.Context) (*cache.CachedFeed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var stampNS int64
	err := s.sqlDB.QueryRowContext(ctx, `SELECT timestamp_ns FROM feed_cache WHERE id = 1`).Scan(&stampNS)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query feed cache: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, description, location, url FROM feed_images WHERE cache_id = 1 ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query feed images: %w", err)
	}
	defer rows.Close()

	out := &cache.CachedFeed{Feed: []cache.LocalFeedImage{}, Timestamp: time.Unix(0, stampNS)}
	for rows.Next() {
		var (
			rawID       string
			description sql.NullString
			location    sql.NullString
			url         string
		)
		if err := rows.Scan(&rawID, &description, &location, &url); err != nil {
			return nil, fmt.Errorf("scan feed image: %w", err)
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse feed image id: %w", err)
		}
		out.Feed = append(out.Feed, cache.LocalFeedImage{
			ID:          id,
			Description: description.String,
			Location:    location.String,
			URL:         url,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feed images: %w", err)
	}
	return out, nil
}

// DeleteCachedFeed removes the snapshot and its images.
func (s *Store) DeleteCachedFeed(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := clearSnapshot(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

func clearSnapshot(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM feed_images`); err != nil {
		return fmt.Errorf("delete feed images: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM feed_cache`); err != nil {
		return fmt.Errorf("delete feed cache: %w", err)
	}
	return nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
