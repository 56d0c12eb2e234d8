// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package storage persists feeds and episodes in SQLite.

The schema lives in embedded migrations which are applied by [Open].
*/
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"codeberg.org/launchpod/launchpod/core/feed"
	"codeberg.org/launchpod/launchpod/core/storage/migrations"
)

var (
	// ErrNotFound is returned when a feed does not exist or is not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrInvalidID is returned for identifiers that cannot name a stored record.
	ErrInvalidID = errors.New("invalid id")

	errNotConfigured = errors.New("storage is not configured")
	errPathRequired  = errors.New("storage path is required")
)

// Store persists feed state in SQLite.
type Store struct {
	db *sql.DB
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// NewID returns a fresh record identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the shape of a record identifier.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)

	return err == nil
}

// Open opens the database at path and applies pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errPathRequired
	}

	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s == nil || s.db == nil {
		return errNotConfigured
	}

	return nil
}

// CreateFeed inserts f. A zero CreatedAt is set to the current time.
func (s *Store) CreateFeed(ctx context.Context, f feed.Feed) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	if !ValidID(f.ID) {
		return ErrInvalidID
	}

	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feeds (id, title, name, description, language, email, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Title, f.Name, f.Description, f.Language, f.Email, toMillis(f.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create feed: %w", err)
	}

	return nil
}

// GetFeed returns the feed with the given id.
func (s *Store) GetFeed(ctx context.Context, id string) (feed.Feed, error) {
	if err := s.ready(ctx); err != nil {
		return feed.Feed{}, err
	}

	if !ValidID(id) {
		return feed.Feed{}, ErrInvalidID
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, name, description, language, email, created_at
		 FROM feeds WHERE id = ?`, id)

	f, err := scanFeed(row)
	if errors.Is(err, sql.ErrNoRows) {
		return feed.Feed{}, ErrNotFound
	}

	if err != nil {
		return feed.Feed{}, fmt.Errorf("get feed: %w", err)
	}

	return f, nil
}

// ListFeedsByEmail returns the feeds owned by email, newest first.
func (s *Store) ListFeedsByEmail(ctx context.Context, email string) ([]feed.Feed, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, name, description, language, email, created_at
		 FROM feeds WHERE email = ? ORDER BY created_at DESC, id`, email)
	if err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}
	defer rows.Close()

	var feeds []feed.Feed

	for rows.Next() {
		f, err := scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feed: %w", err)
		}

		feeds = append(feeds, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}

	return feeds, nil
}

// DeleteFeed removes the feed id owned by email together with its episodes.
func (s *Store) DeleteFeed(ctx context.Context, id, email string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	if !ValidID(id) {
		return ErrInvalidID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete feed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM feeds WHERE id = ? AND email = ?`, id, email)
	if err != nil {
		return fmt.Errorf("delete feed: %w", err)
	}

	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete feed: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM episodes WHERE feed_id = ?`, id); err != nil {
		return fmt.Errorf("delete episodes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete feed: %w", err)
	}

	return nil
}

// AddEpisode inserts ep. A zero PubDate is set to the current time.
func (s *Store) AddEpisode(ctx context.Context, ep feed.Episode) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	if !ValidID(ep.ID) || !ValidID(ep.FeedID) {
		return ErrInvalidID
	}

	if ep.PubDate.IsZero() {
		ep.PubDate = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO episodes (id, feed_id, title, description, language, link, pub_date)
		 SELECT ?, id, ?, ?, ?, ?, ? FROM feeds WHERE id = ?`,
		ep.ID, ep.Title, ep.Description, ep.Language, ep.Link, toMillis(ep.PubDate), ep.FeedID,
	)
	if err != nil {
		return fmt.Errorf("add episode: %w", err)
	}

	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("add episode: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}

	return nil
}

// ListEpisodes returns the episodes of a feed, oldest first.
func (s *Store) ListEpisodes(ctx context.Context, feedID string) ([]feed.Episode, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	if !ValidID(feedID) {
		return nil, ErrInvalidID
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, feed_id, title, description, language, link, pub_date
		 FROM episodes WHERE feed_id = ? ORDER BY pub_date, id`, feedID)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer rows.Close()

	var episodes []feed.Episode

	for rows.Next() {
		var (
			ep      feed.Episode
			pubDate int64
		)

		if err := rows.Scan(&ep.ID, &ep.FeedID, &ep.Title, &ep.Description, &ep.Language, &ep.Link, &pubDate); err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}

		ep.PubDate = fromMillis(pubDate)
		episodes = append(episodes, ep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}

	return episodes, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFeed(row scanner) (feed.Feed, error) {
	var (
		f         feed.Feed
		createdAt int64
	)

	if err := row.Scan(&f.ID, &f.Title, &f.Name, &f.Description, &f.Language, &f.Email, &createdAt); err != nil {
		return feed.Feed{}, err
	}

	f.CreatedAt = fromMillis(createdAt)

	return f, nil
}
