// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/launchpod/launchpod/core/feed"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "launchpod.db"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = store.Close() })

	return store
}

func testFeed(email string, createdAt time.Time) feed.Feed {
	return feed.Feed{
		ID:          NewID(),
		Title:       "Weekly Go",
		Name:        "Gopher",
		Description: "News about Go",
		Language:    "en-US",
		Email:       email,
		CreatedAt:   createdAt,
	}
}

func TestCreateAndGetFeed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	want := testFeed("a@example.com", created)

	require.NoError(t, store.CreateFeed(ctx, want))

	got, err := store.GetFeed(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetFeedErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.GetFeed(ctx, "not-a-uuid")
	require.ErrorIs(t, err, ErrInvalidID)

	_, err = store.GetFeed(ctx, NewID())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListFeedsByEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	older := testFeed("a@example.com", base)
	newer := testFeed("a@example.com", base.Add(time.Hour))
	other := testFeed("b@example.com", base)

	for _, f := range []feed.Feed{older, newer, other} {
		require.NoError(t, store.CreateFeed(ctx, f))
	}

	feeds, err := store.ListFeedsByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.Len(t, feeds, 2)
	assert.Equal(t, newer.ID, feeds[0].ID)
	assert.Equal(t, older.ID, feeds[1].ID)

	none, err := store.ListFeedsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEpisodes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	f := testFeed("a@example.com", time.Now())
	require.NoError(t, store.CreateFeed(ctx, f))

	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	second := feed.Episode{ID: NewID(), FeedID: f.ID, Title: "Two", Description: "d", Link: "https://x.test/2", PubDate: base.Add(time.Minute)}
	first := feed.Episode{ID: NewID(), FeedID: f.ID, Title: "One", Description: "d", Link: "https://x.test/1", PubDate: base}

	require.NoError(t, store.AddEpisode(ctx, second))
	require.NoError(t, store.AddEpisode(ctx, first))

	episodes, err := store.ListEpisodes(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, episodes, 2)
	assert.Equal(t, first, episodes[0])
	assert.Equal(t, second, episodes[1])

	orphan := feed.Episode{ID: NewID(), FeedID: NewID(), Title: "x", Description: "d", Link: "https://x.test"}
	assert.ErrorIs(t, store.AddEpisode(ctx, orphan), ErrNotFound)
}

func TestDeleteFeed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	f := testFeed("a@example.com", time.Now())
	require.NoError(t, store.CreateFeed(ctx, f))
	require.NoError(t, store.AddEpisode(ctx, feed.Episode{ID: NewID(), FeedID: f.ID, Title: "t", Description: "d", Link: "https://x.test"}))

	// Only the owner may delete.
	require.ErrorIs(t, store.DeleteFeed(ctx, f.ID, "b@example.com"), ErrNotFound)
	require.NoError(t, store.DeleteFeed(ctx, f.ID, "a@example.com"))

	_, err := store.GetFeed(ctx, f.ID)
	require.ErrorIs(t, err, ErrNotFound)

	episodes, err := store.ListEpisodes(ctx, f.ID)
	require.NoError(t, err)
	assert.Empty(t, episodes)

	require.ErrorIs(t, store.DeleteFeed(ctx, f.ID, "a@example.com"), ErrNotFound)
}

func TestOpenAppliesMigrationsOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "launchpod.db")

	first, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(ctx, path)
	require.NoError(t, err)

	defer second.Close()

	var count int
	require.NoError(t, second.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+migrationTable).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestApplyMigrationsSkipsDownSection(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	fsys := fstest.MapFS{
		"0002_extra.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE extra (id TEXT);\n-- +migrate Down\nDROP TABLE feeds;\n")},
	}

	require.NoError(t, applyMigrations(ctx, store.db, fsys))
	require.NoError(t, applyMigrations(ctx, store.db, fsys))

	_, err := store.db.ExecContext(ctx, `INSERT INTO extra (id) VALUES ('x')`)
	require.NoError(t, err)

	_, err = store.ListFeedsByEmail(ctx, "a@example.com")
	require.NoError(t, err)
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), " ")
	assert.Error(t, err)
}
