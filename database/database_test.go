package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func testMedia(tmdbID int64, title string, mediaType MediaType) *Media {
	return &Media{
		TmdbID:      tmdbID,
		Title:       title,
		MediaType:   mediaType,
		VoteAverage: 7.0,
	}
}

func dateOf(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return &parsed
}

func TestNew_CreatesMissingDirectory(t *testing.T) {
	dbpath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	client, err := New(dbpath)
	require.NoError(t, err)
	defer client.Close() //nolint:errcheck

	require.NoError(t, client.CreateMedia(context.Background(), testMedia(1, "A", MediaTypeMovie)))
}

func TestReset(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	media := testMedia(1, "A", MediaTypeMovie)
	require.NoError(t, client.CreateMedia(ctx, media))
	genre, err := client.GetOrCreateGenre(ctx, 28, "Action")
	require.NoError(t, err)
	require.NoError(t, client.SetMediaGenres(ctx, media, []Genre{*genre}))
	require.NoError(t, client.CreateReview(ctx, &Review{UserID: 1, MediaID: media.ID, Rating: 4}))

	require.NoError(t, client.Reset())

	_, err = client.GetMediaByID(ctx, media.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	genres, err := client.ListGenres(ctx)
	require.NoError(t, err)
	assert.Empty(t, genres)
	count, err := client.CountReviews(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
