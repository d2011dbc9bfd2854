package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinelog/cinelog/database"
	"github.com/cinelog/cinelog/tmdb"
)

func TestUpsertMedia_CreatesOnFirstSight(t *testing.T) {
	eng, db := createTestEngine(t, &mockCatalogClient{})
	ctx := context.Background()

	rec := &tmdb.Record{ID: 603, Title: "The Matrix", VoteAverage: 8.2}
	media, created, err := eng.UpsertMedia(ctx, rec, database.MediaTypeMovie)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, media.ID)

	got, err := db.GetMediaByTmdbID(ctx, 603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", got.Title)
}

func TestUpsertMedia_ExistingRowUntouched(t *testing.T) {
	eng, db := createTestEngine(t, &mockCatalogClient{})
	ctx := context.Background()

	first := &tmdb.Record{ID: 603, Title: "The Matrix", VoteAverage: 8.2}
	_, created, err := eng.UpsertMedia(ctx, first, database.MediaTypeMovie)
	require.NoError(t, err)
	require.True(t, created)

	// same external id, changed remote values
	second := &tmdb.Record{ID: 603, Title: "The Matrix Reloaded?", VoteAverage: 1.0}
	media, created, err := eng.UpsertMedia(ctx, second, database.MediaTypeMovie)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "The Matrix", media.Title)

	got, err := db.GetMediaByTmdbID(ctx, 603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", got.Title)
	assert.Equal(t, 8.2, got.VoteAverage)
}

func TestUpsertMedia_MissingID(t *testing.T) {
	eng, _ := createTestEngine(t, &mockCatalogClient{})
	ctx := context.Background()

	_, _, err := eng.UpsertMedia(ctx, &tmdb.Record{Title: "No ID"}, database.MediaTypeMovie)
	assert.ErrorIs(t, err, ErrMissingID)

	_, _, err = eng.UpsertMedia(ctx, nil, database.MediaTypeMovie)
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestUpsertMedia_GenreIDsResolveAgainstKnownGenres(t *testing.T) {
	eng, db := createTestEngine(t, &mockCatalogClient{})
	ctx := context.Background()

	_, err := db.GetOrCreateGenre(ctx, 28, "Action")
	require.NoError(t, err)

	// 878 is unknown and silently dropped
	rec := &tmdb.Record{ID: 603, Title: "The Matrix", GenreIDs: []int64{28, 878}}
	media, created, err := eng.UpsertMedia(ctx, rec, database.MediaTypeMovie)
	require.NoError(t, err)
	require.True(t, created)

	got, err := db.GetMediaByID(ctx, media.ID)
	require.NoError(t, err)
	require.Len(t, got.Genres, 1)
	assert.Equal(t, "Action", got.Genres[0].Name)
}

func TestUpsertMedia_FullGenreListCreatesGenres(t *testing.T) {
	eng, db := createTestEngine(t, &mockCatalogClient{})
	ctx := context.Background()

	rec := &tmdb.Record{
		ID:    603,
		Title: "The Matrix",
		Genres: []tmdb.GenreRef{
			{ID: 28, Name: "Action"},
			{ID: 878, Name: "Science Fiction"},
		},
	}
	media, _, err := eng.UpsertMedia(ctx, rec, database.MediaTypeMovie)
	require.NoError(t, err)

	got, err := db.GetMediaByID(ctx, media.ID)
	require.NoError(t, err)
	assert.Len(t, got.Genres, 2)

	genres, err := db.ListGenres(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, 2)
}

func TestEnrichMedia(t *testing.T) {
	runtime := int32(136)
	client := &mockCatalogClient{
		details: map[int64]*tmdb.Record{
			603: {
				ID:      603,
				Title:   "The Matrix",
				Runtime: &runtime,
				Genres:  []tmdb.GenreRef{{ID: 28, Name: "Action"}},
				Credits: &tmdb.Credits{
					Cast: []tmdb.CastMember{{ID: 6384, Name: "Keanu Reeves", Character: "Neo"}},
					Crew: []tmdb.CrewMember{
						{ID: 9339, Name: "Lana Wachowski", Job: "Director", Department: "Directing"},
						{ID: 1, Name: "Somebody", Job: "Gaffer"},
					},
				},
			},
		},
	}
	eng, db := createTestEngine(t, client)
	ctx := context.Background()

	media, _, err := eng.UpsertMedia(ctx, &tmdb.Record{ID: 603, Title: "The Matrix"}, database.MediaTypeMovie)
	require.NoError(t, err)

	require.NoError(t, eng.EnrichMedia(ctx, media))
	assert.Equal(t, 1, client.detailCalls)

	got, err := db.GetMediaByID(ctx, media.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Runtime)
	assert.Equal(t, int32(136), *got.Runtime)
	require.Len(t, got.Genres, 1)
	require.Len(t, got.CastMembers, 1)
	assert.Equal(t, "Keanu Reeves", got.CastMembers[0].Name)
	// gaffer is not an allow-listed job
	require.Len(t, got.CrewMembers, 1)
	assert.Equal(t, "Director", got.CrewMembers[0].Job)
}
