package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinelog/cinelog/database"
	"github.com/cinelog/cinelog/tmdb"
)

func TestSyncCategory(t *testing.T) {
	client := &mockCatalogClient{
		pages: map[string]*tmdb.Page{
			pageKey(tmdb.MediaTypeMovie, tmdb.CategoryPopular, 1): {
				Page:       1,
				TotalPages: 2,
				Results: []tmdb.Record{
					{ID: 603, Title: "The Matrix"},
					{ID: 680, Title: "Pulp Fiction"},
				},
			},
			pageKey(tmdb.MediaTypeMovie, tmdb.CategoryPopular, 2): {
				Page:       2,
				TotalPages: 2,
				Results: []tmdb.Record{
					{ID: 550, Title: "Fight Club"},
					{Title: "No ID Record"},        // skipped
					{ID: 603, Title: "The Matrix"}, // already imported
				},
			},
		},
	}
	eng, db := createTestEngine(t, client)

	summary, err := eng.SyncCategory(context.Background(), database.MediaTypeMovie, tmdb.CategoryPopular, 5, false)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Pages)
	assert.Equal(t, 3, summary.Created)
	assert.Equal(t, 1, summary.Existing)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Enriched)
	// stopped at total_pages, never requested page 3
	assert.Equal(t, 2, client.listCalls)

	count, err := db.CountMediaByType(context.Background(), database.MediaTypeMovie)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestSyncCategory_PageErrorSkipsPage(t *testing.T) {
	client := &mockCatalogClient{
		pages: map[string]*tmdb.Page{
			// page 1 missing, only page 2 scripted
			pageKey(tmdb.MediaTypeMovie, tmdb.CategoryPopular, 2): {
				Page:       2,
				TotalPages: 2,
				Results:    []tmdb.Record{{ID: 550, Title: "Fight Club"}},
			},
		},
	}
	eng, _ := createTestEngine(t, client)

	summary, err := eng.SyncCategory(context.Background(), database.MediaTypeMovie, tmdb.CategoryPopular, 2, false)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Pages)
	assert.Equal(t, 1, summary.Created)
}

func TestSyncCategory_WithDetails(t *testing.T) {
	runtime := int32(139)
	client := &mockCatalogClient{
		pages: map[string]*tmdb.Page{
			pageKey(tmdb.MediaTypeMovie, tmdb.CategoryPopular, 1): {
				Page:       1,
				TotalPages: 1,
				Results:    []tmdb.Record{{ID: 550, Title: "Fight Club"}},
			},
		},
		details: map[int64]*tmdb.Record{
			550: {ID: 550, Title: "Fight Club", Runtime: &runtime},
		},
	}
	eng, db := createTestEngine(t, client)
	ctx := context.Background()

	summary, err := eng.SyncCategory(ctx, database.MediaTypeMovie, tmdb.CategoryPopular, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Enriched)
	assert.Equal(t, 1, client.detailCalls)

	got, err := db.GetMediaByTmdbID(ctx, 550)
	require.NoError(t, err)
	require.NotNil(t, got.Runtime)
	assert.Equal(t, int32(139), *got.Runtime)

	// a second run finds the row and skips enrichment
	summary, err = eng.SyncCategory(ctx, database.MediaTypeMovie, tmdb.CategoryPopular, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Existing)
	assert.Equal(t, 0, summary.Enriched)
	assert.Equal(t, 1, client.detailCalls)
}

func TestSyncGenres(t *testing.T) {
	client := &mockCatalogClient{
		genres: map[tmdb.MediaType][]tmdb.GenreRef{
			tmdb.MediaTypeMovie: {{ID: 28, Name: "Action"}, {ID: 18, Name: "Drama"}},
			tmdb.MediaTypeTV:    {{ID: 18, Name: "Drama"}, {ID: 35, Name: "Comedy"}},
		},
	}
	eng, db := createTestEngine(t, client)

	require.NoError(t, eng.SyncGenres(context.Background()))

	genres, err := db.ListGenres(context.Background())
	require.NoError(t, err)
	// drama is shared between the two lists and imported once
	assert.Len(t, genres, 3)
}

func TestSyncAll(t *testing.T) {
	client := &mockCatalogClient{
		genres: map[tmdb.MediaType][]tmdb.GenreRef{
			tmdb.MediaTypeMovie: {{ID: 28, Name: "Action"}},
			tmdb.MediaTypeTV:    {{ID: 35, Name: "Comedy"}},
		},
		pages: map[string]*tmdb.Page{
			pageKey(tmdb.MediaTypeMovie, tmdb.CategoryPopular, 1): {
				Page: 1, TotalPages: 1,
				Results: []tmdb.Record{{ID: 603, Title: "The Matrix", GenreIDs: []int64{28}}},
			},
			pageKey(tmdb.MediaTypeTV, tmdb.CategoryPopular, 1): {
				Page: 1, TotalPages: 1,
				Results: []tmdb.Record{{ID: 2316, Name: "The Office", GenreIDs: []int64{35}}},
			},
		},
	}
	eng, db := createTestEngine(t, client)
	ctx := context.Background()

	require.NoError(t, eng.SyncAll(ctx))

	movies, err := db.CountMediaByType(ctx, database.MediaTypeMovie)
	require.NoError(t, err)
	assert.Equal(t, int64(1), movies)
	shows, err := db.CountMediaByType(ctx, database.MediaTypeTV)
	require.NoError(t, err)
	assert.Equal(t, int64(1), shows)

	// genres were synced first, so bare genre ids resolved
	matrix, err := db.GetMediaByTmdbID(ctx, 603)
	require.NoError(t, err)
	require.Len(t, matrix.Genres, 1)
	assert.Equal(t, "Action", matrix.Genres[0].Name)
}
