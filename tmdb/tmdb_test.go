package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinelog/cinelog/config"
)

func testConfig(baseURL string) *config.TMDBConfig {
	return &config.TMDBConfig{
		APIKey:   "test-api-key",
		BaseURL:  baseURL,
		Language: "en-US",
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.TMDBConfig
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     testConfig("http://localhost:3000"),
			wantErr: false,
		},
		{
			name:    "invalid base URL",
			cfg:     testConfig("://invalid-url"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, client)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, client)
				assert.NotNil(t, client.httpClient)
			}
		})
	}
}

func TestClient_ListByCategory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/movie/popular", r.URL.Path)
		assert.Equal(t, "test-api-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "en-US", r.URL.Query().Get("language"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))

		w.Header().Set("Content-Type", "application/json")
		page := Page{
			Page:       2,
			TotalPages: 5,
			Results: []Record{
				{ID: 603, Title: "The Matrix", VoteAverage: 8.2, GenreIDs: []int64{28, 878}},
				{ID: 680, Title: "Pulp Fiction", VoteAverage: 8.5},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(page))
	}))
	defer server.Close()

	client, err := New(testConfig(server.URL))
	require.NoError(t, err)

	page, err := client.ListByCategory(context.Background(), MediaTypeMovie, CategoryPopular, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.TotalPages)
	require.Len(t, page.Results, 2)
	assert.Equal(t, int64(603), page.Results[0].ID)
	assert.Equal(t, "The Matrix", page.Results[0].Title)
	assert.Equal(t, []int64{28, 878}, page.Results[0].GenreIDs)
}

func TestClient_Details(t *testing.T) {
	runtime := int32(136)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/603", r.URL.Path)
		assert.Equal(t, "credits,videos", r.URL.Query().Get("append_to_response"))

		w.Header().Set("Content-Type", "application/json")
		rec := Record{
			ID:      603,
			Title:   "The Matrix",
			Runtime: &runtime,
			Genres:  []GenreRef{{ID: 28, Name: "Action"}},
			Credits: &Credits{
				Cast: []CastMember{{ID: 6384, Name: "Keanu Reeves", Character: "Neo", Order: 0}},
				Crew: []CrewMember{{ID: 9339, Name: "Lana Wachowski", Job: "Director", Department: "Directing"}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(rec))
	}))
	defer server.Close()

	client, err := New(testConfig(server.URL))
	require.NoError(t, err)

	rec, err := client.Details(context.Background(), MediaTypeMovie, 603)
	require.NoError(t, err)
	require.NotNil(t, rec.Runtime)
	assert.Equal(t, int32(136), *rec.Runtime)
	require.NotNil(t, rec.Credits)
	assert.Len(t, rec.Credits.Cast, 1)
	assert.Equal(t, "Director", rec.Credits.Crew[0].Job)
	assert.Equal(t, "Action", rec.Genres[0].Name)
}

func TestClient_Genres(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/genre/tv/list", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{"genres":[{"id":18,"name":"Drama"},{"id":35,"name":"Comedy"}]}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client, err := New(testConfig(server.URL))
	require.NoError(t, err)

	genres, err := client.Genres(context.Background(), MediaTypeTV)
	require.NoError(t, err)
	require.Len(t, genres, 2)
	assert.Equal(t, "Drama", genres[0].Name)
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := New(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.ListByCategory(context.Background(), MediaTypeMovie, CategoryPopular, 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_SearchMulti(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/multi", r.URL.Path)
		assert.Equal(t, "matrix", r.URL.Query().Get("query"))

		w.Header().Set("Content-Type", "application/json")
		page := Page{
			Page:       1,
			TotalPages: 1,
			Results:    []Record{{ID: 603, Title: "The Matrix", MediaType: "movie"}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(page))
	}))
	defer server.Close()

	client, err := New(testConfig(server.URL))
	require.NoError(t, err)

	page, err := client.SearchMulti(context.Background(), "matrix", 1)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "movie", page.Results[0].MediaType)
}
