package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cinelog/cinelog/config"
	"github.com/cinelog/cinelog/database"
	"github.com/cinelog/cinelog/tmdb"
)

// mockCatalogClient is a scriptable CatalogClient. Unset fields fail the
// call, so each test states exactly what it expects the engine to fetch.
type mockCatalogClient struct {
	pages   map[string]*tmdb.Page
	details map[int64]*tmdb.Record
	genres  map[tmdb.MediaType][]tmdb.GenreRef

	mu          sync.Mutex
	listCalls   int
	detailCalls int
}

func pageKey(mediaType tmdb.MediaType, category tmdb.Category, page int) string {
	return fmt.Sprintf("%s/%s/%d", mediaType, category, page)
}

func (m *mockCatalogClient) ListByCategory(_ context.Context, mediaType tmdb.MediaType, category tmdb.Category, page int) (*tmdb.Page, error) {
	m.mu.Lock()
	m.listCalls++
	m.mu.Unlock()
	result, ok := m.pages[pageKey(mediaType, category, page)]
	if !ok {
		return nil, fmt.Errorf("no page scripted for %s/%s page %d", mediaType, category, page)
	}
	return result, nil
}

func (m *mockCatalogClient) Details(_ context.Context, _ tmdb.MediaType, id int64) (*tmdb.Record, error) {
	m.mu.Lock()
	m.detailCalls++
	m.mu.Unlock()
	rec, ok := m.details[id]
	if !ok {
		return nil, fmt.Errorf("no details scripted for id %d", id)
	}
	return rec, nil
}

func (m *mockCatalogClient) Genres(_ context.Context, mediaType tmdb.MediaType) ([]tmdb.GenreRef, error) {
	refs, ok := m.genres[mediaType]
	if !ok {
		return nil, fmt.Errorf("no genres scripted for %s", mediaType)
	}
	return refs, nil
}

func testSyncConfig() *config.Config {
	return &config.Config{
		Sync: &config.SyncConfig{
			Interval:   24,
			MoviePages: 1,
			TVPages:    1,
		},
	}
}

func createTestEngine(t *testing.T, client CatalogClient) (*Engine, *database.Client) {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	eng, err := New(testSyncConfig(), db, client, false)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = eng.Close()
	})
	return eng, db
}
