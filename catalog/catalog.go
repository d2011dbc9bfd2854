// Package catalog implements the read side of the media catalog: filtered
// listings, search, detail lookups and aggregate statistics.
package catalog

import (
	"context"
	"errors"
	"strconv"

	"github.com/ccoveille/go-safecast"

	"github.com/cinelog/cinelog/database"
)

const (
	// DefaultPageSize is the number of titles per listing page.
	DefaultPageSize = 20
	// similarLimit caps the number of related titles returned per lookup.
	similarLimit = 6
	// popularLimit caps the number of titles in the popularity highlights.
	popularLimit = 10
)

// Service answers catalog queries against the local store.
type Service struct {
	db *database.Client
}

func New(db *database.Client) *Service {
	return &Service{db: db}
}

// ListParams carries the raw, user supplied listing filters. All fields are
// optional; values that fail to parse are ignored rather than rejected.
type ListParams struct {
	Genre     string
	Year      string
	Search    string
	MinRating string
	Sort      string
	Page      string
}

// Page is one page of catalog listing results.
type Page struct {
	Items    []database.Media
	Total    int64
	Page     int
	PageSize int
	HasNext  bool
}

// listingSorts is the set of orderings accepted for type listings.
var listingSorts = map[string]database.MediaSort{
	string(database.SortRatingDesc):      database.SortRatingDesc,
	string(database.SortPopularityDesc):  database.SortPopularityDesc,
	string(database.SortReleaseDateDesc): database.SortReleaseDateDesc,
	string(database.SortReleaseDateAsc):  database.SortReleaseDateAsc,
	string(database.SortTitleAsc):        database.SortTitleAsc,
	string(database.SortTitleDesc):       database.SortTitleDesc,
}

// ListByType returns one page of titles of the given type, with the params'
// filters applied. Unknown sort values fall back to rating, best first.
func (s *Service) ListByType(ctx context.Context, mediaType database.MediaType, params ListParams) (*Page, error) {
	filter := database.MediaFilter{
		MediaType: mediaType,
		Search:    params.Search,
	}
	if id, ok := parseUint(params.Genre); ok {
		filter.GenreID = &id
	}
	if year, ok := parseInt(params.Year); ok {
		filter.Year = &year
	}
	if min, ok := parseInt(params.MinRating); ok && min >= 1 && min <= 5 {
		filter.MinRating = &min
	}

	sort, ok := listingSorts[params.Sort]
	if !ok {
		sort = database.SortRatingDesc
	}

	return s.list(ctx, filter, sort, params.Page)
}

// SearchParams carries the raw, user supplied search filters. Like
// ListParams, values that fail to parse are ignored.
type SearchParams struct {
	Query string
	Type  string
	Year  string
	Sort  string
	Page  string
}

// Search finds titles whose title or overview matches the query, optionally
// narrowed to one media type and release year. An empty query yields an
// empty page. Unknown sort values fall back to popularity, best first.
func (s *Service) Search(ctx context.Context, params SearchParams) (*Page, error) {
	if params.Query == "" {
		return &Page{Items: []database.Media{}, Page: 1, PageSize: DefaultPageSize}, nil
	}
	filter := database.MediaFilter{
		Search:         params.Query,
		SearchOverview: true,
	}
	switch mediaType := database.MediaType(params.Type); mediaType {
	case database.MediaTypeMovie, database.MediaTypeTV:
		filter.MediaType = mediaType
	}
	if year, ok := parseInt(params.Year); ok {
		filter.Year = &year
	}

	sort, ok := listingSorts[params.Sort]
	if !ok {
		sort = database.SortPopularityDesc
	}
	return s.list(ctx, filter, sort, params.Page)
}

func (s *Service) list(ctx context.Context, filter database.MediaFilter, sort database.MediaSort, rawPage string) (*Page, error) {
	page := 1
	if p, ok := parseInt(rawPage); ok && p > 0 {
		page = p
	}

	items, total, hasNext, err := s.db.ListMedia(ctx, filter, sort, page, DefaultPageSize)
	if err != nil {
		return nil, err
	}
	return &Page{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: DefaultPageSize,
		HasNext:  hasNext,
	}, nil
}

// GetMedia returns a title with its genres and credits attached.
func (s *Service) GetMedia(ctx context.Context, id uint) (*database.Media, error) {
	return s.db.GetMediaByID(ctx, id)
}

// InCatalog reports whether a title with the given external id is already
// mirrored locally.
func (s *Service) InCatalog(ctx context.Context, tmdbID int64) (bool, error) {
	_, err := s.db.GetMediaByTmdbID(ctx, tmdbID)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Similar returns titles of the same type sharing at least one genre with
// the given one.
func (s *Service) Similar(ctx context.Context, media *database.Media) ([]database.Media, error) {
	return s.db.GetSimilarMedia(ctx, media, similarLimit)
}

// Genres returns all known genres, sorted by name.
func (s *Service) Genres(ctx context.Context) ([]database.Genre, error) {
	return s.db.ListGenres(ctx)
}

// Years returns the distinct release years present for a media type, newest
// first.
func (s *Service) Years(ctx context.Context, mediaType database.MediaType) ([]int, error) {
	return s.db.ListReleaseYears(ctx, mediaType)
}

// Stats summarizes the catalog contents.
type Stats struct {
	Movies        int64
	Shows         int64
	Reviews       int64
	PopularMovies []database.Media
	PopularShows  []database.Media
}

// Stats returns catalog wide counts and the current popularity highlights
// of both media types.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	movies, err := s.db.CountMediaByType(ctx, database.MediaTypeMovie)
	if err != nil {
		return nil, err
	}
	shows, err := s.db.CountMediaByType(ctx, database.MediaTypeTV)
	if err != nil {
		return nil, err
	}
	reviews, err := s.db.CountReviews(ctx)
	if err != nil {
		return nil, err
	}
	popularMovies, err := s.db.MostPopular(ctx, database.MediaTypeMovie, popularLimit)
	if err != nil {
		return nil, err
	}
	popularShows, err := s.db.MostPopular(ctx, database.MediaTypeTV, popularLimit)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Movies:        movies,
		Shows:         shows,
		Reviews:       reviews,
		PopularMovies: popularMovies,
		PopularShows:  popularShows,
	}, nil
}

func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseUint(s string) (uint, bool) {
	v, ok := parseInt(s)
	if !ok || v < 0 {
		return 0, false
	}
	u, err := safecast.ToUint(v)
	if err != nil {
		return 0, false
	}
	return u, true
}
