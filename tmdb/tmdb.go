package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cinelog/cinelog/config"
)

// MediaType is the remote catalog's media type discriminator.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// Category is a paginated listing endpoint of the remote catalog.
type Category string

const (
	CategoryPopular    Category = "popular"
	CategoryTopRated   Category = "top_rated"
	CategoryNowPlaying Category = "now_playing"
)

// Client is a thin wrapper around the TMDB HTTP API. It performs no retries;
// callers decide what a failed call means for their unit of work.
type Client struct {
	cfg        *config.TMDBConfig
	httpClient *http.Client
	baseURL    *url.URL
}

// New creates a new TMDB client from the given configuration.
func New(cfg *config.TMDBConfig) (*Client, error) {
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid tmdb base URL: %w", err)
	}

	return &Client{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// GenreRef is a genre as the remote catalog reports it.
type GenreRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CastMember is a cast credit embedded in a detail response.
type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// CrewMember is a crew credit embedded in a detail response.
type CrewMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

// Credits is the combined cast and crew listing of a title.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Record is a raw catalog record. Movie and tv payloads use different field
// names for the same concepts (title/name, release_date/first_air_date), so
// both sets are present and the mapping layer picks per media type.
type Record struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Name             string     `json:"name"`
	OriginalTitle    string     `json:"original_title"`
	OriginalName     string     `json:"original_name"`
	Overview         string     `json:"overview"`
	ReleaseDate      string     `json:"release_date"`
	FirstAirDate     string     `json:"first_air_date"`
	PosterPath       string     `json:"poster_path"`
	BackdropPath     string     `json:"backdrop_path"`
	VoteAverage      float64    `json:"vote_average"`
	VoteCount        int64      `json:"vote_count"`
	Popularity       float64    `json:"popularity"`
	OriginalLanguage string     `json:"original_language"`
	Runtime          *int32     `json:"runtime"`
	NumberOfSeasons  *int32     `json:"number_of_seasons"`
	NumberOfEpisodes *int32     `json:"number_of_episodes"`
	MediaType        string     `json:"media_type"`
	GenreIDs         []int64    `json:"genre_ids"`
	Genres           []GenreRef `json:"genres"`
	Credits          *Credits   `json:"credits"`
}

// Page is a paginated listing response.
type Page struct {
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
	Results    []Record `json:"results"`
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.cfg.APIKey)
	params.Set("language", c.cfg.Language)

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL.String(), endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request to %s failed with status %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ListByCategory fetches one page of a category listing for a media type.
func (c *Client) ListByCategory(ctx context.Context, mediaType MediaType, category Category, page int) (*Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var result Page
	if err := c.get(ctx, fmt.Sprintf("%s/%s", mediaType, category), params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Details fetches the detail record of a title with its credits embedded.
func (c *Client) Details(ctx context.Context, mediaType MediaType, id int64) (*Record, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits,videos")

	var result Record
	if err := c.get(ctx, fmt.Sprintf("%s/%d", mediaType, id), params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchMulti searches movies and tv shows in one call.
func (c *Client) SearchMulti(ctx context.Context, query string, page int) (*Page, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	var result Page
	if err := c.get(ctx, "search/multi", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Genres fetches the genre list for a media type.
func (c *Client) Genres(ctx context.Context, mediaType MediaType) ([]GenreRef, error) {
	var result struct {
		Genres []GenreRef `json:"genres"`
	}
	if err := c.get(ctx, fmt.Sprintf("genre/%s/list", mediaType), nil, &result); err != nil {
		return nil, err
	}
	return result.Genres, nil
}
