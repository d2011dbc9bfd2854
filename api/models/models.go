package models

import "time"

// MediaItem is the summary representation of a title used in listings.
type MediaItem struct {
	ID          uint     `json:"id"`
	TmdbID      int64    `json:"tmdbId"`
	Title       string   `json:"title"`
	MediaType   string   `json:"mediaType"`
	Year        int      `json:"year,omitempty"`
	PosterURL   string   `json:"posterUrl,omitempty"`
	VoteAverage float64  `json:"voteAverage"`
	Genres      []string `json:"genres,omitempty"`
}

// MediaDetail is the full representation of a title.
type MediaDetail struct {
	MediaItem
	OriginalTitle    string       `json:"originalTitle,omitempty"`
	Overview         string       `json:"overview,omitempty"`
	BackdropURL      string       `json:"backdropUrl,omitempty"`
	ReleaseDate      string       `json:"releaseDate,omitempty"`
	Runtime          *int32       `json:"runtime,omitempty"`
	SeasonCount      *int32       `json:"seasonCount,omitempty"`
	EpisodeCount     *int32       `json:"episodeCount,omitempty"`
	OriginalLanguage string       `json:"originalLanguage,omitempty"`
	VoteCount        int64        `json:"voteCount"`
	Popularity       float64      `json:"popularity"`
	Cast             []CastMember `json:"cast"`
	Crew             []CrewMember `json:"crew"`
	AverageRating    float64      `json:"averageRating"`
	ReviewCount      int64        `json:"reviewCount"`
	Favorite         bool         `json:"favorite"`
}

// CastMember is one billed actor of a title.
type CastMember struct {
	Name       string `json:"name"`
	Character  string `json:"character,omitempty"`
	ProfileURL string `json:"profileUrl,omitempty"`
}

// CrewMember is one credited crew position of a title.
type CrewMember struct {
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department,omitempty"`
}

// ReviewItem is a user review with its like count.
type ReviewItem struct {
	ID         uint       `json:"id"`
	UserID     uint       `json:"userId"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment,omitempty"`
	Likes      int        `json:"likes"`
	Liked      bool       `json:"liked"`
	CreatedAt  time.Time  `json:"createdAt"`
	CreatedAgo string     `json:"createdAgo"`
	Media      *MediaItem `json:"media,omitempty"`
}

// FavoriteItem is one favorited title.
type FavoriteItem struct {
	Media    MediaItem `json:"media"`
	AddedAt  time.Time `json:"addedAt"`
	AddedAgo string    `json:"addedAgo"`
}

// RequestItem is a content request.
type RequestItem struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"userId"`
	Title       string    `json:"title"`
	MediaType   string    `json:"mediaType,omitempty"`
	Year        *int      `json:"year,omitempty"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	AdminNotes  string    `json:"adminNotes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	CreatedAgo  string    `json:"createdAgo"`
}

// RemoteResult is one search hit from the external catalog. It carries no
// local id; a missing title can be turned into a content request.
type RemoteResult struct {
	TmdbID      int64   `json:"tmdbId"`
	Title       string  `json:"title"`
	MediaType   string  `json:"mediaType"`
	Year        int     `json:"year,omitempty"`
	Overview    string  `json:"overview,omitempty"`
	PosterURL   string  `json:"posterUrl,omitempty"`
	VoteAverage float64 `json:"voteAverage"`
	InCatalog   bool    `json:"inCatalog"`
}

// GenreItem is one catalog genre.
type GenreItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// StatsResponse summarizes the catalog.
type StatsResponse struct {
	Movies        int64       `json:"movies"`
	Shows         int64       `json:"shows"`
	Reviews       int64       `json:"reviews"`
	PopularMovies []MediaItem `json:"popularMovies"`
	PopularShows  []MediaItem `json:"popularShows"`
}

// RatingSummary is the review aggregate of a title.
type RatingSummary struct {
	Average      float64       `json:"average"`
	Total        int64         `json:"total"`
	Distribution map[int]int64 `json:"distribution"`
}

// PagedResponse wraps a result page.
type PagedResponse[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	HasNext bool  `json:"hasNext"`
}
