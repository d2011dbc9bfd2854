package models

import (
	"fmt"
	"strconv"

	"github.com/mergestat/timediff"

	"github.com/cinelog/cinelog/config"
	"github.com/cinelog/cinelog/database"
	"github.com/cinelog/cinelog/tmdb"
)

// Image size presets of the remote image CDN.
const (
	posterSize   = "w500"
	backdropSize = "w1280"
	profileSize  = "w185"
)

// ImageURL builds the CDN URL for an image path. Paths come from the remote
// catalog with a leading slash; an empty path yields an empty URL.
func ImageURL(cfg *config.TMDBConfig, size, path string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", cfg.ImageBaseURL, size, path)
}

// ToMediaItem converts a database.Media to its listing representation.
func ToMediaItem(m database.Media, cfg *config.TMDBConfig) MediaItem {
	item := MediaItem{
		ID:          m.ID,
		TmdbID:      m.TmdbID,
		Title:       m.Title,
		MediaType:   string(m.MediaType),
		PosterURL:   ImageURL(cfg, posterSize, m.PosterPath),
		VoteAverage: m.VoteAverage,
	}
	if m.ReleaseDate != nil {
		item.Year = m.ReleaseDate.Year()
	}
	for _, g := range m.Genres {
		item.Genres = append(item.Genres, g.Name)
	}
	return item
}

// ToMediaItems converts a slice of database.Media to listing items.
func ToMediaItems(items []database.Media, cfg *config.TMDBConfig) []MediaItem {
	result := make([]MediaItem, len(items))
	for i, item := range items {
		result[i] = ToMediaItem(item, cfg)
	}
	return result
}

// ToMediaDetail converts a database.Media with its associations loaded to
// the full detail representation.
func ToMediaDetail(m *database.Media, cfg *config.TMDBConfig) MediaDetail {
	detail := MediaDetail{
		MediaItem:        ToMediaItem(*m, cfg),
		OriginalTitle:    m.OriginalTitle,
		Overview:         m.Overview,
		BackdropURL:      ImageURL(cfg, backdropSize, m.BackdropPath),
		Runtime:          m.Runtime,
		SeasonCount:      m.SeasonCount,
		EpisodeCount:     m.EpisodeCount,
		OriginalLanguage: m.OriginalLanguage,
		VoteCount:        m.VoteCount,
		Popularity:       m.Popularity,
		Cast:             make([]CastMember, 0, len(m.CastMembers)),
		Crew:             make([]CrewMember, 0, len(m.CrewMembers)),
	}
	if m.ReleaseDate != nil {
		detail.ReleaseDate = m.ReleaseDate.Format("2006-01-02")
	}
	for _, cast := range m.CastMembers {
		detail.Cast = append(detail.Cast, CastMember{
			Name:       cast.Name,
			Character:  cast.Character,
			ProfileURL: ImageURL(cfg, profileSize, cast.ProfilePath),
		})
	}
	for _, crew := range m.CrewMembers {
		detail.Crew = append(detail.Crew, CrewMember{
			Name:       crew.Name,
			Job:        crew.Job,
			Department: crew.Department,
		})
	}
	return detail
}

// ToReviewItem converts a database.Review. The like count and liked flag
// are resolved by the caller.
func ToReviewItem(r database.Review, likes int64, liked bool, cfg *config.TMDBConfig) ReviewItem {
	item := ReviewItem{
		ID:         r.ID,
		UserID:     r.UserID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Likes:      int(likes),
		Liked:      liked,
		CreatedAt:  r.CreatedAt,
		CreatedAgo: timediff.TimeDiff(r.CreatedAt),
	}
	if r.Media.ID != 0 {
		media := ToMediaItem(r.Media, cfg)
		item.Media = &media
	}
	return item
}

// ToFavoriteItem converts a database.Favorite with its title loaded.
func ToFavoriteItem(f database.Favorite, cfg *config.TMDBConfig) FavoriteItem {
	return FavoriteItem{
		Media:    ToMediaItem(f.Media, cfg),
		AddedAt:  f.CreatedAt,
		AddedAgo: timediff.TimeDiff(f.CreatedAt),
	}
}

// ToRequestItem converts a database.ContentRequest.
func ToRequestItem(r database.ContentRequest) RequestItem {
	return RequestItem{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		MediaType:   string(r.MediaType),
		Year:        r.Year,
		Description: r.Description,
		Status:      string(r.Status),
		AdminNotes:  r.AdminNotes,
		CreatedAt:   r.CreatedAt,
		CreatedAgo:  timediff.TimeDiff(r.CreatedAt),
	}
}

// ToRemoteResult converts an external search record. Movie and tv payloads
// use different field names for title and date, so both are consulted.
func ToRemoteResult(r tmdb.Record, cfg *config.TMDBConfig) RemoteResult {
	result := RemoteResult{
		TmdbID:      r.ID,
		Title:       r.Title,
		MediaType:   r.MediaType,
		Overview:    r.Overview,
		PosterURL:   ImageURL(cfg, posterSize, r.PosterPath),
		VoteAverage: r.VoteAverage,
	}
	if result.Title == "" {
		result.Title = r.Name
	}
	date := r.ReleaseDate
	if date == "" {
		date = r.FirstAirDate
	}
	if len(date) >= 4 {
		if year, err := strconv.Atoi(date[:4]); err == nil {
			result.Year = year
		}
	}
	return result
}

// ToGenreItems converts the genre list.
func ToGenreItems(genres []database.Genre) []GenreItem {
	result := make([]GenreItem, len(genres))
	for i, g := range genres {
		result[i] = GenreItem{ID: g.ID, Name: g.Name}
	}
	return result
}
