package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// MediaType represents the type of media, either movie or TV show.
type MediaType string

const (
	// MediaTypeMovie represents movies.
	MediaTypeMovie MediaType = "movie"
	// MediaTypeTV represents TV shows.
	MediaTypeTV MediaType = "tv"
)

// Genre is reference data created on first sight during ingestion.
type Genre struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	TmdbID    *int64 `gorm:"uniqueIndex"`
	CreatedAt time.Time
}

// Media represents a movie or TV show mirrored from the external catalog.
// One row per distinct external id; MediaType is immutable after creation.
type Media struct {
	ID               uint  `gorm:"primaryKey"`
	TmdbID           int64 `gorm:"uniqueIndex;not null"`
	Title            string
	OriginalTitle    string
	Overview         string
	ReleaseDate      *time.Time `gorm:"index"`
	PosterPath       string
	BackdropPath     string
	MediaType        MediaType `gorm:"not null;index"`
	Runtime          *int32
	VoteAverage      float64
	VoteCount        int64
	Popularity       float64 `gorm:"index"`
	OriginalLanguage string
	SeasonCount      *int32
	EpisodeCount     *int32
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Genres      []Genre    `gorm:"many2many:media_genres;"`
	CastMembers []Cast     `gorm:"constraint:OnDelete:CASCADE;"`
	CrewMembers []Crew     `gorm:"constraint:OnDelete:CASCADE;"`
	Favorites   []Favorite `gorm:"constraint:OnDelete:CASCADE;"`
	Reviews     []Review   `gorm:"constraint:OnDelete:CASCADE;"`
}

func (Media) TableName() string {
	return "media"
}

// Cast is a cast credit belonging to exactly one Media.
type Cast struct {
	ID           uint `gorm:"primaryKey"`
	MediaID      uint `gorm:"not null;index"`
	Name         string
	Character    string
	ProfilePath  string
	TmdbPersonID *int64
	Position     int `gorm:"not null;default:0"`
	CreatedAt    time.Time
}

// Crew is a crew credit belonging to exactly one Media.
type Crew struct {
	ID           uint `gorm:"primaryKey"`
	MediaID      uint `gorm:"not null;index"`
	Name         string
	Job          string
	Department   string
	ProfilePath  string
	TmdbPersonID *int64
	CreatedAt    time.Time
}

// GetMediaByID retrieves a media item with its genres and credits.
// Cast members are ordered by billing position.
func (c *Client) GetMediaByID(ctx context.Context, id uint) (*Media, error) {
	var media Media
	err := c.db.WithContext(ctx).
		Preload("Genres").
		Preload("CastMembers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("CrewMembers").
		First(&media, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media by id: %w", err)
	}
	return &media, nil
}

// GetMediaByTmdbID retrieves a media item by its external id.
func (c *Client) GetMediaByTmdbID(ctx context.Context, tmdbID int64) (*Media, error) {
	var media Media
	err := c.db.WithContext(ctx).Preload("Genres").Where("tmdb_id = ?", tmdbID).First(&media).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media by tmdb id: %w", err)
	}
	return &media, nil
}

// CreateMedia inserts a new media row. A unique constraint violation on the
// external id surfaces as gorm.ErrDuplicatedKey.
func (c *Client) CreateMedia(ctx context.Context, media *Media) error {
	return c.db.WithContext(ctx).Create(media).Error
}

// UpdateMediaDetails applies detail-level fields that are only available from
// the detail endpoint. Core scalar fields are left untouched.
func (c *Client) UpdateMediaDetails(ctx context.Context, mediaID uint, runtime, seasonCount, episodeCount *int32) error {
	updates := map[string]any{}
	if runtime != nil {
		updates["runtime"] = *runtime
	}
	if seasonCount != nil {
		updates["season_count"] = *seasonCount
	}
	if episodeCount != nil {
		updates["episode_count"] = *episodeCount
	}
	if len(updates) == 0 {
		return nil
	}
	return c.db.WithContext(ctx).Model(&Media{}).Where("id = ?", mediaID).Updates(updates).Error
}

// SetMediaGenres replaces the genre association of a media item.
func (c *Client) SetMediaGenres(ctx context.Context, media *Media, genres []Genre) error {
	if err := c.db.WithContext(ctx).Model(media).Association("Genres").Replace(genres); err != nil {
		return fmt.Errorf("failed to set media genres: %w", err)
	}
	return nil
}

// DeleteMedia removes a media item together with its credits, favorites,
// reviews and review likes.
func (c *Client) DeleteMedia(ctx context.Context, mediaID uint) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reviewIDs []uint
		if err := tx.Model(&Review{}).Where("media_id = ?", mediaID).Pluck("id", &reviewIDs).Error; err != nil {
			return err
		}
		if len(reviewIDs) > 0 {
			if err := tx.Where("review_id IN ?", reviewIDs).Delete(&ReviewLike{}).Error; err != nil {
				return err
			}
		}
		for _, model := range []any{&Review{}, &Favorite{}, &Cast{}, &Crew{}} {
			if err := tx.Where("media_id = ?", mediaID).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM media_genres WHERE media_id = ?", mediaID).Error; err != nil {
			return err
		}
		return tx.Delete(&Media{}, mediaID).Error
	})
}

// ReplaceCredits replaces all cast and crew rows of a media item in a single
// transaction, so an observer never sees a partially rebuilt credit set.
func (c *Client) ReplaceCredits(ctx context.Context, mediaID uint, cast []Cast, crew []Crew) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("media_id = ?", mediaID).Delete(&Cast{}).Error; err != nil {
			return fmt.Errorf("failed to delete cast: %w", err)
		}
		if err := tx.Where("media_id = ?", mediaID).Delete(&Crew{}).Error; err != nil {
			return fmt.Errorf("failed to delete crew: %w", err)
		}
		for i := range cast {
			cast[i].MediaID = mediaID
		}
		for i := range crew {
			crew[i].MediaID = mediaID
		}
		if len(cast) > 0 {
			if err := tx.Create(&cast).Error; err != nil {
				return fmt.Errorf("failed to create cast: %w", err)
			}
		}
		if len(crew) > 0 {
			if err := tx.Create(&crew).Error; err != nil {
				return fmt.Errorf("failed to create crew: %w", err)
			}
		}
		return nil
	})
}

// GetOrCreateGenre resolves a genre by external id, creating it on first sight.
// An insert race on the unique external id resolves to the existing row.
func (c *Client) GetOrCreateGenre(ctx context.Context, tmdbID int64, name string) (*Genre, error) {
	var genre Genre
	err := c.db.WithContext(ctx).Where("tmdb_id = ?", tmdbID).First(&genre).Error
	if err == nil {
		return &genre, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up genre: %w", err)
	}

	genre = Genre{Name: name, TmdbID: &tmdbID}
	err = c.db.WithContext(ctx).Create(&genre).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		var existing Genre
		if err := c.db.WithContext(ctx).Where("tmdb_id = ? OR name = ?", tmdbID, name).First(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to resolve genre after duplicate insert: %w", err)
		}
		return &existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create genre: %w", err)
	}
	return &genre, nil
}

// GetGenresByTmdbIDs returns the genres matching the given external ids.
// Unknown ids are silently dropped.
func (c *Client) GetGenresByTmdbIDs(ctx context.Context, tmdbIDs []int64) ([]Genre, error) {
	if len(tmdbIDs) == 0 {
		return nil, nil
	}
	var genres []Genre
	if err := c.db.WithContext(ctx).Where("tmdb_id IN ?", tmdbIDs).Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to get genres by tmdb ids: %w", err)
	}
	return genres, nil
}

// ListGenres returns all genres ordered by name.
func (c *Client) ListGenres(ctx context.Context) ([]Genre, error) {
	var genres []Genre
	if err := c.db.WithContext(ctx).Order("name ASC").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

// GetSimilarMedia returns up to limit media items of the same type sharing at
// least one genre with the given media, excluding the media itself.
func (c *Client) GetSimilarMedia(ctx context.Context, media *Media, limit int) ([]Media, error) {
	var similar []Media
	err := c.db.WithContext(ctx).
		Distinct("media.*").
		Joins("JOIN media_genres mg ON mg.media_id = media.id").
		Joins("JOIN media_genres own ON own.genre_id = mg.genre_id AND own.media_id = ?", media.ID).
		Where("media.media_type = ? AND media.id != ?", media.MediaType, media.ID).
		Limit(limit).
		Find(&similar).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get similar media: %w", err)
	}
	return similar, nil
}
