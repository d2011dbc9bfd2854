package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// MediaSort selects the ordering of a media listing. All orderings are
// tie-broken by primary key so pagination stays stable.
type MediaSort string

const (
	SortRatingDesc      MediaSort = "-vote_average"
	SortReleaseDateDesc MediaSort = "-release_date"
	SortReleaseDateAsc  MediaSort = "release_date"
	SortTitleAsc        MediaSort = "title"
	SortTitleDesc       MediaSort = "-title"
	SortPopularityDesc  MediaSort = "-popularity"
)

// MediaFilter holds the optional filters of a media listing. Filters compose
// with logical AND; zero values are not applied.
type MediaFilter struct {
	MediaType MediaType
	GenreID   *uint
	Year      *int
	// Search matches title and original title. With SearchOverview set it
	// also matches the overview text.
	Search         string
	SearchOverview bool
	// MinRating is the user-facing 1-5 scale. Star band n starts at
	// vote_average 2*(n-1), so a five star filter matches 8.0 and up.
	MinRating *int
}

var sortClauses = map[MediaSort]string{
	SortRatingDesc:      "vote_average DESC, id ASC",
	SortReleaseDateDesc: "release_date DESC, id ASC",
	SortReleaseDateAsc:  "release_date ASC, id ASC",
	SortTitleAsc:        "title ASC, id ASC",
	SortTitleDesc:       "title DESC, id ASC",
	SortPopularityDesc:  "popularity DESC, id ASC",
}

// ListMedia returns one page of media matching the filter, the total match
// count and whether a further page exists.
func (c *Client) ListMedia(ctx context.Context, filter MediaFilter, sort MediaSort, page, pageSize int) ([]Media, int64, bool, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	tx := c.mediaQuery(ctx, filter)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, false, fmt.Errorf("failed to count media: %w", err)
	}

	order, ok := sortClauses[sort]
	if !ok {
		order = sortClauses[SortRatingDesc]
	}

	var items []Media
	err := tx.Preload("Genres").
		Order(order).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to list media: %w", err)
	}

	hasNext := int64(page)*int64(pageSize) < total
	return items, total, hasNext, nil
}

func (c *Client) mediaQuery(ctx context.Context, filter MediaFilter) *gorm.DB {
	tx := c.db.WithContext(ctx).Model(&Media{})

	if filter.MediaType != "" {
		tx = tx.Where("media.media_type = ?", filter.MediaType)
	}
	if filter.GenreID != nil {
		tx = tx.Where("media.id IN (?)",
			c.db.Table("media_genres").Select("media_id").Where("genre_id = ?", *filter.GenreID))
	}
	if filter.Year != nil {
		start := time.Date(*filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(1, 0, 0)
		tx = tx.Where("media.release_date >= ? AND media.release_date < ?", start, end)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		if filter.SearchOverview {
			tx = tx.Where("media.title LIKE ? OR media.original_title LIKE ? OR media.overview LIKE ?",
				pattern, pattern, pattern)
		} else {
			tx = tx.Where("media.title LIKE ? OR media.original_title LIKE ?", pattern, pattern)
		}
	}
	if filter.MinRating != nil {
		tx = tx.Where("media.vote_average >= ?", float64(*filter.MinRating-1)*2)
	}

	return tx
}

// CountMediaByType returns the number of media rows of the given type.
func (c *Client) CountMediaByType(ctx context.Context, mediaType MediaType) (int64, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&Media{}).Where("media_type = ?", mediaType).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count media: %w", err)
	}
	return count, nil
}

// MostPopular returns the most popular media of a type, popularity descending.
func (c *Client) MostPopular(ctx context.Context, mediaType MediaType, limit int) ([]Media, error) {
	var items []Media
	err := c.db.WithContext(ctx).
		Where("media_type = ? AND popularity > 0", mediaType).
		Order("popularity DESC, id ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get most popular media: %w", err)
	}
	return items, nil
}

// ListReleaseYears returns the distinct release years of a media type,
// newest first.
func (c *Client) ListReleaseYears(ctx context.Context, mediaType MediaType) ([]int, error) {
	var years []int
	err := c.db.WithContext(ctx).Model(&Media{}).
		Where("media_type = ? AND release_date IS NOT NULL", mediaType).
		Distinct().
		Order("year DESC").
		Pluck("CAST(strftime('%Y', release_date) AS INTEGER) AS year", &years).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list release years: %w", err)
	}
	return years, nil
}
