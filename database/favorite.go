package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Favorite marks a media item as a favorite of one user.
// At most one favorite exists per (user, media) pair.
type Favorite struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;index;uniqueIndex:idx_favorite_user_media"`
	MediaID   uint `gorm:"not null;index;uniqueIndex:idx_favorite_user_media"`
	CreatedAt time.Time

	Media Media
}

// ToggleFavorite creates the favorite if absent and deletes it if present.
// It returns whether the media is a favorite afterwards. A duplicate insert
// caused by a concurrent toggle resolves to the delete branch, so the unique
// constraint stays the final arbiter.
func (c *Client) ToggleFavorite(ctx context.Context, userID, mediaID uint) (bool, error) {
	var existing Favorite
	err := c.db.WithContext(ctx).
		Where("user_id = ? AND media_id = ?", userID, mediaID).
		First(&existing).Error
	if err == nil {
		if err := c.db.WithContext(ctx).Delete(&Favorite{}, existing.ID).Error; err != nil {
			return false, fmt.Errorf("failed to delete favorite: %w", err)
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to look up favorite: %w", err)
	}

	favorite := Favorite{UserID: userID, MediaID: mediaID}
	err = c.db.WithContext(ctx).Create(&favorite).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race against a concurrent toggle; the pair exists now,
		// so this call removes it.
		res := c.db.WithContext(ctx).
			Where("user_id = ? AND media_id = ?", userID, mediaID).
			Delete(&Favorite{})
		if res.Error != nil {
			return false, fmt.Errorf("failed to delete favorite after race: %w", res.Error)
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create favorite: %w", err)
	}
	return true, nil
}

// IsFavorite reports whether the media is in the user's favorites.
func (c *Client) IsFavorite(ctx context.Context, userID, mediaID uint) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&Favorite{}).
		Where("user_id = ? AND media_id = ?", userID, mediaID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}

// ListFavorites returns one page of a user's favorites, newest first.
func (c *Client) ListFavorites(ctx context.Context, userID uint, page, pageSize int) ([]Favorite, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	tx := c.db.WithContext(ctx).Model(&Favorite{}).Where("user_id = ?", userID)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count favorites: %w", err)
	}

	var favorites []Favorite
	err := tx.Preload("Media").
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&favorites).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favorites, total, nil
}
