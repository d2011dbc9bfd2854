package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Review is a user's 1-5 star rating with an optional comment for one media
// item. A user rates each title at most once.
type Review struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;index;uniqueIndex:idx_review_user_media"`
	MediaID   uint `gorm:"not null;index;uniqueIndex:idx_review_user_media"`
	Rating    int  `gorm:"not null"`
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time

	Media Media
	Likes []ReviewLike `gorm:"constraint:OnDelete:CASCADE;"`
}

// ReviewLike records that a user liked a review, at most once per pair.
type ReviewLike struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;index;uniqueIndex:idx_review_like_user_review"`
	ReviewID  uint `gorm:"not null;index;uniqueIndex:idx_review_like_user_review"`
	CreatedAt time.Time
}

// CreateReview inserts a new review. A unique constraint violation on the
// (user, media) pair surfaces as gorm.ErrDuplicatedKey.
func (c *Client) CreateReview(ctx context.Context, review *Review) error {
	return c.db.WithContext(ctx).Create(review).Error
}

// GetReviewByID retrieves one review.
func (c *Client) GetReviewByID(ctx context.Context, id uint) (*Review, error) {
	var review Review
	err := c.db.WithContext(ctx).First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &review, nil
}

// GetReviewByUserMedia retrieves the user's review for a media item.
func (c *Client) GetReviewByUserMedia(ctx context.Context, userID, mediaID uint) (*Review, error) {
	var review Review
	err := c.db.WithContext(ctx).
		Where("user_id = ? AND media_id = ?", userID, mediaID).
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &review, nil
}

// UpdateReview updates the rating and comment of a review.
func (c *Client) UpdateReview(ctx context.Context, reviewID uint, rating int, comment string) error {
	return c.db.WithContext(ctx).Model(&Review{}).
		Where("id = ?", reviewID).
		Updates(map[string]any{"rating": rating, "comment": comment}).Error
}

// DeleteReview removes a review and its likes.
func (c *Client) DeleteReview(ctx context.Context, reviewID uint) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", reviewID).Delete(&ReviewLike{}).Error; err != nil {
			return fmt.Errorf("failed to delete review likes: %w", err)
		}
		return tx.Delete(&Review{}, reviewID).Error
	})
}

// ListReviewsForMedia returns one page of a media item's reviews, newest first.
func (c *Client) ListReviewsForMedia(ctx context.Context, mediaID uint, page, pageSize int) ([]Review, int64, error) {
	return c.listReviews(ctx, c.db.WithContext(ctx).Model(&Review{}).Where("media_id = ?", mediaID), false, page, pageSize)
}

// ListReviewsForUser returns one page of a user's reviews, newest first.
func (c *Client) ListReviewsForUser(ctx context.Context, userID uint, page, pageSize int) ([]Review, int64, error) {
	return c.listReviews(ctx, c.db.WithContext(ctx).Model(&Review{}).Where("user_id = ?", userID), true, page, pageSize)
}

func (c *Client) listReviews(ctx context.Context, tx *gorm.DB, withMedia bool, page, pageSize int) ([]Review, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	if withMedia {
		tx = tx.Preload("Media")
	}

	var reviews []Review
	err := tx.Preload("Likes").
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, total, nil
}

// AverageRating returns the arithmetic mean of all ratings for a media item,
// or 0 if none exist. Always computed on demand.
func (c *Client) AverageRating(ctx context.Context, mediaID uint) (float64, error) {
	var avg float64
	err := c.db.WithContext(ctx).Model(&Review{}).
		Where("media_id = ?", mediaID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute average rating: %w", err)
	}
	return avg, nil
}

// RatingDistribution returns the review count per score from 1 to 5.
func (c *Client) RatingDistribution(ctx context.Context, mediaID uint) (map[int]int64, error) {
	type bucket struct {
		Rating int
		Count  int64
	}
	var buckets []bucket
	err := c.db.WithContext(ctx).Model(&Review{}).
		Where("media_id = ?", mediaID).
		Select("rating, COUNT(*) AS count").
		Group("rating").
		Scan(&buckets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute rating distribution: %w", err)
	}

	distribution := make(map[int]int64, 5)
	for score := 1; score <= 5; score++ {
		distribution[score] = 0
	}
	for _, b := range buckets {
		distribution[b.Rating] = b.Count
	}
	return distribution, nil
}

// CountReviews returns the total number of reviews in the store.
func (c *Client) CountReviews(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&Review{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}

// CreateReviewLike inserts a like. A duplicate (user, review) pair surfaces
// as gorm.ErrDuplicatedKey.
func (c *Client) CreateReviewLike(ctx context.Context, userID, reviewID uint) error {
	return c.db.WithContext(ctx).Create(&ReviewLike{UserID: userID, ReviewID: reviewID}).Error
}

// DeleteReviewLike removes a like. It reports whether a row was deleted.
func (c *Client) DeleteReviewLike(ctx context.Context, userID, reviewID uint) (bool, error) {
	res := c.db.WithContext(ctx).
		Where("user_id = ? AND review_id = ?", userID, reviewID).
		Delete(&ReviewLike{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete review like: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// GetReviewLike reports whether the user has liked the review.
func (c *Client) GetReviewLike(ctx context.Context, userID, reviewID uint) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&ReviewLike{}).
		Where("user_id = ? AND review_id = ?", userID, reviewID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check review like: %w", err)
	}
	return count > 0, nil
}

// CountReviewLikes returns the number of likes on a review.
func (c *Client) CountReviewLikes(ctx context.Context, reviewID uint) (int64, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&ReviewLike{}).
		Where("review_id = ?", reviewID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count review likes: %w", err)
	}
	return count, nil
}
