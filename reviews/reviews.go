// Package reviews implements user interactions with catalog titles:
// star ratings with comments, review likes and favorites.
package reviews

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cinelog/cinelog/database"
)

var (
	// ErrInvalidRating is returned when a rating is outside the 1 to 5 range.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrAlreadyReviewed is returned when a user already reviewed the title.
	ErrAlreadyReviewed = errors.New("media already reviewed by user")
	// ErrOwnReview is returned when a user tries to like their own review.
	ErrOwnReview = errors.New("cannot like your own review")
	// ErrNotOwner is returned when a user modifies a review they do not own.
	ErrNotOwner = errors.New("review belongs to another user")
)

const (
	MinRating = 1
	MaxRating = 5
)

// Service bundles review, like and favorite operations on top of the store.
type Service struct {
	db *database.Client
}

func New(db *database.Client) *Service {
	return &Service{db: db}
}

// AddReview records a new rating for a media item. Each user rates a title
// at most once; a second attempt fails with ErrAlreadyReviewed even when it
// races with the first.
func (s *Service) AddReview(ctx context.Context, userID, mediaID uint, rating int, comment string) (*database.Review, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, ErrInvalidRating
	}
	if _, err := s.db.GetMediaByID(ctx, mediaID); err != nil {
		return nil, err
	}

	review := &database.Review{
		UserID:  userID,
		MediaID: mediaID,
		Rating:  rating,
		Comment: comment,
	}
	if err := s.db.CreateReview(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

// UpdateReview changes the rating and comment of an existing review. Only
// the review's author may update it.
func (s *Service) UpdateReview(ctx context.Context, userID, reviewID uint, rating int, comment string) (*database.Review, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, ErrInvalidRating
	}

	review, err := s.db.GetReviewByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrNotOwner
	}

	if err := s.db.UpdateReview(ctx, reviewID, rating, comment); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	review.Rating = rating
	review.Comment = comment
	return review, nil
}

// DeleteReview removes a review together with its likes. Only the review's
// author may delete it.
func (s *Service) DeleteReview(ctx context.Context, userID, reviewID uint) error {
	review, err := s.db.GetReviewByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return ErrNotOwner
	}
	return s.db.DeleteReview(ctx, reviewID)
}

// GetUserReview returns the user's review of a title, or database.ErrNotFound.
func (s *Service) GetUserReview(ctx context.Context, userID, mediaID uint) (*database.Review, error) {
	return s.db.GetReviewByUserMedia(ctx, userID, mediaID)
}

// ListForMedia returns a page of reviews for a title, newest first.
func (s *Service) ListForMedia(ctx context.Context, mediaID uint, page, pageSize int) ([]database.Review, int64, error) {
	return s.db.ListReviewsForMedia(ctx, mediaID, page, pageSize)
}

// ListForUser returns a page of the user's reviews, newest first, with the
// reviewed titles attached.
func (s *Service) ListForUser(ctx context.Context, userID uint, page, pageSize int) ([]database.Review, int64, error) {
	return s.db.ListReviewsForUser(ctx, userID, page, pageSize)
}

// AverageRating returns the mean rating of a title, 0 when it has no reviews.
func (s *Service) AverageRating(ctx context.Context, mediaID uint) (float64, error) {
	return s.db.AverageRating(ctx, mediaID)
}

// RatingDistribution returns the review count per star value, with zeroes
// for unused values.
func (s *Service) RatingDistribution(ctx context.Context, mediaID uint) (map[int]int64, error) {
	return s.db.RatingDistribution(ctx, mediaID)
}

// ToggleLike flips the user's like on a review and returns the new state
// together with the resulting like count. Users cannot like their own
// reviews.
func (s *Service) ToggleLike(ctx context.Context, userID, reviewID uint) (liked bool, total int64, err error) {
	review, err := s.db.GetReviewByID(ctx, reviewID)
	if err != nil {
		return false, 0, err
	}
	if review.UserID == userID {
		return false, 0, ErrOwnReview
	}

	removed, err := s.db.DeleteReviewLike(ctx, userID, reviewID)
	if err != nil {
		return false, 0, fmt.Errorf("failed to remove review like: %w", err)
	}
	if !removed {
		if err := s.db.CreateReviewLike(ctx, userID, reviewID); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, 0, fmt.Errorf("failed to create review like: %w", err)
		}
		liked = true
	}

	total, err = s.db.CountReviewLikes(ctx, reviewID)
	if err != nil {
		return false, 0, err
	}
	return liked, total, nil
}

// LikeCount returns the number of likes on a review.
func (s *Service) LikeCount(ctx context.Context, reviewID uint) (int64, error) {
	return s.db.CountReviewLikes(ctx, reviewID)
}

// HasLiked reports whether the user has liked the given review.
func (s *Service) HasLiked(ctx context.Context, userID, reviewID uint) (bool, error) {
	return s.db.GetReviewLike(ctx, userID, reviewID)
}

// ToggleFavorite flips the user's favorite mark on a title and returns the
// new state.
func (s *Service) ToggleFavorite(ctx context.Context, userID, mediaID uint) (bool, error) {
	if _, err := s.db.GetMediaByID(ctx, mediaID); err != nil {
		return false, err
	}
	return s.db.ToggleFavorite(ctx, userID, mediaID)
}

// IsFavorite reports whether the user has marked the title as a favorite.
func (s *Service) IsFavorite(ctx context.Context, userID, mediaID uint) (bool, error) {
	return s.db.IsFavorite(ctx, userID, mediaID)
}

// ListFavorites returns a page of the user's favorites, newest first, with
// the titles attached.
func (s *Service) ListFavorites(ctx context.Context, userID uint, page, pageSize int) ([]database.Favorite, int64, error) {
	return s.db.ListFavorites(ctx, userID, page, pageSize)
}
