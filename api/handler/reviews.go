package handler

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/cinelog/cinelog/api/models"
	"github.com/cinelog/cinelog/database"
	"github.com/cinelog/cinelog/reviews"
)

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *Handler) reviewItems(c *gin.Context, list []database.Review) []models.ReviewItem {
	ctx := c.Request.Context()
	userID := UserID(c)

	items := make([]models.ReviewItem, 0, len(list))
	for _, review := range list {
		likes, err := h.reviews.LikeCount(ctx, review.ID)
		if err != nil {
			likes = 0
		}
		liked, _ := h.reviews.HasLiked(ctx, userID, review.ID)
		items = append(items, models.ToReviewItem(review, likes, liked, h.cfg.TMDB))
	}
	return items
}

// ListReviews returns one page of a title's reviews together with its
// rating aggregate.
func (h *Handler) ListReviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	list, total, err := h.reviews.ListForMedia(ctx, id, pageParam(c), reviewPageSize)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}

	summary := models.RatingSummary{Total: total}
	if avg, err := h.reviews.AverageRating(ctx, id); err == nil {
		summary.Average = avg
	}
	if dist, err := h.reviews.RatingDistribution(ctx, id); err == nil {
		summary.Distribution = dist
	}

	c.JSON(http.StatusOK, gin.H{
		"items":   h.reviewItems(c, list),
		"total":   total,
		"page":    pageParam(c),
		"summary": summary,
	})
}

const reviewPageSize = 10

// CreateReview records the caller's rating of a title.
func (h *Handler) CreateReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.reviews.AddReview(c.Request.Context(), UserID(c), id, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrInvalidRating):
			errorResponse(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, reviews.ErrAlreadyReviewed):
			errorResponse(c, http.StatusConflict, err.Error())
		case errors.Is(err, database.ErrNotFound):
			errorResponse(c, http.StatusNotFound, "not found")
		default:
			log.Error("failed to create review", "mediaID", id, "error", err)
			errorResponse(c, http.StatusInternalServerError, "internal error")
		}
		return
	}
	c.JSON(http.StatusCreated, models.ToReviewItem(*review, 0, false, h.cfg.TMDB))
}

// UpdateReview changes the caller's review.
func (h *Handler) UpdateReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.reviews.UpdateReview(c.Request.Context(), UserID(c), id, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrInvalidRating):
			errorResponse(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, reviews.ErrNotOwner):
			errorResponse(c, http.StatusForbidden, err.Error())
		case errors.Is(err, database.ErrNotFound):
			errorResponse(c, http.StatusNotFound, "not found")
		default:
			errorResponse(c, http.StatusInternalServerError, "internal error")
		}
		return
	}
	likes, _ := h.reviews.LikeCount(c.Request.Context(), review.ID)
	c.JSON(http.StatusOK, models.ToReviewItem(*review, likes, false, h.cfg.TMDB))
}

// DeleteReview removes the caller's review.
func (h *Handler) DeleteReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	err := h.reviews.DeleteReview(c.Request.Context(), UserID(c), id)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrNotOwner):
			errorResponse(c, http.StatusForbidden, err.Error())
		case errors.Is(err, database.ErrNotFound):
			errorResponse(c, http.StatusNotFound, "not found")
		default:
			errorResponse(c, http.StatusInternalServerError, "internal error")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// MyReviews returns one page of the caller's reviews.
func (h *Handler) MyReviews(c *gin.Context) {
	list, total, err := h.reviews.ListForUser(c.Request.Context(), UserID(c), pageParam(c), reviewPageSize)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": h.reviewItems(c, list),
		"total": total,
		"page":  pageParam(c),
	})
}

// ToggleLike flips the caller's like on a review.
func (h *Handler) ToggleLike(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	liked, total, err := h.reviews.ToggleLike(c.Request.Context(), UserID(c), id)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrOwnReview):
			errorResponse(c, http.StatusForbidden, err.Error())
		case errors.Is(err, database.ErrNotFound):
			errorResponse(c, http.StatusNotFound, "not found")
		default:
			errorResponse(c, http.StatusInternalServerError, "internal error")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes": total})
}

// ToggleFavorite flips the caller's favorite mark on a title.
func (h *Handler) ToggleFavorite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	favorite, err := h.reviews.ToggleFavorite(c.Request.Context(), UserID(c), id)
	if err != nil {
		notFoundOr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": favorite})
}

// ListFavorites returns one page of the caller's favorites.
func (h *Handler) ListFavorites(c *gin.Context) {
	list, total, err := h.reviews.ListFavorites(c.Request.Context(), UserID(c), pageParam(c), reviewPageSize)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	items := make([]models.FavoriteItem, 0, len(list))
	for _, fav := range list {
		items = append(items, models.ToFavoriteItem(fav, h.cfg.TMDB))
	}
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"page":  pageParam(c),
	})
}
