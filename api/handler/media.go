package handler

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/cinelog/cinelog/api/models"
	"github.com/cinelog/cinelog/catalog"
	"github.com/cinelog/cinelog/database"
)

func listParams(c *gin.Context) catalog.ListParams {
	return catalog.ListParams{
		Genre:     c.Query("genre"),
		Year:      c.Query("year"),
		Search:    c.Query("search"),
		MinRating: c.Query("min_rating"),
		Sort:      c.Query("sort"),
		Page:      c.Query("page"),
	}
}

func (h *Handler) listByType(c *gin.Context, mediaType database.MediaType) {
	page, err := h.catalog.ListByType(c.Request.Context(), mediaType, listParams(c))
	if err != nil {
		log.Error("failed to list media", "mediaType", mediaType, "error", err)
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, models.PagedResponse[models.MediaItem]{
		Items:   models.ToMediaItems(page.Items, h.cfg.TMDB),
		Total:   page.Total,
		Page:    page.Page,
		HasNext: page.HasNext,
	})
}

// ListMovies returns one page of the movie catalog.
func (h *Handler) ListMovies(c *gin.Context) {
	h.listByType(c, database.MediaTypeMovie)
}

// ListShows returns one page of the tv catalog.
func (h *Handler) ListShows(c *gin.Context) {
	h.listByType(c, database.MediaTypeTV)
}

// Search finds titles matching the q query parameter, optionally narrowed
// by type and year.
func (h *Handler) Search(c *gin.Context) {
	page, err := h.catalog.Search(c.Request.Context(), catalog.SearchParams{
		Query: c.Query("q"),
		Type:  c.Query("type"),
		Year:  c.Query("year"),
		Sort:  c.Query("sort"),
		Page:  c.Query("page"),
	})
	if err != nil {
		log.Error("search failed", "query", c.Query("q"), "error", err)
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, models.PagedResponse[models.MediaItem]{
		Items:   models.ToMediaItems(page.Items, h.cfg.TMDB),
		Total:   page.Total,
		Page:    page.Page,
		HasNext: page.HasNext,
	})
}

// GetMedia returns the full detail of one title, including its review
// aggregate and the caller's favorite state.
func (h *Handler) GetMedia(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	media, err := h.catalog.GetMedia(ctx, id)
	if err != nil {
		notFoundOr(c, err)
		return
	}

	detail := models.ToMediaDetail(media, h.cfg.TMDB)
	if avg, err := h.reviews.AverageRating(ctx, id); err == nil {
		detail.AverageRating = avg
	}
	if dist, err := h.reviews.RatingDistribution(ctx, id); err == nil {
		for _, count := range dist {
			detail.ReviewCount += count
		}
	}
	if fav, err := h.reviews.IsFavorite(ctx, UserID(c), id); err == nil {
		detail.Favorite = fav
	}

	c.JSON(http.StatusOK, detail)
}

// Similar returns titles related to the given one by shared genre.
func (h *Handler) Similar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	media, err := h.catalog.GetMedia(ctx, id)
	if err != nil {
		notFoundOr(c, err)
		return
	}
	similar, err := h.catalog.Similar(ctx, media)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": models.ToMediaItems(similar, h.cfg.TMDB)})
}

// Genres returns all known genres.
func (h *Handler) Genres(c *gin.Context) {
	genres, err := h.catalog.Genres(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": models.ToGenreItems(genres)})
}

// Years returns the distinct release years of a media type.
func (h *Handler) Years(c *gin.Context) {
	mediaType := database.MediaType(c.Param("type"))
	if mediaType != database.MediaTypeMovie && mediaType != database.MediaTypeTV {
		errorResponse(c, http.StatusBadRequest, "invalid media type")
		return
	}
	years, err := h.catalog.Years(c.Request.Context(), mediaType)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"years": years})
}

// Stats returns catalog wide counts and popularity highlights.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.catalog.Stats(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, models.StatsResponse{
		Movies:        stats.Movies,
		Shows:         stats.Shows,
		Reviews:       stats.Reviews,
		PopularMovies: models.ToMediaItems(stats.PopularMovies, h.cfg.TMDB),
		PopularShows:  models.ToMediaItems(stats.PopularShows, h.cfg.TMDB),
	})
}
