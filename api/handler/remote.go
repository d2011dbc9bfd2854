package handler

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/cinelog/cinelog/api/models"
	"github.com/cinelog/cinelog/tmdb"
)

// SearchRemote queries the external catalog directly, so a user can check
// whether a title missing locally exists upstream before filing a request.
func (h *Handler) SearchRemote(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		errorResponse(c, http.StatusBadRequest, "missing query")
		return
	}
	ctx := c.Request.Context()

	page, err := h.remote.SearchMulti(ctx, query, pageParam(c))
	if err != nil {
		log.Error("remote search failed", "query", query, "error", err)
		errorResponse(c, http.StatusBadGateway, "remote catalog unavailable")
		return
	}

	results := make([]models.RemoteResult, 0, len(page.Results))
	for _, rec := range page.Results {
		// multi search also returns person hits
		if rec.MediaType != string(tmdb.MediaTypeMovie) && rec.MediaType != string(tmdb.MediaTypeTV) {
			continue
		}
		result := models.ToRemoteResult(rec, h.cfg.TMDB)
		if known, err := h.catalog.InCatalog(ctx, rec.ID); err == nil {
			result.InCatalog = known
		}
		results = append(results, result)
	}

	c.JSON(http.StatusOK, gin.H{
		"items":   results,
		"page":    page.Page,
		"hasNext": page.TotalPages > page.Page,
	})
}
