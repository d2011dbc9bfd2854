package handler

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/cinelog/cinelog/api/models"
	"github.com/cinelog/cinelog/catalog"
	"github.com/cinelog/cinelog/database"
)

const requestPageSize = 20

type contentRequestBody struct {
	Title       string `json:"title"`
	MediaType   string `json:"mediaType"`
	Year        *int   `json:"year"`
	Description string `json:"description"`
}

type requestStatusBody struct {
	Status     string `json:"status"`
	AdminNotes string `json:"adminNotes"`
}

// CreateRequest files a content request on behalf of the caller.
func (h *Handler) CreateRequest(c *gin.Context) {
	var body contentRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.catalog.CreateRequest(c.Request.Context(), UserID(c),
		body.Title, database.MediaType(body.MediaType), body.Year, body.Description)
	if err != nil {
		if errors.Is(err, catalog.ErrEmptyTitle) {
			errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("failed to create content request", "error", err)
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusCreated, models.ToRequestItem(*request))
}

// MyRequests returns one page of the caller's content requests.
func (h *Handler) MyRequests(c *gin.Context) {
	list, total, err := h.catalog.MyRequests(c.Request.Context(), UserID(c), pageParam(c), requestPageSize)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, requestPage(list, total, pageParam(c)))
}

// AllRequests returns one page of all content requests, optionally filtered
// by status.
func (h *Handler) AllRequests(c *gin.Context) {
	list, total, err := h.catalog.AllRequests(c.Request.Context(), c.Query("status"), pageParam(c), requestPageSize)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidStatus) {
			errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, requestPage(list, total, pageParam(c)))
}

// SetRequestStatus moves a content request to a new status.
func (h *Handler) SetRequestStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body requestStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.catalog.SetRequestStatus(c.Request.Context(), id, body.Status, body.AdminNotes)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidStatus):
			errorResponse(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, database.ErrNotFound):
			errorResponse(c, http.StatusNotFound, "not found")
		default:
			errorResponse(c, http.StatusInternalServerError, "internal error")
		}
		return
	}
	c.JSON(http.StatusOK, models.ToRequestItem(*request))
}

// TriggerSync starts a catalog sync run in the background.
func (h *Handler) TriggerSync(c *gin.Context) {
	if err := h.engine.RunSyncNow(); err != nil {
		log.Error("failed to trigger catalog sync", "error", err)
		errorResponse(c, http.StatusInternalServerError, "failed to trigger sync")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "sync started"})
}

// Jobs reports the state of the background jobs.
func (h *Handler) Jobs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": h.engine.Jobs()})
}

func requestPage(list []database.ContentRequest, total int64, page int) models.PagedResponse[models.RequestItem] {
	items := make([]models.RequestItem, len(list))
	for i, r := range list {
		items[i] = models.ToRequestItem(r)
	}
	return models.PagedResponse[models.RequestItem]{
		Items:   items,
		Total:   total,
		Page:    page,
		HasNext: int64(page*requestPageSize) < total,
	}
}
