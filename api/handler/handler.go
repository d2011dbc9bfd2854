// Package handler implements the HTTP handlers of the catalog API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/ccoveille/go-safecast"
	"github.com/gin-gonic/gin"

	"github.com/cinelog/cinelog/catalog"
	"github.com/cinelog/cinelog/config"
	"github.com/cinelog/cinelog/database"
	"github.com/cinelog/cinelog/engine"
	"github.com/cinelog/cinelog/reviews"
	"github.com/cinelog/cinelog/tmdb"
)

// userIDKey is the gin context key holding the authenticated user id.
const userIDKey = "userID"

// RemoteSearcher searches the external catalog directly.
type RemoteSearcher interface {
	SearchMulti(ctx context.Context, query string, page int) (*tmdb.Page, error)
}

type Handler struct {
	cfg     *config.Config
	catalog *catalog.Service
	reviews *reviews.Service
	engine  *engine.Engine
	remote  RemoteSearcher
}

func New(cfg *config.Config, cat *catalog.Service, rev *reviews.Service, eng *engine.Engine, remote RemoteSearcher) *Handler {
	return &Handler{
		cfg:     cfg,
		catalog: cat,
		reviews: rev,
		engine:  eng,
		remote:  remote,
	}
}

// UserID returns the authenticated user's id from the request context.
func UserID(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}

// SetUserID stores the authenticated user's id in the request context.
func SetUserID(c *gin.Context, id uint) {
	c.Set(userIDKey, id)
}

func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// pathID parses the numeric id path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	raw, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	id, err := safecast.ToUint(raw)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// pageParam parses the page query parameter, defaulting to the first page.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// notFoundOr maps store lookup failures to 404, everything else to 500.
func notFoundOr(c *gin.Context, err error) {
	if errors.Is(err, database.ErrNotFound) {
		errorResponse(c, http.StatusNotFound, "not found")
		return
	}
	errorResponse(c, http.StatusInternalServerError, "internal error")
}
