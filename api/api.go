// Package api exposes the catalog over HTTP. Identity is taken from trusted
// proxy headers; running the server without an authenticating proxy in front
// of it leaves every endpoint open.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ccoveille/go-safecast"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/cinelog/cinelog/api/handler"
	"github.com/cinelog/cinelog/catalog"
	"github.com/cinelog/cinelog/config"
	"github.com/cinelog/cinelog/engine"
	"github.com/cinelog/cinelog/reviews"
)

const (
	userIDHeader   = "X-User-ID"
	userRoleHeader = "X-User-Role"
	roleAdmin      = "admin"
)

type Server struct {
	cfg       *config.Config
	ginEngine *gin.Engine
	handler   *handler.Handler
	httpSrv   *http.Server
}

func New(cfg *config.Config, cat *catalog.Service, rev *reviews.Service, eng *engine.Engine, remote handler.RemoteSearcher) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	gin.SetMode(gin.ReleaseMode)
	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery())
	ginEngine.Use(gzip.Gzip(gzip.DefaultCompression))

	s := &Server{
		cfg:       cfg,
		ginEngine: ginEngine,
		handler:   handler.New(cfg, cat, rev, eng, remote),
	}
	s.setupRoutes()
	return s, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

// requireUser resolves the caller's identity from the proxy header.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := strconv.ParseUint(c.GetHeader(userIDHeader), 10, 64)
		if err != nil || raw == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid user id"})
			return
		}
		id, err := safecast.ToUint(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid user id"})
			return
		}
		handler.SetUserID(c, id)
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(userRoleHeader) != roleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func (s *Server) setupRoutes() {
	s.ginEngine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.ginEngine.Group("/api")
	api.Use(requireUser())

	api.GET("/movies", s.handler.ListMovies)
	api.GET("/shows", s.handler.ListShows)
	api.GET("/search", s.handler.Search)
	api.GET("/search/remote", s.handler.SearchRemote)
	api.GET("/stats", s.handler.Stats)
	api.GET("/genres", s.handler.Genres)
	api.GET("/years/:type", s.handler.Years)

	api.GET("/media/:id", s.handler.GetMedia)
	api.GET("/media/:id/similar", s.handler.Similar)
	api.GET("/media/:id/reviews", s.handler.ListReviews)
	api.POST("/media/:id/reviews", s.handler.CreateReview)
	api.POST("/media/:id/favorite", s.handler.ToggleFavorite)

	api.PUT("/reviews/:id", s.handler.UpdateReview)
	api.DELETE("/reviews/:id", s.handler.DeleteReview)
	api.POST("/reviews/:id/like", s.handler.ToggleLike)

	api.GET("/favorites", s.handler.ListFavorites)
	api.GET("/my/reviews", s.handler.MyReviews)

	api.POST("/requests", s.handler.CreateRequest)
	api.GET("/requests", s.handler.MyRequests)

	admin := api.Group("/admin")
	admin.Use(requireAdmin())
	admin.GET("/requests", s.handler.AllRequests)
	admin.PATCH("/requests/:id", s.handler.SetRequestStatus)
	admin.POST("/sync", s.handler.TriggerSync)
	admin.GET("/jobs", s.handler.Jobs)
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	s.httpSrv = &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
