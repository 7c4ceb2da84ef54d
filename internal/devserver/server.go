// Package devserver is a local stand-in for the remote POS API, started with --dev. It serves the
// four resources and the legacy comandas collection from a gorm document store.
package devserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"comanda-dashboard-backend/internal/store"
)

// Collections served by the fake.
var Collections = []string{"checkpads", "ordersheets", "areas", "comandas"}

// Server holds the handlers of the fake API.
type Server struct {
	store  store.Store
	logger *zap.Logger
}

// New creates a fake API over s.
func New(s store.Store, logger *zap.Logger) *Server {
	return &Server{store: s, logger: logger}
}

// Router exposes every collection with list, get, create and partial update.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	for _, name := range Collections {
		g := r.Group("/" + name)
		g.GET("", s.list(name))
		g.GET("/:id", s.get(name))
		g.POST("", s.create(name))
		g.PATCH("/:id", s.patch(name))
	}
	return r
}

func (s *Server) list(collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		recs, err := s.store.List(c.Request.Context(), collection)
		if err != nil {
			s.serverError(c, err)
			return
		}
		c.Header("X-Total-Count", strconv.Itoa(len(recs)))
		c.Header("Access-Control-Expose-Headers", "X-Total-Count")
		c.JSON(http.StatusOK, recs)
	}
}

func (s *Server) get(collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := s.store.Get(c.Request.Context(), collection, c.Param("id"))
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func (s *Server) create(collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rec store.Record
		if err := c.ShouldBindJSON(&rec); err != nil || rec == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		created, err := s.store.Create(c.Request.Context(), collection, rec)
		if err != nil {
			s.serverError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func (s *Server) patch(collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rec store.Record
		if err := c.ShouldBindJSON(&rec); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		updated, err := s.store.Patch(c.Request.Context(), collection, c.Param("id"), rec)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}
	s.serverError(c, err)
}

func (s *Server) serverError(c *gin.Context, err error) {
	s.logger.Error("dev server request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
