package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/PGMA10/rrak-website/internal/domain"
	"github.com/PGMA10/rrak-website/internal/service"
	"github.com/PGMA10/rrak-website/internal/session"
	"github.com/PGMA10/rrak-website/pkg/csvexport"
)

// Dataset is one admin-visible table.
type Dataset interface {
	List(ctx context.Context) (rows interface{}, fields [][]csvexport.Field, err error)
	Count(ctx context.Context) (int64, error)
}

type dataset[T csvexport.Row] struct {
	list  func(context.Context) ([]T, error)
	count func(context.Context) (int64, error)
}

// NewDataset adapts a list and a count function to Dataset.
func NewDataset[T csvexport.Row](list func(context.Context) ([]T, error), count func(context.Context) (int64, error)) Dataset {
	return &dataset[T]{list: list, count: count}
}

func (d *dataset[T]) List(ctx context.Context) (interface{}, [][]csvexport.Field, error) {
	rows, err := d.list(ctx)
	if err != nil {
		return nil, nil, err
	}
	return rows, csvexport.Collect(rows), nil
}

func (d *dataset[T]) Count(ctx context.Context) (int64, error) {
	return d.count(ctx)
}

type AdminHandler struct {
	sessions *session.Manager
	authSvc  *service.AuthService
	datasets map[domain.Entity]Dataset
	order    []domain.Entity
}

func NewAdminHandler(sessions *session.Manager, authSvc *service.AuthService) *AdminHandler {
	return &AdminHandler{
		sessions: sessions,
		authSvc:  authSvc,
		datasets: make(map[domain.Entity]Dataset),
	}
}

// Register exposes ds under entity for listing, export and the summary.
func (h *AdminHandler) Register(entity domain.Entity, ds Dataset) {
	if _, ok := h.datasets[entity]; !ok {
		h.order = append(h.order, entity)
	}
	h.datasets[entity] = ds
}

func (h *AdminHandler) Entities() []domain.Entity {
	return append([]domain.Entity(nil), h.order...)
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	sess, err := h.authSvc.Login(c.Request.Context(), h.sessions.Load(c), req.Password)
	switch {
	case errors.Is(err, service.ErrAdminNotConfigured):
		fail(c, http.StatusInternalServerError, "Admin login is not configured")
		return
	case errors.Is(err, service.ErrInvalidPassword):
		fail(c, http.StatusUnauthorized, "Invalid password")
		return
	case err != nil:
		log.Error().Err(err).Str("component", "auth").Msg("login failed")
		fail(c, http.StatusInternalServerError, "Login failed")
		return
	}
	if err := h.sessions.Issue(c, sess); err != nil {
		log.Error().Err(err).Str("component", "auth").Msg("issue session cookie")
		fail(c, http.StatusInternalServerError, "Login failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout handles POST /api/admin/logout.
func (h *AdminHandler) Logout(c *gin.Context) {
	if err := h.authSvc.Logout(c.Request.Context(), h.sessions.Load(c)); err != nil {
		log.Error().Err(err).Str("component", "auth").Msg("logout")
		fail(c, http.StatusInternalServerError, "Logout failed")
		return
	}
	h.sessions.Clear(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Status handles GET /api/admin/status.
func (h *AdminHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "isAuthenticated": h.sessions.Authenticated(c)})
}

// List returns the handler for GET /api/admin/<entity>.
func (h *AdminHandler) List(entity domain.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		ds, ok := h.datasets[entity]
		if !ok {
			fail(c, http.StatusNotFound, "Not found")
			return
		}
		rows, fields, err := ds.List(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Str("entity", string(entity)).Msg("list failed")
			fail(c, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch %s", entity))
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": rows, "count": len(fields)})
	}
}

// Export returns the handler for GET /api/admin/export/<entity>.
func (h *AdminHandler) Export(entity domain.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		ds, ok := h.datasets[entity]
		if !ok {
			fail(c, http.StatusNotFound, "Not found")
			return
		}
		_, fields, err := ds.List(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Str("entity", string(entity)).Msg("export failed")
			fail(c, http.StatusInternalServerError, "Export failed")
			return
		}
		var buf bytes.Buffer
		if err := csvexport.Write(&buf, fields); err != nil {
			log.Error().Err(err).Str("entity", string(entity)).Msg("csv encode failed")
			fail(c, http.StatusInternalServerError, "Export failed")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", entity))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	}
}

// Summary handles GET /api/admin/summary: row counts for every dataset.
func (h *AdminHandler) Summary(c *gin.Context) {
	counts := make(map[domain.Entity]int64, len(h.order))
	for _, entity := range h.order {
		n, err := h.datasets[entity].Count(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Str("entity", string(entity)).Msg("count failed")
			fail(c, http.StatusInternalServerError, "Failed to load summary")
			return
		}
		counts[entity] = n
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": counts})
}
