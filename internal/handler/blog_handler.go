package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/PGMA10/rrak-website/internal/domain"
	"github.com/PGMA10/rrak-website/internal/service"
	"github.com/PGMA10/rrak-website/pkg/cloudinary"
)

const (
	msgPostNotFound = "Blog post not found"
	maxCoverBytes   = 10 << 20
)

type BlogHandler struct {
	svc *service.BlogService
}

func NewBlogHandler(svc *service.BlogService) *BlogHandler {
	return &BlogHandler{svc: svc}
}

// ListPublished handles GET /api/blog-posts.
func (h *BlogHandler) ListPublished(c *gin.Context) {
	posts, err := h.svc.ListPublished(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("component", "blog").Msg("list published")
		fail(c, http.StatusInternalServerError, "Failed to fetch blog posts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": posts})
}

// GetPublished handles GET /api/blog-posts/:slug. Drafts and unknown slugs
// get the same 404.
func (h *BlogHandler) GetPublished(c *gin.Context) {
	post, err := h.svc.GetPublished(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, service.ErrPostNotFound) {
		fail(c, http.StatusNotFound, msgPostNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("component", "blog").Msg("get published")
		fail(c, http.StatusInternalServerError, "Failed to fetch blog post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": post})
}

// Create handles POST /api/admin/blog-posts.
func (h *BlogHandler) Create(c *gin.Context) {
	raw, ok := bindRaw(c)
	if !ok {
		return
	}
	post, err := h.svc.Create(c.Request.Context(), raw)
	if err != nil {
		if failValidation(c, domain.EntityBlogPosts, err) {
			return
		}
		log.Error().Err(err).Str("component", "blog").Msg("create")
		fail(c, http.StatusInternalServerError, "Failed to create blog post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": post})
}

// Update handles PATCH /api/admin/blog-posts/:id.
func (h *BlogHandler) Update(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	raw, ok := bindRaw(c)
	if !ok {
		return
	}
	post, err := h.svc.Update(c.Request.Context(), id, raw)
	if err != nil {
		if failValidation(c, domain.EntityBlogPosts, err) {
			return
		}
		if errors.Is(err, service.ErrPostNotFound) {
			fail(c, http.StatusNotFound, msgPostNotFound)
			return
		}
		log.Error().Err(err).Str("component", "blog").Msg("update")
		fail(c, http.StatusInternalServerError, "Failed to update blog post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": post})
}

// Delete handles DELETE /api/admin/blog-posts/:id.
func (h *BlogHandler) Delete(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	err := h.svc.Delete(c.Request.Context(), id)
	if errors.Is(err, service.ErrPostNotFound) {
		fail(c, http.StatusNotFound, msgPostNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("component", "blog").Msg("delete")
		fail(c, http.StatusInternalServerError, "Failed to delete blog post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UploadCover handles POST /api/admin/blog-posts/:id/cover (multipart "file").
func (h *BlogHandler) UploadCover(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "file required")
		return
	}
	if file.Size > maxCoverBytes {
		fail(c, http.StatusBadRequest, "file too large")
		return
	}
	if ct := file.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		fail(c, http.StatusBadRequest, "file must be an image")
		return
	}
	f, err := file.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "could not read file")
		return
	}
	defer f.Close()

	post, err := h.svc.UploadCover(c.Request.Context(), id, f)
	switch {
	case errors.Is(err, cloudinary.ErrNotConfigured):
		fail(c, http.StatusServiceUnavailable, "Image uploads are not configured")
		return
	case errors.Is(err, service.ErrPostNotFound):
		fail(c, http.StatusNotFound, msgPostNotFound)
		return
	case err != nil:
		log.Error().Err(err).Str("component", "blog").Msg("cover upload")
		fail(c, http.StatusInternalServerError, "upload failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": post})
}

func postID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, "Invalid blog post id")
		return 0, false
	}
	return uint(id), true
}
