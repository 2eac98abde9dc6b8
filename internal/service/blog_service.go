package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/PGMA10/rrak-website/internal/domain"
	"github.com/PGMA10/rrak-website/internal/models"
	"github.com/PGMA10/rrak-website/internal/repository"
	"github.com/PGMA10/rrak-website/internal/schema"
	"github.com/PGMA10/rrak-website/pkg/cloudinary"
	"github.com/PGMA10/rrak-website/pkg/markdown"
	"github.com/PGMA10/rrak-website/pkg/slug"
)

var ErrPostNotFound = errors.New("blog post not found")

const msgSlugTaken = "A post with this slug already exists"

// blog fields accepted in a PATCH body, keyed by JSON name
var blogColumns = map[string]string{
	"title":     "title",
	"slug":      "slug",
	"excerpt":   "excerpt",
	"content":   "content",
	"published": "published",
}

type BlogService struct {
	repo     *repository.BlogRepository
	renderer *markdown.Renderer
	images   cloudinary.Client
	folder   string
	now      func() time.Time
}

func NewBlogService(repo *repository.BlogRepository, renderer *markdown.Renderer, images cloudinary.Client, folder string) *BlogService {
	if images == nil {
		images = cloudinary.Disabled()
	}
	return &BlogService{repo: repo, renderer: renderer, images: images, folder: folder, now: time.Now}
}

// Create stores a new post. A blank slug is derived from the title; a post
// saved as published is stamped with the current time.
func (s *BlogService) Create(ctx context.Context, raw map[string]any) (*models.BlogPost, error) {
	in := make(map[string]any, len(raw)+1)
	for k, v := range raw {
		in[k] = v
	}
	if str, _ := in["slug"].(string); strings.TrimSpace(str) == "" {
		if title, ok := in["title"].(string); ok {
			in["slug"] = slug.Make(title)
		}
	}

	post, err := schema.Decode[models.BlogPost](domain.EntityBlogPosts, in)
	if err != nil {
		return nil, err
	}
	if post.Published {
		now := s.now().UTC()
		post.PublishedAt = &now
	}
	if err := s.repo.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, schema.Errors{"slug": msgSlugTaken}
		}
		return nil, fmt.Errorf("create blog post: %w", err)
	}
	return post, nil
}

// Update applies a partial change. publishedAt is stamped when a draft
// becomes published, kept while the post stays published, and cleared
// when it is unpublished.
func (s *BlogService) Update(ctx context.Context, id uint, raw map[string]any) (*models.BlogPost, error) {
	clean, err := schema.Check(domain.EntityBlogPosts, raw, true)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	updates := make(map[string]any, len(clean)+1)
	for field, value := range clean {
		if col, ok := blogColumns[field]; ok {
			updates[col] = value
		}
	}
	if published, ok := clean["published"].(bool); ok {
		switch {
		case published && !existing.Published:
			updates["published_at"] = s.now().UTC()
		case !published:
			updates["published_at"] = nil
		}
	}

	post, err := s.repo.Update(ctx, id, updates)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, schema.Errors{"slug": msgSlugTaken}
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrPostNotFound
	case err != nil:
		return nil, fmt.Errorf("update blog post %d: %w", id, err)
	}
	return post, nil
}

// Delete removes the post and then its hosted cover image, if any.
func (s *BlogService) Delete(ctx context.Context, id uint) error {
	post, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}
	err = s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}
	s.dropImage(ctx, post.CoverPublicID)
	return nil
}

// dropImage deletes a replaced or orphaned cover. Failures only leave an
// unused asset behind, so they are logged.
func (s *BlogService) dropImage(ctx context.Context, publicID *string) {
	if publicID == nil || *publicID == "" || !s.images.Enabled() {
		return
	}
	if err := s.images.Delete(ctx, *publicID); err != nil {
		log.Warn().Err(err).Str("component", "blog").Str("public_id", *publicID).Msg("cover delete failed")
	}
}

func (s *BlogService) ListAll(ctx context.Context) ([]models.BlogPost, error) {
	return s.repo.ListAll(ctx)
}

func (s *BlogService) ListPublished(ctx context.Context) ([]models.BlogPost, error) {
	return s.repo.ListPublished(ctx)
}

func (s *BlogService) Count(ctx context.Context) (int64, error) {
	total, _, err := s.repo.CountPublished(ctx)
	return total, err
}

// GetPublished returns the rendered post. Drafts are indistinguishable
// from slugs that never existed.
func (s *BlogService) GetPublished(ctx context.Context, postSlug string) (*models.PublicBlogPost, error) {
	post, err := s.repo.GetPublishedBySlug(ctx, postSlug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	html, err := s.renderer.Render(post.Content)
	if err != nil {
		return nil, fmt.Errorf("render %q: %w", post.Slug, err)
	}
	return &models.PublicBlogPost{BlogPost: *post, ContentHTML: html}, nil
}

// UploadCover stores file as the post's cover image.
func (s *BlogService) UploadCover(ctx context.Context, id uint, file io.Reader) (*models.BlogPost, error) {
	if !s.images.Enabled() {
		return nil, cloudinary.ErrNotConfigured
	}
	post, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	publicID := post.Slug + "-" + uuid.NewString()[:8]
	res, err := s.images.UploadImage(ctx, file, s.folder, publicID)
	if err != nil {
		return nil, err
	}
	log.Info().Str("component", "blog").Uint("post_id", id).Str("public_id", res.PublicID).Msg("cover uploaded")
	updated, err := s.repo.Update(ctx, id, map[string]any{
		"cover_image_url": res.URL,
		"cover_public_id": res.PublicID,
	})
	if err != nil {
		return nil, err
	}
	s.dropImage(ctx, post.CoverPublicID)
	return updated, nil
}
