package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/PGMA10/rrak-website/internal/models"
)

type BlogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

func (r *BlogRepository) Create(ctx context.Context, p *models.BlogPost) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *BlogRepository) GetByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	var p models.BlogPost
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// GetBySlug returns the post with slug regardless of its published state.
func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var p models.BlogPost
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// Update applies the given column changes and refreshes updated_at, then
// returns the stored row.
func (r *BlogRepository) Update(ctx context.Context, id uint, updates map[string]any) (*models.BlogPost, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	updates["updated_at"] = time.Now().UTC()
	err := r.db.WithContext(ctx).Model(&models.BlogPost{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return nil, translate(err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes the post; a missing id is ErrNotFound.
func (r *BlogRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.BlogPost{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll is the admin view: drafts included, newest first.
func (r *BlogRepository) ListAll(ctx context.Context) ([]models.BlogPost, error) {
	list := []models.BlogPost{}
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&list).Error
	return list, err
}

func (r *BlogRepository) ListPublished(ctx context.Context) ([]models.BlogPost, error) {
	list := []models.BlogPost{}
	err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order("published_at DESC").Order("id DESC").
		Find(&list).Error
	return list, err
}

func (r *BlogRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var p models.BlogPost
	err := r.db.WithContext(ctx).Where("slug = ? AND published = ?", slug, true).First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *BlogRepository) CountPublished(ctx context.Context) (total, published int64, err error) {
	if err = r.db.WithContext(ctx).Model(&models.BlogPost{}).Count(&total).Error; err != nil {
		return
	}
	err = r.db.WithContext(ctx).Model(&models.BlogPost{}).Where("published = ?", true).Count(&published).Error
	return
}
