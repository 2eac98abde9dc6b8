package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/PGMA10/rrak-website/internal/models"
)

type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// GetCurrent returns the most recently created setting, or nil when none
// has ever been saved.
func (r *CampaignRepository) GetCurrent(ctx context.Context) (*models.CampaignSetting, error) {
	var s models.CampaignSetting
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert rewrites the current setting's deadline, inserting the first row
// when the table is empty. Older rows are left alone.
func (r *CampaignRepository) Upsert(ctx context.Context, deadline time.Time) (*models.CampaignSetting, error) {
	var out *models.CampaignSetting
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur models.CampaignSetting
		err := tx.Order("created_at DESC").Order("id DESC").First(&cur).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			cur = models.CampaignSetting{DeadlineDate: deadline.UTC()}
			if err := tx.Create(&cur).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			cur.DeadlineDate = deadline.UTC()
			if err := tx.Save(&cur).Error; err != nil {
				return err
			}
		}
		out = &cur
		return nil
	})
	return out, err
}
