package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/PGMA10/rrak-website/internal/models"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*models.AdminSession, error) {
	var s models.AdminSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// Save inserts or fully overwrites the session row.
func (r *SessionRepository) Save(ctx context.Context, s *models.AdminSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AdminSession{}).Error
}

// DeleteExpired purges sessions whose expiry is at or before now.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&models.AdminSession{})
	return res.RowsAffected, res.Error
}
