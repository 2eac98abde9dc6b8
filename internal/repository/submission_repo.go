package repository

import (
	"context"

	"gorm.io/gorm"
)

// SubmissionRepository stores one kind of public form submission. Rows are
// append-only: created once, then listed, counted and exported.
type SubmissionRepository[T any] struct {
	db *gorm.DB
}

func NewSubmissionRepository[T any](db *gorm.DB) *SubmissionRepository[T] {
	return &SubmissionRepository[T]{db: db}
}

// Create inserts rec and fills its generated id and createdAt. A unique
// email collision comes back as ErrDuplicate.
func (r *SubmissionRepository[T]) Create(ctx context.Context, rec *T) error {
	return translate(r.db.WithContext(ctx).Create(rec).Error)
}

// ListAll returns every row, newest first.
func (r *SubmissionRepository[T]) ListAll(ctx context.Context) ([]T, error) {
	var list []T
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&list).Error
	if list == nil {
		list = []T{}
	}
	return list, err
}

func (r *SubmissionRepository[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(new(T)).Count(&n).Error
	return n, err
}
