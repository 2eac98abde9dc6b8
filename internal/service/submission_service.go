package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/PGMA10/rrak-website/internal/domain"
	"github.com/PGMA10/rrak-website/internal/metrics"
	"github.com/PGMA10/rrak-website/internal/models"
	"github.com/PGMA10/rrak-website/internal/repository"
	"github.com/PGMA10/rrak-website/internal/schema"
)

// Publisher receives every accepted submission, e.g. the admin live feed.
type Publisher interface {
	PublishSubmission(entity domain.Entity, row interface{})
}

// Dispatcher sends the operator notification for a new row.
type Dispatcher interface {
	Dispatch(sub models.Submission)
}

// SubmissionService runs the intake pipeline for one submission kind:
// validate, persist, then notify and publish.
type SubmissionService[T models.Submission] struct {
	repo      *repository.SubmissionRepository[T]
	notifier  Dispatcher
	publisher Publisher
}

func NewSubmissionService[T models.Submission](repo *repository.SubmissionRepository[T], notifier Dispatcher, publisher Publisher) *SubmissionService[T] {
	return &SubmissionService[T]{repo: repo, notifier: notifier, publisher: publisher}
}

func (s *SubmissionService[T]) Entity() domain.Entity {
	var zero T
	return zero.Kind()
}

// Submit validates raw and stores the row. Rejections come back as
// schema.Errors, including a repeated address on a unique-email kind.
func (s *SubmissionService[T]) Submit(ctx context.Context, raw map[string]any) (*T, error) {
	entity := s.Entity()
	rec, err := schema.Decode[T](entity, raw)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, schema.Errors{"email": duplicateMessage(entity)}
		}
		return nil, fmt.Errorf("create %s: %w", entity, err)
	}

	metrics.RecordSubmission(string(entity))
	log.Info().Str("component", "intake").Str("entity", string(entity)).Msg("submission stored")
	if s.notifier != nil {
		s.notifier.Dispatch(*rec)
	}
	if s.publisher != nil {
		s.publisher.PublishSubmission(entity, rec)
	}
	return rec, nil
}

func (s *SubmissionService[T]) List(ctx context.Context) ([]T, error) {
	return s.repo.ListAll(ctx)
}

func (s *SubmissionService[T]) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func duplicateMessage(entity domain.Entity) string {
	if entity == domain.EntityNewsletterSubscribers {
		return "This email is already subscribed"
	}
	return "This email is already on the waitlist"
}
