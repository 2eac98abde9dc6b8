package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/PGMA10/rrak-website/internal/models"
	"github.com/PGMA10/rrak-website/internal/repository"
)

// Store keeps admin session state on the server. Get reports an absent or
// expired session as (nil, nil).
type Store interface {
	Get(ctx context.Context, id string) (*models.AdminSession, error)
	Save(ctx context.Context, s *models.AdminSession) error
	Destroy(ctx context.Context, id string) error
	// Regenerate moves the state of s to a fresh id and drops the old one.
	Regenerate(ctx context.Context, s *models.AdminSession) (*models.AdminSession, error)
}

type GormStore struct {
	repo *repository.SessionRepository
	ttl  time.Duration
	now  func() time.Time
}

func NewGormStore(repo *repository.SessionRepository, ttl time.Duration) *GormStore {
	return &GormStore{repo: repo, ttl: ttl, now: time.Now}
}

// New returns an unsaved, unauthenticated session.
func (s *GormStore) New() *models.AdminSession {
	return &models.AdminSession{
		ID:        uuid.NewString(),
		ExpiresAt: s.now().UTC().Add(s.ttl),
	}
}

func (s *GormStore) Get(ctx context.Context, id string) (*models.AdminSession, error) {
	sess, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if sess.Expired(s.now()) {
		_ = s.repo.Delete(ctx, id)
		return nil, nil
	}
	return sess, nil
}

// Save persists s with its expiry pushed to one TTL from now. Manager.Refresh
// calls it to slide an active admin session.
func (s *GormStore) Save(ctx context.Context, sess *models.AdminSession) error {
	sess.ExpiresAt = s.now().UTC().Add(s.ttl)
	return s.repo.Save(ctx, sess)
}

func (s *GormStore) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.repo.Delete(ctx, id)
}

func (s *GormStore) Regenerate(ctx context.Context, old *models.AdminSession) (*models.AdminSession, error) {
	fresh := s.New()
	if old != nil {
		fresh.Authenticated = old.Authenticated
		if err := s.Destroy(ctx, old.ID); err != nil {
			return nil, err
		}
	}
	if err := s.Save(ctx, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// RunJanitor purges expired rows every interval until ctx is done.
func (s *GormStore) RunJanitor(ctx context.Context, interval time.Duration) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			n, err := s.repo.DeleteExpired(ctx, s.now())
			if err != nil {
				log.Error().Err(err).Str("component", "session").Msg("purge expired sessions")
				continue
			}
			if n > 0 {
				log.Debug().Str("component", "session").Int64("purged", n).Msg("expired sessions removed")
			}
		}
	}
}
