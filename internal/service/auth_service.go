package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/PGMA10/rrak-website/config"
	"github.com/PGMA10/rrak-website/internal/auth"
	"github.com/PGMA10/rrak-website/internal/metrics"
	"github.com/PGMA10/rrak-website/internal/models"
	"github.com/PGMA10/rrak-website/internal/session"
)

var (
	ErrInvalidPassword    = errors.New("invalid password")
	ErrAdminNotConfigured = errors.New("admin password not configured")
)

type AuthService struct {
	cfg   *config.AdminConfig
	store session.Store
}

func NewAuthService(cfg *config.AdminConfig, store session.Store) *AuthService {
	return &AuthService{cfg: cfg, store: store}
}

// Login checks password against the shared admin secret. On success the
// caller's session is replaced by a freshly issued, authenticated one so a
// pre-login id can never become privileged.
func (s *AuthService) Login(ctx context.Context, current *models.AdminSession, password string) (*models.AdminSession, error) {
	if s.cfg.Password == "" {
		metrics.RecordAdminLogin("unconfigured")
		log.Error().Str("component", "auth").Msg("ADMIN_PASSWORD is not set; refusing admin login")
		return nil, ErrAdminNotConfigured
	}
	if !auth.CheckSecret(s.cfg.Password, password) {
		metrics.RecordAdminLogin("failure")
		return nil, ErrInvalidPassword
	}

	sess, err := s.store.Regenerate(ctx, current)
	if err != nil {
		return nil, err
	}
	sess.Authenticated = true
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	metrics.RecordAdminLogin("success")
	return sess, nil
}

// Logout drops the server-side session. Logging out without one is a no-op.
func (s *AuthService) Logout(ctx context.Context, current *models.AdminSession) error {
	if current == nil {
		return nil
	}
	return s.store.Destroy(ctx, current.ID)
}
