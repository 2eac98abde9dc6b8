package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/PGMA10/rrak-website/config"
	"github.com/PGMA10/rrak-website/internal/auth"
	"github.com/PGMA10/rrak-website/internal/models"
)

const contextKey = "admin_session"

// Manager binds a Store to the browser through a signed HttpOnly cookie.
type Manager struct {
	store Store
	cfg   *config.SessionConfig
	now   func() time.Time
}

func NewManager(store Store, cfg *config.SessionConfig) *Manager {
	return &Manager{store: store, cfg: cfg, now: time.Now}
}

// Load resolves the request's session from its cookie and caches it on the
// gin context. Missing, forged and expired cookies all yield nil.
func (m *Manager) Load(c *gin.Context) *models.AdminSession {
	if v, ok := c.Get(contextKey); ok {
		sess, _ := v.(*models.AdminSession)
		return sess
	}
	var sess *models.AdminSession
	if raw, err := c.Cookie(m.cfg.CookieName); err == nil && raw != "" {
		if claims, err := auth.ParseSessionToken(m.cfg, raw); err == nil {
			sess, err = m.store.Get(c.Request.Context(), claims.SessionID)
			if err != nil {
				log.Error().Err(err).Str("component", "session").Msg("load session")
				sess = nil
			}
		}
	}
	c.Set(contextKey, sess)
	return sess
}

// Authenticated reports whether the request carries a logged-in session.
func (m *Manager) Authenticated(c *gin.Context) bool {
	sess := m.Load(c)
	return sess != nil && sess.Authenticated
}

// Issue writes the cookie for sess and makes it the request's session.
func (m *Manager) Issue(c *gin.Context, sess *models.AdminSession) error {
	token, err := auth.GenerateSessionToken(m.cfg, sess.ID, sess.ExpiresAt)
	if err != nil {
		return err
	}
	maxAge := int(sess.ExpiresAt.Sub(m.now()).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cfg.CookieName, token, maxAge, "/", "", m.cfg.Secure, true)
	c.Set(contextKey, sess)
	return nil
}

// Refresh extends a logged-in session once less than half of its TTL is
// left, re-saving the row and reissuing the cookie. Earlier requests leave
// both untouched.
func (m *Manager) Refresh(c *gin.Context) {
	sess := m.Load(c)
	if sess == nil || !sess.Authenticated {
		return
	}
	if sess.ExpiresAt.Sub(m.now()) > m.cfg.TTL/2 {
		return
	}
	if err := m.store.Save(c.Request.Context(), sess); err != nil {
		log.Error().Err(err).Str("component", "session").Msg("refresh session")
		return
	}
	if err := m.Issue(c, sess); err != nil {
		log.Error().Err(err).Str("component", "session").Msg("reissue session cookie")
	}
}

// Clear expires the cookie on the client.
func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cfg.CookieName, "", -1, "/", "", m.cfg.Secure, true)
	c.Set(contextKey, (*models.AdminSession)(nil))
}
