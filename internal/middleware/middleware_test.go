package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PGMA10/rrak-website/config"
	"github.com/PGMA10/rrak-website/internal/auth"
	"github.com/PGMA10/rrak-website/internal/database"
	"github.com/PGMA10/rrak-website/internal/repository"
	"github.com/PGMA10/rrak-website/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimit(t *testing.T) {
	limiter := NewInMemoryRateLimiter(2, time.Minute)
	r := gin.New()
	r.Use(RateLimit(limiter))
	r.POST("/api/submit-lead", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/submit-lead", nil))
		codes = append(codes, w.Code)
		if i == 2 {
			assert.JSONEq(t, `{"success":false,"error":"Too many requests, please try again later"}`, w.Body.String())
			assert.Equal(t, "60", w.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitDisabled(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(NewInMemoryRateLimiter(0, time.Minute)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestAdminRequired(t *testing.T) {
	db, err := database.NewMemoryDB()
	require.NoError(t, err)
	cfg := &config.SessionConfig{Secret: "mw-secret", CookieName: "admin_session", TTL: time.Hour}
	store := session.NewGormStore(repository.NewSessionRepository(db), cfg.TTL)
	sessions := session.NewManager(store, cfg)

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/api/admin/leads", AdminRequired(sessions), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/leads", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Unauthorized"}`, w.Body.String())

	anon, err := store.Regenerate(context.Background(), nil)
	require.NoError(t, err)
	token, err := auth.GenerateSessionToken(cfg, anon.ID, anon.ExpiresAt)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/leads", nil)
	req.AddCookie(&http.Cookie{Name: "admin_session", Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "an anonymous session is not enough")

	anon.Authenticated = true
	require.NoError(t, store.Save(context.Background(), anon))
	req = httptest.NewRequest(http.MethodGet, "/api/admin/leads", nil)
	req.AddCookie(&http.Cookie{Name: "admin_session", Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
