package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PGMA10/rrak-website/config"
	"github.com/PGMA10/rrak-website/internal/auth"
	"github.com/PGMA10/rrak-website/internal/database"
	"github.com/PGMA10/rrak-website/internal/domain"
	"github.com/PGMA10/rrak-website/internal/repository"
	"github.com/PGMA10/rrak-website/internal/session"
)

func TestHubBroadcast(t *testing.T) {
	h := NewHub()
	a, b := NewClient("a"), NewClient("b")
	h.Register(a)
	h.Register(b)
	assert.Equal(t, 2, h.ClientCount())

	h.Broadcast(map[string]string{"hello": "world"})
	assert.JSONEq(t, `{"hello":"world"}`, string(<-a.Send))
	assert.JSONEq(t, `{"hello":"world"}`, string(<-b.Send))

	a.Close()
	a.Close()
	assert.Equal(t, 1, h.ClientCount())
	h.Broadcast("after close")
	assert.Len(t, b.Send, 1)
}

func TestFeedKeepsRecentBacklog(t *testing.T) {
	f := NewFeed()
	for i := 0; i < recentSize+5; i++ {
		f.PublishSubmission(domain.EntityLeads, i)
	}
	recent := f.Recent()
	require.Len(t, recent, recentSize)
	assert.Equal(t, 5, recent[0].Data)
	assert.Equal(t, domain.FeedEventSubmission, recent[0].Type)
}

func TestSubscribeDeliversEachEventOnce(t *testing.T) {
	f := NewFeed()
	f.PublishSubmission(domain.EntityLeads, 0)

	c := NewClient("s")
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 1; i <= 10; i++ {
			f.PublishSubmission(domain.EntityLeads, i)
		}
	}()
	f.Subscribe(c)
	<-done

	seen := make(map[float64]int)
	for len(c.Send) > 0 {
		var ev Event
		require.NoError(t, json.Unmarshal(<-c.Send, &ev))
		seen[ev.Data.(float64)]++
	}
	for i := 0; i <= 10; i++ {
		assert.Equal(t, 1, seen[float64(i)], "event %d", i)
	}
}

func TestServeFeed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := database.NewMemoryDB()
	require.NoError(t, err)
	cfg := &config.SessionConfig{Secret: "feed-secret", CookieName: "admin_session", TTL: time.Hour}
	store := session.NewGormStore(repository.NewSessionRepository(db), cfg.TTL)
	sessions := session.NewManager(store, cfg)

	feed := NewFeed()
	feed.PublishSubmission(domain.EntityLeads, map[string]string{"name": "Earlier"})

	r := gin.New()
	r.GET("/api/admin/feed", ServeFeed(feed, sessions))
	srv := httptest.NewServer(r)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/admin/feed"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	sess, err := store.Regenerate(context.Background(), nil)
	require.NoError(t, err)
	sess.Authenticated = true
	require.NoError(t, store.Save(context.Background(), sess))
	token, err := auth.GenerateSessionToken(cfg, sess.ID, sess.ExpiresAt)
	require.NoError(t, err)

	header := http.Header{}
	header.Set("Cookie", "admin_session="+token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	var ev Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, domain.EntityLeads, ev.Entity)

	require.Eventually(t, func() bool { return feed.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	feed.PublishSubmission(domain.EntityNewsletterSubscribers, map[string]string{"email": "new@example.com"})
	_, msg, err = conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, "submission", ev.Type)
	assert.Equal(t, domain.EntityNewsletterSubscribers, ev.Entity)
}
