package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PGMA10/rrak-website/config"
	"github.com/PGMA10/rrak-website/internal/auth"
	"github.com/PGMA10/rrak-website/internal/database"
	"github.com/PGMA10/rrak-website/pkg/cloudinary"
	"github.com/PGMA10/rrak-website/pkg/mailer"
)

const adminPassword = "correct horse"

type fakeSender struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type testEnv struct {
	t      *testing.T
	app    *App
	cfg    *config.Config
	srv    *httptest.Server
	client *http.Client
	mail   *fakeSender
}

func testConfig() *config.Config {
	return &config.Config{
		Server:     config.ServerConfig{Env: "test"},
		Admin:      config.AdminConfig{Password: adminPassword},
		Session:    config.SessionConfig{Secret: "router-test", TTL: time.Hour, CookieName: "admin_session"},
		Mail:       config.MailConfig{NotificationEmail: "ops@example.com", SiteName: "Anchorage Direct Mail", Timeout: time.Second},
		Cloudinary: config.CloudinaryConfig{Folder: "blog"},
		RateLimit:  config.RateLimitConfig{Requests: 1000, Window: time.Minute},
		Campaign:   config.CampaignConfig{Timezone: "America/Anchorage"},
	}
}

func newEnv(t *testing.T, mutate ...func(*config.Config, *Deps)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := database.NewMemoryDB()
	require.NoError(t, err)

	cfg := testConfig()
	mail := &fakeSender{}
	deps := Deps{Mailer: mail}
	for _, m := range mutate {
		m(cfg, &deps)
	}
	app := Setup(cfg, db, deps)
	srv := httptest.NewServer(app.Engine)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testEnv{t: t, app: app, cfg: cfg, srv: srv, client: &http.Client{Jar: jar}, mail: mail}
}

func (e *testEnv) do(method, path string, body interface{}) (int, map[string]interface{}) {
	e.t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(e.t, err)
			r = bytes.NewReader(raw)
		}
	}
	req, err := http.NewRequest(method, e.srv.URL+path, r)
	require.NoError(e.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.client.Do(req)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	_ = json.Unmarshal(data, &out)
	return resp.StatusCode, out
}

func (e *testEnv) raw(path string) (*http.Response, string) {
	e.t.Helper()
	resp, err := e.client.Get(e.srv.URL + path)
	require.NoError(e.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return resp, string(data)
}

func (e *testEnv) login() {
	e.t.Helper()
	code, body := e.do(http.MethodPost, "/api/admin/login", map[string]string{"password": adminPassword})
	require.Equal(e.t, http.StatusOK, code, body)
}

func (e *testEnv) sessionID() string {
	e.t.Helper()
	u, _ := url.Parse(e.srv.URL)
	for _, c := range e.client.Jar.Cookies(u) {
		if c.Name == e.cfg.Session.CookieName {
			claims, err := auth.ParseSessionToken(&e.cfg.Session, c.Value)
			require.NoError(e.t, err)
			return claims.SessionID
		}
	}
	return ""
}

func TestSubmitLead(t *testing.T) {
	env := newEnv(t)
	code, body := env.do(http.MethodPost, "/api/submit-lead", map[string]string{
		"name": "Jane Doe", "email": "jane@example.com", "businessName": "Smith, Inc.",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Jane Doe", data["name"])
	assert.NotZero(t, data["id"])

	env.app.Notifier.Wait()
	assert.Equal(t, 1, env.mail.count())
}

func TestInvalidEmailRejectedEverywhere(t *testing.T) {
	env := newEnv(t)
	paths := map[string]map[string]interface{}{
		"/api/submit-lead":              {"name": "A"},
		"/api/subscribe-newsletter":     {},
		"/api/request-quote":            {"name": "A"},
		"/api/book-consultation":        {"name": "A"},
		"/api/email-marketing-waitlist": {},
		"/api/print-materials-waitlist": {"materialTypes": []string{"flyers"}},
		"/api/solo-mailer-waitlist":     {},
		"/api/landing-pages-waitlist":   {},
	}
	for path, body := range paths {
		body["email"] = "not-an-email"
		code, resp := env.do(http.MethodPost, path, body)
		assert.Equal(t, http.StatusBadRequest, code, path)
		assert.Equal(t, false, resp["success"], path)
		assert.Equal(t, "Invalid email address", resp["error"], path)
	}

	env.login()
	code, resp := env.do(http.MethodGet, "/api/admin/summary", nil)
	require.Equal(t, http.StatusOK, code)
	for entity, n := range resp["data"].(map[string]interface{}) {
		assert.EqualValues(t, 0, n, entity)
	}
	env.app.Notifier.Wait()
	assert.Zero(t, env.mail.count())
}

func TestUniqueEmailEntities(t *testing.T) {
	env := newEnv(t)
	cases := map[string]map[string]interface{}{
		"/api/subscribe-newsletter":     {},
		"/api/email-marketing-waitlist": {"serviceTypes": []string{"newsletters"}},
		"/api/print-materials-waitlist": {"materialTypes": []string{"flyers"}},
		"/api/solo-mailer-waitlist":     {},
		"/api/landing-pages-waitlist":   {"interestAreas": []string{"lead capture"}},
	}
	for path, body := range cases {
		body["email"] = "dup@example.com"
		code, _ := env.do(http.MethodPost, path, body)
		assert.Equal(t, http.StatusOK, code, path)
		code, resp := env.do(http.MethodPost, path, body)
		assert.Equal(t, http.StatusBadRequest, code, path)
		assert.Equal(t, false, resp["success"], path)
		assert.Contains(t, resp["details"], "email", path)
	}
}

func TestPrintMaterialsNeedsMaterialType(t *testing.T) {
	env := newEnv(t)
	code, resp := env.do(http.MethodPost, "/api/print-materials-waitlist", map[string]interface{}{
		"email": "p@example.com", "materialTypes": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Please select at least one material type", resp["error"])

	code, _ = env.do(http.MethodPost, "/api/print-materials-waitlist", map[string]interface{}{
		"email": "p@example.com", "materialTypes": []string{"postcards"},
	})
	assert.Equal(t, http.StatusOK, code)
}

func TestMalformedBody(t *testing.T) {
	env := newEnv(t)
	code, resp := env.do(http.MethodPost, "/api/submit-lead", "{not json")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid request body", resp["error"])
}

func TestAdminRequiresLogin(t *testing.T) {
	env := newEnv(t)
	for _, path := range []string{
		"/api/admin/leads",
		"/api/admin/newsletter-subscribers",
		"/api/admin/blog-posts",
		"/api/admin/export/leads",
		"/api/admin/summary",
	} {
		code, resp := env.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, code, path)
		assert.Equal(t, "Unauthorized", resp["error"], path)
	}
	code, _ := env.do(http.MethodPut, "/api/admin/campaign-settings", map[string]string{"deadlineDate": "2025-01-01T00:00"})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = env.do(http.MethodPost, "/api/admin/blog-posts", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)

	_, status := env.do(http.MethodGet, "/api/admin/status", nil)
	assert.Equal(t, false, status["isAuthenticated"])

	env.login()
	code, resp := env.do(http.MethodGet, "/api/admin/leads", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["success"])
	assert.EqualValues(t, 0, resp["count"])
	assert.Equal(t, []interface{}{}, resp["data"])

	_, status = env.do(http.MethodGet, "/api/admin/status", nil)
	assert.Equal(t, true, status["isAuthenticated"])

	code, _ = env.do(http.MethodPost, "/api/admin/logout", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = env.do(http.MethodGet, "/api/admin/leads", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLoginFailures(t *testing.T) {
	env := newEnv(t)
	code, resp := env.do(http.MethodPost, "/api/admin/login", map[string]string{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid password", resp["error"])

	unset := newEnv(t, func(c *config.Config, _ *Deps) { c.Admin.Password = "" })
	code, _ = unset.do(http.MethodPost, "/api/admin/login", map[string]string{"password": ""})
	assert.Equal(t, http.StatusInternalServerError, code)
	code, _ = unset.do(http.MethodGet, "/api/admin/leads", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLoginRegeneratesSessionID(t *testing.T) {
	env := newEnv(t)
	planted, err := env.app.Sessions.Regenerate(context.Background(), nil)
	require.NoError(t, err)
	token, err := auth.GenerateSessionToken(&env.cfg.Session, planted.ID, planted.ExpiresAt)
	require.NoError(t, err)
	u, _ := url.Parse(env.srv.URL)
	env.client.Jar.SetCookies(u, []*http.Cookie{{Name: "admin_session", Value: token, Path: "/"}})
	require.Equal(t, planted.ID, env.sessionID())

	env.login()
	after := env.sessionID()
	assert.NotEmpty(t, after)
	assert.NotEqual(t, planted.ID, after)

	gone, err := env.app.Sessions.Get(context.Background(), planted.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestExportCSV(t *testing.T) {
	env := newEnv(t)
	code, _ := env.do(http.MethodPost, "/api/submit-lead", map[string]string{
		"name": "Jane", "email": "jane@example.com", "businessName": "Smith, Inc.",
	})
	require.Equal(t, http.StatusOK, code)
	code, _ = env.do(http.MethodPost, "/api/submit-lead", map[string]string{
		"name": "Bob", "email": "bob@example.com", "phone": "907-555-0100",
	})
	require.Equal(t, http.StatusOK, code)

	env.login()
	resp, body := env.raw("/api/admin/export/leads")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "attachment; filename=leads.csv", resp.Header.Get("Content-Disposition"))

	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "businessName,createdAt,email,id,name,phone", lines[0])
	assert.Contains(t, lines[1], "bob@example.com")
	assert.True(t, strings.HasPrefix(lines[1], ","), "Bob has no business name")
	assert.True(t, strings.HasSuffix(lines[1], ",Bob,907-555-0100"))
	assert.True(t, strings.HasPrefix(lines[2], `"Smith, Inc.",`))
	assert.True(t, strings.HasSuffix(lines[2], ",Jane,"), "Jane has no phone")

	resp, body = env.raw("/api/admin/export/consultation-bookings")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "No data available\n", body)
}

func TestBlogLifecycle(t *testing.T) {
	env := newEnv(t)
	env.login()

	code, resp := env.do(http.MethodPost, "/api/admin/blog-posts", map[string]interface{}{
		"title": "Direct Mail 101", "slug": "direct-mail-101", "excerpt": "Basics",
		"content": "## Why\n\nIt **works**.", "published": false,
	})
	require.Equal(t, http.StatusOK, code, resp)
	post := resp["data"].(map[string]interface{})
	id := int(post["id"].(float64))
	assert.Nil(t, post["publishedAt"])

	notFound, draft := env.do(http.MethodGet, "/api/blog-posts/direct-mail-101", nil)
	assert.Equal(t, http.StatusNotFound, notFound)
	neverCode, never := env.do(http.MethodGet, "/api/blog-posts/never-created", nil)
	assert.Equal(t, http.StatusNotFound, neverCode)
	assert.Equal(t, never, draft)
	assert.Equal(t, "Blog post not found", never["error"])

	code, resp = env.do(http.MethodPatch, "/api/admin/blog-posts/"+itoa(id), map[string]interface{}{"published": true})
	require.Equal(t, http.StatusOK, code, resp)

	code, resp = env.do(http.MethodGet, "/api/blog-posts/direct-mail-101", nil)
	require.Equal(t, http.StatusOK, code)
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["publishedAt"])
	assert.Contains(t, data["contentHtml"], "<strong>works</strong>")

	code, resp = env.do(http.MethodGet, "/api/blog-posts", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["data"], 1)

	code, resp = env.do(http.MethodPost, "/api/admin/blog-posts", map[string]interface{}{
		"title": "Bad", "slug": "Not Valid", "excerpt": "e", "content": "c",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, resp["details"], "slug")

	code, resp = env.do(http.MethodPost, "/api/admin/blog-posts", map[string]interface{}{
		"title": "Dup", "slug": "direct-mail-101", "excerpt": "e", "content": "c",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, resp["details"], "slug")

	code, resp = env.do(http.MethodGet, "/api/admin/blog-posts", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, resp["count"])

	code, _ = env.do(http.MethodDelete, "/api/admin/blog-posts/"+itoa(id), nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = env.do(http.MethodDelete, "/api/admin/blog-posts/"+itoa(id), nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = env.do(http.MethodGet, "/api/blog-posts/direct-mail-101", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

type stubImages struct{}

func (stubImages) UploadImage(_ context.Context, file io.Reader, folder, publicID string) (*cloudinary.UploadResult, error) {
	_, _ = io.Copy(io.Discard, file)
	return &cloudinary.UploadResult{URL: "https://img.example.com/" + folder + "/" + publicID, PublicID: publicID}, nil
}
func (stubImages) Delete(context.Context, string) error { return nil }
func (stubImages) Enabled() bool                        { return true }

func uploadCover(t *testing.T, env *testEnv, id int) (int, map[string]interface{}) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="cover.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, env.srv.URL+"/api/admin/blog-posts/"+itoa(id)+"/cover", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := env.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestCoverUpload(t *testing.T) {
	env := newEnv(t)
	env.login()
	_, resp := env.do(http.MethodPost, "/api/admin/blog-posts", map[string]interface{}{
		"title": "Covered", "slug": "covered", "excerpt": "e", "content": "c",
	})
	id := int(resp["data"].(map[string]interface{})["id"].(float64))
	code, _ := uploadCover(t, env, id)
	assert.Equal(t, http.StatusServiceUnavailable, code)

	withImages := newEnv(t, func(_ *config.Config, d *Deps) { d.Images = stubImages{} })
	withImages.login()
	_, resp = withImages.do(http.MethodPost, "/api/admin/blog-posts", map[string]interface{}{
		"title": "Covered", "slug": "covered", "excerpt": "e", "content": "c",
	})
	id = int(resp["data"].(map[string]interface{})["id"].(float64))
	code, resp = uploadCover(t, withImages, id)
	require.Equal(t, http.StatusOK, code, resp)
	cover := resp["data"].(map[string]interface{})["coverImageUrl"].(string)
	assert.True(t, strings.HasPrefix(cover, "https://img.example.com/blog/covered-"))
}

func TestCampaignSettings(t *testing.T) {
	env := newEnv(t)
	code, resp := env.do(http.MethodGet, "/api/campaign-settings", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, resp["data"])

	env.login()
	code, resp = env.do(http.MethodPut, "/api/admin/campaign-settings", map[string]string{"date": "2025-03-15", "time": "17:00"})
	require.Equal(t, http.StatusOK, code, resp)
	firstID := resp["data"].(map[string]interface{})["id"]

	code, resp = env.do(http.MethodPut, "/api/admin/campaign-settings", map[string]string{"deadlineDate": "2025-06-01T09:30:00Z"})
	require.Equal(t, http.StatusOK, code, resp)
	assert.Equal(t, firstID, resp["data"].(map[string]interface{})["id"])

	code, resp = env.do(http.MethodGet, "/api/campaign-settings", nil)
	require.Equal(t, http.StatusOK, code)
	deadline, err := time.Parse(time.RFC3339, resp["data"].(map[string]interface{})["deadlineDate"].(string))
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC).Equal(deadline))

	code, resp = env.do(http.MethodPut, "/api/admin/campaign-settings", map[string]string{"deadlineDate": "soon"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid date and time", resp["error"])
}

func TestFormSchemasAndHealth(t *testing.T) {
	env := newEnv(t)
	code, resp := env.do(http.MethodGet, "/api/form-schemas", nil)
	require.Equal(t, http.StatusOK, code)
	data := resp["data"].(map[string]interface{})
	assert.Contains(t, data, "leads")
	assert.Contains(t, data, "print-materials-waitlist")

	code, resp = env.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp["status"])
}

func TestIntakeRateLimited(t *testing.T) {
	env := newEnv(t, func(c *config.Config, _ *Deps) { c.RateLimit.Requests = 1 })
	code, _ := env.do(http.MethodPost, "/api/subscribe-newsletter", map[string]string{"email": "a@example.com"})
	assert.Equal(t, http.StatusOK, code)
	code, _ = env.do(http.MethodPost, "/api/subscribe-newsletter", map[string]string{"email": "b@example.com"})
	assert.Equal(t, http.StatusTooManyRequests, code)
	code, _ = env.do(http.MethodGet, "/api/blog-posts", nil)
	assert.Equal(t, http.StatusOK, code)
}

func postFrom(t *testing.T, env *testEnv, path, forwardedFor string, body interface{}) int {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, env.srv.URL+path, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	resp, err := env.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeers(t *testing.T) {
	env := newEnv(t, func(c *config.Config, _ *Deps) { c.RateLimit.Requests = 1 })
	for i := 1; i <= 5; i++ {
		code := postFrom(t, env, "/api/admin/login", "10.0.0."+itoa(i), map[string]string{"password": "wrong"})
		if i == 1 {
			assert.Equal(t, http.StatusUnauthorized, code)
			continue
		}
		assert.Equal(t, http.StatusTooManyRequests, code, "attempt %d", i)
	}
}

func TestRateLimitHonoursTrustedProxy(t *testing.T) {
	env := newEnv(t, func(c *config.Config, _ *Deps) {
		c.RateLimit.Requests = 1
		c.Server.TrustedProxies = []string{"127.0.0.1", "::1"}
	})
	for i := 1; i <= 3; i++ {
		code := postFrom(t, env, "/api/admin/login", "10.0.0."+itoa(i), map[string]string{"password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, code, "client %d has its own window", i)
	}
	code := postFrom(t, env, "/api/admin/login", "10.0.0.1", map[string]string{"password": "wrong"})
	assert.Equal(t, http.StatusTooManyRequests, code)
}

func TestConcurrentDuplicateEmail(t *testing.T) {
	env := newEnv(t)
	const n = 20
	type result struct {
		code int
		body map[string]interface{}
	}
	results := make([]result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			raw, _ := json.Marshal(map[string]string{"email": "Race@Example.com "})
			resp, err := http.Post(env.srv.URL+"/api/solo-mailer-waitlist", "application/json", bytes.NewReader(raw))
			if err != nil {
				return
			}
			defer resp.Body.Close()
			results[i].code = resp.StatusCode
			_ = json.NewDecoder(resp.Body).Decode(&results[i].body)
		}(i)
	}
	wg.Wait()

	codes := map[int]int{}
	for _, r := range results {
		codes[r.code]++
		if r.code == http.StatusBadRequest {
			details, _ := r.body["details"].(map[string]interface{})
			assert.Equal(t, "This email is already on the waitlist", details["email"])
		}
	}
	assert.Equal(t, map[int]int{http.StatusOK: 1, http.StatusBadRequest: n - 1}, codes)

	env.login()
	_, resp := env.do(http.MethodGet, "/api/admin/solo-mailer-waitlist", nil)
	assert.EqualValues(t, 1, resp["count"])
	rows := resp["data"].([]interface{})
	assert.Equal(t, "race@example.com", rows[0].(map[string]interface{})["email"])
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
