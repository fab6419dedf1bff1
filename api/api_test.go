package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/lifecycle"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rpupo63/portfolio-backend/storage"
)

const (
	testUsername = "admin"
	testPassword = "correct horse battery staple"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type testServer struct {
	router   *chi.Mux
	projects *database.MemoryProjectRepo
	objects  *storage.MemoryStore
	now      time.Time
}

func newTestServer(t *testing.T, overrides map[string]string) *testServer {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	c := map[string]string{
		"JWT_SECRET":          "test-secret",
		"ADMIN_USERNAME":      testUsername,
		"ADMIN_PASSWORD_HASH": string(hash),
		"ACCEPTED_ORIGINS":    "https://portfolio.test",
		"REQUEST_LOGGING":     "false",
		"SECURE_COOKIES":      "false",
	}
	for k, v := range overrides {
		c[k] = v
	}

	ts := &testServer{
		projects: database.NewMemoryProjectRepo(),
		objects:  storage.NewMemoryStore("https://cdn.test"),
		now:      time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	manager := lifecycle.NewManager(ts.projects, ts.objects,
		lifecycle.WithClock(func() time.Time { return ts.now }),
		lifecycle.WithSlugSuffix(func() string { return "abcde" }),
	)
	ts.router = newRouter(Services{
		Manager:      manager,
		Sweeper:      lifecycle.NewSweeper(manager, "", 0),
		Contacts:     services.NewContactService(database.NewMemoryContactRepo()),
		Profile:      services.NewProfileService(database.NewMemorySettingsRepo(), ts.objects),
		Descriptions: services.NewDescriptionGenerator(nil),
	}, withConfig(c))
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) doJSON(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(b)
	}
	return ts.do(t, method, path, token, body, "application/json")
}

func (ts *testServer) login(t *testing.T) string {
	t.Helper()
	rec := ts.doJSON(t, http.MethodPost, "/admin/login", "", LoginRequest{Username: testUsername, Password: testPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body)
	}
	var resp LoginResponse
	decode(t, rec, &resp)
	if resp.Token == "" {
		t.Fatal("login returned no token")
	}
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func projectPayload(title string) map[string]any {
	return map[string]any{
		"title":       title,
		"category":    "Photography",
		"description": "A short story in pictures.",
		"skills":      "Lightroom, Composition",
		"goal":        "Show the city at night",
		"process":     "Long exposures",
		"outcome":     "A gallery exhibition",
		"mediaUrl":    "https://images.example.com/night.jpg",
	}
}

func TestProjectLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.login(t)

	rec := ts.doJSON(t, http.MethodPost, "/admin/project", token, projectPayload("Night City"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	var created models.Project
	decode(t, rec, &created)
	if created.Slug != "night-city" || len(created.Skills) != 2 || created.OwnerID != testUsername {
		t.Fatalf("unexpected project %+v", created)
	}

	rec = ts.do(t, http.MethodGet, "/project/night-city", "", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get by slug status = %d", rec.Code)
	}

	rec = ts.do(t, http.MethodPost, "/project/"+created.ID+"/like", "", nil, "")
	var like LikeResponse
	decode(t, rec, &like)
	if rec.Code != http.StatusOK || like.Likes != 1 {
		t.Fatalf("like = %d %+v", rec.Code, like)
	}

	rec = ts.do(t, http.MethodDelete, "/admin/bin/"+created.ID, token, nil, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("purge of active project status = %d, want 409", rec.Code)
	}

	rec = ts.do(t, http.MethodDelete, "/admin/project/"+created.ID, token, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("soft delete status = %d: %s", rec.Code, rec.Body)
	}

	rec = ts.do(t, http.MethodGet, "/project/night-city", "", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("binned project by slug status = %d, want 404", rec.Code)
	}
	rec = ts.do(t, http.MethodPost, "/project/"+created.ID+"/like", "", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("like on binned project status = %d, want 404", rec.Code)
	}

	var public ProjectCollection
	decode(t, ts.do(t, http.MethodGet, "/projects", "", nil, ""), &public)
	if public.Total != 0 {
		t.Fatalf("public list has %d projects after soft delete", public.Total)
	}

	ts.now = ts.now.Add(12 * 24 * time.Hour)
	rec = ts.do(t, http.MethodGet, "/admin/bin", token, nil, "")
	var bin struct {
		Projects []struct {
			ID            string `json:"id"`
			DaysRemaining int    `json:"daysRemaining"`
			Status        string `json:"status"`
		} `json:"projects"`
		RetentionDays int `json:"retentionDays"`
	}
	decode(t, rec, &bin)
	if len(bin.Projects) != 1 || bin.Projects[0].DaysRemaining != 18 || bin.Projects[0].Status != "in 18 days" {
		t.Fatalf("bin = %+v", bin)
	}
	if bin.RetentionDays != lifecycle.DefaultRetentionDays {
		t.Errorf("retentionDays = %d", bin.RetentionDays)
	}

	rec = ts.do(t, http.MethodPost, "/admin/bin/"+created.ID+"/restore", token, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("restore status = %d", rec.Code)
	}
	decode(t, ts.do(t, http.MethodGet, "/projects", "", nil, ""), &public)
	if public.Total != 1 || public.Projects[0].Likes != 1 {
		t.Fatalf("restored project missing or lost its likes: %+v", public)
	}

	ts.do(t, http.MethodDelete, "/admin/project/"+created.ID, token, nil, "")
	rec = ts.do(t, http.MethodDelete, "/admin/bin/"+created.ID, token, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("purge status = %d: %s", rec.Code, rec.Body)
	}
	rec = ts.do(t, http.MethodDelete, "/admin/bin/"+created.ID, token, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("second purge status = %d, want 200", rec.Code)
	}
	rec = ts.do(t, http.MethodGet, "/admin/project/"+created.ID, token, nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("purged project status = %d, want 404", rec.Code)
	}
}

func TestUpdateProjectPartial(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.login(t)

	var created models.Project
	decode(t, ts.doJSON(t, http.MethodPost, "/admin/project", token, projectPayload("Night City")), &created)

	rec := ts.doJSON(t, http.MethodPatch, "/admin/project/"+created.ID, token, map[string]any{
		"category": "Film",
		"skills":   []string{"Premiere"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body)
	}
	var updated models.Project
	decode(t, rec, &updated)
	if updated.Category != "Film" || updated.Title != "Night City" || len(updated.Skills) != 1 || updated.Skills[0] != "Premiere" {
		t.Fatalf("unexpected update result %+v", updated)
	}

	rec = ts.doJSON(t, http.MethodPatch, "/admin/project/"+created.ID, token, map[string]any{"title": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank title status = %d, want 400", rec.Code)
	}
	var errResp ErrorResponse
	decode(t, rec, &errResp)
	if errResp.Field != "title" {
		t.Errorf("field = %q, want title", errResp.Field)
	}
}

func TestCreateProjectMultipart(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.login(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range projectPayload("Studio Shots") {
		if k == "mediaUrl" {
			continue
		}
		mw.WriteField(k, v.(string))
	}
	part, err := mw.CreateFormFile("media", "cover.png")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write(pngHeader)
	mw.Close()

	rec := ts.do(t, http.MethodPost, "/admin/project", token, &buf, mw.FormDataContentType())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	var created models.Project
	decode(t, rec, &created)
	if created.MediaType != models.MediaTypeImage || created.MediaPath == "" {
		t.Fatalf("unexpected media fields %+v", created)
	}
	if !strings.HasPrefix(created.MediaPath, "media/") || !strings.HasSuffix(created.MediaPath, ".png") {
		t.Errorf("MediaPath = %q", created.MediaPath)
	}
	if !ts.objects.Has(created.MediaPath) {
		t.Error("uploaded media not in object store")
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t, nil)

	if rec := ts.do(t, http.MethodGet, "/admin/projects", "", nil, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d", rec.Code)
	}
	if rec := ts.do(t, http.MethodGet, "/admin/projects", "not-a-jwt", nil, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d", rec.Code)
	}

	other := newJWTAuth("some-other-secret")
	forged, _, err := other.Issue(testUsername)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if rec := ts.do(t, http.MethodGet, "/admin/projects", forged, nil, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("foreign token status = %d", rec.Code)
	}

	token := ts.login(t)
	req := httptest.NewRequest(http.MethodGet, "/admin/projects", nil)
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: token})
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cookie auth status = %d", rec.Code)
	}
}

type staticVerifier string

func (v staticVerifier) Verify(_ context.Context, token string) (string, error) {
	if token != string(v) {
		return "", io.EOF
	}
	return "external-user", nil
}

func TestExtraVerifierAccepted(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.router = newRouter(Services{
		Manager: lifecycle.NewManager(ts.projects, ts.objects),
	}, withConfig(map[string]string{"REQUEST_LOGGING": "false"}), withVerifier(staticVerifier("session-token")))

	if rec := ts.do(t, http.MethodGet, "/admin/projects", "session-token", nil, ""); rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	// verifier failures that are not token rejections still answer 401
	if rec := ts.do(t, http.MethodGet, "/admin/projects", "other-token", nil, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("unverifiable token status = %d", rec.Code)
	}
}

func TestJWTVerifyRejections(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	auth := newJWTAuth("test-secret")
	auth.now = func() time.Time { return now }

	token, _, err := auth.Issue("admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if subject, err := auth.Verify(context.Background(), token); err != nil || subject != "admin" {
		t.Fatalf("Verify = %q, %v", subject, err)
	}

	if _, err := auth.Verify(context.Background(), "not-a-jwt"); !errs.IsInvalidTokenError(err) {
		t.Errorf("garbage token: %v", err)
	}
	now = now.Add(tokenTTL + time.Minute)
	if _, err := auth.Verify(context.Background(), token); !errs.IsInvalidTokenError(err) {
		t.Errorf("expired token: %v", err)
	}
}

func TestUnknownRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/nowhere", "", nil, "")
	var resp ErrorResponse
	decode(t, rec, &resp)
	if rec.Code != http.StatusNotFound || resp.Status != "error" {
		t.Fatalf("unknown route = %d %+v", rec.Code, resp)
	}

	rec = ts.do(t, http.MethodPut, "/projects", "", nil, "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("wrong method status = %d, want 405", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.doJSON(t, http.MethodPost, "/admin/login", "", LoginRequest{Username: testUsername, Password: "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d", rec.Code)
	}
	rec = ts.doJSON(t, http.MethodPost, "/admin/login", "", LoginRequest{Username: "someone", Password: testPassword})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong username status = %d", rec.Code)
	}

	rec = ts.doJSON(t, http.MethodPost, "/admin/login", "", LoginRequest{Username: testUsername, Password: testPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}
	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == authCookieName && c.Value != "" && c.HttpOnly {
			found = true
		}
	}
	if !found {
		t.Error("auth cookie not set")
	}
}

func TestLoginDisabledWithoutPasswordHash(t *testing.T) {
	ts := newTestServer(t, map[string]string{"ADMIN_PASSWORD_HASH": ""})
	rec := ts.doJSON(t, http.MethodPost, "/admin/login", "", LoginRequest{Username: testUsername, Password: testPassword})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestLikeRateLimited(t *testing.T) {
	ts := newTestServer(t, map[string]string{"LIKE_RATE_PER_MINUTE": "1", "LIKE_RATE_BURST": "2"})
	token := ts.login(t)
	var created models.Project
	decode(t, ts.doJSON(t, http.MethodPost, "/admin/project", token, projectPayload("Night City")), &created)

	for i := 0; i < 2; i++ {
		if rec := ts.do(t, http.MethodPost, "/project/"+created.ID+"/like", "", nil, ""); rec.Code != http.StatusOK {
			t.Fatalf("like %d status = %d", i, rec.Code)
		}
	}
	rec := ts.do(t, http.MethodPost, "/project/"+created.ID+"/like", "", nil, "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}

	// a forged forwarding header does not buy a fresh bucket
	req := httptest.NewRequest(http.MethodPost, "/project/"+created.ID+"/like", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	spoofed := httptest.NewRecorder()
	ts.router.ServeHTTP(spoofed, req)
	if spoofed.Code != http.StatusTooManyRequests {
		t.Fatalf("spoofed header status = %d, want 429", spoofed.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/project/"+created.ID+"/like", nil)
	req.RemoteAddr = "198.51.100.7:4242"
	other := httptest.NewRecorder()
	ts.router.ServeHTTP(other, req)
	if other.Code != http.StatusOK {
		t.Fatalf("other client status = %d, want 200", other.Code)
	}
}

func TestLikeRateLimitBehindTrustedProxy(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"LIKE_RATE_PER_MINUTE": "1",
		"LIKE_RATE_BURST":      "1",
		"TRUSTED_PROXY":        "true",
	})
	token := ts.login(t)
	var created models.Project
	decode(t, ts.doJSON(t, http.MethodPost, "/admin/project", token, projectPayload("Harbour")), &created)

	like := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/project/"+created.ID+"/like", nil)
		req.Header.Set("X-Forwarded-For", forwardedFor)
		rec := httptest.NewRecorder()
		ts.router.ServeHTTP(rec, req)
		return rec.Code
	}
	if code := like("203.0.113.9, 10.0.0.1"); code != http.StatusOK {
		t.Fatalf("first like status = %d", code)
	}
	if code := like("203.0.113.9, 10.0.0.2"); code != http.StatusTooManyRequests {
		t.Fatalf("same client status = %d, want 429", code)
	}
	if code := like("203.0.113.10, 10.0.0.1"); code != http.StatusOK {
		t.Fatalf("other client status = %d, want 200", code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	req.Header.Set("X-Real-IP", "203.0.113.10")

	if got := clientIP(req, false); got != "192.0.2.1" {
		t.Errorf("untrusted clientIP = %q", got)
	}
	if got := clientIP(req, true); got != "203.0.113.9" {
		t.Errorf("trusted clientIP = %q", got)
	}
	req.Header.Del("X-Forwarded-For")
	if got := clientIP(req, true); got != "203.0.113.10" {
		t.Errorf("trusted clientIP with X-Real-IP = %q", got)
	}
}

func TestContactEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.doJSON(t, http.MethodPost, "/contact", "", services.ContactInput{
		Name: "Ada", Email: "ada@example.com", Message: "Loved the night series.",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("contact status = %d: %s", rec.Code, rec.Body)
	}

	rec = ts.doJSON(t, http.MethodPost, "/contact", "", services.ContactInput{Name: "Ada", Email: "nope", Message: "Loved the night series."})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid contact status = %d", rec.Code)
	}

	rec = ts.do(t, http.MethodPost, "/contact", "", strings.NewReader("{"), "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed contact status = %d", rec.Code)
	}

	token := ts.login(t)
	var list ContactCollection
	decode(t, ts.do(t, http.MethodGet, "/admin/contacts", token, nil, ""), &list)
	if list.Total != 1 || list.Messages[0].Email != "ada@example.com" {
		t.Fatalf("contacts = %+v", list)
	}
}

func TestAvatarEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.login(t)

	var avatar AvatarResponse
	decode(t, ts.do(t, http.MethodGet, "/profile/avatar", "", nil, ""), &avatar)
	if avatar.URL != "" {
		t.Fatalf("avatar before upload = %q", avatar.URL)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("avatar", "me.png")
	part.Write(pngHeader)
	mw.Close()

	rec := ts.do(t, http.MethodPost, "/admin/avatar", token, &buf, mw.FormDataContentType())
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d: %s", rec.Code, rec.Body)
	}
	decode(t, ts.do(t, http.MethodGet, "/profile/avatar", "", nil, ""), &avatar)
	if !strings.Contains(avatar.URL, services.AvatarPath) {
		t.Fatalf("avatar url = %q", avatar.URL)
	}
}

func TestGenerateDescriptionDisabled(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.login(t)

	rec := ts.doJSON(t, http.MethodPost, "/admin/generate-description", token, map[string]any{
		"projectName":               "Night City",
		"projectCategory":           "Photography",
		"projectSkills":             "Lightroom, Long exposure",
		"projectDescriptionDetails": "Three winter nights downtown.",
		"targetAudience":            "Curators",
	})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestSweepNow(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.login(t)

	var created models.Project
	decode(t, ts.doJSON(t, http.MethodPost, "/admin/project", token, projectPayload("Night City")), &created)
	ts.do(t, http.MethodDelete, "/admin/project/"+created.ID, token, nil, "")

	ts.now = ts.now.Add(31 * 24 * time.Hour)
	token = ts.login(t)
	rec := ts.do(t, http.MethodPost, "/admin/bin/sweep", token, nil, "")
	var sweep SweepResponse
	decode(t, rec, &sweep)
	if rec.Code != http.StatusOK || sweep.Purged != 1 {
		t.Fatalf("sweep = %d %+v", rec.Code, sweep)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, nil)

	var health HealthResponse
	rec := ts.do(t, http.MethodGet, "/healthz", "", nil, "")
	decode(t, rec, &health)
	if rec.Code != http.StatusOK || health.Status != "ok" {
		t.Fatalf("health = %d %+v", rec.Code, health)
	}

	rec = ts.do(t, http.MethodGet, "/metrics", "", nil, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "portfolio_http_requests_total") {
		t.Fatalf("metrics status = %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/contact", nil)
	req.Header.Set("Origin", "https://evil.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("disallowed origin status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodOptions, "/contact", nil)
	req.Header.Set("Origin", "https://portfolio.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://portfolio.test" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}
