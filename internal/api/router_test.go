package api

import (
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/website/internal/config"
)

func newTestRouter(t *testing.T, opts ...RouterOption) http.Handler {
	t.Helper()
	logger := zaptest.NewLogger(t)
	return NewRouter(NewHandler(newTestState(t), logger), logger, opts...)
}

func assetDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write asset: %v", err)
		}
	}
	return dir
}

func TestLoggingMiddleware(t *testing.T) {
	logger := zaptest.NewLogger(t)
	var called bool
	handler := loggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatalf("expected handler to be called")
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rec.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := zaptest.NewLogger(t)
	handler := recoveryMiddleware(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rec.Code)
	}
}

func TestResponseRecorderWriteHeader(t *testing.T) {
	underlying := httptest.NewRecorder()
	rec := &responseRecorder{ResponseWriter: underlying}
	rec.WriteHeader(http.StatusTeapot)

	if rec.status != http.StatusTeapot {
		t.Fatalf("expected status to be recorded")
	}
	if underlying.Code != http.StatusTeapot {
		t.Fatalf("expected status to propagate to ResponseWriter")
	}
}

func TestRequestIDMiddlewareGeneratesID(t *testing.T) {
	var seen string
	handler := requestIDMiddleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = requestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatalf("expected request id in context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Fatalf("expected header %q to match context id %q", got, seen)
	}
}

func TestRouterEchoesRequestID(t *testing.T) {
	router := newTestRouter(t, WithLogging(false))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("expected request id to be echoed, got %q", got)
	}
}

func TestRouterServesHome(t *testing.T) {
	router := newTestRouter(t, WithLogging(false))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Acme") {
		t.Fatalf("expected site title in home page")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected security headers on page response")
	}
}

func TestRouterNotFoundFallback(t *testing.T) {
	router := newTestRouter(t, WithLogging(false))

	for _, path := range []string{"/does-not-exist", "/a/b/c", "/api/unknown"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), path) {
			t.Fatalf("%s: expected path echoed in body, got %q", path, rec.Body.String())
		}
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, WithLogging(false))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestRouterHeadHome(t *testing.T) {
	router := newTestRouter(t, WithLogging(false))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for HEAD, got %d", rec.Code)
	}
}

func TestRouterServesAssets(t *testing.T) {
	dir := assetDir(t, map[string]string{"app.css": "body{color:red}"})
	router := newTestRouter(t, WithLogging(false), WithAssets([]config.AssetSource{
		{Route: "/static", Path: dir},
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "body{color:red}" {
		t.Fatalf("unexpected asset body %q", rec.Body.String())
	}
	if cc := rec.Header().Get("Cache-Control"); !strings.Contains(cc, "max-age=31536000") {
		t.Fatalf("expected long cache-control, got %q", cc)
	}
}

func TestRouterAssetRouteWithTrailingSlash(t *testing.T) {
	dir := assetDir(t, map[string]string{"logo.txt": "logo"})
	router := newTestRouter(t, WithLogging(false), WithAssets([]config.AssetSource{
		{Route: "/img/", Path: dir},
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/img/logo.txt", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "logo" {
		t.Fatalf("expected asset, got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/img", nil))
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("expected redirect for bare route, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/img/" {
		t.Fatalf("expected redirect to /img/, got %q", loc)
	}
}

func TestRouterLaterAssetMountWins(t *testing.T) {
	first := assetDir(t, map[string]string{"a.txt": "first"})
	second := assetDir(t, map[string]string{"a.txt": "second"})
	router := newTestRouter(t, WithLogging(false), WithAssets([]config.AssetSource{
		{Route: "/files", Path: first},
		{Route: "/files", Path: second},
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/a.txt", nil))

	if rec.Body.String() != "second" {
		t.Fatalf("expected later mount to win, got %q", rec.Body.String())
	}
}

func TestRouterCompressesPages(t *testing.T) {
	router := newTestRouter(t, WithLogging(false))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip encoded response")
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("open gzip body: %v", err)
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read gzip body: %v", err)
	}
	if !strings.Contains(string(body), "Acme") {
		t.Fatalf("expected site title in decompressed body")
	}
}

func TestWithRateLimiterOptionAppliesLimiter(t *testing.T) {
	router := newTestRouter(t, WithLogging(false), WithRateLimiter(&staticLimiter{allow: false}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected rate limiter to block request, got %d", rec.Code)
	}
}

func TestWithRateLimitDisablesLimiterWhenZero(t *testing.T) {
	router := newTestRouter(t, WithLogging(false), WithRateLimiter(&staticLimiter{allow: false}), WithRateLimit(0, 0))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected request to pass without limiter, got %d", rec.Code)
	}
}

func TestWithRateLimitRejectsAfterBurst(t *testing.T) {
	router := newTestRouter(t, WithLogging(false), WithRateLimit(0.001, 1))

	codes := make([]int, 0, 2)
	for _i := 0; _i < 2; _i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("expected [200 429], got %v", codes)
	}
}

func TestRouterMissingAssetRendersNotFoundPage(t *testing.T) {
	dir := assetDir(t, map[string]string{"app.css": "body{}"})
	router := newTestRouter(t, WithLogging(false), WithAssets([]config.AssetSource{
		{Route: "/static", Path: dir},
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/missing.css", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("expected rendered page, got %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "/static/missing.css") {
		t.Fatalf("expected full request path echoed, got %q", rec.Body.String())
	}
	if rec.Header().Get("Cache-Control") != "" {
		t.Fatalf("expected no cache header on a missing asset")
	}
}

func TestRouterRootAssetMountKeepsPages(t *testing.T) {
	dir := assetDir(t, map[string]string{"favicon.ico": "icon"})
	router := newTestRouter(t, WithLogging(false), WithAssets([]config.AssetSource{
		{Route: "/", Path: dir},
	}))

	cases := []struct {
		path   string
		status int
		want   string
	}{
		{"/", http.StatusOK, "<h1>Acme</h1>"},
		{"/favicon.ico", http.StatusOK, "icon"},
		{"/does-not-exist", http.StatusNotFound, "/does-not-exist"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

		if rec.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.status, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), tc.want) {
			t.Fatalf("%s: expected body to contain %q, got %q", tc.path, tc.want, rec.Body.String())
		}
	}
}
