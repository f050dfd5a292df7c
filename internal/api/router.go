package api

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/eugenenazirov/website/internal/config"
)

// RouterOption configures the behaviour of NewRouter.
type RouterOption func(*routerConfig)

// WithLogging controls whether access logs are emitted.
func WithLogging(enabled bool) RouterOption {
	return func(cfg *routerConfig) {
		cfg.enableLogging = enabled
	}
}

// WithRateLimiter overrides the request rate limiter (primarily for tests).
func WithRateLimiter(limiter rateLimiter) RouterOption {
	return func(cfg *routerConfig) {
		cfg.rateLimiter = limiter
	}
}

// WithRateLimit enables a token bucket limiter shared by all requests.
// A non-positive rps leaves the router unlimited.
func WithRateLimit(rps float64, burst int) RouterOption {
	return func(cfg *routerConfig) {
		if rps <= 0 {
			cfg.rateLimiter = nil
			return
		}
		cfg.rateLimiter = newTokenBucketLimiter(rps, burst)
	}
}

// WithAssets mounts each source in order. A later source on the same route
// replaces an earlier one.
func WithAssets(assets []config.AssetSource) RouterOption {
	return func(cfg *routerConfig) {
		cfg.assets = append(cfg.assets, assets...)
	}
}

type routerConfig struct {
	enableLogging bool
	logger        *zap.Logger
	rateLimiter   rateLimiter
	assets        []config.AssetSource
}

// NewRouter creates the site router with standard middleware. Unmatched
// paths render the not-found page.
func NewRouter(handler *Handler, logger *zap.Logger, opts ...RouterOption) http.Handler {
	cfg := routerConfig{
		enableLogging: true,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(rateLimitMiddleware(cfg.rateLimiter))
	if cfg.enableLogging {
		r.Use(loggingMiddleware(cfg.logger))
	}
	r.Use(recoveryMiddleware(cfg.logger))
	r.Use(securityHeaders)
	r.Use(middleware.GetHead)
	r.Use(middleware.Compress(5))

	for _, asset := range cfg.assets {
		mountAssets(r, asset, http.HandlerFunc(handler.handleNotFound))
	}

	r.Get("/", handler.handleHome)
	r.Get("/api/health", handler.handleHealth)
	r.NotFound(handler.handleNotFound)

	return r
}

// mountAssets serves asset.Path under asset.Route. The bare route redirects
// to its slash-terminated form; a missing file renders the not-found page.
func mountAssets(r chi.Router, asset config.AssetSource, notFound http.Handler) {
	route := strings.TrimRight(asset.Route, "/")
	files := assetHandler{
		root:     http.Dir(asset.Path),
		files:    http.FileServer(http.Dir(asset.Path)),
		notFound: notFound,
	}

	if route != "" {
		r.Handle(route, http.RedirectHandler(route+"/", http.StatusMovedPermanently))
	}
	r.Handle(route+"/*", http.StripPrefix(route, files))
}

type assetHandler struct {
	root     http.FileSystem
	files    http.Handler
	notFound http.Handler
}

func (a assetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Path
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	f, err := a.root.Open(path.Clean(name))
	if err != nil {
		a.notFound.ServeHTTP(w, restoreURL(r))
		return
	}
	_ = f.Close()

	immutableCache(a.files).ServeHTTP(w, r)
}

// restoreURL undoes http.StripPrefix so the not-found page echoes the
// path the client asked for.
func restoreURL(r *http.Request) *http.Request {
	if r.RequestURI == "" {
		return r
	}
	orig, err := url.ParseRequestURI(r.RequestURI)
	if err != nil {
		return r
	}
	r2 := r.Clone(r.Context())
	r2.URL = orig
	return r2
}
