package application

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/eugenenazirov/website/internal/api"
	"github.com/eugenenazirov/website/internal/config"
	"github.com/eugenenazirov/website/internal/state"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	state   *state.AppState
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New builds the shared state, the router and the HTTP server from settings.
func New(settings config.Settings, logger *zap.Logger) (*App, error) {
	st, err := state.New(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to build application state: %w", err)
	}

	handler := api.NewHandler(st, logger)
	router := api.NewRouter(handler, logger,
		api.WithLogging(logger.Core().Enabled(zap.InfoLevel)),
		api.WithRateLimit(settings.RateLimit.RPS, settings.RateLimit.Burst),
		api.WithAssets(settings.Assets),
	)

	return &App{
		state:   st,
		handler: handler,
		router:  router,
		logger:  logger,
		server:  NewServer(settings, router),
	}, nil
}

// NewServer creates and configures an HTTP server from settings.
func NewServer(settings config.Settings, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              settings.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: settings.Server.ReadHeaderTimeout,
		WriteTimeout:      settings.Server.WriteTimeout,
		IdleTimeout:       settings.Server.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
