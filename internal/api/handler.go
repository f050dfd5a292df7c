package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/website/internal/state"
	"github.com/eugenenazirov/website/internal/views"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler serves the site pages from the shared application state.
type Handler struct {
	state  *state.AppState
	logger *zap.Logger

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler reading from st.
func NewHandler(st *state.AppState, logger *zap.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{
		state:  st,
		logger: logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	h.logRenderError(r, Render(w, r, views.Home(h.state.Site())))
}

// handleNotFound renders the 404 page for any path without a route.
func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	page := views.NotFound(h.state.Site(), r.URL.RequestURI())
	h.logRenderError(r, RenderStatus(w, r, http.StatusNotFound, page))
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Title:     h.state.Site().Title,
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) logRenderError(r *http.Request, err error) {
	if err == nil {
		return
	}
	h.logger.Error("failed to render template",
		zap.String("path", r.URL.Path),
		zap.String("request_id", requestIDFromContext(r.Context())),
		zap.Error(err),
	)
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type healthResponse struct {
	Status    string    `json:"status"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{
		Error:   message,
		Details: details,
	})
}
