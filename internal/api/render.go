package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
)

const renderFailureMessage = "Failed to render template"

// Render writes page as a 200 HTML response. If page fails to render the
// response is a 500 carrying the renderer error instead.
func Render(w http.ResponseWriter, r *http.Request, page templ.Component) error {
	return writePage(w, r, http.StatusOK, http.StatusInternalServerError, page)
}

// RenderStatus writes page as an HTML response with status. The status is
// kept even when rendering fails.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, page templ.Component) error {
	return writePage(w, r, status, status, page)
}

// writePage renders into a buffer first so a failing page never leaves a
// half-written body behind. The returned error is for logging only; the
// response has already been written.
func writePage(w http.ResponseWriter, r *http.Request, status, failStatus int, page templ.Component) error {
	buf, err := renderPage(r, page)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(failStatus)
		_, _ = fmt.Fprintf(w, "%s. Error: %v", renderFailureMessage, err)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

func renderPage(r *http.Request, page templ.Component) (buf *bytes.Buffer, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic while rendering: %v", rec)
		}
	}()

	buf = new(bytes.Buffer)
	if page == nil {
		return nil, fmt.Errorf("no page to render")
	}
	if err := page.Render(r.Context(), buf); err != nil {
		return nil, err
	}
	return buf, nil
}
