// Package state derives the runtime state shared by every request handler.
// It holds only what pages need at request time; listen address, log level
// and other transport settings stay in config.Settings.
package state

import (
	"net/url"

	"github.com/eugenenazirov/website/internal/config"
)

// AppState is built once before the server accepts connections and is read
// concurrently afterwards without locking. Nothing may mutate it.
type AppState struct {
	site *config.Site
}

// New derives an AppState from settings. The Site is deep-copied so later
// changes to settings cannot reach request handlers. It cannot fail today;
// the error is reserved for derivations that acquire resources.
func New(settings config.Settings) (*AppState, error) {
	site := settings.Site
	if settings.Site.Base != nil {
		site.Base = cloneURL(settings.Site.Base)
	}
	return &AppState{site: &site}, nil
}

// Site returns the shared site metadata. Callers must treat it as read-only.
func (s *AppState) Site() *config.Site {
	return s.site
}

func cloneURL(u *url.URL) *url.URL {
	clone := *u
	if u.User != nil {
		user := *u.User
		clone.User = &user
	}
	return &clone
}
