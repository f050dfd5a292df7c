package config

import (
	"net"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultFileName is the first name tried in every entry of SearchPaths.
	DefaultFileName = "website.toml"
	// EnvPrefix prefixes every environment variable overriding a field,
	// e.g. WEBSITE_SITE_TITLE overrides site.title.
	EnvPrefix = "WEBSITE"
	// EnvFile names a configuration file directly. It is also bound to the
	// --config flag.
	EnvFile = "WEBSITE_CONFIG"

	defaultHost     = "0.0.0.0"
	defaultPort     = 8080
	defaultLog      = "error"
	defaultLanguage = "en"

	defaultReadHeaderTimeout   = "5s"
	defaultWriteTimeout        = "15s"
	defaultIdleTimeout         = "60s"
	defaultShutdownGracePeriod = "10s"
)

// SearchPaths are the directories searched, in order, for FileNames when no
// explicit path is given.
var SearchPaths = []string{"."}

// FileNames are tried in order within each search path.
var FileNames = []string{DefaultFileName, "website.yaml", "website.yml", "website.json"}

// Site is the metadata every rendered page needs.
type Site struct {
	Title    string
	Language string
	Base     *url.URL
}

// AssetSource mounts the files under Path on the URL prefix Route.
type AssetSource struct {
	Route string `yaml:"route" json:"route" toml:"route"`
	Path  string `yaml:"path" json:"path" toml:"path"`
}

// ServerTimeouts tunes the HTTP server.
type ServerTimeouts struct {
	ReadHeaderTimeout   time.Duration
	WriteTimeout        time.Duration
	IdleTimeout         time.Duration
	ShutdownGracePeriod time.Duration
}

// RateLimit configures the request limiter. A zero RPS disables it; a zero
// Burst with a positive RPS allows bursts of one.
type RateLimit struct {
	RPS   float64
	Burst int
}

// Settings is the fully resolved configuration of one process run. It is
// built once at startup and never mutated afterwards.
type Settings struct {
	Host      string
	Port      uint16
	Log       string
	Site      Site
	Assets    []AssetSource
	Server    ServerTimeouts
	RateLimit RateLimit
}

// Addr returns the listen address derived from Host and Port.
func (s Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(int(s.Port)))
}
