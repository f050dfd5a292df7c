package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"dario.cat/mergo"
)

// layer is one configuration source before validation. A zero field means
// the source does not set it.
type layer struct {
	Host      string         `yaml:"host" json:"host" toml:"host"`
	Port      uint16         `yaml:"port" json:"port" toml:"port"`
	Log       string         `yaml:"log" json:"log" toml:"log"`
	Site      siteLayer      `yaml:"site" json:"site" toml:"site"`
	Assets    []AssetSource  `yaml:"assets" json:"assets" toml:"assets"`
	Server    serverLayer    `yaml:"server" json:"server" toml:"server"`
	RateLimit rateLimitLayer `yaml:"rate_limit" json:"rate_limit" toml:"rate_limit"`
}

type siteLayer struct {
	Title    string `yaml:"title" json:"title" toml:"title"`
	Language string `yaml:"language" json:"language" toml:"language"`
	Base     string `yaml:"base" json:"base" toml:"base"`
}

type serverLayer struct {
	ReadHeaderTimeout   string `yaml:"read_header_timeout" json:"read_header_timeout" toml:"read_header_timeout"`
	WriteTimeout        string `yaml:"write_timeout" json:"write_timeout" toml:"write_timeout"`
	IdleTimeout         string `yaml:"idle_timeout" json:"idle_timeout" toml:"idle_timeout"`
	ShutdownGracePeriod string `yaml:"shutdown_grace_period" json:"shutdown_grace_period" toml:"shutdown_grace_period"`
}

type rateLimitLayer struct {
	RPS   float64 `yaml:"rps" json:"rps" toml:"rps"`
	Burst int     `yaml:"burst" json:"burst" toml:"burst"`
}

// Load reads the configuration file at path, overlays WEBSITE_* environment
// variables and fills the remaining gaps with defaults.
// Precedence: Environment variables > Config file > Defaults.
func Load(path string) (Settings, error) {
	return newLoader().
		withDefaults().
		withFile(path).
		withEnv().
		build()
}

// loader collects layers from the lowest to the highest precedence. The
// first failing source stops the chain.
type loader struct {
	layers []layer
	err    error
}

func newLoader() *loader {
	return &loader{
		layers: make([]layer, 0, 3),
	}
}

func (b *loader) withDefaults() *loader {
	if b.err != nil {
		return b
	}
	b.layers = append(b.layers, defaultLayer())
	return b
}

func (b *loader) withFile(path string) *loader {
	if b.err != nil {
		return b
	}
	fileLayer, err := decodeFile(path)
	if err != nil {
		b.err = err
		return b
	}
	b.layers = append(b.layers, fileLayer)
	return b
}

func (b *loader) withEnv() *loader {
	if b.err != nil {
		return b
	}
	envLayer, err := parseEnv()
	if err != nil {
		b.err = err
		return b
	}
	b.layers = append(b.layers, envLayer)
	return b
}

// build folds the layers from the highest precedence down. Each layer only
// fills fields still unset by the layers above it.
func (b *loader) build() (Settings, error) {
	if b.err != nil {
		return Settings{}, b.err
	}

	var merged layer
	for i := len(b.layers) - 1; i >= 0; i-- {
		if err := mergo.Merge(&merged, b.layers[i]); err != nil {
			return Settings{}, fmt.Errorf("merge configuration layers: %w", err)
		}
	}
	return merged.settings()
}

func defaultLayer() layer {
	return layer{
		Host: defaultHost,
		Port: defaultPort,
		Log:  defaultLog,
		Site: siteLayer{
			Language: defaultLanguage,
		},
		Server: serverLayer{
			ReadHeaderTimeout:   defaultReadHeaderTimeout,
			WriteTimeout:        defaultWriteTimeout,
			IdleTimeout:         defaultIdleTimeout,
			ShutdownGracePeriod: defaultShutdownGracePeriod,
		},
	}
}

// settings validates the merged layer and converts it to Settings.
func (l layer) settings() (Settings, error) {
	if strings.TrimSpace(l.Site.Title) == "" {
		return Settings{}, missingField("site.title")
	}
	base, err := parseBaseURL(l.Site.Base)
	if err != nil {
		return Settings{}, err
	}

	assets := make([]AssetSource, 0, len(l.Assets))
	for i, asset := range l.Assets {
		if err := validateAsset(i, asset); err != nil {
			return Settings{}, err
		}
		assets = append(assets, asset)
	}

	timeouts, err := l.Server.timeouts()
	if err != nil {
		return Settings{}, err
	}

	if l.RateLimit.RPS < 0 {
		return Settings{}, &FieldError{Field: "rate_limit.rps", Reason: "must be >= 0"}
	}
	if l.RateLimit.Burst < 0 {
		return Settings{}, &FieldError{Field: "rate_limit.burst", Reason: "must be >= 0"}
	}

	return Settings{
		Host: l.Host,
		Port: l.Port,
		Log:  l.Log,
		Site: Site{
			Title:    l.Site.Title,
			Language: l.Site.Language,
			Base:     base,
		},
		Assets: assets,
		Server: timeouts,
		RateLimit: RateLimit{
			RPS:   l.RateLimit.RPS,
			Burst: l.RateLimit.Burst,
		},
	}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, missingField("site.base")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, &FieldError{Field: "site.base", Reason: err.Error()}
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, &FieldError{Field: "site.base", Reason: fmt.Sprintf("%q is not an absolute URL", raw)}
	}
	return base, nil
}

func validateAsset(i int, asset AssetSource) error {
	switch {
	case asset.Route == "":
		return missingField(fmt.Sprintf("assets[%d].route", i))
	case !strings.HasPrefix(asset.Route, "/"):
		return &FieldError{Field: fmt.Sprintf("assets[%d].route", i), Reason: "must start with /"}
	case asset.Path == "":
		return missingField(fmt.Sprintf("assets[%d].path", i))
	}
	return nil
}

func (s serverLayer) timeouts() (ServerTimeouts, error) {
	var t ServerTimeouts
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"server.read_header_timeout", s.ReadHeaderTimeout, &t.ReadHeaderTimeout},
		{"server.write_timeout", s.WriteTimeout, &t.WriteTimeout},
		{"server.idle_timeout", s.IdleTimeout, &t.IdleTimeout},
		{"server.shutdown_grace_period", s.ShutdownGracePeriod, &t.ShutdownGracePeriod},
	}
	for _, f := range fields {
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return ServerTimeouts{}, &FieldError{Field: f.name, Reason: err.Error()}
		}
		if d < 0 {
			return ServerTimeouts{}, &FieldError{Field: f.name, Reason: "must not be negative"}
		}
		*f.dst = d
	}
	return t, nil
}
