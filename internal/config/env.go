package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envLayer mirrors layer for the WEBSITE_* variables. Assets cannot be set
// from the environment.
type envLayer struct {
	Host      string       `env:"HOST"`
	Port      uint16       `env:"PORT"`
	Log       string       `env:"LOG"`
	Site      envSite      `envPrefix:"SITE_"`
	Server    envServer    `envPrefix:"SERVER_"`
	RateLimit envRateLimit `envPrefix:"RATE_LIMIT_"`
}

type envSite struct {
	Title    string `env:"TITLE"`
	Language string `env:"LANGUAGE"`
	Base     string `env:"BASE"`
}

type envServer struct {
	ReadHeaderTimeout   string `env:"READ_HEADER_TIMEOUT"`
	WriteTimeout        string `env:"WRITE_TIMEOUT"`
	IdleTimeout         string `env:"IDLE_TIMEOUT"`
	ShutdownGracePeriod string `env:"SHUTDOWN_GRACE_PERIOD"`
}

type envRateLimit struct {
	RPS   float64 `env:"RPS"`
	Burst int     `env:"BURST"`
}

// parseEnv reads the WEBSITE_* variables. A value that does not convert to
// its field type is reported as a FieldError. An empty value leaves the
// field unset.
func parseEnv() (layer, error) {
	var e envLayer
	if err := env.ParseWithOptions(&e, env.Options{Prefix: EnvPrefix + "_"}); err != nil {
		return layer{}, &FieldError{Reason: fmt.Sprintf("environment: %v", err)}
	}

	return layer{
		Host: e.Host,
		Port: e.Port,
		Log:  e.Log,
		Site: siteLayer{
			Title:    e.Site.Title,
			Language: e.Site.Language,
			Base:     e.Site.Base,
		},
		Server: serverLayer{
			ReadHeaderTimeout:   e.Server.ReadHeaderTimeout,
			WriteTimeout:        e.Server.WriteTimeout,
			IdleTimeout:         e.Server.IdleTimeout,
			ShutdownGracePeriod: e.Server.ShutdownGracePeriod,
		},
		RateLimit: rateLimitLayer{
			RPS:   e.RateLimit.RPS,
			Burst: e.RateLimit.Burst,
		},
	}, nil
}
