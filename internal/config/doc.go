// Package config resolves the single configuration of a server run. A
// Locator picks the configuration file (explicit path > default search paths
// > WEBSITE_CONFIG), and Load layers that file with WEBSITE_* environment
// overrides and built-in defaults, with precedence:
// Environment variables > Config file > Defaults.
// The result is a validated, immutable Settings value.
package config
