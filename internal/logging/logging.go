package logging

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var errEmptyLevel = errors.New("empty log level")

// New creates a production-ready structured logger configured for JSON output
// at the given level. Besides the zap level names it accepts "trace" and
// "warning"; "off" disables logging. A comma-separated filter list such as
// "website=debug,http=info" resolves to its most verbose level.
func New(level string) (*zap.Logger, error) {
	lvl, off, err := parseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	if off {
		return zap.NewNop(), nil
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.StacktraceKey = "stacktrace"
	cfg.DisableStacktrace = false

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// parseLevel reports off when every directive is "off".
func parseLevel(spec string) (zapcore.Level, bool, error) {
	var (
		lowest zapcore.Level
		found  bool
		seen   bool
	)
	for _, directive := range strings.Split(spec, ",") {
		directive = strings.ToLower(strings.TrimSpace(directive))
		if directive == "" {
			continue
		}
		seen = true
		if _, lvl, ok := strings.Cut(directive, "="); ok {
			directive = strings.TrimSpace(lvl)
		}
		if directive == "off" {
			continue
		}

		lvl, err := zapcore.ParseLevel(aliasLevel(directive))
		if err != nil {
			return 0, false, err
		}
		if !found || lvl < lowest {
			lowest = lvl
		}
		found = true
	}

	switch {
	case !seen:
		return 0, false, errEmptyLevel
	case !found:
		return 0, true, nil
	}
	return lowest, false, nil
}

func aliasLevel(level string) string {
	switch level {
	case "trace":
		return "debug"
	case "warning":
		return "warn"
	default:
		return level
	}
}
