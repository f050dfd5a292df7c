package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"unicode/utf8"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/website/internal/application"
	"github.com/eugenenazirov/website/internal/config"
	"github.com/eugenenazirov/website/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	configFile, err := parseFlags(os.Args[1:])
	if err != nil {
		exitWithError(os.Stderr, config.Origin{}, err)
	}

	settings, origin, err := config.Resolve(config.NewLocator(), configFile)
	if err != nil {
		exitWithError(os.Stderr, origin, err)
	}

	logger, err := logging.New(settings.Log)
	if err != nil {
		exitWithError(os.Stderr, origin, err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("configuration loaded",
		zap.Stringer("origin", origin),
		zap.String("addr", settings.Addr()),
		zap.String("site", settings.Site.Title),
		zap.Int("assets", len(settings.Assets)),
	)

	app, err := application.New(settings, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), settings.Server, logger)
}

// parseFlags returns the explicit configuration path, empty when not given.
// The flag is also bound to WEBSITE_CONFIG; a path delivered that way is
// still treated as explicit, and must be valid UTF-8.
func parseFlags(args []string) (string, error) {
	kingpinApp := kingpin.New("website", "Serves a small website described by a configuration file")
	configFile := kingpinApp.Flag("config", "Path to a TOML, YAML or JSON configuration file").
		Short('c').
		Envar(config.EnvFile).
		String()

	if _, err := kingpinApp.Parse(args); err != nil {
		return "", err
	}
	if !utf8.ValidString(*configFile) {
		if value, ok := os.LookupEnv(config.EnvFile); ok && value == *configFile {
			return "", fmt.Errorf("%w: %s", config.ErrEnvNotUTF8, config.EnvFile)
		}
	}
	return *configFile, nil
}

// exitWithError reports a startup failure and terminates with status 1.
func exitWithError(w io.Writer, origin config.Origin, err error) {
	fmt.Fprintln(w, startupError(origin, err))
	os.Exit(1)
}

func startupError(origin config.Origin, err error) string {
	if origin.Path == "" {
		return fmt.Sprintf("website: %v", err)
	}
	return fmt.Sprintf("website: %s: %v", origin, err)
}

// shutdown blocks until SIGINT or SIGTERM, then gives in-flight requests
// the configured grace period before closing the listener outright.
func shutdown(server *http.Server, timeouts config.ServerTimeouts, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.Info("shutting down server",
		zap.Stringer("signal", sig),
		zap.Duration("grace_period", timeouts.ShutdownGracePeriod),
	)

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.ShutdownGracePeriod)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
