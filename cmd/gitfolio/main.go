// gitfolio settings server — resolves plugin pipelines from a settings
// file and serves resolution over HTTP.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/gitfolio/gitfolio/pkg/api"
	"github.com/gitfolio/gitfolio/pkg/config"
	"github.com/gitfolio/gitfolio/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func setupLogging(level string) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.LogLevel(level).SlogLevel(),
	})))
}

func main() {
	settingsPath := flag.String("settings",
		getEnv("GITFOLIO_SETTINGS", config.DefaultSettingsFile),
		"Path to the settings file")
	logLevel := flag.String("log-level",
		getEnv("LOG_LEVEL", "info"),
		"Process log level (error, warn, info, debug)")
	check := flag.Bool("check", false,
		"Resolve the settings file, print stats and exit")
	flag.Parse()

	setupLogging(*logLevel)

	// Load .env before the settings file; the default token and the
	// document's {{.VAR}} references come from the environment.
	if err := godotenv.Load(); err != nil {
		slog.Warn("Could not load .env file, continuing with existing environment", "error", err)
	} else {
		slog.Info("Loaded environment", "path", ".env")
	}

	slog.Info("Starting gitfolio",
		"version", version.Full(),
		"settings", *settingsPath)

	cfg, err := config.Load(*settingsPath)
	if err != nil {
		slog.Error("Failed to load settings", "error", err)
		os.Exit(1)
	}

	if *check {
		stats := cfg.Stats()
		slog.Info("Settings are valid",
			"plugins", stats.Plugins,
			"nops", stats.Nops,
			"processors", stats.Processors,
			"presets", stats.Presets)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(cfg)
	if err := server.Run(ctx); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
	slog.Info("Shutdown complete")
}
