package main

import (
	"fmt"
	"log/slog"

	"github.com/autoscheduler/autoscheduler/internal/config"
)

// loadAppConfig loads the application configuration from environment
// variables or the config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"backend_source", cfg.Backend.Source)

	if cfg.Database.URL != "" {
		slog.Debug("Database configuration", "url_present", true)
	}

	return cfg, nil
}
