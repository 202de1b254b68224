package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/flipdeck/internal/config"
	"github.com/phrazzld/flipdeck/internal/platform/logger"
)

// loadConfigAndLogger loads configuration and sets up the process logger.
func loadConfigAndLogger(path string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"match_delay", cfg.Session.MatchDelay,
		"session_idle_ttl", cfg.Session.IdleTTL)
	if cfg.Auth.JWTSecret != "" {
		log.Debug("auth configuration", "jwt_secret_present", true)
	}
	return cfg, log, nil
}
