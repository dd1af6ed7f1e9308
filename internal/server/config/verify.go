// Package config defines the server configuration structure.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyMetrics(&cfg.Metrics); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.Host == "" {
		return errors.New("server.host is required")
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("server.port %d out of range 0-65535", cfg.Port)
	}
	if cfg.RootDir == "" {
		return errors.New("server.root_dir is required")
	}

	info, err := os.Stat(cfg.RootDir)
	if err != nil {
		return fmt.Errorf("server.root_dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("server.root_dir %q is not a directory", cfg.RootDir)
	}

	if cfg.ReadBufferSize < 16 {
		return errors.New("server.read_buffer_size must be at least 16")
	}
	if cfg.ChunkSize < 1 {
		return errors.New("server.chunk_size must be positive")
	}
	if cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 {
		return errors.New("server timeouts must not be negative")
	}
	if cfg.MaxConnections < 0 {
		return errors.New("server.max_connections must not be negative")
	}
	if cfg.RateLimit < 0 || cfg.RateBurst < 0 {
		return errors.New("server.rate_limit and server.rate_burst must not be negative")
	}
	return nil
}

func verifyMetrics(cfg *MetricsSection) error {
	if !cfg.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return fmt.Errorf("metrics.addr %q: %w", cfg.Addr, err)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
	default:
		return fmt.Errorf("log.format %q is not one of json, text", cfg.Format)
	}
	return nil
}
