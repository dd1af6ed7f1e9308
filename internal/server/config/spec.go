// Package config defines the server configuration structure.
package config

import (
	"net"
	"strconv"
	"time"
)

// ServerConfig is the root configuration for docserve-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Content ContentSection `koanf:"content"`
	Metrics MetricsSection `koanf:"metrics"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures the file server listener and its per-connection limits.
type ServerSection struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// RootDir is the document root. It is canonicalized once at startup.
	RootDir string `koanf:"root_dir"`

	// ReadBufferSize caps the bytes read for the request head.
	ReadBufferSize int `koanf:"read_buffer_size"`

	// ChunkSize is the size of each body write while streaming a file.
	ChunkSize int `koanf:"chunk_size"`

	// ReadTimeout and WriteTimeout bound socket I/O per connection.
	// Zero disables the deadline.
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// MaxConnections bounds concurrently handled connections. Zero is unbounded.
	MaxConnections int `koanf:"max_connections"`

	// RateLimit is the accepted connections per second per client IP.
	// Zero disables rate limiting. RateBurst defaults to RateLimit.
	RateLimit int `koanf:"rate_limit"`
	RateBurst int `koanf:"rate_burst"`
}

// Addr returns the host:port listen address.
func (s ServerSection) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// ContentSection configures content type detection.
type ContentSection struct {
	// SniffUnknown inspects file content when the extension is not in the table.
	SniffUnknown bool `koanf:"sniff_unknown"`
}

// MetricsSection configures the ops HTTP server exposing /metrics and /healthz.
type MetricsSection struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`

	// Watch reloads the log level when the config file changes.
	Watch bool `koanf:"watch"`
}
