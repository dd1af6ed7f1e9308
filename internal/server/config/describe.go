// Package config defines the server configuration structure.
package config

// Describe flattens the effective configuration into slog key/value pairs
// for the startup log line. The config holds no secrets, so nothing is masked.
func Describe(cfg *ServerConfig) []any {
	return []any{
		"server.addr", cfg.Server.Addr(),
		"server.root_dir", cfg.Server.RootDir,
		"server.read_buffer_size", cfg.Server.ReadBufferSize,
		"server.chunk_size", cfg.Server.ChunkSize,
		"server.read_timeout", cfg.Server.ReadTimeout.String(),
		"server.write_timeout", cfg.Server.WriteTimeout.String(),
		"server.max_connections", cfg.Server.MaxConnections,
		"server.rate_limit", cfg.Server.RateLimit,
		"content.sniff_unknown", cfg.Content.SniffUnknown,
		"metrics.enabled", cfg.Metrics.Enabled,
		"metrics.addr", cfg.Metrics.Addr,
		"log.level", cfg.Log.Level,
		"log.format", cfg.Log.Format,
	}
}
