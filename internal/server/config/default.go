// Package config defines the server configuration structure.
package config

// Default configuration values.
const (
	DefaultHost    = "127.0.0.1"
	DefaultPort    = 8080
	DefaultRootDir = "public"

	DefaultReadBufferSize = 1024
	DefaultChunkSize      = 8192

	DefaultMetricsAddr = "127.0.0.1:9180"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Host:           DefaultHost,
			Port:           DefaultPort,
			RootDir:        DefaultRootDir,
			ReadBufferSize: DefaultReadBufferSize,
			ChunkSize:      DefaultChunkSize,
		},
		Metrics: MetricsSection{
			Enabled: false,
			Addr:    DefaultMetricsAddr,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
