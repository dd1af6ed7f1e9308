package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/docserve-go/internal/core/service"
	"github.com/yndnr/docserve-go/internal/infra/buildinfo"
	"github.com/yndnr/docserve-go/internal/infra/confloader"
	"github.com/yndnr/docserve-go/internal/infra/shutdown"
	"github.com/yndnr/docserve-go/internal/server/config"
	"github.com/yndnr/docserve-go/internal/server/fileserver"
	"github.com/yndnr/docserve-go/internal/server/httpserver"
	"github.com/yndnr/docserve-go/internal/telemetry/logger"
	"github.com/yndnr/docserve-go/internal/telemetry/metric"
)

// shutdownTimeout bounds draining in-flight connections.
const shutdownTimeout = 30 * time.Second

// flagKeys maps flag names to the configuration keys they override.
var flagKeys = map[string]string{
	"host":       "server.host",
	"port":       "server.port",
	"root":       "server.root_dir",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "docserve-server",
		Usage:   "Serve a directory of static files over HTTP",
		Version: buildinfo.String(),
		Flags:   serverFlags(),
		Action:  serve,
	}
}

func serverFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to YAML configuration file",
			EnvVars: []string{"DOCSERVE_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "host",
			Usage:   "Listen host",
			EnvVars: []string{"DOCSERVE_SERVER_HOST"},
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Listen port",
			EnvVars: []string{"DOCSERVE_SERVER_PORT"},
		},
		&cli.StringFlag{
			Name:    "root",
			Aliases: []string{"r"},
			Usage:   "Document root directory",
			EnvVars: []string{"DOCSERVE_SERVER_ROOT_DIR"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level: debug, info, warn, error",
			EnvVars: []string{"DOCSERVE_LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "Log format: json, text",
			EnvVars: []string{"DOCSERVE_LOG_FORMAT"},
		},
	}
}

// flagOverrides collects the flags that were set explicitly.
func flagOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	for name, key := range flagKeys {
		if !c.IsSet(name) {
			continue
		}
		if name == "port" {
			overrides[key] = c.Int(name)
		} else {
			overrides[key] = c.String(name)
		}
	}
	return overrides
}

func loaderOptions(c *cli.Context) []confloader.Option {
	opts := []confloader.Option{confloader.WithOverrides(flagOverrides(c))}
	if path := c.String("config"); path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	return opts
}

// loadConfig layers defaults, file, env and flags, then validates.
func loadConfig(opts ...confloader.Option) (*config.ServerConfig, error) {
	cfg := config.Default()
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func serve(c *cli.Context) error {
	opts := loaderOptions(c)
	cfg, err := loadConfig(opts...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(log)

	log.Info("starting docserve-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", c.String("config"))
	log.Debug("effective configuration", config.Describe(cfg)...)

	resolver, err := service.NewResolver(cfg.Server.RootDir)
	if err != nil {
		return fmt.Errorf("document root: %w", err)
	}
	metrics := metric.NewRegistry()

	fs := fileserver.New(&fileserver.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadBufferSize: cfg.Server.ReadBufferSize,
		ChunkSize:      cfg.Server.ChunkSize,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxConnections: cfg.Server.MaxConnections,
		RateLimit:      cfg.Server.RateLimit,
		RateBurst:      cfg.Server.RateBurst,
		ServerName:     buildinfo.ServerHeader(),
	}, resolver, service.NewContentTypes(cfg.Content.SniffUnknown), metrics, log)

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	sh := shutdown.NewHandler(shutdownTimeout)

	serveErr := make(chan error, 1)
	go func() {
		if err := fs.ListenAndServe(ctx); err != nil {
			log.Error("file server stopped", "error", err)
			serveErr <- err
			sh.Trigger()
		}
	}()
	sh.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down file server")
		return fs.Shutdown(ctx)
	})

	if cfg.Metrics.Enabled {
		ops := httpserver.New(cfg.Metrics.Addr, httpserver.NewRouter(&httpserver.RouterConfig{
			Metrics: metrics,
			Ready:   func() bool { return fs.Addr() != nil },
			Logger:  log,
		}))
		go func() {
			log.Info("ops server listening", "addr", cfg.Metrics.Addr)
			if err := ops.ListenAndServe(); err != nil {
				log.Error("ops server error", "error", err)
			}
		}()
		sh.OnShutdown(func(ctx context.Context) error {
			log.Info("shutting down ops server")
			return ops.Shutdown(ctx)
		})
	}

	if cfg.Log.Watch {
		stop, err := watchLogLevel(opts, log)
		if err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		sh.OnShutdown(func(context.Context) error { return stop() })
	}

	waitErr := sh.Wait(ctx)

	select {
	case err := <-serveErr:
		return err
	default:
	}
	if waitErr != nil {
		log.Error("shutdown error", "error", waitErr)
		return waitErr
	}
	log.Info("server stopped gracefully", "reason", sh.Reason())
	return nil
}

// watchLogLevel re-reads the configuration whenever the config file named in
// opts changes and applies log.level. Other settings need a restart.
// Without a config file nothing is watched.
func watchLogLevel(opts []confloader.Option, log *slog.Logger) (func() error, error) {
	path := confloader.NewLoader(opts...).FilePath()
	if path == "" {
		log.Warn("log.watch is set but no config file was given")
		return func() error { return nil }, nil
	}

	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}
	w.OnChange(func(string) { reloadLogLevel(opts, log) })
	w.StartAsync()
	return w.Stop, nil
}

func reloadLogLevel(opts []confloader.Option, log *slog.Logger) {
	cfg := config.Default()
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		log.Warn("config reload failed, keeping current log level", "error", err)
		return
	}
	if _, err := logger.ParseLevel(cfg.Log.Level); err != nil {
		log.Warn("config reload has invalid log level", "level", cfg.Log.Level, "error", err)
		return
	}
	if old := logger.GetLevel(); old != cfg.Log.Level {
		logger.SetLevel(cfg.Log.Level)
		log.Info("log level changed", "from", old, "to", logger.GetLevel())
	}
}
