package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/yndnr/docserve-go/internal/infra/buildinfo"
	"github.com/yndnr/docserve-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the ops router.
type RouterConfig struct {
	// Metrics is exposed on /metrics.
	Metrics *metric.Registry

	// Ready reports whether the file server listener is bound.
	// Nil means always ready.
	Ready func() bool

	// Logger for request logging.
	Logger *slog.Logger
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

// NewRouter creates the ops router with its middleware chain.
func NewRouter(cfg *RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		status, code := "ok", http.StatusOK
		if cfg.Ready != nil && !cfg.Ready() {
			status, code = "starting", http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:  status,
			Version: buildinfo.Version,
			Time:    time.Now().UTC().Format(time.RFC3339),
		})
	})

	return Chain(mux, Recover(logger), RequestID(), Access(logger))
}
