package fileserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/yndnr/docserve-go/internal/core/domain"
	"github.com/yndnr/docserve-go/internal/core/service"
	"github.com/yndnr/docserve-go/internal/infra/buildinfo"
	"github.com/yndnr/docserve-go/internal/telemetry/metric"
)

// Lifecycle errors returned by ListenAndServe.
var (
	ErrServerStarted = errors.New("fileserver: server already started")
	ErrServerClosed  = errors.New("fileserver: server closed")
)

// Default sizes for reading the request head and streaming the body.
const (
	DefaultReadBufferSize = 1024
	DefaultChunkSize      = 8192
)

// Config holds the file server configuration.
type Config struct {
	Host string
	Port int

	// ReadBufferSize caps the bytes read while looking for the request line.
	ReadBufferSize int
	// ChunkSize is the size of each body write.
	ChunkSize int

	// ReadTimeout and WriteTimeout set per-connection socket deadlines.
	// Zero leaves the socket without a deadline.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MaxConnections bounds concurrently handled connections. Zero is unbounded.
	MaxConnections int
	// RateLimit is the accepted connections per second per client IP.
	// Zero disables rate limiting.
	RateLimit int
	RateBurst int

	// ServerName is the value of the Server header.
	ServerName string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:           "127.0.0.1",
		Port:           8080,
		ReadBufferSize: DefaultReadBufferSize,
		ChunkSize:      DefaultChunkSize,
		ServerName:     buildinfo.ServerHeader(),
	}
}

// Server accepts TCP connections and serves files from a document root.
type Server struct {
	cfg      *Config
	resolver *service.Resolver
	types    *service.ContentTypes
	metrics  *metric.Registry
	logger   *slog.Logger

	sem     *semaphore.Weighted
	limiter *LimiterRegistry

	// mu guards ln, stopAccept and closed. wg.Add happens under mu only
	// while closed is false, so Shutdown's Wait never races an Add.
	mu         sync.Mutex
	ln         net.Listener
	stopAccept context.CancelFunc
	closed     bool
	ready      chan struct{}

	started atomic.Bool
	running atomic.Bool
	wg      sync.WaitGroup
}

// New creates a file server. A nil metrics registry gets a private one.
func New(cfg *Config, resolver *service.Resolver, types *service.ContentTypes, metrics *metric.Registry, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = DefaultReadBufferSize
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ServerName == "" {
		cfg.ServerName = buildinfo.ServerHeader()
	}
	if types == nil {
		types = service.NewContentTypes(false)
	}
	if metrics == nil {
		metrics = metric.NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		resolver: resolver,
		types:    types,
		metrics:  metrics,
		logger:   logger,
		ready:    make(chan struct{}),
	}
	if cfg.MaxConnections > 0 {
		s.sem = semaphore.NewWeighted(int64(cfg.MaxConnections))
	}
	if cfg.RateLimit > 0 {
		s.limiter = NewLimiterRegistry(cfg.RateLimit, cfg.RateBurst)
	}
	return s
}

// ListenAndServe binds the configured address and serves connections until
// ctx is cancelled or Shutdown is called, then returns nil. A bind failure is
// returned as domain.ErrBind. A Server serves at most once: later calls get
// ErrServerStarted, and a call after Shutdown gets ErrServerClosed.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrServerStarted
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.started.Store(false)
		return domain.ErrBind.WithDetails(addr).Wrap(err)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = ln.Close()
		return ErrServerClosed
	}
	s.ln = ln
	s.stopAccept = cancel
	s.running.Store(true)
	s.mu.Unlock()
	close(s.ready)

	go func() {
		<-loopCtx.Done()
		s.running.Store(false)
		_ = ln.Close()
	}()

	host, port := splitAddr(ln.Addr())
	s.logger.Info("file server listening",
		"host", host,
		"port", port,
		"root", s.resolver.Root(),
	)

	return s.acceptLoop(loopCtx, ctx, ln)
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address, or nil before ListenAndServe has bound.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Shutdown stops accepting and waits for in-flight connections until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.running.Store(false)
	ln, stop := s.ln, s.stopAccept
	s.mu.Unlock()

	var firstErr error
	if stop != nil {
		stop()
	}
	if ln != nil {
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return firstErr
}

// acceptLoop runs until the listener closes. loopCtx governs waiting for a
// connection slot; connCtx is handed to the handlers.
func (s *Server) acceptLoop(loopCtx, connCtx context.Context, ln net.Listener) error {
	for {
		if s.sem != nil {
			if err := s.sem.Acquire(loopCtx, 1); err != nil {
				return nil
			}
		}

		c, err := ln.Accept()
		if err != nil {
			s.release()
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				s.logger.Warn("temporary accept error", "error", err)
				continue
			}
			return err
		}

		s.metrics.ConnectionsTotal.Inc()

		if s.limiter != nil && !s.limiter.Allow(c.RemoteAddr()) {
			s.metrics.ConnectionsRejected.WithLabelValues(metric.ReasonRateLimit).Inc()
			s.logger.Debug("connection rate limited", "remote", c.RemoteAddr().String())
			_ = c.Close()
			s.release()
			continue
		}

		if !s.track() {
			_ = c.Close()
			s.release()
			return nil
		}
		go func() {
			defer s.wg.Done()
			defer s.release()
			s.serveConn(connCtx, newConn(c))
		}()
	}
}

// track registers a handler with wg unless Shutdown has begun.
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *Server) release() {
	if s.sem != nil {
		s.sem.Release(1)
	}
}

func splitAddr(addr net.Addr) (string, int) {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.IP.String(), tcp.Port
	}
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String(), 0
	}
	p, _ := strconv.Atoi(port)
	return host, p
}
