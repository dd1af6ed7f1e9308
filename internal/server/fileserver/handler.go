package fileserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/yndnr/docserve-go/internal/core/domain"
	"github.com/yndnr/docserve-go/internal/telemetry/logger"
)

// serveConn runs one request/response cycle on c and closes it.
// Every failure ends in a status response if nothing has been sent yet,
// otherwise the connection is simply dropped.
func (s *Server) serveConn(ctx context.Context, c *Conn) {
	start := time.Now()
	status := 0

	ctx = logger.WithConnID(logger.WithLogger(ctx, s.logger), c.ID)
	log := logger.L(ctx).With("remote", remoteString(c))

	s.metrics.ConnectionsActive.Inc()
	defer func() {
		if r := recover(); r != nil {
			err := domain.ErrInternal.WithDetails(fmt.Sprint(r))
			log.Error("connection handler panic", "error", err)
			status = s.respondError(c, err, log)
		}
		_ = c.Close()
		elapsed := time.Since(start)
		s.metrics.ConnectionsActive.Dec()
		s.metrics.ObserveResponse(status, c.Written(), elapsed)
		log.Debug("connection closed", "status", status, "bytes", c.Written(), "duration", elapsed)
	}()

	status = s.handle(c, log)
}

// handle walks the request state machine and returns the status sent,
// or 0 when the connection closed without a status line.
func (s *Server) handle(c *Conn, log *slog.Logger) int {
	if err := c.setReadTimeout(s.cfg.ReadTimeout); err != nil {
		log.Debug("set read deadline", "error", err)
		return 0
	}

	head, err := readRequestHead(c, s.cfg.ReadBufferSize)
	if len(head) == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			log.Debug("connection read error", "error", err)
		}
		return 0
	}

	req, err := ParseRequestLine(head)
	if err != nil {
		return s.respondError(c, err, log)
	}
	log = log.With("method", req.Method, "path", req.RawPath)

	if req.Method != domain.MethodGet {
		return s.respondError(c, domain.ErrMethodNotAllowed.WithDetails(req.Method), log)
	}

	f, err := s.resolver.Locate(req.RawPath)
	if err != nil {
		return s.respondError(c, err, log)
	}
	defer f.Close()

	return s.serveFile(c, f, log)
}

// serveFile sends the header block and streams f in ChunkSize pieces,
// bounded to the size announced in Content-Length.
func (s *Server) serveFile(c *Conn, f *domain.File, log *slog.Logger) int {
	contentType := s.types.Detect(f.Path, f.File)

	if err := c.setWriteTimeout(s.cfg.WriteTimeout); err != nil {
		log.Debug("set write deadline", "error", err)
		return 0
	}
	if _, err := WriteFileHeader(c, f.Size, contentType, s.cfg.ServerName); err != nil {
		return s.respondError(c, domain.ErrInternal.Wrap(err), log)
	}

	body := io.LimitReader(f.File, f.Size)
	buf := make([]byte, s.cfg.ChunkSize)
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			if _, werr := c.Write(buf[:n]); werr != nil {
				log.Debug("client write failed", "error", werr, "sent", c.Written())
				return http.StatusOK
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			log.Debug("file read failed mid-stream", "file", f.Path, "error", rerr)
			return http.StatusOK
		}
	}

	log.Debug("file served",
		"status", http.StatusOK,
		"file", f.Path,
		"content_type", contentType,
		"bytes", c.Written(),
	)
	return http.StatusOK
}

// respondError maps err to a status and sends it, unless a response has
// already started. It returns the status sent, or 0 if none was.
func (s *Server) respondError(c *Conn, err error, log *slog.Logger) int {
	status := domain.StatusFor(err)
	if c.Written() > 0 {
		log.Debug("error after response started", "error", err)
		return 0
	}

	switch {
	case status >= http.StatusInternalServerError:
		log.Error("request failed", "status", status, "code", domain.GetErrorCode(err), "error", err)
	case status == http.StatusForbidden:
		log.Warn("request forbidden", "status", status, "error", err)
	default:
		log.Debug("request rejected", "status", status, "error", err)
	}

	if werr := c.setWriteTimeout(s.cfg.WriteTimeout); werr != nil {
		return 0
	}
	if _, werr := WriteStatus(c, status, s.cfg.ServerName); werr != nil {
		log.Debug("write status failed", "status", status, "error", werr)
		if c.Written() == 0 {
			return 0
		}
	}
	return status
}

func remoteString(c *Conn) string {
	if addr := c.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
