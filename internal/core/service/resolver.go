// Package service provides the request-independent services of docserve.
package service

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/yndnr/docserve-go/internal/core/domain"
)

// IndexFile is served for "/" and for any directory request.
const IndexFile = "index.html"

// Resolver maps request paths onto a canonical document root and decides
// whether the resulting file may be served.
//
// A Resolver is immutable and safe for concurrent use.
type Resolver struct {
	root string
}

// NewResolver canonicalizes rootDir (absolute, symlinks resolved) and returns a
// Resolver anchored on it. The directory must exist.
func NewResolver(rootDir string) (*Resolver, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("absolute root %q: %w", rootDir, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("canonicalize root %q: %w", rootDir, err)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("stat root %q: %w", canonical, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %q is not a directory", canonical)
	}
	return &Resolver{root: canonical}, nil
}

// Root returns the canonical document root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve maps a raw request path to a canonical absolute path and reports
// whether it stays inside the document root. It never fails and never checks
// existence beyond what symlink resolution needs.
func (r *Resolver) Resolve(rawPath string) domain.ResolvedPath {
	p := decodePath(rawPath)
	if p == "/" {
		p = "/" + IndexFile
	}
	candidate := filepath.Join(r.root, filepath.FromSlash(strings.TrimLeft(p, "/")))
	return r.canonicalize(candidate)
}

// Locate resolves rawPath and runs the access checks in order:
// existence (ErrNotFound), then containment and readability (ErrForbidden).
// Directories are served through their index file.
func (r *Resolver) Locate(rawPath string) (*domain.File, error) {
	return r.locate(r.Resolve(rawPath), false)
}

func (r *Resolver) locate(rp domain.ResolvedPath, viaDir bool) (*domain.File, error) {
	info, err := os.Stat(rp.AbsolutePath)
	if err != nil {
		return nil, classifyStatError(rp.AbsolutePath, err)
	}

	if !rp.WithinRoot {
		return nil, domain.ErrForbidden.WithDetails("path escapes document root: " + rp.AbsolutePath)
	}

	if info.IsDir() {
		if viaDir {
			return nil, domain.ErrNotFound.WithDetails("no index file: " + rp.AbsolutePath)
		}
		index := r.canonicalize(filepath.Join(rp.AbsolutePath, IndexFile))
		return r.locate(index, true)
	}

	// Devices, sockets and FIFOs are never streamed; opening a FIFO would block.
	if !info.Mode().IsRegular() {
		return nil, domain.ErrForbidden.WithDetails("not a regular file: " + rp.AbsolutePath)
	}

	f, err := os.Open(rp.AbsolutePath)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, domain.ErrForbidden.WithDetails("file not readable: " + rp.AbsolutePath).Wrap(err)
		}
		return nil, classifyStatError(rp.AbsolutePath, err)
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, domain.ErrInternal.Wrap(err)
	}

	return &domain.File{
		Path: rp.AbsolutePath,
		Size: st.Size(),
		File: f,
	}, nil
}

// canonicalize resolves symlinks in candidate. When the target does not exist
// the lexically cleaned path stands in for it.
func (r *Resolver) canonicalize(candidate string) domain.ResolvedPath {
	abs := filepath.Clean(candidate)
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return domain.ResolvedPath{
		AbsolutePath: abs,
		WithinRoot:   r.contains(abs),
	}
}

// contains reports whether p equals the root or is a descendant of it.
func (r *Resolver) contains(p string) bool {
	rel, err := filepath.Rel(r.root, p)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func classifyStatError(path string, err error) error {
	switch {
	// EINVAL comes from a decoded NUL byte in the path; ELOOP from a
	// symlink cycle, which never resolves to a file.
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, syscall.ENOTDIR),
		errors.Is(err, syscall.ENAMETOOLONG),
		errors.Is(err, syscall.EINVAL),
		errors.Is(err, syscall.ELOOP):
		return domain.ErrNotFound.WithDetails(path)
	case errors.Is(err, fs.ErrPermission):
		return domain.ErrForbidden.WithDetails("stat denied: " + path).Wrap(err)
	default:
		return domain.ErrInternal.Wrap(err)
	}
}

// decodePath strips the query string and percent-decodes the path.
// A malformed escape leaves the path undecoded.
func decodePath(rawPath string) string {
	if i := strings.IndexByte(rawPath, '?'); i >= 0 {
		rawPath = rawPath[:i]
	}
	decoded, err := url.PathUnescape(rawPath)
	if err != nil {
		return rawPath
	}
	return decoded
}
