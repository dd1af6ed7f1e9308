// Package domain defines the core domain models for docserve.
package domain

import (
	"os"
	"strings"
)

// MethodGet is the only retrieval method the server supports.
const MethodGet = "GET"

// Request is a parsed HTTP request line. Header lines are never modeled.
type Request struct {
	Method  string
	RawPath string
	Version string
}

// NewRequest builds a Request from the raw request line.
// The line must hold exactly three whitespace-separated tokens.
func NewRequest(line string) (*Request, error) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.Fields(line)
	if len(parts) != 3 {
		return nil, ErrProtocol.WithDetails("expected 3 tokens in request line")
	}
	return &Request{
		Method:  parts[0],
		RawPath: parts[1],
		Version: parts[2],
	}, nil
}

// ResolvedPath is the outcome of mapping a request path onto the document root.
type ResolvedPath struct {
	// AbsolutePath is the canonical absolute path (symlinks resolved when it exists).
	AbsolutePath string
	// WithinRoot reports whether AbsolutePath is the root or one of its descendants.
	WithinRoot bool
}

// File is an opened, access-checked file ready to be streamed.
// The caller owns the handle and must Close it.
type File struct {
	Path string
	Size int64
	*os.File
}
