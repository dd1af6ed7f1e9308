// Package service provides the request-independent services of docserve.
package service

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultContentType is returned for unknown or missing extensions.
const DefaultContentType = "application/octet-stream"

// sniffLimit bounds how much of a file is read for content sniffing.
const sniffLimit = 3072

var builtinContentTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "text/javascript",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".txt":  "text/plain",
}

// ContentTypes maps file extensions to MIME types.
// It is built once and never mutated, so concurrent lookups need no locking.
type ContentTypes struct {
	types map[string]string
	sniff bool
}

// NewContentTypes returns the built-in table. When sniff is true, Detect falls
// back to inspecting file content for extensions the table does not list.
func NewContentTypes(sniff bool) *ContentTypes {
	types := make(map[string]string, len(builtinContentTypes))
	for ext, typ := range builtinContentTypes {
		types[ext] = typ
	}
	return &ContentTypes{types: types, sniff: sniff}
}

var defaultContentTypes = NewContentTypes(false)

// MimeFor returns the MIME type for path using the built-in table.
func MimeFor(path string) string {
	return defaultContentTypes.Lookup(path)
}

// Lookup returns the MIME type registered for the extension of path.
func (c *ContentTypes) Lookup(path string) string {
	typ, ok := c.lookup(path)
	if !ok {
		return DefaultContentType
	}
	return typ
}

// Detect is Lookup with an optional content-sniffing fallback. r is read
// with ReadAt only, so the read offset of an open file is left untouched.
func (c *ContentTypes) Detect(path string, r io.ReaderAt) string {
	if typ, ok := c.lookup(path); ok {
		return typ
	}
	if !c.sniff || r == nil {
		return DefaultContentType
	}
	mt, err := mimetype.DetectReader(io.NewSectionReader(r, 0, sniffLimit))
	if err != nil || mt == nil {
		return DefaultContentType
	}
	return mt.String()
}

func (c *ContentTypes) lookup(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", false
	}
	typ, ok := c.types[ext]
	return typ, ok
}
