// Package domain defines the core domain models for docserve.
//
// Domain models are plain values without network coupling:
//
//   - Request: the parsed request line (method, path, version)
//   - ResolvedPath: a request path mapped onto the document root
//   - File: an opened file cleared for streaming
//   - Errors: the error taxonomy and its HTTP status mapping
package domain
