// Package fileserver serves static files over a minimal HTTP/1.1 subset.
//
// The server speaks directly on raw TCP connections:
//
//   - One goroutine per accepted connection
//   - One request per connection; the request line is read, headers are ignored
//   - Only GET is supported; other methods get 405
//   - Files are streamed in fixed-size chunks and the connection is closed
//
// Path safety and MIME lookup live in internal/core/service; this package
// owns the socket, the wire format and the per-connection state machine.
package fileserver
