// Package logger provides structured logging for docserve.
//
//   - logger.go: slog construction, runtime level control
//   - context.go: context propagation with connection IDs
//   - sanitize.go: escaping of client-supplied strings
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering, adjustable at runtime (config reload)
//   - Control-character escaping so request lines cannot forge records
package logger
