// Package httpserver provides the operations HTTP endpoint for docserve.
//
// It runs on its own address, separate from the file server, using net/http:
//
//   - GET /metrics: Prometheus exposition of the process registry
//   - GET /healthz: liveness and listener readiness as JSON
//
// Requests pass through a small middleware chain (Recover, RequestID, Access).
package httpserver
