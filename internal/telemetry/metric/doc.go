// Package metric provides Prometheus metrics for docserve.
//
// Metrics include:
//
//   - Accepted, active, and rejected connection counts
//   - Responses by status code
//   - Bytes written
//   - Request duration histograms
//
// Metrics are exposed at /metrics by the ops HTTP server when enabled.
package metric
