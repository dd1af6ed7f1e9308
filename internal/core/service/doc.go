// Package service provides the request-independent services of docserve.
//
// This package contains:
//
//   - Resolver: maps request paths onto the canonical document root and runs
//     the ordered existence / containment / readability checks
//   - ContentTypes: the extension to MIME type table, with optional sniffing
//
// Both are immutable after construction and shared by all connection
// handlers without synchronization.
package service
