// Package main provides the entry point for docserve-server.
//
// docserve-server serves a directory of static files over a minimal
// HTTP/1.1 subset on raw TCP. Configuration comes from defaults, an
// optional YAML file, DOCSERVE_* environment variables and flags, in
// increasing order of priority.
//
// Usage:
//
//	docserve-server --root ./public --port 8080
//	docserve-server --config /etc/docserve/docserve.yaml
package main
