// Package config provides server configuration for docserve.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation (ranges, root directory existence, log settings)
//   - describe.go: Flattened view for the startup log
//
// Configuration is loaded via internal/infra/confloader and supports
// files, environment variables, and command-line flags.
package config
