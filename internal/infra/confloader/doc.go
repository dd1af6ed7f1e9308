// Package confloader provides configuration loading mechanism.
//
// This package layers configuration sources using koanf:
//
//   - Configuration file (YAML)
//   - Environment variables (DOCSERVE_ prefix)
//   - Overrides from command-line flags
//
// Priority (highest to lowest):
//
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Default values already present in the target struct
//
// Watcher notifies callbacks when a configuration file changes (fsnotify).
package confloader
