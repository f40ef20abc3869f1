// Package config loads the runtime configuration of the wpenv tool itself
// from YAML files, WPENV_* environment variables and CLI flags, with
// precedence: CLI flags > YAML config > Environment variables > Defaults.
// The WordPress constants are resolved separately by package wpconfig.
package config
