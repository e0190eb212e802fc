// Package config loads, normalizes, and validates the TOML configuration
// controlling paths, the managed runtime and media tool, and job execution.
package config
