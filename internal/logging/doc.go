// Package logging builds slog loggers with console and JSON output and
// provides the standardized structured field vocabulary used across the
// module.
package logging
