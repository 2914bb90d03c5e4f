// Package logging provides structured logging utilities for the vmeasure tool
// and the measurement core packages.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults
// for consistent logging across all components. It supports environment-based
// log level configuration, module/version context injection, and automatic
// source location tracking for debug logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("vmeasure", "v1.0.0")
//	    slog.Info("converting", "path", path)
//	}
//
// The LOG_LEVEL environment variable controls verbosity when no explicit
// level is given:
//
//	LOG_LEVEL=debug vmeasure convert body.vst
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "document converted",
//	    "module": "vmeasure",
//	    "version": "v1.0.0",
//	    "from": "0.4.2",
//	    "to": "0.5.2"
//	}
//
// Library packages (converter, measurement, gradation, session) never
// configure logging themselves; they log through the slog default logger.
package logging
