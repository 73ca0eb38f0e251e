// Package logging provides structured logging for graynode.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the entire application.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Configuration
//
// Logging is configured via the LoggingConfig in config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Security
//
// Never log secrets, passphrases, or broker passwords in plaintext. Use
// MaskSecret, which reduces a secret to a fixed mask or a presence marker:
//
//	logger.Info("associating", "ssid", ssid, "pass", logging.MaskSecret(pass))
package logging
