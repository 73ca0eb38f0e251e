package credentials

import (
	"context"

	"github.com/nerrad567/gray-logic-node/internal/infrastructure/logging"
)

// Logger defines the logging interface for credential resolution.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Resolve walks the credential chain and returns the first usable config.
//
// The chain is builtin override (gated by useBuiltin) > persisted store >
// empty. Resolve never fails: when nothing is available it returns zero
// values with a warning, leaving the connectivity managers to fail visibly.
//
// Parameters:
//   - ctx: Context for store access
//   - store: Persisted credential store (may be nil when no database is open)
//   - useBuiltin: The explicit insecure-override flag from config
//   - log: Logger (required)
//
// Returns:
//   - ConnectionConfig: The resolved credentials
//   - Source: Which chain link produced them
func Resolve(ctx context.Context, store *Store, useBuiltin bool, log Logger) (ConnectionConfig, Source) {
	if useBuiltin {
		if cfg, ok := builtinConfig(); ok {
			// Deliberately loud: this path must never ship unnoticed.
			log.Warn("INSECURE built-in credential override ACTIVE, ignoring persisted store",
				"link_name", cfg.LinkName,
				"link_secret", logging.MaskSecret(cfg.LinkSecret),
				"broker_host", cfg.BrokerHost,
				"broker_secret", logging.MaskSecret(cfg.BrokerSecret),
			)
			return cfg, SourceBuiltin
		}
		log.Warn("built-in credential override requested but no values were compiled in")
	}

	if store != nil {
		cfg, err := store.Load(ctx)
		if err == nil {
			log.Info("credentials loaded from persisted store",
				"link_name", cfg.LinkName,
				"link_secret", logging.MaskSecret(cfg.LinkSecret),
				"broker_host", cfg.BrokerHost,
				"broker_port", cfg.BrokerPort,
				"broker_user", cfg.BrokerUser,
				"broker_secret", logging.MaskSecret(cfg.BrokerSecret),
				"broker_tls", cfg.BrokerTLS,
			)
			return cfg, SourceStore
		}
		log.Warn("persisted credentials unavailable, falling back to empty values", "error", err)
	} else {
		log.Warn("no credential store open, falling back to empty values")
	}

	return ConnectionConfig{}, SourceEmpty
}
