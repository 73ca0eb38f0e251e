package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-node/internal/infrastructure/database"
)

// Store persists provisioned connection credentials in the node database.
//
// The table holds at most one row; provisioning replaces it wholesale.
type Store struct {
	db *database.DB
}

// NewStore creates a credential store over an open database.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the credentials table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS connection_credentials (
			id            INTEGER PRIMARY KEY CHECK (id = 1),
			link_name     TEXT NOT NULL DEFAULT '',
			link_secret   TEXT NOT NULL DEFAULT '',
			broker_host   TEXT NOT NULL DEFAULT '',
			broker_user   TEXT NOT NULL DEFAULT '',
			broker_secret TEXT NOT NULL DEFAULT '',
			broker_port   INTEGER NOT NULL DEFAULT 1883,
			broker_tls    INTEGER NOT NULL DEFAULT 0,
			updated_at    TEXT NOT NULL DEFAULT (datetime('now'))
		)`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating credentials schema: %w", err)
	}
	return nil
}

// Load reads the provisioned credentials.
//
// Returns:
//   - ConnectionConfig: The stored credentials
//   - error: ErrNotProvisioned when no row exists, or a query error
func (s *Store) Load(ctx context.Context) (ConnectionConfig, error) {
	const query = `
		SELECT link_name, link_secret, broker_host, broker_user,
		       broker_secret, broker_port, broker_tls
		FROM connection_credentials WHERE id = 1`

	var cfg ConnectionConfig
	var tls int
	err := s.db.QueryRowContext(ctx, query).Scan(
		&cfg.LinkName, &cfg.LinkSecret,
		&cfg.BrokerHost, &cfg.BrokerUser, &cfg.BrokerSecret,
		&cfg.BrokerPort, &tls,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ConnectionConfig{}, ErrNotProvisioned
	}
	if err != nil {
		return ConnectionConfig{}, fmt.Errorf("loading credentials: %w", err)
	}
	cfg.BrokerTLS = tls != 0

	return cfg, nil
}

// Save replaces the provisioned credentials.
func (s *Store) Save(ctx context.Context, cfg ConnectionConfig) error {
	const query = `
		INSERT INTO connection_credentials
			(id, link_name, link_secret, broker_host, broker_user,
			 broker_secret, broker_port, broker_tls, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			link_name     = excluded.link_name,
			link_secret   = excluded.link_secret,
			broker_host   = excluded.broker_host,
			broker_user   = excluded.broker_user,
			broker_secret = excluded.broker_secret,
			broker_port   = excluded.broker_port,
			broker_tls    = excluded.broker_tls,
			updated_at    = excluded.updated_at`

	tls := 0
	if cfg.BrokerTLS {
		tls = 1
	}
	_, err := s.db.ExecContext(ctx, query,
		cfg.LinkName, cfg.LinkSecret,
		cfg.BrokerHost, cfg.BrokerUser, cfg.BrokerSecret,
		cfg.BrokerPort, tls,
	)
	if err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}
