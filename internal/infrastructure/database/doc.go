// Package database provides the node's local SQLite store.
//
// The store holds provisioned connection credentials (see
// internal/credentials). It is opened once at boot, always in WAL mode with
// a single-connection pool, which is the right shape for a flash-backed
// single-writer device database.
package database
