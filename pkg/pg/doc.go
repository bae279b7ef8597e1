// Package pg wires PostgreSQL connectivity for the service: pgxpool
// connection establishment with retry, goose schema migrations bridged onto
// the pool, a health check closure, and helpers that classify common pgx
// errors (not found, duplicate key).
package pg
