// Package postgres implements the two-factor settings and user stores on
// PostgreSQL via pgx. Backup-code consumption relies on a conditional
// array_remove update so the hash removal and the success decision are one
// atomic statement.
package postgres
