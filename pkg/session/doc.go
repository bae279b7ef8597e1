// Package session manages server-side sessions: opaque random tokens mapped
// to per-user session records with bounded lifetimes. The in-memory store
// enforces expiry on read and sweeps stale records in the background; the
// manager issues sessions with either the default or the longer
// trusted-device lifetime.
package session
