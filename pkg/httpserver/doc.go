// Package httpserver wraps net/http.Server with env-driven configuration,
// functional options, and graceful shutdown on context cancellation or
// SIGINT/SIGTERM.
package httpserver
