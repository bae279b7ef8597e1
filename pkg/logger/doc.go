// Package logger builds configured log/slog loggers with JSON or text output
// plus small attribute helpers that keep log field names consistent across
// the service (error, user_id, session_id, component, operation).
package logger
