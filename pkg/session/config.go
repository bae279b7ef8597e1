package session

import "time"

// Config holds session configuration.
type Config struct {
	// CookieName is the name of the session cookie (default: "sid")
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sid"`

	// Lifetime is the default lifetime of an authenticated session.
	Lifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"24h"`

	// TrustedLifetime is the extended lifetime granted when the caller asks
	// to be remembered on a trusted device. Bounded, never indefinite.
	TrustedLifetime time.Duration `env:"SESSION_TRUSTED_LIFETIME" envDefault:"720h"`

	// CleanupInterval for expired sessions (0 to disable)
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`
}
