package twofa

import "time"

// Config carries the tunables of the enrollment and login flows.
type Config struct {
	// Issuer is the service name shown in authenticator apps.
	Issuer string `env:"TWOFA_ISSUER" envDefault:"twofa"`

	// PendingSetupTTL bounds how long a generated secret may sit
	// unconfirmed before confirmation fails with an expiry error.
	PendingSetupTTL time.Duration `env:"TWOFA_PENDING_SETUP_TTL" envDefault:"5m"`

	// BackupCodeCount is the number of backup codes minted per set.
	BackupCodeCount int `env:"TWOFA_BACKUP_CODE_COUNT" envDefault:"10"`

	// QRCodeSize is the pixel size of generated enrollment QR images.
	QRCodeSize int `env:"TWOFA_QR_SIZE" envDefault:"256"`
}
