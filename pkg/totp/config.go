package totp

// Config carries the operator-provided master key used to encrypt TOTP
// secrets at rest. The key is required: a deployment without it must fail
// at startup rather than fall back to storing secrets in plaintext.
type Config struct {
	EncryptionKey string `env:"TWOFA_ENCRYPTION_KEY,required"` // Base64-encoded 32-byte AES-256 key
}

// MasterKey decodes and validates the configured encryption key.
func (c Config) MasterKey() ([]byte, error) {
	return DecodeEncryptionKey(c.EncryptionKey)
}
