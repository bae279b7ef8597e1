package totp

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
)

const (
	// DefaultBackupCodeCount is the number of codes minted per set.
	DefaultBackupCodeCount = 10

	backupCodeGroups    = 3
	backupCodeGroupSize = 8 // hex characters per group
)

// GenerateBackupCodes creates cryptographically secure single-use backup codes.
// Each code is three 8-character hexadecimal groups joined by dashes
// (96 bits of entropy), formatted for manual transcription.
func GenerateBackupCodes(count int) ([]string, error) {
	if count < 1 {
		return nil, ErrInvalidBackupCodeCount
	}

	codes := make([]string, count)
	for i := range count {
		raw := make([]byte, backupCodeGroups*backupCodeGroupSize/2)
		if _, err := rand.Read(raw); err != nil {
			return nil, errors.Join(ErrFailedToGenerateBackupCode, err)
		}

		hexCode := strings.ToUpper(hex.EncodeToString(raw))
		groups := make([]string, backupCodeGroups)
		for g := range backupCodeGroups {
			groups[g] = hexCode[g*backupCodeGroupSize : (g+1)*backupCodeGroupSize]
		}
		codes[i] = strings.Join(groups, "-")
	}
	return codes, nil
}

// HashBackupCode creates a SHA-256 hash for secure storage of backup codes.
// Formatting is normalized so a code verifies regardless of case or dashes.
func HashBackupCode(code string) string {
	hash := sha256.Sum256([]byte(NormalizeBackupCode(code)))
	return hex.EncodeToString(hash[:])
}

// NormalizeBackupCode strips separators and whitespace and upper-cases the code.
func NormalizeBackupCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	code = strings.ReplaceAll(code, "-", "")
	return strings.ReplaceAll(code, " ", "")
}

// VerifyBackupCode performs constant-time comparison of a supplied code against
// a stored hash to prevent timing side-channels.
func VerifyBackupCode(code, hashedCode string) bool {
	computedHash := HashBackupCode(code)

	return subtle.ConstantTimeCompare(
		[]byte(computedHash),
		[]byte(hashedCode),
	) == 1
}
