// Package totp implements the cryptographic core of two-factor authentication:
// secret key creation, otpauth:// URI construction, RFC 4226/6238 one-time
// password generation and validation, AES-256-GCM encryption helpers for
// persisting secrets at rest, and single-use backup codes.
//
// # Architecture
//
// The package is divided into four cohesive layers.
//
//   • otp.go      – secret key generation (GenerateSecretKey), HOTP/TOTP code
//     calculation (GenerateHOTP/GenerateTOTP/ValidateTOTPAt) and otpauth URI
//     construction (GetTOTPURI) for onboarding to authenticator apps.
//
//   • cipher.go   – symmetric encryption of the secret key with AES-256-GCM.
//     A fresh random nonce is generated per encryption and prepended to the
//     ciphertext; decryption authenticates the blob and fails loudly on
//     tamper or wrong key. Legacy plaintext-tagged blobs are refused.
//
//   • recovery.go – creation, hashing and constant-time verification of
//     single-use backup codes offered to users who lose their device.
//
//   • config.go   – the operator master key, loaded from the required
//     TWOFA_ENCRYPTION_KEY environment variable (Base64, 32 bytes).
//
// Token validation accepts codes from the previous, current, and next
// 30-second windows to tolerate clock drift. No last-used counter is
// tracked, so a captured token stays valid for the remainder of its window.
//
// # Error Handling
//
// Every exported operation returns a descriptive error that may be wrapped
// using errors.Join. Inspect errors with errors.Is against package level
// sentinels such as ErrInvalidSecret, ErrInvalidOTP, ErrFailedToDecryptSecret.
//
// # See Also
//
//   • RFC 4226 – HMAC-Based One-Time Password (HOTP) Algorithm
//   • RFC 6238 – Time-Based One-Time Password (TOTP) Algorithm
package totp
