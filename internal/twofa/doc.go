// Package twofa implements the two-factor authentication domain service:
// the setup → verify → enable, disable, and login-challenge flows, the
// session-bound pending-setup store with bounded lifetime, and the storage
// contracts for per-user settings.
//
// State transitions per user:
//
//	disabled --BeginSetup--> pending (secret held in session scope only)
//	pending  --ConfirmSetup--> confirmed (still nothing persisted)
//	confirmed --Enable--> enabled (ciphertext persisted, backup codes minted)
//	enabled  --Disable(password + token)--> disabled (secret and codes cleared)
//	enabled  --ChallengeLogin(token | backup code)--> authenticated session
//
// Every transition that depends on a prior step fails with a specific
// sentinel error; nothing silently no-ops. A secret reaches durable storage
// only after the caller has proven possession of it with a valid token.
package twofa
