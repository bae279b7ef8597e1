package twofa_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/twofa/internal/storage/memory"
	"github.com/dmitrymomot/twofa/internal/twofa"
	"github.com/dmitrymomot/twofa/pkg/session"
	"github.com/dmitrymomot/twofa/pkg/totp"
)

const testPassword = "hunter2hunter2"

type fixture struct {
	svc     *twofa.Service
	pending *twofa.MemoryPendingStore
	userID  uuid.UUID
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := time.Unix(1_700_000_015, 0)
	userID := uuid.New()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	users := memory.NewUserStore()
	users.Add(&twofa.User{ID: userID, Email: "user@example.com", PasswordHash: hash})

	pending := twofa.NewMemoryPendingStore(5*time.Minute, 0)

	masterKey, err := totp.GenerateEncryptionKey()
	require.NoError(t, err)

	sessions := session.NewManager(session.NewMemoryStore(0), session.Config{
		Lifetime:        24 * time.Hour,
		TrustedLifetime: 720 * time.Hour,
	})

	svc, err := twofa.NewService(
		twofa.Config{Issuer: "acme", PendingSetupTTL: 5 * time.Minute, BackupCodeCount: 10, QRCodeSize: 128},
		masterKey,
		memory.NewSettingsStore(),
		pending,
		users,
		twofa.NewBcryptVerifier(users),
		sessions,
		twofa.WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	return &fixture{svc: svc, pending: pending, userID: userID, now: now}
}

// enable walks the full enrollment and returns the secret and backup codes.
func (f *fixture) enable(t *testing.T) (string, []string) {
	t.Helper()
	ctx := context.Background()

	enrollment, err := f.svc.BeginSetup(ctx, f.userID, "sess-token")
	require.NoError(t, err)

	code, err := totp.GenerateTOTPWithTime(enrollment.Secret, f.now)
	require.NoError(t, err)

	require.NoError(t, f.svc.ConfirmSetup(ctx, "sess-token", code))

	codes, err := f.svc.Enable(ctx, f.userID, enrollment.Secret, code)
	require.NoError(t, err)
	return enrollment.Secret, codes
}

func TestNewService_RequiresMasterKey(t *testing.T) {
	t.Parallel()

	_, err := twofa.NewService(twofa.Config{}, []byte("short"), nil, nil, nil, nil, nil)
	assert.ErrorIs(t, err, twofa.ErrMissingMasterKey)

	_, err = twofa.NewService(twofa.Config{}, nil, nil, nil, nil, nil, nil)
	assert.ErrorIs(t, err, twofa.ErrMissingMasterKey)
}

func TestService_BeginSetup(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	enrollment, err := f.svc.BeginSetup(ctx, f.userID, "sess-token")
	require.NoError(t, err)

	assert.Len(t, enrollment.Secret, 32)
	assert.Contains(t, enrollment.OTPAuthURI, "otpauth://totp/acme:user@example.com")
	assert.Contains(t, enrollment.OTPAuthURI, "issuer=acme")
	assert.True(t, strings.HasPrefix(enrollment.QRImage, "data:image/png;base64,"))
	assert.Equal(t, strings.ReplaceAll(enrollment.ManualEntryKey, " ", ""), enrollment.Secret)

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.svc.BeginSetup(ctx, uuid.New(), "other-token")
		assert.ErrorIs(t, err, twofa.ErrUnknownUser)
	})

	t.Run("fresh secret per call", func(t *testing.T) {
		again, err := f.svc.BeginSetup(ctx, f.userID, "sess-token")
		require.NoError(t, err)
		assert.NotEqual(t, enrollment.Secret, again.Secret)
	})
}

func TestService_ConfirmSetup(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	t.Run("without setup", func(t *testing.T) {
		err := f.svc.ConfirmSetup(ctx, "sess-token", "123456")
		assert.ErrorIs(t, err, twofa.ErrNoPendingSetup)
	})

	enrollment, err := f.svc.BeginSetup(ctx, f.userID, "sess-token")
	require.NoError(t, err)

	t.Run("wrong token keeps pending state", func(t *testing.T) {
		err := f.svc.ConfirmSetup(ctx, "sess-token", "000000")
		assert.ErrorIs(t, err, twofa.ErrInvalidToken)

		// Pending state survives a failed attempt.
		code, err := totp.GenerateTOTPWithTime(enrollment.Secret, f.now)
		require.NoError(t, err)
		assert.NoError(t, f.svc.ConfirmSetup(ctx, "sess-token", code))
	})

	t.Run("confirmed setup is discarded", func(t *testing.T) {
		code, err := totp.GenerateTOTPWithTime(enrollment.Secret, f.now)
		require.NoError(t, err)
		err = f.svc.ConfirmSetup(ctx, "sess-token", code)
		assert.ErrorIs(t, err, twofa.ErrNoPendingSetup)
	})
}

// The fixture pins the service clock years away from the wall clock. The
// pending store must judge its TTL on its own clock, so a freshly started
// setup confirms immediately regardless of what the service clock says.
func TestService_SetupFreshUnderPinnedClock(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	enrollment, err := f.svc.BeginSetup(ctx, f.userID, "sess-token")
	require.NoError(t, err)

	code, err := totp.GenerateTOTPWithTime(enrollment.Secret, f.now)
	require.NoError(t, err)

	err = f.svc.ConfirmSetup(ctx, "sess-token", code)
	assert.NotErrorIs(t, err, twofa.ErrExpiredSetup)
	assert.NoError(t, err)
}

func TestService_ConfirmSetup_Expired(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.pending.Put(ctx, "sess-token", twofa.PendingSetup{
		UserID:    f.userID,
		Secret:    "JBSWY3DPEHPK3PXP",
		CreatedAt: time.Now().Add(-10 * time.Minute),
	}))

	err := f.svc.ConfirmSetup(ctx, "sess-token", "123456")
	assert.ErrorIs(t, err, twofa.ErrExpiredSetup)

	// The stale record is gone, not retryable.
	err = f.svc.ConfirmSetup(ctx, "sess-token", "123456")
	assert.ErrorIs(t, err, twofa.ErrNoPendingSetup)
}

func TestService_Enable(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	secret, codes := f.enable(t)

	assert.Len(t, codes, 10)
	for _, code := range codes {
		assert.Regexp(t, `^[0-9A-F]{8}-[0-9A-F]{8}-[0-9A-F]{8}$`, code)
	}

	enabled, err := f.svc.Status(ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, enabled)

	t.Run("already enabled", func(t *testing.T) {
		_, err := f.svc.BeginSetup(ctx, f.userID, "sess-token")
		assert.ErrorIs(t, err, twofa.ErrAlreadyEnabled)

		code, err := totp.GenerateTOTPWithTime(secret, f.now)
		require.NoError(t, err)
		_, err = f.svc.Enable(ctx, f.userID, secret, code)
		assert.ErrorIs(t, err, twofa.ErrAlreadyEnabled)
	})
}

func TestService_Enable_WrongTokenLeavesDisabled(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	enrollment, err := f.svc.BeginSetup(ctx, f.userID, "sess-token")
	require.NoError(t, err)

	_, err = f.svc.Enable(ctx, f.userID, enrollment.Secret, "000000")
	assert.ErrorIs(t, err, twofa.ErrInvalidToken)

	enabled, err := f.svc.Status(ctx, f.userID)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestService_ChallengeLogin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	secret, codes := f.enable(t)

	t.Run("valid totp", func(t *testing.T) {
		code, err := totp.GenerateTOTPWithTime(secret, f.now)
		require.NoError(t, err)

		sess, user, err := f.svc.ChallengeLogin(ctx, f.userID, code, false)
		require.NoError(t, err)
		assert.Equal(t, f.userID, sess.UserID)
		assert.Equal(t, "user@example.com", user.Email)
	})

	t.Run("adjacent window totp", func(t *testing.T) {
		code, err := totp.GenerateTOTPWithTime(secret, f.now.Add(-29*time.Second))
		require.NoError(t, err)

		_, _, err = f.svc.ChallengeLogin(ctx, f.userID, code, false)
		assert.NoError(t, err)
	})

	t.Run("wrong totp", func(t *testing.T) {
		_, _, err := f.svc.ChallengeLogin(ctx, f.userID, "000000", false)
		assert.ErrorIs(t, err, twofa.ErrInvalidToken)
	})

	t.Run("backup code single use", func(t *testing.T) {
		sess, _, err := f.svc.ChallengeLogin(ctx, f.userID, codes[0], false)
		require.NoError(t, err)
		assert.NotEmpty(t, sess.Token)

		_, _, err = f.svc.ChallengeLogin(ctx, f.userID, codes[0], false)
		assert.ErrorIs(t, err, twofa.ErrInvalidBackupCode)
	})

	t.Run("backup code is case and dash insensitive", func(t *testing.T) {
		loose := strings.ToLower(strings.ReplaceAll(codes[1], "-", ""))
		_, _, err := f.svc.ChallengeLogin(ctx, f.userID, loose, false)
		assert.NoError(t, err)
	})

	t.Run("trusted device gets extended lifetime", func(t *testing.T) {
		sess, _, err := f.svc.ChallengeLogin(ctx, f.userID, codes[2], true)
		require.NoError(t, err)
		assert.Greater(t, time.Until(sess.ExpiresAt), 700*time.Hour)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := f.svc.ChallengeLogin(ctx, uuid.New(), "123456", false)
		assert.ErrorIs(t, err, twofa.ErrUnknownUser)
	})
}

func TestService_ChallengeLogin_NotEnabled(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, _, err := f.svc.ChallengeLogin(context.Background(), f.userID, "123456", false)
	assert.ErrorIs(t, err, twofa.ErrNotEnabled)
}

func TestService_Disable(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	secret, _ := f.enable(t)

	code, err := totp.GenerateTOTPWithTime(secret, f.now)
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		err := f.svc.Disable(ctx, f.userID, code, "wrong")
		assert.ErrorIs(t, err, twofa.ErrWrongPassword)

		enabled, err := f.svc.Status(ctx, f.userID)
		require.NoError(t, err)
		assert.True(t, enabled)
	})

	t.Run("wrong token", func(t *testing.T) {
		err := f.svc.Disable(ctx, f.userID, "000000", testPassword)
		assert.ErrorIs(t, err, twofa.ErrInvalidToken)
	})

	t.Run("success clears everything", func(t *testing.T) {
		require.NoError(t, f.svc.Disable(ctx, f.userID, code, testPassword))

		enabled, err := f.svc.Status(ctx, f.userID)
		require.NoError(t, err)
		assert.False(t, enabled)

		_, _, err = f.svc.ChallengeLogin(ctx, f.userID, code, false)
		assert.ErrorIs(t, err, twofa.ErrNotEnabled)
	})

	t.Run("disable when not enabled", func(t *testing.T) {
		err := f.svc.Disable(ctx, f.userID, code, testPassword)
		assert.ErrorIs(t, err, twofa.ErrNotEnabled)
	})
}

func TestService_RegenerateBackupCodes(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	t.Run("requires enabled", func(t *testing.T) {
		_, err := f.svc.RegenerateBackupCodes(ctx, f.userID)
		assert.ErrorIs(t, err, twofa.ErrNotEnabled)
	})

	_, old := f.enable(t)

	fresh, err := f.svc.RegenerateBackupCodes(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, fresh, 10)
	assert.NotElementsMatch(t, old, fresh)

	// Old codes are dead after regeneration.
	_, _, err = f.svc.ChallengeLogin(ctx, f.userID, old[0], false)
	assert.ErrorIs(t, err, twofa.ErrInvalidBackupCode)

	// Fresh codes work.
	_, _, err = f.svc.ChallengeLogin(ctx, f.userID, fresh[0], false)
	assert.NoError(t, err)
}
