package twofa

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/twofa/pkg/logger"
	"github.com/dmitrymomot/twofa/pkg/qrcode"
	"github.com/dmitrymomot/twofa/pkg/session"
	"github.com/dmitrymomot/twofa/pkg/totp"
)

// totpShapeRegex distinguishes a 6-digit TOTP token from a backup code at
// the login challenge, so each credential type reports its own failure kind.
var totpShapeRegex = regexp.MustCompile(`^\d{6}$`)

// Enrollment is returned by BeginSetup. The plaintext secret appears here
// exactly once; it is held only in the session-bound pending store until the
// caller proves possession of it.
type Enrollment struct {
	Secret         string `json:"secret"`
	OTPAuthURI     string `json:"otpauthUri"`
	QRImage        string `json:"qrImage"`
	ManualEntryKey string `json:"manualEntryKey"`
}

// Service orchestrates the two-factor enrollment, disable, and login flows,
// composing the TOTP verifier, secret cipher, backup codes, and stores.
type Service struct {
	cfg       Config
	masterKey []byte
	settings  SettingsStore
	pending   PendingStore
	users     UserStore
	passwords PasswordVerifier
	sessions  *session.Manager
	log       *slog.Logger
	now       func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the two-factor service. The master key is mandatory:
// without a valid AES-256 key the service refuses to construct rather than
// degrade to storing secrets in plaintext.
func NewService(
	cfg Config,
	masterKey []byte,
	settings SettingsStore,
	pending PendingStore,
	users UserStore,
	passwords PasswordVerifier,
	sessions *session.Manager,
	opts ...Option,
) (*Service, error) {
	if len(masterKey) != totp.AESKeySize {
		return nil, ErrMissingMasterKey
	}

	s := &Service{
		cfg:       cfg,
		masterKey: masterKey,
		settings:  settings,
		pending:   pending,
		users:     users,
		passwords: passwords,
		sessions:  sessions,
		log:       slog.New(slog.DiscardHandler),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Status reports whether two-factor authentication is enabled for the user.
// A user without a settings record has it disabled.
func (s *Service) Status(ctx context.Context, userID uuid.UUID) (bool, error) {
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrSettingsNotFound) {
			return false, nil
		}
		return false, errors.Join(ErrStoreUnavailable, err)
	}
	return settings.Enabled, nil
}

// BeginSetup generates a fresh secret, binds it to the caller's session as
// pending state, and returns the enrollment material. Nothing is persisted:
// the secret reaches durable storage only after Enable proves possession.
func (s *Service) BeginSetup(ctx context.Context, userID uuid.UUID, sessionToken string) (*Enrollment, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, ErrUnknownUser
	}

	enabled, err := s.Status(ctx, userID)
	if err != nil {
		return nil, err
	}
	if enabled {
		return nil, ErrAlreadyEnabled
	}

	secret, err := totp.GenerateSecretKey()
	if err != nil {
		return nil, err
	}

	uri, err := totp.GetTOTPURI(totp.TOTPParams{
		Secret:      secret,
		AccountName: user.Email,
		Issuer:      s.cfg.Issuer,
	})
	if err != nil {
		return nil, err
	}

	qrImage, err := qrcode.GenerateBase64Image(uri, s.cfg.QRCodeSize)
	if err != nil {
		return nil, err
	}

	// The store stamps CreatedAt and judges expiry against the same clock.
	if err := s.pending.Put(ctx, sessionToken, PendingSetup{
		UserID: userID,
		Secret: secret,
	}); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	return &Enrollment{
		Secret:         secret,
		OTPAuthURI:     uri,
		QRImage:        qrImage,
		ManualEntryKey: manualEntryKey(secret),
	}, nil
}

// ConfirmSetup verifies the supplied token against the session's pending
// secret. On success the pending state is discarded and the caller proceeds
// to Enable; on failure the pending state stays in place for another attempt.
func (s *Service) ConfirmSetup(ctx context.Context, sessionToken, token string) error {
	pending, err := s.pending.Get(ctx, sessionToken)
	if err != nil {
		return err
	}

	ok, err := totp.ValidateTOTPAt(pending.Secret, token, s.now())
	if err != nil || !ok {
		return ErrInvalidToken
	}

	if err := s.pending.Delete(ctx, sessionToken); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Enable re-verifies the token against the client-submitted secret, encrypts
// and persists the secret, marks two-factor enabled, and mints the backup
// code set. The plaintext codes are returned exactly once.
func (s *Service) Enable(ctx context.Context, userID uuid.UUID, secret, token string) ([]string, error) {
	enabled, err := s.Status(ctx, userID)
	if err != nil {
		return nil, err
	}
	if enabled {
		return nil, ErrAlreadyEnabled
	}

	// The secret travels through the client between confirm and enable, so
	// possession is proven again before anything is persisted.
	ok, err := totp.ValidateTOTPAt(secret, token, s.now())
	if err != nil || !ok {
		return nil, ErrInvalidToken
	}

	ciphertext, err := totp.EncryptSecret(secret, s.masterKey)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to encrypt two-factor secret",
			logger.Error(err), logger.UserID(userID), logger.Operation("enable"))
		return nil, err
	}

	codes, err := totp.GenerateBackupCodes(s.cfg.BackupCodeCount)
	if err != nil {
		return nil, err
	}
	hashes := make([]string, len(codes))
	for i, code := range codes {
		hashes[i] = totp.HashBackupCode(code)
	}

	if err := s.settings.Enable(ctx, userID, ciphertext, hashes); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	return codes, nil
}

// Disable turns two-factor off after re-authentication: the caller must
// supply both the current password and a valid TOTP token. On success the
// secret ciphertext and all backup codes are cleared.
func (s *Service) Disable(ctx context.Context, userID uuid.UUID, token, currentPassword string) error {
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrSettingsNotFound) {
			return ErrNotEnabled
		}
		return errors.Join(ErrStoreUnavailable, err)
	}
	if !settings.Enabled {
		return ErrNotEnabled
	}

	if err := s.passwords.Verify(ctx, userID, currentPassword); err != nil {
		return ErrWrongPassword
	}

	secret, err := s.decryptSecret(ctx, userID, settings.SecretCiphertext)
	if err != nil {
		return err
	}

	ok, err := totp.ValidateTOTPAt(secret, token, s.now())
	if err != nil || !ok {
		return ErrInvalidToken
	}

	if err := s.settings.Disable(ctx, userID); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// ChallengeLogin authorizes the second factor of an interrupted login. A
// 6-digit token is checked as TOTP; anything else, or a failed TOTP check,
// falls back to single-use backup code consumption. Success establishes an
// authenticated session, optionally with the bounded trusted-device lifetime.
func (s *Service) ChallengeLogin(ctx context.Context, userID uuid.UUID, token string, trustedDevice bool) (*session.Session, *User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, ErrUnknownUser
	}

	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrSettingsNotFound) {
			return nil, nil, ErrNotEnabled
		}
		return nil, nil, errors.Join(ErrStoreUnavailable, err)
	}
	if !settings.Enabled {
		return nil, nil, ErrNotEnabled
	}

	isTOTPShaped := totpShapeRegex.MatchString(strings.TrimSpace(token))

	if isTOTPShaped {
		secret, err := s.decryptSecret(ctx, userID, settings.SecretCiphertext)
		if err != nil {
			return nil, nil, err
		}

		if ok, err := totp.ValidateTOTPAt(secret, token, s.now()); err == nil && ok {
			return s.establishSession(ctx, user, trustedDevice)
		}
	}

	consumed, err := s.settings.ConsumeBackupCode(ctx, userID, totp.HashBackupCode(token))
	if err != nil {
		return nil, nil, errors.Join(ErrStoreUnavailable, err)
	}
	if consumed {
		return s.establishSession(ctx, user, trustedDevice)
	}

	if isTOTPShaped {
		return nil, nil, ErrInvalidToken
	}
	return nil, nil, ErrInvalidBackupCode
}

// RegenerateBackupCodes mints a fresh backup code set, invalidating every
// previously issued code. Requires two-factor to be enabled.
func (s *Service) RegenerateBackupCodes(ctx context.Context, userID uuid.UUID) ([]string, error) {
	enabled, err := s.Status(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, ErrNotEnabled
	}

	codes, err := totp.GenerateBackupCodes(s.cfg.BackupCodeCount)
	if err != nil {
		return nil, err
	}
	hashes := make([]string, len(codes))
	for i, code := range codes {
		hashes[i] = totp.HashBackupCode(code)
	}

	if err := s.settings.ReplaceBackupCodes(ctx, userID, hashes); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	return codes, nil
}

// decryptSecret decrypts a stored secret and reports failures as
// operational incidents: an undecryptable secret means a key rotation or
// data corruption problem, never "2FA disabled".
func (s *Service) decryptSecret(ctx context.Context, userID uuid.UUID, ciphertext string) (string, error) {
	secret, err := totp.DecryptSecret(ciphertext, s.masterKey)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to decrypt stored two-factor secret",
			logger.Error(err), logger.UserID(userID))
		return "", err
	}
	return secret, nil
}

func (s *Service) establishSession(ctx context.Context, user *User, trustedDevice bool) (*session.Session, *User, error) {
	sess, err := s.sessions.Create(ctx, user.ID, trustedDevice)
	if err != nil {
		return nil, nil, err
	}
	return sess, user, nil
}

// manualEntryKey formats the secret in four-character groups for manual
// transcription into an authenticator app.
func manualEntryKey(secret string) string {
	var b strings.Builder
	for i, r := range secret {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
