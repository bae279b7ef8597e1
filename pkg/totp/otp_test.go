package totp_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/twofa/pkg/totp"
)

func TestGenerateSecretKey(t *testing.T) {
	t.Parallel()
	secret, err := totp.GenerateSecretKey()
	require.NoError(t, err)
	assert.NotEmpty(t, secret)
	assert.Regexp(t, totp.ValidateSecretKeyRegex, secret)

	another, err := totp.GenerateSecretKey()
	require.NoError(t, err)
	assert.NotEqual(t, secret, another)
}

func TestGetTOTPURI(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		params  totp.TOTPParams
		want    string
		wantErr error
	}{
		{
			name: "basic URI",
			params: totp.TOTPParams{
				Secret:      "ABCDEFGHIJKLMNOP",
				AccountName: "test@example.com",
				Issuer:      "TestApp",
			},
			want: "otpauth://totp/TestApp:test@example.com?algorithm=SHA1&digits=6&issuer=TestApp&period=30&secret=ABCDEFGHIJKLMNOP",
		},
		{
			name: "special characters",
			params: totp.TOTPParams{
				Secret:      "ABCDEFGHIJKLMNOP",
				AccountName: "test+user@example.com",
				Issuer:      "Test & App",
				Algorithm:   "SHA1",
				Digits:      6,
				Period:      30,
			},
			want: "otpauth://totp/Test%20&%20App:test+user@example.com?algorithm=SHA1&digits=6&issuer=Test+%26+App&period=30&secret=ABCDEFGHIJKLMNOP",
		},
		{
			name:    "missing secret",
			params:  totp.TOTPParams{AccountName: "a@b.c", Issuer: "App"},
			wantErr: totp.ErrMissingSecret,
		},
		{
			name:    "invalid secret alphabet",
			params:  totp.TOTPParams{Secret: "not-base32!", AccountName: "a@b.c", Issuer: "App"},
			wantErr: totp.ErrInvalidSecret,
		},
		{
			name:    "missing account name",
			params:  totp.TOTPParams{Secret: "ABCDEFGHIJKLMNOP", Issuer: "App"},
			wantErr: totp.ErrMissingAccountName,
		},
		{
			name:    "missing issuer",
			params:  totp.TOTPParams{Secret: "ABCDEFGHIJKLMNOP", AccountName: "a@b.c"},
			wantErr: totp.ErrMissingIssuer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := totp.GetTOTPURI(tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateTOTPAt_AcceptanceWindow(t *testing.T) {
	t.Parallel()
	secret, err := totp.GenerateSecretKey()
	require.NoError(t, err)

	// Pin to the middle of a window so drift offsets stay within one step.
	now := time.Unix(1_700_000_015, 0)
	code, err := totp.GenerateTOTPWithTime(secret, now)
	require.NoError(t, err)

	tests := []struct {
		name  string
		at    time.Time
		valid bool
	}{
		{"exact time", now, true},
		{"29s earlier", now.Add(-29 * time.Second), true},
		{"29s later", now.Add(29 * time.Second), true},
		{"61s earlier", now.Add(-61 * time.Second), false},
		{"61s later", now.Add(61 * time.Second), false},
		{"two windows later", now.Add(2 * time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ok, err := totp.ValidateTOTPAt(secret, code, tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, ok)
		})
	}
}

func TestValidateTOTPAt_MalformedInput(t *testing.T) {
	t.Parallel()
	secret, err := totp.GenerateSecretKey()
	require.NoError(t, err)

	now := time.Now()

	tests := []struct {
		name    string
		secret  string
		otp     string
		wantErr error
	}{
		{"too short", secret, "12345", totp.ErrInvalidOTP},
		{"too long", secret, "1234567", totp.ErrInvalidOTP},
		{"non numeric", secret, "12a456", totp.ErrInvalidOTP},
		{"empty", secret, "", totp.ErrInvalidOTP},
		{"bad secret", "lowercase!", "123456", totp.ErrInvalidSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ok, err := totp.ValidateTOTPAt(tt.secret, tt.otp, now)
			assert.False(t, ok)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateTOTP_RejectsWrongCode(t *testing.T) {
	t.Parallel()
	secret, err := totp.GenerateSecretKey()
	require.NoError(t, err)

	now := time.Unix(1_700_000_015, 0)
	code, err := totp.GenerateTOTPWithTime(secret, now)
	require.NoError(t, err)

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}

	ok, err := totp.ValidateTOTPAt(secret, wrong, now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenerateHOTP_RFC4226Vectors(t *testing.T) {
	t.Parallel()
	// Appendix D of RFC 4226, secret "12345678901234567890".
	key := []byte("12345678901234567890")
	want := []int{755224, 287082, 359152, 969429, 338314, 254676, 287922, 162583, 399871, 520489}

	for counter, expected := range want {
		assert.Equal(t, expected, totp.GenerateHOTP(key, int64(counter), 6), "counter %d", counter)
	}
}
