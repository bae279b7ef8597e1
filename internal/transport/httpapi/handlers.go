package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/twofa/pkg/httpx"
	"github.com/dmitrymomot/twofa/pkg/logger"
	"github.com/dmitrymomot/twofa/pkg/session"
)

type statusResponse struct {
	Enabled bool `json:"enabled"`
}

type enrollmentResponse struct {
	Secret         string `json:"secret"`
	OTPAuthURI     string `json:"otpauth_uri"`
	QRImage        string `json:"qr_image"`
	ManualEntryKey string `json:"manual_entry_key"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Verified bool `json:"verified"`
}

type enableRequest struct {
	Secret string `json:"secret"`
	Token  string `json:"token"`
}

type backupCodesResponse struct {
	BackupCodes []string `json:"backup_codes"`
}

type disableRequest struct {
	Token           string `json:"token"`
	CurrentPassword string `json:"current_password"`
}

type disableResponse struct {
	Disabled bool `json:"disabled"`
}

type loginRequest struct {
	UserID         string `json:"user_id"`
	Token          string `json:"token"`
	RememberDevice bool   `json:"remember_device"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      userView  `json:"user"`
}

type userView struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	enabled, err := h.svc.Status(r.Context(), sess.UserID)
	if err != nil {
		h.fail(w, r, "status", err)
		return
	}
	httpx.JSON(w, http.StatusOK, statusResponse{Enabled: enabled})
}

func (h *Handler) beginSetup(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	enrollment, err := h.svc.BeginSetup(r.Context(), sess.UserID, sess.Token)
	if err != nil {
		h.fail(w, r, "begin_setup", err)
		return
	}
	httpx.JSON(w, http.StatusOK, enrollmentResponse{
		Secret:         enrollment.Secret,
		OTPAuthURI:     enrollment.OTPAuthURI,
		QRImage:        enrollment.QRImage,
		ManualEntryKey: enrollment.ManualEntryKey,
	})
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req verifyRequest
	if err := decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.svc.ConfirmSetup(r.Context(), sess.Token, req.Token); err != nil {
		h.fail(w, r, "confirm_setup", err)
		return
	}
	httpx.JSON(w, http.StatusOK, verifyResponse{Verified: true})
}

func (h *Handler) enable(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req enableRequest
	if err := decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	codes, err := h.svc.Enable(r.Context(), sess.UserID, req.Secret, req.Token)
	if err != nil {
		h.fail(w, r, "enable", err)
		return
	}
	httpx.JSON(w, http.StatusOK, backupCodesResponse{BackupCodes: codes})
}

func (h *Handler) disable(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req disableRequest
	if err := decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.svc.Disable(r.Context(), sess.UserID, req.Token, req.CurrentPassword); err != nil {
		h.fail(w, r, "disable", err)
		return
	}
	httpx.JSON(w, http.StatusOK, disableResponse{Disabled: true})
}

func (h *Handler) backupCodes(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	codes, err := h.svc.RegenerateBackupCodes(r.Context(), sess.UserID)
	if err != nil {
		h.fail(w, r, "regenerate_backup_codes", err)
		return
	}
	httpx.JSON(w, http.StatusOK, backupCodesResponse{BackupCodes: codes})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		httpx.Error(w, httpx.NewHTTPError(http.StatusBadRequest, "bad_request", "invalid user id"))
		return
	}

	sess, user, err := h.svc.ChallengeLogin(r.Context(), userID, req.Token, req.RememberDevice)
	if err != nil {
		h.fail(w, r, "challenge_login", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.sessions.Config().CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	httpx.JSON(w, http.StatusOK, loginResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		User:      userView{ID: user.ID, Email: user.Email},
	})
}

// fail logs server-side failures and writes the mapped error. Expected
// domain outcomes (wrong token, expired setup) are not logged as errors.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	mapped := mapError(err)

	var httpErr httpx.HTTPError
	isClient := false
	if e, ok := mapped.(httpx.HTTPError); ok {
		httpErr = e
		isClient = httpErr.Code < http.StatusInternalServerError
	}
	if !isClient {
		h.log.ErrorContext(r.Context(), "two-factor request failed",
			logger.Error(err), logger.Operation(op))
	}

	httpx.Error(w, mapped)
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return httpx.NewHTTPError(http.StatusBadRequest, "bad_request", "malformed request body")
	}
	return nil
}
