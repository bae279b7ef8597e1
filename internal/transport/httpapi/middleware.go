package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/twofa/pkg/httpx"
	"github.com/dmitrymomot/twofa/pkg/session"
)

// requireSession resolves the caller's session from the session cookie or an
// Authorization bearer token and stores it in the request context. Requests
// without a live session are rejected with 401.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.sessionToken(r)
		if token == "" {
			httpx.Error(w, httpx.ErrUnauthorized)
			return
		}

		sess, err := h.sessions.Get(r.Context(), token)
		if err != nil {
			httpx.Error(w, httpx.ErrUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
	})
}

func (h *Handler) sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(h.sessions.Config().CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
