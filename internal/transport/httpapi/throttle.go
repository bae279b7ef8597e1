package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrymomot/twofa/pkg/clientip"
	"github.com/dmitrymomot/twofa/pkg/httpx"
	"github.com/dmitrymomot/twofa/pkg/logger"
)

// throttle limits token-bearing requests per client IP. Applied to the
// endpoints where an attacker could guess 6-digit codes or backup codes.
func (h *Handler) throttle(next http.Handler) http.Handler {
	if h.limiter == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result, err := h.limiter.Allow(r.Context(), clientip.GetIP(r))
		if err != nil {
			h.log.ErrorContext(r.Context(), "rate limit check failed", logger.Error(err))
			httpx.Error(w, httpx.ErrInternalServerError)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed() {
			if retryAfter := int(result.RetryAfter().Seconds()); retryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			}
			httpx.Error(w, httpx.NewHTTPError(http.StatusTooManyRequests, "too_many_requests", "too many attempts, slow down"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
