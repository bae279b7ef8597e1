package httpapi

import (
	"log/slog"

	"github.com/dmitrymomot/twofa/internal/twofa"
	"github.com/dmitrymomot/twofa/pkg/ratelimiter"
	"github.com/dmitrymomot/twofa/pkg/session"
)

// Handler exposes the two-factor service over HTTP.
type Handler struct {
	svc      *twofa.Service
	sessions *session.Manager
	log      *slog.Logger
	limiter  ratelimiter.RateLimiter
}

// Option configures the Handler.
type Option func(*Handler)

// WithRateLimiter enables per-client-IP throttling of the endpoints that
// accept a verification token. Without it, guessing codes is unthrottled.
func WithRateLimiter(rl ratelimiter.RateLimiter) Option {
	return func(h *Handler) {
		h.limiter = rl
	}
}

// NewHandler creates a Handler. The logger may be nil.
func NewHandler(svc *twofa.Service, sessions *session.Manager, log *slog.Logger, opts ...Option) *Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	h := &Handler{
		svc:      svc,
		sessions: sessions,
		log:      log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
