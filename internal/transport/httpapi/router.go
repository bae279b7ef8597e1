package httpapi

import (
	"github.com/go-chi/chi/v5"
)

// Router mounts the two-factor endpoints. The login challenge is the only
// route reachable without an authenticated session: it completes a login
// that has no session yet.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Route("/2fa", func(r chi.Router) {
		r.With(h.throttle).Post("/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(h.requireSession)

			r.Get("/status", h.status)
			r.Get("/setup", h.beginSetup)
			r.With(h.throttle).Post("/verify", h.verify)
			r.With(h.throttle).Post("/enable", h.enable)
			r.With(h.throttle).Post("/disable", h.disable)
			r.Get("/backup-codes", h.backupCodes)
		})
	})

	return r
}
