package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts all calculator endpoints onto the given router
// under the /calculator prefix. Routes under /calculator/session require a
// session token.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/calculator", func(r chi.Router) {
		r.Post("/sessions", h.CreateSession)
		r.Post("/replay", h.Replay)
		r.Post("/evaluate", h.Compute)

		r.Group(func(r chi.Router) {
			r.Use(h.tokens.Middleware)

			r.Get("/session", h.GetSession)
			r.Delete("/session", h.DeleteSession)
			r.Post("/session/dispatch", h.Dispatch)
			r.Post("/session/press", h.Press)
		})
	})
}
