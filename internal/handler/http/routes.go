package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Route("/api", func(r chi.Router) {
		r.Post("/users", h.signup)
		r.Get("/users/{id}", h.userProfile)
		r.Patch("/users/{id}", h.updatePassword)

		r.Post("/session", h.login)
		r.Delete("/session", h.logout)
		r.Get("/me", h.me)

		r.Post("/password_resets", h.requestPasswordReset)
		r.Patch("/password_resets/{token}", h.completePasswordReset)

		r.Get("/account_activations/{token}", h.activateAccount)
	})

	return router
}
