package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/newsletter-optin/internal/service/subscription"
)

// SetupRoutes configures the router.
//
// The confirmation endpoint lives outside /api because its URL ships in
// emails and must stay stable and cookie-free.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HandleHealth)

	r.Get(subscription.ConfirmPath, h.HandleConfirm)

	r.Route("/api/newsletter", func(r chi.Router) {
		r.Post("/subscribe", h.HandleSubscribe)
		r.Get("/lists", h.HandleListOptions)
		r.Get("/lists/{id}", h.HandleListDetail)
	})

	return r
}
