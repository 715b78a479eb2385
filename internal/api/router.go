package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/shopcore/internal/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func NewRouter(h *Handler, limiter *rate.Limiter, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(AccessLog(logger))
	r.Use(Recover(logger))
	r.Use(Metrics)

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(RateLimit(limiter))

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", h.CreateCategory)
			r.Get("/", h.ListCategories)
			r.Get("/{id}", h.GetCategory)
			r.Patch("/{id}", h.PatchCategory)
			r.Delete("/{id}", h.DeleteCategory)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", h.CreateProduct)
			r.Get("/", h.ListProducts)
			r.Get("/{id}", h.GetProduct)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(RequireUser)

				r.Get("/current", h.CurrentOrder)
				r.Patch("/change-quantity", h.ChangeQuantity)
				r.Get("/history", h.OrderHistory)
			})

			// payment collaborator endpoints, no end user identity
			r.Get("/{id}", h.GetOrder)
			r.Post("/{id}/close", h.CloseOrder)
		})
	})

	return r
}
