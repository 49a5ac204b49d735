package router

import (
	"net/http"

	"shopsifu-discount/internal/handler"
	"shopsifu-discount/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
// The availability listing is public; everything else requires a
// gateway-authenticated identity.
func New(
	discountHandler *handler.DiscountHandler,
	manageHandler *handler.ManageHandler,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", middleware.HeaderUserID, middleware.HeaderUserRole},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/discounts", func(r chi.Router) {
		r.Get("/available", discountHandler.Available)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireActor(logger))
			r.Post("/validate-code", discountHandler.ValidateCode)
		})
	})

	r.Route("/manage-discount/discounts", func(r chi.Router) {
		r.Use(middleware.RequireActor(logger))

		r.Get("/", manageHandler.List)
		r.Post("/", manageHandler.Create)
		r.Get("/{id}", manageHandler.GetByID)
		r.Put("/{id}", manageHandler.Update)
		r.Delete("/{id}", manageHandler.Delete)
	})

	return r
}
