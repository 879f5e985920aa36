package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vendo-labs/vendoai/internal/api"
	"github.com/vendo-labs/vendoai/internal/api/handlers"
	"github.com/vendo-labs/vendoai/internal/api/middleware"
)

type RouterConfig struct {
	AuthValidator     middleware.AuthValidator
	RetrieveHandler   *handlers.RetrieveHandler
	CsatHandler       *handlers.CsatHandler
	CatalogHandler    *handlers.CatalogHandler
	CustomerHandler   *handlers.CustomerHandler
	OnboardingHandler *handlers.OnboardingHandler
	AuthHandler       *handlers.AuthHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.AuthValidator))

		r.Post("/retrieve", cfg.RetrieveHandler.Retrieve)

		r.Route("/csat", func(r chi.Router) {
			r.Post("/", cfg.CsatHandler.Submit)
			r.Get("/analytics", cfg.CsatHandler.Analytics)
			r.Get("/ratings", cfg.CsatHandler.ListRatings)
		})

		r.Post("/products", cfg.CatalogHandler.CreateProduct)
		r.Post("/documents", cfg.CatalogHandler.CreateDocument)

		r.Post("/onboarding/document", cfg.OnboardingHandler.GenerateDocument)

		r.Delete("/customers/{id}", cfg.CustomerHandler.Delete)
	})

	r.Post("/tenants", cfg.AuthHandler.CreateTenant)
	r.Post("/apikeys", cfg.AuthHandler.CreateAPIKey)

	return r
}
