package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"go-chi-calculator/internal/calcapi"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/web"
)

// NewRouter builds the service router. site may be nil to serve the API only.
func NewRouter(calc *calcapi.Handler, site *web.Site) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	calcapi.RegisterRoutes(r, calc)

	if site != nil {
		r.Get("/", site.Index)
		r.Handle("/static/*", site.Assets())
	}

	return r
}
