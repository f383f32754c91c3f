package router

import (
	"net/http"

	"gestion-produits/internal/handler"
	"gestion-produits/internal/metrics"
	"gestion-produits/internal/middleware"

	"github.com/rs/zerolog"
)

// BasePath is the prefix of the product resource.
const BasePath = "/api/produits"

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	healthHandler *handler.HealthHandler,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// {$} keeps the trailing-slash form an exact match instead of a subtree.
	for _, path := range []string{BasePath, BasePath + "/{$}"} {
		mux.HandleFunc("GET "+path, productHandler.List)
		mux.HandleFunc("POST "+path, productHandler.Create)
	}
	mux.HandleFunc("PUT "+BasePath+"/{id}", productHandler.Update)
	mux.HandleFunc("DELETE "+BasePath+"/{id}", productHandler.Delete)

	mux.HandleFunc("GET /api/test", healthHandler.Test)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", metrics.Handler())

	// Applied innermost first: Metrics must sit directly on the mux to see
	// the matched pattern, and RequestID must run before Logging.
	var h http.Handler = mux
	h = middleware.Metrics(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.RequestID(h)
	h = middleware.Recovery(logger)(h)

	return h
}
