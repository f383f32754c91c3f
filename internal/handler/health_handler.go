package handler

import (
	"context"
	"net/http"
	"time"

	"gestion-produits/internal/model"

	"github.com/rs/zerolog"
)

// HealthMessage is the acknowledgement returned by the API test endpoint.
const HealthMessage = "API fonctionne!"

// Pinger checks storage connectivity. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the API test and liveness endpoints.
type HealthHandler struct {
	db     Pinger
	now    func() time.Time
	logger zerolog.Logger
}

// NewHealthHandler creates a health handler. db may be nil, in which case
// /health reports healthy without checking storage.
func NewHealthHandler(db Pinger, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		now:    time.Now,
		logger: logger.With().Str("handler", "health").Logger(),
	}
}

// Test handles GET /api/test.
func (h *HealthHandler) Test(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{
		Message:   HealthMessage,
		Timestamp: h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			h.logger.Error().Err(err).Msg("database ping failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
