package handler

import (
	"encoding/json"
	"net/http"

	"gestion-produits/internal/middleware"
	"gestion-produits/internal/model"

	"github.com/rs/zerolog"
)

// Error titles returned in the "error" field.
const (
	errTitleServer  = "Erreur serveur"
	errTitleMissing = "Données manquantes"
	errTitleInvalid = "Données invalides"
)

// maxBodyBytes bounds request bodies read by the JSON handlers.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already sent, so an encode failure cannot be reported.
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response carrying the request's correlation ID.
func writeError(w http.ResponseWriter, r *http.Request, status int, title, details string, logger zerolog.Logger) {
	correlationID := middleware.RequestIDFromContext(r.Context())

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error", title).
		Str("details", details).
		Int("status", status).
		Str("request_id", correlationID).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:         title,
		Details:       details,
		CorrelationID: correlationID,
	})
}

// writeServiceError maps domain errors to 400 and everything else to 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	de, ok := model.IsDomainError(err)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, errTitleServer, err.Error(), logger)
		return
	}

	title := errTitleInvalid
	if de.Code == model.ErrCodeMissingField {
		title = errTitleMissing
	}
	writeError(w, r, http.StatusBadRequest, title, de.Message, logger)
}
