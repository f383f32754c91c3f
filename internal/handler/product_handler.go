package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"gestion-produits/internal/model"
	"gestion-produits/internal/service"

	"github.com/rs/zerolog"
)

// Messages returned by mutations that report only a row count.
const (
	MessageUpdated = "Produit modifié"
	MessageDeleted = "Produit supprimé"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/produits.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	h.logger.Debug().Int("count", len(products)).Msg("products listed")
	writeJSON(w, http.StatusOK, products)
}

// Create handles POST /api/produits.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	product, err := h.service.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Update handles PUT /api/produits/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	affected, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.MutationResult{
		Message:      MessageUpdated,
		AffectedRows: affected,
	})
}

// Delete handles DELETE /api/produits/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	affected, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.MutationResult{
		Message:      MessageDeleted,
		AffectedRows: affected,
	})
}

// pathID parses the {id} path segment.
func (h *ProductHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, errTitleInvalid, model.ErrInvalidID.Message, h.logger)
		return 0, false
	}
	return id, true
}

func (h *ProductHandler) decodeInput(w http.ResponseWriter, r *http.Request) (model.ProductInput, bool) {
	var in model.ProductInput

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		if de, ok := model.IsDomainError(err); ok {
			writeError(w, r, http.StatusBadRequest, errTitleInvalid, de.Message, h.logger)
		} else {
			writeError(w, r, http.StatusBadRequest, errTitleInvalid, model.ErrInvalidJSON.Message, h.logger)
		}
		return model.ProductInput{}, false
	}

	// The body must hold exactly one JSON value.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, errTitleInvalid, model.ErrInvalidJSON.Message, h.logger)
		return model.ProductInput{}, false
	}
	return in, true
}
