package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gestion-produits/internal/handler"
	"gestion-produits/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memService is an in-memory ProductService used to exercise routing.
type memService struct {
	nextID   int64
	products []model.Product
}

func (s *memService) List(ctx context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0, len(s.products))
	for i := len(s.products) - 1; i >= 0; i-- {
		out = append(out, s.products[i])
	}
	return out, nil
}

func (s *memService) Create(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	if in.Name == nil || in.Price == nil || in.Category == nil {
		return nil, model.ErrMissingFields
	}
	s.nextID++
	p := model.Product{ID: s.nextID, Name: *in.Name, Price: *in.Price, Category: *in.Category}
	s.products = append(s.products, p)
	return &p, nil
}

func (s *memService) Update(ctx context.Context, id int64, in model.ProductInput) (int64, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].Name = *in.Name
			s.products[i].Price = *in.Price
			s.products[i].Category = *in.Category
			return 1, nil
		}
	}
	return 0, nil
}

func (s *memService) Delete(ctx context.Context, id int64) (int64, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *memService) Count(ctx context.Context) (int64, error) {
	return int64(len(s.products)), nil
}

func newTestRouter() http.Handler {
	logger := zerolog.Nop()
	return New(
		handler.NewProductHandler(&memService{}, logger),
		handler.NewHealthHandler(nil, logger),
		logger,
	)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_Routes(t *testing.T) {
	h := newTestRouter()

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{name: "List", method: http.MethodGet, path: "/api/produits", expectedStatus: http.StatusOK},
		{name: "Create", method: http.MethodPost, path: "/api/produits", body: `{"name":"A","price":1,"category":"B"}`, expectedStatus: http.StatusOK},
		{name: "List with trailing slash", method: http.MethodGet, path: "/api/produits/", expectedStatus: http.StatusOK},
		{name: "Create with trailing slash", method: http.MethodPost, path: "/api/produits/", body: `{"name":"A","price":1,"category":"B"}`, expectedStatus: http.StatusOK},
		{name: "Update", method: http.MethodPut, path: "/api/produits/1", body: `{"name":"A","price":1,"category":"B"}`, expectedStatus: http.StatusOK},
		{name: "Delete", method: http.MethodDelete, path: "/api/produits/1", expectedStatus: http.StatusOK},
		{name: "API test", method: http.MethodGet, path: "/api/test", expectedStatus: http.StatusOK},
		{name: "Health", method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK},
		{name: "Metrics", method: http.MethodGet, path: "/metrics", expectedStatus: http.StatusOK},
		{name: "Preflight", method: http.MethodOptions, path: "/api/produits/1", expectedStatus: http.StatusNoContent},
		{name: "Method not allowed", method: http.MethodPatch, path: "/api/produits/1", expectedStatus: http.StatusMethodNotAllowed},
		{name: "Unknown path", method: http.MethodGet, path: "/api/unknown", expectedStatus: http.StatusNotFound},
		{name: "Unknown path below products", method: http.MethodGet, path: "/api/produits/1/extra", expectedStatus: http.StatusNotFound},
		{name: "Update with trailing slash only", method: http.MethodPut, path: "/api/produits/", body: `{}`, expectedStatus: http.StatusMethodNotAllowed},
		{name: "Update without ID", method: http.MethodPut, path: "/api/produits", body: `{}`, expectedStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRouter_ErrorCarriesCorrelationID(t *testing.T) {
	h := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/produits", strings.NewReader(`{"name":"A"}`))
	req.Header.Set("X-Request-ID", "corr-42")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Données manquantes", resp.Error)
	assert.Equal(t, "corr-42", resp.CorrelationID)
}

func TestRouter_CreateThenListNewestFirst(t *testing.T) {
	h := newTestRouter()

	do(t, h, http.MethodPost, "/api/produits", `{"name":"Premier","price":"1.00","category":"X"}`)
	w := do(t, h, http.MethodPost, "/api/produits", `{"name":"Second","price":"2.00","category":"X"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var created model.Product
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))

	w = do(t, h, http.MethodGet, "/api/produits", "")
	var products []model.Product
	require.NoError(t, json.NewDecoder(w.Body).Decode(&products))

	require.Len(t, products, 2)
	assert.Equal(t, created.ID, products[0].ID)
	assert.True(t, decimal.RequireFromString("2").Equal(products[0].Price))
}
