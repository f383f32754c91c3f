package router

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"gestion-produits/internal/handler"
	"gestion-produits/internal/model"
	"gestion-produits/internal/repository"
	"gestion-produits/internal/service"
	"gestion-produits/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, testDB *testutil.TestDB) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	productService := service.NewProductService(productRepo, logger)

	return New(
		handler.NewProductHandler(productService, logger),
		handler.NewHealthHandler(testDB.Pool, logger),
		logger,
	)
}

func listProducts(t *testing.T, server http.Handler) []model.Product {
	t.Helper()
	w := do(t, server, http.MethodGet, "/api/produits", "")
	require.Equal(t, http.StatusOK, w.Code)

	var products []model.Product
	require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
	return products
}

func createProduct(t *testing.T, server http.Handler, body string) model.Product {
	t.Helper()
	w := do(t, server, http.MethodPost, "/api/produits", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var p model.Product
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	return p
}

func TestProductAPI_Integration(t *testing.T) {
	testDB := testutil.StartPostgres(t, true)
	server := setupTestServer(t, testDB)

	t.Run("GET /api/produits on empty table returns []", func(t *testing.T) {
		testDB.Truncate(t)

		w := do(t, server, http.MethodGet, "/api/produits", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("POST then GET lists the new product first", func(t *testing.T) {
		testDB.Truncate(t)

		first := createProduct(t, server, `{"name":"Clavier","price":49.9,"category":"Informatique"}`)
		second := createProduct(t, server, `{"name":"Souris","price":19.99,"category":"Informatique"}`)

		assert.NotZero(t, first.ID)
		assert.NotEqual(t, first.ID, second.ID)
		assert.False(t, second.CreatedAt.IsZero())

		products := listProducts(t, server)
		require.Len(t, products, 2)
		assert.Equal(t, second.ID, products[0].ID)
		assert.Equal(t, first.ID, products[1].ID)
	})

	t.Run("Price 199.99 round-trips exactly", func(t *testing.T) {
		testDB.Truncate(t)

		created := createProduct(t, server, `{"name":"Casque","price":199.99,"category":"Audio"}`)
		assert.Equal(t, "199.99", created.Price.String())

		products := listProducts(t, server)
		require.Len(t, products, 1)
		assert.True(t, decimal.RequireFromString("199.99").Equal(products[0].Price))
	})

	t.Run("POST with missing or empty fields persists nothing", func(t *testing.T) {
		testDB.Truncate(t)

		bodies := []string{
			`{"price":10,"category":"X"}`,
			`{"name":"","price":10,"category":"X"}`,
			`{"name":"A","category":"X"}`,
			`{"name":"A","price":"","category":"X"}`,
			`{"name":"A","price":10}`,
			`{"name":"A","price":10,"category":"  "}`,
			`{"name":"A","price":-5,"category":"X"}`,
		}
		for _, body := range bodies {
			w := do(t, server, http.MethodPost, "/api/produits", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, body)
		}

		assert.Empty(t, listProducts(t, server))
	})

	t.Run("POST with values outside the columns is a 400, not a 500", func(t *testing.T) {
		testDB.Truncate(t)

		bodies := []string{
			`{"name":"` + strings.Repeat("n", 300) + `","price":10,"category":"X"}`,
			`{"name":"A","price":10,"category":"` + strings.Repeat("c", 150) + `"}`,
			`{"name":"A","price":123456789,"category":"X"}`,
		}
		for _, body := range bodies {
			w := do(t, server, http.MethodPost, "/api/produits", body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			var resp model.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, "Données invalides", resp.Error)
		}

		assert.Empty(t, listProducts(t, server))
	})

	t.Run("PUT unknown ID returns zero affected rows and changes nothing", func(t *testing.T) {
		testDB.Truncate(t)
		existing := createProduct(t, server, `{"name":"Lampe","price":25,"category":"Maison"}`)

		w := do(t, server, http.MethodPut, "/api/produits/99999", `{"name":"X","price":1,"category":"Y"}`)

		require.Equal(t, http.StatusOK, w.Code)
		var resp model.MutationResult
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, int64(0), resp.AffectedRows)

		products := listProducts(t, server)
		require.Len(t, products, 1)
		assert.Equal(t, existing.ID, products[0].ID)
		assert.Equal(t, "Lampe", products[0].Name)
	})

	t.Run("PUT existing ID replaces all fields", func(t *testing.T) {
		testDB.Truncate(t)
		existing := createProduct(t, server, `{"name":"Lampe","price":25,"category":"Maison"}`)

		w := do(t, server, http.MethodPut, "/api/produits/"+strconv.FormatInt(existing.ID, 10), `{"name":"Lampe LED","price":"29.99","category":"Éclairage"}`)

		require.Equal(t, http.StatusOK, w.Code)
		var resp model.MutationResult
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, int64(1), resp.AffectedRows)
		assert.Equal(t, handler.MessageUpdated, resp.Message)

		products := listProducts(t, server)
		require.Len(t, products, 1)
		assert.Equal(t, "Lampe LED", products[0].Name)
		assert.Equal(t, "Éclairage", products[0].Category)
		assert.True(t, decimal.RequireFromString("29.99").Equal(products[0].Price))
	})

	t.Run("PUT partial payload is rejected", func(t *testing.T) {
		testDB.Truncate(t)
		existing := createProduct(t, server, `{"name":"Lampe","price":25,"category":"Maison"}`)

		w := do(t, server, http.MethodPut, "/api/produits/"+strconv.FormatInt(existing.ID, 10), `{"name":"Lampe LED"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Maison", listProducts(t, server)[0].Category)
	})

	t.Run("DELETE removes product, second DELETE affects zero rows", func(t *testing.T) {
		testDB.Truncate(t)
		p := createProduct(t, server, `{"name":"Table","price":80,"category":"Maison"}`)

		w := do(t, server, http.MethodDelete, "/api/produits/"+strconv.FormatInt(p.ID, 10), "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp model.MutationResult
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, int64(1), resp.AffectedRows)
		assert.Equal(t, handler.MessageDeleted, resp.Message)

		assert.Empty(t, listProducts(t, server))

		w = do(t, server, http.MethodDelete, "/api/produits/"+strconv.FormatInt(p.ID, 10), "")
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, int64(0), resp.AffectedRows)
	})

	t.Run("GET /health pings the database", func(t *testing.T) {
		w := do(t, server, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestProductAPI_StorageError_Integration(t *testing.T) {
	testDB := testutil.StartPostgres(t, false)
	server := setupTestServer(t, testDB)

	w := do(t, server, http.MethodGet, "/api/produits", "")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Erreur serveur", resp.Error)
	assert.Contains(t, resp.Details, "produits")
}
