// Package client is a typed HTTP client for the products API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gestion-produits/internal/model"

	"github.com/rs/zerolog"
)

const (
	productsPath = "/api/produits"
	testPath     = "/api/test"

	defaultTimeout = 10 * time.Second
)

// ErrUnreachable is returned when the server could not be contacted at all.
var ErrUnreachable = errors.New("server unreachable")

// APIError is a failure reported by the server with an {error, details} body.
type APIError struct {
	StatusCode    int
	Message       string
	Details       string
	CorrelationID string
}

func (e *APIError) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return e.Message + " — " + e.Details
}

// Client calls the products API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the API served at baseURL.
func New(baseURL string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.With().Str("component", "api-client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns all products, newest first.
func (c *Client) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, productsPath, nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// Create stores a new product and returns it as persisted by the server.
func (c *Client) Create(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	var p model.Product
	if err := c.do(ctx, http.MethodPost, productsPath, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update replaces the product with the given ID.
func (c *Client) Update(ctx context.Context, id int64, in model.ProductInput) (model.MutationResult, error) {
	var res model.MutationResult
	err := c.do(ctx, http.MethodPut, productPath(id), in, &res)
	return res, err
}

// Delete removes the product with the given ID.
func (c *Client) Delete(ctx context.Context, id int64) (model.MutationResult, error) {
	var res model.MutationResult
	err := c.do(ctx, http.MethodDelete, productPath(id), nil, &res)
	return res, err
}

// Test calls the API health check.
func (c *Client) Test(ctx context.Context) (model.HealthResponse, error) {
	var res model.HealthResponse
	err := c.do(ctx, http.MethodGet, testPath, nil, &res)
	return res, err
}

func productPath(id int64) string {
	return productsPath + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", resp.Header.Get("X-Request-ID")).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body model.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err != nil || body.Error == "" {
		return fmt.Errorf("unexpected status code: %s", resp.Status)
	}
	return &APIError{
		StatusCode:    resp.StatusCode,
		Message:       body.Error,
		Details:       body.Details,
		CorrelationID: body.CorrelationID,
	}
}
