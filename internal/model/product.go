package model

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a single inventory item.
type Product struct {
	ID        int64           `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Category  string          `json:"category" db:"category"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// ProductInput is the request payload for creating or replacing a product.
// Pointer fields distinguish an absent field from an empty one.
type ProductInput struct {
	Name     *string          `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Category *string          `json:"category"`
}

// UnmarshalJSON decodes a payload, treating a null or empty-string price as
// absent and any other non-numeric price as invalid.
func (in *ProductInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name     *string         `json:"name"`
		Price    json.RawMessage `json:"price"`
		Category *string         `json:"category"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	in.Name = raw.Name
	in.Category = raw.Category
	in.Price = nil

	price := bytes.TrimSpace(raw.Price)
	if len(price) == 0 || bytes.Equal(price, []byte("null")) || bytes.Equal(price, []byte(`""`)) {
		return nil
	}

	var d decimal.Decimal
	if err := d.UnmarshalJSON(price); err != nil {
		return ErrInvalidPrice
	}
	in.Price = &d
	return nil
}

// MutationResult is returned by update and delete, which report only a row count.
type MutationResult struct {
	Message      string `json:"message"`
	AffectedRows int64  `json:"affectedRows"`
}

// HealthResponse is the payload of the API test endpoint.
type HealthResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
