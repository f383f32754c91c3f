// Package catalog bulk-loads products from CSV or YAML catalog files stored
// on the local file system or in S3.
package catalog

import (
	"context"
	"strings"

	"gestion-produits/internal/model"

	"github.com/shopspring/decimal"
)

// Entry is one product row read from a catalog file, before validation.
type Entry struct {
	// Line is the 1-based record number in the source file (header excluded).
	Line     int
	Name     string
	Price    string
	Category string
}

// Input converts the entry to a service payload. A blank price is treated as
// absent; an unparsable price is reported as model.ErrInvalidPrice.
func (e Entry) Input() (model.ProductInput, error) {
	in := model.ProductInput{
		Name:     &e.Name,
		Category: &e.Category,
	}

	raw := strings.TrimSpace(e.Price)
	if raw == "" {
		return in, nil
	}

	// Accept a decimal comma, common in spreadsheet exports.
	if !strings.Contains(raw, ".") {
		raw = strings.Replace(raw, ",", ".", 1)
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return in, model.ErrInvalidPrice
	}
	in.Price = &price
	return in, nil
}

// Loader defines the interface for loading catalog files.
type Loader interface {
	// Load reads the catalog at path and returns its entries in file order.
	Load(ctx context.Context, path string) ([]Entry, error)
}

// Creator stores a single product. service.ProductService satisfies it.
type Creator interface {
	Create(ctx context.Context, in model.ProductInput) (*model.Product, error)
}
