package repository

import (
	"context"

	"gestion-produits/internal/model"
)

// ProductRepository defines the interface for product data access operations.
// Each method issues exactly one SQL statement.
type ProductRepository interface {
	// List retrieves every product, newest first by ID.
	List(ctx context.Context) ([]model.Product, error)

	// Create inserts a product and fills in its ID and CreatedAt from the database.
	Create(ctx context.Context, p *model.Product) error

	// Update replaces the mutable fields of the product with p.ID.
	// Returns the number of rows changed, 0 when the ID is unknown.
	Update(ctx context.Context, p *model.Product) (int64, error)

	// Delete removes the product with the given ID.
	// Returns the number of rows removed, 0 when the ID is unknown.
	Delete(ctx context.Context, id int64) (int64, error)

	// Count returns the number of stored products.
	Count(ctx context.Context) (int64, error)
}
