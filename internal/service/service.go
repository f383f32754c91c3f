package service

import (
	"context"

	"gestion-produits/internal/model"
)

// ProductService defines operations for product management.
type ProductService interface {
	// List retrieves all products, newest first.
	List(ctx context.Context) ([]model.Product, error)

	// Create validates input and stores a new product.
	Create(ctx context.Context, in model.ProductInput) (*model.Product, error)

	// Update validates input and replaces the product with the given ID.
	// An unknown ID is not an error and yields zero affected rows.
	Update(ctx context.Context, id int64, in model.ProductInput) (int64, error)

	// Delete removes the product with the given ID.
	// An unknown ID is not an error and yields zero affected rows.
	Delete(ctx context.Context, id int64) (int64, error)

	// Count returns the number of stored products.
	Count(ctx context.Context) (int64, error)
}
