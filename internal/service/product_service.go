package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"gestion-produits/internal/metrics"
	"gestion-produits/internal/model"
	"gestion-produits/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Column bounds of the produits table.
const (
	MaxNameLength     = 255
	MaxCategoryLength = 100
)

// MaxPrice is the exclusive upper bound of a NUMERIC(10,2) price.
var MaxPrice = decimal.New(1, 8)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves all products, newest first.
func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}

	s.logger.Debug().Int("count", len(products)).Msg("retrieved products")
	return products, nil
}

// Create validates input and stores a new product.
func (s *productService) Create(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	p, err := ValidateInput(in)
	if err != nil {
		s.logger.Debug().Err(err).Msg("rejected product input")
		return nil, err
	}

	if err := s.productRepo.Create(ctx, &p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	metrics.RecordMutation("create", 1)

	s.logger.Info().Int64("product_id", p.ID).Msg("product created")
	return &p, nil
}

// Update validates input and replaces the product with the given ID.
func (s *productService) Update(ctx context.Context, id int64, in model.ProductInput) (int64, error) {
	p, err := ValidateInput(in)
	if err != nil {
		s.logger.Debug().Err(err).Int64("product_id", id).Msg("rejected product input")
		return 0, err
	}
	p.ID = id

	affected, err := s.productRepo.Update(ctx, &p)
	if err != nil {
		return 0, fmt.Errorf("failed to update product: %w", err)
	}
	metrics.RecordMutation("update", affected)

	s.logger.Info().Int64("product_id", id).Int64("affected_rows", affected).Msg("product updated")
	return affected, nil
}

// Delete removes the product with the given ID.
func (s *productService) Delete(ctx context.Context, id int64) (int64, error) {
	affected, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete product: %w", err)
	}
	metrics.RecordMutation("delete", affected)

	s.logger.Info().Int64("product_id", id).Int64("affected_rows", affected).Msg("product deleted")
	return affected, nil
}

// Count returns the number of stored products.
func (s *productService) Count(ctx context.Context) (int64, error) {
	n, err := s.productRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

// ValidateInput checks that name, price and category are all present, that
// price is not negative and that every value fits its column. Name and
// category are trimmed. Lengths count runes, as VARCHAR does.
func ValidateInput(in model.ProductInput) (model.Product, error) {
	if in.Name == nil || in.Price == nil || in.Category == nil {
		return model.Product{}, model.ErrMissingFields
	}

	name := strings.TrimSpace(*in.Name)
	category := strings.TrimSpace(*in.Category)
	if name == "" || category == "" {
		return model.Product{}, model.ErrMissingFields
	}

	if utf8.RuneCountInString(name) > MaxNameLength {
		return model.Product{}, model.ErrNameTooLong
	}
	if utf8.RuneCountInString(category) > MaxCategoryLength {
		return model.Product{}, model.ErrCategoryTooLong
	}

	if in.Price.IsNegative() {
		return model.Product{}, model.ErrNegativePrice
	}
	// Postgres rounds to the column scale before checking precision.
	if in.Price.Round(2).GreaterThanOrEqual(MaxPrice) {
		return model.Product{}, model.ErrPriceTooHigh
	}

	return model.Product{
		Name:     name,
		Price:    *in.Price,
		Category: category,
	}, nil
}
