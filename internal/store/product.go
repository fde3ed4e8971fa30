package store

import (
	"context"

	"github.com/phrazzld/offload-api/internal/domain"
)

// ProductStore defines the interface for catalogue persistence.
type ProductStore interface {
	// GetProduct retrieves a product by id.
	// Returns ErrProductNotFound if the product does not exist.
	GetProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error)

	// SaveProduct creates or replaces a product.
	// Returns ErrInvalidEntity if the product fails validation.
	SaveProduct(ctx context.Context, product *domain.Product) error
}
