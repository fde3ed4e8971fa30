package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/offload-api/internal/domain"
	"github.com/phrazzld/offload-api/internal/store"
)

// PostgresProductStore implements store.ProductStore using PostgreSQL.
type PostgresProductStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.ProductStore = (*PostgresProductStore)(nil)

// NewPostgresProductStore creates a new PostgresProductStore.
func NewPostgresProductStore(db store.DBTX, logger *slog.Logger) *PostgresProductStore {
	return &PostgresProductStore{
		db:     db,
		logger: logger.With("component", "product_store"),
	}
}

// GetProduct retrieves a product by id.
func (s *PostgresProductStore) GetProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	query := `SELECT id, title, details, price_cents FROM products WHERE id = $1`

	var (
		rawID, title, details string
		cents                 int64
	)
	err := s.db.QueryRowContext(ctx, query, id.String()).Scan(&rawID, &title, &details, &cents)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrProductNotFound
		}
		s.logger.Error("failed to get product", "product_id", id.String(), "error", err)
		return nil, store.NewStoreError("product", "get", "query failed", MapError(err))
	}

	productID, err := domain.NewProductID(rawID)
	if err != nil {
		return nil, fmt.Errorf("stored product has invalid id: %w", err)
	}
	price, err := domain.PriceFromCents(cents)
	if err != nil {
		return nil, fmt.Errorf("stored product has invalid price: %w", err)
	}

	return &domain.Product{ID: productID, Title: title, Details: details, Price: price}, nil
}

// SaveProduct inserts the product or replaces an existing one with the same id.
func (s *PostgresProductStore) SaveProduct(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO products (id, title, details, price_cents, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			details = EXCLUDED.details,
			price_cents = EXCLUDED.price_cents,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		product.ID.String(),
		product.Title,
		product.Details,
		product.Price.Cents(),
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrInvalidEntity) {
			return mapped
		}
		s.logger.Error("failed to save product", "product_id", product.ID.String(), "error", err)
		return store.NewStoreError("product", "save", "insert failed", mapped)
	}

	return nil
}
