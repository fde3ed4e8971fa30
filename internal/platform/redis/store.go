package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/offload-api/internal/domain"
	"github.com/phrazzld/offload-api/internal/store"
)

const (
	personKeyPrefix  = "person:"
	productKeyPrefix = "product:"
)

// Store implements store.PersonStore and store.ProductStore on a Redis client.
type Store struct {
	client goredis.UniversalClient
	logger *slog.Logger
}

var (
	_ store.PersonStore  = (*Store)(nil)
	_ store.ProductStore = (*Store)(nil)
)

// NewStore wraps an existing client.
func NewStore(client goredis.UniversalClient, logger *slog.Logger) *Store {
	return &Store{
		client: client,
		logger: logger.With("component", "redis_store"),
	}
}

// Open parses a redis:// URL, connects and pings the server.
func Open(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func personKey(id domain.PersonID) string {
	return personKeyPrefix + id.String()
}

func productKey(id domain.ProductID) string {
	return productKeyPrefix + id.String()
}

// GetPerson implements store.PersonStore.
func (s *Store) GetPerson(ctx context.Context, id domain.PersonID) (*domain.Person, error) {
	var p domain.Person
	if err := s.get(ctx, personKey(id), &p); err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, store.ErrPersonNotFound
		}
		s.logger.Error("failed to get person", "person_id", id.String(), "error", err)
		return nil, store.NewStoreError("person", "get", "read failed", err)
	}
	return &p, nil
}

// SavePerson implements store.PersonStore.
func (s *Store) SavePerson(ctx context.Context, person *domain.Person) error {
	if err := person.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	if err := s.set(ctx, personKey(person.ID), person); err != nil {
		s.logger.Error("failed to save person", "person_id", person.ID.String(), "error", err)
		return store.NewStoreError("person", "save", "write failed", err)
	}
	return nil
}

// GetProduct implements store.ProductStore.
func (s *Store) GetProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	var p domain.Product
	if err := s.get(ctx, productKey(id), &p); err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, store.ErrProductNotFound
		}
		s.logger.Error("failed to get product", "product_id", id.String(), "error", err)
		return nil, store.NewStoreError("product", "get", "read failed", err)
	}
	return &p, nil
}

// SaveProduct implements store.ProductStore.
func (s *Store) SaveProduct(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	if err := s.set(ctx, productKey(product.ID), product); err != nil {
		s.logger.Error("failed to save product", "product_id", product.ID.String(), "error", err)
		return store.NewStoreError("product", "save", "write failed", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string, dst any) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("corrupt value at %s: %w", key, err)
	}
	return nil
}

func (s *Store) set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, raw, 0).Err()
}
