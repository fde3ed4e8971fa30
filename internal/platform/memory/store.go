package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/phrazzld/offload-api/internal/domain"
	"github.com/phrazzld/offload-api/internal/store"
)

// Store keeps people and products in maps. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	persons  map[string]domain.Person
	products map[string]domain.Product
}

// Compile-time checks.
var (
	_ store.PersonStore  = (*Store)(nil)
	_ store.ProductStore = (*Store)(nil)
)

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		persons:  make(map[string]domain.Person),
		products: make(map[string]domain.Product),
	}
}

// GetPerson implements store.PersonStore.
func (s *Store) GetPerson(ctx context.Context, id domain.PersonID) (*domain.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.persons[id.String()]
	if !ok {
		return nil, store.ErrPersonNotFound
	}
	return &p, nil
}

// SavePerson implements store.PersonStore.
func (s *Store) SavePerson(ctx context.Context, person *domain.Person) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := person.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.persons[person.ID.String()] = *person
	return nil
}

// GetProduct implements store.ProductStore.
func (s *Store) GetProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id.String()]
	if !ok {
		return nil, store.ErrProductNotFound
	}
	return &p, nil
}

// SaveProduct implements store.ProductStore.
func (s *Store) SaveProduct(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := product.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[product.ID.String()] = *product
	return nil
}
