package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/offload-api/internal/domain"
	"github.com/phrazzld/offload-api/internal/store"
)

// PostgresPersonStore implements store.PersonStore using PostgreSQL.
type PostgresPersonStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.PersonStore = (*PostgresPersonStore)(nil)

// NewPostgresPersonStore creates a new PostgresPersonStore.
func NewPostgresPersonStore(db store.DBTX, logger *slog.Logger) *PostgresPersonStore {
	return &PostgresPersonStore{
		db:     db,
		logger: logger.With("component", "person_store"),
	}
}

// GetPerson retrieves a person by id.
func (s *PostgresPersonStore) GetPerson(ctx context.Context, id domain.PersonID) (*domain.Person, error) {
	query := `SELECT id, name FROM persons WHERE id = $1`

	var rawID, name string
	err := s.db.QueryRowContext(ctx, query, id.String()).Scan(&rawID, &name)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrPersonNotFound
		}
		s.logger.Error("failed to get person", "person_id", id.String(), "error", err)
		return nil, store.NewStoreError("person", "get", "query failed", MapError(err))
	}

	personID, err := domain.NewPersonID(rawID)
	if err != nil {
		return nil, fmt.Errorf("stored person has invalid id: %w", err)
	}

	return &domain.Person{ID: personID, Name: name}, nil
}

// SavePerson inserts the person or replaces an existing one with the same id.
func (s *PostgresPersonStore) SavePerson(ctx context.Context, person *domain.Person) error {
	if err := person.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO persons (id, name, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, person.ID.String(), person.Name); err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrInvalidEntity) {
			return mapped
		}
		s.logger.Error("failed to save person", "person_id", person.ID.String(), "error", err)
		return store.NewStoreError("person", "save", "insert failed", mapped)
	}

	return nil
}
