package store

import (
	"context"

	"github.com/phrazzld/offload-api/internal/domain"
)

// PersonStore defines the interface for person persistence.
type PersonStore interface {
	// GetPerson retrieves a person by id.
	// Returns ErrPersonNotFound if the person does not exist.
	GetPerson(ctx context.Context, id domain.PersonID) (*domain.Person, error)

	// SavePerson creates or replaces a person.
	// Returns ErrInvalidEntity if the person fails validation.
	SavePerson(ctx context.Context, person *domain.Person) error
}
