package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PersonID identifies a person. It is never blank.
type PersonID struct {
	value string
}

// NewPersonID validates s and returns it as a PersonID.
func NewPersonID(s string) (PersonID, error) {
	if strings.TrimSpace(s) == "" {
		return PersonID{}, ErrNotAnID
	}
	return PersonID{value: s}, nil
}

// String returns the raw id.
func (id PersonID) String() string {
	return id.value
}

// IsZero reports whether id is the zero value.
func (id PersonID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON encodes the id as a JSON string.
func (id PersonID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

// UnmarshalJSON decodes a JSON string, rejecting blank ids.
func (id *PersonID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to parse id: %w", err)
	}

	parsed, err := NewPersonID(s)
	if err != nil {
		return fmt.Errorf("failed to parse id: %w", err)
	}

	*id = parsed
	return nil
}

// Person is a named individual.
type Person struct {
	ID   PersonID `json:"id"`
	Name string   `json:"name"`
}

// NewPerson creates a Person, returning an error if it is not valid.
func NewPerson(id PersonID, name string) (*Person, error) {
	p := &Person{
		ID:   id,
		Name: name,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks the person's invariants.
func (p *Person) Validate() error {
	if p.ID.IsZero() {
		return fmt.Errorf("%w: %w", ErrInvalidPerson, ErrNotAnID)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidPerson)
	}
	return nil
}
