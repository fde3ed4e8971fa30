package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrNotAnID is returned when a value isn't a valid identifier.
	ErrNotAnID = errors.New("the given value isn't a valid id")

	// ErrInvalidPerson is returned when a person fails validation.
	// It is wrapped with the specific reason.
	ErrInvalidPerson = errors.New("invalid person")

	// ErrInvalidProduct is returned when a product fails validation.
	// It is wrapped with the specific reason.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrInvalidPrice is returned when a price is not a positive amount.
	ErrInvalidPrice = errors.New("invalid price")
)
