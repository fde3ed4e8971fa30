package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/offload-api/internal/domain"
	"github.com/phrazzld/offload-api/internal/store"
	"github.com/phrazzld/offload-api/internal/task"
	"github.com/phrazzld/offload-api/internal/worker/backpressure"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrPersonNotFound),
		errors.Is(err, store.ErrProductNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrNotAnID),
		errors.Is(err, domain.ErrInvalidPerson),
		errors.Is(err, domain.ErrInvalidProduct),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Load shedding and shutdown
	case errors.Is(err, backpressure.ErrOverloaded),
		errors.Is(err, task.ErrStopped):
		return http.StatusServiceUnavailable

	// Worker did not answer in time
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrPersonNotFound):
		return "Person not found"

	case errors.Is(err, store.ErrProductNotFound):
		return "Product not found"

	case errors.Is(err, domain.ErrNotAnID):
		return "Invalid ID"

	case errors.Is(err, domain.ErrInvalidPrice):
		return "Invalid price"

	case errors.Is(err, domain.ErrInvalidPerson):
		return "Invalid person data"

	case errors.Is(err, domain.ErrInvalidProduct):
		return "Invalid product data"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, backpressure.ErrOverloaded):
		return "Service overloaded, try again later"

	case errors.Is(err, task.ErrStopped):
		return "Service is shutting down"

	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a short message naming
// the first failing field.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
	}

	// Fall back to a generic validation error message
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gt":
		return "must be positive"
	default:
		return "validation failed"
	}
}
