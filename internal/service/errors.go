package service

import (
	"errors"
	"fmt"

	"erclink/internal/confluence"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrExternalService is returned when an external service call fails.
	ErrExternalService = errors.New("external service error")
	// ErrTitleMismatch is returned when a report page does not belong to the dataset page.
	ErrTitleMismatch = errors.New("page titles do not match")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Is reports ValidationError as ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// externalError classifies a wiki client error as ErrNotFound or ErrExternalService.
func externalError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, confluence.ErrPageNotFound) {
		return fmt.Errorf("%s: %w: %w", msg, ErrNotFound, err)
	}
	return fmt.Errorf("%s: %w: %w", msg, ErrExternalService, err)
}
