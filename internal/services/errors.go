package services

import (
	"errors"
	"fmt"

	"startup_journey/internal/repositories"
)

// Lookup failures are the repository sentinels, so errors.Is works across
// both layers.
var (
	ErrNotFound         = repositories.ErrNotFound
	ErrConflict         = repositories.ErrConflict
	ErrInvalidReference = repositories.ErrInvalidReference
)

var (
	ErrValidation  = errors.New("invalid input")
	ErrUnavailable = errors.New("feature not configured")
)

var (
	ErrInvalidRating     = fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	ErrInvalidEntityType = fmt.Errorf("%w: unknown entity type", ErrValidation)
	ErrInvalidStatus     = fmt.Errorf("%w: unknown status", ErrValidation)
	ErrInvalidCurrency   = fmt.Errorf("%w: currency must be a three letter ISO code", ErrValidation)
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
