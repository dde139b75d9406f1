package services

import (
	"fmt"

	"grocery-store/models"
)

// validationError wraps models.ErrValidation with a user-facing reason.
func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrValidation, fmt.Sprintf(format, args...))
}
