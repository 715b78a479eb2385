package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrVersionConflict  = errors.New("version conflict")
	ErrUniqueViolation  = errors.New("already exists")
	ErrHasDependents    = errors.New("has dependent records")
	ErrOrderClosed      = errors.New("order is closed")
	ErrValidation       = errors.New("validation failed")
)

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func ValidateUserID(userID int64) error {
	if userID < 1 {
		return validationErrorf("user_id must be positive")
	}
	return nil
}
