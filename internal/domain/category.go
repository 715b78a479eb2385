package domain

import (
	"time"
	"unicode/utf8"
)

const (
	CategoryNameMinLen = 3
	CategoryNameMaxLen = 50
)

// Category is guarded by an optimistic lock: every successful patch bumps
// Version by exactly one and a patch must present the version it observed.
type Category struct {
	ID      int64
	Version int64
	Name    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryPatch holds the fields a client supplied, nil means "leave as is".
type CategoryPatch struct {
	Name *string
}

func (p CategoryPatch) Validate() error {
	if p.Name != nil {
		if err := ValidateCategoryName(*p.Name); err != nil {
			return err
		}
	}

	return nil
}

func ValidateCategoryName(name string) error {
	if !utf8.ValidString(name) {
		return validationErrorf("name must be valid UTF-8")
	}

	n := utf8.RuneCountInString(name)
	if n < CategoryNameMinLen || n > CategoryNameMaxLen {
		return validationErrorf("name must be %d..%d characters", CategoryNameMinLen, CategoryNameMaxLen)
	}

	return nil
}
