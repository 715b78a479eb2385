package domain

import (
	"slices"
	"strings"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50

	SortFieldID = "id"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

func ToSortDirection(s string) (SortDirection, error) {
	switch d := SortDirection(strings.ToLower(s)); d {
	case SortAsc, SortDesc:
		return d, nil
	case "":
		return SortAsc, nil
	default:
		return "", validationErrorf("invalid order direction %q", s)
	}
}

// PageQuery describes a filtered, sorted, paginated listing. Q is matched
// case-insensitively as a substring against every searchable field, OR-combined.
type PageQuery struct {
	Q         string
	SortBy    string
	Direction SortDirection
	Page      int
	Limit     int
}

func DefaultPageQuery() PageQuery {
	return PageQuery{
		SortBy:    SortFieldID,
		Direction: SortAsc,
		Page:      1,
		Limit:     DefaultPageLimit,
	}
}

// Validate rejects out of range input, it never clamps.
func (q PageQuery) Validate() error {
	if q.Page < 1 {
		return validationErrorf("page must be >= 1")
	}

	if q.Limit < 1 || q.Limit > MaxPageLimit {
		return validationErrorf("limit must be 1..%d", MaxPageLimit)
	}

	if q.Direction != SortAsc && q.Direction != SortDesc {
		return validationErrorf("invalid order direction %q", q.Direction)
	}

	return nil
}

func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ResolveSort returns the sort field and direction to use. An unrecognized
// field falls back to ascending primary key.
func (q PageQuery) ResolveSort(allowed []string) (string, SortDirection) {
	if q.SortBy == SortFieldID || slices.Contains(allowed, q.SortBy) {
		return q.SortBy, q.Direction
	}

	return SortFieldID, SortAsc
}

type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
	Pages int64
}

func NewPage[T any](items []T, total int64, q PageQuery) Page[T] {
	var pages int64
	if q.Limit > 0 {
		limit := int64(q.Limit)
		pages = (total + limit - 1) / limit
	}

	return Page[T]{
		Items: items,
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
		Pages: pages,
	}
}
