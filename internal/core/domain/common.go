package domain

import (
	"fmt"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
)

const (
	// DefaultPageSize is used when a caller does not ask for a size.
	DefaultPageSize = 10
	// MaxPageSize caps the size of a single page.
	MaxPageSize = 100
)

// Page is one zero-based page of a listing.
type Page[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
}

// TotalPages returns the number of pages needed for Total items.
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.Total + p.Size - 1) / p.Size
}

// Offset returns the row offset of a zero-based page.
func Offset(page, size int) int {
	return page * size
}

// ValidatePage checks a zero-based page request.
func ValidatePage(page, size int) error {
	if page < 0 {
		return fmt.Errorf("%w: page must not be negative", apperrors.ErrValidation)
	}
	if size < 1 || size > MaxPageSize {
		return fmt.Errorf("%w: size must be between 1 and %d", apperrors.ErrValidation, MaxPageSize)
	}
	return nil
}
