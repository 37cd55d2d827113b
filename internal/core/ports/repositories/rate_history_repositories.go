package repositories

import (
	"context"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
)

// RateHistoryReader defines read operations for rate history records.
type RateHistoryReader interface {
	// FindLatest returns the most recent record for the exact (username, base, target)
	// triple ordered by fetched_at, including logically deleted records.
	// It returns apperrors.ErrNotFound when no record exists.
	FindLatest(ctx context.Context, username, base, target string) (*domain.RateRecord, error)

	// FindByID retrieves a record by its ID regardless of deletion status.
	FindByID(ctx context.Context, id string) (*domain.RateRecord, error)

	// FindPageByUser returns a zero-based page of the user's records ordered by
	// fetched_at descending.
	FindPageByUser(ctx context.Context, username string, page, size int, includeDeleted bool) (*domain.Page[domain.RateRecord], error)

	// FindAllPage returns a zero-based page of all records, deleted ones included.
	FindAllPage(ctx context.Context, page, size int) (*domain.Page[domain.RateRecord], error)
}

// RateHistoryWriter defines write operations for rate history records.
type RateHistoryWriter interface {
	// Save inserts the record when its ID is empty, assigning a new ID. For an existing
	// record only the deletion status is persisted.
	Save(ctx context.Context, record domain.RateRecord) (*domain.RateRecord, error)

	// DeleteByID removes a record permanently.
	DeleteByID(ctx context.Context, id string) error
}

// RateHistoryRepositoryFacade combines all rate history repository interfaces.
type RateHistoryRepositoryFacade interface {
	RateHistoryReader
	RateHistoryWriter
}
