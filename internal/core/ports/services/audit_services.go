package services

import (
	"context"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
)

// AuditReaderSvc defines history listing operations.
type AuditReaderSvc interface {
	// GetRecord retrieves a record by ID regardless of its deletion status.
	GetRecord(ctx context.Context, id string) (*domain.RateRecord, error)

	// ListActive returns the user's records excluding logically deleted ones.
	ListActive(ctx context.Context, username string, page, size int) (*domain.Page[domain.RateRecord], error)

	// ListAll returns records of all users including logically deleted ones.
	ListAll(ctx context.Context, page, size int) (*domain.Page[domain.RateRecord], error)
}

// AuditWriterSvc defines deletion operations.
type AuditWriterSvc interface {
	// LogicalDelete marks the record deleted and attributes it to actor.
	LogicalDelete(ctx context.Context, id, actor string) error

	// PhysicalDelete removes the record permanently. Administrative callers only.
	PhysicalDelete(ctx context.Context, id string) error
}

// AuditSvcFacade combines all audit service interfaces
type AuditSvcFacade interface {
	AuditReaderSvc
	AuditWriterSvc
}
