package services

import (
	"context"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConversionReaderSvc defines read operations on the conversion cache.
type ConversionReaderSvc interface {
	// GetLatestRate returns the most recent record for the triple, or nil if none exists.
	GetLatestRate(ctx context.Context, username, base, target string) (*domain.RateRecord, error)
}

// ConversionWriterSvc defines the conversion operations. Every call persists one record.
type ConversionWriterSvc interface {
	// Convert converts amount and returns the converted amount.
	Convert(ctx context.Context, username string, amount decimal.Decimal, base, target string) (decimal.Decimal, error)

	// ConvertWithRecord converts amount and returns the persisted record.
	ConvertWithRecord(ctx context.Context, username string, amount decimal.Decimal, base, target string) (*domain.RateRecord, error)
}

// ConversionSvcFacade combines all conversion service interfaces
type ConversionSvcFacade interface {
	ConversionReaderSvc
	ConversionWriterSvc
}
