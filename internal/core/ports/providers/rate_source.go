package providers

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateSource fetches a single spot rate for a currency pair from a remote provider.
type RateSource interface {
	// GetRate returns the per-unit rate for base -> target. Implementations return an
	// error matching apperrors.ErrSourceUnavailable when no usable rate was obtained.
	GetRate(ctx context.Context, base, target string) (decimal.Decimal, error)
}
