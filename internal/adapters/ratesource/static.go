package ratesource

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/ports/providers"
	"github.com/shopspring/decimal"
)

// StaticRateSource serves rates from a fixed table, for local runs without an API key.
type StaticRateSource struct {
	mu    sync.RWMutex
	rates map[string]decimal.Decimal
}

// DefaultStaticRates is a small table of USD-based rates.
func DefaultStaticRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		pairKey("USD", "EUR"): decimal.RequireFromString("0.92"),
		pairKey("USD", "GBP"): decimal.RequireFromString("0.79"),
		pairKey("USD", "JPY"): decimal.RequireFromString("153.6"),
		pairKey("USD", "KRW"): decimal.RequireFromString("1370.25"),
		pairKey("EUR", "USD"): decimal.RequireFromString("1.087"),
	}
}

// NewStaticRateSource creates a source over rates keyed by pairKey. A nil map uses DefaultStaticRates.
func NewStaticRateSource(rates map[string]decimal.Decimal) *StaticRateSource {
	if rates == nil {
		rates = DefaultStaticRates()
	}
	return &StaticRateSource{rates: rates}
}

var _ providers.RateSource = (*StaticRateSource)(nil)

// Set adds or replaces a rate.
func (s *StaticRateSource) Set(base, target string, rate decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[pairKey(base, target)] = rate
}

// GetRate returns the tabled rate. Identity pairs always return 1.
func (s *StaticRateSource) GetRate(_ context.Context, base, target string) (decimal.Decimal, error) {
	if base == target {
		return decimal.NewFromInt(1), nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rate, ok := s.rates[pairKey(base, target)]
	if !ok {
		return decimal.Decimal{}, apperrors.NewSourceUnavailableError(fmt.Sprintf("no static rate for %s to %s", base, target), nil)
	}
	return rate, nil
}

func pairKey(base, target string) string {
	return base + "/" + target
}
