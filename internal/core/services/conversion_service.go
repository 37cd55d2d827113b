package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/SscSPs/currency_exchange_app/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/currency_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// RateTTL is how long a persisted rate may be reused for the same user and pair.
const RateTTL = time.Hour

// IsExpired reports whether record's rate is older than RateTTL at now.
// A record exactly RateTTL old is still fresh.
func IsExpired(record *domain.RateRecord, now time.Time) bool {
	return now.Sub(record.FetchedAt) > RateTTL
}

type rateOrigin int

const (
	rateCached rateOrigin = iota
	rateFetched
)

func (o rateOrigin) String() string {
	if o == rateCached {
		return "cached"
	}
	return "fetched"
}

// rateResolution is the outcome of the cache-or-fetch decision.
type rateResolution struct {
	origin rateOrigin
	rate   decimal.Decimal
}

// conversionService implements the ConversionSvcFacade interface.
// The cache is the history store itself: the latest row per (username, base, target).
type conversionService struct {
	rateRepo portsrepo.RateHistoryRepositoryFacade
	source   providers.RateSource
	now      func() time.Time

	// fetches is nil unless coalescing is enabled. Without it, concurrent misses
	// for the same key each call the source and each persist a record.
	fetches *singleflight.Group
}

// ConversionServiceOption is a functional option for configuring the conversion service
type ConversionServiceOption func(*conversionService)

// WithClock overrides the time source used for expiry checks and fetchedAt.
func WithClock(now func() time.Time) ConversionServiceOption {
	return func(s *conversionService) {
		s.now = now
	}
}

// WithFetchCoalescing makes concurrent cache misses for the same
// (username, base, target) share a single rate source call. Each caller still
// persists its own record.
func WithFetchCoalescing() ConversionServiceOption {
	return func(s *conversionService) {
		s.fetches = &singleflight.Group{}
	}
}

// NewConversionService creates a new conversion service with the provided options
func NewConversionService(repo portsrepo.RateHistoryRepositoryFacade, source providers.RateSource, options ...ConversionServiceOption) portssvc.ConversionSvcFacade {
	svc := &conversionService{
		rateRepo: repo,
		source:   source,
		now:      time.Now,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure conversionService implements the ConversionSvcFacade interface
var _ portssvc.ConversionSvcFacade = (*conversionService)(nil)

// GetLatestRate retrieves the most recent record for the triple, deleted ones included.
func (s *conversionService) GetLatestRate(ctx context.Context, username, base, target string) (*domain.RateRecord, error) {
	latest, err := s.rateRepo.FindLatest(ctx, username, base, target)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest rate in service: %w", err)
	}
	return latest, nil
}

// Convert converts amount from base to target and returns the converted amount.
func (s *conversionService) Convert(ctx context.Context, username string, amount decimal.Decimal, base, target string) (decimal.Decimal, error) {
	record, err := s.ConvertWithRecord(ctx, username, amount, base, target)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return record.ConvertedAmount, nil
}

// ConvertWithRecord converts amount from base to target and returns the new history record.
func (s *conversionService) ConvertWithRecord(ctx context.Context, username string, amount decimal.Decimal, base, target string) (*domain.RateRecord, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", apperrors.ErrValidation)
	}
	if base == "" || target == "" {
		return nil, fmt.Errorf("%w: base and target currency codes are required", apperrors.ErrValidation)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative, got %s", apperrors.ErrInvalidAmount, amount.String())
	}

	resolved, err := s.resolveRate(ctx, username, base, target)
	if err != nil {
		return nil, err
	}

	record, err := domain.NewRateRecord(username, base, target, resolved.rate, amount, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to build %s rate record: %w", resolved.origin, err)
	}

	saved, err := s.rateRepo.Save(ctx, *record)
	if err != nil {
		return nil, fmt.Errorf("failed to save rate record in service: %w", err)
	}
	return saved, nil
}

// resolveRate decides between reusing the cached rate and fetching a new one.
func (s *conversionService) resolveRate(ctx context.Context, username, base, target string) (rateResolution, error) {
	latest, err := s.GetLatestRate(ctx, username, base, target)
	if err != nil {
		return rateResolution{}, err
	}
	if latest != nil && !IsExpired(latest, s.now()) {
		return rateResolution{origin: rateCached, rate: latest.Rate}, nil
	}

	rate, err := s.fetchRate(ctx, username, base, target)
	if err != nil {
		return rateResolution{}, err
	}
	return rateResolution{origin: rateFetched, rate: rate}, nil
}

func (s *conversionService) fetchRate(ctx context.Context, username, base, target string) (decimal.Decimal, error) {
	if s.fetches == nil {
		return s.getRate(ctx, base, target)
	}

	// The shared fetch outlives any single caller; each caller stops waiting on its own ctx.
	key := strings.Join([]string{username, base, target}, "\x00")
	ch := s.fetches.DoChan(key, func() (interface{}, error) {
		return s.getRate(context.WithoutCancel(ctx), base, target)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return decimal.Decimal{}, res.Err
		}
		return res.Val.(decimal.Decimal), nil
	case <-ctx.Done():
		return decimal.Decimal{}, fmt.Errorf("failed to fetch rate %s->%s: %w: %w", base, target, apperrors.ErrSourceUnavailable, ctx.Err())
	}
}

func (s *conversionService) getRate(ctx context.Context, base, target string) (decimal.Decimal, error) {
	rate, err := s.source.GetRate(ctx, base, target)
	if err != nil {
		if errors.Is(err, apperrors.ErrSourceUnavailable) {
			return decimal.Decimal{}, fmt.Errorf("failed to fetch rate %s->%s: %w", base, target, err)
		}
		return decimal.Decimal{}, fmt.Errorf("failed to fetch rate %s->%s: %w: %v", base, target, apperrors.ErrSourceUnavailable, err)
	}
	return rate, nil
}
