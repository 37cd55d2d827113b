package services_test

import (
	"context"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/SscSPs/currency_exchange_app/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/currency_exchange_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock RateHistoryRepository ---
type MockRateHistoryRepository struct {
	mock.Mock
}

func (m *MockRateHistoryRepository) FindLatest(ctx context.Context, username, base, target string) (*domain.RateRecord, error) {
	args := m.Called(ctx, username, base, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateRecord), args.Error(1)
}

func (m *MockRateHistoryRepository) FindByID(ctx context.Context, id string) (*domain.RateRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateRecord), args.Error(1)
}

func (m *MockRateHistoryRepository) FindPageByUser(ctx context.Context, username string, page, size int, includeDeleted bool) (*domain.Page[domain.RateRecord], error) {
	args := m.Called(ctx, username, page, size, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[domain.RateRecord]), args.Error(1)
}

func (m *MockRateHistoryRepository) FindAllPage(ctx context.Context, page, size int) (*domain.Page[domain.RateRecord], error) {
	args := m.Called(ctx, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[domain.RateRecord]), args.Error(1)
}

func (m *MockRateHistoryRepository) Save(ctx context.Context, record domain.RateRecord) (*domain.RateRecord, error) {
	args := m.Called(ctx, record)
	if fn, ok := args.Get(0).(func(domain.RateRecord) *domain.RateRecord); ok {
		return fn(record), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateRecord), args.Error(1)
}

func (m *MockRateHistoryRepository) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ portsrepo.RateHistoryRepositoryFacade = (*MockRateHistoryRepository)(nil)

// --- Mock RateSource ---
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) GetRate(ctx context.Context, base, target string) (decimal.Decimal, error) {
	args := m.Called(ctx, base, target)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var _ providers.RateSource = (*MockRateSource)(nil)

// echoSaved makes the mocked Save return its input with id assigned, mimicking a store insert.
func echoSaved(id string) func(domain.RateRecord) *domain.RateRecord {
	return func(rec domain.RateRecord) *domain.RateRecord {
		if rec.ID == "" {
			rec.ID = id
		}
		return &rec
	}
}
