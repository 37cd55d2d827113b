package mapping_test

import (
	"testing"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/SscSPs/currency_exchange_app/internal/models"
	"github.com/SscSPs/currency_exchange_app/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestToModelRateRecord_DeletedStatus(t *testing.T) {
	when := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	rec := domain.RateRecord{
		ID:              "rec-1",
		Username:        "alice",
		BaseCurrency:    "USD",
		TargetCurrency:  "JPY",
		Rate:            decimal.RequireFromString("153.6000"),
		Amount:          decimal.RequireFromString("100.00"),
		ConvertedAmount: decimal.RequireFromString("15360.00"),
		FetchedAt:       when,
		Status:          domain.Deleted(when, "ADMIN"),
	}

	m := mapping.ToModelRateRecord(rec)
	assert.True(t, m.Deleted)
	require.NotNil(t, m.DeletedAt)
	require.NotNil(t, m.DeletedBy)
	assert.Equal(t, when, *m.DeletedAt)
	assert.Equal(t, "ADMIN", *m.DeletedBy)

	back, err := mapping.ToDomainRateRecord(m)
	require.NoError(t, err)
	assert.Equal(t, rec, back)
}

func TestToModelRateRecord_ActiveStatus(t *testing.T) {
	m := mapping.ToModelRateRecord(domain.RateRecord{ID: "rec-2"})
	assert.False(t, m.Deleted)
	assert.Nil(t, m.DeletedAt)
	assert.Nil(t, m.DeletedBy)
}

func TestToDomainRateRecord_PartialStates(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		row  models.RateRecord
	}{
		{"flag without attribution", models.RateRecord{ID: "a", Deleted: true}},
		{"flag with time only", models.RateRecord{ID: "b", Deleted: true, DeletedAt: timePtr(now)}},
		{"flag with actor only", models.RateRecord{ID: "c", Deleted: true, DeletedBy: strPtr("bob")}},
		{"attribution without flag", models.RateRecord{ID: "d", DeletedAt: timePtr(now), DeletedBy: strPtr("bob")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mapping.ToDomainRateRecord(tt.row)
			assert.ErrorIs(t, err, apperrors.ErrIntegrity)
		})
	}
}

func TestToDomainRateRecordSlice(t *testing.T) {
	ds, err := mapping.ToDomainRateRecordSlice([]models.RateRecord{{ID: "a"}, {ID: "b"}})
	require.NoError(t, err)
	assert.Len(t, ds, 2)

	_, err = mapping.ToDomainRateRecordSlice([]models.RateRecord{{ID: "a"}, {ID: "b", Deleted: true}})
	assert.ErrorIs(t, err, apperrors.ErrIntegrity)
}
