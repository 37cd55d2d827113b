package mapping

import (
	"fmt"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/SscSPs/currency_exchange_app/internal/models"
)

// ToModelRateRecord converts a domain RateRecord to its row representation.
func ToModelRateRecord(d domain.RateRecord) models.RateRecord {
	m := models.RateRecord{
		ID:              d.ID,
		Username:        d.Username,
		BaseCurrency:    d.BaseCurrency,
		TargetCurrency:  d.TargetCurrency,
		Rate:            d.Rate,
		Amount:          d.Amount,
		ConvertedAmount: d.ConvertedAmount,
		FetchedAt:       d.FetchedAt,
	}
	if at, ok := d.Status.DeletedAt(); ok {
		by, _ := d.Status.DeletedBy()
		m.Deleted = true
		m.DeletedAt = &at
		m.DeletedBy = &by
	}
	return m
}

// ToDomainRateRecord converts a row to a domain RateRecord. Rows with a partial
// deletion state are rejected with apperrors.ErrIntegrity.
func ToDomainRateRecord(m models.RateRecord) (domain.RateRecord, error) {
	d := domain.RateRecord{
		ID:              m.ID,
		Username:        m.Username,
		BaseCurrency:    m.BaseCurrency,
		TargetCurrency:  m.TargetCurrency,
		Rate:            m.Rate,
		Amount:          m.Amount,
		ConvertedAmount: m.ConvertedAmount,
		FetchedAt:       m.FetchedAt,
		Status:          domain.Active(),
	}

	switch {
	case m.Deleted && m.DeletedAt != nil && m.DeletedBy != nil:
		d.Status = domain.Deleted(*m.DeletedAt, *m.DeletedBy)
	case !m.Deleted && m.DeletedAt == nil && m.DeletedBy == nil:
	default:
		return domain.RateRecord{}, fmt.Errorf("%w: rate record %s has a partial deletion state", apperrors.ErrIntegrity, m.ID)
	}
	return d, nil
}

// ToDomainRateRecordSlice converts rows to domain records, failing on the first invalid row.
func ToDomainRateRecordSlice(ms []models.RateRecord) ([]domain.RateRecord, error) {
	ds := make([]domain.RateRecord, 0, len(ms))
	for _, m := range ms {
		d, err := ToDomainRateRecord(m)
		if err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}
	return ds, nil
}
