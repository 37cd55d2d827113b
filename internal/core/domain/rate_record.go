package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

const (
	// RateScale is the number of fractional digits kept on a stored rate.
	RateScale int32 = 4
	// AmountScale is the number of fractional digits kept on amounts.
	AmountScale int32 = 2
)

// DeletionStatus is the logical-delete state of a RateRecord.
// The zero value is Active. A deleted status always carries both when and by whom.
type DeletionStatus struct {
	deleted bool
	at      time.Time
	by      string
}

// Active returns the status of a record that has not been deleted.
func Active() DeletionStatus {
	return DeletionStatus{}
}

// Deleted returns the status of a record marked deleted at the given time by actor.
func Deleted(at time.Time, by string) DeletionStatus {
	return DeletionStatus{deleted: true, at: at, by: by}
}

// IsDeleted reports whether the record is logically deleted.
func (s DeletionStatus) IsDeleted() bool {
	return s.deleted
}

// DeletedAt returns the deletion time and true, or the zero time and false if active.
func (s DeletionStatus) DeletedAt() (time.Time, bool) {
	return s.at, s.deleted
}

// DeletedBy returns the deleting actor and true, or "" and false if active.
func (s DeletionStatus) DeletedBy() (string, bool) {
	return s.by, s.deleted
}

// RateRecord is one conversion performed by a user. A new record is written for
// every conversion, including those that reuse a cached rate.
type RateRecord struct {
	ID              string          `json:"id"`
	Username        string          `json:"username"`
	BaseCurrency    string          `json:"baseCurrency"`
	TargetCurrency  string          `json:"targetCurrency"`
	Rate            decimal.Decimal `json:"rate"`
	Amount          decimal.Decimal `json:"amount"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	FetchedAt       time.Time       `json:"fetchedAt"`
	Status          DeletionStatus  `json:"-"`
}

// IsDeleted is a shorthand for r.Status.IsDeleted().
func (r *RateRecord) IsDeleted() bool {
	return r.Status.IsDeleted()
}

// NormalizeRate rounds a rate half-up to RateScale after rejecting non-positive values.
func NormalizeRate(rate decimal.Decimal) (decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: rate must be positive, got %s", apperrors.ErrInvalidRate, rate.String())
	}
	normalized := rate.Round(RateScale)
	if !normalized.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: rate %s rounds to zero at scale %d", apperrors.ErrInvalidRate, rate.String(), RateScale)
	}
	return normalized, nil
}

// NormalizeAmount rounds an amount half-up to AmountScale after rejecting negative values.
func NormalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: amount must not be negative, got %s", apperrors.ErrInvalidAmount, amount.String())
	}
	return amount.Round(AmountScale), nil
}

// ConvertedAmount computes round(amount * rate, 2) on already normalized values.
func ConvertedAmount(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(AmountScale)
}

// NewRateRecord builds an unsaved record, normalizing rate and amount and deriving
// the converted amount.
func NewRateRecord(username, base, target string, rate, amount decimal.Decimal, fetchedAt time.Time) (*RateRecord, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", apperrors.ErrValidation)
	}
	if base == "" || target == "" {
		return nil, fmt.Errorf("%w: base and target currency codes are required", apperrors.ErrValidation)
	}
	normalizedRate, err := NormalizeRate(rate)
	if err != nil {
		return nil, err
	}
	normalizedAmount, err := NormalizeAmount(amount)
	if err != nil {
		return nil, err
	}
	return &RateRecord{
		Username:        username,
		BaseCurrency:    base,
		TargetCurrency:  target,
		Rate:            normalizedRate,
		Amount:          normalizedAmount,
		ConvertedAmount: ConvertedAmount(normalizedAmount, normalizedRate),
		FetchedAt:       fetchedAt,
		Status:          Active(),
	}, nil
}

// MarkDeleted returns a copy of the record with a deleted status. Only the
// deletion status differs from r.
func (r RateRecord) MarkDeleted(at time.Time, by string) RateRecord {
	r.Status = Deleted(at, by)
	return r
}
