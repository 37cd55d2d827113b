package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateRecord is the persisted row of the currency_rates table.
// DeletedAt and DeletedBy are both set iff Deleted is true.
type RateRecord struct {
	ID              string          `db:"id"`
	Username        string          `db:"username"`
	BaseCurrency    string          `db:"base_currency"`
	TargetCurrency  string          `db:"target_currency"`
	Rate            decimal.Decimal `db:"rate"`
	Amount          decimal.Decimal `db:"amount"`
	ConvertedAmount decimal.Decimal `db:"converted_amount"`
	FetchedAt       time.Time       `db:"fetched_at"`
	Deleted         bool            `db:"deleted"`
	DeletedAt       *time.Time      `db:"deleted_at"`
	DeletedBy       *string         `db:"deleted_by"`
}
