package dto

import (
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
)

// FetchedAtLayout is the display layout of fetchedAtText, rendered in UTC.
const FetchedAtLayout = "2006-01-02 15:04"

// PairQuery is the currency pair of a latest-rate request. Codes are case-sensitive.
type PairQuery struct {
	Base   string `form:"base" binding:"required,max=16"`
	Target string `form:"target" binding:"required,max=16"`
}

// ConvertQuery is the query of a conversion request. Amount is parsed as a decimal by the handler.
type ConvertQuery struct {
	Amount string `form:"amount" binding:"required"`
	Base   string `form:"base" binding:"required,max=16"`
	Target string `form:"target" binding:"required,max=16"`
}

// PageQuery is a zero-based paging request.
type PageQuery struct {
	Page int `form:"page" binding:"min=0"`
	Size int `form:"size" binding:"omitempty,min=1,max=100"`
}

// SizeOrDefault returns Size, or domain.DefaultPageSize when unset.
func (q PageQuery) SizeOrDefault() int {
	if q.Size == 0 {
		return domain.DefaultPageSize
	}
	return q.Size
}

// LatestRateResponse is the latest cached rate for a pair.
type LatestRateResponse struct {
	BaseCurrency   string `json:"baseCurrency"`
	TargetCurrency string `json:"targetCurrency"`
	Rate           string `json:"rate"`
	FetchedAtText  string `json:"fetchedAtText"`
}

// ConvertResponse is the result of one conversion.
type ConvertResponse struct {
	ID              string    `json:"id"`
	Amount          string    `json:"amount"`
	BaseCurrency    string    `json:"baseCurrency"`
	TargetCurrency  string    `json:"targetCurrency"`
	ConvertedAmount string    `json:"convertedAmount"`
	Rate            string    `json:"rate"`
	FetchedAt       time.Time `json:"fetchedAt"`
	FetchedAtText   string    `json:"fetchedAtText"`
}

// HistoryResponse is one entry of a user's own history. Deleted entries never appear.
type HistoryResponse struct {
	ID              string `json:"id"`
	BaseCurrency    string `json:"baseCurrency"`
	TargetCurrency  string `json:"targetCurrency"`
	Amount          string `json:"amount"`
	ConvertedAmount string `json:"convertedAmount"`
	Rate            string `json:"rate"`
	FetchedAtText   string `json:"fetchedAtText"`
}

// AdminRateResponse is one record of the administrative listing, deletion details included.
type AdminRateResponse struct {
	ID              string     `json:"id"`
	Username        string     `json:"username"`
	BaseCurrency    string     `json:"baseCurrency"`
	TargetCurrency  string     `json:"targetCurrency"`
	Amount          string     `json:"amount"`
	ConvertedAmount string     `json:"convertedAmount"`
	Rate            string     `json:"rate"`
	FetchedAtText   string     `json:"fetchedAtText"`
	Deleted         bool       `json:"deleted"`
	DeletedAt       *time.Time `json:"deletedAt"`
	DeletedBy       *string    `json:"deletedBy"`
}

// PageResponse wraps one page of a listing.
type PageResponse[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func formatRate(r *domain.RateRecord) string {
	return r.Rate.StringFixed(domain.RateScale)
}

func formatFetchedAt(t time.Time) string {
	return t.UTC().Format(FetchedAtLayout)
}

// ToLatestRateResponse converts a domain.RateRecord to LatestRateResponse DTO
func ToLatestRateResponse(r *domain.RateRecord) LatestRateResponse {
	return LatestRateResponse{
		BaseCurrency:   r.BaseCurrency,
		TargetCurrency: r.TargetCurrency,
		Rate:           formatRate(r),
		FetchedAtText:  formatFetchedAt(r.FetchedAt),
	}
}

// ToConvertResponse converts a domain.RateRecord to ConvertResponse DTO
func ToConvertResponse(r *domain.RateRecord) ConvertResponse {
	return ConvertResponse{
		ID:              r.ID,
		Amount:          r.Amount.StringFixed(domain.AmountScale),
		BaseCurrency:    r.BaseCurrency,
		TargetCurrency:  r.TargetCurrency,
		ConvertedAmount: r.ConvertedAmount.StringFixed(domain.AmountScale),
		Rate:            formatRate(r),
		FetchedAt:       r.FetchedAt,
		FetchedAtText:   formatFetchedAt(r.FetchedAt),
	}
}

// ToHistoryResponse converts a domain.RateRecord to HistoryResponse DTO
func ToHistoryResponse(r *domain.RateRecord) HistoryResponse {
	return HistoryResponse{
		ID:              r.ID,
		BaseCurrency:    r.BaseCurrency,
		TargetCurrency:  r.TargetCurrency,
		Amount:          r.Amount.StringFixed(domain.AmountScale),
		ConvertedAmount: r.ConvertedAmount.StringFixed(domain.AmountScale),
		Rate:            formatRate(r),
		FetchedAtText:   formatFetchedAt(r.FetchedAt),
	}
}

// ToAdminRateResponse converts a domain.RateRecord to AdminRateResponse DTO
func ToAdminRateResponse(r *domain.RateRecord) AdminRateResponse {
	resp := AdminRateResponse{
		ID:              r.ID,
		Username:        r.Username,
		BaseCurrency:    r.BaseCurrency,
		TargetCurrency:  r.TargetCurrency,
		Amount:          r.Amount.StringFixed(domain.AmountScale),
		ConvertedAmount: r.ConvertedAmount.StringFixed(domain.AmountScale),
		Rate:            formatRate(r),
		FetchedAtText:   formatFetchedAt(r.FetchedAt),
		Deleted:         r.IsDeleted(),
	}
	if at, ok := r.Status.DeletedAt(); ok {
		by, _ := r.Status.DeletedBy()
		resp.DeletedAt = &at
		resp.DeletedBy = &by
	}
	return resp
}

// ToPageResponse converts a domain page with the given item mapper.
func ToPageResponse[T any](p *domain.Page[domain.RateRecord], convert func(*domain.RateRecord) T) PageResponse[T] {
	items := make([]T, len(p.Items))
	for i := range p.Items {
		items[i] = convert(&p.Items[i])
	}
	return PageResponse[T]{
		Items:      items,
		Page:       p.Page,
		Size:       p.Size,
		Total:      p.Total,
		TotalPages: p.TotalPages(),
	}
}
