package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_exchange_app/internal/core/ports/repositories"
	"github.com/google/uuid"
)

// RateHistoryRepository is an in-memory rate history store for tests and local runs.
type RateHistoryRepository struct {
	mu      sync.RWMutex
	records map[string]domain.RateRecord
	seq     map[string]int64 // insertion order, breaks fetchedAt ties
	next    int64
	newID   func() string
}

// NewRateHistoryRepository creates an empty in-memory store.
func NewRateHistoryRepository() *RateHistoryRepository {
	return &RateHistoryRepository{
		records: make(map[string]domain.RateRecord),
		seq:     make(map[string]int64),
		newID:   uuid.NewString,
	}
}

var _ portsrepo.RateHistoryRepositoryFacade = (*RateHistoryRepository)(nil)

// Save inserts a new record or persists the deletion status of an existing one.
func (r *RateHistoryRepository) Save(_ context.Context, record domain.RateRecord) (*domain.RateRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == "" {
		record.ID = r.newID()
		r.records[record.ID] = record
		r.next++
		r.seq[record.ID] = r.next
		saved := record
		return &saved, nil
	}

	existing, ok := r.records[record.ID]
	if !ok {
		return nil, apperrors.NewNotFoundError("rate record with ID " + record.ID + " not found")
	}
	existing.Status = record.Status
	r.records[record.ID] = existing
	return &existing, nil
}

// FindLatest returns the most recent record for the triple, deleted ones included.
func (r *RateHistoryRepository) FindLatest(_ context.Context, username, base, target string) (*domain.RateRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.filter(func(rec domain.RateRecord) bool {
		return rec.Username == username && rec.BaseCurrency == base && rec.TargetCurrency == target
	})
	if len(matches) == 0 {
		return nil, apperrors.NewNotFoundError("no rate record found for " + base + " to " + target)
	}
	latest := matches[0]
	return &latest, nil
}

// FindByID retrieves a record by ID.
func (r *RateHistoryRepository) FindByID(_ context.Context, id string) (*domain.RateRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("rate record with ID " + id + " not found")
	}
	return &rec, nil
}

// DeleteByID removes a record.
func (r *RateHistoryRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return apperrors.NewNotFoundError("rate record with ID " + id + " not found")
	}
	delete(r.records, id)
	delete(r.seq, id)
	return nil
}

// FindPageByUser returns a page of the user's records, newest first.
func (r *RateHistoryRepository) FindPageByUser(_ context.Context, username string, page, size int, includeDeleted bool) (*domain.Page[domain.RateRecord], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.filter(func(rec domain.RateRecord) bool {
		return rec.Username == username && (includeDeleted || !rec.IsDeleted())
	})
	return paginate(matches, page, size), nil
}

// FindAllPage returns a page of all records, newest first.
func (r *RateHistoryRepository) FindAllPage(_ context.Context, page, size int) (*domain.Page[domain.RateRecord], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return paginate(r.filter(func(domain.RateRecord) bool { return true }), page, size), nil
}

// filter returns matching records ordered by fetchedAt descending, newest insert first on ties.
// Callers must hold the lock.
func (r *RateHistoryRepository) filter(keep func(domain.RateRecord) bool) []domain.RateRecord {
	out := make([]domain.RateRecord, 0)
	for _, rec := range r.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].FetchedAt.Equal(out[j].FetchedAt) {
			return out[i].FetchedAt.After(out[j].FetchedAt)
		}
		return r.seq[out[i].ID] > r.seq[out[j].ID]
	})
	return out
}

func paginate(all []domain.RateRecord, page, size int) *domain.Page[domain.RateRecord] {
	result := &domain.Page[domain.RateRecord]{
		Items: []domain.RateRecord{},
		Page:  page,
		Size:  size,
		Total: len(all),
	}
	start := domain.Offset(page, size)
	if start >= len(all) || size <= 0 {
		return result
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	result.Items = append(result.Items, all[start:end]...)
	return result
}
