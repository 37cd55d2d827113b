package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_exchange_app/internal/core/ports/repositories"
	"github.com/SscSPs/currency_exchange_app/internal/models"
	"github.com/SscSPs/currency_exchange_app/internal/utils/mapping"
	"github.com/google/uuid"
)

const rateRecordColumns = `id, username, base_currency, target_currency, rate, amount, converted_amount, fetched_at, deleted, deleted_at, deleted_by`

// RateHistoryRepository implements portsrepo.RateHistoryRepositoryFacade on SQLite.
// Decimals are stored as TEXT and timestamps as UTC unix nanoseconds.
type RateHistoryRepository struct {
	db    *sql.DB
	newID func() string
}

// NewRateHistoryRepository creates a new RateHistoryRepository.
func NewRateHistoryRepository(db *sql.DB) *RateHistoryRepository {
	return &RateHistoryRepository{db: db, newID: uuid.NewString}
}

var _ portsrepo.RateHistoryRepositoryFacade = (*RateHistoryRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRateRecord(row rowScanner) (*domain.RateRecord, error) {
	var (
		m         models.RateRecord
		fetchedAt int64
		deletedAt sql.NullInt64
		deletedBy sql.NullString
	)
	if err := row.Scan(
		&m.ID, &m.Username, &m.BaseCurrency, &m.TargetCurrency, &m.Rate, &m.Amount,
		&m.ConvertedAmount, &fetchedAt, &m.Deleted, &deletedAt, &deletedBy,
	); err != nil {
		return nil, err
	}
	m.FetchedAt = fromUnixNano(fetchedAt)
	if deletedAt.Valid {
		at := fromUnixNano(deletedAt.Int64)
		m.DeletedAt = &at
	}
	if deletedBy.Valid {
		by := deletedBy.String
		m.DeletedBy = &by
	}
	d, err := mapping.ToDomainRateRecord(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func nullableUnixNano(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Save inserts a new record, or persists the deletion status of an existing one.
func (r *RateHistoryRepository) Save(ctx context.Context, record domain.RateRecord) (*domain.RateRecord, error) {
	if record.ID == "" {
		return r.insert(ctx, record)
	}
	return r.updateStatus(ctx, record)
}

func (r *RateHistoryRepository) insert(ctx context.Context, record domain.RateRecord) (*domain.RateRecord, error) {
	record.ID = r.newID()
	m := mapping.ToModelRateRecord(record)

	query := `
		INSERT INTO currency_rates (
			id, username, base_currency, target_currency, rate, amount, converted_amount,
			fetched_at, seq, deleted, deleted_at, deleted_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM currency_rates), ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.Username, m.BaseCurrency, m.TargetCurrency, m.Rate.String(), m.Amount.String(),
		m.ConvertedAmount.String(), m.FetchedAt.UnixNano(), m.Deleted,
		nullableUnixNano(m.DeletedAt), nullableString(m.DeletedBy),
	)
	if err != nil {
		return nil, fmt.Errorf("error inserting rate record: %w", err)
	}
	return &record, nil
}

func (r *RateHistoryRepository) updateStatus(ctx context.Context, record domain.RateRecord) (*domain.RateRecord, error) {
	m := mapping.ToModelRateRecord(record)

	result, err := r.db.ExecContext(ctx,
		`UPDATE currency_rates SET deleted = ?, deleted_at = ?, deleted_by = ? WHERE id = ?`,
		m.Deleted, nullableUnixNano(m.DeletedAt), nullableString(m.DeletedBy), m.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("error updating rate record %s: %w", record.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("error updating rate record %s: %w", record.ID, err)
	}
	if affected == 0 {
		return nil, apperrors.NewNotFoundError("rate record with ID " + record.ID + " not found")
	}
	return r.FindByID(ctx, record.ID)
}

// FindLatest returns the most recent record for the triple, deleted ones included.
func (r *RateHistoryRepository) FindLatest(ctx context.Context, username, base, target string) (*domain.RateRecord, error) {
	query := `SELECT ` + rateRecordColumns + ` FROM currency_rates
		WHERE username = ? AND base_currency = ? AND target_currency = ?
		ORDER BY fetched_at DESC, seq DESC LIMIT 1`

	record, err := scanRateRecord(r.db.QueryRowContext(ctx, query, username, base, target))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no rate record found for " + base + " to " + target)
		}
		return nil, fmt.Errorf("error finding latest rate record: %w", err)
	}
	return record, nil
}

// FindByID retrieves a record by ID.
func (r *RateHistoryRepository) FindByID(ctx context.Context, id string) (*domain.RateRecord, error) {
	query := `SELECT ` + rateRecordColumns + ` FROM currency_rates WHERE id = ?`

	record, err := scanRateRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("rate record with ID " + id + " not found")
		}
		return nil, fmt.Errorf("error finding rate record %s: %w", id, err)
	}
	return record, nil
}

// DeleteByID removes a record permanently.
func (r *RateHistoryRepository) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM currency_rates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting rate record %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error deleting rate record %s: %w", id, err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError("rate record with ID " + id + " not found")
	}
	return nil
}

// FindPageByUser returns a page of the user's records, newest first.
func (r *RateHistoryRepository) FindPageByUser(ctx context.Context, username string, page, size int, includeDeleted bool) (*domain.Page[domain.RateRecord], error) {
	where := `WHERE username = ?`
	if !includeDeleted {
		where += ` AND deleted = 0`
	}
	return r.findPage(ctx, where, []any{username}, page, size)
}

// FindAllPage returns a page of all records, newest first.
func (r *RateHistoryRepository) FindAllPage(ctx context.Context, page, size int) (*domain.Page[domain.RateRecord], error) {
	return r.findPage(ctx, "", nil, page, size)
}

func (r *RateHistoryRepository) findPage(ctx context.Context, where string, args []any, page, size int) (*domain.Page[domain.RateRecord], error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var total int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM currency_rates `+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("error counting rate records: %w", err)
	}

	query := `SELECT ` + rateRecordColumns + ` FROM currency_rates ` + where +
		` ORDER BY fetched_at DESC, seq DESC LIMIT ? OFFSET ?`
	rows, err := tx.QueryContext(ctx, query, append(args, size, domain.Offset(page, size))...)
	if err != nil {
		return nil, fmt.Errorf("error listing rate records: %w", err)
	}
	defer rows.Close()

	items := make([]domain.RateRecord, 0, size)
	for rows.Next() {
		record, err := scanRateRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning rate record: %w", err)
		}
		items = append(items, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rate records: %w", err)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("error closing rate record rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &domain.Page[domain.RateRecord]{Items: items, Page: page, Size: size, Total: total}, nil
}
