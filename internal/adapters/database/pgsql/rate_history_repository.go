package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_exchange_app/internal/core/ports/repositories"
	"github.com/SscSPs/currency_exchange_app/internal/models"
	"github.com/SscSPs/currency_exchange_app/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const rateRecordColumns = `id, username, base_currency, target_currency, rate, amount,
	converted_amount, fetched_at, deleted, deleted_at, deleted_by`

// PgxRateHistoryRepository implements portsrepo.RateHistoryRepositoryFacade using pgxpool.
type PgxRateHistoryRepository struct {
	BaseRepository
}

// NewPgxRateHistoryRepository creates a new PgxRateHistoryRepository.
func NewPgxRateHistoryRepository(db *pgxpool.Pool) *PgxRateHistoryRepository {
	return &PgxRateHistoryRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.RateHistoryRepositoryFacade = (*PgxRateHistoryRepository)(nil)

func scanModel(row pgx.Row) (models.RateRecord, error) {
	var m models.RateRecord
	err := row.Scan(
		&m.ID, &m.Username, &m.BaseCurrency, &m.TargetCurrency, &m.Rate, &m.Amount,
		&m.ConvertedAmount, &m.FetchedAt, &m.Deleted, &m.DeletedAt, &m.DeletedBy,
	)
	return m, err
}

func scanRateRecord(row pgx.Row) (*domain.RateRecord, error) {
	m, err := scanModel(row)
	if err != nil {
		return nil, err
	}
	d, err := mapping.ToDomainRateRecord(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Save inserts a new record, or persists the deletion status of an existing one.
func (r *PgxRateHistoryRepository) Save(ctx context.Context, record domain.RateRecord) (*domain.RateRecord, error) {
	if record.ID == "" {
		return r.insert(ctx, record)
	}
	return r.updateStatus(ctx, record)
}

func (r *PgxRateHistoryRepository) insert(ctx context.Context, record domain.RateRecord) (*domain.RateRecord, error) {
	record.ID = uuid.NewString()
	m := mapping.ToModelRateRecord(record)

	query := `
		INSERT INTO currency_rates (
			id, username, base_currency, target_currency, rate, amount,
			converted_amount, fetched_at, deleted, deleted_at, deleted_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + rateRecordColumns

	saved, err := scanRateRecord(r.Pool.QueryRow(ctx, query,
		m.ID, m.Username, m.BaseCurrency, m.TargetCurrency, m.Rate, m.Amount,
		m.ConvertedAmount, m.FetchedAt, m.Deleted, m.DeletedAt, m.DeletedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("error inserting rate record: %w", err)
	}
	return saved, nil
}

func (r *PgxRateHistoryRepository) updateStatus(ctx context.Context, record domain.RateRecord) (*domain.RateRecord, error) {
	m := mapping.ToModelRateRecord(record)

	query := `
		UPDATE currency_rates
		SET deleted = $2, deleted_at = $3, deleted_by = $4
		WHERE id = $1
		RETURNING ` + rateRecordColumns

	saved, err := scanRateRecord(r.Pool.QueryRow(ctx, query, m.ID, m.Deleted, m.DeletedAt, m.DeletedBy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("rate record with ID " + record.ID + " not found")
		}
		return nil, fmt.Errorf("error updating rate record %s: %w", record.ID, err)
	}
	return saved, nil
}

// FindLatest returns the most recent record for the triple, deleted ones included.
func (r *PgxRateHistoryRepository) FindLatest(ctx context.Context, username, base, target string) (*domain.RateRecord, error) {
	query := `
		SELECT ` + rateRecordColumns + `
		FROM currency_rates
		WHERE username = $1 AND base_currency = $2 AND target_currency = $3
		ORDER BY fetched_at DESC, seq DESC
		LIMIT 1`

	record, err := scanRateRecord(r.Pool.QueryRow(ctx, query, username, base, target))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no rate record found for " + base + " to " + target)
		}
		return nil, fmt.Errorf("error finding latest rate record: %w", err)
	}
	return record, nil
}

// FindByID retrieves a record by ID.
func (r *PgxRateHistoryRepository) FindByID(ctx context.Context, id string) (*domain.RateRecord, error) {
	query := `SELECT ` + rateRecordColumns + ` FROM currency_rates WHERE id = $1`

	record, err := scanRateRecord(r.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("rate record with ID " + id + " not found")
		}
		return nil, fmt.Errorf("error finding rate record %s: %w", id, err)
	}
	return record, nil
}

// DeleteByID removes a record permanently.
func (r *PgxRateHistoryRepository) DeleteByID(ctx context.Context, id string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM currency_rates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting rate record %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("rate record with ID " + id + " not found")
	}
	return nil
}

// FindPageByUser returns a page of the user's records, newest first.
func (r *PgxRateHistoryRepository) FindPageByUser(ctx context.Context, username string, page, size int, includeDeleted bool) (*domain.Page[domain.RateRecord], error) {
	where := `WHERE username = $1`
	if !includeDeleted {
		where += ` AND deleted = FALSE`
	}
	return r.findPage(ctx, where, []any{username}, page, size)
}

// FindAllPage returns a page of all records, newest first.
func (r *PgxRateHistoryRepository) FindAllPage(ctx context.Context, page, size int) (*domain.Page[domain.RateRecord], error) {
	return r.findPage(ctx, "", nil, page, size)
}

func (r *PgxRateHistoryRepository) findPage(ctx context.Context, where string, args []any, page, size int) (*domain.Page[domain.RateRecord], error) {
	tx, err := r.beginReadOnly(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var total int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM currency_rates `+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("error counting rate records: %w", err)
	}

	limitArg := len(args) + 1
	query := fmt.Sprintf(`SELECT %s FROM currency_rates %s ORDER BY fetched_at DESC, seq DESC LIMIT $%d OFFSET $%d`,
		rateRecordColumns, where, limitArg, limitArg+1)
	rows, err := tx.Query(ctx, query, append(args, size, domain.Offset(page, size))...)
	if err != nil {
		return nil, fmt.Errorf("error listing rate records: %w", err)
	}
	defer rows.Close()

	ms := make([]models.RateRecord, 0, size)
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning rate record: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rate records: %w", err)
	}
	rows.Close()

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	items, err := mapping.ToDomainRateRecordSlice(ms)
	if err != nil {
		return nil, err
	}

	return &domain.Page[domain.RateRecord]{Items: items, Page: page, Size: size, Total: total}, nil
}
