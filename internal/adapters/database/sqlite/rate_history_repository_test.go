package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "username", "base_currency", "target_currency", "rate", "amount",
	"converted_amount", "fetched_at", "deleted", "deleted_at", "deleted_by"}

func newMockRepo(t *testing.T) (*RateHistoryRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewRateHistoryRepository(db)
	repo.newID = func() string { return "fixed-id" }
	return repo, mock
}

func TestSave_InsertAssignsID(t *testing.T) {
	repo, mock := newMockRepo(t)
	fetchedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rec, err := domain.NewRateRecord("alice", "USD", "JPY", decimal.RequireFromString("153.6"), decimal.RequireFromString("100"), fetchedAt)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO currency_rates`).
		WithArgs("fixed-id", "alice", "USD", "JPY", "153.6", "100", "15360", fetchedAt.UnixNano(), false, nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	saved, err := repo.Save(context.Background(), *rec)

	require.NoError(t, err)
	assert.Equal(t, "fixed-id", saved.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_InsertError(t *testing.T) {
	repo, mock := newMockRepo(t)
	rec, err := domain.NewRateRecord("alice", "USD", "JPY", decimal.RequireFromString("1"), decimal.RequireFromString("1"), time.Now())
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO currency_rates`).WillReturnError(errors.New("disk full"))

	_, err = repo.Save(context.Background(), *rec)
	assert.ErrorContains(t, err, "disk full")
}

func TestSave_UpdatePersistsOnlyStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	fetchedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	deletedAt := fetchedAt.Add(time.Minute)
	rec := domain.RateRecord{ID: "rec-1", Username: "alice", FetchedAt: fetchedAt}.MarkDeleted(deletedAt, "ADMIN")

	mock.ExpectExec(`UPDATE currency_rates SET deleted = \?, deleted_at = \?, deleted_by = \? WHERE id = \?`).
		WithArgs(true, deletedAt.UnixNano(), "ADMIN", "rec-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM currency_rates WHERE id = \?`).
		WithArgs("rec-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("rec-1", "alice", "USD", "JPY", "153.6", "100", "15360", fetchedAt.UnixNano(), int64(1), deletedAt.UnixNano(), "ADMIN"))

	saved, err := repo.Save(context.Background(), rec)

	require.NoError(t, err)
	assert.True(t, saved.IsDeleted())
	by, _ := saved.Status.DeletedBy()
	assert.Equal(t, "ADMIN", by)
	at, _ := saved.Status.DeletedAt()
	assert.True(t, at.Equal(deletedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_UpdateUnknownIDIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	rec := domain.RateRecord{ID: "missing"}.MarkDeleted(time.Now(), "alice")

	mock.ExpectExec(`UPDATE currency_rates`).WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Save(context.Background(), rec)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFindByID_PartialDeletionStateIsIntegrityError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM currency_rates WHERE id = \?`).
		WithArgs("rec-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("rec-1", "alice", "USD", "JPY", "1", "1", "1", time.Now().UnixNano(), int64(1), nil, "ADMIN"))

	_, err := repo.FindByID(context.Background(), "rec-1")
	assert.ErrorIs(t, err, apperrors.ErrIntegrity)
}

func TestFindLatest_NoRowsIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM currency_rates WHERE username = \? AND base_currency = \? AND target_currency = \? ORDER BY fetched_at DESC, seq DESC LIMIT 1`).
		WithArgs("alice", "USD", "JPY").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindLatest(context.Background(), "alice", "USD", "JPY")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM currency_rates WHERE id = \?`).WithArgs("rec-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM currency_rates WHERE id = \?`).WithArgs("rec-1").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.DeleteByID(context.Background(), "rec-1"))
	assert.ErrorIs(t, repo.DeleteByID(context.Background(), "rec-1"), apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindPageByUser_ActiveOnly(t *testing.T) {
	repo, mock := newMockRepo(t)
	fetchedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM currency_rates WHERE username = \? AND deleted = 0`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT (.+) FROM currency_rates WHERE username = \? AND deleted = 0 ORDER BY fetched_at DESC, seq DESC LIMIT \? OFFSET \?`).
		WithArgs("alice", 2, 2).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("rec-3", "alice", "USD", "EUR", "0.9", "10", "9", fetchedAt.UnixNano(), int64(0), nil, nil))
	mock.ExpectCommit()

	page, err := repo.FindPageByUser(context.Background(), "alice", 1, 2, false)

	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages())
	require.Len(t, page.Items, 1)
	assert.Equal(t, "rec-3", page.Items[0].ID)
	assert.True(t, page.Items[0].FetchedAt.Equal(fetchedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAllPage_CountErrorRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM currency_rates`).WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	_, err := repo.FindAllPage(context.Background(), 0, 10)

	assert.ErrorContains(t, err, "locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}
