package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/adapters/database/memory"
	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
	"github.com/SscSPs/currency_exchange_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type AuditServiceTestSuite struct {
	suite.Suite
	mockRepo *MockRateHistoryRepository
	service  portssvc.AuditSvcFacade
}

func (suite *AuditServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockRateHistoryRepository)
	suite.service = services.NewAuditService(suite.mockRepo,
		services.WithAuditClock(func() time.Time { return testNow }))
}

func (suite *AuditServiceTestSuite) stored(id string) *domain.RateRecord {
	rec, err := domain.NewRateRecord("alice", "USD", "EUR", dec("0.9"), dec("10"), testNow.Add(-time.Hour))
	suite.Require().NoError(err)
	rec.ID = id
	return rec
}

// --- Test Cases ---

func (suite *AuditServiceTestSuite) TestLogicalDelete_MarksAndAttributes() {
	ctx := context.Background()
	original := suite.stored("rec-1")
	suite.mockRepo.On("FindByID", ctx, "rec-1").Return(original, nil).Once()
	suite.mockRepo.On("Save", ctx, mock.MatchedBy(func(r domain.RateRecord) bool {
		at, _ := r.Status.DeletedAt()
		by, _ := r.Status.DeletedBy()
		return r.ID == "rec-1" && r.IsDeleted() && at.Equal(testNow) && by == services.AdminActor &&
			r.Rate.Equal(original.Rate) && r.FetchedAt.Equal(original.FetchedAt)
	})).Return(echoSaved("rec-1"), nil).Once()

	err := suite.service.LogicalDelete(ctx, "rec-1", services.AdminActor)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestLogicalDelete_ActorStoredVerbatim() {
	ctx := context.Background()
	suite.mockRepo.On("FindByID", ctx, "rec-1").Return(suite.stored("rec-1"), nil).Once()
	suite.mockRepo.On("Save", ctx, mock.MatchedBy(func(r domain.RateRecord) bool {
		by, ok := r.Status.DeletedBy()
		return ok && by == "  Some Actor "
	})).Return(echoSaved("rec-1"), nil).Once()

	suite.Require().NoError(suite.service.LogicalDelete(ctx, "rec-1", "  Some Actor "))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestLogicalDelete_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindByID", ctx, "missing").Return(nil, apperrors.NewNotFoundError("rate record not found")).Once()

	err := suite.service.LogicalDelete(ctx, "missing", "alice")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "Save", mock.Anything, mock.Anything)
}

func (suite *AuditServiceTestSuite) TestPhysicalDelete() {
	ctx := context.Background()
	suite.mockRepo.On("DeleteByID", ctx, "rec-1").Return(nil).Once()
	suite.mockRepo.On("DeleteByID", ctx, "missing").Return(apperrors.NewNotFoundError("rate record not found")).Once()

	suite.NoError(suite.service.PhysicalDelete(ctx, "rec-1"))
	suite.ErrorIs(suite.service.PhysicalDelete(ctx, "missing"), apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestListActive_ExcludesDeleted() {
	ctx := context.Background()
	page := &domain.Page[domain.RateRecord]{Items: []domain.RateRecord{*suite.stored("rec-1")}, Page: 0, Size: 10, Total: 1}
	suite.mockRepo.On("FindPageByUser", ctx, "alice", 0, 10, false).Return(page, nil).Once()

	result, err := suite.service.ListActive(ctx, "alice", 0, 10)

	suite.Require().NoError(err)
	suite.Equal(page, result)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestListAll_RepositoryError() {
	ctx := context.Background()
	dbErr := errors.New("query failed")
	suite.mockRepo.On("FindAllPage", ctx, 1, 20).Return(nil, dbErr).Once()

	_, err := suite.service.ListAll(ctx, 1, 20)

	suite.ErrorIs(err, dbErr)
}

func (suite *AuditServiceTestSuite) TestListing_InvalidPaging() {
	ctx := context.Background()

	_, err := suite.service.ListActive(ctx, "alice", -1, 10)
	suite.ErrorIs(err, apperrors.ErrValidation)
	_, err = suite.service.ListAll(ctx, 0, 0)
	suite.ErrorIs(err, apperrors.ErrValidation)
	_, err = suite.service.ListAll(ctx, 0, domain.MaxPageSize+1)
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockRepo.AssertNotCalled(suite.T(), "FindPageByUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindAllPage", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuditServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuditServiceTestSuite))
}

// --- Store-backed behaviour ---

func seedConversions(t *testing.T, svc portssvc.ConversionSvcFacade, user string, n int) []*domain.RateRecord {
	t.Helper()
	out := make([]*domain.RateRecord, 0, n)
	for i := 0; i < n; i++ {
		rec, err := svc.ConvertWithRecord(context.Background(), user, dec("10"), "USD", "EUR")
		require.NoError(t, err)
		out = append(out, rec)
	}
	return out
}

func TestLogicalDelete_HiddenFromActiveVisibleInAll(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRateHistoryRepository()
	conversion := services.NewConversionService(repo, &countingSource{rates: []string{"0.9"}})
	audit := services.NewAuditService(repo, services.WithAuditClock(func() time.Time { return testNow }))

	records := seedConversions(t, conversion, "alice", 3)
	target := records[1]

	require.NoError(t, audit.LogicalDelete(ctx, target.ID, "alice"))

	active, err := audit.ListActive(ctx, "alice", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, active.Total)
	for _, rec := range active.Items {
		assert.NotEqual(t, target.ID, rec.ID)
		assert.False(t, rec.IsDeleted())
	}

	all, err := audit.ListAll(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
	var found bool
	for _, rec := range all.Items {
		if rec.ID == target.ID {
			found = true
			assert.True(t, rec.IsDeleted())
			by, _ := rec.Status.DeletedBy()
			assert.Equal(t, "alice", by)
		}
	}
	assert.True(t, found, "deleted record must remain in the admin listing")

	stored, err := audit.GetRecord(ctx, target.ID)
	require.NoError(t, err)
	assert.True(t, stored.Rate.Equal(target.Rate))
	assert.True(t, stored.ConvertedAmount.Equal(target.ConvertedAmount))
}

func TestListActive_DeletedRowNeverFillsPageWindow(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRateHistoryRepository()
	conversion := services.NewConversionService(repo, &countingSource{rates: []string{"0.9"}})
	audit := services.NewAuditService(repo)

	records := seedConversions(t, conversion, "alice", 12)
	for _, rec := range records[:5] {
		require.NoError(t, audit.LogicalDelete(ctx, rec.ID, "alice"))
	}

	page, err := audit.ListActive(ctx, "alice", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 7, page.Total)
	assert.Len(t, page.Items, 7)
	for _, rec := range page.Items {
		assert.False(t, rec.IsDeleted())
	}
}

func TestPhysicalDelete_IsUnrecoverable(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRateHistoryRepository()
	conversion := services.NewConversionService(repo, &countingSource{rates: []string{"0.9"}})
	audit := services.NewAuditService(repo)

	records := seedConversions(t, conversion, "alice", 1)
	require.NoError(t, audit.LogicalDelete(ctx, records[0].ID, services.AdminActor))
	require.NoError(t, audit.PhysicalDelete(ctx, records[0].ID))

	_, err := audit.GetRecord(ctx, records[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	all, err := audit.ListAll(ctx, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, all.Total)

	assert.ErrorIs(t, audit.PhysicalDelete(ctx, records[0].ID), apperrors.ErrNotFound)
	assert.ErrorIs(t, audit.LogicalDelete(ctx, records[0].ID, "alice"), apperrors.ErrNotFound)
}
