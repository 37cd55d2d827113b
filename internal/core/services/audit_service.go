package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
)

// AdminActor is recorded as deletedBy when an administrator deletes a record.
const AdminActor = "ADMIN"

// auditService implements the AuditSvcFacade interface.
type auditService struct {
	rateRepo portsrepo.RateHistoryRepositoryFacade
	now      func() time.Time
}

// AuditServiceOption is a functional option for configuring the audit service
type AuditServiceOption func(*auditService)

// WithAuditClock overrides the time source used for deletedAt.
func WithAuditClock(now func() time.Time) AuditServiceOption {
	return func(s *auditService) {
		s.now = now
	}
}

// NewAuditService creates a new audit service with the provided options
func NewAuditService(repo portsrepo.RateHistoryRepositoryFacade, options ...AuditServiceOption) portssvc.AuditSvcFacade {
	svc := &auditService{
		rateRepo: repo,
		now:      time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure auditService implements the AuditSvcFacade interface
var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// GetRecord retrieves a record by ID.
func (s *auditService) GetRecord(ctx context.Context, id string) (*domain.RateRecord, error) {
	record, err := s.rateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate record in service: %w", err)
	}
	return record, nil
}

// LogicalDelete marks the record deleted now by actor. The actor is stored verbatim.
func (s *auditService) LogicalDelete(ctx context.Context, id, actor string) error {
	record, err := s.rateRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load rate record %s for deletion: %w", id, err)
	}

	if _, err := s.rateRepo.Save(ctx, record.MarkDeleted(s.now(), actor)); err != nil {
		return fmt.Errorf("failed to mark rate record %s deleted: %w", id, err)
	}
	return nil
}

// PhysicalDelete removes the record permanently.
func (s *auditService) PhysicalDelete(ctx context.Context, id string) error {
	if err := s.rateRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete rate record %s: %w", id, err)
	}
	return nil
}

// ListActive returns the user's history without logically deleted records.
func (s *auditService) ListActive(ctx context.Context, username string, page, size int) (*domain.Page[domain.RateRecord], error) {
	if err := domain.ValidatePage(page, size); err != nil {
		return nil, err
	}
	result, err := s.rateRepo.FindPageByUser(ctx, username, page, size, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list active history in service: %w", err)
	}
	return result, nil
}

// ListAll returns all records, deleted ones included.
func (s *auditService) ListAll(ctx context.Context, page, size int) (*domain.Page[domain.RateRecord], error) {
	if err := domain.ValidatePage(page, size); err != nil {
		return nil, err
	}
	result, err := s.rateRepo.FindAllPage(ctx, page, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list all history in service: %w", err)
	}
	return result, nil
}
