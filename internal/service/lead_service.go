package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-distribution/internal/domain"
	"github.com/spec-kit/lead-distribution/internal/repository"
)

// LeadService resolves and lists leads.
type LeadService struct {
	leads    repository.LeadRepository
	contacts repository.ContactRepository
	logger   *zap.Logger
	now      func() time.Time
}

// LeadDependencies bundles repositories for the lead service.
type LeadDependencies struct {
	LeadRepo    repository.LeadRepository
	ContactRepo repository.ContactRepository
	Logger      *zap.Logger
	Now         func() time.Time
}

// LeadContactInfo carries optional contact details reported with a contact.
type LeadContactInfo struct {
	Name  *string
	Phone *string
	Email *string
}

// LeadDetail is a lead with every contact it made across sources.
type LeadDetail struct {
	domain.Lead
	Contacts []domain.ContactView
}

// NewLeadService constructs the service.
func NewLeadService(deps LeadDependencies) *LeadService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadService{
		leads:    deps.LeadRepo,
		contacts: deps.ContactRepo,
		logger:   logger,
		now:      clockOrDefault(deps.Now),
	}
}

// Resolve finds the lead by external id or creates it. Existing leads only
// gain values for fields that are still empty. It reports whether the lead was created.
func (s *LeadService) Resolve(ctx context.Context, externalID string, info LeadContactInfo) (*domain.Lead, bool, error) {
	externalID = strings.TrimSpace(externalID)
	info = LeadContactInfo{Name: trimmedPtr(info.Name), Phone: trimmedPtr(info.Phone), Email: trimmedPtr(info.Email)}

	errs := fieldErrors{}
	errs.requireLength("lead_external_id", externalID, 1, 255)
	errs.optionalLength("lead_name", info.Name, 100)
	errs.optionalLength("lead_phone", info.Phone, 20)
	errs.optionalLength("lead_email", info.Email, 100)
	if err := errs.err(); err != nil {
		return nil, false, err
	}

	lead, err := s.leads.GetByExternalID(ctx, externalID)
	switch {
	case err == nil:
		return s.fill(ctx, lead, info)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, false, mapRepoError(err, "lead", nil)
	}

	lead = &domain.Lead{
		ID:         uuid.NewString(),
		ExternalID: externalID,
		Name:       info.Name,
		Phone:      info.Phone,
		Email:      info.Email,
		CreatedAt:  s.now(),
	}
	err = s.leads.Create(ctx, lead)
	if errors.Is(err, repository.ErrDuplicate) {
		// Another request created it first.
		existing, getErr := s.leads.GetByExternalID(ctx, externalID)
		if getErr != nil {
			return nil, false, mapRepoError(getErr, "lead", nil)
		}
		return s.fill(ctx, existing, info)
	}
	if err != nil {
		return nil, false, mapRepoError(err, "lead", nil)
	}
	s.logger.Debug("lead created", zap.String("lead_id", lead.ID), zap.String("external_id", externalID))
	return lead, true, nil
}

// discard removes a lead created for a contact that could not be persisted.
// A lead that meanwhile gained contacts from other requests is kept.
func (s *LeadService) discard(ctx context.Context, id string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	removed, err := s.leads.DeleteUnused(ctx, id)
	if err != nil {
		s.logger.Warn("discard orphan lead failed", zap.String("lead_id", id), zap.Error(err))
		return
	}
	if removed {
		s.logger.Debug("orphan lead discarded", zap.String("lead_id", id))
	}
}

func (s *LeadService) fill(ctx context.Context, lead *domain.Lead, info LeadContactInfo) (*domain.Lead, bool, error) {
	if lead.FillMissing(info.Name, info.Phone, info.Email) {
		if err := s.leads.Update(ctx, lead); err != nil {
			return nil, false, mapRepoError(err, "lead", nil)
		}
	}
	return lead, false, nil
}

// List returns leads, newest first.
func (s *LeadService) List(ctx context.Context, limit, offset int) ([]domain.Lead, error) {
	leads, err := s.leads.List(ctx, limit, offset)
	if err != nil {
		return nil, mapRepoError(err, "lead", nil)
	}
	return leads, nil
}

// Get returns a lead with all of its contacts.
func (s *LeadService) Get(ctx context.Context, id string) (*LeadDetail, error) {
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "lead", map[string]any{"lead_id": id})
	}
	contacts, err := s.contacts.List(ctx, repository.ContactFilter{LeadID: &lead.ID, Limit: 1000})
	if err != nil {
		return nil, mapRepoError(err, "contact", nil)
	}
	return &LeadDetail{Lead: *lead, Contacts: contacts}, nil
}
