package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-distribution/internal/distribution"
	"github.com/spec-kit/lead-distribution/internal/domain"
	"github.com/spec-kit/lead-distribution/internal/events"
	"github.com/spec-kit/lead-distribution/internal/lock"
	"github.com/spec-kit/lead-distribution/internal/observability"
	"github.com/spec-kit/lead-distribution/internal/repository"
	apperrors "github.com/spec-kit/lead-distribution/pkg/util/errorutil"
)

// maxDistributeAttempts bounds how often distribution restarts when the
// operator set of a source changes while it is being locked.
const maxDistributeAttempts = 3

// ContactService runs the contact lifecycle: creation with distribution,
// status changes and reassignment.
type ContactService struct {
	contacts    repository.ContactRepository
	sources     repository.SourceRepository
	assignments repository.AssignmentRepository
	leads       *LeadService
	engine      *distribution.Engine
	locker      lock.Locker
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
	now         func() time.Time
}

// ContactDependencies bundles collaborators for the contact service.
type ContactDependencies struct {
	ContactRepo    repository.ContactRepository
	SourceRepo     repository.SourceRepository
	AssignmentRepo repository.AssignmentRepository
	Leads          *LeadService
	Engine         *distribution.Engine
	Locker         lock.Locker
	Dispatcher     events.Dispatcher
	Metrics        *observability.Metrics
	Logger         *zap.Logger
	Now            func() time.Time
}

// ContactCreateInput describes an inbound contact.
type ContactCreateInput struct {
	LeadExternalID string
	SourceCode     string
	Message        *string
	Lead           LeadContactInfo
}

// ContactListFilter narrows contact listings.
type ContactListFilter struct {
	Status *domain.ContactStatus
	Limit  int
	Offset int
}

// ContactResult is a persisted contact plus the explanation of who got it.
type ContactResult struct {
	Contact   domain.ContactView
	Lead      *domain.Lead
	Outcome   distribution.Outcome
	Rationale string
}

// NewContactService constructs the service.
func NewContactService(deps ContactDependencies) *ContactService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	locker := deps.Locker
	if locker == nil {
		locker = lock.Nop{}
	}
	return &ContactService{
		contacts:    deps.ContactRepo,
		sources:     deps.SourceRepo,
		assignments: deps.AssignmentRepo,
		leads:       deps.Leads,
		engine:      deps.Engine,
		locker:      locker,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      logger,
		now:         clockOrDefault(deps.Now),
	}
}

// Create registers a contact from a lead on a source and assigns it to an
// operator when one is available. A contact without an operator is a valid result.
func (s *ContactService) Create(ctx context.Context, input ContactCreateInput) (*ContactResult, error) {
	code := strings.TrimSpace(input.SourceCode)
	message := trimmedPtr(input.Message)

	errs := fieldErrors{}
	errs.requireLength("source_code", code, 1, 50)
	if err := errs.err(); err != nil {
		return nil, err
	}

	source, err := s.sources.GetByCode(ctx, code)
	if err != nil {
		return nil, mapRepoError(err, "source", map[string]any{"code": code})
	}
	if !source.Active {
		return nil, apperrors.NewInvalidState("source is inactive", map[string]any{"code": code})
	}

	lead, created, err := s.leads.Resolve(ctx, input.LeadExternalID, input.Lead)
	if err != nil {
		return nil, err
	}

	var contact *domain.Contact
	decision, err := s.distribute(ctx, source, func(decision distribution.Decision) error {
		now := s.now()
		contact = &domain.Contact{
			ID:        uuid.NewString(),
			LeadID:    lead.ID,
			SourceID:  source.ID,
			Status:    domain.ContactStatusNew,
			Message:   message,
			CreatedAt: now,
		}
		if decision.Operator != nil {
			contact.OperatorID = &decision.Operator.ID
			contact.AssignedAt = &now
		}
		if err := s.contacts.Create(ctx, contact); err != nil {
			return mapRepoError(err, "contact", nil)
		}
		return nil
	})
	if err != nil {
		if created {
			s.leads.discard(ctx, lead.ID)
		}
		return nil, err
	}

	leadOutcome := "found existing lead"
	if created {
		leadOutcome = "created new lead"
	}
	rationale := leadOutcome + "; " + decision.Rationale

	s.publish(ctx, events.NewContactEvent(events.EventContactCreated, contact, decision.Rationale, s.now()))

	view, err := s.contacts.GetView(ctx, contact.ID)
	if err != nil {
		return nil, mapRepoError(err, "contact", nil)
	}
	return &ContactResult{Contact: *view, Lead: lead, Outcome: decision.Outcome, Rationale: rationale}, nil
}

// UpdateStatus moves a contact to a new status. Closing stamps closed_at,
// which frees the operator's capacity. Closed contacts cannot be reopened.
func (s *ContactService) UpdateStatus(ctx context.Context, id string, status domain.ContactStatus) (*domain.ContactView, error) {
	errs := fieldErrors{}
	errs.status(status)
	if err := errs.err(); err != nil {
		return nil, err
	}

	contact, err := s.getContact(ctx, id)
	if err != nil {
		return nil, err
	}

	old := contact.Status
	if old == domain.ContactStatusClosed {
		if status == domain.ContactStatusClosed {
			return s.view(ctx, id)
		}
		return nil, apperrors.NewInvalidState("cannot reopen a closed contact", map[string]any{"contact_id": id})
	}

	contact.Status = status
	if status == domain.ContactStatusClosed {
		now := s.now()
		contact.ClosedAt = &now
	}
	if err := s.contacts.Update(ctx, contact); err != nil {
		return nil, mapRepoError(err, "contact", map[string]any{"contact_id": id})
	}

	if old != status {
		event := events.NewContactEvent(events.EventContactStatusChanged, contact, "", s.now())
		event.Payload.OldStatus = old
		s.publish(ctx, event)
	}
	return s.view(ctx, id)
}

// Reassign runs distribution again for an open contact. The previous
// operator gets no special treatment and the contact may end up unassigned.
func (s *ContactService) Reassign(ctx context.Context, id string) (*ContactResult, error) {
	contact, err := s.getContact(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact.Status == domain.ContactStatusClosed {
		return nil, apperrors.NewInvalidState("cannot reassign a closed contact", map[string]any{"contact_id": id})
	}

	source, err := s.sources.GetByID(ctx, contact.SourceID)
	if err != nil {
		return nil, mapRepoError(err, "source", map[string]any{"source_id": contact.SourceID})
	}

	decision, err := s.distribute(ctx, source, func(decision distribution.Decision) error {
		// Re-read under the locks so a concurrent close is not overwritten.
		current, err := s.getContact(ctx, id)
		if err != nil {
			return err
		}
		if current.Status == domain.ContactStatusClosed {
			return apperrors.NewInvalidState("cannot reassign a closed contact", map[string]any{"contact_id": id})
		}
		contact = current
		contact.OperatorID = nil
		contact.AssignedAt = nil
		if decision.Operator != nil {
			now := s.now()
			contact.OperatorID = &decision.Operator.ID
			contact.AssignedAt = &now
		}
		if err := s.contacts.Update(ctx, contact); err != nil {
			return mapRepoError(err, "contact", map[string]any{"contact_id": id})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewContactEvent(events.EventContactReassigned, contact, decision.Rationale, s.now()))

	view, err := s.view(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ContactResult{Contact: *view, Outcome: decision.Outcome, Rationale: decision.Rationale}, nil
}

// Get returns a contact with its source code and operator name.
func (s *ContactService) Get(ctx context.Context, id string) (*domain.ContactView, error) {
	return s.view(ctx, id)
}

// List returns contacts, newest first.
func (s *ContactService) List(ctx context.Context, filter ContactListFilter) ([]domain.ContactView, error) {
	if filter.Status != nil {
		errs := fieldErrors{}
		errs.status(*filter.Status)
		if err := errs.err(); err != nil {
			return nil, err
		}
	}
	views, err := s.contacts.List(ctx, repository.ContactFilter{
		Status: filter.Status,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
	if err != nil {
		return nil, mapRepoError(err, "contact", nil)
	}
	return views, nil
}

// distribute locks every operator assigned to the source, runs the engine
// and calls persist with the decision before the locks are released.
func (s *ContactService) distribute(ctx context.Context, source *domain.Source, persist func(distribution.Decision) error) (distribution.Decision, error) {
	start := time.Now()

	var decision distribution.Decision
	for attempt := 1; ; attempt++ {
		locked, release, err := s.lockSourceOperators(ctx, source.ID)
		if err != nil {
			return distribution.Decision{}, err
		}

		decision, err = s.engine.SelectOperator(ctx, source.ID)
		if err != nil {
			release()
			return distribution.Decision{}, apperrors.NewInternalError(err)
		}
		// An operator assigned after the keys were listed is not locked yet.
		if decision.Operator != nil && !locked[decision.Operator.ID] {
			if attempt < maxDistributeAttempts {
				release()
				continue
			}
			s.logger.Warn("selected operator is not locked, capacity not guaranteed",
				zap.String("source_id", source.ID),
				zap.String("operator_id", decision.Operator.ID),
				zap.Int("attempts", attempt),
			)
		}

		err = persist(decision)
		release()
		if err != nil {
			return distribution.Decision{}, err
		}
		break
	}

	s.metrics.RecordDecision(source.Code, string(decision.Outcome), time.Since(start))
	fields := []zap.Field{
		zap.String("source_id", source.ID),
		zap.String("source_code", source.Code),
		zap.String("outcome", string(decision.Outcome)),
		zap.String("rationale", decision.Rationale),
	}
	if decision.Operator != nil {
		fields = append(fields, zap.String("operator_id", decision.Operator.ID))
	}
	s.logger.Debug("distribution decision", fields...)
	return decision, nil
}

func (s *ContactService) lockSourceOperators(ctx context.Context, sourceID string) (map[string]bool, func(), error) {
	assigned, err := s.assignments.ListBySource(ctx, sourceID)
	if err != nil {
		return nil, nil, mapRepoError(err, "assignment", nil)
	}
	locked := make(map[string]bool, len(assigned))
	keys := make([]string, 0, len(assigned))
	for _, a := range assigned {
		locked[a.Operator.ID] = true
		keys = append(keys, "operator:"+a.Operator.ID)
	}

	release, err := lock.LockAll(ctx, s.locker, keys)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(fmt.Errorf("lock operators: %w", err))
	}
	return locked, release, nil
}

func (s *ContactService) getContact(ctx context.Context, id string) (*domain.Contact, error) {
	contact, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "contact", map[string]any{"contact_id": id})
	}
	return contact, nil
}

func (s *ContactService) view(ctx context.Context, id string) (*domain.ContactView, error) {
	view, err := s.contacts.GetView(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "contact", map[string]any{"contact_id": id})
	}
	return view, nil
}

func (s *ContactService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
