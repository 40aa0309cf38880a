package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-distribution/internal/distribution"
	"github.com/spec-kit/lead-distribution/internal/events"
	"github.com/spec-kit/lead-distribution/internal/lock"
	"github.com/spec-kit/lead-distribution/internal/observability"
	"github.com/spec-kit/lead-distribution/internal/repository"
)

// Services groups every application service over one store.
type Services struct {
	Operators   *OperatorService
	Sources     *SourceService
	Assignments *AssignmentService
	Leads       *LeadService
	Contacts    *ContactService
	Stats       *StatsService
}

// Dependencies are the shared collaborators passed to NewServices.
type Dependencies struct {
	Store      *repository.Store
	Random     distribution.RandomSource
	Locker     lock.Locker
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewServices wires all services around deps.Store. Without a Locker the
// services serialize distribution with an in-process lock.
func NewServices(deps Dependencies) *Services {
	store := deps.Store
	rnd := deps.Random
	if rnd == nil {
		rnd = distribution.NewRandomSource(0)
	}
	locker := deps.Locker
	if locker == nil {
		locker = lock.NewLocal()
	}
	leads := NewLeadService(LeadDependencies{
		LeadRepo:    store.Leads,
		ContactRepo: store.Contacts,
		Logger:      deps.Logger,
		Now:         deps.Now,
	})
	return &Services{
		Operators: NewOperatorService(OperatorDependencies{
			OperatorRepo:   store.Operators,
			AssignmentRepo: store.Assignments,
			ContactRepo:    store.Contacts,
			Logger:         deps.Logger,
			Now:            deps.Now,
		}),
		Sources: NewSourceService(SourceDependencies{
			SourceRepo:     store.Sources,
			AssignmentRepo: store.Assignments,
			ContactRepo:    store.Contacts,
			Logger:         deps.Logger,
			Now:            deps.Now,
		}),
		Assignments: NewAssignmentService(AssignmentDependencies{
			AssignmentRepo: store.Assignments,
			OperatorRepo:   store.Operators,
			SourceRepo:     store.Sources,
			Logger:         deps.Logger,
		}),
		Leads: leads,
		Contacts: NewContactService(ContactDependencies{
			ContactRepo:    store.Contacts,
			SourceRepo:     store.Sources,
			AssignmentRepo: store.Assignments,
			Leads:          leads,
			Engine:         distribution.NewEngineFromStore(store.Assignments, store.Contacts, rnd),
			Locker:         locker,
			Dispatcher:     deps.Dispatcher,
			Metrics:        deps.Metrics,
			Logger:         deps.Logger,
			Now:            deps.Now,
		}),
		Stats: NewStatsService(store),
	}
}
