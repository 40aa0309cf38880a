package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-distribution/internal/distribution"
	"github.com/spec-kit/lead-distribution/internal/domain"
	"github.com/spec-kit/lead-distribution/internal/events"
	"github.com/spec-kit/lead-distribution/internal/lock"
	"github.com/spec-kit/lead-distribution/internal/persistence"
	"github.com/spec-kit/lead-distribution/internal/repository"
	"github.com/spec-kit/lead-distribution/internal/repository/sqlite"
	apperrors "github.com/spec-kit/lead-distribution/pkg/util/errorutil"
)

type testEnv struct {
	store       *repository.Store
	operators   *OperatorService
	sources     *SourceService
	assignments *AssignmentService
	leads       *LeadService
	contacts    *ContactService
	stats       *StatsService
	events      *eventRecorder
	clock       *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) Publish(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	db, err := persistence.NewSQLite(ctx, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, persistence.RunSQLiteMigrations(ctx, db.DB, logger))

	store := sqlite.NewStore(db.DB)
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	recorder := &eventRecorder{}

	dispatcher := events.NewInMemoryDispatcher(logger)
	NewNotificationService(dispatcher, recorder, nil, logger).RegisterHandlers()

	leads := NewLeadService(LeadDependencies{LeadRepo: store.Leads, ContactRepo: store.Contacts, Now: clock.Now})
	engine := distribution.NewEngineFromStore(store.Assignments, store.Contacts, distribution.NewRandomSource(7))

	return &testEnv{
		store: store,
		operators: NewOperatorService(OperatorDependencies{
			OperatorRepo: store.Operators, AssignmentRepo: store.Assignments, ContactRepo: store.Contacts, Now: clock.Now,
		}),
		sources: NewSourceService(SourceDependencies{
			SourceRepo: store.Sources, AssignmentRepo: store.Assignments, ContactRepo: store.Contacts, Now: clock.Now,
		}),
		assignments: NewAssignmentService(AssignmentDependencies{
			AssignmentRepo: store.Assignments, OperatorRepo: store.Operators, SourceRepo: store.Sources,
		}),
		leads: leads,
		contacts: NewContactService(ContactDependencies{
			ContactRepo:    store.Contacts,
			SourceRepo:     store.Sources,
			AssignmentRepo: store.Assignments,
			Leads:          leads,
			Engine:         engine,
			Locker:         lock.NewLocal(),
			Dispatcher:     dispatcher,
			Now:            clock.Now,
		}),
		stats:  NewStatsService(store),
		events: recorder,
		clock:  clock,
	}
}

func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }

func (e *testEnv) operator(t *testing.T, name string, capacity int) *domain.Operator {
	t.Helper()
	op, err := e.operators.Create(context.Background(), OperatorCreateInput{Name: name, Capacity: intPtr(capacity)})
	require.NoError(t, err)
	return op
}

func (e *testEnv) source(t *testing.T, code string) *domain.Source {
	t.Helper()
	src, err := e.sources.Create(context.Background(), SourceCreateInput{Name: code, Code: code})
	require.NoError(t, err)
	return src
}

func (e *testEnv) assign(t *testing.T, op *domain.Operator, src *domain.Source, weight int) {
	t.Helper()
	_, err := e.assignments.Assign(context.Background(), AssignmentInput{OperatorID: op.ID, SourceID: src.ID, Weight: intPtr(weight)})
	require.NoError(t, err)
}

func (e *testEnv) contact(t *testing.T, externalID, code string) *ContactResult {
	t.Helper()
	res, err := e.contacts.Create(context.Background(), ContactCreateInput{LeadExternalID: externalID, SourceCode: code})
	require.NoError(t, err)
	return res
}

func TestContactService_TelegramCapacityScenario(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := env.operator(t, "A", 2)
	bob := env.operator(t, "B", 2)
	telegram := env.source(t, "telegram")
	env.assign(t, alice, telegram, 10)
	env.assign(t, bob, telegram, 30)

	perOperator := map[string]int{}
	for _, ext := range []string{"u1", "u2", "u3", "u4"} {
		res := env.contact(t, ext, "telegram")
		require.NotNil(t, res.Contact.OperatorID, res.Rationale)
		require.NotNil(t, res.Contact.AssignedAt)
		require.Equal(t, distribution.OutcomeAssigned, res.Outcome)
		perOperator[*res.Contact.OperatorID]++
		require.LessOrEqual(t, perOperator[*res.Contact.OperatorID], 2)
	}
	require.Equal(t, 2, perOperator[alice.ID])
	require.Equal(t, 2, perOperator[bob.ID])

	fifth := env.contact(t, "u5", "telegram")
	require.Nil(t, fifth.Contact.OperatorID)
	require.Nil(t, fifth.Contact.AssignedAt)
	require.Equal(t, distribution.OutcomeNoneAvailable, fifth.Outcome)
	require.Contains(t, fifth.Rationale, "A: at capacity (2/2)")
	require.Contains(t, fifth.Rationale, "B: at capacity (2/2)")
	require.Contains(t, fifth.Rationale, "created new lead; no available operators: ")

	for _, op := range []*domain.Operator{alice, bob} {
		load, err := env.operators.GetOperatorLoad(ctx, op.ID)
		require.NoError(t, err)
		require.Equal(t, 2, load)
	}
}

func TestContactService_ConcurrentCreatesRespectCapacity(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	op := env.operator(t, "Solo", 3)
	src := env.source(t, "web")
	env.assign(t, op, src, 1)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.contacts.Create(ctx, ContactCreateInput{
				LeadExternalID: "lead-" + string(rune('a'+i)),
				SourceCode:     "web",
			})
			if err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	load, err := env.operators.GetOperatorLoad(ctx, op.ID)
	require.NoError(t, err)
	require.Equal(t, 3, load)
}

func TestContactService_SingleOperatorOverflow(t *testing.T) {
	env := setupTestEnv(t)
	op := env.operator(t, "Solo", 2)
	src := env.source(t, "web")
	env.assign(t, op, src, 5)

	env.contact(t, "x", "web")
	env.contact(t, "x", "web")
	third := env.contact(t, "x", "web")
	require.Nil(t, third.Contact.OperatorID)
	require.Equal(t, "found existing lead; no available operators: Solo: at capacity (2/2)", third.Rationale)
}

func TestContactService_NoAssignments(t *testing.T) {
	env := setupTestEnv(t)
	env.source(t, "empty")

	res := env.contact(t, "x", "empty")
	require.Nil(t, res.Contact.OperatorID)
	require.Equal(t, distribution.OutcomeNoAssignments, res.Outcome)
	require.Equal(t, "created new lead; no operators assigned to this source", res.Rationale)
	require.Equal(t, domain.ContactStatusNew, res.Contact.Status)
	require.Equal(t, "empty", res.Contact.SourceCode)
}

func TestContactService_SourceErrors(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, err := env.contacts.Create(ctx, ContactCreateInput{LeadExternalID: "x", SourceCode: "missing"})
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	src := env.source(t, "off")
	_, err = env.sources.Update(ctx, src.ID, SourceUpdateInput{Active: boolPtr(false)})
	require.NoError(t, err)

	_, err = env.contacts.Create(ctx, ContactCreateInput{LeadExternalID: "x", SourceCode: "off"})
	require.True(t, apperrors.HasCode(err, apperrors.CodeInvalidState))

	total, _, err := env.store.Contacts.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestContactService_LeadResolution(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	env.source(t, "telegram")
	env.source(t, "whatsapp")

	first, err := env.contacts.Create(ctx, ContactCreateInput{
		LeadExternalID: "user-42",
		SourceCode:     "telegram",
		Lead:           LeadContactInfo{Name: strPtr("Ivan")},
	})
	require.NoError(t, err)

	second, err := env.contacts.Create(ctx, ContactCreateInput{
		LeadExternalID: "user-42",
		SourceCode:     "whatsapp",
		Lead:           LeadContactInfo{Name: strPtr("Other"), Phone: strPtr("+100")},
	})
	require.NoError(t, err)

	require.Equal(t, first.Lead.ID, second.Lead.ID)
	require.Equal(t, "Ivan", *second.Lead.Name)
	require.Equal(t, "+100", *second.Lead.Phone)

	detail, err := env.leads.Get(ctx, first.Lead.ID)
	require.NoError(t, err)
	require.Len(t, detail.Contacts, 2)

	count, err := env.store.Leads.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestContactService_UpdateStatus(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	op := env.operator(t, "Solo", 1)
	src := env.source(t, "web")
	env.assign(t, op, src, 1)

	res := env.contact(t, "x", "web")
	blocked := env.contact(t, "y", "web")
	require.Nil(t, blocked.Contact.OperatorID)

	inProgress, err := env.contacts.UpdateStatus(ctx, res.Contact.ID, domain.ContactStatusInProgress)
	require.NoError(t, err)
	require.Equal(t, domain.ContactStatusInProgress, inProgress.Status)
	require.Nil(t, inProgress.ClosedAt)

	closed, err := env.contacts.UpdateStatus(ctx, res.Contact.ID, domain.ContactStatusClosed)
	require.NoError(t, err)
	require.NotNil(t, closed.ClosedAt)

	load, err := env.operators.GetOperatorLoad(ctx, op.ID)
	require.NoError(t, err)
	require.Zero(t, load)

	again, err := env.contacts.UpdateStatus(ctx, res.Contact.ID, domain.ContactStatusClosed)
	require.NoError(t, err)
	require.True(t, closed.ClosedAt.Equal(*again.ClosedAt))

	_, err = env.contacts.UpdateStatus(ctx, res.Contact.ID, domain.ContactStatusNew)
	require.True(t, apperrors.HasCode(err, apperrors.CodeInvalidState))

	_, err = env.contacts.UpdateStatus(ctx, res.Contact.ID, "archived")
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = env.contacts.UpdateStatus(ctx, "missing", domain.ContactStatusClosed)
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	next := env.contact(t, "z", "web")
	require.NotNil(t, next.Contact.OperatorID)
	require.Equal(t, op.ID, *next.Contact.OperatorID)
}

func TestContactService_Reassign(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := env.operator(t, "Alice", 5)
	src := env.source(t, "web")
	env.assign(t, alice, src, 1)

	res := env.contact(t, "x", "web")
	require.Equal(t, alice.ID, *res.Contact.OperatorID)
	firstAssigned := *res.Contact.AssignedAt

	reassigned, err := env.contacts.Reassign(ctx, res.Contact.ID)
	require.NoError(t, err)
	require.Equal(t, alice.ID, *reassigned.Contact.OperatorID)
	require.True(t, reassigned.Contact.AssignedAt.After(firstAssigned))
	require.Equal(t, "selected Alice from [Alice: weight 1 (100%)]", reassigned.Rationale)

	_, err = env.operators.Update(ctx, alice.ID, OperatorUpdateInput{Active: boolPtr(false)})
	require.NoError(t, err)

	unassigned, err := env.contacts.Reassign(ctx, res.Contact.ID)
	require.NoError(t, err)
	require.Nil(t, unassigned.Contact.OperatorID)
	require.Nil(t, unassigned.Contact.AssignedAt)
	require.Equal(t, "no available operators: Alice: inactive", unassigned.Rationale)

	_, err = env.contacts.UpdateStatus(ctx, res.Contact.ID, domain.ContactStatusClosed)
	require.NoError(t, err)
	_, err = env.contacts.Reassign(ctx, res.Contact.ID)
	require.True(t, apperrors.HasCode(err, apperrors.CodeInvalidState))

	_, err = env.contacts.Reassign(ctx, "missing")
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	require.Equal(t, []events.EventType{
		events.EventContactCreated,
		events.EventContactReassigned,
		events.EventContactReassigned,
		events.EventContactStatusChanged,
	}, env.events.types())
}

func TestContactService_List(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	env.source(t, "web")

	first := env.contact(t, "a", "web")
	env.contact(t, "b", "web")
	_, err := env.contacts.UpdateStatus(ctx, first.Contact.ID, domain.ContactStatusClosed)
	require.NoError(t, err)

	all, err := env.contacts.List(ctx, ContactListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.True(t, all[0].CreatedAt.After(all[1].CreatedAt))

	closed := domain.ContactStatusClosed
	onlyClosed, err := env.contacts.List(ctx, ContactListFilter{Status: &closed})
	require.NoError(t, err)
	require.Len(t, onlyClosed, 1)
	require.Equal(t, first.Contact.ID, onlyClosed[0].ID)

	bad := domain.ContactStatus("bogus")
	_, err = env.contacts.List(ctx, ContactListFilter{Status: &bad})
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}
