package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-distribution/internal/persistence"
	"github.com/spec-kit/lead-distribution/internal/repository/sqlite"
	"github.com/spec-kit/lead-distribution/internal/service"
)

const routingYAML = `
operators:
  - name: Alice
    max_active_contacts: 2
  - name: Bob
    active: false
sources:
  - code: telegram_bot
    name: Telegram bot
  - code: site_widget
assignments:
  - operator: Alice
    source: telegram_bot
    weight: 10
  - operator: Bob
    source: telegram_bot
    weight: 30
  - operator: Alice
    source: site_widget
`

func newServices(t *testing.T) *service.Services {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()
	db, err := persistence.NewSQLite(ctx, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, persistence.RunSQLiteMigrations(ctx, db.DB, logger))
	return service.NewServices(service.Dependencies{Store: sqlite.NewStore(db.DB), Logger: logger})
}

func TestParseRejectsUnknownReferences(t *testing.T) {
	_, err := Parse([]byte(`
operators:
  - name: Alice
assignments:
  - operator: Alice
    source: missing
`))
	require.ErrorContains(t, err, `unknown source "missing"`)

	_, err = Parse([]byte(`
operators:
  - name: Alice
  - name: Alice
`))
	require.ErrorContains(t, err, "duplicate name")

	_, err = Parse([]byte("operators: [: bad"))
	require.ErrorContains(t, err, "failed to parse seed file")
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	services := newServices(t)
	f, err := Parse([]byte(routingYAML))
	require.NoError(t, err)

	res, err := Apply(ctx, services, f, nil)
	require.NoError(t, err)
	require.Equal(t, Result{OperatorsCreated: 2, SourcesCreated: 2, Assignments: 3}, res)

	res, err = Apply(ctx, services, f, nil)
	require.NoError(t, err)
	require.Equal(t, Result{OperatorsUpdated: 2, SourcesUpdated: 2, Assignments: 3}, res)

	ops, err := services.Operators.List(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 2)

	src, err := services.Sources.GetByCode(ctx, "telegram_bot")
	require.NoError(t, err)
	require.Equal(t, "Telegram bot", src.Name)

	detail, err := services.Sources.Get(ctx, src.ID)
	require.NoError(t, err)
	weights := map[string]int{}
	for _, op := range detail.Operators {
		weights[op.OperatorName] = op.Weight
	}
	require.Equal(t, map[string]int{"Alice": 10, "Bob": 30}, weights)

	bob, err := services.Operators.GetByName(ctx, "Bob")
	require.NoError(t, err)
	require.False(t, bob.Active)

	widget, err := services.Sources.GetByCode(ctx, "site_widget")
	require.NoError(t, err)
	require.Equal(t, "site_widget", widget.Name)
}
