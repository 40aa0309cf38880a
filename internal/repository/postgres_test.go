package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-distribution/internal/config"
	"github.com/spec-kit/lead-distribution/internal/domain"
	"github.com/spec-kit/lead-distribution/internal/persistence"
	"github.com/spec-kit/lead-distribution/internal/repository"
)

func setupPostgres(t *testing.T) *repository.Store {
	t.Helper()
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, config.PostgresConfig{DSN: dsn}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pg.Close)
	require.NoError(t, persistence.RunMigrations(ctx, pg.PoolHandle(), zap.NewNop()))
	return repository.NewPostgresStore(pg.PoolHandle())
}

func TestPostgresStore_ConstraintMapping(t *testing.T) {
	store := setupPostgres(t)
	ctx := context.Background()
	now := time.Now().UTC()
	code := "pg-" + uuid.NewString()[:8]

	src := &domain.Source{ID: uuid.NewString(), Name: "Telegram", Code: code, Active: true, CreatedAt: now}
	require.NoError(t, store.Sources.Create(ctx, src))

	dup := &domain.Source{ID: uuid.NewString(), Name: "Other", Code: code, Active: true, CreatedAt: now}
	require.ErrorIs(t, store.Sources.Create(ctx, dup), repository.ErrDuplicate)

	lead := &domain.Lead{ID: uuid.NewString(), ExternalID: "pg-" + uuid.NewString(), CreatedAt: now}
	require.NoError(t, store.Leads.Create(ctx, lead))
	contact := &domain.Contact{
		ID:        uuid.NewString(),
		LeadID:    lead.ID,
		SourceID:  src.ID,
		Status:    domain.ContactStatusNew,
		CreatedAt: now,
	}
	require.NoError(t, store.Contacts.Create(ctx, contact))

	require.ErrorIs(t, store.Sources.Delete(ctx, src.ID), repository.ErrReferenced)

	removed, err := store.Leads.DeleteUnused(ctx, lead.ID)
	require.NoError(t, err)
	require.False(t, removed)

	missing := &domain.Contact{
		ID:        uuid.NewString(),
		LeadID:    uuid.NewString(),
		SourceID:  src.ID,
		Status:    domain.ContactStatusNew,
		CreatedAt: now,
	}
	require.ErrorIs(t, store.Contacts.Create(ctx, missing), repository.ErrReferenced)
}
