package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STORAGE_DRIVER", "POSTGRES_DSN", "SQLITE_PATH", "DISTRIBUTION_LOCK_BACKEND",
		"EVENTS_BACKEND", "REDIS_DB", "DISTRIBUTION_RANDOM_SEED", "DISTRIBUTION_LOCK_TTL_MS",
		"HTTP_REQUEST_TIMEOUT_SECONDS", "APP_PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, StorageDriverSQLite, cfg.Storage.Driver)
	require.Equal(t, LockBackendLocal, cfg.Distribution.LockBackend)
	require.Equal(t, EventsBackendNone, cfg.Events.Backend)
	require.Equal(t, uint64(0), cfg.Distribution.RandomSeed)
	require.Equal(t, 5*time.Second, cfg.Distribution.LockTTL())
	require.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	require.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	require.False(t, cfg.UsesRedis())
}

func TestLoadPicksPostgresWhenDSNSet(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTGRES_DSN", "postgres://localhost/leads")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
}

func TestLoadRedisBackends(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISTRIBUTION_LOCK_BACKEND", "Redis")
	t.Setenv("DISTRIBUTION_LOCK_TTL_MS", "250")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.UsesRedis())
	require.Equal(t, 250*time.Millisecond, cfg.Distribution.LockTTL())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"driver":       {"STORAGE_DRIVER", "mysql"},
		"postgres dsn": {"STORAGE_DRIVER", "postgres"},
		"lock backend": {"DISTRIBUTION_LOCK_BACKEND", "etcd"},
		"events":       {"EVENTS_BACKEND", "kafka"},
		"redis db":     {"REDIS_DB", "x"},
		"seed":         {"DISTRIBUTION_RANDOM_SEED", "-1"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			require.Error(t, err)
		})
	}
}
