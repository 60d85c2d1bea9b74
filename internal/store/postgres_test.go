//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"welcomeBot/internal/jsonvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func setupPostgres(t *testing.T) *PostgresStore {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("welcome_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		postgres.BasicWaitStrategies(),
		testcontainers.WithLabels(map[string]string{
			"test":      "welcome-store",
			"test-name": t.Name(),
		}),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate test container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := Open(ctx, Options{Backend: BackendPostgres, PostgresURL: connStr})
	require.NoError(t, err)
	t.Cleanup(func() { s.(*PostgresStore).Close() })

	return s.(*PostgresStore)
}

func TestPostgresStore(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	missing, err := s.LoadGuild(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	payload, err := jsonvalue.Parse([]byte(`{"content": "hi {user}"}`))
	require.NoError(t, err)

	require.NoError(t, s.SaveGuild(ctx, "1", &GuildConfig{
		ChannelID: int64Ptr(42),
		EmbedData: &payload,
		Theme:     &Theme{Primary: 255},
	}))

	got, err := s.LoadGuild(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(42), *got.ChannelID)
	assert.Nil(t, got.RoleID)
	assert.Equal(t, jsonText(t, payload), jsonText(t, *got.EmbedData))
	assert.Equal(t, int64(255), got.Theme.Primary)

	require.NoError(t, s.Save(ctx, Guilds{"2": {Theme: &Theme{Primary: 2}}}))
	guilds, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, guilds, 1)
	assert.Contains(t, guilds, "2")

	// Migrations are idempotent.
	require.NoError(t, RunMigrations(mustConnString(t, s)))
}

func mustConnString(t *testing.T, s *PostgresStore) string {
	t.Helper()
	return s.pool.Config().ConnString()
}

func backendCount(ctx context.Context, s *PostgresStore) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM pg_stat_activity WHERE datname = current_database()`).Scan(&n)
	return n, err
}

func TestNewMigrateClosesConnectionOnSourceError(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	before, err := backendCount(ctx, s)
	require.NoError(t, err)

	_, err = newMigrateFrom(mustConnString(t, s), migrationsFS, "missing")
	require.Error(t, err)

	assert.Eventually(t, func() bool {
		n, err := backendCount(ctx, s)
		return err == nil && n <= before
	}, 5*time.Second, 100*time.Millisecond)
}

func TestMigrateDownAndStatus(t *testing.T) {
	s := setupPostgres(t)
	connStr := mustConnString(t, s)

	require.NoError(t, MigrateStatus(connStr))
	require.NoError(t, MigrateDown(connStr, 1))
	require.NoError(t, MigrateStatus(connStr))
	require.NoError(t, RunMigrations(connStr))
}
