//go:build integration

package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer starts postgres and returns its connection string
func setupPostgresContainer(t *testing.T) string {
	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:13",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("could not start container: %s", err)
	}
	t.Cleanup(func() { postgresC.Terminate(ctx) })

	host, _ := postgresC.Host(ctx)
	port, _ := postgresC.MappedPort(ctx, "5432/tcp")

	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, port.Port())
}

func TestStateDBRoundTrip(t *testing.T) {
	connStr := setupPostgresContainer(t)
	logger := zerolog.Nop()
	ctx := context.Background()

	s, err := NewStateDB(ctx, connStr, &logger)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Migrate())
	// Running migrations twice is a no-op.
	require.NoError(t, s.Migrate())

	_, ok, err := s.Get(ctx, "persist:root")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "persist:root", []byte(`{"version":1}`)))
	require.NoError(t, s.Set(ctx, "persist:root", []byte(`{"version":1,"team":{"members":[]}}`)))

	got, ok, err := s.Get(ctx, "persist:root")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"version":1,"team":{"members":[]}}`, string(got))
}

func TestNewStateDBRequiresConnString(t *testing.T) {
	logger := zerolog.Nop()
	_, err := NewStateDB(context.Background(), "", &logger)
	assert.Error(t, err)
}
