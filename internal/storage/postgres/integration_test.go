//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/invitekeeper/internal/model"
	"github.com/dtroode/invitekeeper/internal/storage/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "invitekeeper_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/invitekeeper_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestBackend_Postgres(t *testing.T) {
	ctx := context.Background()

	var (
		b   *postgres.Backend
		err error
	)
	// the port opens before postgres accepts connections
	require.Eventually(t, func() bool {
		b, err = postgres.Open(ctx, dsn)
		return err == nil
	}, 30*time.Second, 500*time.Millisecond)
	t.Cleanup(func() { _ = b.Close() })

	require.NoError(t, b.Set(ctx, "invite_1", `{"id":"1"}`))
	require.NoError(t, b.Set(ctx, "invite_1", `{"id":"1","v":2}`))

	v, err := b.Get(ctx, "invite_1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1","v":2}`, v)

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"invite_1"}, keys)

	used, err := b.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len("invite_1")+len(`{"id":"1","v":2}`)), used)

	require.NoError(t, b.Remove(ctx, "invite_1"))
	_, err = b.Get(ctx, "invite_1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, b.Set(ctx, "auth_token", "t"))
	require.NoError(t, b.Clear(ctx))
	keys, err = b.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	// migrations are idempotent
	again, err := postgres.Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, again.Close())
}
