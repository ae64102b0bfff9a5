//go:build integration

package oauthstate_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/stirlingv/honey-biz/internal/oauthstate"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	addr, err := container.PortEndpoint(ctx, "6379/tcp", "")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	store := oauthstate.NewStore(newRedis(t), time.Minute)

	state, err := store.Issue(ctx, "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, state)

	t.Run("wrong owner", func(t *testing.T) {
		other, err := store.Issue(ctx, "admin")
		require.NoError(t, err)
		assert.ErrorIs(t, store.Consume(ctx, other, "mallory"), oauthstate.ErrInvalidState)
	})

	t.Run("single use", func(t *testing.T) {
		require.NoError(t, store.Consume(ctx, state, "admin"))
		assert.ErrorIs(t, store.Consume(ctx, state, "admin"), oauthstate.ErrInvalidState)
	})

	t.Run("unknown state", func(t *testing.T) {
		assert.ErrorIs(t, store.Consume(ctx, "nope", "admin"), oauthstate.ErrInvalidState)
		assert.ErrorIs(t, store.Consume(ctx, "", "admin"), oauthstate.ErrInvalidState)
	})
}
