//go:build integration

package redis_test

import (
	"context"
	"testing"

	"github.com/marcelsud/webhook-notifier/event/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	testcontainersredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// SetupRedisClient starts a Redis testcontainer and returns a client connected to it
func SetupRedisClient(t *testing.T, ctx context.Context) (*goredis.Client, func()) {
	t.Helper()

	redisContainer, err := testcontainersredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "failed to start Redis container")

	addr, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err, "failed to get Redis connection string")

	opts, err := goredis.ParseURL(addr)
	require.NoError(t, err)
	client := goredis.NewClient(opts)

	cleanup := func() {
		client.Close()
		if err := redisContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Redis container: %v", err)
		}
	}

	return client, cleanup
}

// CreateTestFeed creates a feed on the given stream
func CreateTestFeed(t *testing.T, client *goredis.Client, stream, consumer string) *redis.Feed {
	t.Helper()
	return redis.NewFeed(client, stream, "test-group", consumer, zerolog.Nop())
}
