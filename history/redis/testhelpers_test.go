//go:build integration

package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/marcelsud/webhook-notifier/history"
	"github.com/marcelsud/webhook-notifier/history/redis"
	"github.com/marcelsud/webhook-notifier/webhook"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	testcontainersredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// RedisContainer holds the Redis testcontainer and connection details
type RedisContainer struct {
	Container *testcontainersredis.RedisContainer
	Addr      string
}

// SetupRedisContainer creates and starts a Redis testcontainer
func SetupRedisContainer(t *testing.T, ctx context.Context) (*RedisContainer, func()) {
	t.Helper()

	redisContainer, err := testcontainersredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "failed to start Redis container")

	addr, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err, "failed to get Redis connection string")

	// Remove redis:// prefix if present
	if len(addr) > 8 && addr[:8] == "redis://" {
		addr = addr[8:]
	}

	rc := &RedisContainer{
		Container: redisContainer,
		Addr:      addr,
	}

	cleanup := func() {
		if err := redisContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Redis container: %v", err)
		}
	}

	return rc, cleanup
}

// CreateTestRepository creates a Redis history repository connected to the test container
func CreateTestRepository(t *testing.T, addr string) *redis.Repository {
	t.Helper()

	repo, err := redis.NewRepository(addr, "", 0)
	require.NoError(t, err, "failed to create Redis repository")

	return repo
}

// NewItem builds a history item recorded now
func NewItem(t *testing.T, index int, configID, projectID string) history.Item {
	t.Helper()

	stats := webhook.NewExecutionStats()
	stats.Outcome = webhook.Success
	stats.StatusCode = 200

	return history.Item{
		ID:        fmt.Sprintf("test-item-%d-%d", index, time.Now().UnixNano()),
		ConfigID:  configID,
		ProjectID: projectID,
		URL:       "https://hooks.example.com/" + configID,
		Format:    "jsonTemplate",
		Stats:     stats,
		CreatedAt: time.Now().UTC().Add(time.Duration(index) * time.Millisecond),
	}
}

// KeyTTL returns the TTL of a Redis key in seconds
func KeyTTL(t *testing.T, addr string, key string) int64 {
	t.Helper()

	client := goredis.NewClient(&goredis.Options{Addr: addr})
	defer client.Close()

	ttl, err := client.TTL(context.Background(), key).Result()
	require.NoError(t, err)

	return int64(ttl.Seconds())
}

// DropItem deletes an item hash, leaving its index entries behind as retention expiry does
func DropItem(t *testing.T, addr string, id string) {
	t.Helper()

	client := goredis.NewClient(&goredis.Options{Addr: addr})
	defer client.Close()

	require.NoError(t, client.Del(context.Background(), "history:item:"+id).Err())
}

// IndexSize returns the number of members of a history index
func IndexSize(t *testing.T, addr string, key string) int64 {
	t.Helper()

	client := goredis.NewClient(&goredis.Options{Addr: addr})
	defer client.Close()

	n, err := client.ZCard(context.Background(), key).Result()
	require.NoError(t, err)

	return n
}
