package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	heartbeatPrefix = "consumer:heartbeat" // Key naming: consumer:heartbeat:{stream}:{consumer}
	heartbeatTTL    = 60 * time.Second
)

// ConsumerHeartbeat represents the heartbeat data for a feed consumer
type ConsumerHeartbeat struct {
	ConsumerID    string    `json:"consumer_id"`
	Stream        string    `json:"stream"`
	Status        string    `json:"status"` // "idle", "dispatching"
	LastHeartbeat time.Time `json:"last_heartbeat"`
}

// SetHeartbeat stores or updates the consumer's heartbeat
// The key expires after 60 seconds, a consumer silent for that long is considered inactive
func (f *Feed) SetHeartbeat(ctx context.Context, status string) error {
	heartbeat := ConsumerHeartbeat{
		ConsumerID:    f.consumer,
		Stream:        f.stream,
		Status:        status,
		LastHeartbeat: time.Now(),
	}

	data, err := json.Marshal(heartbeat)
	if err != nil {
		return fmt.Errorf("marshaling heartbeat: %w", err)
	}

	key := fmt.Sprintf("%s:%s:%s", heartbeatPrefix, f.stream, f.consumer)
	if err := f.client.Set(ctx, key, data, heartbeatTTL).Err(); err != nil {
		return fmt.Errorf("setting heartbeat: %w", err)
	}
	return nil
}

// RunHeartbeat refreshes the heartbeat every interval until ctx is cancelled
func (f *Feed) RunHeartbeat(ctx context.Context, interval time.Duration, status func() string) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := f.SetHeartbeat(ctx, status()); err != nil && ctx.Err() == nil {
			f.log.Warn().Err(err).Msg("Sending heartbeat")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ActiveConsumers retrieves all active consumers grouped by stream
func ActiveConsumers(ctx context.Context, client *redis.Client) (map[string][]ConsumerHeartbeat, error) {
	pattern := heartbeatPrefix + ":*"
	consumers := make(map[string][]ConsumerHeartbeat)

	var cursor uint64
	for {
		keys, nextCursor, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning consumer keys: %w", err)
		}

		for _, key := range keys {
			data, err := client.Get(ctx, key).Result()
			if errors.Is(err, redis.Nil) {
				// Key expired between scan and get
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("getting consumer heartbeat: %w", err)
			}

			var heartbeat ConsumerHeartbeat
			if err := json.Unmarshal([]byte(data), &heartbeat); err != nil {
				continue
			}

			consumers[heartbeat.Stream] = append(consumers[heartbeat.Stream], heartbeat)
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return consumers, nil
}
