package metrics

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	eventredis "github.com/marcelsud/webhook-notifier/event/redis"
	"github.com/marcelsud/webhook-notifier/webhook"
	"github.com/redis/go-redis/v9"
)

// RedisCollector implements the Collector interface over the Redis history store and event streams
type RedisCollector struct {
	client  *redis.Client
	streams []string
	now     func() time.Time
}

// NewRedisCollector creates a new Redis metrics collector
func NewRedisCollector(client *redis.Client, streams ...string) *RedisCollector {
	return &RedisCollector{
		client:  client,
		streams: streams,
		now:     time.Now,
	}
}

// Collect gathers all metrics from Redis
func (c *RedisCollector) Collect(ctx context.Context) (Metrics, error) {
	streamLengths, err := c.GetStreamLengths(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting stream lengths: %w", err)
	}

	outcomeCounts, err := c.GetOutcomeCounts(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting outcome counts: %w", err)
	}

	throughput, err := c.GetThroughput(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting throughput: %w", err)
	}

	consumers, err := c.GetActiveConsumers(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting active consumers: %w", err)
	}

	return Metrics{
		StreamLengths: streamLengths,
		OutcomeCounts: outcomeCounts,
		Throughput:    throughput,
		Consumers:     consumers,
		Timestamp:     c.now(),
	}, nil
}

// GetStreamLengths returns the number of entries in each configured event stream
func (c *RedisCollector) GetStreamLengths(ctx context.Context) (map[string]int64, error) {
	lengths := make(map[string]int64, len(c.streams))
	for _, stream := range c.streams {
		length, err := c.client.XLen(ctx, stream).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			// Continue even if one stream fails
			continue
		}
		lengths[stream] = length
	}
	return lengths, nil
}

// GetOutcomeCounts returns counts of history items grouped by outcome
func (c *RedisCollector) GetOutcomeCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, o := range webhook.Outcomes() {
		counts[o.String()] = 0
	}

	err := c.scanItems(ctx, func(fields []interface{}) {
		if outcome, ok := fields[0].(string); ok {
			if _, known := counts[outcome]; known {
				counts[outcome]++
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// GetThroughput counts successful deliveries over different time windows
func (c *RedisCollector) GetThroughput(ctx context.Context) (ThroughputMetrics, error) {
	var throughput ThroughputMetrics
	now := c.now()

	err := c.scanItems(ctx, func(fields []interface{}) {
		outcome, ok1 := fields[0].(string)
		createdAtStr, ok2 := fields[1].(string)
		if !ok1 || !ok2 || outcome != webhook.Success.String() {
			return
		}
		createdAt, err := strconv.ParseInt(createdAtStr, 10, 64)
		if err != nil {
			return
		}
		throughput.Add(time.Unix(createdAt, 0), now)
	})
	if err != nil {
		return ThroughputMetrics{}, err
	}
	return throughput, nil
}

// GetActiveConsumers returns feed consumers grouped by stream
func (c *RedisCollector) GetActiveConsumers(ctx context.Context) (map[string][]ConsumerInfo, error) {
	heartbeats, err := eventredis.ActiveConsumers(ctx, c.client)
	if err != nil {
		return nil, err
	}

	consumers := make(map[string][]ConsumerInfo, len(heartbeats))
	for stream, hbs := range heartbeats {
		for _, hb := range hbs {
			consumers[stream] = append(consumers[stream], ConsumerInfo{
				ConsumerID:    hb.ConsumerID,
				Stream:        hb.Stream,
				Status:        hb.Status,
				LastHeartbeat: hb.LastHeartbeat,
			})
		}
	}
	return consumers, nil
}

// scanItems calls fn with the outcome and created_at fields of every history item hash
func (c *RedisCollector) scanItems(ctx context.Context, fn func(fields []interface{})) error {
	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, "history:item:*", 1000).Result()
		if err != nil {
			return fmt.Errorf("scanning history keys: %w", err)
		}

		pipe := c.client.Pipeline()
		cmds := make([]*redis.SliceCmd, 0, len(keys))
		for _, key := range keys {
			if strings.Count(key, ":") != 2 {
				continue
			}
			cmds = append(cmds, pipe.HMGet(ctx, key, "outcome", "created_at"))
		}
		if len(cmds) > 0 {
			if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
				return fmt.Errorf("executing pipeline: %w", err)
			}
		}

		for _, cmd := range cmds {
			fields, err := cmd.Result()
			if err != nil || len(fields) < 2 {
				continue
			}
			fn(fields)
		}

		cursor = nextCursor
		if cursor == 0 {
			return nil
		}
	}
}
