package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/marcelsud/webhook-notifier/history"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of history.Repository
 * Items are JSON documents in hashes; sorted sets scored by creation time index them
 * per config and per owning project
 */

const (
	itemPrefix    = "history:item"    // Hash naming: history:item:{id}
	configPrefix  = "history:config"  // Sorted set naming: history:config:{config_id}
	projectPrefix = "history:project" // Sorted set naming: history:project:{project_id}
)

type Repository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRepository creates a new Redis history repository
func NewRepository(addr, password string, db int) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Repository{
		client: client,
	}, nil
}

/* WithRetention expires items after ttl
 * Index entries of expired items are dropped lazily when listing
 */
func (r *Repository) WithRetention(ttl time.Duration) *Repository {
	r.ttl = ttl
	return r
}

/* Append stores an item and indexes it in one MULTI/EXEC; an existing id is rejected
 * The item key is watched so a concurrent append of the same id aborts the transaction
 */
func (r *Repository) Append(ctx context.Context, item history.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshaling history item: %w", err)
	}

	key := itemKey(item.ID)
	score := float64(item.CreatedAt.UnixNano())
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("checking history item: %w", err)
		}
		if exists > 0 {
			return fmt.Errorf("history item %s already recorded", item.ID)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, map[string]interface{}{
				"data":       data,
				"config_id":  item.ConfigID,
				"project_id": item.ProjectID,
				"outcome":    item.Stats.Outcome.String(),
				"created_at": item.CreatedAt.Unix(),
			})
			pipe.ZAdd(ctx, configKey(item.ConfigID), redis.Z{Score: score, Member: item.ID})
			pipe.ZAdd(ctx, projectKey(item.ProjectID), redis.Z{Score: score, Member: item.ID})
			if r.ttl > 0 {
				pipe.Expire(ctx, key, r.ttl)
			}
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("history item %s already recorded", item.ID)
	}
	if err != nil {
		return fmt.Errorf("storing history item: %w", err)
	}

	return nil
}

// Get retrieves an item by ID
func (r *Repository) Get(ctx context.Context, id string) (history.Item, error) {
	data, err := r.client.HGet(ctx, itemKey(id), "data").Result()
	if errors.Is(err, redis.Nil) {
		return history.Item{}, fmt.Errorf("%w: %s", history.ErrNotFound, id)
	}
	if err != nil {
		return history.Item{}, fmt.Errorf("getting history item: %w", err)
	}
	return decode(data)
}

// ListByConfig returns items for a config, newest first
func (r *Repository) ListByConfig(ctx context.Context, configID string, limit int) ([]history.Item, error) {
	return r.list(ctx, configKey(configID), limit)
}

// ListByProject returns items for configs owned by a project, newest first
func (r *Repository) ListByProject(ctx context.Context, projectID string, limit int) ([]history.Item, error) {
	return r.list(ctx, projectKey(projectID), limit)
}

/* list pages through the index newest first until limit live items are found
 * Members whose item hash expired are skipped and removed from the index afterwards
 */
func (r *Repository) list(ctx context.Context, indexKey string, limit int) ([]history.Item, error) {
	items := []history.Item{}
	var expired []interface{}

	for start := int64(0); ; {
		stop := int64(-1)
		if limit > 0 {
			stop = start + int64(limit-len(items)) - 1
		}

		ids, err := r.client.ZRevRange(ctx, indexKey, start, stop).Result()
		if err != nil {
			return nil, fmt.Errorf("reading history index: %w", err)
		}

		page, gone, err := r.fetch(ctx, ids)
		if err != nil {
			return nil, err
		}
		items = append(items, page...)
		expired = append(expired, gone...)

		if stop < 0 || len(gone) == 0 || int64(len(ids)) < stop-start+1 {
			break
		}
		start += int64(len(ids))
	}

	if len(expired) > 0 {
		r.client.ZRem(ctx, indexKey, expired...)
	}

	return items, nil
}

// fetch loads the items behind ids, returning the ids whose hash no longer exists
func (r *Repository) fetch(ctx context.Context, ids []string) ([]history.Item, []interface{}, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}

	cmds := make([]*redis.StringCmd, len(ids))
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGet(ctx, itemKey(id), "data")
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, nil, fmt.Errorf("reading history items: %w", err)
	}

	items := make([]history.Item, 0, len(ids))
	var expired []interface{}
	for i, cmd := range cmds {
		data, err := cmd.Result()
		if errors.Is(err, redis.Nil) {
			expired = append(expired, ids[i])
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading history item: %w", err)
		}
		item, err := decode(data)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, item)
	}
	return items, expired, nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}

// GetClient returns the underlying Redis client for advanced operations
func (r *Repository) GetClient() *redis.Client {
	return r.client
}

// Helper functions

func decode(data string) (history.Item, error) {
	var item history.Item
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		return history.Item{}, fmt.Errorf("unmarshaling history item: %w", err)
	}
	return item, nil
}

func itemKey(id string) string {
	return fmt.Sprintf("%s:%s", itemPrefix, id)
}

func configKey(configID string) string {
	return fmt.Sprintf("%s:%s", configPrefix, configID)
}

func projectKey(projectID string) string {
	return fmt.Sprintf("%s:%s", projectPrefix, projectID)
}
