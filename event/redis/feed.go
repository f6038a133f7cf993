package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marcelsud/webhook-notifier/event"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

/* Redis Streams implementation of event.Feed
 * Events are JSON documents in stream entries, read through a consumer group
 * so several workers share one stream
 */

const (
	eventField   = "event"
	readCount    = 10
	defaultBlock = 1 * time.Second
	errorBackoff = 1 * time.Second
)

type Feed struct {
	client   *redis.Client
	stream   string
	group    string
	consumer string
	block    time.Duration
	log      zerolog.Logger
}

// NewFeed creates a feed reading stream as consumer within group
func NewFeed(client *redis.Client, stream, group, consumer string, log zerolog.Logger) *Feed {
	return &Feed{
		client:   client,
		stream:   stream,
		group:    group,
		consumer: consumer,
		block:    defaultBlock,
		log: log.With().
			Str("component", "event_feed").
			Str("stream", stream).
			Str("consumer", consumer).
			Logger(),
	}
}

// Publish validates an event and appends it to the stream
func (f *Feed) Publish(ctx context.Context, ev event.Event) (string, error) {
	if err := ev.Validate(); err != nil {
		return "", fmt.Errorf("validating event: %w", err)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return "", fmt.Errorf("marshaling event: %w", err)
	}

	id, err := f.client.XAdd(ctx, &redis.XAddArgs{
		Stream: f.stream,
		Values: map[string]interface{}{eventField: string(data)},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("adding to stream: %w", err)
	}
	return id, nil
}

/* Subscribe reads the stream until ctx is cancelled
 * Every entry is acknowledged once the handler returns: deliveries are single attempt,
 * and entries that cannot be decoded are acknowledged and dropped
 */
func (f *Feed) Subscribe(ctx context.Context, h event.Handler) error {
	if err := f.ensureGroup(ctx); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		streams, err := f.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    f.group,
			Consumer: f.consumer,
			Streams:  []string{f.stream, ">"},
			Count:    readCount,
			Block:    f.block,
		}).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			f.log.Error().Err(err).Msg("Reading from stream")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(errorBackoff):
			}
			continue
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				f.handle(ctx, msg, h)
			}
		}
	}
}

func (f *Feed) handle(ctx context.Context, msg redis.XMessage, h event.Handler) {
	log := f.log.With().Str("message_id", msg.ID).Logger()

	ev, err := decode(msg)
	if err != nil {
		log.Warn().Err(err).Msg("Dropping undecodable event")
	} else if err := h(ctx, ev); err != nil {
		log.Warn().Err(err).Str("project_id", ev.ProjectID).Msg("Event rejected by handler")
	}

	// ack even when the handler saw ctx cancelled
	if err := f.client.XAck(context.WithoutCancel(ctx), f.stream, f.group, msg.ID).Err(); err != nil {
		log.Error().Err(err).Msg("Acknowledging message")
	}
}

// Pending returns the number of entries delivered to the group but not yet acknowledged
func (f *Feed) Pending(ctx context.Context) (int64, error) {
	pending, err := f.client.XPending(ctx, f.stream, f.group).Result()
	if err != nil {
		return 0, fmt.Errorf("reading pending entries: %w", err)
	}
	return pending.Count, nil
}

func (f *Feed) ensureGroup(ctx context.Context) error {
	err := f.client.XGroupCreateMkStream(ctx, f.stream, f.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("creating consumer group: %w", err)
	}
	return nil
}

func decode(msg redis.XMessage) (event.Event, error) {
	raw, ok := msg.Values[eventField].(string)
	if !ok {
		return event.Event{}, fmt.Errorf("message has no %s field", eventField)
	}

	var ev event.Event
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		return event.Event{}, fmt.Errorf("unmarshaling event: %w", err)
	}
	return ev, nil
}
