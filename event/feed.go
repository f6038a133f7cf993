package event

import (
	"context"
	"fmt"
)

// Handler consumes one event
type Handler func(ctx context.Context, ev Event) error

/* Feed is the abstract source of inbound events
 * Subscribe blocks, calling h for every event, until ctx is cancelled
 */
type Feed interface {
	Subscribe(ctx context.Context, h Handler) error
}

// ChannelFeed is an in-process Feed backed by a buffered channel
type ChannelFeed struct {
	events chan Event
}

// NewChannelFeed creates a feed with the given buffer size
func NewChannelFeed(buffer int) *ChannelFeed {
	return &ChannelFeed{
		events: make(chan Event, buffer),
	}
}

// Publish enqueues an event, blocking while the buffer is full
func (f *ChannelFeed) Publish(ctx context.Context, ev Event) error {
	if err := ev.Validate(); err != nil {
		return fmt.Errorf("validating event: %w", err)
	}
	select {
	case f.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe delivers published events to h until ctx is done
// Handler errors do not stop the feed
func (f *ChannelFeed) Subscribe(ctx context.Context, h Handler) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-f.events:
			_ = h(ctx, ev)
		}
	}
}
