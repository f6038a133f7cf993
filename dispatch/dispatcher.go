package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/marcelsud/webhook-notifier/event"
	"github.com/marcelsud/webhook-notifier/history"
	"github.com/marcelsud/webhook-notifier/payload"
	"github.com/marcelsud/webhook-notifier/settings"
	"github.com/marcelsud/webhook-notifier/webhook"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidEvent is returned for events that cannot be dispatched
var ErrInvalidEvent = errors.New("invalid event")

// DefaultEventConcurrency is the number of feed events Run dispatches at once
const DefaultEventConcurrency = 8

// ConfigResolver resolves the configs applicable to a project
type ConfigResolver interface {
	Resolve(ctx context.Context, projectID string) ([]settings.Resolved, error)
}

// PayloadBuilder produces a ready to send delivery
type PayloadBuilder interface {
	Build(wh webhook.WebHook, resolved settings.Resolved, ev event.Event, override payload.Override) (webhook.WebHook, error)
}

// Poster performs the delivery
type Poster interface {
	Post(ctx context.Context, wh *webhook.WebHook) error
}

// HistoryRecorder persists the outcome of an attempt
type HistoryRecorder interface {
	Record(ctx context.Context, resolved settings.Resolved, stats webhook.ExecutionStats, ev event.Event, errStatus *history.ErrorStatus) (history.Item, error)
}

// Observer is notified of every recorded history item
type Observer interface {
	Observe(ctx context.Context, item history.Item)
}

/* Dispatcher runs the resolve, build, deliver, record pipeline for one event
 * Every resolved config is processed independently: a failure or panic in one
 * config's pipeline is recorded and never stops the others
 */
type Dispatcher struct {
	resolver    ConfigResolver
	builder     PayloadBuilder
	poster      Poster
	recorder    HistoryRecorder
	observers   []Observer
	mode        Mode
	parallelism int
	events      int
	log         zerolog.Logger
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithParallelism bounds the number of configs delivered concurrently for one event
func WithParallelism(n int) Option {
	return func(d *Dispatcher) {
		d.mode = NewMode(n)
		d.parallelism = max(n, 1)
	}
}

// WithEventConcurrency bounds the number of feed events Run dispatches concurrently
func WithEventConcurrency(n int) Option {
	return func(d *Dispatcher) { d.events = max(n, 1) }
}

// WithObserver registers an observer for recorded items
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observers = append(d.observers, o) }
}

// New creates a new dispatcher
func New(resolver ConfigResolver, builder PayloadBuilder, poster Poster, recorder HistoryRecorder, log zerolog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		resolver:    resolver,
		builder:     builder,
		poster:      poster,
		recorder:    recorder,
		mode:        Sequential,
		parallelism: 1,
		events:      DefaultEventConcurrency,
		log:         log.With().Str("component", "dispatcher").Logger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Mode returns the configured dispatch mode
func (d *Dispatcher) Mode() Mode {
	return d.mode
}

// Dispatch delivers ev to every applicable config
// Only invalid input is reported as an error, never a delivery outcome
func (d *Dispatcher) Dispatch(ctx context.Context, ev event.Event) error {
	_, err := d.DispatchWithOverride(ctx, ev, payload.NoOverride)
	return err
}

// DispatchWithOverride is Dispatch with an explicit enablement override, returning one result per config
func (d *Dispatcher) DispatchWithOverride(ctx context.Context, ev event.Event, override payload.Override) ([]Result, error) {
	if err := ev.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	resolved, err := d.resolver.Resolve(ctx, ev.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("resolving webhooks for project %s: %w", ev.ProjectID, err)
	}

	log := d.log.With().
		Str("event_kind", ev.Kind.String()).
		Str("project_id", ev.ProjectID).
		Logger()
	log.Debug().Int("configs", len(resolved)).Str("mode", d.mode.String()).Msg("Dispatching event")

	// a started delivery is never cut short by the caller going away
	ctx = context.WithoutCancel(ctx)

	results := make([]Result, len(resolved))
	if d.mode == Sequential || len(resolved) < 2 {
		for i, r := range resolved {
			results[i] = d.deliver(ctx, ev, r, override)
		}
		return results, nil
	}

	var g errgroup.Group
	g.SetLimit(d.parallelism)
	for i, r := range resolved {
		g.Go(func() error {
			results[i] = d.deliver(ctx, ev, r, override)
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

/* Run dispatches every event of the feed until ctx is cancelled
 * Events are handed to a bounded pool so a slow endpoint only holds up its own event.
 * Run returns once the feed stops and every started event has been recorded
 */
func (d *Dispatcher) Run(ctx context.Context, feed event.Feed) error {
	var g errgroup.Group
	g.SetLimit(d.events)

	err := feed.Subscribe(ctx, func(ctx context.Context, ev event.Event) error {
		g.Go(func() error {
			if err := d.Dispatch(ctx, ev); err != nil {
				d.log.Warn().Err(err).
					Str("event_kind", ev.Kind.String()).
					Str("project_id", ev.ProjectID).
					Msg("Event not dispatched")
			}
			return nil
		})
		return nil
	})
	_ = g.Wait()
	return err
}

func (d *Dispatcher) deliver(ctx context.Context, ev event.Event, resolved settings.Resolved, override payload.Override) Result {
	wh := webhook.New(resolved.Config.URL)
	log := d.log.With().
		Str("tracking_id", wh.Stats.TrackingID.String()).
		Str("config_id", resolved.Config.ID).
		Logger()

	deliveryErr := d.attempt(ctx, &wh, resolved, ev, override)
	if deliveryErr != nil && webhook.ErrorCode(deliveryErr) == webhook.ErrorCodeUnexpected {
		log.Error().Err(deliveryErr).Msg("Unexpected delivery failure")
	}

	item, err := d.record(ctx, resolved, wh.Stats, ev, history.NewErrorStatus(deliveryErr))
	if err != nil {
		log.Error().Err(err).Msg("Recording history")
		return Result{Kind: Failed, Config: resolved, Stats: wh.Stats, Err: errors.Join(deliveryErr, err)}
	}

	for _, o := range d.observers {
		d.observe(ctx, o, item, log)
	}

	return newResult(resolved, item, deliveryErr)
}

// attempt builds and posts wh, converting panics and unclassified errors into UnexpectedError
func (d *Dispatcher) attempt(ctx context.Context, wh *webhook.WebHook, resolved settings.Resolved, ev event.Event, override payload.Override) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = webhook.NewUnexpectedError(r)
		}
		if err != nil && !wh.Stats.Errored {
			err = classify(err)
			wh.Stats.Fail(outcomeOf(err), err)
		}
	}()

	built, err := d.builder.Build(*wh, resolved, ev, override)
	if err != nil {
		return fmt.Errorf("building payload: %w", err)
	}
	*wh = built

	return d.poster.Post(ctx, wh)
}

func (d *Dispatcher) record(ctx context.Context, resolved settings.Resolved, stats webhook.ExecutionStats, ev event.Event, errStatus *history.ErrorStatus) (item history.Item, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = webhook.NewUnexpectedError(r)
		}
	}()
	return d.recorder.Record(ctx, resolved, stats, ev, errStatus)
}

func (d *Dispatcher) observe(ctx context.Context, o Observer, item history.Item, log zerolog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Err(webhook.NewUnexpectedError(r)).Str("item_id", item.ID).Msg("Observer panicked")
		}
	}()
	o.Observe(ctx, item)
}

func classify(err error) error {
	var (
		execErr    *webhook.ExecutionError
		respErr    *webhook.ResponseError
		unexpected *webhook.UnexpectedError
	)
	if errors.As(err, &execErr) || errors.As(err, &respErr) || errors.As(err, &unexpected) {
		return err
	}
	return webhook.NewUnexpectedError(err)
}

func outcomeOf(err error) webhook.Outcome {
	switch webhook.ErrorClass(err) {
	case webhook.ClassExecution:
		return webhook.TransportError
	case webhook.ClassResponse:
		return webhook.HTTPError
	}
	return webhook.Unexpected
}

// UseCase is the dispatching surface used by the transport layers
type UseCase interface {
	Dispatch(ctx context.Context, ev event.Event) error
	DispatchWithOverride(ctx context.Context, ev event.Event, override payload.Override) ([]Result, error)
}

var _ UseCase = (*Dispatcher)(nil)
