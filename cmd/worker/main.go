package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog"
	"github.com/google/uuid"
	"github.com/marcelsud/webhook-notifier/config"
	eventredis "github.com/marcelsud/webhook-notifier/event/redis"
	"github.com/marcelsud/webhook-notifier/internal/app"
)

const heartbeatInterval = 15 * time.Second

/* worker consumes build events from a Redis stream and dispatches them
 * Several workers may share the consumer group; each entry is handled by one of them
 */

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	logger := httplog.NewLogger("webhook-notifier-worker", httplog.Options{
		JSON: true,
	})

	a, err := app.New(cfg, logger, app.WithRedis())
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	consumer := cfg.ConsumerName
	if consumer == "" {
		host, _ := os.Hostname()
		consumer = fmt.Sprintf("%s-%s", host, uuid.NewString()[:8])
	}

	feed := eventredis.NewFeed(a.Redis, cfg.EventStream, cfg.ConsumerGroup, consumer, logger)
	go feed.RunHeartbeat(ctx, heartbeatInterval, func() string { return "consuming" })

	logger.Info().
		Str("stream", cfg.EventStream).
		Str("group", cfg.ConsumerGroup).
		Str("consumer", consumer).
		Str("mode", a.Dispatcher.Mode().String()).
		Msg("Worker started")

	if err := a.Dispatcher.Run(ctx, feed); err != nil && ctx.Err() == nil {
		return fmt.Errorf("consuming events: %w", err)
	}

	logger.Info().Msg("Worker stopped")
	return nil
}
