package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/marcelsud/webhook-notifier/config"
	"github.com/marcelsud/webhook-notifier/dispatch"
	"github.com/marcelsud/webhook-notifier/history"
	historypostgres "github.com/marcelsud/webhook-notifier/history/postgres"
	historyredis "github.com/marcelsud/webhook-notifier/history/redis"
	"github.com/marcelsud/webhook-notifier/metrics"
	"github.com/marcelsud/webhook-notifier/payload"
	"github.com/marcelsud/webhook-notifier/settings"
	"github.com/marcelsud/webhook-notifier/template"
	"github.com/marcelsud/webhook-notifier/webhook"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

/* App wires the delivery pipeline shared by every command
 * Imports go one way only: commands import App, App imports the domain packages and their stores
 */
type App struct {
	Config     *config.Config
	Settings   *settings.FileStore
	Templates  *template.Registry
	Formats    *payload.Manager
	History    history.Repository
	Dispatcher *dispatch.Dispatcher
	Metrics    *metrics.OTelExporter
	// Redis is set when a Redis backed component is configured
	Redis *redis.Client

	log zerolog.Logger
}

// Option customizes the wiring
type Option func(*options)

type options struct {
	metrics bool
	redis   bool
}

// WithMetrics enables the OTel exporter and observes every recorded item
func WithMetrics() Option {
	return func(o *options) { o.metrics = true }
}

// WithRedis connects a Redis client even when history does not live in Redis
func WithRedis() Option {
	return func(o *options) { o.redis = true }
}

// New loads settings and templates and builds the pipeline
func New(cfg *config.Config, log zerolog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{
		Config:    cfg,
		Settings:  settings.NewFileStore(),
		Templates: template.NewRegistry(),
		log:       log,
	}

	if err := a.Settings.Load(cfg.SettingsFile); err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if err := a.Templates.Load(cfg.TemplatesFile); err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	formats, err := payload.NewManager(payload.DefaultFormats()...)
	if err != nil {
		return nil, fmt.Errorf("registering payload formats: %w", err)
	}
	a.Formats = formats

	if err := a.openHistory(context.Background()); err != nil {
		return nil, err
	}

	if o.redis && a.Redis == nil {
		a.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}

	dispatchOpts := []dispatch.Option{
		dispatch.WithParallelism(cfg.DispatchParallelism),
		dispatch.WithEventConcurrency(cfg.EventConcurrency),
	}
	if o.metrics {
		var collector metrics.Collector
		if a.Redis != nil {
			collector = metrics.NewRedisCollector(a.Redis, cfg.EventStream)
		}
		exporter, err := metrics.NewOTelExporter(collector)
		if err != nil {
			return nil, fmt.Errorf("creating metrics exporter: %w", err)
		}
		a.Metrics = exporter
		dispatchOpts = append(dispatchOpts, dispatch.WithObserver(exporter))
	}

	builder := payload.NewBuilder(
		template.NewResolver(a.Templates, log),
		a.Formats,
		log,
		payload.WithRootURL(cfg.RootURL),
		payload.WithDateFormat(cfg.DateFormat),
		payload.WithProxyRule(cfg.ProxyFor),
	)

	a.Dispatcher = dispatch.New(
		settings.NewResolver(a.Settings, a.Settings, a.Formats, log),
		builder,
		webhook.NewExecutor(cfg.DeliveryTimeout(), log),
		history.NewRecorder(a.History, log),
		log,
		dispatchOpts...,
	)

	return a, nil
}

func (a *App) openHistory(ctx context.Context) error {
	cfg := a.Config
	switch cfg.HistoryBackend {
	case config.BackendRedis:
		repo, err := historyredis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("opening redis history: %w", err)
		}
		a.History = repo.WithRetention(cfg.HistoryRetention())
		a.Redis = repo.GetClient()
	case config.BackendPostgres:
		repo, err := historypostgres.NewRepository(cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("opening postgres history: %w", err)
		}
		if err := repo.CreateTable(ctx); err != nil {
			repo.Close(ctx)
			return fmt.Errorf("migrating postgres history: %w", err)
		}
		a.History = repo
	default:
		a.History = history.NewMemoryRepository()
	}
	a.log.Info().Str("backend", cfg.HistoryBackend).Msg("History store ready")
	return nil
}

// ReloadTemplates re-reads the templates file and swaps the registered set
// A file that fails validation leaves the current set in place
func (a *App) ReloadTemplates(context.Context) (int, error) {
	if err := a.Templates.Load(a.Config.TemplatesFile); err != nil {
		a.log.Error().Err(err).Str("file", a.Config.TemplatesFile).Msg("Reloading templates")
		return 0, err
	}
	a.log.Info().Int("templates", a.Templates.Len()).Msg("Templates reloaded")
	return a.Templates.Len(), nil
}

// ReloadSettings re-reads the settings file
func (a *App) ReloadSettings(context.Context) error {
	return a.Settings.Load(a.Config.SettingsFile)
}

// Close releases the stores
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Metrics != nil {
		errs = append(errs, a.Metrics.Shutdown(ctx))
	}
	if a.History != nil {
		errs = append(errs, a.History.Close(ctx))
	}
	if a.Redis != nil && a.Config.HistoryBackend != config.BackendRedis {
		errs = append(errs, a.Redis.Close())
	}
	return errors.Join(errs...)
}
