package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/marcelsud/webhook-notifier/history"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter records delivery metrics and exports them in Prometheus format
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	registry      *promclient.Registry
	collector     Collector

	meter                metric.Meter
	deliveries           metric.Int64Counter
	deliveryDuration     metric.Float64Histogram
	streamLengthGauge    metric.Int64ObservableGauge
	outcomeCountGauge    metric.Int64ObservableGauge
	throughputGauge      metric.Int64ObservableGauge
	activeConsumersGauge metric.Int64ObservableGauge
}

/* NewOTelExporter creates the exporter with its own Prometheus registry
 * collector may be nil, store backed gauges are then not registered
 */
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	meter := meterProvider.Meter(
		"webhook-notifier",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		registry:      registry,
		collector:     collector,
		meter:         meter,
	}

	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

func (oe *OTelExporter) registerInstruments() error {
	var err error

	oe.deliveries, err = oe.meter.Int64Counter(
		"webhook.deliveries",
		metric.WithDescription("Number of recorded delivery attempts"),
		metric.WithUnit("{deliveries}"),
	)
	if err != nil {
		return fmt.Errorf("creating deliveries counter: %w", err)
	}

	oe.deliveryDuration, err = oe.meter.Float64Histogram(
		"webhook.delivery.duration",
		metric.WithDescription("Duration of the HTTP request of sent deliveries"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("creating delivery duration histogram: %w", err)
	}

	if oe.collector == nil {
		return nil
	}

	oe.streamLengthGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.event_stream.length",
		metric.WithDescription("Number of entries in the event stream"),
		metric.WithUnit("{events}"),
		metric.WithInt64Callback(oe.observeStreamLengths),
	)
	if err != nil {
		return fmt.Errorf("creating stream length gauge: %w", err)
	}

	oe.outcomeCountGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.history.count",
		metric.WithDescription("Number of history items by outcome"),
		metric.WithUnit("{items}"),
		metric.WithInt64Callback(oe.observeOutcomeCounts),
	)
	if err != nil {
		return fmt.Errorf("creating outcome count gauge: %w", err)
	}

	oe.throughputGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.throughput",
		metric.WithDescription("Number of successful deliveries over time window"),
		metric.WithUnit("{deliveries}"),
		metric.WithInt64Callback(oe.observeThroughput),
	)
	if err != nil {
		return fmt.Errorf("creating throughput gauge: %w", err)
	}

	oe.activeConsumersGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.consumers.active",
		metric.WithDescription("Number of active event feed consumers per stream"),
		metric.WithUnit("{consumers}"),
		metric.WithInt64Callback(oe.observeActiveConsumers),
	)
	if err != nil {
		return fmt.Errorf("creating active consumers gauge: %w", err)
	}

	return nil
}

// Observe records one history item, satisfying the dispatcher observer hook
func (oe *OTelExporter) Observe(ctx context.Context, item history.Item) {
	attrs := []attribute.KeyValue{
		attribute.String("webhook.outcome", item.Stats.Outcome.String()),
		attribute.String("webhook.format", item.Format),
		attribute.String("event.kind", item.EventKind.String()),
	}
	if item.Error != nil {
		attrs = append(attrs, attribute.String("error.class", item.Error.Class))
	}
	oe.deliveries.Add(ctx, 1, metric.WithAttributes(attrs...))

	if elapsed := item.Stats.Elapsed(); elapsed > 0 {
		oe.deliveryDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
			attribute.String("webhook.outcome", item.Stats.Outcome.String()),
		))
	}
}

func (oe *OTelExporter) observeStreamLengths(ctx context.Context, observer metric.Int64Observer) error {
	lengths, err := oe.collector.GetStreamLengths(ctx)
	if err != nil {
		return err
	}

	for stream, length := range lengths {
		observer.Observe(length, metric.WithAttributes(
			attribute.String("stream", stream),
		))
	}

	return nil
}

func (oe *OTelExporter) observeOutcomeCounts(ctx context.Context, observer metric.Int64Observer) error {
	counts, err := oe.collector.GetOutcomeCounts(ctx)
	if err != nil {
		return err
	}

	for outcome, count := range counts {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("webhook.outcome", outcome),
		))
	}

	return nil
}

func (oe *OTelExporter) observeThroughput(ctx context.Context, observer metric.Int64Observer) error {
	throughput, err := oe.collector.GetThroughput(ctx)
	if err != nil {
		return err
	}

	observer.Observe(throughput.LastMinute, metric.WithAttributes(
		attribute.String("time.window", "1m"),
	))
	observer.Observe(throughput.LastFiveMinutes, metric.WithAttributes(
		attribute.String("time.window", "5m"),
	))
	observer.Observe(throughput.LastFifteenMinutes, metric.WithAttributes(
		attribute.String("time.window", "15m"),
	))

	return nil
}

func (oe *OTelExporter) observeActiveConsumers(ctx context.Context, observer metric.Int64Observer) error {
	consumers, err := oe.collector.GetActiveConsumers(ctx)
	if err != nil {
		return err
	}

	for stream, list := range consumers {
		observer.Observe(int64(len(list)), metric.WithAttributes(
			attribute.String("stream", stream),
		))
	}

	return nil
}

// ServeHTTP returns the handler serving Prometheus-formatted metrics
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.HandlerFor(oe.registry, promhttp.HandlerOpts{})
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
