package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the delivery pipeline.
type Metrics struct {
	// StreamLengths maps event stream name to the number of entries in the stream
	StreamLengths map[string]int64 `json:"stream_lengths"`

	// OutcomeCounts maps delivery outcome to the number of recorded history items
	OutcomeCounts map[string]int64 `json:"outcome_counts"`

	// Throughput represents successful deliveries per time window
	Throughput ThroughputMetrics `json:"throughput"`

	// Consumers maps stream name to list of active feed consumers
	Consumers map[string][]ConsumerInfo `json:"consumers"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// ThroughputMetrics represents successful deliveries over different time windows.
type ThroughputMetrics struct {
	LastMinute         int64 `json:"last_minute"`
	LastFiveMinutes    int64 `json:"last_five_minutes"`
	LastFifteenMinutes int64 `json:"last_fifteen_minutes"`
}

// Add counts an item created at createdAt into the windows ending at now
func (t *ThroughputMetrics) Add(createdAt, now time.Time) {
	age := now.Sub(createdAt)
	if age > 15*time.Minute {
		return
	}
	t.LastFifteenMinutes++
	if age <= 5*time.Minute {
		t.LastFiveMinutes++
	}
	if age <= time.Minute {
		t.LastMinute++
	}
}

// ConsumerInfo represents an active event feed consumer.
type ConsumerInfo struct {
	ConsumerID    string    `json:"consumer_id"`
	Stream        string    `json:"stream"`
	Status        string    `json:"status"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
}

// Collector defines the interface for collecting metrics from backing stores.
type Collector interface {
	// Collect gathers current metrics from the system
	Collect(ctx context.Context) (Metrics, error)

	// GetStreamLengths returns the number of entries per event stream
	GetStreamLengths(ctx context.Context) (map[string]int64, error)

	// GetOutcomeCounts returns the count of history items by outcome
	GetOutcomeCounts(ctx context.Context) (map[string]int64, error)

	// GetThroughput returns successful deliveries over time windows
	GetThroughput(ctx context.Context) (ThroughputMetrics, error)

	// GetActiveConsumers returns the consumers with a live heartbeat per stream
	GetActiveConsumers(ctx context.Context) (map[string][]ConsumerInfo, error)
}
