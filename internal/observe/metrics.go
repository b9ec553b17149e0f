// Package observe provides the visualizer's OpenTelemetry metrics and the
// Prometheus exporter bridge that serves them.
//
// Tests should build [Metrics] with [NewMetrics] and a ManualReader-backed
// meter provider instead of the global provider.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all metrics.
const meterName = "github.com/iburimskiy/pipeline-visualization"

// Metrics holds the metric instruments for the tick loop and live capture.
type Metrics struct {
	// Frames counts ticks produced, by dashboard.
	Frames metric.Int64Counter

	// TickDuration tracks time spent generating and rendering one frame.
	TickDuration metric.Float64Histogram

	// Commands counts render commands emitted, by dashboard and target.
	Commands metric.Int64Counter

	// Running is 1 while a dashboard's Frame Clock is running.
	Running metric.Int64UpDownCounter
}

// tickBuckets are histogram boundaries (seconds) around the 50ms frame budget.
var tickBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25,
}

// NewMetrics creates the instruments using mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Frames, err = m.Int64Counter("pipelineviz.frames",
		metric.WithDescription("Frames produced by the Frame Clock."),
	); err != nil {
		return nil, err
	}
	if met.TickDuration, err = m.Float64Histogram("pipelineviz.tick.duration",
		metric.WithDescription("Time to generate and render one frame."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(tickBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Commands, err = m.Int64Counter("pipelineviz.render.commands",
		metric.WithDescription("Render commands emitted by target."),
	); err != nil {
		return nil, err
	}
	if met.Running, err = m.Int64UpDownCounter("pipelineviz.running",
		metric.WithDescription("1 while the dashboard is running."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// RecordTick records one produced frame.
func (m *Metrics) RecordTick(ctx context.Context, dashboard string, d time.Duration, targets []string) {
	attrs := metric.WithAttributes(attribute.String("dashboard", dashboard))
	m.Frames.Add(ctx, 1, attrs)
	m.TickDuration.Record(ctx, d.Seconds(), attrs)
	for _, t := range targets {
		m.Commands.Add(ctx, 1, metric.WithAttributes(
			attribute.String("dashboard", dashboard),
			attribute.String("target", t),
		))
	}
}

// RecordRunning records a RUNNING/NOT_RUNNING transition.
func (m *Metrics) RecordRunning(ctx context.Context, dashboard string, running bool) {
	delta := int64(-1)
	if running {
		delta = 1
	}
	m.Running.Add(ctx, delta, metric.WithAttributes(attribute.String("dashboard", dashboard)))
}

// QueueStats is the view of a capture queue observed by [ObserveQueue].
type QueueStats interface {
	Len() int
	Pushed() int64
	Dropped() int64
}

// ObserveQueue registers asynchronous instruments reporting q's depth and
// its accepted and dropped chunk totals.
func ObserveQueue(mp metric.MeterProvider, q QueueStats) error {
	m := mp.Meter(meterName)

	depth, err := m.Int64ObservableGauge("pipelineviz.capture.queue_depth",
		metric.WithDescription("Chunks waiting in the live capture queue."),
	)
	if err != nil {
		return err
	}
	pushed, err := m.Int64ObservableCounter("pipelineviz.capture.chunks",
		metric.WithDescription("Capture chunks accepted by the queue."),
	)
	if err != nil {
		return err
	}
	dropped, err := m.Int64ObservableCounter("pipelineviz.capture.dropped",
		metric.WithDescription("Capture chunks dropped because the queue was full."),
	)
	if err != nil {
		return err
	}

	_, err = m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(depth, int64(q.Len()))
		o.ObserveInt64(pushed, q.Pushed())
		o.ObserveInt64(dropped, q.Dropped())
		return nil
	}, depth, pushed, dropped)
	return err
}
