package observe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestProvider returns a meter provider backed by a ManualReader for
// programmatic metric inspection.
func newTestProvider(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumInt64(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected Sum[int64], got %T", m.Data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestRecordTick(t *testing.T) {
	mp, reader := newTestProvider(t)
	m, err := NewMetrics(mp)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordTick(ctx, "key", 3*time.Millisecond, []string{"input", "keys"})
	m.RecordTick(ctx, "key", 4*time.Millisecond, []string{"input"})

	rm := collect(t, reader)
	assert.Equal(t, int64(2), sumInt64(t, findMetric(rm, "pipelineviz.frames")))
	assert.Equal(t, int64(3), sumInt64(t, findMetric(rm, "pipelineviz.render.commands")))

	h := findMetric(rm, "pipelineviz.tick.duration")
	require.NotNil(t, h)
	hist, ok := h.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
}

func TestRecordRunning(t *testing.T) {
	mp, reader := newTestProvider(t)
	m, err := NewMetrics(mp)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordRunning(ctx, "cart", true)
	m.RecordRunning(ctx, "cart", false)
	m.RecordRunning(ctx, "cart", true)

	rm := collect(t, reader)
	assert.Equal(t, int64(1), sumInt64(t, findMetric(rm, "pipelineviz.running")))
}

type fakeQueue struct {
	n       int
	pushed  int64
	dropped int64
}

func (q fakeQueue) Len() int       { return q.n }
func (q fakeQueue) Pushed() int64  { return q.pushed }
func (q fakeQueue) Dropped() int64 { return q.dropped }

func TestObserveQueue(t *testing.T) {
	mp, reader := newTestProvider(t)
	require.NoError(t, ObserveQueue(mp, fakeQueue{n: 3, pushed: 40, dropped: 7}))

	rm := collect(t, reader)
	assert.Equal(t, int64(40), sumInt64(t, findMetric(rm, "pipelineviz.capture.chunks")))
	assert.Equal(t, int64(7), sumInt64(t, findMetric(rm, "pipelineviz.capture.dropped")))

	depth := findMetric(rm, "pipelineviz.capture.queue_depth")
	require.NotNil(t, depth)
	gauge, ok := depth.Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(3), gauge.DataPoints[0].Value)
}
