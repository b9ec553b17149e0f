package capture_test

import (
	"testing"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/pipeline-visualization/internal/capture"
)

// ramp streams left=i, right=-i+2 so the mono mix of frame i is 1.
func ramp() beep.Streamer {
	i := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for j := range samples {
			samples[j] = [2]float64{float64(i), 2 - float64(i)}
			i++
		}
		return len(samples), true
	})
}

func TestTap_ChunksMonoBlocks(t *testing.T) {
	q := capture.NewQueue(10)
	tap := capture.NewTap(ramp(), q, 8000, 4)

	buf := make([][2]float64, 10)
	n, ok := tap.Stream(buf)
	require.True(t, ok)
	require.Equal(t, 10, n)

	// 10 frames -> two full blocks of 4, 2 frames pending.
	assert.Equal(t, 2, q.Len())
	for i := 0; i < 2; i++ {
		chunk, ok := q.TryPop()
		require.True(t, ok)
		assert.Equal(t, []float64{1, 1, 1, 1}, chunk.Data)
		assert.Equal(t, 1, chunk.Format.NumChannels)
		assert.Equal(t, 8000, chunk.Format.SampleRate)
	}

	tap.Stream(make([][2]float64, 2))
	assert.Equal(t, 1, q.Len())
}

func TestTap_FullQueueDoesNotStallStream(t *testing.T) {
	q := capture.NewQueue(1)
	tap := capture.NewTap(ramp(), q, 8000, 2)

	n, ok := tap.Stream(make([][2]float64, 20))
	assert.True(t, ok)
	assert.Equal(t, 20, n, "the streamer keeps producing even when chunks are dropped")
	assert.Equal(t, int64(1), q.Pushed())
	assert.Equal(t, int64(9), q.Dropped())
}

func TestTap_PassesThroughErr(t *testing.T) {
	tap := capture.NewTap(ramp(), capture.NewQueue(1), 8000, 2)
	assert.NoError(t, tap.Err())
}
