package capture

import (
	"sync"

	"github.com/faiface/beep"
	"github.com/go-audio/audio"
)

// Tap wraps a beep.Streamer and forwards everything it streams to a [Queue]
// as mono chunks of a fixed block size. The Stream call happens on the
// speaker goroutine, so the tap is the capture producer; it never blocks on
// the queue.
type Tap struct {
	Source beep.Streamer

	queue  *Queue
	format *audio.Format

	mu    sync.Mutex
	block []float64
}

// NewTap returns a tap pushing blockSize-frame chunks at sampleRate into q.
func NewTap(src beep.Streamer, q *Queue, sampleRate, blockSize int) *Tap {
	if blockSize < 1 {
		blockSize = 1
	}
	return &Tap{
		Source: src,
		queue:  q,
		format: &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		block:  make([]float64, 0, blockSize),
	}
}

// Stream implements beep.Streamer.
func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.record(samples[:n])
	}
	return n, ok
}

// Err implements beep.Streamer.
func (t *Tap) Err() error { return t.Source.Err() }

func (t *Tap) record(samples [][2]float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, s := range samples {
		t.block = append(t.block, (s[0]+s[1])*0.5)
		if len(t.block) == cap(t.block) {
			data := make([]float64, len(t.block))
			copy(data, t.block)
			t.queue.TryPush(&audio.FloatBuffer{Format: t.format, Data: data})
			t.block = t.block[:0]
		}
	}
}
