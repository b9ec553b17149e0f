// Package capture moves live audio from a background producer into the tick
// loop through a bounded, lossy queue.
package capture

import (
	"sync/atomic"

	"github.com/go-audio/audio"
)

// Queue is a bounded FIFO of mono capture chunks. Both ends are non-blocking:
// a push into a full queue drops the chunk and a pop from an empty queue
// reports ok=false. Safe for one producer and one consumer running concurrently.
type Queue struct {
	ch      chan *audio.FloatBuffer
	pushed  atomic.Int64
	dropped atomic.Int64
}

// NewQueue returns a queue holding at most size chunks. Sizes below one are
// raised to one.
func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{ch: make(chan *audio.FloatBuffer, size)}
}

// TryPush enqueues buf if there is room and reports whether it was accepted.
// It never blocks.
func (q *Queue) TryPush(buf *audio.FloatBuffer) bool {
	select {
	case q.ch <- buf:
		q.pushed.Add(1)
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// TryPop dequeues the oldest chunk, or returns ok=false when the queue is empty.
// It never blocks.
func (q *Queue) TryPop() (*audio.FloatBuffer, bool) {
	select {
	case buf := <-q.ch:
		return buf, true
	default:
		return nil, false
	}
}

// Drain discards every queued chunk.
func (q *Queue) Drain() {
	for {
		if _, ok := q.TryPop(); !ok {
			return
		}
	}
}

// Len returns the number of queued chunks.
func (q *Queue) Len() int { return len(q.ch) }

// Cap returns the queue bound.
func (q *Queue) Cap() int { return cap(q.ch) }

// Pushed returns the number of chunks accepted so far.
func (q *Queue) Pushed() int64 { return q.pushed.Load() }

// Dropped returns the number of chunks discarded because the queue was full.
func (q *Queue) Dropped() int64 { return q.dropped.Load() }
