package dashboard

import (
	"context"
	"time"

	"github.com/iburimskiy/pipeline-visualization/internal/observe"
	"github.com/iburimskiy/pipeline-visualization/internal/render"
)

// Run is the headless scheduler loop: it steps b on every tick of a
// time.Ticker with the given interval and hands the commands to sink, until
// ctx is cancelled. Start the board before calling Run so the first ticker
// deadline is never earlier than the Frame Clock's.
func Run(ctx context.Context, b Board, sink render.Sink, interval time.Duration) error {
	step := func() {
		if frame, cmds, ok := b.Step(time.Now()); ok {
			sink.Render(frame, cmds)
		}
	}

	step()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			step()
		}
	}
}

// instrumented decorates a Board with metrics.
type instrumented struct {
	Board
	name    string
	metrics *observe.Metrics
}

// Instrument returns b recording frames, tick durations and running state
// into m under the given dashboard name.
func Instrument(b Board, name string, m *observe.Metrics) Board {
	return &instrumented{Board: b, name: name, metrics: m}
}

func (b *instrumented) Start(now time.Time) {
	if b.Board.Running() {
		return
	}
	b.Board.Start(now)
	b.metrics.RecordRunning(context.Background(), b.name, true)
}

func (b *instrumented) Stop() {
	if !b.Board.Running() {
		return
	}
	b.Board.Stop()
	b.metrics.RecordRunning(context.Background(), b.name, false)
}

func (b *instrumented) Step(now time.Time) (uint64, []render.Command, bool) {
	start := time.Now()
	frame, cmds, ok := b.Board.Step(now)
	if ok {
		targets := make([]string, len(cmds))
		for i, c := range cmds {
			targets[i] = string(c.Target())
		}
		b.metrics.RecordTick(context.Background(), b.name, time.Since(start), targets)
	}
	return frame, cmds, ok
}
