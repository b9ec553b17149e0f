// Package dashboard holds the animated dashboards. Each dashboard is an
// explicit state struct and a pure tick function
//
//	Tick(state, now, env) -> (state', []render.Command)
//
// so the update logic can be tested without a graphics context. A [Board]
// owns one state on behalf of a UI: it applies control selections, starts and
// stops the Frame Clock, and steps the tick function.
package dashboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-audio/audio"

	"github.com/iburimskiy/pipeline-visualization/internal/render"
	"github.com/iburimskiy/pipeline-visualization/internal/synth"
)

// ErrUnknownControl is returned by [Board.Select] for a control the board does not have.
var ErrUnknownControl = errors.New("dashboard: unknown control")

// ErrUnknownOption is returned by [Board.Select] for an option index out of range.
// The previous selection is kept.
var ErrUnknownOption = errors.New("dashboard: unknown option")

// ChunkSource yields captured audio chunks without blocking.
type ChunkSource interface {
	TryPop() (*audio.FloatBuffer, bool)
}

// LiveInput is a background capture producer that can be switched on and off.
type LiveInput interface {
	Start() error
	Stop()
}

// Env carries the collaborators a tick may read from. Neither is part of the
// dashboard state.
type Env struct {
	// Rand provides visual texture only.
	Rand synth.Rand

	// Live is drained by the key dashboard when the live source is selected.
	// Nil means no live input is wired.
	Live ChunkSource
}

// Control is a selector shown by the UI.
type Control struct {
	Name     string
	Options  []string
	Selected int
}

// Board is a running dashboard as seen by a UI or the scheduler loop.
type Board interface {
	// Title is the window title.
	Title() string

	// Controls lists the selectors in display order.
	Controls() []Control

	// Select picks option of the named control. The change is visible from the
	// next tick on.
	Select(control string, option int) error

	Running() bool
	Start(now time.Time)
	Stop()

	// Step runs one tick at now. ok is false when no tick was due, in which
	// case cmds is empty.
	Step(now time.Time) (frame uint64, cmds []render.Command, ok bool)
}

// Toggle starts a stopped board and stops a running one.
func Toggle(b Board, now time.Time) {
	if b.Running() {
		b.Stop()
		return
	}
	b.Start(now)
}

// pick returns opts[i] or ErrUnknownOption.
func pick[T any](control string, opts []T, i int) (T, error) {
	var zero T
	if i < 0 || i >= len(opts) {
		return zero, fmt.Errorf("%w: %s has no option %d", ErrUnknownOption, control, i)
	}
	return opts[i], nil
}

// index returns the position of v in opts, or 0 when absent.
func index[T comparable](opts []T, v T) int {
	for i, o := range opts {
		if o == v {
			return i
		}
	}
	return 0
}
