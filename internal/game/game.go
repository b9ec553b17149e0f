// Package game is the ebiten window: a control bar driving a
// [dashboard.Board] and a grid of panels drawing the latest render command of
// each target.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/pipeline-visualization/internal/capture"
	"github.com/iburimskiy/pipeline-visualization/internal/config"
	"github.com/iburimskiy/pipeline-visualization/internal/dashboard"
	"github.com/iburimskiy/pipeline-visualization/internal/render"
)

// CaptureFile is the live input as seen by the "Open Capture" button.
type CaptureFile interface {
	SetPath(path string)
	Active() bool
	Start() error
}

// Game implements ebiten.Game and render.Sink.
type Game struct {
	board    dashboard.Board
	interval time.Duration
	capture  CaptureFile
	log      *slog.Logger

	// latest command per target and the frame it arrived on
	panels map[render.Target]render.Command
	seen   map[render.Target]uint64
	frame  uint64
	images map[render.Target]*ebiten.Image

	buttons []button
	hovered int
	pressed int

	// input edge detection
	prevKey map[ebiten.Key]bool

	colorPhase float64
	lastErr    error

	done <-chan struct{}
}

// New returns a window for b. capture may be nil when the dashboard has no
// live input.
func New(b dashboard.Board, interval time.Duration, capture CaptureFile) *Game {
	return &Game{
		board:    b,
		interval: interval,
		capture:  capture,
		log:      slog.With("sink", "window"),
		panels:   map[render.Target]render.Command{},
		seen:     map[render.Target]uint64{},
		images:   map[render.Target]*ebiten.Image{},
		hovered:  -1,
		pressed:  -1,
		prevKey:  map[ebiten.Key]bool{},
	}
}

// staleFrames is how long a panel survives without a command. It covers the
// slowest panel refresh; panels hidden by a view change drop out after it.
const staleFrames = 4

// Render implements render.Sink. Targets absent from cmds keep their last
// drawing, so panels refreshed at a lower rate stay on screen.
func (g *Game) Render(frame uint64, cmds []render.Command) {
	g.frame = frame
	for _, c := range cmds {
		g.panels[c.Target()] = c
		g.seen[c.Target()] = frame
	}
	for t, f := range g.seen {
		if frame-f > staleFrames {
			delete(g.panels, t)
			delete(g.seen, t)
		}
	}
}

// Update handles input and steps the board.
func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	g.buttons = g.layoutButtons()
	mouseX, mouseY := ebiten.CursorPosition()
	g.hovered = buttonAt(g.buttons, mouseX, mouseY)

	if g.hovered >= 0 && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.pressed = g.hovered
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if g.pressed >= 0 && g.pressed == g.hovered {
			g.lastErr = g.buttons[g.pressed].action()
			if g.lastErr != nil {
				g.log.Warn("control failed", "button", g.buttons[g.pressed].label, "err", g.lastErr)
			}
		}
		g.pressed = -1
	}

	if justPressed(ebiten.KeySpace) {
		dashboard.Toggle(g.board, time.Now())
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	select {
	case <-g.done:
		return ebiten.Termination
	default:
	}

	g.colorPhase += config.ColorShiftSpeed
	if frame, cmds, ok := g.board.Step(time.Now()); ok {
		g.Render(frame, cmds)
	}
	return nil
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, g *Game) error {
	g.done = ctx.Done()
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle(g.board.Title() + " - Space: Start/Stop, Esc/Q: Quit")
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("game: %w", err)
	}
	return nil
}

func (g *Game) openCapture() error {
	if g.capture == nil {
		return nil
	}
	path, err := capture.SelectFile()
	if err != nil {
		return fmt.Errorf("game: select capture file: %w", err)
	}
	if path == "" {
		return nil
	}
	g.capture.SetPath(path)
	g.log.Info("capture file selected", "path", path)
	if g.capture.Active() {
		// restart playback on the new file
		return g.capture.Start()
	}
	return nil
}
