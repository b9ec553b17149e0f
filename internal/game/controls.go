package game

import (
	"fmt"
	"time"

	"github.com/iburimskiy/pipeline-visualization/internal/config"
	"github.com/iburimskiy/pipeline-visualization/internal/dashboard"
)

// charWidth is the width of a debug font glyph.
const charWidth = 6

type button struct {
	label      string
	x, y, w, h int
	action     func() error
}

func (b button) contains(x, y int) bool {
	return x >= b.x && x <= b.x+b.w && y >= b.y && y <= b.y+b.h
}

// buttonAt returns the index of the button under (x, y), or -1.
func buttonAt(buttons []button, x, y int) int {
	for i, b := range buttons {
		if b.contains(x, y) {
			return i
		}
	}
	return -1
}

// layoutButtons builds the control bar: Start/Stop, one cycling button per
// board control and, with a live input, Open Capture. Buttons wrap onto a
// second row when the window is too narrow.
func (g *Game) layoutButtons() []button {
	startLabel := "Start"
	if g.board.Running() {
		startLabel = "Stop"
	}
	buttons := []button{{label: startLabel, action: func() error {
		dashboard.Toggle(g.board, time.Now())
		return nil
	}}}

	for _, c := range g.board.Controls() {
		buttons = append(buttons, button{
			label: fmt.Sprintf("%s: %s", c.Name, c.Options[c.Selected]),
			action: func() error {
				return g.board.Select(c.Name, (c.Selected+1)%len(c.Options))
			},
		})
	}
	if g.capture != nil {
		buttons = append(buttons, button{label: "Open Capture", action: g.openCapture})
	}

	x, y := config.ButtonX, config.ButtonY
	for i := range buttons {
		w := max(config.ButtonWidth, len(buttons[i].label)*charWidth+16)
		if x+w > config.WindowWidth-config.ButtonX && x > config.ButtonX {
			x = config.ButtonX
			y += config.ButtonHeight + config.ButtonGap
		}
		buttons[i].x, buttons[i].y = x, y
		buttons[i].w, buttons[i].h = w, config.ButtonHeight
		x += w + config.ButtonGap
	}
	return buttons
}
