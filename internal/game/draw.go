package game

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/pipeline-visualization/internal/config"
	"github.com/iburimskiy/pipeline-visualization/internal/render"
)

// panelOrder is the display order of panels; the view target is drawn in the
// header instead.
var panelOrder = []render.Target{
	render.TargetInput, render.TargetTeacher, render.TargetStudent,
	render.TargetPhonation, render.TargetKeys, render.TargetCloud, render.TargetFlow,
	render.TargetStages, render.TargetPower, render.TargetComponents,
}

var panelTitles = map[render.Target]string{
	render.TargetInput:      "Raw Audio Input",
	render.TargetTeacher:    "Teacher Model (Contrastive SSL)",
	render.TargetStudent:    "Knowledge Distillation",
	render.TargetPhonation:  "Phonation Features",
	render.TargetKeys:       "Key Probabilities",
	render.TargetCloud:      "Embedding Space",
	render.TargetFlow:       "Pipeline Data Flow",
	render.TargetStages:     "Development Stages",
	render.TargetPower:      "Power Flow",
	render.TargetComponents: "Component Progress",
}

type rect struct {
	x, y, w, h float64
}

// layoutPanels arranges the targets present in panels in a near-square grid
// below the control bar.
func layoutPanels(panels map[render.Target]render.Command) map[render.Target]rect {
	var shown []render.Target
	for _, t := range panelOrder {
		if _, ok := panels[t]; ok {
			shown = append(shown, t)
		}
	}
	out := make(map[render.Target]rect, len(shown))
	if len(shown) == 0 {
		return out
	}

	cols := int(math.Ceil(math.Sqrt(float64(len(shown)))))
	rows := (len(shown) + cols - 1) / cols
	m := float64(config.PanelMargin)
	w := (float64(config.WindowWidth) - m*float64(cols+1)) / float64(cols)
	h := (float64(config.WindowHeight-config.PanelTop) - m*float64(rows+1)) / float64(rows)
	for i, t := range shown {
		c, r := i%cols, i/cols
		out[t] = rect{
			x: m + float64(c)*(w+m),
			y: float64(config.PanelTop) + m + float64(r)*(h+m),
			w: w,
			h: h,
		}
	}
	return out
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.drawBackground(screen)
	g.drawButtons(screen)

	for t, r := range layoutPanels(g.panels) {
		g.drawPanel(screen, t, r)
	}

	state := "Stopped - Space or Start to run"
	if g.board.Running() {
		state = "Running - Space or Stop to pause"
	}
	status := fmt.Sprintf("%s | %s | frame %d | %s",
		g.board.Title(), state, g.frame, formatDuration(time.Duration(g.frame)*g.interval))
	if v, ok := g.panels[render.TargetView].(render.View); ok {
		status += " | " + v.Name
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 8)
}

func (g *Game) drawBackground(screen *ebiten.Image) {
	for y := 0; y < config.WindowHeight; y += 4 {
		ratio := float64(y) / float64(config.WindowHeight)
		r := uint8(10 + 10*math.Sin(g.colorPhase*0.5+ratio*math.Pi))
		gv := uint8(12 + 8*math.Cos(g.colorPhase*0.3+ratio*math.Pi))
		b := uint8(20 + 12*math.Sin(g.colorPhase*0.7+ratio*math.Pi))
		vector.DrawFilledRect(screen, 0, float32(y), config.WindowWidth, 4, color.RGBA{R: r, G: gv, B: b, A: 255}, false)
	}
}

func (g *Game) drawButtons(screen *ebiten.Image) {
	for i, b := range g.buttons {
		var bgColor color.Color
		switch {
		case i == g.pressed:
			bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 255}
		case i == g.hovered:
			bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 255}
		default:
			bgColor = color.RGBA{R: 100, G: 120, B: 160, A: 255}
		}
		vector.DrawFilledRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), bgColor, false)
		vector.StrokeRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), 2, color.RGBA{R: 150, G: 170, B: 200, A: 255}, false)

		textX := b.x + (b.w-len(b.label)*charWidth)/2
		textY := b.y + (b.h-16)/2
		ebitenutil.DebugPrintAt(screen, b.label, textX, textY)
	}
}

func (g *Game) drawPanel(screen *ebiten.Image, t render.Target, r rect) {
	vector.DrawFilledRect(screen, float32(r.x), float32(r.y), float32(r.w), float32(r.h), color.RGBA{R: 20, G: 25, B: 35, A: 200}, false)
	vector.StrokeRect(screen, float32(r.x), float32(r.y), float32(r.w), float32(r.h), 1, color.RGBA{R: 60, G: 70, B: 90, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, panelTitles[t], int(r.x)+6, int(r.y)+4)

	inner := rect{x: r.x + 8, y: r.y + 24, w: r.w - 16, h: r.h - 32}
	switch c := g.panels[t].(type) {
	case render.Curve:
		g.drawCurve(screen, c, inner)
	case render.Bars:
		g.drawBars(screen, c, inner)
	case render.Image:
		g.drawImage(screen, t, c, inner)
	case render.Cloud:
		drawCloud(screen, c, inner)
	case render.Markers:
		g.drawMarkers(screen, c, inner)
	case render.Nodes:
		g.drawNodes(screen, c, inner)
	case render.Progress:
		g.drawProgress(screen, c, inner)
	}
}

func (g *Game) drawCurve(screen *ebiten.Image, c render.Curve, r rect) {
	lo, hi := math.Inf(1), math.Inf(-1)
	xlo, xhi := math.Inf(1), math.Inf(-1)
	for _, s := range c.Series {
		for i := range s.Y {
			lo, hi = math.Min(lo, s.Y[i]), math.Max(hi, s.Y[i])
			xlo, xhi = math.Min(xlo, s.X[i]), math.Max(xhi, s.X[i])
		}
	}
	if hi <= lo {
		lo, hi = lo-1, hi+1
	}
	if xhi <= xlo {
		xhi = xlo + 1
	}
	px := func(x float64) float32 { return float32(r.x + (x-xlo)/(xhi-xlo)*r.w) }
	py := func(y float64) float32 { return float32(r.y + r.h - (y-lo)/(hi-lo)*r.h) }

	zero := py(0)
	if lo < 0 && hi > 0 {
		vector.StrokeLine(screen, float32(r.x), zero, float32(r.x+r.w), zero, 1, color.RGBA{R: 100, G: 110, B: 130, A: 100}, false)
	}

	for si, s := range c.Series {
		hue := (g.colorPhase + float64(si)*0.3) * 360
		cr, cg, cb := hsvToRgb(hue, 0.7, 0.95)
		col := color.RGBA{R: cr, G: cg, B: cb, A: 230}
		for i := 1; i < len(s.Y); i++ {
			if s.Dashed && i%4 >= 2 {
				continue
			}
			vector.StrokeLine(screen, px(s.X[i-1]), py(s.Y[i-1]), px(s.X[i]), py(s.Y[i]), 1.5, col, false)
		}
		if s.Name != "" {
			ebitenutil.DebugPrintAt(screen, s.Name, int(r.x+r.w)-len(s.Name)*charWidth-4, int(r.y)+si*14)
		}
	}
}

func (g *Game) drawBars(screen *ebiten.Image, b render.Bars, r rect) {
	if len(b.Heights) == 0 {
		return
	}
	top := 0.0
	for _, h := range b.Heights {
		top = math.Max(top, h)
	}
	if top == 0 {
		top = 1
	}
	plotH := r.h - 16
	slot := r.w / float64(len(b.Heights))
	for i, h := range b.Heights {
		bh := clamp01(h/top) * plotH
		x := r.x + float64(i)*slot
		hue := (g.colorPhase + float64(i)/float64(len(b.Heights))) * 360
		cr, cg, cb := hsvToRgb(hue, 0.8, 0.9)
		vector.DrawFilledRect(screen, float32(x+2), float32(r.y+plotH-bh), float32(slot-4), float32(bh), color.RGBA{R: cr, G: cg, B: cb, A: 220}, false)
		if i < len(b.Labels) {
			ebitenutil.DebugPrintAt(screen, b.Labels[i], int(x+slot/2)-len(b.Labels[i])*charWidth/2, int(r.y+plotH))
		}
	}
}

// heat maps an intensity in [0, 1] from dark blue to yellow.
func heat(v float64) (uint8, uint8, uint8) {
	v = clamp01(v)
	return hsvToRgb(240-180*v, 0.85, 0.25+0.75*v)
}

func (g *Game) drawImage(screen *ebiten.Image, t render.Target, im render.Image, r rect) {
	rows := len(im.Grid)
	if rows == 0 || len(im.Grid[0]) == 0 {
		return
	}
	cols := len(im.Grid[0])

	img := g.images[t]
	if img == nil || img.Bounds().Dx() != cols || img.Bounds().Dy() != rows {
		img = ebiten.NewImage(cols, rows)
		g.images[t] = img
	}
	pix := make([]byte, 4*rows*cols)
	for y, row := range im.Grid {
		for x := 0; x < cols && x < len(row); x++ {
			cr, cg, cb := heat(row[x])
			i := 4 * (y*cols + x)
			pix[i], pix[i+1], pix[i+2], pix[i+3] = cr, cg, cb, 255
		}
	}
	img.WritePixels(pix)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(r.w/float64(cols), r.h/float64(rows))
	op.GeoM.Translate(r.x, r.y)
	screen.DrawImage(img, op)
}

// project maps a point to screen offsets with a fixed camera elevation and
// perspective at config.CameraDistance.
func project(p [3]float64) (float64, float64) {
	const elevation = 0.5
	depth := p[1]*math.Cos(elevation) - p[2]*math.Sin(elevation)
	up := p[1]*math.Sin(elevation) + p[2]*math.Cos(elevation)
	s := config.CameraDistance / (config.CameraDistance + depth)
	return p[0] * s, -up * s
}

func drawCloud(screen *ebiten.Image, c render.Cloud, r rect) {
	cx, cy := r.x+r.w/2, r.y+r.h/2
	scale := math.Min(r.w, r.h) / 8
	for i, p := range c.Points {
		x, y := project(p)
		col := color.RGBA{R: 120, G: 180, B: 255, A: 200}
		if i < len(c.Colors) {
			k := c.Colors[i]
			col = color.RGBA{R: uint8(clamp01(k[0]) * 255), G: uint8(clamp01(k[1]) * 255), B: uint8(clamp01(k[2]) * 255), A: uint8(clamp01(k[3]) * 255)}
		}
		px, py := cx+x*scale, cy+y*scale
		if px < r.x || px > r.x+r.w || py < r.y || py > r.y+r.h {
			continue
		}
		vector.DrawFilledCircle(screen, float32(px), float32(py), 3, col, false)
	}
}

func (g *Game) drawMarkers(screen *ebiten.Image, m render.Markers, r rect) {
	n := len(m.Stages)
	if n < 2 {
		return
	}
	trackY := r.y + r.h/2
	stageX := func(pos float64) float64 { return r.x + 20 + pos/float64(n-1)*(r.w-40) }

	vector.StrokeLine(screen, float32(stageX(0)), float32(trackY), float32(stageX(float64(n-1))), float32(trackY), 2, color.RGBA{R: 100, G: 110, B: 130, A: 255}, false)
	for i, s := range m.Stages {
		x := stageX(float64(i))
		vector.StrokeCircle(screen, float32(x), float32(trackY), 6, 2, color.RGBA{R: 150, G: 170, B: 200, A: 255}, false)
		// alternate labels above and below the track so they do not overlap
		ly := int(trackY) + 12
		if i%2 == 1 {
			ly = int(trackY) - 28
		}
		ebitenutil.DebugPrintAt(screen, s, int(x)-len(s)*charWidth/2, ly)
	}
	for i, p := range m.Positions {
		if p < 0 {
			continue
		}
		hue := (g.colorPhase + float64(i)*0.15) * 360
		cr, cg, cb := hsvToRgb(hue, 1, 1)
		vector.DrawFilledCircle(screen, float32(stageX(p)), float32(trackY), 5, color.RGBA{R: cr, G: cg, B: cb, A: 255}, false)
	}
}

func (g *Game) drawNodes(screen *ebiten.Image, n render.Nodes, r rect) {
	if len(n.Nodes) == 0 {
		return
	}
	xlo, xhi := math.Inf(1), math.Inf(-1)
	ylo, yhi := math.Inf(1), math.Inf(-1)
	for _, nd := range n.Nodes {
		xlo, xhi = math.Min(xlo, nd.X), math.Max(xhi, nd.X)
		ylo, yhi = math.Min(ylo, nd.Y), math.Max(yhi, nd.Y)
	}
	pos := func(nd float64, lo, hi, start, size float64) float64 {
		if hi <= lo {
			return start + size/2
		}
		return start + 40 + (nd-lo)/(hi-lo)*(size-80)
	}
	at := func(i int) (float32, float32) {
		nd := n.Nodes[i]
		return float32(pos(nd.X, xlo, xhi, r.x, r.w)), float32(pos(-nd.Y, -yhi, -ylo, r.y, r.h))
	}

	for _, e := range n.Edges {
		if e[0] >= len(n.Nodes) || e[1] >= len(n.Nodes) {
			continue
		}
		x1, y1 := at(e[0])
		x2, y2 := at(e[1])
		vector.StrokeLine(screen, x1, y1, x2, y2, 2, color.RGBA{R: 100, G: 110, B: 130, A: 200}, false)
	}
	for i, nd := range n.Nodes {
		x, y := at(i)
		var col color.RGBA
		switch nd.Style {
		case render.NodeHighlight:
			cr, cg, cb := hsvToRgb(30+20*math.Sin(g.colorPhase*10), 0.9, 1)
			col = color.RGBA{R: cr, G: cg, B: cb, A: 255}
		case render.NodeDone:
			col = color.RGBA{R: 80, G: 180, B: 110, A: 255}
		default:
			col = color.RGBA{R: 90, G: 110, B: 150, A: 255}
		}
		vector.DrawFilledCircle(screen, x, y, 12, col, false)
		ebitenutil.DebugPrintAt(screen, nd.Label, int(x)-len(nd.Label)*charWidth/2, int(y)+14)
	}
}

func (g *Game) drawProgress(screen *ebiten.Image, p render.Progress, r rect) {
	var visible []render.ProgressItem
	for _, it := range p.Items {
		if it.Visible {
			visible = append(visible, it)
		}
	}
	if len(visible) == 0 {
		ebitenutil.DebugPrintAt(screen, "No components match the filter", int(r.x), int(r.y))
		return
	}
	rowH := math.Min(r.h/float64(len(visible)), 40)
	labelW := 0
	for _, it := range visible {
		labelW = max(labelW, len(it.Label)*charWidth)
	}
	barX := r.x + float64(labelW) + 10
	barW := r.w - float64(labelW) - 60
	for i, it := range visible {
		y := r.y + float64(i)*rowH
		ebitenutil.DebugPrintAt(screen, it.Label, int(r.x), int(y))
		fill := clamp01(float64(it.Value) / 100)
		vector.DrawFilledRect(screen, float32(barX), float32(y+2), float32(barW), float32(rowH/2), color.RGBA{R: 25, G: 30, B: 40, A: 255}, false)
		cr, cg, cb := hsvToRgb(fill*120, 0.8, 0.9)
		vector.DrawFilledRect(screen, float32(barX), float32(y+2), float32(barW*fill), float32(rowH/2), color.RGBA{R: cr, G: cg, B: cb, A: 220}, false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d%%", it.Value), int(barX+barW)+6, int(y))
	}
}
