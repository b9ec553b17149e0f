package render

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
)

// LogSink is the headless render sink: it logs a one-line summary of every
// Nth frame at debug level.
type LogSink struct {
	logger *slog.Logger
	every  uint64
}

// NewLogSink returns a sink that summarises every Nth frame through logger.
func NewLogSink(logger *slog.Logger, every int) *LogSink {
	if every < 1 {
		every = 1
	}
	return &LogSink{logger: logger, every: uint64(every)}
}

// Render implements [Sink].
func (s *LogSink) Render(frame uint64, cmds []Command) {
	if frame%s.every != 0 {
		return
	}
	attrs := make([]any, 0, 2*len(cmds)+2)
	attrs = append(attrs, "frame", frame)
	for _, c := range cmds {
		attrs = append(attrs, string(c.Target()), Summarize(c))
	}
	s.logger.Debug("frame rendered", attrs...)
}

// Summarize returns a short human-readable description of c.
func Summarize(c Command) string {
	switch c := c.(type) {
	case Curve:
		if len(c.Series) == 0 {
			return "curve empty"
		}
		lo, hi := bounds(c.Series[0].Y)
		return fmt.Sprintf("%d series x%d [%.2f, %.2f]", len(c.Series), len(c.Series[0].Y), lo, hi)
	case Bars:
		if len(c.Heights) == 0 {
			return "bars empty"
		}
		best := 0
		for i, h := range c.Heights {
			if h > c.Heights[best] {
				best = i
			}
		}
		label := fmt.Sprint(best)
		if best < len(c.Labels) {
			label = c.Labels[best]
		}
		return fmt.Sprintf("top %s=%.2f", label, c.Heights[best])
	case Image:
		cols := 0
		if len(c.Grid) > 0 {
			cols = len(c.Grid[0])
		}
		return fmt.Sprintf("image %dx%d", len(c.Grid), cols)
	case Cloud:
		return fmt.Sprintf("%d points", len(c.Points))
	case Markers:
		visible := 0
		for _, p := range c.Positions {
			if p >= 0 {
				visible++
			}
		}
		return fmt.Sprintf("%d/%d markers visible", visible, len(c.Positions))
	case Nodes:
		var hl []string
		for _, n := range c.Nodes {
			if n.Style == NodeHighlight {
				hl = append(hl, n.Label)
			}
		}
		return fmt.Sprintf("highlight %v", hl)
	case Progress:
		visible := slices.DeleteFunc(slices.Clone(c.Items), func(it ProgressItem) bool { return !it.Visible })
		return fmt.Sprintf("%d/%d components visible", len(visible), len(c.Items))
	case View:
		return fmt.Sprintf("tab %d %s", c.Index, c.Name)
	default:
		return fmt.Sprintf("%T", c)
	}
}

func bounds(vals []float64) (lo, hi float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
