package dashboard

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/iburimskiy/pipeline-visualization/internal/render"
)

// Cart dashboard control names.
const (
	ControlCartView  = "Visualization Mode"
	ControlComponent = "Component Focus"
	ControlStatus    = "Status Filter"
)

var (
	cartViewLabels  = []string{"System Overview", "Component Details", "Data Flow", "3D Model"}
	componentLabels = []string{"All Components", "Power System", "Chassis & Mechanical", "Control Electronics", "Software & UI", "Communication"}
	statusLabels    = []string{"All Statuses", "Not Started", "In Progress", "Completed"}
)

// CartOptions are the initial selections of a [CartBoard].
type CartOptions struct {
	Interval  time.Duration
	View      string
	Component string
	Status    string
}

// CartBoard drives the golf-cart development dashboard.
type CartBoard struct {
	state CartState
	env   Env
	log   *slog.Logger
}

// NewCartBoard validates opts and returns a stopped board.
func NewCartBoard(opts CartOptions, env Env) (*CartBoard, error) {
	view, err := parseEnum("cart view", CartViews, opts.View)
	if err != nil {
		return nil, err
	}
	focus, err := parseEnum("component", Components, opts.Component)
	if err != nil {
		return nil, err
	}
	filter, err := parseEnum("status", Statuses, opts.Status)
	if err != nil {
		return nil, err
	}

	s := NewCartState(opts.Interval, env.Rand)
	s.View, s.Focus, s.Filter = view, focus, filter
	s.Tab = ResolveTab(view, focus, s.Tab)
	return &CartBoard{state: s, env: env, log: slog.With("dashboard", "cart")}, nil
}

// Title implements [Board].
func (b *CartBoard) Title() string { return "Proton Smart Solar-Powered Golf Cart Pipeline" }

// State returns the current state.
func (b *CartBoard) State() CartState { return b.state }

// Controls implements [Board].
func (b *CartBoard) Controls() []Control {
	return []Control{
		{Name: ControlCartView, Options: cartViewLabels, Selected: index(CartViews, b.state.View)},
		{Name: ControlComponent, Options: componentLabels, Selected: index(Components, b.state.Focus)},
		{Name: ControlStatus, Options: statusLabels, Selected: index(Statuses, b.state.Filter)},
	}
}

// Select implements [Board]. View and focus changes re-route the shown tab.
func (b *CartBoard) Select(control string, option int) error {
	switch control {
	case ControlCartView:
		v, err := pick(control, CartViews, option)
		if err != nil {
			return err
		}
		b.state.View = v
		b.log.Info("visualization mode changed", "mode", v)
	case ControlComponent:
		c, err := pick(control, Components, option)
		if err != nil {
			return err
		}
		b.state.Focus = c
		b.log.Info("component focus changed", "component", c)
	case ControlStatus:
		s, err := pick(control, Statuses, option)
		if err != nil {
			return err
		}
		b.state.Filter = s
		b.log.Info("status filter changed", "status", s)
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownControl, control)
	}
	b.state.Tab = ResolveTab(b.state.View, b.state.Focus, b.state.Tab)
	return nil
}

// Running implements [Board].
func (b *CartBoard) Running() bool { return b.state.Clock.Running() }

// Start implements [Board].
func (b *CartBoard) Start(now time.Time) {
	if b.Running() {
		return
	}
	b.state.Clock = b.state.Clock.Start(now)
	b.log.Info("visualization started", "frame", b.state.Clock.Frame())
}

// Stop implements [Board].
func (b *CartBoard) Stop() {
	if !b.Running() {
		return
	}
	b.state.Clock = b.state.Clock.Stop()
	b.log.Info("visualization stopped", "frame", b.state.Clock.Frame())
}

// Step implements [Board].
func (b *CartBoard) Step(now time.Time) (uint64, []render.Command, bool) {
	next, cmds := TickCart(b.state, now, b.env)
	ticked := next.Clock.Frame() != b.state.Clock.Frame()
	b.state = next
	return next.Clock.Frame(), cmds, ticked
}
