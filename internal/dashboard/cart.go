package dashboard

import (
	"fmt"
	"time"

	"github.com/iburimskiy/pipeline-visualization/internal/clock"
	"github.com/iburimskiy/pipeline-visualization/internal/render"
	"github.com/iburimskiy/pipeline-visualization/internal/synth"
)

// CartView is the golf-cart dashboard's visualization mode.
type CartView string

const (
	CartViewOverview   CartView = "system_overview"
	CartViewComponents CartView = "component_details"
	CartViewDataFlow   CartView = "data_flow"
	CartViewModel      CartView = "model_3d"
)

// CartViews lists the views in selector order.
var CartViews = []CartView{CartViewOverview, CartViewComponents, CartViewDataFlow, CartViewModel}

// Component is a component focus of the golf-cart dashboard.
type Component string

const (
	ComponentAll           Component = "all"
	ComponentPower         Component = "power"
	ComponentChassis       Component = "chassis"
	ComponentControl       Component = "control"
	ComponentSoftware      Component = "software"
	ComponentCommunication Component = "communication"
)

// Components lists the focuses in selector order.
var Components = []Component{
	ComponentAll, ComponentPower, ComponentChassis,
	ComponentControl, ComponentSoftware, ComponentCommunication,
}

// Status filters component progress bars.
type Status string

const (
	StatusAll        Status = "all"
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists the filters in selector order.
var Statuses = []Status{StatusAll, StatusNotStarted, StatusInProgress, StatusCompleted}

// StatusOf derives the status of a component from its progress.
func StatusOf(progress int) Status {
	switch {
	case progress <= 0:
		return StatusNotStarted
	case progress >= 100:
		return StatusCompleted
	default:
		return StatusInProgress
	}
}

// Matches reports whether a component with the given progress passes the filter.
func (s Status) Matches(progress int) bool {
	return s == StatusAll || s == StatusOf(progress)
}

// Cart tabs in display order.
const (
	TabOverview = iota
	TabElectrical
	TabSoftware
	TabMechanical
	TabCommunication
	TabTimeline
)

// CartTabs are the tab titles, indexed by the Tab constants.
var CartTabs = []string{
	"Pipeline Overview", "Electrical View", "Software View",
	"Mechanical View", "Communication Layer", "Project Timeline",
}

// ResolveTab returns the tab to show for view and focus. Component details
// with no specific focus keeps the current tab.
func ResolveTab(view CartView, focus Component, current int) int {
	switch view {
	case CartViewOverview:
		return TabOverview
	case CartViewComponents:
		switch focus {
		case ComponentPower, ComponentControl:
			return TabElectrical
		case ComponentSoftware:
			return TabSoftware
		case ComponentChassis:
			return TabMechanical
		case ComponentCommunication:
			return TabCommunication
		}
		return current
	case CartViewDataFlow:
		return TabCommunication
	case CartViewModel:
		return TabMechanical
	}
	return current
}

// CartStages are the development pipeline stages.
var CartStages = []string{"Concept", "Design", "Prototype", "Testing", "Production", "Deployment"}

// CartComponent is a block of the system overview grid.
type CartComponent struct {
	Title  string
	Detail string
}

// CartComponents are the golf-cart subsystems tracked by progress bars.
var CartComponents = []CartComponent{
	{"Concept & Design", "Requirements, team roles, research, sketches"},
	{"CAD & Prototyping", "Structural and mechanical designs"},
	{"Embedded Systems", "Microcontrollers, sensors, actuators, dashboard"},
	{"Power System", "Solar panel, battery pack, charge controller"},
	{"Software Layer", "Dashboard UI, diagnostics, web/app interface"},
	{"Communication Layer", "Bluetooth, Wi-Fi, GSM, GPS"},
	{"Security & Auth", "RFID, Fingerprint, secure gear shift, tracking"},
	{"Diagnostics & Testing", "Real-time metrics, incline testing, motor stress tests"},
	{"Deployment & Evaluation", "Field testing, regulatory compliance, feedback loop"},
}

// electricalNodes is the power network layout; power flows through them in order.
var electricalNodes = []render.Node{
	{Label: "Solar Panel", X: 0, Y: 0},
	{Label: "Charge Controller", X: 1, Y: 0},
	{Label: "Battery", X: 2, Y: 0},
	{Label: "Motor Controller", X: 3, Y: 0},
	{Label: "Motor", X: 4, Y: 0},
	{Label: "Dashboard", X: 2, Y: 1},
	{Label: "Sensors", X: 1, Y: -1},
	{Label: "Lights", X: 3, Y: -1},
}

var electricalEdges = [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {2, 5}, {6, 3}, {2, 7}}

// CartState is the full state of the golf-cart dashboard.
type CartState struct {
	Clock  clock.Clock
	View   CartView
	Focus  Component
	Filter Status
	Tab    int

	// Progress holds one 0..100 value per entry of CartComponents.
	Progress []int
}

// NewCartState returns a stopped cart state with random initial progress.
func NewCartState(interval time.Duration, rng synth.Rand) CartState {
	progress := make([]int, len(CartComponents))
	for i := range progress {
		progress[i] = rng.IntN(101)
	}
	return CartState{
		Clock:    clock.New(interval),
		View:     CartViewOverview,
		Focus:    ComponentAll,
		Filter:   StatusAll,
		Tab:      TabOverview,
		Progress: progress,
	}
}

// TickCart advances s to now. When the Frame Clock has no tick due it returns
// s unchanged and no commands.
func TickCart(s CartState, now time.Time, env Env) (CartState, []render.Command) {
	c, ok := s.Clock.Advance(now)
	if !ok {
		return s, nil
	}
	s.Clock = c
	f := c.Frame()

	progress := make([]int, len(s.Progress))
	for i, p := range s.Progress {
		progress[i] = synth.Fluctuate(p, env.Rand)
	}
	s.Progress = progress

	return s, []render.Command{
		render.View{On: render.TargetView, Index: s.Tab, Name: CartTabs[s.Tab]},
		stageNodes(f),
		powerNodes(f),
		progressItems(s.Progress, s.Filter),
	}
}

func stageNodes(frame uint64) render.Nodes {
	statuses := synth.StageStatuses(frame, len(CartStages))
	out := render.Nodes{On: render.TargetStages}
	for i, name := range CartStages {
		n := render.Node{Label: name, X: float64(i)}
		switch statuses[i] {
		case synth.StageActive:
			n.Style = render.NodeHighlight
		case synth.StageComplete:
			n.Style = render.NodeDone
		}
		out.Nodes = append(out.Nodes, n)
		if i > 0 {
			out.Edges = append(out.Edges, [2]int{i - 1, i})
		}
	}
	return out
}

func powerNodes(frame uint64) render.Nodes {
	focus := synth.PowerFocus(frame, len(electricalNodes))
	nodes := make([]render.Node, len(electricalNodes))
	copy(nodes, electricalNodes)
	nodes[focus].Style = render.NodeHighlight
	return render.Nodes{On: render.TargetPower, Nodes: nodes, Edges: electricalEdges}
}

func progressItems(progress []int, filter Status) render.Progress {
	out := render.Progress{On: render.TargetComponents, Items: make([]render.ProgressItem, len(progress))}
	for i, p := range progress {
		out.Items[i] = render.ProgressItem{
			Label:   CartComponents[i].Title,
			Detail:  CartComponents[i].Detail,
			Value:   p,
			Visible: filter.Matches(p),
		}
	}
	return out
}

func parseEnum[T ~string](kind string, opts []T, s string) (T, error) {
	for _, o := range opts {
		if string(o) == s {
			return o, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("dashboard: unknown %s %q; valid values: %v", kind, s, opts)
}
