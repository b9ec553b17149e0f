// Package render defines the commands a dashboard tick emits and the Sink
// interface that consumes them. Commands carry data only; how a target is
// drawn is up to the sink.
package render

// Target names a panel of a dashboard.
type Target string

const (
	TargetInput     Target = "input"
	TargetTeacher   Target = "teacher"
	TargetStudent   Target = "student"
	TargetPhonation Target = "phonation"
	TargetKeys      Target = "keys"
	TargetCloud     Target = "cloud"
	TargetFlow      Target = "flow"

	TargetStages     Target = "stages"
	TargetPower      Target = "power"
	TargetComponents Target = "components"
	TargetView       Target = "view"
)

// Command updates one target.
type Command interface {
	Target() Target
}

// Series is one named line of a Curve.
type Series struct {
	Name string
	X    []float64
	Y    []float64
	// Dashed marks reference lines such as soft targets.
	Dashed bool
}

// Curve replaces the line series of a plot.
type Curve struct {
	On     Target
	Series []Series
}

// Bars replaces the heights of a labelled bar chart.
type Bars struct {
	On      Target
	Labels  []string
	Heights []float64
}

// Image replaces a grid of intensities in [0, 1], indexed [row][col].
type Image struct {
	On   Target
	Grid [][]float64
}

// Cloud replaces the points of a 3-D scatter plot.
type Cloud struct {
	On     Target
	Points [][3]float64
	Colors [][4]float64
}

// Markers moves markers along a labelled track. Positions are in stage
// units; a negative position means hidden.
type Markers struct {
	On        Target
	Stages    []string
	Positions []float64
}

// NodeStyle is the emphasis of a node in a node diagram.
type NodeStyle int

const (
	NodeIdle NodeStyle = iota
	NodeHighlight
	NodeDone
)

// Node is a labelled node at a fixed layout position.
type Node struct {
	Label string
	X, Y  float64
	Style NodeStyle
}

// Nodes restyles a node diagram. Edges connect node indexes.
type Nodes struct {
	On    Target
	Nodes []Node
	Edges [][2]int
}

// ProgressItem is one progress bar.
type ProgressItem struct {
	Label   string
	Detail  string
	Value   int
	Visible bool
}

// Progress replaces a grid of progress bars.
type Progress struct {
	On    Target
	Items []ProgressItem
}

// View selects which tab of a tabbed dashboard is shown.
type View struct {
	On    Target
	Index int
	Name  string
}

func (c Curve) Target() Target    { return c.On }
func (b Bars) Target() Target     { return b.On }
func (i Image) Target() Target    { return i.On }
func (c Cloud) Target() Target    { return c.On }
func (m Markers) Target() Target  { return m.On }
func (n Nodes) Target() Target    { return n.On }
func (p Progress) Target() Target { return p.On }
func (v View) Target() Target     { return v.On }

// Sink consumes the commands produced by one tick. Sinks never fail the
// tick; drawing problems are theirs to handle.
type Sink interface {
	Render(frame uint64, cmds []Command)
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(frame uint64, cmds []Command)

// Render implements [Sink].
func (f SinkFunc) Render(frame uint64, cmds []Command) { f(frame, cmds) }
