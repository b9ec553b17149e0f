package dashboard

import (
	"time"

	"github.com/iburimskiy/pipeline-visualization/internal/buffer"
	"github.com/iburimskiy/pipeline-visualization/internal/clock"
	"github.com/iburimskiy/pipeline-visualization/internal/render"
	"github.com/iburimskiy/pipeline-visualization/internal/synth"
)

// KeyView is the key dashboard's visualization mode. It selects which
// pipeline panels are updated.
type KeyView string

const (
	KeyViewFull         KeyView = "full_pipeline"
	KeyViewContrastive  KeyView = "contrastive_ssl"
	KeyViewDistillation KeyView = "knowledge_distillation"
	KeyViewFeatures     KeyView = "feature_extraction"
)

// KeyViews lists the views in selector order.
var KeyViews = []KeyView{KeyViewFull, KeyViewContrastive, KeyViewDistillation, KeyViewFeatures}

// ParseKeyView converts s to a KeyView.
func ParseKeyView(s string) (KeyView, error) {
	return parseEnum("key view", KeyViews, s)
}

// Shows reports whether panel t is updated in view v. Unknown views behave
// like the full pipeline.
func (v KeyView) Shows(t render.Target) bool {
	switch v {
	case KeyViewContrastive:
		return t == render.TargetInput || t == render.TargetTeacher || t == render.TargetCloud || t == render.TargetFlow
	case KeyViewDistillation:
		return t == render.TargetInput || t == render.TargetTeacher || t == render.TargetStudent ||
			t == render.TargetKeys || t == render.TargetFlow
	case KeyViewFeatures:
		return t == render.TargetInput || t == render.TargetPhonation || t == render.TargetKeys || t == render.TargetFlow
	default:
		return true
	}
}

const (
	// inputEvery mirrors the 100ms audio refresh on the 50ms frame clock.
	inputEvery = 2
	// flowEvery mirrors the 200ms flow refresh on the 50ms frame clock.
	flowEvery = 4
)

// KeyState is the full state of the key-identification dashboard.
type KeyState struct {
	Clock     clock.Clock
	Source    synth.Source
	Phonation synth.Phonation
	View      KeyView

	// Buffer is the rolling input window. Ticks replace it rather than
	// mutate it, so earlier states stay intact.
	Buffer *buffer.SampleBuffer

	Cloud []synth.Point

	// Flow holds the last marker positions; they refresh every flowEvery frames.
	Flow []float64
}

// NewKeyState returns a stopped key dashboard state.
func NewKeyState(interval time.Duration, bufferSize int, rng synth.Rand) KeyState {
	return KeyState{
		Clock:     clock.New(interval),
		Source:    synth.SourceRecording,
		Phonation: synth.PhonationModal,
		View:      KeyViewFull,
		Buffer:    buffer.New(bufferSize),
		Cloud:     synth.NewCloud(rng),
		Flow:      synth.FlowMarkers(0, synth.FlowMarkerCount),
	}
}

// TickKey advances s to now. When the Frame Clock has no tick due it returns s
// unchanged and no commands.
func TickKey(s KeyState, now time.Time, env Env) (KeyState, []render.Command) {
	c, ok := s.Clock.Advance(now)
	if !ok {
		return s, nil
	}
	s.Clock = c
	f := c.Frame()

	if f%inputEvery == 0 {
		s.Buffer = nextInput(s.Buffer, f, s.Source, env.Live)
	}
	s.Cloud = synth.RotateCloud(s.Cloud, f, env.Rand)
	if f%flowEvery == 0 {
		s.Flow = synth.FlowMarkers(f, synth.FlowMarkerCount)
	}

	cmds := make([]render.Command, 0, 7)
	emit := func(cmd render.Command) {
		if s.View.Shows(cmd.Target()) {
			cmds = append(cmds, cmd)
		}
	}

	emit(inputCurve(s.Buffer))

	x, y := synth.TeacherCurve(f)
	emit(render.Curve{On: render.TargetTeacher, Series: []render.Series{{Name: "teacher", X: x, Y: y}}})

	if s.View.Shows(render.TargetStudent) {
		soft, student := synth.Distillation(f, env.Rand)
		emit(render.Curve{On: render.TargetStudent, Series: []render.Series{
			{Name: "soft targets", X: x, Y: soft, Dashed: true},
			{Name: "student", X: x, Y: student},
		}})
	}
	if s.View.Shows(render.TargetPhonation) {
		emit(render.Image{On: render.TargetPhonation, Grid: synth.Spectrogram(f, s.Phonation, env.Rand)})
	}

	probs := synth.KeyProbabilities(f)
	emit(render.Bars{On: render.TargetKeys, Labels: synth.Keys[:], Heights: probs[:]})

	emit(cloudCommand(s.Cloud))
	emit(render.Markers{On: render.TargetFlow, Stages: synth.FlowStages, Positions: append([]float64(nil), s.Flow...)})

	return s, cmds
}

// nextInput returns a new buffer with this frame's input chunk appended. The
// live source drains at most one chunk; an empty queue leaves the window as is.
func nextInput(prev *buffer.SampleBuffer, frame uint64, src synth.Source, live ChunkSource) *buffer.SampleBuffer {
	if src == synth.SourceLive {
		if live == nil {
			return prev
		}
		chunk, ok := live.TryPop()
		if !ok {
			return prev
		}
		next := prev.Clone()
		next.Push(chunk.Data)
		return next
	}
	next := prev.Clone()
	next.Push(synth.SimulatedChunk(frame, src))
	return next
}

func inputCurve(b *buffer.SampleBuffer) render.Curve {
	y := b.Values()
	x := make([]float64, len(y))
	for i := range x {
		x[i] = float64(i)
	}
	return render.Curve{On: render.TargetInput, Series: []render.Series{{Name: "input", X: x, Y: y}}}
}

func cloudCommand(pts []synth.Point) render.Cloud {
	out := render.Cloud{
		On:     render.TargetCloud,
		Points: make([][3]float64, len(pts)),
		Colors: make([][4]float64, len(pts)),
	}
	for i, p := range pts {
		out.Points[i] = p
		out.Colors[i] = synth.CloudColor(i, len(pts))
	}
	return out
}
