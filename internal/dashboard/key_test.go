package dashboard_test

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/pipeline-visualization/internal/capture"
	"github.com/iburimskiy/pipeline-visualization/internal/dashboard"
	"github.com/iburimskiy/pipeline-visualization/internal/render"
	"github.com/iburimskiy/pipeline-visualization/internal/synth"
)

const interval = 50 * time.Millisecond

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testEnv() dashboard.Env {
	return dashboard.Env{Rand: rand.New(rand.NewPCG(7, 11))}
}

func frameTime(i int) time.Time { return t0.Add(time.Duration(i) * interval) }

func targets(cmds []render.Command) []render.Target {
	out := make([]render.Target, len(cmds))
	for i, c := range cmds {
		out[i] = c.Target()
	}
	return out
}

func find[T render.Command](t *testing.T, cmds []render.Command) T {
	t.Helper()
	for _, c := range cmds {
		if v, ok := c.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T command in %v", zero, targets(cmds))
	return zero
}

func findTarget(cmds []render.Command, target render.Target) render.Command {
	for _, c := range cmds {
		if c.Target() == target {
			return c
		}
	}
	return nil
}

func runningKeyState(t *testing.T) dashboard.KeyState {
	t.Helper()
	s := dashboard.NewKeyState(interval, 1000, testEnv().Rand)
	s.Clock = s.Clock.Start(t0)
	return s
}

func TestTickKey_StoppedProducesNothing(t *testing.T) {
	s := dashboard.NewKeyState(interval, 1000, testEnv().Rand)
	next, cmds := dashboard.TickKey(s, t0, testEnv())
	assert.Empty(t, cmds)
	assert.Equal(t, uint64(0), next.Clock.Frame())
}

func TestTickKey_NotDueProducesNothing(t *testing.T) {
	env := testEnv()
	s := runningKeyState(t)
	s, _ = dashboard.TickKey(s, t0, env)
	next, cmds := dashboard.TickKey(s, t0.Add(10*time.Millisecond), env)
	assert.Empty(t, cmds)
	assert.Equal(t, s.Clock.Frame(), next.Clock.Frame())
}

func TestTickKey_FullPipelineEmitsEveryPanel(t *testing.T) {
	s := runningKeyState(t)
	_, cmds := dashboard.TickKey(s, t0, testEnv())

	assert.ElementsMatch(t, []render.Target{
		render.TargetInput, render.TargetTeacher, render.TargetStudent, render.TargetPhonation,
		render.TargetKeys, render.TargetCloud, render.TargetFlow,
	}, targets(cmds))

	img := find[render.Image](t, cmds)
	assert.Len(t, img.Grid, synth.SpectrogramSize)
	bars := find[render.Bars](t, cmds)
	assert.Len(t, bars.Heights, 12)
	assert.Len(t, bars.Labels, 12)
	cloud := find[render.Cloud](t, cmds)
	assert.Len(t, cloud.Points, synth.CloudSize)
	assert.Len(t, cloud.Colors, synth.CloudSize)
	markers := find[render.Markers](t, cmds)
	assert.Len(t, markers.Positions, synth.FlowMarkerCount)

	student := findTarget(cmds, render.TargetStudent).(render.Curve)
	require.Len(t, student.Series, 2)
	assert.True(t, student.Series[0].Dashed)
}

func TestTickKey_BufferLengthConstant(t *testing.T) {
	env := testEnv()
	for _, src := range synth.Sources {
		s := runningKeyState(t)
		s.Source = src
		for i := 0; i < 250; i++ {
			var cmds []render.Command
			s, cmds = dashboard.TickKey(s, frameTime(i), env)
			require.Equal(t, 1000, s.Buffer.Len())
			input := findTarget(cmds, render.TargetInput).(render.Curve)
			require.Len(t, input.Series[0].Y, 1000, "source %s frame %d", src, i)
		}
	}
}

func TestTickKey_InputUpdatesEveryOtherFrame(t *testing.T) {
	env := testEnv()
	s := runningKeyState(t)

	s, _ = dashboard.TickKey(s, frameTime(0), env) // frame 1
	assert.Equal(t, make([]float64, 1000), s.Buffer.Values())

	s, _ = dashboard.TickKey(s, frameTime(1), env) // frame 2
	tail := s.Buffer.Tail(synth.ChunkSize)
	assert.Equal(t, synth.SimulatedChunk(2, synth.SourceRecording), tail)
}

func TestTickKey_PreviousStateUntouched(t *testing.T) {
	env := testEnv()
	s := runningKeyState(t)
	s, _ = dashboard.TickKey(s, frameTime(0), env)

	before := s.Buffer.Values()
	cloudBefore := append([]synth.Point(nil), s.Cloud...)
	_, _ = dashboard.TickKey(s, frameTime(1), env)

	assert.Equal(t, before, s.Buffer.Values())
	assert.Equal(t, cloudBefore, s.Cloud)
}

func TestTickKey_ViewFiltersPanels(t *testing.T) {
	cases := map[dashboard.KeyView][]render.Target{
		dashboard.KeyViewContrastive: {render.TargetInput, render.TargetTeacher, render.TargetCloud, render.TargetFlow},
		dashboard.KeyViewDistillation: {
			render.TargetInput, render.TargetTeacher, render.TargetStudent, render.TargetKeys, render.TargetFlow,
		},
		dashboard.KeyViewFeatures: {render.TargetInput, render.TargetPhonation, render.TargetKeys, render.TargetFlow},
	}
	for view, want := range cases {
		s := runningKeyState(t)
		s.View = view
		_, cmds := dashboard.TickKey(s, t0, testEnv())
		assert.ElementsMatch(t, want, targets(cmds), view)
	}
}

func liveChunk(vals ...float64) *audio.FloatBuffer {
	return &audio.FloatBuffer{Format: &audio.Format{NumChannels: 1, SampleRate: 44100}, Data: vals}
}

func TestTickKey_LiveDrainsOneChunk(t *testing.T) {
	q := capture.NewQueue(4)
	q.TryPush(liveChunk(1, 2, 3))
	q.TryPush(liveChunk(4, 5))

	env := testEnv()
	env.Live = q
	s := runningKeyState(t)
	s.Source = synth.SourceLive

	s, _ = dashboard.TickKey(s, frameTime(0), env) // frame 1, no input refresh
	assert.Equal(t, 2, q.Len())

	s, _ = dashboard.TickKey(s, frameTime(1), env) // frame 2 drains one
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, []float64{1, 2, 3}, s.Buffer.Tail(3))

	s, _ = dashboard.TickKey(s, frameTime(2), env)
	s, _ = dashboard.TickKey(s, frameTime(3), env)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, s.Buffer.Tail(5))

	// empty queue: consumption skipped, window unchanged
	before := s.Buffer.Values()
	s, _ = dashboard.TickKey(s, frameTime(4), env)
	s, _ = dashboard.TickKey(s, frameTime(5), env)
	assert.Equal(t, before, s.Buffer.Values())
}

func TestTickKey_LiveWithoutInputStaysIdle(t *testing.T) {
	env := testEnv()
	s := runningKeyState(t)
	s.Source = synth.SourceLive
	for i := 0; i < 10; i++ {
		s, _ = dashboard.TickKey(s, frameTime(i), env)
	}
	assert.Equal(t, make([]float64, 1000), s.Buffer.Values())
}

type fakeLive struct {
	starts, stops int
	err           error
}

func (f *fakeLive) Start() error { f.starts++; return f.err }
func (f *fakeLive) Stop()        { f.stops++ }

func newKeyBoard(t *testing.T, live dashboard.LiveInput) *dashboard.KeyBoard {
	t.Helper()
	b, err := dashboard.NewKeyBoard(dashboard.KeyOptions{
		Interval:   interval,
		BufferSize: 1000,
		Source:     "sample_recording",
		Phonation:  "modal",
		View:       "full_pipeline",
	}, testEnv(), live)
	require.NoError(t, err)
	return b
}

func TestNewKeyBoard_RejectsUnknownModes(t *testing.T) {
	base := dashboard.KeyOptions{Interval: interval, BufferSize: 10, Source: "simulated", Phonation: "modal", View: "full_pipeline"}

	bad := base
	bad.Source = "radio"
	_, err := dashboard.NewKeyBoard(bad, testEnv(), nil)
	assert.Error(t, err)

	bad = base
	bad.Phonation = "yodel"
	_, err = dashboard.NewKeyBoard(bad, testEnv(), nil)
	assert.Error(t, err)

	bad = base
	bad.View = "everything"
	_, err = dashboard.NewKeyBoard(bad, testEnv(), nil)
	assert.Error(t, err)
}

func TestKeyBoard_ToggleResumes(t *testing.T) {
	b := newKeyBoard(t, nil)
	assert.False(t, b.Running())

	_, _, ok := b.Step(frameTime(0))
	assert.False(t, ok, "stopped board does not tick")

	dashboard.Toggle(b, frameTime(0))
	frame, cmds, ok := b.Step(frameTime(0))
	require.True(t, ok)
	assert.Equal(t, uint64(1), frame)
	assert.NotEmpty(t, cmds)

	dashboard.Toggle(b, frameTime(1))
	assert.False(t, b.Running())
	_, cmds, ok = b.Step(frameTime(5))
	assert.False(t, ok)
	assert.Empty(t, cmds)

	dashboard.Toggle(b, frameTime(6))
	frame, _, ok = b.Step(frameTime(6))
	require.True(t, ok)
	assert.Equal(t, uint64(2), frame, "frame counter resumes, never resets")
}

func TestKeyBoard_SelectionAppliesToNextFrame(t *testing.T) {
	b := newKeyBoard(t, nil)
	b.Start(t0)

	_, first, ok := b.Step(frameTime(0))
	require.True(t, ok)
	firstImage := find[render.Image](t, first)
	firstGrid := firstImage.Grid

	require.NoError(t, b.Select(dashboard.ControlPhonation, 3)) // pressed
	require.NoError(t, b.Select(dashboard.ControlKeyView, 1))   // contrastive

	assert.Equal(t, firstGrid, firstImage.Grid, "past frames are not rewritten")

	_, next, ok := b.Step(frameTime(1))
	require.True(t, ok)
	assert.Nil(t, findTarget(next, render.TargetPhonation))
	assert.ElementsMatch(t,
		[]render.Target{render.TargetInput, render.TargetTeacher, render.TargetCloud, render.TargetFlow},
		targets(next))
	assert.Equal(t, synth.PhonationPressed, b.State().Phonation)

	controls := b.Controls()
	require.Len(t, controls, 3)
	assert.Equal(t, 1, controls[0].Selected)
	assert.Equal(t, 3, controls[2].Selected)
}

func TestKeyBoard_SelectRejectsUnknown(t *testing.T) {
	b := newKeyBoard(t, nil)
	assert.ErrorIs(t, b.Select("Volume", 0), dashboard.ErrUnknownControl)
	assert.ErrorIs(t, b.Select(dashboard.ControlPhonation, 9), dashboard.ErrUnknownOption)
	assert.ErrorIs(t, b.Select(dashboard.ControlSource, -1), dashboard.ErrUnknownOption)
	assert.Equal(t, synth.PhonationModal, b.State().Phonation, "previous selection kept")
}

func TestKeyBoard_SourceChangeResetsBuffer(t *testing.T) {
	b := newKeyBoard(t, nil)
	b.Start(t0)
	for i := 0; i < 6; i++ {
		b.Step(frameTime(i))
	}
	require.NotEqual(t, make([]float64, 1000), b.State().Buffer.Values())

	require.NoError(t, b.Select(dashboard.ControlSource, 1))
	assert.Equal(t, make([]float64, 1000), b.State().Buffer.Values())
	assert.Equal(t, 1000, b.State().Buffer.Len())
}

func TestKeyBoard_LiveInputLifecycle(t *testing.T) {
	live := &fakeLive{}
	b := newKeyBoard(t, live)

	// selecting live while stopped does not start capture
	require.NoError(t, b.Select(dashboard.ControlSource, 2))
	assert.Equal(t, 0, live.starts)

	b.Start(t0)
	assert.Equal(t, 1, live.starts)

	b.Stop()
	assert.Equal(t, 2, live.stops) // once on the source change, once on stop

	b.Start(t0.Add(time.Second))
	require.NoError(t, b.Select(dashboard.ControlSource, 0))
	assert.Equal(t, 2, live.starts)
	assert.Equal(t, 3, live.stops)
}

func TestKeyBoard_LiveStartFailureDegrades(t *testing.T) {
	live := &fakeLive{err: errors.New("no device")}
	b := newKeyBoard(t, live)
	require.NoError(t, b.Select(dashboard.ControlSource, 2))

	b.Start(t0)
	assert.True(t, b.Running(), "board keeps running without live input")
	for i := 0; i < 4; i++ {
		_, cmds, ok := b.Step(frameTime(i))
		require.True(t, ok)
		assert.NotEmpty(t, cmds)
	}
	assert.Equal(t, make([]float64, 1000), b.State().Buffer.Values())
}
