package dashboard

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/iburimskiy/pipeline-visualization/internal/buffer"
	"github.com/iburimskiy/pipeline-visualization/internal/render"
	"github.com/iburimskiy/pipeline-visualization/internal/synth"
)

// Key dashboard control names.
const (
	ControlKeyView   = "Visualization Mode"
	ControlSource    = "Audio Source"
	ControlPhonation = "Phonation Type"
)

var (
	keyViewLabels   = []string{"Full Pipeline", "Contrastive SSL", "Knowledge Distillation", "Feature Extraction"}
	sourceLabels    = []string{"Sample Recording", "Simulated Input", "Live Capture Input"}
	phonationLabels = []string{"Modal", "Falsetto", "Breathy", "Pressed"}
)

// KeyOptions are the initial selections of a [KeyBoard].
type KeyOptions struct {
	Interval   time.Duration
	BufferSize int
	Source     string
	Phonation  string
	View       string
}

// KeyBoard drives the key-identification dashboard.
type KeyBoard struct {
	state KeyState
	env   Env
	live  LiveInput
	log   *slog.Logger
}

// NewKeyBoard validates opts and returns a stopped board. live may be nil,
// in which case selecting the live source leaves the input panel idle.
func NewKeyBoard(opts KeyOptions, env Env, live LiveInput) (*KeyBoard, error) {
	src, err := synth.ParseSource(opts.Source)
	if err != nil {
		return nil, err
	}
	ph, err := synth.ParsePhonation(opts.Phonation)
	if err != nil {
		return nil, err
	}
	view, err := ParseKeyView(opts.View)
	if err != nil {
		return nil, err
	}

	s := NewKeyState(opts.Interval, opts.BufferSize, env.Rand)
	s.Source, s.Phonation, s.View = src, ph, view
	return &KeyBoard{
		state: s,
		env:   env,
		live:  live,
		log:   slog.With("dashboard", "key"),
	}, nil
}

// Title implements [Board].
func (b *KeyBoard) Title() string { return "Real-Time Vocal Key Identification System" }

// State returns the current state.
func (b *KeyBoard) State() KeyState { return b.state }

// Controls implements [Board].
func (b *KeyBoard) Controls() []Control {
	return []Control{
		{Name: ControlKeyView, Options: keyViewLabels, Selected: index(KeyViews, b.state.View)},
		{Name: ControlSource, Options: sourceLabels, Selected: index(synth.Sources, b.state.Source)},
		{Name: ControlPhonation, Options: phonationLabels, Selected: index(synth.Phonations, b.state.Phonation)},
	}
}

// Select implements [Board]. Changing the audio source clears the input
// window and switches the live input on or off to match.
func (b *KeyBoard) Select(control string, option int) error {
	switch control {
	case ControlKeyView:
		v, err := pick(control, KeyViews, option)
		if err != nil {
			return err
		}
		b.state.View = v
		b.log.Info("visualization mode changed", "mode", v)
	case ControlSource:
		src, err := pick(control, synth.Sources, option)
		if err != nil {
			return err
		}
		b.state.Source = src
		b.state.Buffer = buffer.New(b.state.Buffer.Len())
		b.log.Info("audio source changed", "source", src)
		if b.state.Clock.Running() && src == synth.SourceLive {
			b.startLive()
		} else {
			b.stopLive()
		}
	case ControlPhonation:
		ph, err := pick(control, synth.Phonations, option)
		if err != nil {
			return err
		}
		b.state.Phonation = ph
		b.log.Info("phonation mode changed", "phonation", ph)
	default:
		return fmt.Errorf("%w %q", ErrUnknownControl, control)
	}
	return nil
}

// Running implements [Board].
func (b *KeyBoard) Running() bool { return b.state.Clock.Running() }

// Start implements [Board].
func (b *KeyBoard) Start(now time.Time) {
	if b.Running() {
		return
	}
	b.state.Clock = b.state.Clock.Start(now)
	b.log.Info("visualization started", "frame", b.state.Clock.Frame())
	if b.state.Source == synth.SourceLive {
		b.startLive()
	}
}

// Stop implements [Board].
func (b *KeyBoard) Stop() {
	if !b.Running() {
		return
	}
	b.state.Clock = b.state.Clock.Stop()
	b.stopLive()
	b.log.Info("visualization stopped", "frame", b.state.Clock.Frame())
}

// Step implements [Board].
func (b *KeyBoard) Step(now time.Time) (uint64, []render.Command, bool) {
	next, cmds := TickKey(b.state, now, b.env)
	ticked := next.Clock.Frame() != b.state.Clock.Frame()
	b.state = next
	return next.Clock.Frame(), cmds, ticked
}

func (b *KeyBoard) startLive() {
	if b.live == nil {
		b.log.Warn("live capture input is not available; input panel will not animate")
		return
	}
	if err := b.live.Start(); err != nil {
		b.log.Error("error starting live capture", "err", err)
	}
}

func (b *KeyBoard) stopLive() {
	if b.live != nil {
		b.live.Stop()
	}
}
