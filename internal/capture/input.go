package capture

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// ErrNoSource is returned by [Input.Start] when no capture file is set.
var ErrNoSource = errors.New("capture: no source file selected")

// Input plays an audio file through the speaker and taps it into a [Queue],
// standing in for a live microphone. The file loops until Stop.
type Input struct {
	queue      *Queue
	sampleRate int
	blockSize  int

	mu       sync.Mutex
	path     string
	file     *os.File
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	initDone bool
}

// NewInput returns an input feeding q with blockSize-frame mono chunks at sampleRate.
func NewInput(q *Queue, path string, sampleRate, blockSize int) *Input {
	return &Input{
		queue:      q,
		path:       path,
		sampleRate: sampleRate,
		blockSize:  blockSize,
	}
}

// SetPath changes the file used by the next Start.
func (in *Input) SetPath(path string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.path = path
}

// Path returns the configured capture file.
func (in *Input) Path() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.path
}

// Active reports whether playback is in progress.
func (in *Input) Active() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.ctrl != nil
}

// Start opens the capture file and begins playing it through the tap.
// Starting an active input restarts it from the beginning.
func (in *Input) Start() error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.path == "" {
		return ErrNoSource
	}
	in.stopLocked()

	f, err := os.Open(in.path)
	if err != nil {
		return fmt.Errorf("capture: open %q: %w", in.path, err)
	}
	streamer, format, err := decode(f, in.path)
	if err != nil {
		_ = f.Close()
		return err
	}

	rate := beep.SampleRate(in.sampleRate)
	if !in.initDone {
		if err := speaker.Init(rate, rate.N(time.Second/20)); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return fmt.Errorf("capture: init speaker: %w", err)
		}
		in.initDone = true
	}

	var src beep.Streamer = beep.Loop(-1, streamer)
	if format.SampleRate != rate {
		src = beep.Resample(4, format.SampleRate, rate, src)
	}
	ctrl := &beep.Ctrl{Streamer: NewTap(src, in.queue, in.sampleRate, in.blockSize)}

	in.file = f
	in.streamer = streamer
	in.ctrl = ctrl
	speaker.Play(ctrl)

	slog.Info("capture started", "path", in.path, "source_rate", int(format.SampleRate), "rate", in.sampleRate)
	return nil
}

// Stop halts playback, closes the file and discards queued chunks.
func (in *Input) Stop() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.stopLocked()
}

func (in *Input) stopLocked() {
	if in.ctrl == nil {
		return
	}
	speaker.Lock()
	in.ctrl.Paused = true
	in.ctrl.Streamer = nil
	speaker.Unlock()
	speaker.Clear()

	_ = in.streamer.Close()
	_ = in.file.Close()
	in.ctrl = nil
	in.streamer = nil
	in.file = nil
	in.queue.Drain()
	slog.Info("capture stopped", "path", in.path)
}

func decode(f *os.File, path string) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("capture: unsupported file type %q", ext)
	}
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("capture: decode %q: %w", path, err)
	}
	return streamer, format, nil
}
