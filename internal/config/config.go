// Package config holds the layout constants and the YAML runtime
// configuration for the pipeline visualizer.
package config

import "time"

const (
	WindowWidth  = 1280
	WindowHeight = 800

	// Control bar dimensions
	ButtonWidth  = 150
	ButtonHeight = 32
	ButtonX      = 20
	ButtonY      = 30
	ButtonGap    = 10

	// Panel grid below the control bar
	PanelTop    = 110
	PanelMargin = 12

	// Visualization parameters
	ColorShiftSpeed = 0.01
	CameraDistance  = 40
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Dashboard selects which pipeline is animated.
type Dashboard string

const (
	// DashboardKey animates the vocal key-identification pipeline.
	DashboardKey Dashboard = "key"

	// DashboardCart animates the solar golf-cart development pipeline.
	DashboardCart Dashboard = "cart"
)

// IsValid reports whether d is a recognised dashboard.
func (d Dashboard) IsValid() bool {
	return d == DashboardKey || d == DashboardCart
}

// Config is the root configuration structure.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// Dashboard selects the pipeline to animate.
	Dashboard Dashboard `yaml:"dashboard"`

	// Headless runs the scheduler loop without a window, logging frames instead.
	Headless bool `yaml:"headless"`

	// FrameInterval is the Frame Clock period. Default 50ms (20 fps).
	FrameInterval time.Duration `yaml:"frame_interval"`

	// MetricsAddr, when set, serves Prometheus metrics on this address (e.g. ":9464").
	MetricsAddr string `yaml:"metrics_addr"`

	// Seed seeds the texture noise. Zero picks a time-based seed.
	Seed uint64 `yaml:"seed"`

	// LogEvery is how many frames the headless log sink skips between summaries.
	LogEvery int `yaml:"log_every"`

	Key  KeyConfig  `yaml:"key"`
	Cart CartConfig `yaml:"cart"`
}

// KeyConfig configures the key-identification dashboard.
type KeyConfig struct {
	// BufferSize is the length of the rolling input window.
	BufferSize int `yaml:"buffer_size"`

	// QueueSize bounds the live capture queue.
	QueueSize int `yaml:"queue_size"`

	// Source is the initial audio source: sample_recording, simulated or live.
	Source string `yaml:"source"`

	// Phonation is the initial phonation type: modal, falsetto, breathy or pressed.
	Phonation string `yaml:"phonation"`

	// View is the initial visualization mode.
	View string `yaml:"view"`

	// CaptureFile is the audio file played through the live capture tap.
	CaptureFile string `yaml:"capture_file"`

	// SampleRate of the live capture chunks in Hz.
	SampleRate int `yaml:"sample_rate"`

	// BlockSize is the number of mono frames per capture chunk.
	BlockSize int `yaml:"block_size"`

	// Autostart starts the clock immediately instead of waiting for the Start control.
	Autostart bool `yaml:"autostart"`
}

// CartConfig configures the golf-cart dashboard.
type CartConfig struct {
	// View is the initial visualization mode.
	View string `yaml:"view"`

	// Component is the initial component focus.
	Component string `yaml:"component"`

	// Status is the initial status filter.
	Status string `yaml:"status"`

	// Autostart starts the clock immediately. The cart dashboard animates
	// from launch unless this is explicitly disabled.
	Autostart *bool `yaml:"autostart"`
}

// AutostartEnabled reports whether the cart dashboard should start ticking at launch.
func (c CartConfig) AutostartEnabled() bool {
	return c.Autostart == nil || *c.Autostart
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields of cfg with the built-in defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = LogInfo
	}
	if cfg.Dashboard == "" {
		cfg.Dashboard = DashboardKey
	}
	if cfg.FrameInterval == 0 {
		cfg.FrameInterval = 50 * time.Millisecond
	}
	if cfg.LogEvery == 0 {
		cfg.LogEvery = 20
	}
	if cfg.Key.BufferSize == 0 {
		cfg.Key.BufferSize = 1000
	}
	if cfg.Key.QueueSize == 0 {
		cfg.Key.QueueSize = 10
	}
	if cfg.Key.Source == "" {
		cfg.Key.Source = "sample_recording"
	}
	if cfg.Key.Phonation == "" {
		cfg.Key.Phonation = "modal"
	}
	if cfg.Key.View == "" {
		cfg.Key.View = "full_pipeline"
	}
	if cfg.Key.SampleRate == 0 {
		cfg.Key.SampleRate = 44100
	}
	if cfg.Key.BlockSize == 0 {
		cfg.Key.BlockSize = 1024
	}
	if cfg.Cart.View == "" {
		cfg.Cart.View = "system_overview"
	}
	if cfg.Cart.Component == "" {
		cfg.Cart.Component = "all"
	}
	if cfg.Cart.Status == "" {
		cfg.Cart.Status = "all"
	}
}
