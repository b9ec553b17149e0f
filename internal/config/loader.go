package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults and validates
// the result. An empty document yields the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
// Mode names (sources, phonation types, views) are checked by the dashboard
// constructors, which own those enumerations.
func Validate(cfg *Config) error {
	var errs []error

	if !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	if !cfg.Dashboard.IsValid() {
		errs = append(errs, fmt.Errorf("dashboard %q is invalid; valid values: key, cart", cfg.Dashboard))
	}
	if cfg.FrameInterval < time.Millisecond {
		errs = append(errs, fmt.Errorf("frame_interval %s is too short; minimum 1ms", cfg.FrameInterval))
	}
	if cfg.LogEvery < 1 {
		errs = append(errs, fmt.Errorf("log_every %d must be positive", cfg.LogEvery))
	}
	if cfg.Key.BufferSize < 1 {
		errs = append(errs, fmt.Errorf("key.buffer_size %d must be positive", cfg.Key.BufferSize))
	}
	if cfg.Key.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("key.queue_size %d must be positive", cfg.Key.QueueSize))
	}
	if cfg.Key.SampleRate < 1 {
		errs = append(errs, fmt.Errorf("key.sample_rate %d must be positive", cfg.Key.SampleRate))
	}
	if cfg.Key.BlockSize < 1 {
		errs = append(errs, fmt.Errorf("key.block_size %d must be positive", cfg.Key.BlockSize))
	}

	if cfg.Key.Source == "live" && cfg.Key.CaptureFile == "" && cfg.Headless {
		slog.Warn("key.source is live but key.capture_file is empty; the input panel will stay idle in headless mode")
	}

	return errors.Join(errs...)
}
