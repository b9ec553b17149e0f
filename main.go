// Command pipeline-visualization animates the key-identification and
// golf-cart development pipelines in a window, or headless with frame
// summaries in the log.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/iburimskiy/pipeline-visualization/internal/capture"
	"github.com/iburimskiy/pipeline-visualization/internal/config"
	"github.com/iburimskiy/pipeline-visualization/internal/dashboard"
	"github.com/iburimskiy/pipeline-visualization/internal/game"
	"github.com/iburimskiy/pipeline-visualization/internal/observe"
	"github.com/iburimskiy/pipeline-visualization/internal/render"
)

// version is overridden at build time with -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// .env may point PIPELINEVIZ_CONFIG at a config file; a missing .env is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "pipeline-visualization: load .env: %v\n", err)
		return 1
	}

	defaultConfig := os.Getenv("PIPELINEVIZ_CONFIG")
	if defaultConfig == "" {
		defaultConfig = "config.yaml"
	}
	configPath := flag.String("config", defaultConfig, "path to the YAML configuration file")
	headless := flag.Bool("headless", false, "run without a window and log frame summaries")
	board := flag.String("dashboard", "", "dashboard to show: key or cart (overrides the config file)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pipeline-visualization: %v\n", err)
		return 1
	}
	if *headless {
		cfg.Headless = true
	}
	if *board != "" {
		cfg.Dashboard = config.Dashboard(*board)
		if err := config.Validate(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "pipeline-visualization: %v\n", err)
			return 1
		}
	}

	logger := newLogger(cfg.LogLevel).With("run_id", uuid.NewString())
	slog.SetDefault(logger)
	slog.Info("pipeline-visualization starting",
		"version", version,
		"dashboard", cfg.Dashboard,
		"headless", cfg.Headless,
		"frame_interval", cfg.FrameInterval,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownMetrics, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceVersion: version})
	if err != nil {
		slog.Error("failed to initialise metrics", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownMetrics(shutdownCtx); err != nil {
			slog.Warn("metrics shutdown error", "err", err)
		}
	}()
	metrics, err := observe.NewMetrics(otel.GetMeterProvider())
	if err != nil {
		slog.Error("failed to create metric instruments", "err", err)
		return 1
	}

	b, input, err := buildBoard(cfg)
	if err != nil {
		slog.Error("failed to build dashboard", "err", err)
		return 1
	}
	b = dashboard.Instrument(b, string(cfg.Dashboard), metrics)
	if autostart(cfg) {
		b.Start(time.Now())
	}

	g, ctx := errgroup.WithContext(ctx)
	if cfg.MetricsAddr != "" {
		g.Go(func() error { return serveMetrics(ctx, cfg.MetricsAddr) })
	}

	if cfg.Headless {
		sink := render.NewLogSink(logger, cfg.LogEvery)
		g.Go(func() error {
			err := dashboard.Run(ctx, b, sink, cfg.FrameInterval)
			b.Stop()
			return err
		})
	} else {
		// ebiten owns the main goroutine; closing the window cancels the rest
		// and a signal closes the window.
		var sel game.CaptureFile
		if input != nil {
			sel = input
		}
		runErr := game.Run(ctx, game.New(b, cfg.FrameInterval, sel))
		b.Stop()
		stop()
		if runErr != nil {
			slog.Error("window error", "err", runErr)
			_ = g.Wait()
			return 1
		}
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}
	slog.Info("pipeline-visualization stopped")
	return 0
}

// loadConfig reads path, falling back to the defaults when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// buildBoard creates the configured dashboard. For the key dashboard it also
// returns the live capture input.
func buildBoard(cfg *config.Config) (dashboard.Board, *capture.Input, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	env := dashboard.Env{Rand: rand.New(rand.NewPCG(seed, seed))}

	switch cfg.Dashboard {
	case config.DashboardCart:
		b, err := dashboard.NewCartBoard(dashboard.CartOptions{
			Interval:  cfg.FrameInterval,
			View:      cfg.Cart.View,
			Component: cfg.Cart.Component,
			Status:    cfg.Cart.Status,
		}, env)
		return b, nil, err
	default:
		q := capture.NewQueue(cfg.Key.QueueSize)
		if err := observe.ObserveQueue(otel.GetMeterProvider(), q); err != nil {
			return nil, nil, fmt.Errorf("observe capture queue: %w", err)
		}
		input := capture.NewInput(q, cfg.Key.CaptureFile, cfg.Key.SampleRate, cfg.Key.BlockSize)
		env.Live = q
		b, err := dashboard.NewKeyBoard(dashboard.KeyOptions{
			Interval:   cfg.FrameInterval,
			BufferSize: cfg.Key.BufferSize,
			Source:     cfg.Key.Source,
			Phonation:  cfg.Key.Phonation,
			View:       cfg.Key.View,
		}, env, input)
		if err != nil {
			return nil, nil, err
		}
		return b, input, nil
	}
}

// autostart reports whether the clock starts at launch. Headless runs have no
// Start control, so they always start.
func autostart(cfg *config.Config) bool {
	if cfg.Headless {
		return true
	}
	if cfg.Dashboard == config.DashboardCart {
		return cfg.Cart.AutostartEnabled()
	}
	return cfg.Key.Autostart
}

// serveMetrics serves /metrics on addr until ctx is done.
func serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observe.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

// newLogger creates a text logger on stderr at the given level.
func newLogger(level config.LogLevel) *slog.Logger {
	var l slog.Level
	switch level {
	case config.LogDebug:
		l = slog.LevelDebug
	case config.LogWarn:
		l = slog.LevelWarn
	case config.LogError:
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
