// Package daemon manages the aeonisd daemon lifecycle: loading a world,
// advancing it on a fixed tick interval, and serving it over HTTP/SSE.
package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aeonis-sim/aeonis/internal/api"
	"github.com/aeonis-sim/aeonis/internal/domain"
	"github.com/aeonis-sim/aeonis/internal/infra/simframe"
	"github.com/aeonis-sim/aeonis/internal/infra/simkernel"
	"github.com/aeonis-sim/aeonis/internal/infra/simmetrics"
	"github.com/aeonis-sim/aeonis/internal/infra/simseed"
	"github.com/aeonis-sim/aeonis/internal/infra/simstore"
)

// Daemon is the aeonisd runtime: one world, advanced on a fixed interval,
// served over HTTP/SSE, optionally persisted and recorded to NDJSON.
type Daemon struct {
	Config Config

	world    domain.World
	schedule simkernel.Schedule
	hub      *api.FrameHub
	Server   *api.Server
	store    *simstore.DB
	runID    string
	frameLog *simframe.Writer

	cancel context.CancelFunc
}

// New builds a Daemon from the config found at AEONIS_HOME (or defaults).
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig builds a Daemon from an explicit Config: it loads the
// configured seed document, builds the initial world, and wires the
// storage/metrics/frame-log components the config enables.
func NewWithConfig(cfg Config) (*Daemon, error) {
	raw, err := os.ReadFile(cfg.Engine.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed domain.Seed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	var worldSeedOverride *uint64
	if cfg.Engine.WorldSeed != 0 {
		worldSeedOverride = &cfg.Engine.WorldSeed
	}
	world := simseed.BuildWorld(seed, worldSeedOverride)
	if err := world.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("seeded world failed invariant check: %w", err)
	}

	d := &Daemon{
		Config: cfg,
		world:  world,
		hub:    api.NewFrameHub(),
	}
	d.Server = api.NewServer(daemonVersion, d.hub)
	if cfg.API.CORSOrigins != nil {
		d.Server.SetCORSOrigins(cfg.API.CORSOrigins)
	}
	if cfg.Telemetry.Prometheus {
		d.Server.EnableMetrics()
	}

	if cfg.Storage.Dir != "" {
		store, err := simstore.Open(cfg.Storage.Dir)
		if err != nil {
			return nil, fmt.Errorf("open run store: %w", err)
		}
		d.store = store
		d.runID = seed.Name
		if err := d.store.CreateRun(simstore.Run{
			ID:        d.runID,
			SeedName:  seed.Name,
			WorldSeed: world.Seed,
			Width:     world.Width,
			Height:    world.Height,
			StartedAt: time.Now(),
		}); err != nil {
			store.Close()
			return nil, fmt.Errorf("create run record: %w", err)
		}
	}

	if cfg.Output.RetainNDJSON && cfg.Output.Dir != "" {
		if err := os.MkdirAll(cfg.Output.Dir, 0700); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
		fw, err := simframe.OpenFile(cfg.Output.Dir + "/frames.ndjson")
		if err != nil {
			return nil, fmt.Errorf("open frame log: %w", err)
		}
		d.frameLog = fw
	}

	return d, nil
}

// daemonVersion is set at build time via -ldflags, mirroring cmd/aeonisd.
var daemonVersion = "dev"

// Serve advances the world on Config.Engine.TickInterval, broadcasting each
// frame to the SSE hub, until ctx is cancelled or Config.Engine.MaxTicks is
// reached (0 = unbounded). It blocks until the HTTP server shuts down.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	interval := parseDuration(d.Config.Engine.TickInterval, time.Second)
	go d.runTicks(ctx, interval)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // long for SSE
		IdleTimeout:  2 * time.Minute,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	fmt.Printf("aeonisd serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// runTicks drives the kernel pipeline on a fixed interval until ctx is
// cancelled or MaxTicks is hit, recording each frame and broadcasting it to
// live SSE subscribers.
func (d *Daemon) runTicks(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if d.Config.Engine.MaxTicks != 0 && d.world.Tick >= d.Config.Engine.MaxTicks {
				return
			}
			if err := d.advanceOneTick(); err != nil {
				log.Printf("[daemon] tick %d failed: %v", d.world.Tick+1, err)
				simmetrics.TicksFailed.WithLabelValues("unknown").Inc()
				return
			}
		}
	}
}

func (d *Daemon) advanceOneTick() error {
	start := time.Now()
	tick := d.world.Tick + 1

	frame, err := d.schedule.RunTick(&d.world, tick)
	if err != nil {
		return err
	}
	simmetrics.TickLatency.Observe(time.Since(start).Seconds())
	simmetrics.TicksCompleted.Inc()
	simmetrics.CurrentTick.Set(float64(d.world.Tick))
	simmetrics.SeaLevelEquivalentMM.Set(float64(d.world.Climate.SeaLevelEquivalentMM))

	if err := d.hub.Broadcast(frame); err != nil {
		return err
	}
	if d.frameLog != nil {
		if err := d.frameLog.WriteFrame(frame); err != nil {
			return err
		}
	}
	if d.store != nil {
		if err := d.store.TouchRun(d.runID, tick); err != nil {
			return err
		}
		if err := d.store.RecordCauses(d.runID, tick, frame.Causes); err != nil {
			return err
		}
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.frameLog != nil {
		_ = d.frameLog.Close()
	}
	if d.store != nil {
		_ = d.store.Close()
	}
}

// parseDuration parses a duration string, returning a fallback on error.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
