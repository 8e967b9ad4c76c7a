package daemon

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aeonis-sim/aeonis/internal/domain"
)

func writeTestSeed(t *testing.T, dir string) string {
	t.Helper()
	seed := domain.Seed{
		Name:   "daemon-test",
		Width:  4,
		Height: 4,
		ElevationNoise: domain.ElevationNoise{
			Octaves: 2,
			Freq:    0.1,
			Amp:     500,
			Seed:    42,
		},
		HumidityBias: domain.HumidityBias{Equator: 1.2, Poles: 0.6},
	}
	raw, err := json.Marshal(seed)
	if err != nil {
		t.Fatalf("marshal seed: %v", err)
	}
	path := filepath.Join(dir, "seed.json")
	if err := os.WriteFile(path, raw, 0600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func testConfig(t *testing.T) Config {
	t.Helper()
	home := t.TempDir()
	cfg := DefaultConfig()
	cfg.Engine.SeedFile = writeTestSeed(t, home)
	cfg.Storage.Dir = filepath.Join(home, "store")
	cfg.Output.Dir = filepath.Join(home, "runs")
	cfg.Output.RetainNDJSON = true
	cfg.API.Port = 0
	return cfg
}

func TestNewWithConfigBuildsAnInvariantSatisfyingWorld(t *testing.T) {
	d, err := NewWithConfig(testConfig(t))
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	defer d.Close()

	if len(d.world.Regions) != 16 {
		t.Errorf("got %d regions, want 16", len(d.world.Regions))
	}
	if err := d.world.CheckInvariants(); err != nil {
		t.Errorf("CheckInvariants: %v", err)
	}
}

func TestAdvanceOneTickBroadcastsAndPersists(t *testing.T) {
	d, err := NewWithConfig(testConfig(t))
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	defer d.Close()

	sub := d.hub.Subscribe()
	defer d.hub.Unsubscribe(sub)

	if err := d.advanceOneTick(); err != nil {
		t.Fatalf("advanceOneTick: %v", err)
	}
	if d.world.Tick != 1 {
		t.Errorf("world.Tick = %d, want 1", d.world.Tick)
	}

	select {
	case <-sub:
	default:
		t.Error("expected a broadcast frame after advanceOneTick")
	}

	run, err := d.store.GetRun(d.runID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.LastTick != 1 {
		t.Errorf("run.LastTick = %d, want 1", run.LastTick)
	}
}

func TestParseDurationFallsBackOnEmptyOrInvalid(t *testing.T) {
	if got := parseDuration("", 0); got != 0 {
		t.Errorf("empty string: got %v, want 0", got)
	}
	if got := parseDuration("not-a-duration", 7); got != 7 {
		t.Errorf("invalid string: got %v, want fallback 7", got)
	}
}
