package simkernel

import (
	"reflect"
	"testing"

	"github.com/aeonis-sim/aeonis/internal/domain"
)

func newGridWorld(seed uint64, width, height uint32) domain.World {
	regions := make([]domain.Region, width*height)
	for y := uint32(0); y < height; y++ {
		for x := uint32(0); x < width; x++ {
			idx := y*width + x
			regions[idx] = domain.Region{
				ID:          idx,
				X:           x,
				Y:           y,
				LatitudeDeg: domain.LatitudeFromGrid(y, height),
				ElevationM:  100,
				Water:       4000,
				Soil:        4000,
				AlbedoMilli: 180,
				Biome:       domain.BiomeTemperateMix,
			}
		}
	}
	return domain.NewWorld(seed, width, height, regions)
}

func TestRunTickRejectsWrongTick(t *testing.T) {
	w := newGridWorld(1, 4, 4)
	var sched Schedule
	if _, err := sched.RunTick(&w, 2); err == nil {
		t.Fatal("expected ErrInvalidTickOrder when skipping tick 1")
	}
}

func TestRunTickAdvancesOnlyOnSuccess(t *testing.T) {
	w := newGridWorld(1, 4, 4)
	var sched Schedule
	if _, err := sched.RunTick(&w, 1); err != nil {
		t.Fatalf("RunTick: %v", err)
	}
	if w.Tick != 1 {
		t.Fatalf("world.Tick = %d, want 1", w.Tick)
	}
}

func TestRunTickIsDeterministicForAGivenSeed(t *testing.T) {
	var sched Schedule

	w1 := newGridWorld(99, 6, 6)
	w2 := newGridWorld(99, 6, 6)

	for tick := uint64(1); tick <= 5; tick++ {
		f1, err := sched.RunTick(&w1, tick)
		if err != nil {
			t.Fatalf("tick %d (w1): %v", tick, err)
		}
		f2, err := sched.RunTick(&w2, tick)
		if err != nil {
			t.Fatalf("tick %d (w2): %v", tick, err)
		}
		j1, _ := f1.ToNDJSON()
		j2, _ := f2.ToNDJSON()
		if j1 != j2 {
			t.Fatalf("tick %d frames diverged for identical seeds:\n%s\nvs\n%s", tick, j1, j2)
		}
	}
}

// TestCouplerFeedbackIsOneTickDelayed verifies that a change to a region's
// albedo within a tick cannot affect that same tick's already-committed
// temperature (it only stages a temperature_baseline adjustment consumed by
// the following tick's atmosphere kernel).
func TestCouplerFeedbackIsOneTickDelayed(t *testing.T) {
	control := newGridWorld(42, 4, 4)
	w := newGridWorld(42, 4, 4)
	w.Climate.LastAlbedoMilli[0] -= 150
	var sched Schedule

	c1, err := sched.RunTick(&control, 1)
	if err != nil {
		t.Fatalf("tick 1 (control): %v", err)
	}
	f1, err := sched.RunTick(&w, 1)
	if err != nil {
		t.Fatalf("tick 1: %v", err)
	}
	if !reflect.DeepEqual(f1.Diff.Temp, c1.Diff.Temp) {
		t.Fatalf("tick 1 temperatures moved with the albedo anomaly:\n%v\nvs\n%v", f1.Diff.Temp, c1.Diff.Temp)
	}
	shift := int32(w.Climate.TemperatureBaselineTenths[0]) - int32(control.Climate.TemperatureBaselineTenths[0])

	c2, err := sched.RunTick(&control, 2)
	if err != nil {
		t.Fatalf("tick 2 (control): %v", err)
	}
	f2, err := sched.RunTick(&w, 2)
	if err != nil {
		t.Fatalf("tick 2: %v", err)
	}
	if got := f2.Diff.Temp["r:0"] - c2.Diff.Temp["r:0"]; got != shift {
		t.Errorf("tick 2 temperature of r:0 differs from control by %d, want the staged baseline shift %d", got, shift)
	}

	if len(w.Climate.TemperatureBaselineTenths) < len(w.Regions) {
		t.Fatal("temperature baseline must be tracked for every region after two ticks")
	}
}

func TestRunTickKeepsRegionCountAndIDsInvariant(t *testing.T) {
	w := newGridWorld(7, 5, 5)
	var sched Schedule
	for tick := uint64(1); tick <= 10; tick++ {
		if _, err := sched.RunTick(&w, tick); err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
	}
	if err := w.CheckInvariants(); err != nil {
		t.Fatalf("invariants violated after 10 ticks: %v", err)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	if got := classifyBiome(classifyBelt(latCutSubpolar), 0); got != domain.BiomePolarTundra {
		t.Errorf("classifyBiome at polar boundary = %d, want polar tundra", got)
	}
	if got := classifyBiome(beltEquatorial, dryHighEquatorial); got != domain.BiomeDesert {
		t.Errorf("classifyBiome equatorial at high-dryness cut = %d, want desert", got)
	}
	if got := classifyBiome(beltEquatorial, dryLowEquatorial-0.01); got != domain.BiomeTropicalRainforest {
		t.Errorf("classifyBiome equatorial below low-dryness cut = %d, want rainforest", got)
	}
}
