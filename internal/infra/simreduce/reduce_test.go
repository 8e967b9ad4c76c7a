package simreduce

import (
	"math/rand/v2"
	"testing"

	"github.com/aeonis-sim/aeonis/internal/domain"
)

func newTestWorld(n int) domain.World {
	regions := make([]domain.Region, n)
	for i := range regions {
		regions[i] = domain.Region{ID: uint32(i)}
	}
	return domain.NewWorld(1, uint32(n), 1, regions)
}

func TestApplyClampsOutOfRangeValues(t *testing.T) {
	w := newTestWorld(3)
	d := &domain.Diff{}
	d.RecordElevation(0, domain.ElevationMaxM+500)
	d.RecordElevation(1, domain.ElevationMinM-500)
	d.RecordAlbedo(2, 5000)

	if err := Apply(&w, d); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if w.Regions[0].ElevationM != domain.ElevationMaxM {
		t.Errorf("elevation not clamped to max: %d", w.Regions[0].ElevationM)
	}
	if w.Regions[1].ElevationM != domain.ElevationMinM {
		t.Errorf("elevation not clamped to min: %d", w.Regions[1].ElevationM)
	}
	if w.Regions[2].AlbedoMilli != domain.AlbedoMaxMilli {
		t.Errorf("albedo not clamped to max: %d", w.Regions[2].AlbedoMilli)
	}
}

func TestApplyRejectsOutOfRangeRegion(t *testing.T) {
	w := newTestWorld(2)
	d := &domain.Diff{}
	d.RecordElevation(7, 10)
	if err := Apply(&w, d); err == nil {
		t.Fatal("expected an error for an out-of-range region index")
	}
}

func TestApplyWaterDeltaAccumulatesAndClamps(t *testing.T) {
	w := newTestWorld(1)
	w.Regions[0].Water = domain.ResourceMax - 10
	d := &domain.Diff{}
	d.RecordWaterDelta(0, 500)
	if err := Apply(&w, d); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if w.Regions[0].Water != domain.ResourceMax {
		t.Errorf("water not clamped: %d", w.Regions[0].Water)
	}
}

// TestApplyIsOrderIndependentWithinADiff builds a diff through the
// recorders, makes a copy whose lists are shuffled out of region order by
// direct assignment, and checks both produce identical worlds after Apply —
// the property reduce.Apply is required to hold regardless of diff's
// internal list ordering.
func TestApplyIsOrderIndependentWithinADiff(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	const n = 20

	type op struct {
		region int
		kind   int
		value  int32
	}
	ops := make([]op, 200)
	for i := range ops {
		ops[i] = op{
			region: r.IntN(n),
			kind:   r.IntN(4),
			value:  int32(r.IntN(2000) - 1000),
		}
	}

	buildDiff := func(order []int) *domain.Diff {
		d := &domain.Diff{}
		for _, idx := range order {
			o := ops[idx]
			switch o.kind {
			case 0:
				d.RecordElevation(o.region, o.value)
			case 1:
				d.RecordWaterDelta(o.region, o.value)
			case 2:
				d.RecordTemperature(o.region, o.value)
			case 3:
				d.RecordAlbedo(o.region, o.value)
			}
		}
		return d
	}

	orderA := make([]int, len(ops))
	for i := range orderA {
		orderA[i] = i
	}
	diffA := buildDiff(orderA)
	diffB := &domain.Diff{
		Elevation:   append([]domain.ScalarEntry(nil), diffA.Elevation...),
		Water:       append([]domain.DeltaEntry(nil), diffA.Water...),
		Temperature: append([]domain.ScalarEntry(nil), diffA.Temperature...),
		Albedo:      append([]domain.ScalarEntry(nil), diffA.Albedo...),
	}
	for _, list := range [][]domain.ScalarEntry{diffB.Elevation, diffB.Temperature, diffB.Albedo} {
		r.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
	}
	r.Shuffle(len(diffB.Water), func(i, j int) { diffB.Water[i], diffB.Water[j] = diffB.Water[j], diffB.Water[i] })

	worldA := newTestWorld(n)
	worldB := newTestWorld(n)

	if err := Apply(&worldA, diffA); err != nil {
		t.Fatalf("Apply A: %v", err)
	}
	if err := Apply(&worldB, diffB); err != nil {
		t.Fatalf("Apply B: %v", err)
	}

	for i := 0; i < n; i++ {
		if worldA.Regions[i] != worldB.Regions[i] {
			t.Fatalf("region %d diverged: %+v vs %+v", i, worldA.Regions[i], worldB.Regions[i])
		}
	}
}
