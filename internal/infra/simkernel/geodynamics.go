package simkernel

import (
	"github.com/aeonis-sim/aeonis/internal/domain"
	"github.com/aeonis-sim/aeonis/internal/infra/simfixed"
	"github.com/aeonis-sim/aeonis/internal/infra/simrng"
)

const (
	// geodynamicsEventChance is the ≈0.1% per-region per-tick event rate
	// (spec.md §4.5 step 3, event denominator 1_000 — documented but not
	// physically justified; the constant stays fixed for bit-exactness).
	geodynamicsEventChance = 0.001

	volcanicPulseMinM    = 30
	volcanicPulseMaxM    = 180
	volcanicAerosolTicks = 40
)

// runGeodynamics leaves elevation untouched almost every tick: only when a
// region's derived stream draws below the fixed event rate does a volcanic
// pulse fire, adjusting that region's elevation and propagating half the
// delta to each of its four grid neighbours.
func runGeodynamics(world *domain.World, root simrng.Stream, tick uint64) (domain.Diff, []domain.Highlight, []string, error) {
	var diff domain.Diff
	var highlights []domain.Highlight

	for i := range world.Regions {
		r := &world.Regions[i]
		rs := regionStream(root, i)

		if rs.NextF64() >= geodynamicsEventChance {
			continue
		}

		sign := int32(1)
		if rs.NextF64() < 0.5 {
			sign = -1
		}
		span := rs.NextF64()
		pulse := sign * int32(volcanicPulseMinM+span*(volcanicPulseMaxM-volcanicPulseMinM))

		newElevation := simfixed.ClampI32(r.ElevationM+pulse, domain.ElevationMinM, domain.ElevationMaxM)
		diff.RecordElevation(i, newElevation)
		diff.RecordCause(domain.Cause{Target: domain.RegionKey(i), Code: domain.CauseVolcanicAerosolPulse})
		highlights = append(highlights, domain.HazardHighlight(uint32(i), "volcanic_aerosol_pulse", float32(pulse)))

		half := pulse / 2
		for _, offset := range [4][2]int32{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			idx, ok := world.NeighborIndex(*r, offset[0], offset[1])
			if !ok {
				continue
			}
			neighbor := &world.Regions[idx]
			newNeighborElevation := simfixed.ClampI32(neighbor.ElevationM+half, domain.ElevationMinM, domain.ElevationMaxM)
			diff.RecordElevation(idx, newNeighborElevation)
		}
	}

	return diff, highlights, nil, nil
}
