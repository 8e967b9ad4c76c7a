package simkernel

import (
	"github.com/aeonis-sim/aeonis/internal/domain"
	"github.com/aeonis-sim/aeonis/internal/infra/simrng"
)

const (
	heatwaveThresholdTenths = 300 // degrees above which a tick counts toward the heatwave index
	heatwaveIndexScale      = 100 // ticks within the window over threshold, scaled to a 0-600 index
)

// runClimateDiagnostics leaves region meters untouched; its only write to
// world is rolling each region's temperature/precipitation into its
// fixed-window extreme ring buffers in world.Climate (these buffers have no
// Diff representation). From the temperature window it records a
// heatwave_idx and an equal diag_climate scalar per region, and a heatwave
// highlight for a region whose whole window is at or over the threshold. It
// produces no chronicle line. Drought/flood hazard decay is ecology's
// concern (§4.10), not this kernel's.
func runClimateDiagnostics(world *domain.World, root simrng.Stream, tick uint64) (domain.Diff, []domain.Highlight, []string, error) {
	var diff domain.Diff
	var highlights []domain.Highlight
	cs := &world.Climate
	cs.EnsureRegionCapacity(len(world.Regions))

	slot := int(tick % uint64(extremeWindowLen(cs)))

	for i := range world.Regions {
		r := &world.Regions[i]

		cs.TemperatureExtremes[i][slot] = r.TemperatureTenthsC
		cs.PrecipitationExtremes[i][slot] = r.PrecipitationMM

		over := 0
		for _, t := range cs.TemperatureExtremes[i] {
			if int32(t) >= heatwaveThresholdTenths {
				over++
			}
		}
		heatwaveIdx := int32(over * heatwaveIndexScale)
		diff.RecordHeatwaveIdx(i, heatwaveIdx)
		if over >= len(cs.TemperatureExtremes[i]) {
			highlights = append(highlights, domain.HazardHighlight(uint32(i), "heatwave", float32(heatwaveIdx)))
		}

		diff.RecordDiagClimate(i, heatwaveIdx)
	}

	return diff, highlights, nil, nil
}

func extremeWindowLen(cs *domain.ClimateState) int {
	if len(cs.TemperatureExtremes) == 0 {
		return 1
	}
	return len(cs.TemperatureExtremes[0])
}
