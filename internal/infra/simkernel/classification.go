package simkernel

import (
	"github.com/aeonis-sim/aeonis/internal/domain"
	"github.com/aeonis-sim/aeonis/internal/infra/simfixed"
	"github.com/aeonis-sim/aeonis/internal/infra/simrng"
)

// latitudeBelt is one of the five closed belts a region's |latitude| sorts
// into, read off the fixed cut-points {15, 30, 45, 60}.
type latitudeBelt int

const (
	beltEquatorial latitudeBelt = iota
	beltSubtropical
	beltTemperate
	beltSubpolar
	beltPolar
)

const (
	latCutEquatorial  = 15.0
	latCutSubtropical = 30.0
	latCutTemperate   = 45.0
	latCutSubpolar    = 60.0
)

// Per-belt dryness-score cut points. The low cut is given explicitly in
// spec.md's belt table header (0.25/0.3/0.35 for Equatorial/Subtropical/
// Temperate); the table gives no numbers for the mid/high boundary or for
// Subpolar's single cut, so DESIGN.md records the values below — each high
// cut 0.40 above its belt's low cut, and Subpolar's cut continuing the low
// cuts' 0.05 step — as an implementer-discretion decision.
const (
	dryLowEquatorial  = 0.25
	dryHighEquatorial = 0.65

	dryLowSubtropical  = 0.30
	dryHighSubtropical = 0.70

	dryLowTemperate  = 0.35
	dryHighTemperate = 0.75

	dryLowSubpolar = 0.40
)

// runClassification assigns each region's biome from its latitude belt and a
// dryness score derived from its water ratio, elevation, and a per-region
// jitter draw (spec.md §4.9), and unconditionally records the latitude,
// seasonal, and orographic causes every region carries every tick.
func runClassification(world *domain.World, root simrng.Stream, tick uint64) (domain.Diff, []domain.Highlight, []string, error) {
	var diff domain.Diff
	var chronicle []string

	for i := range world.Regions {
		r := &world.Regions[i]
		rs := regionStream(root, i)

		belt := classifyBelt(r.LatitudeDeg)
		dryness := drynessScore(r, rs)
		next := classifyBiome(belt, dryness)

		if next != r.Biome {
			diff.RecordBiome(i, next)
			chronicle = append(chronicle, "region "+domain.RegionKey(i)+" shifted biome")
		}

		diff.RecordCause(domain.Cause{Target: domain.RegionKey(i), Code: domain.CauseLatitudeBelt})
		diff.RecordCause(domain.Cause{Target: domain.RegionKey(i), Code: domain.CauseSeasonalShift})
		diff.RecordCause(domain.Cause{Target: domain.RegionKey(i), Code: domain.CauseOrographicLift})
	}

	return diff, nil, chronicle, nil
}

func classifyBelt(latitudeDeg float64) latitudeBelt {
	abs := latitudeDeg
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < latCutEquatorial:
		return beltEquatorial
	case abs < latCutSubtropical:
		return beltSubtropical
	case abs < latCutTemperate:
		return beltTemperate
	case abs < latCutSubpolar:
		return beltSubpolar
	default:
		return beltPolar
	}
}

func drynessScore(r *domain.Region, rs simrng.Stream) float64 {
	waterRatio := simfixed.ResourceRatio(r.Water)
	elevRatio := float64(r.ElevationM-domain.ElevationMinM) / float64(domain.ElevationMaxM-domain.ElevationMinM)
	jitter := rs.NextSignedUnit()
	score := 0.6*(1-waterRatio) + 0.3*elevRatio + 0.1*jitter
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func classifyBiome(belt latitudeBelt, dryness float64) uint8 {
	switch belt {
	case beltEquatorial:
		switch {
		case dryness < dryLowEquatorial:
			return domain.BiomeTropicalRainforest
		case dryness < dryHighEquatorial:
			return domain.BiomeSteppe
		default:
			return domain.BiomeDesert
		}
	case beltSubtropical:
		switch {
		case dryness < dryLowSubtropical:
			return domain.BiomeTropicalRainforest
		case dryness < dryHighSubtropical:
			return domain.BiomeTemperateMix
		default:
			return domain.BiomeDesert
		}
	case beltTemperate:
		switch {
		case dryness < dryLowTemperate:
			return domain.BiomeTemperateMix
		case dryness < dryHighTemperate:
			return domain.BiomeBorealMix
		default:
			return domain.BiomeSteppe
		}
	case beltSubpolar:
		if dryness < dryLowSubpolar {
			return domain.BiomeBorealMix
		}
		return domain.BiomePolarTundra
	default: // beltPolar
		return domain.BiomePolarTundra
	}
}
