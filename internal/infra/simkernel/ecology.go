package simkernel

import (
	"github.com/aeonis-sim/aeonis/internal/domain"
	"github.com/aeonis-sim/aeonis/internal/infra/simfixed"
	"github.com/aeonis-sim/aeonis/internal/infra/simrng"
)

// resourceTarget is a biome's steady-state water/soil ratio, the level its
// drift pulls the region toward tick over tick.
type resourceTarget struct {
	water float64
	soil  float64
}

// Per-biome (water_target, soil_target) profile, indexed by biome constant.
// Spec.md leaves the exact targets to "a per-biome profile" without naming
// numbers; DESIGN.md records this table as an implementer-discretion choice,
// listed in biome-index order.
var biomeResourceTarget = [6]resourceTarget{
	domain.BiomePolarTundra:        {water: 0.55, soil: 0.30},
	domain.BiomeBorealMix:          {water: 0.55, soil: 0.55},
	domain.BiomeTemperateMix:       {water: 0.50, soil: 0.65},
	domain.BiomeSteppe:             {water: 0.35, soil: 0.45},
	domain.BiomeDesert:             {water: 0.15, soil: 0.20},
	domain.BiomeTropicalRainforest: {water: 0.75, soil: 0.60},
}

const (
	waterDriftGain   = 200.0
	soilDriftGain    = 150.0
	waterDriftClamp  = 180
	soilDriftClamp   = 120
	waterJitterSpan  = 20.0
	soilJitterSpan   = 15.0

	floodWaterSurplusFloor = 8_500 // new_water above this feeds the flood target

	droughtCauseThreshold     = 2_000
	floodCauseThreshold       = 600
	soilFertilityLowThreshold = 2_500

	collapseBiomeFraction    = 0.6
	stagnationPrecipVariance = 40 // mm
)

// runEcology drifts each region's water and soil readings toward its biome's
// target ratio (spec.md §4.10), decays the drought/flood hazard gauges
// toward targets derived from the post-drift water level by deterministic
// half-life steps, and raises world-level stagnation or collapse warnings
// from the aggregate biome/precipitation state.
func runEcology(world *domain.World, root simrng.Stream, tick uint64) (domain.Diff, []domain.Highlight, []string, error) {
	var diff domain.Diff
	var highlights []domain.Highlight
	var chronicle []string

	minPrecip, maxPrecip := int32(2147483647), int32(-2147483648)
	desertLikeCount := 0

	for i := range world.Regions {
		r := &world.Regions[i]
		rs := regionStream(root, i)
		target := biomeResourceTarget[r.Biome]

		waterJitter := rs.NextSignedUnit() * waterJitterSpan
		waterRatio := simfixed.ResourceRatio(r.Water)
		waterDrift := simfixed.ClampI32(int32(waterDriftGain*(target.water-waterRatio)+waterJitter), -waterDriftClamp, waterDriftClamp)
		newWater, waterApplied := simfixed.CommitResourceDelta(r.Water, waterDrift)
		diff.RecordWaterDelta(i, waterApplied)

		soilJitter := rs.NextSignedUnit() * soilJitterSpan
		soilRatio := simfixed.ResourceRatio(r.Soil)
		soilDrift := simfixed.ClampI32(int32(soilDriftGain*(target.soil-soilRatio)+soilJitter), -soilDriftClamp, soilDriftClamp)
		newSoil, soilApplied := simfixed.CommitResourceDelta(r.Soil, soilDrift)
		diff.RecordSoilDelta(i, soilApplied)

		droughtTarget := int32(domain.ResourceMax) - int32(newWater)
		floodTarget := int32(newWater) - floodWaterSurplusFloor
		if floodTarget < 0 {
			floodTarget = 0
		}

		drought := simfixed.ClampHazardMeter(simfixed.BlendHazard(int32(r.Hazards.Drought), droughtTarget))
		flood := simfixed.ClampHazardMeter(simfixed.BlendHazard(int32(r.Hazards.Flood), floodTarget))
		if drought != r.Hazards.Drought || flood != r.Hazards.Flood {
			diff.RecordHazard(i, drought, flood)
		}

		if drought > droughtCauseThreshold {
			diff.RecordCause(domain.Cause{Target: domain.RegionKey(i), Code: domain.CauseDroughtFlag})
			highlights = append(highlights, domain.HazardHighlight(uint32(i), "drought", float32(drought)))
		}
		if flood > floodCauseThreshold {
			diff.RecordCause(domain.Cause{Target: domain.RegionKey(i), Code: domain.CauseFloodFlag})
			highlights = append(highlights, domain.HazardHighlight(uint32(i), "flood", float32(flood)))
		}
		if int32(newSoil) < soilFertilityLowThreshold {
			diff.RecordCause(domain.Cause{Target: domain.RegionKey(i), Code: domain.CauseSoilFertilityLow})
		}

		if int32(r.PrecipitationMM) < minPrecip {
			minPrecip = int32(r.PrecipitationMM)
		}
		if int32(r.PrecipitationMM) > maxPrecip {
			maxPrecip = int32(r.PrecipitationMM)
		}
		if r.Biome == domain.BiomeDesert || r.Biome == domain.BiomePolarTundra {
			desertLikeCount++
		}
	}

	n := len(world.Regions)
	if n > 0 && float64(desertLikeCount)/float64(n) >= collapseBiomeFraction {
		diff.RecordCause(domain.Cause{Target: "world", Code: domain.CauseCollapseWarning})
		chronicle = append(chronicle, "more than half the world has collapsed into desert or tundra")
	}
	if n > 0 && (maxPrecip-minPrecip) < stagnationPrecipVariance {
		diff.RecordCause(domain.Cause{Target: "world", Code: domain.CauseStagnationWarning})
		chronicle = append(chronicle, "precipitation has stopped varying across the world")
	}

	return diff, highlights, chronicle, nil
}
