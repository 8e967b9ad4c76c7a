package simkernel

import (
	"github.com/aeonis-sim/aeonis/internal/domain"
	"github.com/aeonis-sim/aeonis/internal/infra/simfixed"
	"github.com/aeonis-sim/aeonis/internal/infra/simrng"
)

const (
	freezingPointTenthsC = 0

	snowAccumPerMM    = 0.8 // fraction of precipitation that becomes snowpack below freezing
	snowMeltPerDegree = 12  // mm of snowpack melted per tenth-degree above freezing

	iceFormationPerSnowMM = 0.02 // kilotons of ice per mm of snowpack surviving a full cycle
	iceMeltPerDegree      = 4    // kilotons melted per tenth-degree above freezing, independent of existing mass

	snowmeltSurgeThresholdMM = 250

	bareAlbedoMilli       = 120
	vegetatedAlbedoMilli  = 180
	snowAlbedoMilli       = 800
	iceAlbedoMilli        = 650
	albedoSmoothingMilli  = 150 // maximum the albedo may move in one tick, to avoid step discontinuities

	permafrostThresholdTenthsC = -50
	permafrostGrowCM           = 2
	permafrostThawCM           = 5
	permafrostMaxTrack         = domain.PermafrostMaxCM

	freshwaterBaselineTenthsMM = 50
)

// runCryosphere evolves snowpack, glacial ice mass, albedo and permafrost
// from the temperature and precipitation committed by atmosphere earlier in
// this same tick, and accumulates any net ice-mass loss into the
// sea-level-equivalent tracker.
func runCryosphere(world *domain.World, root simrng.Stream, tick uint64) (domain.Diff, []domain.Highlight, []string, error) {
	var diff domain.Diff
	var highlights []domain.Highlight
	world.Climate.EnsureRegionCapacity(len(world.Regions))

	for i := range world.Regions {
		r := &world.Regions[i]
		cs := &world.Climate

		belowFreezing := r.TemperatureTenthsC < freezingPointTenthsC
		snowpack := int32(cs.SnowpackMM[i])

		if belowFreezing {
			snowpack += int32(float64(r.PrecipitationMM) * snowAccumPerMM)
		} else {
			melt := int32(float64(r.TemperatureTenthsC) * snowMeltPerDegree)
			if melt > snowpack {
				melt = snowpack
			}
			snowpack -= melt
			if melt > snowmeltSurgeThresholdMM {
				diff.RecordCause(domain.Cause{Target: domain.RegionKey(i), Code: domain.CauseSnowmeltSurge})
				highlights = append(highlights, domain.HazardHighlight(uint32(i), "snowmelt_surge", float32(melt)))
			}
			freshwater := freshwaterBaselineTenthsMM + melt
			diff.RecordFreshwaterFlux(i, simfixed.ClampI32(freshwater, 0, domain.FreshwaterFluxMaxTenthsMM))
		}
		snowpackClamped := simfixed.ClampI32(snowpack, 0, domain.SnowpackMaxMM)
		cs.SnowpackMM[i] = uint16(snowpackClamped)

		iceMass := int32(r.IceMassKilotons)
		iceDelta := int32(0)
		if belowFreezing {
			iceDelta = int32(float64(snowpackClamped) * iceFormationPerSnowMM)
		} else {
			meltRate := int32(float64(r.TemperatureTenthsC) * iceMeltPerDegree)
			iceDelta = -meltRate
		}
		newIceMass := iceMass + iceDelta
		if newIceMass < 0 {
			newIceMass = 0
		}
		diff.RecordIceMass(i, newIceMass)
		if iceDelta != 0 {
			diff.RecordCause(domain.Cause{Target: domain.RegionKey(i), Code: domain.CauseIceMassVariation})
		}
		if iceDelta < 0 {
			diff.RecordCause(domain.Cause{Target: domain.RegionKey(i), Code: domain.CauseGlacierMassBalance})
			cs.AddSeaLevelEquivalentMM(-iceDelta / 1000)
			if -iceDelta > 0 {
				diff.RecordCause(domain.Cause{Target: "world", Code: domain.CauseSeaLevelContribution})
			}
		}

		permafrost := int32(cs.PermafrostActiveCM[i])
		if r.TemperatureTenthsC <= permafrostThresholdTenthsC {
			permafrost += permafrostGrowCM
		} else {
			permafrost -= permafrostThawCM
			if permafrost < int32(cs.PermafrostActiveCM[i]) {
				diff.RecordCause(domain.Cause{Target: domain.RegionKey(i), Code: domain.CausePermafrostThaw})
			}
		}
		diff.RecordPermafrostActive(i, simfixed.ClampI32(permafrost, 0, permafrostMaxTrack))

		targetAlbedo := bareAlbedoMilli
		if r.Biome == domain.BiomeBorealMix || r.Biome == domain.BiomeTemperateMix || r.Biome == domain.BiomeTropicalRainforest {
			targetAlbedo = vegetatedAlbedoMilli
		}
		if newIceMass > 0 {
			targetAlbedo = iceAlbedoMilli
		}
		if snowpackClamped > 0 {
			targetAlbedo = snowAlbedoMilli
		}
		current := int32(r.AlbedoMilli)
		next := smoothAlbedo(current, int32(targetAlbedo))
		diff.RecordAlbedo(i, next)
		if next != current {
			diff.RecordCause(domain.Cause{Target: domain.RegionKey(i), Code: domain.CauseAlbedoFeedback})
		}
	}

	return diff, highlights, nil, nil
}

func smoothAlbedo(current, target int32) int32 {
	delta := target - current
	if delta > albedoSmoothingMilli {
		delta = albedoSmoothingMilli
	}
	if delta < -albedoSmoothingMilli {
		delta = -albedoSmoothingMilli
	}
	return current + delta
}
