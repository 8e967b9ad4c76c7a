package simkernel

import (
	"fmt"
	"math"

	"github.com/aeonis-sim/aeonis/internal/domain"
	"github.com/aeonis-sim/aeonis/internal/infra/simfixed"
	"github.com/aeonis-sim/aeonis/internal/infra/simrng"
)

const (
	seasonalityPeriodTicks = 4

	insolationBiasAmplitude = 0.18
	insolationBiasMin       = 0.82
	insolationBiasMax       = 1.18

	hadleyLatShiftDegreesPerScalar = 5.0

	humidityWaterWeight      = 0.45
	humidityPrevPrecipWeight = 0.40
	humidityInsolationWeight = 0.15
	humidityJitterSpan       = 0.03

	orographyLiftThresholdKm = 0.25
	orographyLiftCoeff       = 0.25
	orographyLiftJitterSpan  = 0.15 // centered on 1.0, giving the spec's 0.85..1.15 range
	orographyPrecipLiftCoeff = 0.8
	orographyPrecipLiftCap   = 3.0
	orographyDryCenter       = 0.24 // centered within the spec's 0.18..0.30 range
	orographyDryJitterSpan   = 0.06
	orographyDryPrecipCoeff  = 0.65
	orographyDryPrecipFloor  = 0.2

	insolationFactorExponent = 0.85
	insolationFactorCap      = 1.2

	tempBaseTenthsC        = -25.0
	tempInsolationCoeff    = 60.0
	tempElevationCoeffPerKm = 6.5
	tempHumidityCoeff      = 10.0
	tempHumidityCenter     = 0.5

	precipBaseMM                = 1000.0
	precipHumidityInsolationCoeff = 2200.0
	precipHadleyHumidityCoeff     = 1200.0
	precipElevBonusCoeffPerKm     = 260.0
	precipElevBonusCapMM          = 700.0
	precipDryPenaltyCoeff         = 700.0
	precipElevPenaltyCoeffPerKm   = 120.0
	precipElevPenaltyExponent     = 1.15
	precipJitterSpan              = 0.02

	monsoonHadleyThreshold   = 0.25
	monsoonHumidityThreshold = 0.6
)

var (
	atmoMoistureLabel     = simrng.StreamLabel("CLIMATE.atmo_moisture")
	atmoOrographyLabel    = simrng.StreamLabel("CLIMATE.atmo_orography")
	atmoPrecipCommitLabel = simrng.StreamLabel("CLIMATE.atmo_precip_commit")
)

// runAtmosphere implements spec.md §4.6: a seasonal scalar drives both the
// Hadley-belt latitudinal shift and a global insolation bias; each region
// samples a humidity fraction from its water, previous precipitation, and
// carried insolation; an orographic pass lifts humidity and precipitation on
// the windward side of a ridge (by latitude-band prevailing wind) and dries
// the leeward neighbour; and a final commit pass derives temperature and
// precipitation from the result. Three independent streams, each derived
// from root by a fixed label, back the humidity jitter, the orographic
// jitter, and the precipitation commit jitter respectively, so none of the
// three stages can perturb another's draws.
func runAtmosphere(world *domain.World, root simrng.Stream, tick uint64) (domain.Diff, []domain.Highlight, []string, error) {
	var diff domain.Diff
	world.Climate.EnsureRegionCapacity(len(world.Regions))

	moistureStream := root.Derive(atmoMoistureLabel)
	orographyStream := root.Derive(atmoOrographyLabel)
	precipCommitStream := root.Derive(atmoPrecipCommitLabel)

	// 1. Seasonality.
	seasonPhase := twoPiConst * float64(tick%seasonalityPeriodTicks) / float64(seasonalityPeriodTicks)
	scalar := sinTaylor(seasonPhase)
	insolBias := clampF64(1+insolationBiasAmplitude*scalar, insolationBiasMin, insolationBiasMax)
	hadleyLatShift := hadleyLatShiftDegreesPerScalar * scalar
	hadley := scalar

	n := len(world.Regions)
	humidity := make([]float64, n)
	multiplier := make([]float64, n)
	for i := range multiplier {
		multiplier[i] = 1.0
	}

	// 2. Humidity sample.
	for i := range world.Regions {
		r := &world.Regions[i]
		waterRatio := simfixed.ResourceRatio(r.Water)
		precipRatio := float64(r.PrecipitationMM) / float64(domain.PrecipitationMaxMM)
		insolationRatio := float64(world.Climate.LastInsolationTenths[i]) / 2000.0

		sample := humidityWaterWeight*waterRatio +
			humidityPrevPrecipWeight*precipRatio +
			humidityInsolationWeight*(1-insolationRatio)

		rs := regionStream(moistureStream, i)
		sample += rs.NextSignedUnit() * humidityJitterSpan
		humidity[i] = clampF64(sample, 0, 1)
	}

	// 3. Orography.
	var liftedCount, driedCount int
	for i := range world.Regions {
		r := &world.Regions[i]
		windOffset := prevailingWindOffset(r.LatitudeDeg)
		upwindIdx, ok := world.NeighborIndex(*r, windOffset, 0)
		if !ok {
			continue
		}
		upwind := &world.Regions[upwindIdx]
		gradientKm := float64(r.ElevationM-upwind.ElevationM) / 1000.0
		if gradientKm <= orographyLiftThresholdKm {
			continue
		}

		rs := regionStream(orographyStream, i)
		liftJitter := 1.0 + rs.NextSignedUnit()*orographyLiftJitterSpan
		lift := gradientKm * orographyLiftCoeff * liftJitter
		humidity[i] = clampF64(humidity[i]+lift, 0, 1)
		multiplier[i] = math.Min(1+lift*orographyPrecipLiftCoeff, orographyPrecipLiftCap)
		diff.RecordCause(domain.Cause{Target: domain.RegionKey(i), Code: domain.CauseOrographicLift})
		liftedCount++

		if downwindIdx, ok := world.NeighborIndex(*r, -windOffset, 0); ok {
			dryJitter := orographyDryCenter + rs.NextSignedUnit()*orographyDryJitterSpan
			dryness := gradientKm * dryJitter
			humidity[downwindIdx] = clampF64(humidity[downwindIdx]-dryness, 0, 1)
			multiplier[downwindIdx] = math.Max(orographyDryPrecipFloor, 1-orographyDryPrecipCoeff*dryness)
			diff.RecordCause(domain.Cause{Target: domain.RegionKey(downwindIdx), Code: domain.CauseRainShadow})
			driedCount++
		}
	}

	// 4. Commit.
	var monsoonCount int
	for i := range world.Regions {
		r := &world.Regions[i]
		effectiveLat := clampF64(r.LatitudeDeg-hadleyLatShift, -90, 90)
		// insolation_factor uses a non-integer exponent with no compact
		// Taylor-series equivalent to sin/cos; math.Pow is pure Go (no cgo,
		// no libm) and portable, so determinism still holds (DESIGN.md notes
		// this as the one deliberate exception to the no-stdlib-math rule).
		insolationFactor := math.Pow((90-math.Abs(effectiveLat))/90, insolationFactorExponent) * insolBias
		if insolationFactor > insolationFactorCap {
			insolationFactor = insolationFactorCap
		}

		humidityRatio := humidity[i]
		tempRaw := tempBaseTenthsC + tempInsolationCoeff*insolationFactor -
			tempElevationCoeffPerKm*(float64(r.ElevationM)/1000.0) +
			tempHumidityCoeff*(humidityRatio-tempHumidityCenter)
		tempTenths := roundF64(10*tempRaw) + int32(world.Climate.TemperatureBaselineTenths[i])
		tempClamped := simfixed.ClampI32(tempTenths, domain.TemperatureMinTenthsC, domain.TemperatureMaxTenthsC)
		diff.RecordTemperature(i, tempClamped)

		elevKm := float64(r.ElevationM) / 1000.0
		elevBonus := elevKm * precipElevBonusCoeffPerKm
		if elevBonus > precipElevBonusCapMM {
			elevBonus = precipElevBonusCapMM
		}
		precipBase := precipBaseMM +
			precipHumidityInsolationCoeff*humidityRatio*insolationFactor +
			precipHadleyHumidityCoeff*hadley*humidityRatio +
			elevBonus -
			precipDryPenaltyCoeff*(1-humidityRatio) -
			precipElevPenaltyCoeffPerKm*math.Pow(elevKm, precipElevPenaltyExponent)

		precipMM := precipBase * multiplier[i]
		rsPrecip := regionStream(precipCommitStream, i)
		precipMM *= 1 + rsPrecip.NextSignedUnit()*precipJitterSpan

		precipClamped := simfixed.ClampI32(roundF64(precipMM), 0, domain.PrecipitationMaxMM)
		diff.RecordPrecipitation(i, precipClamped)
		diff.RecordHumidity(i, simfixed.ClampI32(roundF64(humidityRatio*1000), 0, 1000))

		diff.RecordCause(domain.Cause{
			Target: domain.RegionKey(i),
			Code:   domain.CauseHumidityTransport,
			Note:   fmt.Sprintf("water+precip+insolation→%.3f", humidityRatio),
		})

		if hadley > monsoonHadleyThreshold && humidityRatio >= monsoonHumidityThreshold {
			diff.RecordCause(domain.Cause{Target: domain.RegionKey(i), Code: domain.CauseMonsoonOnset})
			monsoonCount++
		}
	}

	// 5. World-level seasonal/Hadley causes.
	if math.Abs(scalar) > 1e-9 {
		diff.RecordCause(domain.Cause{Target: "world", Code: domain.CauseSeasonalShift})
	}
	if hadleyLatShift != 0 {
		diff.RecordCause(domain.Cause{Target: "world", Code: domain.CauseHadleyDrift})
	}
	if hadley > 0 {
		diff.RecordCause(domain.Cause{Target: "world", Code: domain.CauseHadleyCell})
	}

	chronicle := []string{fmt.Sprintf(
		"atmosphere: hadley_lat_shift=%.2f lifted=%d dried=%d monsoon_regions=%d",
		hadleyLatShift, liftedCount, driedCount, monsoonCount,
	)}

	return diff, nil, chronicle, nil
}

// prevailingWindOffset returns the x-neighbour offset a region's prevailing
// wind band compares elevation against: trade winds (|lat|<30°) and polar
// easterlies (|lat|≥60°) both look to x−1, westerlies (30°≤|lat|<60°) look
// to x+1.
func prevailingWindOffset(latitudeDeg float64) int32 {
	lat := latitudeDeg
	if lat < 0 {
		lat = -lat
	}
	switch {
	case lat < 30:
		return -1
	case lat < 60:
		return 1
	default:
		return -1
	}
}

func clampF64(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// roundF64 rounds to the nearest integer, ties away from zero, without
// going through math.Round (kept alongside the integer RoundDivI32 helper
// as the float-input equivalent used only where a genuinely fractional
// intermediate value must become an int32 meter/tenth reading).
func roundF64(v float64) int32 {
	if v >= 0 {
		return int32(v + 0.5)
	}
	return int32(v - 0.5)
}
