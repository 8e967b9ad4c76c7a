package simkernel

import (
	"fmt"

	"github.com/aeonis-sim/aeonis/internal/domain"
	"github.com/aeonis-sim/aeonis/internal/infra/simfixed"
	"github.com/aeonis-sim/aeonis/internal/infra/simrng"
)

const (
	yearLengthTicks = 360

	baseInsolationTenths = 1000 // equator, equinox

	obliquityAmplitudeTenths = 240
	obliquityPeriodTicks     = yearLengthTicks * 41 // long obliquity cycle

	precessionPeriodTicks = yearLengthTicks * 26

	solarCycleAmplitudeTenths = 15
	solarCyclePeriodTicks     = yearLengthTicks * 11

	tideBaseMilli     = 500
	tideSpringBonus   = 350
	tideNeapPenalty   = 250
	lunarPeriodTicks  = 29
)

// runAstronomy computes each region's insolation and tidal envelope from its
// latitude and the tick's orbital phase: seasonal insolation swing driven by
// obliquity, a slow precession phase shift, a small solar-cycle modulation,
// and a spring/neap tidal envelope from the lunar phase. Every periodic term
// is evaluated with the bounded Taylor sine/cosine, never math.Sin/math.Cos.
func runAstronomy(world *domain.World, root simrng.Stream, tick uint64) (domain.Diff, []domain.Highlight, []string, error) {
	var diff domain.Diff

	seasonPhase := twoPiConst * float64(tick%yearLengthTicks) / float64(yearLengthTicks)
	obliquityPhase := twoPiConst * float64(tick%obliquityPeriodTicks) / float64(obliquityPeriodTicks)
	precessionPhase := twoPiConst * float64(tick%precessionPeriodTicks) / float64(precessionPeriodTicks)
	solarPhase := twoPiConst * float64(tick%solarCyclePeriodTicks) / float64(solarCyclePeriodTicks)
	lunarPhase := twoPiConst * float64(tick%lunarPeriodTicks) / float64(lunarPeriodTicks)

	obliquityTenths := obliquityAmplitudeTenths * sinTaylor(obliquityPhase)
	solarTenths := solarCycleAmplitudeTenths * sinTaylor(solarPhase)

	for i := range world.Regions {
		r := &world.Regions[i]
		latRad := r.LatitudeDeg * piConst / 180.0

		seasonal := obliquityTenths * sinTaylor(seasonPhase+precessionPhase) * cosTaylor(latRad)
		latitudinal := baseInsolationTenths * cosTaylor(latRad)

		insolation := simfixed.ClampI32(int32(latitudinal+seasonal+solarTenths), 0, 2*baseInsolationTenths)
		diff.RecordInsolation(i, insolation)

		springness := cosTaylor(lunarPhase)
		tideEnv := tideBaseMilli + springness*tideSpringBonus
		if springness < 0 {
			tideEnv = tideBaseMilli + springness*tideNeapPenalty
		}
		diff.RecordTideEnvelope(i, int32(tideEnv))

		if i == 0 {
			if springness > 0.85 {
				diff.RecordCause(domain.Cause{Target: domain.RegionKey(i), Code: domain.CauseTideSpring})
			} else if springness < -0.85 {
				diff.RecordCause(domain.Cause{Target: domain.RegionKey(i), Code: domain.CauseTideNeap})
			}
		}
	}

	if tick%yearLengthTicks == 0 {
		diff.RecordCause(domain.Cause{Target: "world", Code: domain.CauseSeasonalShift, Note: fmt.Sprintf("tick=%d", tick)})
	}
	if tick%obliquityPeriodTicks == 0 {
		diff.RecordCause(domain.Cause{Target: "world", Code: domain.CauseObliquityShift})
	}
	if tick%precessionPeriodTicks == 0 {
		diff.RecordCause(domain.Cause{Target: "world", Code: domain.CausePrecessionPhase})
	}
	if solarTenths > solarCycleAmplitudeTenths*0.95 {
		diff.RecordCause(domain.Cause{Target: "world", Code: domain.CauseSolarCyclePeak})
	}

	return diff, nil, nil, nil
}
