package simkernel

import (
	"github.com/aeonis-sim/aeonis/internal/domain"
	"github.com/aeonis-sim/aeonis/internal/infra/simfixed"
	"github.com/aeonis-sim/aeonis/internal/infra/simrng"
)

// albedoFeedbackDivisor is the denominator of the per-tick step:
// raw_adjust = round(-anomaly / albedoFeedbackDivisor), clamped to
// [-1, 1] tenths — a deliberately tiny, slow-moving nudge so a single
// tick's albedo swing can shift next tick's baseline by at most one tenth
// of a degree, never the full anomaly.
const albedoFeedbackDivisor = 120

// runCoupler closes the albedo/temperature feedback loop with an explicit
// one-tick delay: it compares this tick's committed albedo against the
// albedo snapshot left by the previous tick's coupler run, and stages the
// resulting temperature_baseline adjustment for next tick's atmosphere
// kernel to consume — never this tick's. This breaks the
// albedo→temperature→humidity→precipitation→albedo cycle that would
// otherwise make a single tick's state depend on itself.
//
// world is taken as an explicit parameter like every other kernel; no
// package-level or goroutine-local state carries the snapshot between ticks
// — it lives in world.Climate, which the caller owns and threads through
// every stage of every tick.
func runCoupler(world *domain.World, root simrng.Stream, tick uint64) (domain.Diff, []domain.Highlight, []string, error) {
	var diff domain.Diff
	cs := &world.Climate
	cs.EnsureRegionCapacity(len(world.Regions))

	var anomalySum, adjustSum int64
	touched := 0

	for i := range world.Regions {
		r := &world.Regions[i]
		anomaly := int32(r.AlbedoMilli) - cs.LastAlbedoMilli[i]
		if anomaly == 0 {
			cs.LastAlbedoMilli[i] = int32(r.AlbedoMilli)
			continue
		}

		rawAdjust := simfixed.RoundDivI32(-anomaly, albedoFeedbackDivisor)
		adjustTenths := simfixed.ClampI32(rawAdjust, -1, 1)

		current := int32(world.Climate.TemperatureBaselineTenths[i])
		next := simfixed.ClampI32(current+adjustTenths, -domain.TemperatureBaselineLimitTenths, domain.TemperatureBaselineLimitTenths)
		diff.RecordTemperatureBaseline(i, next)
		diff.RecordCause(domain.Cause{Target: domain.RegionKey(i), Code: domain.CauseAlbedoFeedback})
		diff.RecordCause(domain.Cause{Target: domain.RegionKey(i), Code: domain.CauseEnergyBalanceAdjustment})

		anomalySum += int64(anomaly)
		adjustSum += int64(next - current)
		touched++

		cs.LastAlbedoMilli[i] = int32(r.AlbedoMilli)
	}

	if touched > 0 {
		meanAnomaly := int32(anomalySum / int64(touched))
		meanAdjust := int32(adjustSum / int64(touched))
		diff.RecordDiagnostic("albedo_anomaly_milli", meanAnomaly)
		diff.RecordDiagnostic("energy_balance", meanAdjust)
		diff.SetDiagEnergy(domain.DiagEnergy{
			MeanAlbedoAnomalyMilli:      meanAnomaly,
			MeanTemperatureAdjustTenths: meanAdjust,
		})
	}

	return diff, nil, nil, nil
}
