// Package simreduce applies a Diff to a World: the single choke point every
// kernel's output passes through before the next kernel runs (spec.md §4.4).
package simreduce

import (
	"fmt"

	"github.com/aeonis-sim/aeonis/internal/domain"
	"github.com/aeonis-sim/aeonis/internal/infra/simfixed"
)

// Apply commits diff into world in a fixed field order, clamping every
// touched meter to its declared range. It defensively re-sorts diff first, so
// Apply(world, d) == Apply(world, sorted(d)) regardless of how d's lists were
// populated — directly, via its recorders, or via deserialization.
//
// Field order is fixed and must never depend on diff's own internal ordering:
// biome, water, soil, insolation, tide envelope, elevation, temperature,
// temperature baseline, precipitation, humidity, albedo, permafrost, melt
// pulse and freshwater flux, ice mass, heatwave index, climate diagnostic
// scalar, hazards. Insolation, tide envelope, melt pulse, heatwave index and
// the climate diagnostic scalar are reported-only: they carry no persistent
// World storage of their own (insolation's only persistent trace is
// Climate.LastInsolationTenths, consumed the following tick by humidity
// transport) — Apply still bounds-checks their region indices so a
// malformed diff is rejected at the same choke point as everything else.
func Apply(world *domain.World, diff *domain.Diff) error {
	diff.Sort()

	if err := checkBounds(world, diff); err != nil {
		return err
	}

	for _, e := range diff.Biome {
		world.Regions[e.Region].Biome = simfixed.ClampBiomeIndex(int32(e.Biome))
	}
	for _, e := range diff.Water {
		r := &world.Regions[e.Region]
		r.Water, _ = simfixed.CommitResourceDelta(r.Water, e.Delta)
	}
	for _, e := range diff.Soil {
		r := &world.Regions[e.Region]
		r.Soil, _ = simfixed.CommitResourceDelta(r.Soil, e.Delta)
	}
	for _, e := range diff.Insolation {
		world.Climate.EnsureRegionCapacity(e.Region + 1)
		world.Climate.LastInsolationTenths[e.Region] = e.Value
	}
	for _, e := range diff.Elevation {
		world.Regions[e.Region].ElevationM = simfixed.ClampI32(e.Value, domain.ElevationMinM, domain.ElevationMaxM)
	}
	for _, e := range diff.Temperature {
		v := simfixed.ClampI32(e.Value, domain.TemperatureMinTenthsC, domain.TemperatureMaxTenthsC)
		world.Regions[e.Region].TemperatureTenthsC = int16(v)
	}
	for _, e := range diff.TemperatureBaseline {
		v := simfixed.ClampI32(e.Value, -domain.TemperatureBaselineLimitTenths, domain.TemperatureBaselineLimitTenths)
		world.Climate.EnsureRegionCapacity(e.Region + 1)
		world.Climate.TemperatureBaselineTenths[e.Region] = int16(v)
	}
	for _, e := range diff.Precipitation {
		world.Regions[e.Region].PrecipitationMM = simfixed.ClampU16(e.Value, domain.PrecipitationMaxMM)
	}
	for _, e := range diff.Albedo {
		world.Regions[e.Region].AlbedoMilli = simfixed.ClampU16(e.Value, domain.AlbedoMaxMilli)
	}
	for _, e := range diff.PermafrostActive {
		world.Climate.EnsureRegionCapacity(e.Region + 1)
		world.Climate.PermafrostActiveCM[e.Region] = simfixed.ClampU16(e.Value, domain.PermafrostMaxCM)
	}
	for _, e := range diff.FreshwaterFlux {
		world.Regions[e.Region].FreshwaterFluxTenthsMM = simfixed.ClampU16(e.Value, domain.FreshwaterFluxMaxTenthsMM)
	}
	for _, e := range diff.IceMass {
		v := e.Value
		if v < 0 {
			v = 0
		}
		world.Regions[e.Region].IceMassKilotons = uint32(v)
	}
	for _, e := range diff.Hazards {
		world.Regions[e.Region].Hazards = domain.Hazards{
			Drought: simfixed.ClampHazardMeter(int32(e.Drought)),
			Flood:   simfixed.ClampHazardMeter(int32(e.Flood)),
		}
	}

	return nil
}

// checkBounds rejects a diff that references a region outside world's grid,
// scanning every region-keyed list of the diff, including the reported-only
// ones — humidity, for one, has no dedicated Region or ClimateState field
// (the atmosphere kernel computes and uses it within its own run and only
// reports it in the diff) but still must not reference a nonexistent region.
func checkBounds(world *domain.World, diff *domain.Diff) error {
	n := len(world.Regions)
	check := func(region int) error {
		if region < 0 || region >= n {
			return fmt.Errorf("%w: region %d out of range [0,%d)", domain.ErrRegionIndexMismatch, region, n)
		}
		return nil
	}
	for _, e := range diff.Biome {
		if err := check(e.Region); err != nil {
			return err
		}
	}
	for _, e := range diff.Water {
		if err := check(e.Region); err != nil {
			return err
		}
	}
	for _, e := range diff.Soil {
		if err := check(e.Region); err != nil {
			return err
		}
	}
	for _, e := range diff.Insolation {
		if err := check(e.Region); err != nil {
			return err
		}
	}
	for _, e := range diff.TideEnvelope {
		if err := check(e.Region); err != nil {
			return err
		}
	}
	for _, e := range diff.Elevation {
		if err := check(e.Region); err != nil {
			return err
		}
	}
	for _, e := range diff.Temperature {
		if err := check(e.Region); err != nil {
			return err
		}
	}
	for _, e := range diff.TemperatureBaseline {
		if err := check(e.Region); err != nil {
			return err
		}
	}
	for _, e := range diff.Precipitation {
		if err := check(e.Region); err != nil {
			return err
		}
	}
	for _, e := range diff.Humidity {
		if err := check(e.Region); err != nil {
			return err
		}
	}
	for _, e := range diff.Albedo {
		if err := check(e.Region); err != nil {
			return err
		}
	}
	for _, e := range diff.PermafrostActive {
		if err := check(e.Region); err != nil {
			return err
		}
	}
	for _, e := range diff.FreshwaterFlux {
		if err := check(e.Region); err != nil {
			return err
		}
	}
	for _, e := range diff.MeltPulse {
		if err := check(e.Region); err != nil {
			return err
		}
	}
	for _, e := range diff.IceMass {
		if err := check(e.Region); err != nil {
			return err
		}
	}
	for _, e := range diff.HeatwaveIdx {
		if err := check(e.Region); err != nil {
			return err
		}
	}
	for _, e := range diff.DiagClimate {
		if err := check(e.Region); err != nil {
			return err
		}
	}
	for _, e := range diff.Hazards {
		if err := check(e.Region); err != nil {
			return err
		}
	}
	return nil
}
