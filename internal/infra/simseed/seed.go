// Package simseed turns a domain.Seed document into a fully populated
// domain.World: the only place elevation noise and latitude-biased initial
// resources are sampled (spec.md §6). The core engine never reads a seed
// file itself — a CLI or daemon command loads one and calls BuildWorld.
package simseed

import (
	"github.com/aeonis-sim/aeonis/internal/domain"
	"github.com/aeonis-sim/aeonis/internal/infra/simfixed"
	"github.com/aeonis-sim/aeonis/internal/infra/simrng"
)

const (
	initialBareAlbedoMilli = 150
	initialWaterBase       = domain.ResourceMax / 2
	initialSoilBase        = domain.ResourceMax / 2
)

// BuildWorld samples a width×height grid of regions from seed's elevation
// noise and humidity bias parameters. worldSeedOverride, if non-nil,
// replaces seed.ElevationNoise.Seed as the RNG root — letting a caller
// reproduce one named seed document under several different random streams.
func BuildWorld(seed domain.Seed, worldSeedOverride *uint64) domain.World {
	rootSeed := seed.ElevationNoise.Seed
	if worldSeedOverride != nil {
		rootSeed = *worldSeedOverride
	}

	regions := make([]domain.Region, int(seed.Width)*int(seed.Height))
	elevationRoot := simrng.From(rootSeed, "seed:elevation", 0)
	waterRoot := simrng.From(rootSeed, "seed:resources:water", 0)
	soilRoot := simrng.From(rootSeed, "seed:resources:soil", 0)

	for y := uint32(0); y < seed.Height; y++ {
		for x := uint32(0); x < seed.Width; x++ {
			idx := int(y*seed.Width + x)
			lat := domain.LatitudeFromGrid(y, seed.Height)

			elevRS := regionStream(elevationRoot, idx)
			elevation := sampleElevation(elevRS, x, y, seed.ElevationNoise)

			waterRS := regionStream(waterRoot, idx)
			soilRS := regionStream(soilRoot, idx)
			humidityFactor := humidityBiasAt(lat, seed.HumidityBias)

			water := simfixed.ClampU16(int32(float64(initialWaterBase)*humidityFactor)+int32(waterRS.NextSignedUnit()*500), domain.ResourceMax)
			soil := simfixed.ClampU16(int32(float64(initialSoilBase)*humidityFactor)+int32(soilRS.NextSignedUnit()*500), domain.ResourceMax)

			regions[idx] = domain.Region{
				ID:          uint32(idx),
				X:           x,
				Y:           y,
				LatitudeDeg: lat,
				ElevationM:  elevation,
				Water:       water,
				Soil:        soil,
				AlbedoMilli: initialBareAlbedoMilli,
				Biome:       initialBiome(lat, elevation),
			}
		}
	}

	return domain.NewWorld(rootSeed, seed.Width, seed.Height, regions)
}

func regionStream(root simrng.Stream, region int) simrng.Stream {
	label := simrng.StreamLabel(domain.RegionKey(region))
	return root.Derive(label)
}

// sampleElevation sums seed.ElevationNoise.Octaves octaves of per-cell
// random samples (each drawn independently for this cell, with no
// interpolation between cells), scaled by amp·freq with amp halving every
// octave and freq held constant, clamped to the declared elevation range.
func sampleElevation(rs simrng.Stream, x, y uint32, noise domain.ElevationNoise) int32 {
	total := 0.0
	amp := noise.Amp
	freq := noise.Freq
	for o := uint8(0); o < noise.Octaves; o++ {
		cellLabel := simrng.StreamLabel(octaveKey(x, y, o))
		octaveRS := rs.Derive(cellLabel)
		sample := octaveRS.NextSignedUnit()
		total += sample * amp * freq
		amp *= 0.5
		freq *= 1.0
	}
	return simfixed.ClampI32(int32(total), domain.ElevationMinM, domain.ElevationMaxM)
}

func octaveKey(x, y uint32, octave uint8) string {
	return "octave:" + itoa(int(x)) + ":" + itoa(int(y)) + ":" + itoa(int(octave))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// humidityBiasAt interpolates HumidityBias.Equator/.Poles by latitude,
// returning a multiplicative factor applied to the initial resource base.
func humidityBiasAt(latitudeDeg float64, bias domain.HumidityBias) float64 {
	abs := latitudeDeg
	if abs < 0 {
		abs = -abs
	}
	t := abs / 90.0
	return bias.Equator*(1-t) + bias.Poles*t
}

func initialBiome(latitudeDeg float64, elevationM int32) uint8 {
	abs := latitudeDeg
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 60:
		return domain.BiomePolarTundra
	case abs >= 45:
		return domain.BiomeBorealMix
	case abs >= 25:
		return domain.BiomeTemperateMix
	default:
		if elevationM > 1500 {
			return domain.BiomeSteppe
		}
		return domain.BiomeTropicalRainforest
	}
}
