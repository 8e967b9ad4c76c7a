// Package simfixed holds the fixed-point arithmetic primitives every kernel
// uses to mutate a region's integer "meters" (spec.md §4.2). Kernels may do
// floating-point math transiently inside a computation, but every value that
// crosses back into a Diff must pass through one of these helpers so the
// result is clamped and, for deltas, reported as the delta that actually
// applied (not the delta requested).
package simfixed

import "github.com/aeonis-sim/aeonis/internal/domain"

// ClampI32 clamps v to [min, max].
func ClampI32(v, min, max int32) int32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampU16 clamps a signed accumulation to an unsigned 16-bit meter's
// [0, max] range, saturating rather than wrapping.
func ClampU16(v int32, max uint16) uint16 {
	if v < 0 {
		return 0
	}
	if v > int32(max) {
		return max
	}
	return uint16(v)
}

// ClampBiomeIndex clamps a candidate biome classification to the closed
// [BiomePolarTundra, BiomeTropicalRainforest] set; callers computing a biome
// index arithmetically (rather than picking from the enumerated constants)
// must route the result through here before storing it.
func ClampBiomeIndex(v int32) uint8 {
	if v < domain.BiomePolarTundra {
		return domain.BiomePolarTundra
	}
	if v > domain.BiomeTropicalRainforest {
		return domain.BiomeTropicalRainforest
	}
	return uint8(v)
}

// ClampHazardMeter clamps a drought/flood gauge to [0, ResourceMax].
func ClampHazardMeter(v int32) uint16 {
	return ClampU16(v, domain.ResourceMax)
}

// CommitResourceDelta applies a requested signed delta to a current water or
// soil reading (each bounded to [0, ResourceMax]) and returns the delta that
// actually took effect after clamping — this is the value a kernel records
// into a Diff's additive water/soil entries, never the requested delta.
func CommitResourceDelta(current uint16, requested int32) (newValue uint16, appliedDelta int32) {
	raw := int32(current) + requested
	clamped := ClampU16(raw, domain.ResourceMax)
	return clamped, int32(clamped) - int32(current)
}

// ResourceRatio returns v/ResourceMax as a float in [0, 1], the form most
// kernel formulas consume water/soil readings in.
func ResourceRatio(v uint16) float64 {
	return float64(v) / float64(domain.ResourceMax)
}

// RoundDivI32 divides numer by denom (denom > 0) and rounds the quotient to
// the nearest integer, ties rounding away from zero — the integer
// equivalent of round(numer/denom) with no floating-point step, so the
// result is identical bit-for-bit across platforms.
func RoundDivI32(numer, denom int32) int32 {
	if denom <= 0 {
		panic("simfixed: RoundDivI32 requires denom > 0")
	}
	neg := numer < 0
	if neg {
		numer = -numer
	}
	q := (numer*2 + denom) / (2 * denom)
	if neg {
		return -q
	}
	return q
}

// BlendHazard advances prev one half-life step toward target: the gap is
// halved with the fraction rounded up (ceiling), away from zero, so a gauge
// released toward 0 always lands on exactly 0 after finitely many ticks
// instead of asymptotically approaching it.
func BlendHazard(prev, target int32) int32 {
	diff := target - prev
	if diff == 0 {
		return prev
	}
	abs := diff
	if abs < 0 {
		abs = -abs
	}
	half := (abs + 1) / 2
	if diff > 0 {
		return prev + half
	}
	return prev - half
}

// SaturatingAddI32 adds b to a without overflowing int32, clamping to the
// type's extremes instead of wrapping.
func SaturatingAddI32(a, b int32) int32 {
	sum := int64(a) + int64(b)
	if sum > int64(int32(1<<31-1)) {
		return 1<<31 - 1
	}
	if sum < int64(-(1 << 31)) {
		return -(1 << 31)
	}
	return int32(sum)
}
