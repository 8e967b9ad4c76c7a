package simfixed

import (
	"math/rand/v2"
	"testing"

	"github.com/aeonis-sim/aeonis/internal/domain"
)

func TestClampU16Bounds(t *testing.T) {
	cases := []struct {
		v    int32
		max  uint16
		want uint16
	}{
		{-5, 100, 0},
		{0, 100, 0},
		{50, 100, 50},
		{100, 100, 100},
		{200, 100, 100},
	}
	for _, c := range cases {
		if got := ClampU16(c.v, c.max); got != c.want {
			t.Errorf("ClampU16(%d, %d) = %d, want %d", c.v, c.max, got, c.want)
		}
	}
}

func TestClampBiomeIndexBounds(t *testing.T) {
	if got := ClampBiomeIndex(-3); got != domain.BiomePolarTundra {
		t.Errorf("ClampBiomeIndex(-3) = %d, want %d", got, domain.BiomePolarTundra)
	}
	if got := ClampBiomeIndex(99); got != domain.BiomeTropicalRainforest {
		t.Errorf("ClampBiomeIndex(99) = %d, want %d", got, domain.BiomeTropicalRainforest)
	}
	if got := ClampBiomeIndex(int32(domain.BiomeSteppe)); got != domain.BiomeSteppe {
		t.Errorf("ClampBiomeIndex(steppe) = %d, want unchanged", got)
	}
}

// TestCommitResourceDeltaClampsAndReportsAppliedDelta fuzzes CommitResourceDelta
// across random current values and requested deltas, standing in for the
// property-based test libraries absent from the retrieved corpus (DESIGN.md
// documents this substitution).
func TestCommitResourceDeltaClampsAndReportsAppliedDelta(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 5000; i++ {
		current := uint16(r.IntN(domain.ResourceMax + 1))
		requested := int32(r.IntN(40_001)) - 20_000

		newValue, applied := CommitResourceDelta(current, requested)

		if newValue > domain.ResourceMax {
			t.Fatalf("newValue %d exceeds ResourceMax for current=%d requested=%d", newValue, current, requested)
		}
		if int32(newValue) != int32(current)+applied {
			t.Fatalf("appliedDelta inconsistent with newValue: current=%d requested=%d newValue=%d applied=%d",
				current, requested, newValue, applied)
		}
		raw := int32(current) + requested
		if raw >= 0 && raw <= domain.ResourceMax && applied != requested {
			t.Fatalf("in-range request should apply unchanged: current=%d requested=%d applied=%d",
				current, requested, applied)
		}
	}
}

func TestResourceRatioRange(t *testing.T) {
	if ResourceRatio(0) != 0 {
		t.Error("ResourceRatio(0) should be 0")
	}
	if ResourceRatio(domain.ResourceMax) != 1 {
		t.Error("ResourceRatio(max) should be 1")
	}
}

func TestRoundDivI32RoundsToNearestAwayFromZero(t *testing.T) {
	cases := []struct{ numer, denom, want int32 }{
		{0, 120, 0},
		{60, 120, 1},   // ties round away from zero
		{-60, 120, -1},
		{150, 120, 1},
		{-150, 120, -1},
		{59, 120, 0},
		{-59, 120, 0},
		{240, 120, 2},
	}
	for _, c := range cases {
		if got := RoundDivI32(c.numer, c.denom); got != c.want {
			t.Errorf("RoundDivI32(%d, %d) = %d, want %d", c.numer, c.denom, got, c.want)
		}
	}
}

// TestBlendHazardFloodDecayTrace reproduces the literal 13-tick flood-decay
// sequence: a gauge released from 6000 toward a target of 0 must trace this
// exact path, never converging asymptotically.
func TestBlendHazardFloodDecayTrace(t *testing.T) {
	want := []int32{3000, 1500, 750, 375, 187, 93, 46, 23, 11, 5, 2, 1, 0}
	prev := int32(6000)
	for i, w := range want {
		prev = BlendHazard(prev, 0)
		if prev != w {
			t.Fatalf("tick %d: BlendHazard = %d, want %d", i, prev, w)
		}
	}
}

func TestBlendHazardReachesTargetExactly(t *testing.T) {
	prev := int32(-5000)
	for i := 0; i < 64 && prev != 0; i++ {
		prev = BlendHazard(prev, 0)
	}
	if prev != 0 {
		t.Fatalf("BlendHazard never reached 0, stuck at %d", prev)
	}
}

func TestSaturatingAddI32DoesNotWrap(t *testing.T) {
	const maxI32 = 1<<31 - 1
	const minI32 = -(1 << 31)
	if got := SaturatingAddI32(maxI32, 1000); got != maxI32 {
		t.Errorf("overflow should saturate at max, got %d", got)
	}
	if got := SaturatingAddI32(minI32, -1000); got != minI32 {
		t.Errorf("underflow should saturate at min, got %d", got)
	}
	if got := SaturatingAddI32(10, 20); got != 30 {
		t.Errorf("in-range add should be exact, got %d", got)
	}
}
