package domain

// extremeWindow is the fixed length of the temperature/precipitation extreme
// ring buffers. Zero-initialized, grown lazily with EnsureRegionCapacity.
const extremeWindow = 6

// ClimateState carries values that persist across ticks and mediate coupling
// between kernels: the one-tick-delayed albedo→temperature feedback, the
// previous tick's insolation (consumed by humidity transport), snowpack and
// permafrost reservoirs, and the sea-level accumulator.
type ClimateState struct {
	TemperatureBaselineTenths []int16
	LastAlbedoMilli           []int32
	LastInsolationTenths      []int32
	SnowpackMM                []uint16
	PermafrostActiveCM        []uint16

	TemperatureExtremes   [][]int16
	PrecipitationExtremes [][]uint16

	SeaLevelEquivalentMM int32
}

// NewClimateState builds a zero-initialized ClimateState sized to regionCount,
// except LastAlbedoMilli which snapshots each region's initial albedo (so the
// coupler's first-tick anomaly computation has a meaningful baseline).
func NewClimateState(regions []Region) ClimateState {
	cs := ClimateState{}
	cs.ensureCapacity(len(regions))
	for i, r := range regions {
		cs.LastAlbedoMilli[i] = int32(r.AlbedoMilli)
	}
	return cs
}

// EnsureRegionCapacity grows every climate vector to at least regionCount,
// zero-filling new slots. Invariant 3: climate state vectors have length ≥
// regions.len(), auto-grown with zero defaults.
func (cs *ClimateState) EnsureRegionCapacity(regionCount int) {
	cs.ensureCapacity(regionCount)
}

func (cs *ClimateState) ensureCapacity(n int) {
	if len(cs.TemperatureBaselineTenths) < n {
		cs.TemperatureBaselineTenths = growInt16(cs.TemperatureBaselineTenths, n)
	}
	if len(cs.LastAlbedoMilli) < n {
		cs.LastAlbedoMilli = growInt32(cs.LastAlbedoMilli, n)
	}
	if len(cs.LastInsolationTenths) < n {
		cs.LastInsolationTenths = growInt32(cs.LastInsolationTenths, n)
	}
	if len(cs.SnowpackMM) < n {
		cs.SnowpackMM = growUint16(cs.SnowpackMM, n)
	}
	if len(cs.PermafrostActiveCM) < n {
		cs.PermafrostActiveCM = growUint16(cs.PermafrostActiveCM, n)
	}
	if len(cs.TemperatureExtremes) < n {
		for len(cs.TemperatureExtremes) < n {
			cs.TemperatureExtremes = append(cs.TemperatureExtremes, make([]int16, extremeWindow))
		}
	}
	if len(cs.PrecipitationExtremes) < n {
		for len(cs.PrecipitationExtremes) < n {
			cs.PrecipitationExtremes = append(cs.PrecipitationExtremes, make([]uint16, extremeWindow))
		}
	}
}

func growInt16(s []int16, n int) []int16 {
	out := make([]int16, n)
	copy(out, s)
	return out
}

func growInt32(s []int32, n int) []int32 {
	out := make([]int32, n)
	copy(out, s)
	return out
}

func growUint16(s []uint16, n int) []uint16 {
	out := make([]uint16, n)
	copy(out, s)
	return out
}

// AddSeaLevelEquivalentMM adds delta to the accumulator with saturating
// (non-wrapping) int32 arithmetic. Invariant 5.
func (cs *ClimateState) AddSeaLevelEquivalentMM(delta int32) {
	if delta == 0 {
		return
	}
	cs.SeaLevelEquivalentMM = saturatingAddInt32(cs.SeaLevelEquivalentMM, delta)
}

func saturatingAddInt32(a, b int32) int32 {
	sum := int64(a) + int64(b)
	switch {
	case sum > int64(int32max):
		return int32max
	case sum < int64(int32min):
		return int32min
	default:
		return int32(sum)
	}
}

const (
	int32max = 1<<31 - 1
	int32min = -1 << 31
)
