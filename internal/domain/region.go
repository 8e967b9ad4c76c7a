package domain

// Biome indices, per spec: 0 polar tundra .. 5 tropical rainforest.
const (
	BiomePolarTundra       = 0
	BiomeBorealMix         = 1
	BiomeTemperateMix      = 2
	BiomeSteppe            = 3
	BiomeDesert            = 4
	BiomeTropicalRainforest = 5
)

// Meter bounds, declared once so every clamp site and every test references
// the same constants.
const (
	ElevationMinM = -1000
	ElevationMaxM = 4000

	ResourceMax = 10_000 // water, soil — hundredths of normalized resource

	PrecipitationMaxMM = 5_000

	AlbedoMaxMilli = 1_000

	FreshwaterFluxMaxTenthsMM = 2_000

	IceMassSoftCapKilotons = 200_000

	TemperatureMinTenthsC = -500
	TemperatureMaxTenthsC = 500

	TemperatureBaselineLimitTenths = 120

	SnowpackMaxMM = 4_500

	PermafrostMaxCM = 300
)

// Hazards holds the drought/flood gauges for a region, each in [0, ResourceMax].
type Hazards struct {
	Drought uint16
	Flood   uint16
}

// Region is the atomic spatial unit, indexed by its linear position in the
// width×height grid.
type Region struct {
	ID  uint32
	X   uint32
	Y   uint32

	LatitudeDeg float64

	ElevationM int32

	Water            uint16
	Soil             uint16
	PrecipitationMM  uint16
	AlbedoMilli      uint16
	FreshwaterFluxTenthsMM uint16
	IceMassKilotons  uint32
	TemperatureTenthsC int16
	Biome            uint8

	Hazards Hazards
}

// Index returns the region's position in World.Regions — identical to ID,
// exposed as a method so call sites read as "region.Index()" rather than a
// bare cast.
func (r Region) Index() int { return int(r.ID) }

// LatitudeFromGrid derives a region's latitude at seed time:
// 90 − ((y+0.5)/height)·180.
func LatitudeFromGrid(y, height uint32) float64 {
	ratio := (float64(y) + 0.5) / float64(height)
	return 90.0 - ratio*180.0
}
