package domain

import "encoding/json"

// diffJSONHazard mirrors the array-of-objects shape spec.md §4.3 requires for
// hazard serialization.
type diffJSONHazard struct {
	Region  int    `json:"region"`
	Drought uint16 `json:"drought"`
	Flood   uint16 `json:"flood"`
}

// diffJSONCause mirrors a causes[] entry; Note is omitted when empty.
type diffJSONCause struct {
	Target string    `json:"target"`
	Code   CauseCode `json:"code"`
	Note   string    `json:"note,omitempty"`
}

// MarshalJSON implements the Diff wire contract of spec.md §4.3: scalar
// sub-collections serialize as an object keyed by "r:<index>", hazards as an
// array of {region,drought,flood}, causes as an ordered array, diagnostics
// as a plain map — and every empty sub-collection is omitted entirely.
func (d Diff) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 20)

	putBiome := func(key string, list []BiomeEntry) {
		if len(list) == 0 {
			return
		}
		m := make(map[string]uint8, len(list))
		for _, e := range list {
			m[RegionKey(e.Region)] = e.Biome
		}
		out[key] = m
	}
	putDelta := func(key string, list []DeltaEntry) {
		if len(list) == 0 {
			return
		}
		m := make(map[string]int32, len(list))
		for _, e := range list {
			m[RegionKey(e.Region)] = e.Delta
		}
		out[key] = m
	}
	putScalar := func(key string, list []ScalarEntry) {
		if len(list) == 0 {
			return
		}
		m := make(map[string]int32, len(list))
		for _, e := range list {
			m[RegionKey(e.Region)] = e.Value
		}
		out[key] = m
	}

	putBiome("biome", d.Biome)
	putDelta("water", d.Water)
	putDelta("soil", d.Soil)
	putScalar("insolation", d.Insolation)
	putScalar("tide_envelope", d.TideEnvelope)
	putScalar("elevation", d.Elevation)
	putScalar("temperature", d.Temperature)
	putScalar("temperature_baseline", d.TemperatureBaseline)
	putScalar("precipitation", d.Precipitation)
	putScalar("humidity", d.Humidity)
	putScalar("albedo", d.Albedo)
	putScalar("permafrost_active", d.PermafrostActive)
	putScalar("freshwater_flux", d.FreshwaterFlux)
	putScalar("melt_pulse", d.MeltPulse)
	putScalar("ice_mass", d.IceMass)
	putScalar("heatwave_idx", d.HeatwaveIdx)
	putScalar("diag_climate", d.DiagClimate)

	if len(d.Hazards) > 0 {
		hazards := make([]diffJSONHazard, len(d.Hazards))
		for i, h := range d.Hazards {
			hazards[i] = diffJSONHazard{Region: h.Region, Drought: h.Drought, Flood: h.Flood}
		}
		out["hazards"] = hazards
	}

	if len(d.Causes) > 0 {
		causes := make([]diffJSONCause, len(d.Causes))
		for i, c := range d.Causes {
			causes[i] = diffJSONCause{Target: c.Target, Code: c.Code, Note: c.Note}
		}
		out["causes"] = causes
	}

	if len(d.Diagnostics) > 0 {
		out["diagnostics"] = d.Diagnostics
	}

	if d.DiagEnergy != nil {
		out["diag_energy"] = d.DiagEnergy
	}

	return json.Marshal(out)
}
