package domain

import "sort"

// ScalarEntry is a sparse per-region override: "region's value is now X".
type ScalarEntry struct {
	Region int
	Value  int32
}

// DeltaEntry is a sparse per-region accumulator: "add X to region's value".
type DeltaEntry struct {
	Region int
	Delta  int32
}

// BiomeEntry is a sparse per-region biome override.
type BiomeEntry struct {
	Region int
	Biome  uint8
}

// HazardEntry replaces a region's hazard pair outright.
type HazardEntry struct {
	Region  int
	Drought uint16
	Flood   uint16
}

// DiagEnergy is the optional per-tick energy-balance summary pair the
// coupler emits: the mean albedo anomaly and the mean temperature-baseline
// adjustment across the regions it touched.
type DiagEnergy struct {
	MeanAlbedoAnomalyMilli     int32
	MeanTemperatureAdjustTenths int32
}

// Diff is the central value type of the engine: a sparse, sorted,
// commutatively-mergeable per-tick change set. It is created empty, mutated
// only by its owning kernel (or the coupler), merged into an aggregate, then
// committed. Every per-scalar list is kept sorted by region with at most one
// entry per region.
type Diff struct {
	Biome               []BiomeEntry
	Water               []DeltaEntry
	Soil                []DeltaEntry
	Insolation          []ScalarEntry
	TideEnvelope        []ScalarEntry
	Elevation           []ScalarEntry
	Temperature         []ScalarEntry
	TemperatureBaseline []ScalarEntry
	Precipitation       []ScalarEntry
	Humidity            []ScalarEntry
	Albedo              []ScalarEntry
	PermafrostActive    []ScalarEntry
	FreshwaterFlux      []ScalarEntry
	MeltPulse           []ScalarEntry
	IceMass             []ScalarEntry
	HeatwaveIdx         []ScalarEntry
	DiagClimate         []ScalarEntry

	Hazards []HazardEntry
	Causes  []Cause

	Diagnostics map[string]int32
	DiagEnergy  *DiagEnergy
}

// ─── scalar / delta insertion primitives ───────────────────────────────────
// Insert-or-overwrite by binary search; region lists stay sorted at all times
// so no producer ever needs to sort before merging.

func upsertScalar(list []ScalarEntry, region int, value int32) []ScalarEntry {
	i := sort.Search(len(list), func(i int) bool { return list[i].Region >= region })
	if i < len(list) && list[i].Region == region {
		list[i].Value = value
		return list
	}
	list = append(list, ScalarEntry{})
	copy(list[i+1:], list[i:])
	list[i] = ScalarEntry{Region: region, Value: value}
	return list
}

func upsertDelta(list []DeltaEntry, region int, delta int32) []DeltaEntry {
	i := sort.Search(len(list), func(i int) bool { return list[i].Region >= region })
	if i < len(list) && list[i].Region == region {
		list[i].Delta += delta
		if list[i].Delta == 0 {
			return append(list[:i], list[i+1:]...)
		}
		return list
	}
	if delta == 0 {
		return list
	}
	list = append(list, DeltaEntry{})
	copy(list[i+1:], list[i:])
	list[i] = DeltaEntry{Region: region, Delta: delta}
	return list
}

func upsertBiome(list []BiomeEntry, region int, biome uint8) []BiomeEntry {
	i := sort.Search(len(list), func(i int) bool { return list[i].Region >= region })
	if i < len(list) && list[i].Region == region {
		list[i].Biome = biome
		return list
	}
	list = append(list, BiomeEntry{})
	copy(list[i+1:], list[i:])
	list[i] = BiomeEntry{Region: region, Biome: biome}
	return list
}

func upsertHazard(list []HazardEntry, region int, drought, flood uint16) []HazardEntry {
	i := sort.Search(len(list), func(i int) bool { return list[i].Region >= region })
	if i < len(list) && list[i].Region == region {
		list[i].Drought = drought
		list[i].Flood = flood
		return list
	}
	list = append(list, HazardEntry{})
	copy(list[i+1:], list[i:])
	list[i] = HazardEntry{Region: region, Drought: drought, Flood: flood}
	return list
}

// ─── recorders ──────────────────────────────────────────────────────────────

func (d *Diff) RecordBiome(region int, biome uint8) {
	d.Biome = upsertBiome(d.Biome, region, biome)
}

// RecordWaterDelta accumulates; a result of zero removes the entry entirely.
func (d *Diff) RecordWaterDelta(region int, delta int32) {
	if delta == 0 {
		return
	}
	d.Water = upsertDelta(d.Water, region, delta)
}

// RecordSoilDelta accumulates; a result of zero removes the entry entirely.
func (d *Diff) RecordSoilDelta(region int, delta int32) {
	if delta == 0 {
		return
	}
	d.Soil = upsertDelta(d.Soil, region, delta)
}

func (d *Diff) RecordInsolation(region int, tenths int32) {
	d.Insolation = upsertScalar(d.Insolation, region, tenths)
}

func (d *Diff) RecordTideEnvelope(region int, tenths int32) {
	d.TideEnvelope = upsertScalar(d.TideEnvelope, region, tenths)
}

func (d *Diff) RecordElevation(region int, meters int32) {
	d.Elevation = upsertScalar(d.Elevation, region, meters)
}

func (d *Diff) RecordTemperature(region int, tenthsC int32) {
	d.Temperature = upsertScalar(d.Temperature, region, tenthsC)
}

func (d *Diff) RecordTemperatureBaseline(region int, tenths int32) {
	d.TemperatureBaseline = upsertScalar(d.TemperatureBaseline, region, tenths)
}

func (d *Diff) RecordPrecipitation(region int, mm int32) {
	d.Precipitation = upsertScalar(d.Precipitation, region, mm)
}

func (d *Diff) RecordHumidity(region int, tenths int32) {
	d.Humidity = upsertScalar(d.Humidity, region, tenths)
}

func (d *Diff) RecordAlbedo(region int, milli int32) {
	d.Albedo = upsertScalar(d.Albedo, region, milli)
}

func (d *Diff) RecordPermafrostActive(region int, cm int32) {
	d.PermafrostActive = upsertScalar(d.PermafrostActive, region, cm)
}

func (d *Diff) RecordFreshwaterFlux(region int, tenthsMM int32) {
	d.FreshwaterFlux = upsertScalar(d.FreshwaterFlux, region, tenthsMM)
}

func (d *Diff) RecordMeltPulse(region int, mm int32) {
	d.MeltPulse = upsertScalar(d.MeltPulse, region, mm)
}

func (d *Diff) RecordIceMass(region int, kilotons int32) {
	d.IceMass = upsertScalar(d.IceMass, region, kilotons)
}

func (d *Diff) RecordHeatwaveIdx(region int, value int32) {
	d.HeatwaveIdx = upsertScalar(d.HeatwaveIdx, region, value)
}

func (d *Diff) RecordDiagClimate(region int, value int32) {
	d.DiagClimate = upsertScalar(d.DiagClimate, region, value)
}

// RecordHazard replaces any prior hazard entry for the region.
func (d *Diff) RecordHazard(region int, drought, flood uint16) {
	d.Hazards = upsertHazard(d.Hazards, region, drought, flood)
}

// RecordCause inserts into a lexicographically ordered list by
// (target, code, note); ties append after the equal run — stable,
// deterministic, never a plain re-sort that could swap equal keys.
func (d *Diff) RecordCause(c Cause) {
	i := sort.Search(len(d.Causes), func(i int) bool { return !d.Causes[i].Less(c) })
	d.Causes = append(d.Causes, Cause{})
	copy(d.Causes[i+1:], d.Causes[i:])
	d.Causes[i] = c
}

// RecordDiagnostic sets (overwriting) a named diagnostic scalar.
func (d *Diff) RecordDiagnostic(name string, value int32) {
	if d.Diagnostics == nil {
		d.Diagnostics = make(map[string]int32)
	}
	d.Diagnostics[name] = value
}

// SetDiagEnergy overwrites the diag_energy pair.
func (d *Diff) SetDiagEnergy(e DiagEnergy) {
	d.DiagEnergy = &e
}

// ─── merge ──────────────────────────────────────────────────────────────────

// Merge applies other's operations to d, equivalent to replaying each of
// other's record_* calls against d in other's own order: scalar overrides
// win last-writer-semantics, deltas add, hazards replace, causes re-insert
// preserving the merged total ordering, and diag_energy is overwritten by
// any present value.
func (d *Diff) Merge(other *Diff) {
	for _, e := range other.Biome {
		d.RecordBiome(e.Region, e.Biome)
	}
	for _, e := range other.Water {
		d.RecordWaterDelta(e.Region, e.Delta)
	}
	for _, e := range other.Soil {
		d.RecordSoilDelta(e.Region, e.Delta)
	}
	for _, e := range other.Insolation {
		d.RecordInsolation(e.Region, e.Value)
	}
	for _, e := range other.TideEnvelope {
		d.RecordTideEnvelope(e.Region, e.Value)
	}
	for _, e := range other.Elevation {
		d.RecordElevation(e.Region, e.Value)
	}
	for _, e := range other.Temperature {
		d.RecordTemperature(e.Region, e.Value)
	}
	for _, e := range other.TemperatureBaseline {
		d.RecordTemperatureBaseline(e.Region, e.Value)
	}
	for _, e := range other.Precipitation {
		d.RecordPrecipitation(e.Region, e.Value)
	}
	for _, e := range other.Humidity {
		d.RecordHumidity(e.Region, e.Value)
	}
	for _, e := range other.Albedo {
		d.RecordAlbedo(e.Region, e.Value)
	}
	for _, e := range other.PermafrostActive {
		d.RecordPermafrostActive(e.Region, e.Value)
	}
	for _, e := range other.FreshwaterFlux {
		d.RecordFreshwaterFlux(e.Region, e.Value)
	}
	for _, e := range other.MeltPulse {
		d.RecordMeltPulse(e.Region, e.Value)
	}
	for _, e := range other.IceMass {
		d.RecordIceMass(e.Region, e.Value)
	}
	for _, e := range other.HeatwaveIdx {
		d.RecordHeatwaveIdx(e.Region, e.Value)
	}
	for _, e := range other.DiagClimate {
		d.RecordDiagClimate(e.Region, e.Value)
	}
	for _, e := range other.Hazards {
		d.RecordHazard(e.Region, e.Drought, e.Flood)
	}
	for _, c := range other.Causes {
		d.RecordCause(c)
	}
	for name, value := range other.Diagnostics {
		d.RecordDiagnostic(name, value)
	}
	if other.DiagEnergy != nil {
		cp := *other.DiagEnergy
		d.DiagEnergy = &cp
	}
}

// Sort re-establishes canonical (region-ascending) order on every list. It is
// idempotent: Record* calls already maintain sortedness, so Sort is a no-op
// on any diff built purely through them. reduce.Apply calls it defensively so
// apply(world, d) == apply(world, sort_all(d)) holds even for a diff whose
// fields were populated by direct field assignment (e.g. test fixtures or
// deserialization) rather than the recorders.
func (d *Diff) Sort() {
	sort.Slice(d.Biome, func(i, j int) bool { return d.Biome[i].Region < d.Biome[j].Region })
	sort.Slice(d.Water, func(i, j int) bool { return d.Water[i].Region < d.Water[j].Region })
	sort.Slice(d.Soil, func(i, j int) bool { return d.Soil[i].Region < d.Soil[j].Region })
	sort.Slice(d.Insolation, func(i, j int) bool { return d.Insolation[i].Region < d.Insolation[j].Region })
	sort.Slice(d.TideEnvelope, func(i, j int) bool { return d.TideEnvelope[i].Region < d.TideEnvelope[j].Region })
	sort.Slice(d.Elevation, func(i, j int) bool { return d.Elevation[i].Region < d.Elevation[j].Region })
	sort.Slice(d.Temperature, func(i, j int) bool { return d.Temperature[i].Region < d.Temperature[j].Region })
	sort.Slice(d.TemperatureBaseline, func(i, j int) bool {
		return d.TemperatureBaseline[i].Region < d.TemperatureBaseline[j].Region
	})
	sort.Slice(d.Precipitation, func(i, j int) bool { return d.Precipitation[i].Region < d.Precipitation[j].Region })
	sort.Slice(d.Humidity, func(i, j int) bool { return d.Humidity[i].Region < d.Humidity[j].Region })
	sort.Slice(d.Albedo, func(i, j int) bool { return d.Albedo[i].Region < d.Albedo[j].Region })
	sort.Slice(d.PermafrostActive, func(i, j int) bool {
		return d.PermafrostActive[i].Region < d.PermafrostActive[j].Region
	})
	sort.Slice(d.FreshwaterFlux, func(i, j int) bool { return d.FreshwaterFlux[i].Region < d.FreshwaterFlux[j].Region })
	sort.Slice(d.MeltPulse, func(i, j int) bool { return d.MeltPulse[i].Region < d.MeltPulse[j].Region })
	sort.Slice(d.IceMass, func(i, j int) bool { return d.IceMass[i].Region < d.IceMass[j].Region })
	sort.Slice(d.HeatwaveIdx, func(i, j int) bool { return d.HeatwaveIdx[i].Region < d.HeatwaveIdx[j].Region })
	sort.Slice(d.DiagClimate, func(i, j int) bool { return d.DiagClimate[i].Region < d.DiagClimate[j].Region })
	sort.Slice(d.Hazards, func(i, j int) bool { return d.Hazards[i].Region < d.Hazards[j].Region })
	sort.SliceStable(d.Causes, func(i, j int) bool { return d.Causes[i].Less(d.Causes[j]) })
}

// IsEmpty reports whether the diff carries no changes at all.
func (d *Diff) IsEmpty() bool {
	return len(d.Biome) == 0 && len(d.Water) == 0 && len(d.Soil) == 0 &&
		len(d.Insolation) == 0 && len(d.TideEnvelope) == 0 && len(d.Elevation) == 0 &&
		len(d.Temperature) == 0 && len(d.TemperatureBaseline) == 0 &&
		len(d.Precipitation) == 0 && len(d.Humidity) == 0 && len(d.Albedo) == 0 &&
		len(d.PermafrostActive) == 0 && len(d.FreshwaterFlux) == 0 &&
		len(d.MeltPulse) == 0 && len(d.IceMass) == 0 && len(d.HeatwaveIdx) == 0 &&
		len(d.DiagClimate) == 0 && len(d.Hazards) == 0 && len(d.Causes) == 0 &&
		len(d.Diagnostics) == 0 && d.DiagEnergy == nil
}
