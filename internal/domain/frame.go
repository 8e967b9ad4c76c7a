package domain

import (
	"encoding/json"
	"fmt"
)

// Highlight is a visual highlight emitted by a kernel alongside its diff
// (geodynamics, cryosphere, climate diagnostics and ecology build them) and
// carried through to the frame unchanged.
type Highlight struct {
	Kind   string
	Region uint32
	Info   HighlightInfo
}

// HighlightInfo is the payload of a Highlight.
type HighlightInfo struct {
	Kind  string
	Level float32
}

// HazardHighlight builds the "hazard_flag" highlight emitted for an
// over-threshold drought or flood gauge.
func HazardHighlight(region uint32, kind string, level float32) Highlight {
	return Highlight{
		Kind:   "hazard_flag",
		Region: region,
		Info:   HighlightInfo{Kind: kind, Level: level},
	}
}

type highlightJSON struct {
	Type   string            `json:"type"`
	Region uint32            `json:"region"`
	Info   highlightInfoJSON `json:"info"`
}

type highlightInfoJSON struct {
	Kind  string  `json:"kind"`
	Level float32 `json:"level"`
}

// MarshalJSON renders the "type" field name the wire contract requires (Go
// cannot name a struct field "type" without a tag, so this keeps Highlight's
// field named Kind for readability in code while still emitting "type").
func (h Highlight) MarshalJSON() ([]byte, error) {
	return json.Marshal(highlightJSON{
		Type:   h.Kind,
		Region: h.Region,
		Info:   highlightInfoJSON{Kind: h.Info.Kind, Level: h.Info.Level},
	})
}

// FrameWorld carries the grid dimensions embedded in every frame.
type FrameWorld struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// frameDiff packs a Diff's sparse maps under the stable field names spec.md
// §4.11 requires. Hazards are intentionally absent — they surface only via
// Highlights, never under diff.hazards in a frame.
type frameDiff struct {
	Biome               map[string]uint8 `json:"biome,omitempty"`
	Water               map[string]int32 `json:"water,omitempty"`
	Soil                map[string]int32 `json:"soil,omitempty"`
	Insolation          map[string]int32 `json:"insolation,omitempty"`
	TideEnvelope        map[string]int32 `json:"tide_envelope,omitempty"`
	Elevation           map[string]int32 `json:"elevation,omitempty"`
	Temp                map[string]int32 `json:"temp,omitempty"`
	Precip              map[string]int32 `json:"precip,omitempty"`
	Humidity            map[string]int32 `json:"humidity,omitempty"`
	Albedo              map[string]int32 `json:"albedo,omitempty"`
	PermafrostActive    map[string]int32 `json:"permafrost_active,omitempty"`
	FreshwaterFlux      map[string]int32 `json:"freshwater_flux,omitempty"`
	MeltPulse           map[string]int32 `json:"melt_pulse,omitempty"`
	IceMass             map[string]int32 `json:"ice_mass,omitempty"`
	HeatwaveIdx         map[string]int32 `json:"heatwave_idx,omitempty"`
	DiagClimate         map[string]int32 `json:"diag_climate,omitempty"`
	TemperatureBaseline map[string]int32 `json:"temperature_baseline,omitempty"`
}

func scalarMap(list []ScalarEntry) map[string]int32 {
	if len(list) == 0 {
		return nil
	}
	m := make(map[string]int32, len(list))
	for _, e := range list {
		m[RegionKey(e.Region)] = e.Value
	}
	return m
}

func deltaMap(list []DeltaEntry) map[string]int32 {
	if len(list) == 0 {
		return nil
	}
	m := make(map[string]int32, len(list))
	for _, e := range list {
		m[RegionKey(e.Region)] = e.Delta
	}
	return m
}

func biomeMap(list []BiomeEntry) map[string]uint8 {
	if len(list) == 0 {
		return nil
	}
	m := make(map[string]uint8, len(list))
	for _, e := range list {
		m[RegionKey(e.Region)] = e.Biome
	}
	return m
}

func (fd frameDiff) isEmpty() bool {
	return fd.Biome == nil && fd.Water == nil && fd.Soil == nil &&
		fd.Insolation == nil && fd.TideEnvelope == nil && fd.Elevation == nil &&
		fd.Temp == nil && fd.Precip == nil && fd.Humidity == nil && fd.Albedo == nil &&
		fd.PermafrostActive == nil && fd.FreshwaterFlux == nil && fd.MeltPulse == nil &&
		fd.IceMass == nil && fd.HeatwaveIdx == nil && fd.DiagClimate == nil &&
		fd.TemperatureBaseline == nil
}

func newFrameDiff(d Diff) frameDiff {
	return frameDiff{
		Biome:               biomeMap(d.Biome),
		Water:               deltaMap(d.Water),
		Soil:                deltaMap(d.Soil),
		Insolation:          scalarMap(d.Insolation),
		TideEnvelope:        scalarMap(d.TideEnvelope),
		Elevation:           scalarMap(d.Elevation),
		Temp:                scalarMap(d.Temperature),
		Precip:              scalarMap(d.Precipitation),
		Humidity:            scalarMap(d.Humidity),
		Albedo:              scalarMap(d.Albedo),
		PermafrostActive:    scalarMap(d.PermafrostActive),
		FreshwaterFlux:      scalarMap(d.FreshwaterFlux),
		MeltPulse:           scalarMap(d.MeltPulse),
		IceMass:             scalarMap(d.IceMass),
		HeatwaveIdx:         scalarMap(d.HeatwaveIdx),
		DiagClimate:         scalarMap(d.DiagClimate),
		TemperatureBaseline: scalarMap(d.TemperatureBaseline),
	}
}

// Frame is a single tick's externally-visible output: the NDJSON schema of
// spec.md §6. Field insertion order need not be stable; content must be.
type Frame struct {
	T           uint64
	Width       uint32
	Height      uint32
	Diff        frameDiff
	Diagnostics map[string]int32
	Highlights  []Highlight
	Chronicle   []string
	EraEnd      bool

	// Causes is not part of the wire schema (MarshalJSON never reads it) —
	// it carries the tick's structured causes through to a caller that
	// wants to persist them (see internal/infra/simstore), without forcing
	// every consumer to re-derive them from the diff.
	Causes []Cause
}

// NewFrame builds the frame for tick t from the committed aggregate diff,
// derived highlights, and chronicle lines. Open question (ii): the
// diagnostics object is elided entirely when empty.
func NewFrame(t uint64, width, height uint32, diff Diff, highlights []Highlight, chronicle []string, eraEnd bool) Frame {
	return Frame{
		T:           t,
		Width:       width,
		Height:      height,
		Diff:        newFrameDiff(diff),
		Diagnostics: diff.Diagnostics,
		Highlights:  highlights,
		Chronicle:   chronicle,
		EraEnd:      eraEnd,
		Causes:      diff.Causes,
	}
}

type frameJSON struct {
	T           uint64           `json:"t"`
	World       FrameWorld       `json:"world"`
	Diff        *frameDiff       `json:"diff,omitempty"`
	Diagnostics map[string]int32 `json:"diagnostics,omitempty"`
	Highlights  []Highlight      `json:"highlights,omitempty"`
	Chronicle   []string         `json:"chronicle,omitempty"`
	EraEnd      bool             `json:"era_end"`
}

// MarshalJSON renders the NDJSON object shape of spec.md §6, eliding the
// diff and diagnostics objects entirely when empty (open question (ii)).
func (f Frame) MarshalJSON() ([]byte, error) {
	out := frameJSON{
		T:           f.T,
		World:       FrameWorld{Width: f.Width, Height: f.Height},
		Diagnostics: f.Diagnostics,
		Highlights:  f.Highlights,
		Chronicle:   f.Chronicle,
		EraEnd:      f.EraEnd,
	}
	if !f.Diff.isEmpty() {
		out.Diff = &f.Diff
	}
	return json.Marshal(out)
}

// ToNDJSON serializes the frame as a single terminated NDJSON line.
func (f Frame) ToNDJSON() (string, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSerializationFailure, err)
	}
	return string(raw) + "\n", nil
}
