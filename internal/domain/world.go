package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// World is the exclusively-owned, per-tick state the driver advances. Every
// kernel receives the same *World; none writes region meters directly (those
// change only through its Diff), while cryosphere, coupler and climate
// diagnostics also write carry-state in World.Climate.
type World struct {
	Tick    uint64
	Seed    uint64
	Width   uint32
	Height  uint32
	Regions []Region
	Climate ClimateState
}

// NewWorld builds a World from a populated region slice, deriving the initial
// ClimateState from it (invariant 3).
func NewWorld(seed uint64, width, height uint32, regions []Region) World {
	return World{
		Tick:    0,
		Seed:    seed,
		Width:   width,
		Height:  height,
		Regions: regions,
		Climate: NewClimateState(regions),
	}
}

// RegionKey formats a region index as the stable "r:<index>" frame/diff key.
func RegionKey(index int) string {
	return "r:" + strconv.Itoa(index)
}

// RegionIndexFromKey parses a "r:<index>" key back to its integer index.
func RegionIndexFromKey(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "r:")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CheckInvariants verifies invariant 2: regions[i].id == i and the vector
// length equals width·height. Returns ErrRegionIndexMismatch on the first
// violation found.
func (w *World) CheckInvariants() error {
	if uint32(len(w.Regions)) != w.Width*w.Height {
		return fmt.Errorf("%w: region count %d does not match width*height %d", ErrRegionIndexMismatch, len(w.Regions), w.Width*w.Height)
	}
	for i, r := range w.Regions {
		if int(r.ID) != i {
			return fmt.Errorf("%w: region id %d at index %d", ErrRegionIndexMismatch, r.ID, i)
		}
	}
	return nil
}

// NeighborIndex returns the linear index of the region at (x+dx, y+dy) for
// the given region, and whether that neighbor exists inside the grid.
func (w *World) NeighborIndex(r Region, dx, dy int32) (int, bool) {
	nx := int32(r.X) + dx
	ny := int32(r.Y) + dy
	if nx < 0 || nx >= int32(w.Width) || ny < 0 || ny >= int32(w.Height) {
		return 0, false
	}
	return int(ny*int32(w.Width) + nx), true
}
