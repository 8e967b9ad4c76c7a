// Package domain holds the pure, dependency-free types of the planetary tick
// engine: regions, world state, diffs, causes, and the closed error set the
// core reports. Nothing in this package touches infrastructure — no files,
// no sockets, no databases.
package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Core errors are pure — no infrastructure dependency. They are the closed
// set named by the tick engine's external interface: InvalidTickOrder,
// RegionIndexMismatch, MeterOutOfRange, SerializationFailure.

var (
	// ErrInvalidTickOrder reports that Schedule.RunTick was called with a
	// tick other than world.Tick+1.
	ErrInvalidTickOrder = errors.New("invalid tick order")

	// ErrRegionIndexMismatch reports that a region's stored ID no longer
	// matches its position in World.Regions.
	ErrRegionIndexMismatch = errors.New("region index mismatch")

	// ErrMeterOutOfRange reports an inbound meter value outside its declared
	// range. Kernels must never produce this; seeing it surfaces a defect.
	ErrMeterOutOfRange = errors.New("meter out of range")

	// ErrSerializationFailure reports that frame JSON emission failed.
	ErrSerializationFailure = errors.New("frame serialization failure")
)
