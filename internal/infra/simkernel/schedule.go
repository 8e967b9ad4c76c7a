// Package simkernel implements the fixed, sequential per-tick kernel
// pipeline (spec.md §5): each stage derives its own child RNG stream from the
// tick's root streams, computes a Diff, and that Diff is merged into the
// tick's aggregate and immediately committed to the world via
// simreduce.Apply so every later stage in the same tick observes it.
package simkernel

import (
	"fmt"

	"github.com/aeonis-sim/aeonis/internal/domain"
	"github.com/aeonis-sim/aeonis/internal/infra/simreduce"
	"github.com/aeonis-sim/aeonis/internal/infra/simrng"
)

// stage names double as both the RNG stage label passed to simrng.From and
// the schedule's fixed execution order — never reorder this slice.
var stageOrder = []string{
	"astronomy",
	"geodynamics",
	"atmosphere",
	"cryosphere",
	"coupler",
	"climate_diagnostics",
	"classification",
	"ecology",
}

type kernelFunc func(world *domain.World, stream simrng.Stream, tick uint64) (domain.Diff, []domain.Highlight, []string, error)

var kernels = map[string]kernelFunc{
	"astronomy":           runAstronomy,
	"geodynamics":         runGeodynamics,
	"atmosphere":          runAtmosphere,
	"cryosphere":          runCryosphere,
	"coupler":             runCoupler,
	"climate_diagnostics": runClimateDiagnostics,
	"classification":      runClassification,
	"ecology":             runEcology,
}

// Schedule drives the fixed kernel pipeline across ticks.
type Schedule struct{}

// RunTick executes exactly one tick against world: it must be world.Tick+1.
// world.Tick only advances once every stage has succeeded. A failing stage's
// diff is not committed, but a mid-pipeline failure leaves earlier-in-tick
// stages committed (and any world.Climate writes the failing kernel made
// directly before returning); there is no whole-tick rollback, matching the
// explicit-diff-and-commit model of spec.md §5.
func (Schedule) RunTick(world *domain.World, expectedTick uint64) (domain.Frame, error) {
	if expectedTick != world.Tick+1 {
		return domain.Frame{}, fmt.Errorf("%w: world at tick %d, asked for %d", domain.ErrInvalidTickOrder, world.Tick, expectedTick)
	}

	tick := expectedTick
	aggregate := domain.Diff{}
	var highlights []domain.Highlight
	var chronicle []string

	for _, stage := range stageOrder {
		fn := kernels[stage]
		root := simrng.From(world.Seed, stage, tick)

		diff, hl, lines, err := fn(world, root, tick)
		if err != nil {
			return domain.Frame{}, fmt.Errorf("stage %q at tick %d: %w", stage, tick, err)
		}
		if err := simreduce.Apply(world, &diff); err != nil {
			return domain.Frame{}, fmt.Errorf("stage %q at tick %d: %w", stage, tick, err)
		}
		aggregate.Merge(&diff)
		highlights = append(highlights, hl...)
		chronicle = append(chronicle, lines...)
	}

	if err := world.CheckInvariants(); err != nil {
		return domain.Frame{}, err
	}

	world.Tick = tick
	eraEnd := hasEraEndCause(aggregate.Causes)
	frame := domain.NewFrame(tick, world.Width, world.Height, aggregate, highlights, chronicle, eraEnd)
	return frame, nil
}

func hasEraEndCause(causes []domain.Cause) bool {
	for _, c := range causes {
		if c.Code == domain.CauseEraEnd {
			return true
		}
	}
	return false
}

// regionStream derives the per-region child stream a kernel uses for
// spatially-local randomness, keyed by the region's linear index so output
// depends only on (seed, stage, tick, region index) and never on the order
// regions happen to be iterated in.
func regionStream(root simrng.Stream, region int) simrng.Stream {
	label := simrng.StreamLabel(domain.RegionKey(region))
	return root.Derive(label)
}
