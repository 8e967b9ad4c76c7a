// Package simmetrics provides Prometheus metrics for the tick engine.
// Grounded on the teacher's internal/infra/metrics package — same
// promauto/client_golang wiring, generalized from inference/task/peer
// metrics to tick/kernel/hazard metrics.
package simmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Ticks ──────────────────────────────────────────────────────────────────

// TickLatency tracks one full tick's wall-clock duration in seconds.
var TickLatency = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "aeonis",
	Name:      "tick_latency_seconds",
	Help:      "Duration of a single tick's full kernel pipeline.",
	Buckets:   prometheus.DefBuckets,
})

// TicksCompleted tracks total ticks successfully run.
var TicksCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "aeonis",
	Name:      "ticks_completed_total",
	Help:      "Total ticks successfully advanced.",
})

// TicksFailed tracks ticks aborted by a kernel error, by stage.
var TicksFailed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "aeonis",
	Name:      "ticks_failed_total",
	Help:      "Total ticks aborted, labeled by the failing kernel stage.",
}, []string{"stage"})

// CurrentTick tracks the world's current tick number.
var CurrentTick = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "aeonis",
	Name:      "current_tick",
	Help:      "The world's current tick number.",
})

// ─── Kernels ────────────────────────────────────────────────────────────────

// KernelLatency tracks a single kernel stage's duration in seconds.
var KernelLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "aeonis",
	Name:      "kernel_latency_seconds",
	Help:      "Duration of a single kernel stage.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
}, []string{"stage"})

// DiffEntriesRecorded tracks how many sparse entries a stage's diff carried,
// by field.
var DiffEntriesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "aeonis",
	Name:      "diff_entries_recorded_total",
	Help:      "Total sparse diff entries recorded, by field name.",
}, []string{"field"})

// ─── Hazards ────────────────────────────────────────────────────────────────

// HazardRegionsActive tracks the number of regions currently over the
// drought/flood highlight threshold.
var HazardRegionsActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "aeonis",
	Name:      "hazard_regions_active",
	Help:      "Number of regions currently flagged for a hazard, by kind.",
}, []string{"kind"})

// ─── World ──────────────────────────────────────────────────────────────────

// SeaLevelEquivalentMM tracks the world's accumulated sea-level-equivalent
// tracker, in millimeters.
var SeaLevelEquivalentMM = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "aeonis",
	Name:      "sea_level_equivalent_mm",
	Help:      "Accumulated sea-level-equivalent contribution from ice mass loss, in millimeters.",
})

// RunsActive tracks the number of simulation runs currently being served.
var RunsActive = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "aeonis",
	Name:      "runs_active",
	Help:      "Number of simulation runs currently being served.",
})
