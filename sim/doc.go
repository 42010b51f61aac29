// Package sim provides the Monte Carlo engine that forecasts relative
// frontier-AI development capacity for two actors over a multi-year horizon.
//
// # Reading Guide
//
// Start with these files:
//   - params.go: per-actor parameter sets and the research-based defaults
//   - sampler.go: log-normal factor sampling with growth and constraint ceilings
//   - energy.go: the three energy models (simple growth, two-phase, grid saturation)
//   - simulator.go: the year loop and the per-actor state machine (StepActor)
//
// # Model
//
// Each year, for each actor, compute, capital and talent are sampled
// independently per trial; the energy model then consumes last year's energy
// state and this year's compute; progress is a Cobb-Douglas combination of
// the four factors scaled by a path-dependency term on last year's progress;
// training capacity converts compute and energy into yotta-FLOP-years.
//
// Trial i of every array in a year describes the same realization, so all
// combinations are element-wise.
//
// # Randomness
//
// All randomness comes from a PartitionedRNG owned by one Simulator. Each
// (actor, factor) pair has its own stream, so the same seed reproduces the
// same RunResult bit for bit regardless of goroutine scheduling.
//
// Summaries over the trial dimension live in sim/stats; scenario files are
// parsed by sim/scenario.
package sim
