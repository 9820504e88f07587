// Package sim provides the trial simulation core for fmt-sim.
//
// # Reading Guide
//
// Start with these files:
//   - donor.go: donor-quality lists (parse, generate, write)
//   - outcome.go: responses, donor symbols and the outcome history codec
//   - trial.go: the per-patient trial loop and the parallel multi-trial runner
//
// # Architecture
//
// The sim package defines the Allocator contract and the data types; the
// policies and analyses live in sub-packages:
//   - sim/allocation/: block, random, Polya urn and myopic Bayesian allocators
//   - sim/integrate/: unit-cube quadrature behind the Bayesian posterior
//   - sim/memo/: bounded memo cache with an admission predicate
//   - sim/analysis/: Fisher exact tests, Clopper-Pearson intervals and power
//   - sim/trace/: per-decision allocation records and their summary
//
// # Randomness
//
// No component draws from a global source. PartitionedRNG derives one stream
// per subsystem and per trial from a single seed, so a run is reproducible for
// any worker count.
package sim
