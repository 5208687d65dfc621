// Package sim provides the core discrete-event simulation engine for a
// two-product manufacturing line (product classes WB and BB).
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - batch.go: Batch lifecycle (Form → Cook → Cure → Cut) and cutting state machine
//   - dispatch.go: The per-crew dispatch decision (clean, form, cut, or idle)
//   - simulator.go: The wake-round loop, event-candidate clock, and anti-stall guard
//
// # Architecture
//
// A Simulator owns an explicit ResourceState (crew/oven/form-area free times,
// cleaning clocks, cumulative output counters) and a set of active batches.
// Each loop iteration is a wake round: crew 1 dispatches first, crew 2 second,
// and crew 2 observes crew 1's just-made claims. All state mutation happens
// synchronously inside the dispatch step; "waiting" advances a crew's next-free
// timestamp rather than blocking anything. A run is strictly single-threaded
// and deterministic given a SimulationKey.
//
// Sub-packages:
//   - sim/trace: pure-data batch/cleaning trace records and wait-time summaries
//   - sim/montecarlo: parallel harness running independent Simulators
//   - sim/whatif: bottleneck what-if search and priority-strategy comparison
//
// # Key Interfaces
//
// The extension point is PriorityPolicy: given cumulative production state, it
// decides whether the next formed batch should be WB or BB. Nine named
// variants ship in policy.go; ResolvePolicy maps a strategy name to one.
package sim
