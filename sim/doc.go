// Package sim provides the tick-driven simulation engine for a logistics
// network of loading ramps, workers and storehouses.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - node.go: NodeRef handles, the Sender/Receiver capabilities and the
//     shared one-slot sending buffer
//   - ramp.go, worker.go, storehouse.go: the three node variants
//   - factory.go: node ownership, graph edits and the per-turn pipeline
//
// # Tick pipeline
//
// Factory.Tick(t) runs three phases over the whole network, in order:
//  1. deliveries: every ramp may put a fresh package in its buffer
//  2. work: every worker advances its processing state machine
//  3. package passing: every worker, then every ramp, sends its buffered
//     package to a receiver picked by its ReceiverPreferences
//
// Routing is the only randomness. Each sender draws from its own stream of
// a PartitionedRNG, or from an injected ProbabilityGenerator.
//
// # Consistency
//
// Factory.CheckConsistency walks the routing graph from every ramp and
// reports whether all of them can reach a storehouse. Ticking never checks
// this; Simulate does, once, before the first turn.
//
// Sub-packages:
//   - sim/netio/: text and YAML network descriptions
//   - sim/report/: structure and per-turn reports, report notifiers
//   - sim/topology/: route analysis over a graph view of the network
//   - sim/trace/: per-package trace recording
package sim
