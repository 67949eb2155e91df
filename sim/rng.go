package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and the same network description
// MUST route every package identically.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// DefaultSeed is used when no seed is configured.
const DefaultSeed int64 = 42

// SubsystemSender names the routing stream of one sender. Each sender draws
// from its own stream, so adding or removing a node never shifts another
// node's routing sequence.
func SubsystemSender(ref NodeRef) string {
	return fmt.Sprintf("sender_%s_%d", ref.Kind, ref.ID)
}

// === PartitionedRNG ===

// PartitionedRNG hands out one seeded *rand.Rand per named stream. A stream
// is seeded with masterSeed XOR fnv1a64(name) and created on first use.
//
// Thread-safety: NOT thread-safe.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:     key,
		streams: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the stream for name, creating it on first use.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	rng, ok := p.streams[name]
	if !ok {
		rng = rand.New(rand.NewSource(int64(p.key) ^ fnv1a64(name)))
		p.streams[name] = rng
	}
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// === ProbabilityGenerator ===

// ProbabilityGenerator returns a sample uniformly distributed in [0,1).
type ProbabilityGenerator func() float64

// FixedProbabilities returns a generator that replays values in order and
// then repeats the last one. Intended for tests and scripted scenarios.
// Panics if values is empty.
func FixedProbabilities(values ...float64) ProbabilityGenerator {
	if len(values) == 0 {
		panic("FixedProbabilities: values must not be empty")
	}
	i := 0
	return func() float64 {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}
