package sim

import (
	"math"
	"math/rand"
	"testing"
)

// === SimulationKey Tests ===

func TestSimulationKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
		{"min int64", math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewSimulationKey(tt.seed)
			if int64(key) != tt.seed {
				t.Errorf("NewSimulationKey(%d) = %d, want %d", tt.seed, key, tt.seed)
			}
		})
	}
}

// === PartitionedRNG Tests ===

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// GIVEN two RNGs built from the same key
	rng1 := NewPartitionedRNG(NewSimulationKey(42))
	rng2 := NewPartitionedRNG(NewSimulationKey(42))
	name := SubsystemSender(WorkerRef(3))

	// THEN the same subsystem yields the same sequence
	for i := 0; i < 5; i++ {
		v1 := rng1.ForSubsystem(name).Float64()
		v2 := rng2.ForSubsystem(name).Float64()
		if v1 != v2 {
			t.Errorf("value %d: got %v and %v, want identical", i, v1, v2)
		}
	}
}

func TestPartitionedRNG_SenderStreamsAreIsolated(t *testing.T) {
	// GIVEN two RNGs from the same key
	rngA := NewPartitionedRNG(NewSimulationKey(42))
	rngB := NewPartitionedRNG(NewSimulationKey(42))
	ramp := SubsystemSender(RampRef(1))
	worker := SubsystemSender(WorkerRef(1))

	// WHEN rngA draws heavily from the ramp stream first
	for i := 0; i < 100; i++ {
		rngA.ForSubsystem(ramp).Float64()
	}

	// THEN the worker stream is unaffected
	a := rngA.ForSubsystem(worker).Float64()
	b := rngB.ForSubsystem(worker).Float64()
	if a != b {
		t.Errorf("worker stream affected by ramp draws: %v vs %v", a, b)
	}
}

func TestPartitionedRNG_SenderUsesDerivedSeed(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	name := SubsystemSender(RampRef(2))
	want := newRandFromSeed(42 ^ fnv1a64(name)).Float64()
	if got := rng.ForSubsystem(name).Float64(); got != want {
		t.Errorf("sender stream: got %v, want %v", got, want)
	}
}

func TestPartitionedRNG_CachesInstance(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	r1 := rng.ForSubsystem("x")
	r2 := rng.ForSubsystem("x")
	if r1 != r2 {
		t.Error("ForSubsystem returned a different instance for the same name")
	}
	if len(rng.streams) != 1 {
		t.Errorf("have %d cached subsystems, want 1", len(rng.streams))
	}
}

func TestPartitionedRNG_Key(t *testing.T) {
	key := NewSimulationKey(7)
	if got := NewPartitionedRNG(key).Key(); got != key {
		t.Errorf("Key() = %d, want %d", got, key)
	}
}

// === fnv1a64 Tests ===

func TestFnv1a64_NoCollisionsAcrossSenders(t *testing.T) {
	names := []string{""}
	for id := ElementID(1); id <= 50; id++ {
		names = append(names, SubsystemSender(RampRef(id)), SubsystemSender(WorkerRef(id)))
	}

	hashes := make(map[int64]string)
	for _, name := range names {
		h := fnv1a64(name)
		if existing, ok := hashes[h]; ok {
			t.Errorf("hash collision: %q and %q both hash to %d", name, existing, h)
		}
		hashes[h] = name
	}
}

// === SubsystemSender Tests ===

func TestSubsystemSender(t *testing.T) {
	tests := []struct {
		ref  NodeRef
		want string
	}{
		{RampRef(1), "sender_ramp_1"},
		{WorkerRef(1), "sender_worker_1"},
		{WorkerRef(100), "sender_worker_100"},
	}

	for _, tt := range tests {
		if got := SubsystemSender(tt.ref); got != tt.want {
			t.Errorf("SubsystemSender(%s) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

// === FixedProbabilities Tests ===

func TestFixedProbabilities_ReplaysThenRepeatsLast(t *testing.T) {
	pg := FixedProbabilities(0.1, 0.7)
	want := []float64{0.1, 0.7, 0.7, 0.7}
	for i, w := range want {
		if got := pg(); got != w {
			t.Errorf("draw %d: got %v, want %v", i, got, w)
		}
	}
}

func TestFixedProbabilities_Empty_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for empty values")
		}
	}()
	FixedProbabilities()
}

// === Benchmark ===

func BenchmarkPartitionedRNG_ForSubsystem_CacheHit(b *testing.B) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	name := SubsystemSender(RampRef(1))
	rng.ForSubsystem(name)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rng.ForSubsystem(name)
	}
}

// === Helper ===

func newRandFromSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
