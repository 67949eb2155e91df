package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConsistency(t *testing.T) {
	tests := []struct {
		name       string
		build      func(t *testing.T, f *Factory)
		consistent bool
		reason     ConsistencyReason
		node       NodeRef
	}{
		{
			name:       "empty network is consistent",
			build:      func(t *testing.T, f *Factory) {},
			consistent: true,
		},
		{
			name: "ramp straight to storehouse",
			build: func(t *testing.T, f *Factory) {
				mustOK(t, f.AddRamp(1, 1))
				mustOK(t, f.AddStorehouse(1))
				mustOK(t, f.AddLink(RampRef(1), StorehouseRef(1)))
			},
			consistent: true,
		},
		{
			name: "ramp with no receivers",
			build: func(t *testing.T, f *Factory) {
				mustOK(t, f.AddRamp(1, 1))
			},
			reason: ReasonNoReceivers,
			node:   RampRef(1),
		},
		{
			name: "worker with no receivers",
			build: func(t *testing.T, f *Factory) {
				mustOK(t, f.AddRamp(1, 1))
				mustOK(t, f.AddWorker(1, 1, FIFO))
				mustOK(t, f.AddLink(RampRef(1), WorkerRef(1)))
			},
			reason: ReasonNoReceivers,
			node:   WorkerRef(1),
		},
		{
			name: "closed cycle between workers",
			build: func(t *testing.T, f *Factory) {
				mustOK(t, f.AddRamp(1, 1))
				mustOK(t, f.AddWorker(1, 1, FIFO))
				mustOK(t, f.AddWorker(2, 1, FIFO))
				mustOK(t, f.AddLink(RampRef(1), WorkerRef(1)))
				mustOK(t, f.AddLink(WorkerRef(1), WorkerRef(2)))
				mustOK(t, f.AddLink(WorkerRef(2), WorkerRef(1)))
			},
			reason: ReasonNoStorehouseReachable,
			node:   WorkerRef(2),
		},
		{
			name: "self-loop with an exit",
			build: func(t *testing.T, f *Factory) {
				mustOK(t, f.AddRamp(1, 1))
				mustOK(t, f.AddWorker(1, 1, FIFO))
				mustOK(t, f.AddStorehouse(1))
				mustOK(t, f.AddLink(RampRef(1), WorkerRef(1)))
				mustOK(t, f.AddLink(WorkerRef(1), WorkerRef(1)))
				mustOK(t, f.AddLink(WorkerRef(1), StorehouseRef(1)))
			},
			consistent: true,
		},
		{
			name: "cycle with an exit further down",
			build: func(t *testing.T, f *Factory) {
				mustOK(t, f.AddRamp(1, 1))
				mustOK(t, f.AddWorker(1, 1, FIFO))
				mustOK(t, f.AddWorker(2, 1, LIFO))
				mustOK(t, f.AddStorehouse(1))
				mustOK(t, f.AddLink(RampRef(1), WorkerRef(1)))
				mustOK(t, f.AddLink(WorkerRef(1), WorkerRef(2)))
				mustOK(t, f.AddLink(WorkerRef(2), WorkerRef(1)))
				mustOK(t, f.AddLink(WorkerRef(2), StorehouseRef(1)))
			},
			consistent: true,
		},
		{
			name: "dead-end sibling fails even next to a storehouse",
			build: func(t *testing.T, f *Factory) {
				mustOK(t, f.AddRamp(1, 1))
				mustOK(t, f.AddWorker(1, 1, FIFO))
				mustOK(t, f.AddStorehouse(1))
				mustOK(t, f.AddLink(RampRef(1), WorkerRef(1)))
				mustOK(t, f.AddLink(RampRef(1), StorehouseRef(1)))
			},
			reason: ReasonNoReceivers,
			node:   WorkerRef(1),
		},
		{
			name: "second ramp fails",
			build: func(t *testing.T, f *Factory) {
				mustOK(t, f.AddRamp(1, 1))
				mustOK(t, f.AddRamp(2, 1))
				mustOK(t, f.AddStorehouse(1))
				mustOK(t, f.AddLink(RampRef(1), StorehouseRef(1)))
			},
			reason: ReasonNoReceivers,
			node:   RampRef(2),
		},
		{
			name: "shared worker verified once",
			build: func(t *testing.T, f *Factory) {
				mustOK(t, f.AddRamp(1, 1))
				mustOK(t, f.AddRamp(2, 1))
				mustOK(t, f.AddWorker(1, 1, FIFO))
				mustOK(t, f.AddStorehouse(1))
				mustOK(t, f.AddLink(RampRef(1), WorkerRef(1)))
				mustOK(t, f.AddLink(RampRef(2), WorkerRef(1)))
				mustOK(t, f.AddLink(WorkerRef(1), StorehouseRef(1)))
			},
			consistent: true,
		},
		{
			name: "unreachable dead-end worker is ignored",
			build: func(t *testing.T, f *Factory) {
				mustOK(t, f.AddRamp(1, 1))
				mustOK(t, f.AddWorker(1, 1, FIFO))
				mustOK(t, f.AddStorehouse(1))
				mustOK(t, f.AddLink(RampRef(1), StorehouseRef(1)))
			},
			consistent: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN the network
			f := newTestFactory(0.5)
			tt.build(t, f)

			// WHEN checked
			res := f.CheckConsistency()

			// THEN the verdict and the failing node match
			require.Equal(t, tt.consistent, res.Consistent, "result: %s", res)
			assert.Equal(t, tt.consistent, f.IsConsistent())
			if !tt.consistent {
				assert.Equal(t, tt.reason, res.Reason)
				assert.Equal(t, tt.node, res.Node)
			}
		})
	}
}

func TestCheckConsistency_IsReadOnly(t *testing.T) {
	// GIVEN a consistent network
	f := linearNetwork(t, 1, 1)

	// WHEN checked repeatedly
	first := f.CheckConsistency()
	second := f.CheckConsistency()

	// THEN the verdict is stable and the routing tables are untouched
	assert.Equal(t, first, second)
	r, _ := f.Ramp(1)
	assert.Equal(t, []Preference{{Receiver: WorkerRef(1), Probability: 1}}, r.Preferences().Entries())
}

func TestConsistencyResult_String(t *testing.T) {
	assert.Equal(t, "consistent", ConsistencyResult{Consistent: true}.String())
	assert.Equal(t, "worker-2 has no receivers (reached from ramp-1)",
		ConsistencyResult{Reason: ReasonNoReceivers, Ramp: RampRef(1), Node: WorkerRef(2)}.String())
	assert.Equal(t, "no storehouse reachable from ramp-1 (dead end at worker-3)",
		ConsistencyResult{Reason: ReasonNoStorehouseReachable, Ramp: RampRef(1), Node: WorkerRef(3)}.String())
}
