package sim

import "testing"

// mapResolver resolves handles from a fixed map. Lets node tests send
// without building a Factory.
type mapResolver map[NodeRef]Receiver

func (m mapResolver) Receiver(ref NodeRef) (Receiver, bool) {
	r, ok := m[ref]
	return r, ok
}

// newTestFactory returns a factory whose routing always draws p.
func newTestFactory(p float64) *Factory {
	return NewFactory(FactoryConfig{Probability: FixedProbabilities(p)})
}

// mustOK fails the test immediately on a non-nil error.
func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// packageIDs flattens packages into their ids.
func packageIDs(ps []Package) []ElementID {
	ids := make([]ElementID, len(ps))
	for i, p := range ps {
		ids[i] = p.ID()
	}
	return ids
}

// linearNetwork builds ramp-1 -> worker-1 -> store-1.
func linearNetwork(t *testing.T, interval, duration TimeOffset) *Factory {
	t.Helper()
	f := newTestFactory(0.5)
	mustOK(t, f.AddRamp(1, interval))
	mustOK(t, f.AddWorker(1, duration, FIFO))
	mustOK(t, f.AddStorehouse(1))
	mustOK(t, f.AddLink(RampRef(1), WorkerRef(1)))
	mustOK(t, f.AddLink(WorkerRef(1), StorehouseRef(1)))
	return f
}
