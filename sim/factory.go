// sim/factory.go
package sim

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/netsim-dev/netsim/sim/trace"
)

// FactoryConfig configures a Factory.
type FactoryConfig struct {
	// Seed keys the per-sender routing streams.
	Seed int64
	// Probability, when set, replaces every sender's routing stream. Used by
	// tests to script routing choices.
	Probability ProbabilityGenerator
	// Trace, when set and enabled, receives a record per delivery, routing
	// choice and stalled send.
	Trace *trace.SimulationTrace
}

// Factory owns the network: the three node collections, the package id
// allocator and the routing randomness. It is the only mutator of node
// state; every edit and every tick goes through it.
//
// Thread-safety: NOT thread-safe.
type Factory struct {
	ramps       NodeCollection[*Ramp]
	workers     NodeCollection[*Worker]
	storehouses NodeCollection[*Storehouse]

	alloc   *IDAllocator
	rng     *PartitionedRNG
	pg      ProbabilityGenerator
	trace   *trace.SimulationTrace
	metrics *Metrics
}

// NewFactory creates an empty network.
func NewFactory(cfg FactoryConfig) *Factory {
	f := &Factory{
		alloc:   NewIDAllocator(),
		rng:     NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
		pg:      cfg.Probability,
		metrics: NewMetrics(),
	}
	if cfg.Trace != nil && cfg.Trace.Config.Enabled() {
		f.trace = cfg.Trace
	}
	return f
}

// === Construction ===

// AddRamp adds a ramp delivering every deliveryInterval turns.
func (f *Factory) AddRamp(id ElementID, deliveryInterval TimeOffset) error {
	ref := RampRef(id)
	if deliveryInterval < 1 {
		return &StructuralError{Op: "add", Ref: ref, Err: ErrInvalidParameter, Info: "delivery interval must be >= 1"}
	}
	if err := f.ramps.Add(NewRamp(id, deliveryInterval, f.probabilityFor(ref))); err != nil {
		return err
	}
	logrus.Debugf("added %s (delivery interval %d)", ref, deliveryInterval)
	return nil
}

// AddWorker adds a worker taking processingDuration turns per package.
func (f *Factory) AddWorker(id ElementID, processingDuration TimeOffset, queueType QueueType) error {
	ref := WorkerRef(id)
	if processingDuration < 1 {
		return &StructuralError{Op: "add", Ref: ref, Err: ErrInvalidParameter, Info: "processing time must be >= 1"}
	}
	if queueType != FIFO && queueType != LIFO {
		return &StructuralError{Op: "add", Ref: ref, Err: ErrInvalidParameter, Info: "unknown queue type"}
	}
	w := NewWorker(id, processingDuration, NewPackageQueue(queueType), f.probabilityFor(ref))
	if err := f.workers.Add(w); err != nil {
		return err
	}
	logrus.Debugf("added %s (processing time %d, %s)", ref, processingDuration, queueType)
	return nil
}

// AddStorehouse adds a storehouse.
func (f *Factory) AddStorehouse(id ElementID) error {
	if err := f.storehouses.Add(NewStorehouse(id, nil)); err != nil {
		return err
	}
	logrus.Debugf("added %s", StorehouseRef(id))
	return nil
}

func (f *Factory) probabilityFor(ref NodeRef) ProbabilityGenerator {
	if f.pg != nil {
		return f.pg
	}
	return f.rng.ForSubsystem(SubsystemSender(ref)).Float64
}

// === Graph edits ===

// AddLink adds receiver `to` to the routing table of sender `from`.
// Linking an already linked pair is a no-op.
func (f *Factory) AddLink(from, to NodeRef) error {
	if !from.Kind.CanSend() {
		return &StructuralError{Op: "link", Ref: from, Err: ErrInvalidLink, Info: "source must be a ramp or worker"}
	}
	if !to.Kind.CanReceive() {
		return &StructuralError{Op: "link", Ref: to, Err: ErrInvalidLink, Info: "destination must be a worker or storehouse"}
	}
	s, ok := f.Sender(from)
	if !ok {
		return &StructuralError{Op: "link", Ref: from, Err: ErrUnknownNode}
	}
	if _, ok := f.Receiver(to); !ok {
		return &StructuralError{Op: "link", Ref: to, Err: ErrUnknownNode}
	}
	s.Preferences().AddReceiver(to)
	logrus.Debugf("linked %s -> %s", from, to)
	return nil
}

// RemoveLink removes receiver `to` from the routing table of sender `from`.
func (f *Factory) RemoveLink(from, to NodeRef) error {
	s, ok := f.Sender(from)
	if !ok {
		return &StructuralError{Op: "unlink", Ref: from, Err: ErrUnknownNode}
	}
	if !s.Preferences().RemoveReceiver(to) {
		return &StructuralError{Op: "unlink", Ref: from, Err: ErrInvalidLink, Info: "no link to " + to.String()}
	}
	logrus.Debugf("unlinked %s -> %s", from, to)
	return nil
}

// RemoveNode removes a node of any kind. Every routing-table entry pointing
// at it is purged from every sender first, then the node leaves its
// collection and the ids of the packages it held are released.
func (f *Factory) RemoveNode(ref NodeRef) error {
	held, ok := f.heldPackages(ref)
	if !ok {
		return &StructuralError{Op: "remove", Ref: ref, Err: ErrUnknownNode}
	}
	for _, p := range held {
		if !f.alloc.IsActive(p.ID()) {
			return &StructuralError{Op: "remove", Ref: ref,
				Err: &IdentityError{Op: "release", ID: p.ID(), Reason: "id not active"}}
		}
	}

	if ref.Kind.CanReceive() {
		f.purgeReceiver(ref)
	}
	switch ref.Kind {
	case KindRamp:
		f.ramps.Remove(ref.ID)
	case KindWorker:
		f.workers.Remove(ref.ID)
	case KindStorehouse:
		f.storehouses.Remove(ref.ID)
	}

	var errs []error
	for _, p := range held {
		errs = append(errs, f.alloc.Release(p.ID()))
	}
	logrus.Debugf("removed %s (%d packages discarded)", ref, len(held))
	return errors.Join(errs...)
}

// RemoveRamp removes the ramp with the given id.
func (f *Factory) RemoveRamp(id ElementID) error { return f.RemoveNode(RampRef(id)) }

// RemoveWorker removes the worker with the given id and every link to it.
func (f *Factory) RemoveWorker(id ElementID) error { return f.RemoveNode(WorkerRef(id)) }

// RemoveStorehouse removes the storehouse with the given id and every link to it.
func (f *Factory) RemoveStorehouse(id ElementID) error { return f.RemoveNode(StorehouseRef(id)) }

// purgeReceiver drops ref from every sender's routing table, whatever the
// sender's kind.
func (f *Factory) purgeReceiver(ref NodeRef) {
	for _, r := range f.ramps.Items() {
		r.Preferences().RemoveReceiver(ref)
	}
	for _, w := range f.workers.Items() {
		w.Preferences().RemoveReceiver(ref)
	}
}

func (f *Factory) heldPackages(ref NodeRef) ([]Package, bool) {
	switch ref.Kind {
	case KindRamp:
		if r, ok := f.ramps.Find(ref.ID); ok {
			return r.heldPackages(), true
		}
	case KindWorker:
		if w, ok := f.workers.Find(ref.ID); ok {
			return w.heldPackages(), true
		}
	case KindStorehouse:
		if s, ok := f.storehouses.Find(ref.ID); ok {
			return s.Items(), true
		}
	}
	return nil, false
}

// === Queries ===

// Ramp returns the ramp with the given id.
func (f *Factory) Ramp(id ElementID) (*Ramp, bool) { return f.ramps.Find(id) }

// Worker returns the worker with the given id.
func (f *Factory) Worker(id ElementID) (*Worker, bool) { return f.workers.Find(id) }

// Storehouse returns the storehouse with the given id.
func (f *Factory) Storehouse(id ElementID) (*Storehouse, bool) { return f.storehouses.Find(id) }

// Ramps returns the ramps in insertion order. Callers MUST NOT modify the slice.
func (f *Factory) Ramps() []*Ramp { return f.ramps.Items() }

// Workers returns the workers in insertion order. Callers MUST NOT modify the slice.
func (f *Factory) Workers() []*Worker { return f.workers.Items() }

// Storehouses returns the storehouses in insertion order. Callers MUST NOT modify the slice.
func (f *Factory) Storehouses() []*Storehouse { return f.storehouses.Items() }

// Sender resolves a handle to a ramp or worker.
func (f *Factory) Sender(ref NodeRef) (Sender, bool) {
	switch ref.Kind {
	case KindRamp:
		if r, ok := f.ramps.Find(ref.ID); ok {
			return r, true
		}
	case KindWorker:
		if w, ok := f.workers.Find(ref.ID); ok {
			return w, true
		}
	}
	return nil, false
}

// Receiver resolves a handle to a worker or storehouse. Implements
// ReceiverResolver.
func (f *Factory) Receiver(ref NodeRef) (Receiver, bool) {
	switch ref.Kind {
	case KindWorker:
		if w, ok := f.workers.Find(ref.ID); ok {
			return w, true
		}
	case KindStorehouse:
		if s, ok := f.storehouses.Find(ref.ID); ok {
			return s, true
		}
	}
	return nil, false
}

// Allocator returns the factory's package id allocator.
func (f *Factory) Allocator() *IDAllocator { return f.alloc }

// Metrics returns the counters accumulated by Tick.
func (f *Factory) Metrics() *Metrics { return f.metrics }

// Trace returns the active trace, or nil when tracing is off.
func (f *Factory) Trace() *trace.SimulationTrace { return f.trace }

// === Tick pipeline ===

// Tick runs one turn: deliveries on every ramp, then work on every worker,
// then package passing (workers before ramps). Never fails; on an
// inconsistent network packages simply stay in sender buffers.
func (f *Factory) Tick(t Time) {
	f.DoDeliveries(t)
	f.DoWork(t)
	f.DoPackagePassing(t)
	f.metrics.Turns++
}

// DoDeliveries lets every ramp deliver for turn t.
func (f *Factory) DoDeliveries(t Time) {
	for _, r := range f.ramps.Items() {
		p, ok := r.DeliverGoods(t, f.alloc)
		if !ok {
			continue
		}
		f.metrics.Delivered++
		if f.trace != nil {
			f.trace.RecordDelivery(trace.DeliveryRecord{PackageID: int64(p.ID()), Clock: int64(t), Ramp: r.Ref().String()})
		}
		logrus.Debugf("[t=%d] %s delivered %s", t, r.Ref(), p)
	}
}

// DoWork advances every worker for turn t.
func (f *Factory) DoWork(t Time) {
	for _, w := range f.workers.Items() {
		if p, ok := w.DoWork(t); ok {
			f.metrics.Completed++
			logrus.Debugf("[t=%d] %s completed %s", t, w.Ref(), p)
		}
		if _, busy := w.ProcessingBuffer(); busy {
			f.metrics.BusyWorkerTurn++
		}
	}
}

// DoPackagePassing sends every buffered package, workers first, then ramps.
func (f *Factory) DoPackagePassing(t Time) {
	for _, w := range f.workers.Items() {
		f.send(w, t)
	}
	for _, r := range f.ramps.Items() {
		f.send(r, t)
	}
}

func (f *Factory) send(s Sender, t Time) {
	p, held := s.SendingBuffer()
	if !held {
		return
	}
	to, ok := s.SendPackage(f)
	if !ok {
		f.metrics.StalledSends++
		if f.trace != nil {
			f.trace.RecordStall(trace.StallRecord{PackageID: int64(p.ID()), Clock: int64(t), Sender: s.Ref().String()})
		}
		logrus.Debugf("[t=%d] %s could not send %s: no receiver", t, s.Ref(), p)
		return
	}
	f.metrics.Routed++
	if to.Kind == KindStorehouse {
		f.metrics.StoredPerStorehouse[to.ID]++
	}
	if f.trace != nil {
		f.trace.RecordRouting(trace.RoutingRecord{
			PackageID:   int64(p.ID()),
			Clock:       int64(t),
			Sender:      s.Ref().String(),
			Receiver:    to.String(),
			Probability: s.Preferences().Probability(to),
		})
	}
	logrus.Debugf("[t=%d] %s sent %s to %s", t, s.Ref(), p, to)
}
