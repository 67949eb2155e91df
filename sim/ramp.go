package sim

import "fmt"

// Ramp is a loading ramp: it originates a package every delivery interval.
// It only sends.
type Ramp struct {
	PackageSender
	id               ElementID
	deliveryInterval TimeOffset
	lastDelivery     Time
	started          bool
}

// NewRamp creates a ramp whose routing table draws from pg.
// Panics if deliveryInterval < 1; Factory.AddRamp validates first.
func NewRamp(id ElementID, deliveryInterval TimeOffset, pg ProbabilityGenerator) *Ramp {
	if deliveryInterval < 1 {
		panic(fmt.Sprintf("NewRamp: deliveryInterval must be >= 1, got %d", deliveryInterval))
	}
	return &Ramp{
		PackageSender:    newPackageSender(pg),
		id:               id,
		deliveryInterval: deliveryInterval,
	}
}

func (r *Ramp) ID() ElementID { return r.id }
func (r *Ramp) Ref() NodeRef  { return RampRef(r.id) }

// DeliveryInterval returns the number of turns between deliveries.
func (r *Ramp) DeliveryInterval() TimeOffset { return r.deliveryInterval }

// LastDeliveryTime returns the turn the last delivery fell due.
// Meaningless before the first call to DeliverGoods.
func (r *Ramp) LastDeliveryTime() Time { return r.lastDelivery }

// DeliverGoods puts a fresh package into the sending buffer when a delivery
// is due. The first call always delivers; afterwards a delivery is due when
// t - last == interval. A due delivery is skipped while the buffer still holds
// the previous package, and the schedule moves on regardless.
func (r *Ramp) DeliverGoods(t Time, alloc *IDAllocator) (Package, bool) {
	if !r.started {
		r.started = true
		r.lastDelivery = t
		return r.deliver(alloc), true
	}
	if TimeOffset(t-r.lastDelivery) != r.deliveryInterval {
		return Package{}, false
	}
	r.lastDelivery = t
	if r.bufferFull() {
		return Package{}, false
	}
	return r.deliver(alloc), true
}

func (r *Ramp) deliver(alloc *IDAllocator) Package {
	p := alloc.NewPackage()
	r.pushPackage(p)
	return p
}

// heldPackages returns every package the ramp owns.
func (r *Ramp) heldPackages() []Package {
	p, ok := r.SendingBuffer()
	if !ok {
		return nil
	}
	return []Package{p}
}
