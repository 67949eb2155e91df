package sim

import "fmt"

// ConsistencyReason explains why a network failed the consistency check.
type ConsistencyReason string

const (
	// ReasonNone marks a consistent network.
	ReasonNone ConsistencyReason = ""
	// ReasonNoReceivers: a sender on some ramp's path has an empty routing table.
	ReasonNoReceivers ConsistencyReason = "no-receivers"
	// ReasonNoStorehouseReachable: every edge out of a sender leads only to
	// dead ends or back into the path being explored.
	ReasonNoStorehouseReachable ConsistencyReason = "no-storehouse-reachable"
)

// ConsistencyResult is the outcome of Factory.CheckConsistency.
// On failure, Ramp is the ramp whose walk failed and Node the dead-end sender.
type ConsistencyResult struct {
	Consistent bool
	Reason     ConsistencyReason
	Ramp       NodeRef
	Node       NodeRef
}

func (r ConsistencyResult) String() string {
	if r.Consistent {
		return "consistent"
	}
	switch r.Reason {
	case ReasonNoReceivers:
		return fmt.Sprintf("%s has no receivers (reached from %s)", r.Node, r.Ramp)
	case ReasonNoStorehouseReachable:
		return fmt.Sprintf("no storehouse reachable from %s (dead end at %s)", r.Ramp, r.Node)
	default:
		return fmt.Sprintf("inconsistent (%s)", r.Reason)
	}
}

type nodeColor int

const (
	colorUnvisited nodeColor = iota
	colorVisited
	colorVerified
)

// consistencyCheck holds the colour state of one CheckConsistency call.
type consistencyCheck struct {
	factory *Factory
	colors  map[NodeRef]nodeColor
	ramp    NodeRef
}

// CheckConsistency verifies that every ramp can reach a storehouse through
// routing-table edges. The walk is a three-colour DFS: senders are
// unvisited, in progress, or verified. Edges back into the path in progress
// are skipped, so cycles and self-loops terminate. Any sender with an empty
// routing table, or whose edges lead nowhere, fails the whole network.
// Read-only; the colour state lives only for the duration of the call.
func (f *Factory) CheckConsistency() ConsistencyResult {
	c := &consistencyCheck{
		factory: f,
		colors:  make(map[NodeRef]nodeColor),
	}
	for _, r := range f.ramps.Items() {
		c.ramp = r.Ref()
		if res := c.visit(r); !res.Consistent {
			return res
		}
	}
	return ConsistencyResult{Consistent: true}
}

// IsConsistent reports whether CheckConsistency succeeds.
func (f *Factory) IsConsistent() bool {
	return f.CheckConsistency().Consistent
}

func (c *consistencyCheck) visit(s Sender) ConsistencyResult {
	ref := s.Ref()
	if c.colors[ref] == colorVerified {
		return c.ok()
	}
	c.colors[ref] = colorVisited

	prefs := s.Preferences()
	if prefs.Empty() {
		return c.fail(ReasonNoReceivers, ref)
	}

	for _, e := range prefs.Entries() {
		switch e.Receiver.Kind {
		case KindStorehouse:
			c.colors[ref] = colorVerified
			return c.ok()
		case KindWorker:
			switch c.colors[e.Receiver] {
			case colorVisited:
				continue
			case colorVerified:
				c.colors[ref] = colorVerified
				return c.ok()
			}
			next, found := c.factory.workers.Find(e.Receiver.ID)
			if !found {
				continue
			}
			res := c.visit(next)
			if !res.Consistent {
				return res
			}
			c.colors[ref] = colorVerified
			return res
		}
	}
	return c.fail(ReasonNoStorehouseReachable, ref)
}

func (c *consistencyCheck) ok() ConsistencyResult {
	return ConsistencyResult{Consistent: true}
}

func (c *consistencyCheck) fail(reason ConsistencyReason, node NodeRef) ConsistencyResult {
	return ConsistencyResult{Reason: reason, Ramp: c.ramp, Node: node}
}
