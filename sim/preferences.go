package sim

// Preference is one routing-table entry.
type Preference struct {
	Receiver    NodeRef
	Probability float64
}

// ReceiverPreferences is a sender's routing table: an equal-weight
// distribution over downstream receivers. Entries keep insertion order so
// Choose is reproducible for a given ProbabilityGenerator.
type ReceiverPreferences struct {
	entries []Preference
	pg      ProbabilityGenerator
}

// NewReceiverPreferences creates an empty table drawing from pg.
// Panics if pg is nil.
func NewReceiverPreferences(pg ProbabilityGenerator) *ReceiverPreferences {
	if pg == nil {
		panic("NewReceiverPreferences: pg must not be nil")
	}
	return &ReceiverPreferences{pg: pg}
}

// AddReceiver adds r and resets every entry to 1/n.
// Adding a receiver that is already present is a no-op.
func (rp *ReceiverPreferences) AddReceiver(r NodeRef) {
	if rp.index(r) >= 0 {
		return
	}
	rp.entries = append(rp.entries, Preference{Receiver: r})
	rp.rebalance()
}

// RemoveReceiver drops r, if present, and resets the remaining entries to 1/n.
// Reports whether r was present.
func (rp *ReceiverPreferences) RemoveReceiver(r NodeRef) bool {
	i := rp.index(r)
	if i < 0 {
		return false
	}
	rp.entries = append(rp.entries[:i], rp.entries[i+1:]...)
	rp.rebalance()
	return true
}

// Choose draws p in [0,1) and returns the first receiver whose cumulative
// probability reaches p. Returns false only when the table is empty.
func (rp *ReceiverPreferences) Choose() (NodeRef, bool) {
	if len(rp.entries) == 0 {
		return NodeRef{}, false
	}
	p := rp.pg()
	cumulative := 0.0
	for _, e := range rp.entries {
		cumulative += e.Probability
		if p <= cumulative {
			return e.Receiver, true
		}
	}
	// Rounding can leave the sum a hair under 1.
	return rp.entries[len(rp.entries)-1].Receiver, true
}

// Contains reports whether r is in the table.
func (rp *ReceiverPreferences) Contains(r NodeRef) bool {
	return rp.index(r) >= 0
}

// Probability returns r's weight, or 0 when r is absent.
func (rp *ReceiverPreferences) Probability(r NodeRef) float64 {
	if i := rp.index(r); i >= 0 {
		return rp.entries[i].Probability
	}
	return 0
}

// Len returns the number of entries.
func (rp *ReceiverPreferences) Len() int {
	return len(rp.entries)
}

// Empty reports whether the table has no entries.
func (rp *ReceiverPreferences) Empty() bool {
	return len(rp.entries) == 0
}

// Entries returns a copy of the table in insertion order.
func (rp *ReceiverPreferences) Entries() []Preference {
	out := make([]Preference, len(rp.entries))
	copy(out, rp.entries)
	return out
}

func (rp *ReceiverPreferences) index(r NodeRef) int {
	for i, e := range rp.entries {
		if e.Receiver == r {
			return i
		}
	}
	return -1
}

func (rp *ReceiverPreferences) rebalance() {
	if len(rp.entries) == 0 {
		return
	}
	w := 1.0 / float64(len(rp.entries))
	for i := range rp.entries {
		rp.entries[i].Probability = w
	}
}
