// Tracks simulation-wide counters such as deliveries, routed packages,
// stalled sends and storehouse arrivals.

package sim

import (
	"fmt"
	"io"
	"slices"
)

// Metrics aggregates statistics about a simulation run for final reporting.
type Metrics struct {
	RunID          string // identifies the run in logs and the printed header
	Turns          int64  // number of ticks executed
	Delivered      int    // packages created by ramps
	Routed         int    // packages handed to a receiver
	Completed      int    // packages finished by workers
	StalledSends   int    // sends that left a package buffered
	BusyWorkerTurn int    // sum over ticks of workers holding a package in their working slot

	StoredPerStorehouse map[ElementID]int // storehouse id -> packages received during the run
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		StoredPerStorehouse: make(map[ElementID]int),
	}
}

// Stored returns the number of packages that reached any storehouse.
func (m *Metrics) Stored() int {
	total := 0
	for _, n := range m.StoredPerStorehouse {
		total += n
	}
	return total
}

// Print writes the aggregated metrics to w.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	if m.RunID != "" {
		fmt.Fprintf(w, "Run ID               : %s\n", m.RunID)
	}
	fmt.Fprintf(w, "Turns                : %d\n", m.Turns)
	fmt.Fprintf(w, "Delivered Packages   : %d\n", m.Delivered)
	fmt.Fprintf(w, "Completed Packages   : %d\n", m.Completed)
	fmt.Fprintf(w, "Routed Packages      : %d\n", m.Routed)
	fmt.Fprintf(w, "Stored Packages      : %d\n", m.Stored())
	fmt.Fprintf(w, "Stalled Sends        : %d\n", m.StalledSends)
	if m.Turns > 0 {
		fmt.Fprintf(w, "Average Busy Workers : %.2f\n", float64(m.BusyWorkerTurn)/float64(m.Turns))
	}
	ids := make([]ElementID, 0, len(m.StoredPerStorehouse))
	for id := range m.StoredPerStorehouse {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "  %-18s : %d\n", StorehouseRef(id), m.StoredPerStorehouse[id])
	}
}
