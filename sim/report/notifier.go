package report

import (
	"fmt"
	"io"

	"github.com/netsim-dev/netsim/sim"
)

// Notifier decides on which turns a report is written.
type Notifier interface {
	ShouldReport(t sim.Time) bool
}

// IntervalNotifier reports on turns 1, 1+n, 1+2n, ...
type IntervalNotifier struct {
	interval sim.TimeOffset
}

// NewIntervalNotifier returns a notifier firing every n turns, starting at turn 1.
func NewIntervalNotifier(n sim.TimeOffset) (*IntervalNotifier, error) {
	if n < 1 {
		return nil, fmt.Errorf("report interval must be >= 1, got %d", n)
	}
	return &IntervalNotifier{interval: n}, nil
}

func (n *IntervalNotifier) ShouldReport(t sim.Time) bool {
	return (sim.TimeOffset(t)-1)%n.interval == 0
}

// SpecificTurnsNotifier reports on an explicit set of turns.
type SpecificTurnsNotifier struct {
	turns map[sim.Time]bool
}

// NewSpecificTurnsNotifier returns a notifier firing on the listed turns.
func NewSpecificTurnsNotifier(turns ...sim.Time) *SpecificTurnsNotifier {
	set := make(map[sim.Time]bool, len(turns))
	for _, t := range turns {
		set[t] = true
	}
	return &SpecificTurnsNotifier{turns: set}
}

func (n *SpecificTurnsNotifier) ShouldReport(t sim.Time) bool {
	return n.turns[t]
}

// TurnWriter returns a sim.TurnFunc writing a turn report to w whenever n
// fires. Write errors are passed to onErr, which may be nil.
func TurnWriter(w io.Writer, n Notifier, onErr func(error)) sim.TurnFunc {
	return func(f *sim.Factory, t sim.Time) {
		if !n.ShouldReport(t) {
			return
		}
		if err := WriteTurn(w, f, t); err != nil && onErr != nil {
			onErr(err)
		}
	}
}
