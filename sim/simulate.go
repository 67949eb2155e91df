package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// TurnFunc is called after every simulated turn.
type TurnFunc func(f *Factory, t Time)

// Simulate validates the network once and then runs turns 1..turns.
// onTurn, if non-nil, runs after each Tick. Returns a *ConsistencyError
// without ticking when some ramp cannot reach a storehouse.
func Simulate(f *Factory, turns TimeOffset, onTurn TurnFunc) error {
	if turns < 0 {
		return fmt.Errorf("turns must be non-negative, got %d", turns)
	}
	if res := f.CheckConsistency(); !res.Consistent {
		return &ConsistencyError{Result: res}
	}
	for t := Time(1); t <= Time(turns); t++ {
		f.Tick(t)
		if onTurn != nil {
			onTurn(f, t)
		}
	}
	logrus.Debugf("simulated %d turns: %d delivered, %d stored", turns, f.metrics.Delivered, f.metrics.Stored())
	return nil
}
