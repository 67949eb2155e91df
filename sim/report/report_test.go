package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsim-dev/netsim/sim"
)

// chainNetwork builds ramp-1 -> worker-1 -> {store-2, store-1}.
func chainNetwork(t *testing.T, duration sim.TimeOffset) *sim.Factory {
	t.Helper()
	f := sim.NewFactory(sim.FactoryConfig{Probability: sim.FixedProbabilities(0.1)})
	require.NoError(t, f.AddRamp(1, 1))
	require.NoError(t, f.AddWorker(1, duration, sim.LIFO))
	require.NoError(t, f.AddStorehouse(1))
	require.NoError(t, f.AddStorehouse(2))
	require.NoError(t, f.AddLink(sim.RampRef(1), sim.WorkerRef(1)))
	require.NoError(t, f.AddLink(sim.WorkerRef(1), sim.StorehouseRef(2)))
	require.NoError(t, f.AddLink(sim.WorkerRef(1), sim.StorehouseRef(1)))
	return f
}

func TestWriteStructure(t *testing.T) {
	// GIVEN a small chain
	f := chainNetwork(t, 2)

	// WHEN its structure is written
	var buf bytes.Buffer
	require.NoError(t, WriteStructure(&buf, f))

	// THEN nodes appear per section with receivers sorted by id
	want := `== LOADING RAMPS ==

LOADING RAMP #1
  Delivery interval: 1
  Receivers:
    worker #1 (p = 1.00)


== WORKERS ==

WORKER #1
  Processing time: 2
  Queue type: LIFO
  Receivers:
    storehouse #1 (p = 0.50)
    storehouse #2 (p = 0.50)


== STOREHOUSES ==

STOREHOUSE #1

STOREHOUSE #2

`
	assert.Equal(t, want, buf.String())
}

func TestWriteStructure_StorehousesListedBeforeWorkers(t *testing.T) {
	f := sim.NewFactory(sim.FactoryConfig{Probability: sim.FixedProbabilities(0.1)})
	require.NoError(t, f.AddRamp(1, 1))
	require.NoError(t, f.AddWorker(1, 1, sim.FIFO))
	require.NoError(t, f.AddStorehouse(9))
	require.NoError(t, f.AddLink(sim.RampRef(1), sim.WorkerRef(1)))
	require.NoError(t, f.AddLink(sim.RampRef(1), sim.StorehouseRef(9)))

	var buf bytes.Buffer
	require.NoError(t, WriteStructure(&buf, f))

	out := buf.String()
	store := bytes.Index(buf.Bytes(), []byte("    storehouse #9"))
	worker := bytes.Index(buf.Bytes(), []byte("    worker #1"))
	assert.True(t, store >= 0 && worker > store, "storehouse should precede worker:\n%s", out)
}

func TestWriteTurn(t *testing.T) {
	// GIVEN the chain after two turns with a 3-turn worker
	f := chainNetwork(t, 3)
	f.Tick(1)
	f.Tick(2)

	// WHEN the turn report is written
	var buf bytes.Buffer
	require.NoError(t, WriteTurn(&buf, f, 2))

	// THEN #1 is one turn into processing and #2 is queued
	want := `=== [ Turn: 2 ] ===

== WORKERS ==

WORKER #1
  PBuffer: #1 (pt = 1)
  Queue: #2
  SBuffer: (empty)


== STOREHOUSES ==

STOREHOUSE #1
  Stock: (empty)

STOREHOUSE #2
  Stock: (empty)

`
	assert.Equal(t, want, buf.String())
}

func TestWriteTurn_ListsStock(t *testing.T) {
	f := chainNetwork(t, 1)
	for turn := sim.Time(1); turn <= 5; turn++ {
		f.Tick(turn)
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTurn(&buf, f, 5))

	// every draw is 0.1, so everything goes to the first receiver, store-2
	assert.Contains(t, buf.String(), "STOREHOUSE #2\n  Stock: #1, #2, #3\n")
}

// === Notifiers ===

func TestIntervalNotifier(t *testing.T) {
	n, err := NewIntervalNotifier(3)
	require.NoError(t, err)

	var fired []sim.Time
	for turn := sim.Time(1); turn <= 10; turn++ {
		if n.ShouldReport(turn) {
			fired = append(fired, turn)
		}
	}
	assert.Equal(t, []sim.Time{1, 4, 7, 10}, fired)
}

func TestIntervalNotifier_InvalidInterval(t *testing.T) {
	_, err := NewIntervalNotifier(0)
	assert.Error(t, err)
}

func TestSpecificTurnsNotifier(t *testing.T) {
	n := NewSpecificTurnsNotifier(2, 5, 5)
	assert.False(t, n.ShouldReport(1))
	assert.True(t, n.ShouldReport(2))
	assert.True(t, n.ShouldReport(5))
	assert.False(t, n.ShouldReport(6))
}

func TestTurnWriter_WritesOnlyWhenNotified(t *testing.T) {
	// GIVEN a writer that reports on turn 2 only
	f := chainNetwork(t, 2)
	var buf bytes.Buffer
	onTurn := TurnWriter(&buf, NewSpecificTurnsNotifier(2), nil)

	// WHEN three turns are simulated
	require.NoError(t, sim.Simulate(f, 3, onTurn))

	// THEN exactly one report was written
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("=== [ Turn:")))
	assert.Contains(t, buf.String(), "=== [ Turn: 2 ] ===")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestTurnWriter_ReportsWriteErrors(t *testing.T) {
	f := chainNetwork(t, 2)
	var got []error
	onTurn := TurnWriter(failingWriter{}, NewSpecificTurnsNotifier(1), func(err error) { got = append(got, err) })

	onTurn(f, 1)
	onTurn(f, 2)

	assert.Len(t, got, 1)
}
