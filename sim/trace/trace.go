package trace

// TraceLevel controls the verbosity of routing tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every delivery, routing choice and stalled send.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether records should be collected.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelDecisions
}

// SimulationTrace collects per-package records during a simulation.
type SimulationTrace struct {
	Config     TraceConfig
	Deliveries []DeliveryRecord
	Routings   []RoutingRecord
	Stalls     []StallRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:     config,
		Deliveries: make([]DeliveryRecord, 0),
		Routings:   make([]RoutingRecord, 0),
		Stalls:     make([]StallRecord, 0),
	}
}

// RecordDelivery appends a ramp delivery record.
func (st *SimulationTrace) RecordDelivery(record DeliveryRecord) {
	st.Deliveries = append(st.Deliveries, record)
}

// RecordRouting appends a routing decision record.
func (st *SimulationTrace) RecordRouting(record RoutingRecord) {
	st.Routings = append(st.Routings, record)
}

// RecordStall appends a record for a send that left its package buffered.
func (st *SimulationTrace) RecordStall(record StallRecord) {
	st.Stalls = append(st.Stalls, record)
}
