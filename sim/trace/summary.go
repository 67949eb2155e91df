package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDeliveries    int
	TotalRoutings      int
	TotalStalls        int
	UniqueTargets      int
	TargetDistribution map[string]int // receiver -> count of packages routed to it
	StalledSenders     map[string]int // sender -> count of stalled sends
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		TargetDistribution: make(map[string]int),
		StalledSenders:     make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDeliveries = len(st.Deliveries)
	summary.TotalRoutings = len(st.Routings)
	summary.TotalStalls = len(st.Stalls)

	for _, r := range st.Routings {
		summary.TargetDistribution[r.Receiver]++
	}
	for _, s := range st.Stalls {
		summary.StalledSenders[s.Sender]++
	}

	summary.UniqueTargets = len(summary.TargetDistribution)

	return summary
}
