// Package trace provides per-package trace recording for routing analysis.
// This package has no dependencies on sim/; it stores pure data types.
// Nodes are named by their "<kind>-<id>" form.
package trace

// DeliveryRecord captures a package entering the network at a ramp.
type DeliveryRecord struct {
	PackageID int64
	Clock     int64
	Ramp      string
}

// RoutingRecord captures one routing-table choice that moved a package.
type RoutingRecord struct {
	PackageID   int64
	Clock       int64
	Sender      string
	Receiver    string
	Probability float64 // weight of the chosen entry at decision time
}

// StallRecord captures a send that found no receiver; the package stays in
// the sender's buffer.
type StallRecord struct {
	PackageID int64
	Clock     int64
	Sender    string
}
