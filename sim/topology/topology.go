// Package topology converts a factory's routing tables into a gonum graph so
// that path algorithms can be run over it. Edges are weighted by -ln(p) so
// that the shortest path is the most probable route a package can take.
package topology

import (
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/netsim-dev/netsim/sim"
)

// Graph is a read-only snapshot of a factory's routing graph.
// Later edits to the factory are not reflected.
type Graph struct {
	weighted *simple.WeightedDirectedGraph
	hops     *simple.DirectedGraph
	ids      map[sim.NodeRef]int64
	refs     []sim.NodeRef
	ramps    []sim.NodeRef
	stores   []sim.NodeRef
}

// Build snapshots f. Self-loops are dropped: they never shorten a route.
func Build(f *sim.Factory) *Graph {
	g := &Graph{
		weighted: simple.NewWeightedDirectedGraph(0, math.Inf(1)),
		hops:     simple.NewDirectedGraph(),
		ids:      make(map[sim.NodeRef]int64),
	}
	for _, r := range f.Ramps() {
		g.addNode(r.Ref())
		g.ramps = append(g.ramps, r.Ref())
	}
	for _, w := range f.Workers() {
		g.addNode(w.Ref())
	}
	for _, s := range f.Storehouses() {
		g.addNode(s.Ref())
		g.stores = append(g.stores, s.Ref())
	}

	senders := make([]sim.Sender, 0, len(f.Ramps())+len(f.Workers()))
	for _, r := range f.Ramps() {
		senders = append(senders, r)
	}
	for _, w := range f.Workers() {
		senders = append(senders, w)
	}
	for _, s := range senders {
		from := simple.Node(g.ids[s.Ref()])
		for _, e := range s.Preferences().Entries() {
			toID, ok := g.ids[e.Receiver]
			if !ok || toID == from.ID() {
				continue
			}
			to := simple.Node(toID)
			g.weighted.SetWeightedEdge(simple.WeightedEdge{F: from, T: to, W: -math.Log(e.Probability)})
			g.hops.SetEdge(simple.Edge{F: from, T: to})
		}
	}
	return g
}

func (g *Graph) addNode(ref sim.NodeRef) {
	id := int64(len(g.refs))
	g.ids[ref] = id
	g.refs = append(g.refs, ref)
	g.weighted.AddNode(simple.Node(id))
	g.hops.AddNode(simple.Node(id))
}

// Route is a path from a ramp to a storehouse.
type Route struct {
	Nodes       []sim.NodeRef // ramp first, storehouse last
	Probability float64       // product of the routing probabilities along Nodes
}

// Hops returns the number of edges on the route.
func (r Route) Hops() int {
	if len(r.Nodes) == 0 {
		return 0
	}
	return len(r.Nodes) - 1
}

// MostLikelyRoute returns the route from ramp that a package follows with
// the highest probability. False when no storehouse is reachable or ramp
// is not in the graph.
func (g *Graph) MostLikelyRoute(ramp sim.NodeRef) (Route, bool) {
	return g.bestRoute(ramp, g.weighted)
}

// ShortestRoute returns a route from ramp with the fewest hops.
func (g *Graph) ShortestRoute(ramp sim.NodeRef) (Route, bool) {
	return g.bestRoute(ramp, g.hops)
}

func (g *Graph) bestRoute(ramp sim.NodeRef, over graph.Graph) (Route, bool) {
	id, ok := g.ids[ramp]
	if !ok {
		return Route{}, false
	}
	tree := path.DijkstraFrom(simple.Node(id), over)
	best := math.Inf(1)
	var bestPath []graph.Node
	for _, s := range g.stores {
		nodes, w := tree.To(g.ids[s])
		if len(nodes) > 0 && w < best {
			best = w
			bestPath = nodes
		}
	}
	if bestPath == nil {
		return Route{}, false
	}
	return g.route(bestPath), true
}

func (g *Graph) route(nodes []graph.Node) Route {
	r := Route{Nodes: make([]sim.NodeRef, len(nodes)), Probability: 1}
	for i, n := range nodes {
		r.Nodes[i] = g.refs[n.ID()]
		if i > 0 {
			w, _ := g.weighted.Weight(nodes[i-1].ID(), n.ID())
			r.Probability *= math.Exp(-w)
		}
	}
	return r
}

// Unreachable returns the workers and storehouses no ramp can reach, in
// graph order.
func (g *Graph) Unreachable() []sim.NodeRef {
	reached := make(map[int64]bool)
	for _, ramp := range g.ramps {
		tree := path.DijkstraFrom(simple.Node(g.ids[ramp]), g.hops)
		for id := range g.refs {
			if !math.IsInf(tree.WeightTo(int64(id)), 1) {
				reached[int64(id)] = true
			}
		}
	}
	var out []sim.NodeRef
	for id, ref := range g.refs {
		if ref.Kind == sim.KindRamp || reached[int64(id)] {
			continue
		}
		out = append(out, ref)
	}
	return out
}

// Ramps returns the ramps in graph order.
func (g *Graph) Ramps() []sim.NodeRef {
	return g.ramps
}
