package sim

// NodeCollection is an insertion-ordered registry of one node kind, keyed by
// id. Lookups are linear; networks are small and ordered iteration is what
// the description writer needs.
type NodeCollection[N Node] struct {
	nodes []N
}

// Add appends n. Fails with ErrDuplicateID if the id is taken.
func (c *NodeCollection[N]) Add(n N) error {
	if c.index(n.ID()) >= 0 {
		return &StructuralError{Op: "add", Ref: n.Ref(), Err: ErrDuplicateID}
	}
	c.nodes = append(c.nodes, n)
	return nil
}

// Find returns the node with the given id.
func (c *NodeCollection[N]) Find(id ElementID) (N, bool) {
	if i := c.index(id); i >= 0 {
		return c.nodes[i], true
	}
	var zero N
	return zero, false
}

// Remove deletes the node with the given id and returns it.
func (c *NodeCollection[N]) Remove(id ElementID) (N, bool) {
	i := c.index(id)
	if i < 0 {
		var zero N
		return zero, false
	}
	n := c.nodes[i]
	c.nodes = append(c.nodes[:i], c.nodes[i+1:]...)
	return n, true
}

// Items returns the nodes in insertion order.
// The returned slice is the collection's internal storage; callers MUST NOT
// modify it.
func (c *NodeCollection[N]) Items() []N {
	return c.nodes
}

// Len returns the number of nodes.
func (c *NodeCollection[N]) Len() int {
	return len(c.nodes)
}

func (c *NodeCollection[N]) index(id ElementID) int {
	for i, n := range c.nodes {
		if n.ID() == id {
			return i
		}
	}
	return -1
}
