// Implements Package identity and the IDAllocator that hands out and recycles
// package ids.

package sim

import (
	"fmt"
	"slices"
)

// ElementID identifies a node within its kind, or a package.
type ElementID int64

// Time is a simulation turn number.
type Time int64

// TimeOffset is a duration measured in turns.
type TimeOffset int64

// Package is an identity-only value moved through the network.
type Package struct {
	id ElementID
}

// NewPackage wraps an id that has already been allocated or registered.
func NewPackage(id ElementID) Package {
	return Package{id: id}
}

// ID returns the package identifier.
func (p Package) ID() ElementID {
	return p.id
}

func (p Package) String() string {
	return fmt.Sprintf("#%d", p.id)
}

// IDAllocator tracks active package ids and ids released for reuse.
// Released ids are reused lowest first, so a saved network that names ids
// by value loads back into the same numbering.
//
// Thread-safety: NOT thread-safe. Owned by a single Factory.
type IDAllocator struct {
	active    map[ElementID]struct{}
	available map[ElementID]struct{}
	maxActive ElementID
}

// NewIDAllocator creates an allocator with no active ids.
func NewIDAllocator() *IDAllocator {
	a := &IDAllocator{}
	a.Reset()
	return a
}

// Reset forgets all active and released ids.
func (a *IDAllocator) Reset() {
	a.active = make(map[ElementID]struct{})
	a.available = make(map[ElementID]struct{})
	a.maxActive = 0
}

// Allocate returns the smallest released id if there is one, otherwise
// max(active)+1, or 1 when nothing is active.
func (a *IDAllocator) Allocate() ElementID {
	var id ElementID
	if len(a.available) > 0 {
		id = minKey(a.available)
		delete(a.available, id)
	} else {
		id = a.maxActive + 1
	}
	a.activate(id)
	return id
}

// NewPackage allocates a fresh id and wraps it.
func (a *IDAllocator) NewPackage() Package {
	return NewPackage(a.Allocate())
}

// Register marks a caller-supplied id as active. Used when reconstructing
// network state from a description.
func (a *IDAllocator) Register(id ElementID) error {
	if id <= 0 {
		return &IdentityError{Op: "register", ID: id, Reason: "id must be positive"}
	}
	if _, ok := a.active[id]; ok {
		return &IdentityError{Op: "register", ID: id, Reason: "id already active"}
	}
	delete(a.available, id)
	a.activate(id)
	return nil
}

// Release moves id from the active set to the reusable set.
func (a *IDAllocator) Release(id ElementID) error {
	if _, ok := a.active[id]; !ok {
		return &IdentityError{Op: "release", ID: id, Reason: "id not active"}
	}
	delete(a.active, id)
	a.available[id] = struct{}{}
	if id == a.maxActive {
		a.maxActive = 0
		if len(a.active) > 0 {
			a.maxActive = maxKey(a.active)
		}
	}
	return nil
}

// IsActive reports whether id is held by a live package.
func (a *IDAllocator) IsActive(id ElementID) bool {
	_, ok := a.active[id]
	return ok
}

// Active returns the active ids in ascending order.
func (a *IDAllocator) Active() []ElementID {
	return sortedKeys(a.active)
}

// Available returns the released ids in ascending order.
func (a *IDAllocator) Available() []ElementID {
	return sortedKeys(a.available)
}

func (a *IDAllocator) activate(id ElementID) {
	a.active[id] = struct{}{}
	if id > a.maxActive {
		a.maxActive = id
	}
}

func sortedKeys(m map[ElementID]struct{}) []ElementID {
	keys := make([]ElementID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func minKey(m map[ElementID]struct{}) ElementID {
	first := true
	var lowest ElementID
	for k := range m {
		if first || k < lowest {
			lowest = k
			first = false
		}
	}
	return lowest
}

func maxKey(m map[ElementID]struct{}) ElementID {
	var highest ElementID
	for k := range m {
		if k > highest {
			highest = k
		}
	}
	return highest
}
