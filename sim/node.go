package sim

import (
	"fmt"
	"strings"
)

// NodeKind tags the three node variants.
type NodeKind int

const (
	KindRamp NodeKind = iota
	KindWorker
	KindStorehouse
)

func (k NodeKind) String() string {
	switch k {
	case KindRamp:
		return "ramp"
	case KindWorker:
		return "worker"
	case KindStorehouse:
		return "store"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseNodeKind accepts the names produced by NodeKind.String.
func ParseNodeKind(s string) (NodeKind, error) {
	switch strings.ToLower(s) {
	case "ramp":
		return KindRamp, nil
	case "worker":
		return KindWorker, nil
	case "store", "storehouse":
		return KindStorehouse, nil
	default:
		return 0, fmt.Errorf("unknown node kind %q; valid: ramp, worker, store", s)
	}
}

// CanSend reports whether nodes of this kind own a routing table.
func (k NodeKind) CanSend() bool {
	return k == KindRamp || k == KindWorker
}

// CanReceive reports whether nodes of this kind accept packages.
func (k NodeKind) CanReceive() bool {
	return k == KindWorker || k == KindStorehouse
}

// NodeRef is a stable handle to a node: ids are only unique within a kind.
// Routing tables store NodeRefs and resolve them through the Factory at the
// point of use, so a removed node can never be reached through a stale pointer.
type NodeRef struct {
	Kind NodeKind
	ID   ElementID
}

// RampRef, WorkerRef and StorehouseRef build handles for each kind.
func RampRef(id ElementID) NodeRef       { return NodeRef{Kind: KindRamp, ID: id} }
func WorkerRef(id ElementID) NodeRef     { return NodeRef{Kind: KindWorker, ID: id} }
func StorehouseRef(id ElementID) NodeRef { return NodeRef{Kind: KindStorehouse, ID: id} }

// String renders the ref as "<kind>-<id>", the form used by link declarations.
func (r NodeRef) String() string {
	return fmt.Sprintf("%s-%d", r.Kind, r.ID)
}

// ParseNodeRef parses "<kind>-<id>".
func ParseNodeRef(s string) (NodeRef, error) {
	kindPart, idPart, ok := strings.Cut(s, "-")
	if !ok {
		return NodeRef{}, fmt.Errorf("malformed node reference %q; want <kind>-<id>", s)
	}
	kind, err := ParseNodeKind(kindPart)
	if err != nil {
		return NodeRef{}, err
	}
	var id int64
	if _, err := fmt.Sscanf(idPart, "%d", &id); err != nil || fmt.Sprint(id) != idPart {
		return NodeRef{}, fmt.Errorf("malformed id in node reference %q", s)
	}
	return NodeRef{Kind: kind, ID: ElementID(id)}, nil
}

// Node is implemented by every node variant.
type Node interface {
	ID() ElementID
	Ref() NodeRef
}

// Sender is the capability of nodes that push packages downstream.
type Sender interface {
	Node
	Preferences() *ReceiverPreferences
	SendingBuffer() (Package, bool)
	SendPackage(resolver ReceiverResolver) (NodeRef, bool)
}

// Receiver is the capability of nodes that accept packages.
type Receiver interface {
	Node
	ReceivePackage(p Package)
	// Items returns the held packages oldest first.
	Items() []Package
}

// ReceiverResolver turns a handle into the live receiver it names.
type ReceiverResolver interface {
	Receiver(ref NodeRef) (Receiver, bool)
}

// PackageSender is the shared sending capability: a routing table plus a
// one-slot output buffer. Embedded by Ramp and Worker.
type PackageSender struct {
	prefs  *ReceiverPreferences
	buffer *Package
}

func newPackageSender(pg ProbabilityGenerator) PackageSender {
	return PackageSender{prefs: NewReceiverPreferences(pg)}
}

// Preferences returns the sender's routing table.
func (s *PackageSender) Preferences() *ReceiverPreferences {
	return s.prefs
}

// SendingBuffer returns the buffered package, if any.
func (s *PackageSender) SendingBuffer() (Package, bool) {
	if s.buffer == nil {
		return Package{}, false
	}
	return *s.buffer, true
}

// SendPackage hands the buffered package to a receiver chosen by the
// routing table. The package stays buffered when no receiver is available.
// Returns the receiver the package went to.
func (s *PackageSender) SendPackage(resolver ReceiverResolver) (NodeRef, bool) {
	if s.buffer == nil {
		return NodeRef{}, false
	}
	ref, ok := s.prefs.Choose()
	if !ok {
		return NodeRef{}, false
	}
	r, ok := resolver.Receiver(ref)
	if !ok {
		return NodeRef{}, false
	}
	r.ReceivePackage(*s.buffer)
	s.buffer = nil
	return ref, true
}

func (s *PackageSender) pushPackage(p Package) {
	if s.buffer != nil {
		panic(fmt.Sprintf("pushPackage: buffer already holds %s", s.buffer))
	}
	s.buffer = &p
}

func (s *PackageSender) bufferFull() bool {
	return s.buffer != nil
}

// drain empties the buffer and returns what it held.
func (s *PackageSender) drain() []Package {
	if s.buffer == nil {
		return nil
	}
	p := *s.buffer
	s.buffer = nil
	return []Package{p}
}
