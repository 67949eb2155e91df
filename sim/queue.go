// Implements the package stockpiles used as worker input queues and
// storehouse archives.

package sim

import (
	"fmt"
	"strings"
)

// QueueType selects which end Pop removes from.
type QueueType int

const (
	FIFO QueueType = iota
	LIFO
)

func (q QueueType) String() string {
	switch q {
	case FIFO:
		return "FIFO"
	case LIFO:
		return "LIFO"
	default:
		return fmt.Sprintf("QueueType(%d)", int(q))
	}
}

// ParseQueueType accepts "FIFO" or "LIFO" (case-insensitive).
func ParseQueueType(s string) (QueueType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FIFO":
		return FIFO, nil
	case "LIFO":
		return LIFO, nil
	default:
		return 0, fmt.Errorf("unknown queue type %q; valid: FIFO, LIFO", s)
	}
}

// Stockpile is an ordered holding area for packages.
type Stockpile interface {
	Push(p Package)
	Empty() bool
	Len() int
	// Items returns packages oldest first, whatever the pop policy.
	Items() []Package
}

// Queue is a Stockpile packages can be taken back out of.
type Queue interface {
	Stockpile
	Pop() (Package, error)
	Type() QueueType
}

// PackageQueue is a slice-backed Queue. Its policy is fixed at construction.
type PackageQueue struct {
	queueType QueueType
	packages  []Package
}

// NewPackageQueue creates an empty queue with the given policy.
func NewPackageQueue(t QueueType) *PackageQueue {
	if t != FIFO && t != LIFO {
		panic(fmt.Sprintf("NewPackageQueue: invalid queue type %d", int(t)))
	}
	return &PackageQueue{queueType: t}
}

// Push appends p at the newest end.
func (q *PackageQueue) Push(p Package) {
	q.packages = append(q.packages, p)
}

// Pop removes the oldest package for FIFO queues and the newest for LIFO.
func (q *PackageQueue) Pop() (Package, error) {
	n := len(q.packages)
	if n == 0 {
		return Package{}, ErrEmptyQueue
	}
	var p Package
	if q.queueType == FIFO {
		p = q.packages[0]
		q.packages[0] = Package{}
		q.packages = q.packages[1:]
	} else {
		p = q.packages[n-1]
		q.packages = q.packages[:n-1]
	}
	return p, nil
}

func (q *PackageQueue) Empty() bool {
	return len(q.packages) == 0
}

func (q *PackageQueue) Len() int {
	return len(q.packages)
}

func (q *PackageQueue) Type() QueueType {
	return q.queueType
}

// Items returns the queue contents oldest first.
// The returned slice is the queue's internal storage; callers MUST NOT
// modify it.
func (q *PackageQueue) Items() []Package {
	return q.packages
}

func (q *PackageQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range q.packages {
		sb.WriteString(p.String())
		if i < len(q.packages)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
