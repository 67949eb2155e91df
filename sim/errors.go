package sim

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by StructuralError. Match them with errors.Is.
var (
	ErrDuplicateID      = errors.New("duplicate id")
	ErrUnknownNode      = errors.New("unknown node")
	ErrInvalidLink      = errors.New("invalid link")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ErrEmptyQueue is returned by Pop on an empty queue. Callers are expected
// to check Empty() first, so seeing it means a broken caller.
var ErrEmptyQueue = errors.New("pop from empty queue")

// StructuralError reports a malformed graph edit. The factory state is left
// as it was before the failed call.
type StructuralError struct {
	Op   string
	Ref  NodeRef
	Err  error
	Info string
}

func (e *StructuralError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Op, e.Ref, e.Err)
	if e.Info != "" {
		msg += " (" + e.Info + ")"
	}
	return msg
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

// IdentityError reports misuse of package ids, e.g. releasing an id that is
// not active.
type IdentityError struct {
	Op     string
	ID     ElementID
	Reason string
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("package id %d: %s: %s", e.ID, e.Op, e.Reason)
}

// ConsistencyError is returned by Simulate when the network cannot deliver
// every ramp's packages to a storehouse.
type ConsistencyError struct {
	Result ConsistencyResult
}

func (e *ConsistencyError) Error() string {
	return "inconsistent network: " + e.Result.String()
}
