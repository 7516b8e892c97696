// Package fsmerr collects the domain-specific fault kinds that FSM
// operators raise. Every kind names the offending datum, matches
// spec.md's error table exactly, and is fatal to the operator that raised
// it: there is no retry and no partial-success path inside this package,
// grounded on the teacher's tokenmodel/petri/errors.go grouping of
// sentinel errors by concern.
package fsmerr

import (
	"errors"
	"fmt"
)

// Sentinel errors that a caller can compare against with errors.Is. The
// typed faults below all wrap one of these.
var (
	ErrTooManyStates    = errors.New("fsm: state count exceeds configured limit")
	ErrPriorInteraction = errors.New("fsm: priority interaction on ambiguous partition key")
	ErrRepetition       = errors.New("fsm: invalid repetition bound")
	ErrTransDensity     = errors.New("fsm: transition range too dense to materialize")
	ErrCondCostTooHigh  = errors.New("fsm: condition-space expansion exceeds budget")
)

// TooManyStates is raised by subset construction when the number of
// states ever created exceeds FsmCtx's configured StateLimit.
type TooManyStates struct {
	BuildID string
	Limit   int
	Count   int
}

func (e *TooManyStates) Error() string {
	return fmt.Sprintf("fsm[%s]: state count %d exceeds limit %d", e.BuildID, e.Count, e.Limit)
}

func (e *TooManyStates) Unwrap() error { return ErrTooManyStates }

// PriorInteraction is raised when two priority entries share a partition
// key but carry equal priority values contributed by distinct machines
// being merged, so neither can be preferred over the other.
type PriorInteraction struct {
	Key int
}

func (e *PriorInteraction) Error() string {
	return fmt.Sprintf("fsm: priority interaction on key %d", e.Key)
}

func (e *PriorInteraction) Unwrap() error { return ErrPriorInteraction }

// RepetitionError is raised when a repetition bound is negative, or the
// upper bound is less than the lower bound.
type RepetitionError struct {
	Lower, Upper int
}

func (e *RepetitionError) Error() string {
	return fmt.Sprintf("fsm: invalid repetition bound [%d,%d]", e.Lower, e.Upper)
}

func (e *RepetitionError) Unwrap() error { return ErrRepetition }

// TransDensity is raised when a range cannot be materialized, e.g. an
// empty or inverted key range passed to a primitive constructor.
type TransDensity struct {
	Low, High int64
}

func (e *TransDensity) Error() string {
	return fmt.Sprintf("fsm: transition range [%d,%d] is too dense to materialize", e.Low, e.High)
}

func (e *TransDensity) Unwrap() error { return ErrTransDensity }

// CondCostTooHigh is raised when expanding a transition's condition space
// would exceed the cost budget tracked for costId, or would overflow the
// fixed-width condition-value representation before the budget is even
// consulted.
type CondCostTooHigh struct {
	CostID int
	Cost   int
	Budget int
}

func (e *CondCostTooHigh) Error() string {
	return fmt.Sprintf("fsm: condition cost %d for cost id %d exceeds budget %d", e.Cost, e.CostID, e.Budget)
}

func (e *CondCostTooHigh) Unwrap() error { return ErrCondCostTooHigh }
