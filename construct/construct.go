// Package construct implements the FSM primitive constructors of
// spec.md §6: the leaves of every algebraic expression, from which
// concatenation, union, star and the rest of package ops build larger
// machines. Grounded on the teacher's petri.NewModel-style "build a
// small owned value from a few scalar parameters" constructors, adapted
// to graph.Fsm's allocation rules (spec.md §4.11).
package construct

import (
	"github.com/gorelex/fsm/fsmerr"
	"github.com/gorelex/fsm/graph"
	"github.com/gorelex/fsm/key"
)

// EmptyFsm returns a graph accepting no string at all: a single,
// non-final start state with no outgoing transitions.
func EmptyFsm(ctx *graph.Ctx) *graph.Fsm {
	f := graph.New(ctx)
	s := f.AddState()
	f.SetStartState(s)
	return f
}

// LambdaFsm returns a graph accepting exactly the empty string: a
// single state that is both start and final, with no outgoing
// transitions.
func LambdaFsm(ctx *graph.Ctx) *graph.Fsm {
	f := graph.New(ctx)
	s := f.AddState()
	f.SetStartState(s)
	f.SetFinState(s)
	return f
}

// RangeFsm returns a graph accepting any single symbol in [lo, hi]: two
// states linked by one transition. It raises TransDensity if hi < lo,
// an inverted range that cannot be materialized (spec.md §8).
func RangeFsm(ctx *graph.Ctx, lo, hi key.Key) (*graph.Fsm, error) {
	if hi < lo {
		return nil, &fsmerr.TransDensity{Low: int64(lo), High: int64(hi)}
	}
	f := graph.New(ctx)
	start := f.AddState()
	final := f.AddState()
	f.SetStartState(start)
	f.SetFinState(final)
	f.AttachNewTrans(start, lo, hi, final)
	return f, nil
}

// RangeStarFsm returns a graph accepting zero or more symbols in
// [lo, hi], fused directly into a single-state primitive (the start
// state is final and carries one self-loop over [lo, hi]) rather than
// built as RangeFsm followed by a
// star operator (SPEC_FULL.md §11's supplemented fused primitive): the
// scanner generator's hottest inner loops ("skip whitespace", "consume
// digits") are exactly this shape, and building it directly saves a
// throwaway intermediate state that starOp would otherwise leave for
// minimization to fuse back out.
func RangeStarFsm(ctx *graph.Ctx, lo, hi key.Key) (*graph.Fsm, error) {
	if hi < lo {
		return nil, &fsmerr.TransDensity{Low: int64(lo), High: int64(hi)}
	}
	f := graph.New(ctx)
	s := f.AddState()
	f.SetStartState(s)
	f.SetFinState(s)
	f.AttachNewTrans(s, lo, hi, s)
	return f, nil
}

// ConcatFsm returns a graph accepting the single-symbol string {c}.
func ConcatFsm(ctx *graph.Ctx, c key.Key) *graph.Fsm {
	f := graph.New(ctx)
	start := f.AddState()
	final := f.AddState()
	f.SetStartState(start)
	f.SetFinState(final)
	f.AttachNewTrans(start, c, c, final)
	return f
}

// ConcatFsmN returns a graph accepting exactly the literal string
// chars, as a straight-line chain of len(chars)+1 states. An empty
// chars returns LambdaFsm.
func ConcatFsmN(ctx *graph.Ctx, chars []key.Key) *graph.Fsm {
	if len(chars) == 0 {
		return LambdaFsm(ctx)
	}
	f := graph.New(ctx)
	cur := f.AddState()
	f.SetStartState(cur)
	for _, c := range chars {
		next := f.AddState()
		f.AttachNewTrans(cur, c, c, next)
		cur = next
	}
	f.SetFinState(cur)
	return f
}

// ConcatFsmCI returns a graph accepting the literal string chars under
// case-insensitive comparison (SPEC_FULL.md §11's supplemented feature,
// carried over from the scanner-generator idiom in original_source/ of
// letting a literal-string rule match either case without the caller
// hand-writing an explicit union at every letter): each ASCII letter in
// chars contributes two single-key transitions to the next state, one
// per case; non-letters contribute a single-key transition as
// ConcatFsmN would.
func ConcatFsmCI(ctx *graph.Ctx, chars []key.Key) (*graph.Fsm, error) {
	if len(chars) == 0 {
		return LambdaFsm(ctx), nil
	}
	f := graph.New(ctx)
	cur := f.AddState()
	f.SetStartState(cur)
	for _, c := range chars {
		next := f.AddState()
		lo, hi, ok := letterCase(c)
		if !ok {
			f.AttachNewTrans(cur, c, c, next)
			cur = next
			continue
		}
		f.AttachNewTrans(cur, lo, lo, next)
		f.AttachNewTrans(cur, hi, hi, next)
		cur = next
	}
	f.SetFinState(cur)
	return f, nil
}

// letterCase reports the (lowercase, uppercase) pair for an ASCII
// letter c, and whether c is one.
func letterCase(c key.Key) (lower, upper key.Key, ok bool) {
	switch {
	case c >= 'a' && c <= 'z':
		return c, c-'a'+'A', true
	case c >= 'A' && c <= 'Z':
		return c-'A'+'a', c, true
	default:
		return 0, 0, false
	}
}
