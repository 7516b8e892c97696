package ops

import (
	"github.com/gorelex/fsm/fsmerr"
	"github.com/gorelex/fsm/graph"
)

// StarOp mutates f into the Kleene star of f: f may now match zero or
// more repetitions of what it matched before (spec.md §6).
//
// Construction: the start state is marked final (it now accepts the
// empty string), and every other final state has the start state's
// *original* future behavior unioned into its own via the same
// product-merge crossTransitions performs for a binary union (spec.md
// §4.5), so that reaching any accepting state resumes exactly the
// choices available from the start. The start state itself is left
// untouched — it already has that behavior. This keeps state count
// minimal for the common case (spec.md §8 scenario 2: rangeFsm('0','9')
// then starOp yields exactly 2 states, one self-loop) without a
// separate minimization pass.
func StarOp(f *graph.Fsm, costID int) error {
	if f.Start == nil {
		return nil
	}
	targets := f.FinalStates()
	f.SetFinState(f.Start)

	for _, target := range targets {
		if target == f.Start {
			continue
		}
		if err := spliceStartBehavior(f, target, costID); err != nil {
			return err
		}
	}
	return nil
}

// spliceStartBehavior merges f.Start's current out-list into target's,
// resolving any range overlap the way a binary union would: by pairing
// the two continuations into a freshly interned combined state, per
// spec.md §4.5's crossTransitions.
func spliceStartBehavior(f *graph.Fsm, target *graph.State, costID int) error {
	old := append([]*graph.Trans(nil), target.Out...)
	for _, t := range old {
		f.DetachTrans(t)
	}
	shadow := f.AddState()
	for _, t := range old {
		f.AddTrans(shadow, t)
	}

	pb := newProductBuilder(f, f, f, OpUnion, costID)
	pb.assign(pair{shadow, f.Start}, target)
	if err := pb.drain(); err != nil {
		return err
	}

	for _, t := range append([]*graph.Trans(nil), shadow.Out...) {
		f.DetachTrans(t)
	}
	f.DetachState(shadow)
	return nil
}

// RepeatOp mutates f into n concatenated copies of its own language
// (spec.md §6, §8): repeatOp(0) yields the language of the empty
// string, matching lambdaFsm; repeatOp(1) leaves f unchanged; repeatOp(n)
// for n>1 concatenates n-1 duplicates onto f. A negative n or one with
// n < 0 raises RepetitionError.
func RepeatOp(f *graph.Fsm, n int, costID int) error {
	if n < 0 {
		return &fsmerr.RepetitionError{Lower: n, Upper: n}
	}
	if n == 0 {
		empty := graph.New(f.Ctx)
		s := empty.AddState()
		empty.SetStartState(s)
		empty.SetFinState(s)
		f.Absorb(empty)
		return nil
	}
	original := f.Duplicate()
	for i := 1; i < n; i++ {
		if err := ConcatOp(f, original.Duplicate()); err != nil {
			return err
		}
	}
	return nil
}

// OptionalRepeatOp mutates f into "f repeated between lo and hi times",
// hi >= lo >= 0 (spec.md §6): the bounded-repetition primitive behind a
// scanner rule like {2,4}. hi < lo, or either bound negative, raises
// RepetitionError.
func OptionalRepeatOp(f *graph.Fsm, lo, hi int, costID int) error {
	if lo < 0 || hi < lo {
		return &fsmerr.RepetitionError{Lower: lo, Upper: hi}
	}
	original := f.Duplicate()

	if err := RepeatOp(f, lo, costID); err != nil {
		return err
	}
	if hi == lo {
		return nil
	}

	// Each optional extra repetition is original(?), chained lo..hi-1
	// times: build innermost-out so an early stop after any of them is
	// accepted.
	tail := graph.New(f.Ctx)
	s := tail.AddState()
	tail.SetStartState(s)
	tail.SetFinState(s)
	for i := hi - lo; i > 0; i-- {
		opt := original.Duplicate()
		if err := makeOptional(opt); err != nil {
			return err
		}
		if err := ConcatOp(opt, tail); err != nil {
			return err
		}
		tail = opt
	}
	return ConcatOp(f, tail)
}

// makeOptional mutates g into "g or the empty string", by marking its
// start state final in place (no product merge is needed: an optional
// only ever needs to accept early, never to resume a shared
// continuation, so unlike StarOp there is nothing to splice).
func makeOptional(g *graph.Fsm) error {
	if g.Start == nil {
		return nil
	}
	g.SetFinState(g.Start)
	return nil
}
