// Package minimize implements the three minimization strategies of
// spec.md §4.8 over a determinized graph.Fsm: stable partitioning,
// approximate pointwise fusion, and partition refinement. Grounded on
// the teacher's reachability/stateutil equivalence-class merging style
// and on package graph's own state/transition mutators for the actual
// fusion step.
package minimize

import "github.com/gorelex/fsm/graph"

// Approximate repeatedly scans f's state list and fuses any two states
// whose complete out-structure — range, target, action tables, priority
// tables — is pointwise identical (spec.md §4.8). It compares states
// pairwise, uses no extra space, and is not guaranteed to reach the
// minimum, but is usually close and cheap enough to run as a first pass
// ahead of Stable.
func Approximate(f *graph.Fsm) {
	for {
		fused := false
		for i := 0; i < len(f.States); i++ {
			for j := i + 1; j < len(f.States); j++ {
				a, b := f.States[i], f.States[j]
				if equivalentOut(f, a, b) {
					fuseEquivStates(f, a, b)
					fused = true
					j--
				}
			}
		}
		if !fused {
			return
		}
	}
}

// equivalentOut reports whether a and b are indistinguishable one-step
// automata: same finality, same state-level action tables, and
// out-lists that agree range-for-range on target, actions and
// priorities (conditional transitions must additionally agree on
// condition space and every branch).
func equivalentOut(f *graph.Fsm, a, b *graph.State) bool {
	if a == b {
		return false
	}
	if f.IsFinal(a) != f.IsFinal(b) {
		return false
	}
	if !a.ToStateActions.Equal(b.ToStateActions) ||
		!a.FromStateActions.Equal(b.FromStateActions) ||
		!a.OutActions.Equal(b.OutActions) ||
		!a.EOFActions.Equal(b.EOFActions) ||
		!a.ErrorActions.Equal(b.ErrorActions) {
		return false
	}
	if len(a.Out) != len(b.Out) {
		return false
	}
	for i, ta := range a.Out {
		tb := b.Out[i]
		if !transEquivalent(ta, tb, a, b) {
			return false
		}
	}
	return true
}

// transEquivalent compares two transitions for fusion purposes, treating
// a self-loop back onto the state being compared (from either side) as
// equivalent to a self-loop back onto the other, since after fusion both
// collapse onto the same state anyway.
func transEquivalent(ta, tb *graph.Trans, a, b *graph.State) bool {
	if ta.Low != tb.Low || ta.High != tb.High {
		return false
	}
	if ta.IsConditional() != tb.IsConditional() {
		return false
	}
	sameTarget := func(x, y *graph.State) bool {
		if x == a && y == b || x == b && y == a {
			return true
		}
		return x == y
	}
	if !ta.IsConditional() {
		return sameTarget(ta.Plain.Target, tb.Plain.Target) &&
			ta.Plain.Actions.Equal(tb.Plain.Actions) &&
			ta.Plain.Priors.Equal(tb.Plain.Priors) &&
			ta.Plain.LMActions.Equal(tb.Plain.LMActions)
	}
	if ta.Cond.Space != tb.Cond.Space || len(ta.Cond.Conds) != len(tb.Cond.Conds) {
		return false
	}
	for i, ca := range ta.Cond.Conds {
		cb := tb.Cond.Conds[i]
		if ca.CondVals != cb.CondVals || !sameTarget(ca.Data.Target, cb.Data.Target) ||
			!ca.Data.Actions.Equal(cb.Data.Actions) || !ca.Data.Priors.Equal(cb.Data.Priors) ||
			!ca.Data.LMActions.Equal(cb.Data.LMActions) {
			return false
		}
	}
	return true
}

// fuseEquivStates merges src into dest: every inward transition of src
// is retargeted onto dest, and src is detached from the graph
// (spec.md §4.8's fuseEquivStates). dest is kept, src is discarded.
func fuseEquivStates(f *graph.Fsm, dest, src *graph.State) {
	if f.IsFinal(src) {
		f.SetFinState(dest)
	}
	for id := range src.EntryIDs {
		f.SetEntry(id, dest)
	}
	if f.Start == src {
		f.SetStartState(dest)
	}
	for _, t := range graph.InTrans(src) {
		if !t.IsConditional() {
			if t.Plain.Target == src {
				t.Retarget(dest)
			}
			continue
		}
		for _, ca := range t.Cond.Conds {
			if ca.Data.Target == src {
				t.RetargetCond(ca, dest)
			}
		}
	}
	for _, t := range append([]*graph.Trans(nil), src.Out...) {
		f.DetachTrans(t)
	}
	f.DetachState(src)
}
