package ops

import (
	"github.com/gorelex/fsm/action"
	"github.com/gorelex/fsm/graph"
)

// NfaRound tracks the depth/groups counters of an NFA-preserving repeat
// (spec.md §4.7): Depth counts the nesting level of repeat operators
// still open on the current build, Groups counts how many repeat edges
// have been wired. NfaRepeatOp only updates these counters; no limit is
// checked against them. It is caller-owned scratch, not persisted on the
// graph itself.
type NfaRound struct {
	Depth  int
	Groups int
}

// NfaUnionOp mutates dest into the NFA-preserving union of dest and
// every graph in others, consuming each (spec.md §4.7). Unlike UnionOp,
// this performs no subset construction: a fresh start state is wired to
// every operand's own start state via an epsilon transition carrying
// push/pop action bookkeeping, and the result is marked as an NFA.
// Determinizing the result later (subset.FillInStates) treats those
// epsilon edges as ordinary closure edges.
func NfaUnionOp(dest *graph.Fsm, others []*graph.Fsm, push, pop *action.Action) error {
	for _, other := range others {
		if !graph.SameCtx(dest.Ctx, other.Ctx) {
			panic("ops: operands do not share a Ctx")
		}
	}
	dest.Ctx.UnionInProgress = true
	defer func() { dest.Ctx.UnionInProgress = false }()

	branches := make([]*graph.State, 0, 1+len(others))
	if dest.Start != nil {
		branches = append(branches, dest.Start)
	}
	for _, other := range others {
		if other.Start == nil {
			continue
		}
		absorbStates(dest, other)
		branches = append(branches, other.Start)
	}

	newStart := dest.AddState()
	for _, b := range branches {
		wireNfaEpsilon(newStart, b, push, pop)
	}
	dest.SetStartState(newStart)
	dest.IsNfa = true
	return nil
}

// absorbStates moves every state, entry point and final marking of src
// into dest, then empties src (spec.md §6: "other is consumed; its
// states migrate, its shell is destroyed"). Both graphs must already
// share a Ctx; states are moved, not duplicated, so no cloning of
// actions or condition data is needed.
func absorbStates(dest, src *graph.Fsm) {
	for _, s := range src.States {
		dest.States = append(dest.States, s)
	}
	for _, s := range src.FinalStates() {
		dest.SetFinState(s)
	}
	for _, m := range src.Misfit {
		dest.MarkMisfit(m)
	}
	for id, s := range src.Entries {
		dest.SetEntry(id, s)
	}
	src.States = nil
	src.Misfit = nil
	src.Entries = map[int]*graph.State{}
	src.UnsetStartState()
}

// wireNfaEpsilon links from to to directly on the NfaOut/NfaIn maps,
// carrying push/pop bookkeeping. Unlike (*State).EpsilonTrans, this
// bypasses the entry-id indirection entirely: both endpoints are
// already concrete states here, so there is nothing for
// ResolveEpsilonTrans to resolve later.
func wireNfaEpsilon(from, to *graph.State, push, pop *action.Action) {
	if from.NfaOut == nil {
		from.NfaOut = make(map[*graph.State]graph.NfaAction)
	}
	from.NfaOut[to] = graph.NfaAction{Push: push, Pop: pop}
	if to.NfaIn == nil {
		to.NfaIn = make(map[*graph.State]bool)
	}
	to.NfaIn[from] = true
}

// NfaRepeatOp mutates f (already marked NFA, e.g. by NfaUnionOp) into a
// repetition of itself without determinizing: it re-wires every current
// final state's continuation back to f's own start via a fresh epsilon
// edge, incrementing round.Groups once per edge and round.Depth for the
// duration of the call (spec.md §4.7). No repetition count or nesting
// limit is enforced. It does not itself raise TooManyStates or
// CondCostTooHigh: those are subset construction's concern once the
// caller determinizes the result.
func NfaRepeatOp(f *graph.Fsm, round *NfaRound, push, pop *action.Action) error {
	if f.Start == nil || !f.IsNfa {
		return nil
	}
	round.Depth++
	defer func() { round.Depth-- }()

	for _, fin := range f.FinalStates() {
		wireNfaEpsilon(fin, f.Start, push, pop)
		round.Groups++
	}
	return nil
}
