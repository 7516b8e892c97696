package ops

import "github.com/gorelex/fsm/graph"

// EpsilonOp mutates f into the empty-string machine reachable from its
// own start state: the start state is marked final in place, with
// nothing else touched. Grounded on the original's epsilonOp, which
// gives a machine the ability to match zero-length input without
// disturbing any transition already wired from its start (spec.md §6).
// Unlike StarOp this never needs to splice a continuation back in: an
// epsilon match short-circuits before consuming anything.
func EpsilonOp(f *graph.Fsm) error {
	if f.Start == nil {
		return nil
	}
	f.SetFinState(f.Start)
	return nil
}

// JoinOp mutates dest into the disjoint union of dest and every graph in
// others, bundled behind a shared pair of named entry points: startId
// names a state epsilon-linked to every operand's own start, and
// finalId names a state every operand's final states epsilon-link back
// to (spec.md §6). Every operand is consumed. The result is left as an
// NFA; a caller determinizes it later via subset.FillInStates.
//
// This is nfaUnionOp's entry-point-addressed sibling: where NfaUnionOp
// allocates a fresh, anonymous join state, JoinOp registers its join
// states under the caller's own entry ids (graph.SetEntry) so the join
// and split points can be re-entered by id from outside the graph, the
// way a scanner with named sub-machines needs to.
func JoinOp(dest *graph.Fsm, startId, finalId int, others []*graph.Fsm) error {
	for _, other := range others {
		if !graph.SameCtx(dest.Ctx, other.Ctx) {
			panic("ops: operands do not share a Ctx")
		}
	}

	joinStart := dest.AddState()
	joinFinal := dest.AddState()
	dest.SetEntry(startId, joinStart)
	dest.SetEntry(finalId, joinFinal)

	link := func(start *graph.State, finals []*graph.State) {
		wireNfaEpsilon(joinStart, start, nil, nil)
		for _, fin := range finals {
			wireNfaEpsilon(fin, joinFinal, nil, nil)
		}
	}

	if dest.Start != nil {
		link(dest.Start, dest.FinalStates())
	}
	for _, other := range others {
		if other.Start == nil {
			continue
		}
		start, finals := other.Start, other.FinalStates()
		absorbStates(dest, other)
		link(start, finals)
	}

	dest.SetStartState(joinStart)
	dest.IsNfa = true
	return nil
}

// GlobOp mutates dest into a bare structural union of dest and every
// graph in others: states, entry points, and misfit lists all migrate
// into dest, but no new wiring is added between them (spec.md §6). Each
// operand's own entry ids remain independently reachable; globOp is how
// a set of named sub-machines (each addressed later only by entry id,
// never through a shared start) are packed into a single graph value
// for the codegen layer to walk as one unit.
func GlobOp(dest *graph.Fsm, others []*graph.Fsm) error {
	for _, other := range others {
		if !graph.SameCtx(dest.Ctx, other.Ctx) {
			panic("ops: operands do not share a Ctx")
		}
		absorbStates(dest, other)
	}
	return nil
}
