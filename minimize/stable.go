package minimize

import (
	"github.com/gorelex/fsm/graph"
	"github.com/gorelex/fsm/rangeiter"
)

// statePair is an unordered pair of states, canonicalized by id so it
// can key a map regardless of argument order.
type statePair struct{ a, b *graph.State }

func pairKey(a, b *graph.State) statePair {
	if a.ID() > b.ID() {
		a, b = b, a
	}
	return statePair{a, b}
}

// Stable minimizes f by pair-marking (spec.md §4.8): a pair of states is
// marked distinguishable as soon as any evidence separates their
// languages, starting from finality and state-level action tables and
// propagating outward across their out-lists via the range-pair
// iterator until no more pairs can be marked. Every pair left unmarked
// is fused.
func Stable(f *graph.Fsm) {
	states := append([]*graph.State(nil), f.States...)
	marked := make(map[statePair]bool)

	for i := 0; i < len(states); i++ {
		for j := i + 1; j < len(states); j++ {
			if initiallyDistinguishable(f, states[i], states[j]) {
				marked[pairKey(states[i], states[j])] = true
			}
		}
	}

	for {
		changed := false
		for i := 0; i < len(states); i++ {
			for j := i + 1; j < len(states); j++ {
				k := pairKey(states[i], states[j])
				if marked[k] {
					continue
				}
				if distinguishedByOut(states[i], states[j], marked) {
					marked[k] = true
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	fused := make(map[*graph.State]*graph.State)
	rep := func(s *graph.State) *graph.State {
		for fused[s] != nil {
			s = fused[s]
		}
		return s
	}
	for i := 0; i < len(states); i++ {
		for j := i + 1; j < len(states); j++ {
			if marked[pairKey(states[i], states[j])] {
				continue
			}
			a, b := rep(states[i]), rep(states[j])
			if a == b {
				continue
			}
			fuseEquivStates(f, a, b)
			fused[b] = a
		}
	}
}

func initiallyDistinguishable(f *graph.Fsm, a, b *graph.State) bool {
	if f.IsFinal(a) != f.IsFinal(b) {
		return true
	}
	return !a.ToStateActions.Equal(b.ToStateActions) ||
		!a.FromStateActions.Equal(b.FromStateActions) ||
		!a.OutActions.Equal(b.OutActions) ||
		!a.EOFActions.Equal(b.EOFActions) ||
		!a.ErrorActions.Equal(b.ErrorActions)
}

// distinguishedByOut walks a's and b's out-lists with the range-pair
// iterator (spec.md §4.4/§4.8): a segment present on only one side
// distinguishes the pair outright; an overlapping segment distinguishes
// it only if the segment's two targets are themselves a marked pair.
func distinguishedByOut(a, b *graph.State, marked map[statePair]bool) bool {
	it := rangeiter.New(toItems(a.Out), toItems(b.Out))
	for {
		ev, ok := it.Next()
		if !ok {
			return false
		}
		switch ev.Kind {
		case rangeiter.RangeInS1, rangeiter.RangeInS2:
			return true
		case rangeiter.RangeOverlap:
			if targetsDistinguish(ev.S1.Payload, ev.S2.Payload, marked) {
				return true
			}
		}
	}
}

func toItems(ts []*graph.Trans) []rangeiter.Item[*graph.Trans] {
	out := make([]rangeiter.Item[*graph.Trans], len(ts))
	for i, t := range ts {
		out[i] = rangeiter.Item[*graph.Trans]{Low: t.Low, High: t.High, Payload: t}
	}
	return out
}

// targetsDistinguish compares two overlapping transitions' targets.
// Conditional transitions built over different spaces are treated as
// distinguishing outright, a deliberate simplification of the general
// per-branch remapping ops.emitOverlap performs for algebraic operators:
// minimize only ever compares transitions already produced by the same
// subset construction pass, where sibling conditional transitions
// sharing a range in practice already share a space.
func targetsDistinguish(ta, tb *graph.Trans, marked map[statePair]bool) bool {
	if ta.IsConditional() != tb.IsConditional() {
		return true
	}
	if !ta.IsConditional() {
		return distinguishPair(ta.Plain.Target, tb.Plain.Target, marked)
	}
	if ta.Cond.Space != tb.Cond.Space || len(ta.Cond.Conds) != len(tb.Cond.Conds) {
		return true
	}
	for _, ca := range ta.Cond.Conds {
		cb, ok := tb.Cond.Find(ca.CondVals)
		if !ok {
			return true
		}
		if distinguishPair(ca.Data.Target, cb.Data.Target, marked) {
			return true
		}
	}
	return false
}

func distinguishPair(x, y *graph.State, marked map[statePair]bool) bool {
	if x == y {
		return false
	}
	if x == nil || y == nil {
		return true
	}
	return marked[pairKey(x, y)]
}
