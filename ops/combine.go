// Package ops implements the FSM algebraic operators of spec.md §6:
// concatenation, star/repeat, the boolean operators (union, intersect,
// subtract) built over a shared product-automaton combiner, epsilon
// join/glob over named entry points, and the NFA-preserving union and
// repeat that defer determinization instead of performing it inline.
//
// Grounded on the teacher's cache.StateCache (sha256-hash-keyed
// memoization of previously computed values, here specialized to a
// two-pointer state-pair key) for the combiner's dictionary, and on
// spec.md §4.5's crossTransitions description for the merge itself.
package ops

import (
	"github.com/gorelex/fsm/graph"
	"github.com/gorelex/fsm/key"
	"github.com/gorelex/fsm/rangeiter"
)

// BoolOp selects which two-operand boolean law crossTransitions applies
// to a segment that appears on only one side of a merge (spec.md §4.5).
type BoolOp int

const (
	OpUnion BoolOp = iota
	OpIntersect
	OpSubtract
)

// pair identifies one node of the product automaton under construction.
// Either half may be nil once that operand has run out of matching
// transitions and is no longer tracked (spec.md §4.6's state-dictionary
// idea, specialized to exactly two fixed operands).
type pair struct{ a, b *graph.State }

// productBuilder folds crossTransitions over a worklist of state pairs,
// interning each newly discovered pair as a single destination state.
type productBuilder struct {
	dest       *graph.Fsm
	fsmA, fsmB *graph.Fsm
	op         BoolOp
	costID     int
	dict       map[pair]*graph.State
	worklist   []pair
}

func newProductBuilder(dest, fsmA, fsmB *graph.Fsm, op BoolOp, costID int) *productBuilder {
	return &productBuilder{
		dest: dest, fsmA: fsmA, fsmB: fsmB, op: op, costID: costID,
		dict: make(map[pair]*graph.State),
	}
}

func (pb *productBuilder) isFinalA(s *graph.State) bool { return s != nil && pb.fsmA.IsFinal(s) }
func (pb *productBuilder) isFinalB(s *graph.State) bool { return s != nil && pb.fsmB.IsFinal(s) }

func (pb *productBuilder) finalFor(p pair) bool {
	fa, fb := pb.isFinalA(p.a), pb.isFinalB(p.b)
	switch pb.op {
	case OpIntersect:
		return fa && fb
	case OpSubtract:
		return fa && !fb
	default: // OpUnion
		return fa || fb
	}
}

// intern returns the destination state for p, allocating and enqueuing
// it on first sight.
//
// When one operand is dest itself — true only of star/repeat's
// self-referential splice (spliceStartBehavior), never of the boolean
// operators' fresh-result merge — two shapes of pair are not newly
// discovered states at all, and must alias to the existing state
// instead of interning a lookalike:
//
//   - pair{nil, x} (or pair{x, nil}) with x already a member of dest
//     denotes exactly x's own future once the other operand has run
//     out of matching transitions.
//   - pair{x, x}, the same dest state paired with itself, denotes that
//     one state, not a new composite of two positions.
//
// Skipping either collapse reopens the same failure: a splice that
// keeps discovering "new" states for what is really one of its own
// states under another name never drains its worklist. See StarOp.
func (pb *productBuilder) intern(p pair) *graph.State {
	if p.a == nil && p.b == nil {
		return nil
	}
	if p.a == nil && pb.fsmB == pb.dest {
		return p.b
	}
	if p.b == nil && pb.fsmA == pb.dest {
		return p.a
	}
	if p.a != nil && p.a == p.b && pb.fsmA == pb.dest && pb.fsmB == pb.dest {
		return p.a
	}
	if s, ok := pb.dict[p]; ok {
		return s
	}
	s := pb.dest.AddState()
	pb.dict[p] = s
	pb.worklist = append(pb.worklist, p)
	if pb.finalFor(p) {
		pb.dest.SetFinState(s)
	}
	return s
}

// build runs the worklist to completion, starting from (startA, startB).
func (pb *productBuilder) build(startA, startB *graph.State) (*graph.State, error) {
	start := pb.intern(pair{startA, startB})
	if err := pb.drain(); err != nil {
		return nil, err
	}
	return start, nil
}

// assign forces p to resolve to the pre-existing state s, rather than
// allocating a fresh one, and enqueues p for its out-list to be
// (re)computed. Used when the merge result must keep a caller-chosen
// state's identity — star/repeat's back-edge splice reuses the state
// being repeated into, since other transitions already target it.
// Unlike intern, assign never touches finality: the caller owns that.
//
// Nothing downstream bounds a worklist seeded this way: unlike
// subset.FillInStates, whose determinization loop checks Ctx.StateLimit
// on every new state, this product builder has no such check (spec.md
// scopes TooManyStates to subset construction alone). A caller that
// assigns a pair without also arranging for intern's dest-aliasing
// above to close every resulting cycle back onto an existing state will
// grow the worklist unbounded with no error to catch it.
func (pb *productBuilder) assign(p pair, s *graph.State) {
	pb.dict[p] = s
	pb.worklist = append(pb.worklist, p)
}

// drain runs the worklist to completion without seeding an initial pair.
func (pb *productBuilder) drain() error {
	for len(pb.worklist) > 0 {
		p := pb.worklist[0]
		pb.worklist = pb.worklist[1:]
		s := pb.dict[p]
		if err := pb.crossTransitions(s, p); err != nil {
			return err
		}
	}
	return nil
}

func outOf(s *graph.State) []*graph.Trans {
	if s == nil {
		return nil
	}
	return s.Out
}

// crossTransitions builds s's out-list as the pointwise merge of p.a's
// and p.b's out-lists, following spec.md §4.5.
func (pb *productBuilder) crossTransitions(s *graph.State, p pair) error {
	items1 := toItems(outOf(p.a))
	items2 := toItems(outOf(p.b))
	it := rangeiter.New(items1, items2)
	for {
		ev, ok := it.Next()
		if !ok {
			break
		}
		switch ev.Kind {
		case rangeiter.BreakS1, rangeiter.BreakS2:
			continue
		case rangeiter.RangeInS1:
			// Union and subtract both keep following A alone; intersect
			// drops any segment B does not also define.
			if pb.op == OpIntersect {
				continue
			}
			if err := pb.emitOneSided(s, ev.S1.Low, ev.S1.High, ev.S1.Payload, true); err != nil {
				return err
			}
		case rangeiter.RangeInS2:
			// Only union keeps following B alone: intersect drops it (A
			// never defines this input), and subtract drops it too (A
			// must define the input for subtract to accept via it).
			if pb.op != OpUnion {
				continue
			}
			if err := pb.emitOneSided(s, ev.S2.Low, ev.S2.High, ev.S2.Payload, false); err != nil {
				return err
			}
		case rangeiter.RangeOverlap:
			if err := pb.emitOverlap(s, ev.S1.Low, ev.S1.High, ev.S1.Payload, ev.S2.Payload); err != nil {
				return err
			}
		}
	}
	return nil
}

func toItems(ts []*graph.Trans) []rangeiter.Item[*graph.Trans] {
	out := make([]rangeiter.Item[*graph.Trans], len(ts))
	for i, t := range ts {
		out[i] = rangeiter.Item[*graph.Trans]{Low: t.Low, High: t.High, Payload: t}
	}
	return out
}

// emitOneSided copies a segment present on only one operand into dest,
// retargeting through the pair dictionary so the untracked side is
// dropped from the product (fromA selects which operand t belongs to).
func (pb *productBuilder) emitOneSided(dest *graph.State, lo, hi key.Key, t *graph.Trans, fromA bool) error {
	if !t.IsConditional() {
		target := t.Plain.Target
		var np pair
		if fromA {
			np = pair{target, nil}
		} else {
			np = pair{nil, target}
		}
		nt := pb.dest.AttachNewTrans(dest, lo, hi, pb.intern(np))
		nt.Plain.Actions = t.Plain.Actions.Clone()
		nt.Plain.Priors = t.Plain.Priors.Clone()
		nt.Plain.LMActions = t.Plain.LMActions.Clone()
		return nil
	}
	nt := pb.dest.AttachNewCond(dest, lo, hi, t.Cond.Space)
	for _, ca := range t.Cond.Conds {
		var np pair
		if fromA {
			np = pair{ca.Data.Target, nil}
		} else {
			np = pair{nil, ca.Data.Target}
		}
		data := ca.Data.Clone()
		data.Target = pb.intern(np)
		nt.Cond.Insert(&graph.CondAp{CondVals: ca.CondVals, Data: data})
	}
	return nil
}

// emitOverlap merges a segment present on both operands: cond-lists are
// brought onto a common merged space and paired cond by cond, following
// spec.md §4.5's overlap rule.
func (pb *productBuilder) emitOverlap(dest *graph.State, lo, hi key.Key, a, b *graph.Trans) error {
	spaceA, condsA, err := graph.AsCondList(pb.dest.Ctx, a)
	if err != nil {
		return err
	}
	spaceB, condsB, err := graph.AsCondList(pb.dest.Ctx, b)
	if err != nil {
		return err
	}
	merged, err := pb.dest.Ctx.Conds.Union(spaceA, spaceB)
	if err != nil {
		return err
	}
	expA, err := graph.ExpandCondList(pb.dest.Ctx, spaceA, merged, condsA, pb.costID)
	if err != nil {
		return err
	}
	expB, err := graph.ExpandCondList(pb.dest.Ctx, spaceB, merged, condsB, pb.costID)
	if err != nil {
		return err
	}

	if merged.Cardinality() == 0 {
		// Both sides were plain: a single combined transition.
		np := pair{expA[0].Data.Target, expB[0].Data.Target}
		nt := pb.dest.AttachNewTrans(dest, lo, hi, pb.intern(np))
		nt.Plain.Actions = expA[0].Data.Actions.Clone()
		nt.Plain.Actions.SetActions(expB[0].Data.Actions)
		nt.Plain.Priors = expA[0].Data.Priors.Clone()
		if err := nt.Plain.Priors.SetPriors(expB[0].Data.Priors); err != nil {
			return err
		}
		nt.Plain.LMActions = expA[0].Data.LMActions.Clone()
		nt.Plain.LMActions.SetActions(expB[0].Data.LMActions)
		return nil
	}

	nt := pb.dest.AttachNewCond(dest, lo, hi, merged)
	valsA := toValItems(expA)
	valsB := toValItems(expB)
	vit := rangeiter.NewVal(valsA, valsB)
	for {
		ev, ok := vit.Next()
		if !ok {
			break
		}
		switch ev.Kind {
		case rangeiter.ValOnlyS1:
			// Intersect drops it (B never defines this guard combination);
			// union and subtract both keep following A alone.
			if pb.op == OpIntersect {
				continue
			}
			data := ev.S1.Payload.Data.Clone()
			data.Target = pb.intern(pair{ev.S1.Payload.Data.Target, nil})
			nt.Cond.Insert(&graph.CondAp{CondVals: ev.S1.Key, Data: data})
		case rangeiter.ValOnlyS2:
			if pb.op != OpUnion {
				continue
			}
			np := pair{nil, ev.S2.Payload.Data.Target}
			data := ev.S2.Payload.Data.Clone()
			data.Target = pb.intern(np)
			nt.Cond.Insert(&graph.CondAp{CondVals: ev.S2.Key, Data: data})
		case rangeiter.ValBoth:
			np := pair{ev.S1.Payload.Data.Target, ev.S2.Payload.Data.Target}
			data := ev.S1.Payload.Data.Clone()
			data.Actions.SetActions(ev.S2.Payload.Data.Actions)
			if err := data.Priors.SetPriors(ev.S2.Payload.Data.Priors); err != nil {
				return err
			}
			data.LMActions.SetActions(ev.S2.Payload.Data.LMActions)
			data.Target = pb.intern(np)
			nt.Cond.Insert(&graph.CondAp{CondVals: ev.S1.Key, Data: data})
		}
	}
	return nil
}

func toValItems(conds []*graph.CondAp) []rangeiter.ValItem[*graph.CondAp] {
	out := make([]rangeiter.ValItem[*graph.CondAp], len(conds))
	for i, ca := range conds {
		out[i] = rangeiter.ValItem[*graph.CondAp]{Key: ca.CondVals, Payload: ca}
	}
	return out
}
