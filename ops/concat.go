package ops

import "github.com/gorelex/fsm/graph"

// ConcatOp mutates dest into the concatenation dest·other, consuming
// other: every final state of dest gains a fused copy of other's start
// state's out-list (an epsilon-free splice, since both operands are
// assumed already deterministic on entry), and dest's final-state set
// becomes whatever other's was (translated onto the fused states).
func ConcatOp(dest, other *graph.Fsm) error {
	if !graph.SameCtx(dest.Ctx, other.Ctx) {
		panic("ops: operands do not share a Ctx")
	}
	if other.Start == nil {
		dest.UnsetStartState()
		return nil
	}

	oldFinals := dest.FinalStates()
	for _, f := range oldFinals {
		dest.UnsetFinState(f)
	}

	dup := make(map[*graph.State]*graph.State, len(other.States))
	var walk func(s *graph.State) *graph.State
	walk = func(s *graph.State) *graph.State {
		if d, ok := dup[s]; ok {
			return d
		}
		d := dest.AddState()
		dup[s] = d
		if other.IsFinal(s) {
			dest.SetFinState(d)
		}
		for _, t := range s.Out {
			cloneOnto(dest, d, t, walk)
		}
		return d
	}
	walk(other.Start)
	resolve := func(s *graph.State) *graph.State { return dup[s] }

	for _, of := range oldFinals {
		for _, t := range other.Start.Out {
			cloneOnto(dest, of, t, resolve)
		}
		if other.IsFinal(other.Start) {
			dest.SetFinState(of)
		}
	}

	return nil
}

// cloneOnto duplicates transition t as a new outgoing transition of dst,
// translating its target(s) through resolve (typically a lookup into a
// local duplication map keyed by original state, as ConcatOp's walk
// builds; the state's scratch dupMap field is not used).
func cloneOnto(dest *graph.Fsm, dst *graph.State, t *graph.Trans, resolve func(*graph.State) *graph.State) {
	if !t.IsConditional() {
		nt := dest.AttachNewTrans(dst, t.Low, t.High, resolve(t.Plain.Target))
		nt.Plain.Actions = t.Plain.Actions.Clone()
		nt.Plain.Priors = t.Plain.Priors.Clone()
		nt.Plain.LMActions = t.Plain.LMActions.Clone()
		return
	}
	nt := dest.AttachNewCond(dst, t.Low, t.High, t.Cond.Space)
	for _, ca := range t.Cond.Conds {
		data := ca.Data.Clone()
		data.Target = resolve(ca.Data.Target)
		nt.Cond.Insert(&graph.CondAp{CondVals: ca.CondVals, Data: data})
	}
}
