package graph

// Duplicate returns a deep copy of f: a fresh state list with the same
// shape, action/priority/LM tables cloned, sharing f's Ctx (so the copy
// can immediately participate in further operators against the
// original). Used by package ops's repeatOp to produce n independent
// copies of an operand before concatenating them (spec.md §6).
//
// spec.md §3 describes the source's per-state "scratch" duplication map
// as the phase-guarded vehicle for tracking original-to-copy
// correspondence. This implementation threads that correspondence
// through an ordinary local map in the closure below instead of
// mutating each state's scratch field: Go's closures make the phase
// discipline the scratch union enforces by convention unnecessary here,
// and the field stays reserved for the minimization and state-numbering
// phases that do need it (see minimize/ and order.go).
func (f *Fsm) Duplicate() *Fsm {
	dst := New(f.Ctx)
	dup := make(map[*State]*State, len(f.States))

	var walk func(s *State) *State
	walk = func(s *State) *State {
		if d, ok := dup[s]; ok {
			return d
		}
		d := dst.AddState()
		dup[s] = d
		if f.IsFinal(s) {
			dst.SetFinState(d)
		}
		for id := range s.EntryIDs {
			dst.SetEntry(id, d)
		}
		for _, t := range s.Out {
			cloneTransBetween(dst, d, t, walk)
		}
		return d
	}

	for _, s := range f.States {
		walk(s)
	}
	if f.Start != nil {
		dst.SetStartState(walk(f.Start))
	}
	if f.Error != nil {
		dst.Error = walk(f.Error)
	}
	for _, m := range f.Misfit {
		dst.MarkMisfit(dup[m])
	}
	dst.IsNfa = f.IsNfa
	return dst
}

func cloneTransBetween(dst *Fsm, from *State, t *Trans, resolve func(*State) *State) {
	if !t.IsConditional() {
		nt := dst.AttachNewTrans(from, t.Low, t.High, resolve(t.Plain.Target))
		nt.Plain.Actions = t.Plain.Actions.Clone()
		nt.Plain.Priors = t.Plain.Priors.Clone()
		nt.Plain.LMActions = t.Plain.LMActions.Clone()
		return
	}
	nt := dst.AttachNewCond(from, t.Low, t.High, t.Cond.Space)
	for _, ca := range t.Cond.Conds {
		data := ca.Data.Clone()
		data.Target = resolve(ca.Data.Target)
		nt.Cond.Insert(&CondAp{CondVals: ca.CondVals, Data: data})
	}
}
