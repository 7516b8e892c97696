package subset

import (
	"github.com/gorelex/fsm/cond"
	"github.com/gorelex/fsm/graph"
)

// emitSegment folds seg's covering transitions into a single combined
// transition on dst, following spec.md §4.6 step 1 ("out-list by a
// left-fold of crossTransitions over the members of S").
//
// Each covering transition contributes a guard space and cond-list via
// graph.AsCondList, uniformly for plain and conditional transitions.
// Folding two cond-lists needs a per-branch target, but a branch's
// target here is provisionally a *set* of source states (until its
// closure is finally interned into one destination state), which does
// not fit graph.CondAp.Data.Target's single-*State shape. Rather than
// widen that shape for this one caller, each branch is keyed through a
// throwaway, never-registered *graph.State used purely as a map key:
// graph.ExpandCondList clones TransData without ever inspecting Target,
// so the sentinel's identity survives expansion untouched, and
// sentinelInfo recovers the real (still-growing) target set from it at
// each fold step.
func (b *builder) emitSegment(dst *graph.State, seg segment) error {
	info := make(map[*graph.State]*branchInfo)
	sentinel := func(bi *branchInfo) *graph.State {
		s := &graph.State{}
		info[s] = bi
		return s
	}
	wrap := func(t *graph.Trans) (*cond.Space, []*graph.CondAp, error) {
		space, conds, err := graph.AsCondList(b.ctx, t)
		if err != nil {
			return nil, nil, err
		}
		out := make([]*graph.CondAp, len(conds))
		for i, ca := range conds {
			bi := &branchInfo{
				targets: []*graph.State{ca.Data.Target},
				actions: ca.Data.Actions.Clone(),
				priors:  ca.Data.Priors.Clone(),
				lm:      ca.Data.LMActions.Clone(),
			}
			out[i] = &graph.CondAp{CondVals: ca.CondVals, Data: graph.TransData{
				Actions: bi.actions, Priors: bi.priors, LMActions: bi.lm, Target: sentinel(bi),
			}}
		}
		return space, out, nil
	}

	var accSpace *cond.Space
	var accConds []*graph.CondAp
	for i, t := range seg.trs {
		tSpace, tConds, err := wrap(t)
		if err != nil {
			return err
		}
		if i == 0 {
			accSpace, accConds = tSpace, tConds
			continue
		}
		accSpace, accConds, err = b.foldIn(accSpace, accConds, tSpace, tConds, info)
		if err != nil {
			return err
		}
	}

	for _, ca := range accConds {
		bi := info[ca.Data.Target]
		target, err := b.intern(closure(bi.targets))
		if err != nil {
			return err
		}
		ca.Data.Target = target
	}

	if accSpace.Cardinality() == 0 {
		ca := accConds[0]
		nt := b.dest.AttachNewTrans(dst, seg.lo, seg.hi, ca.Data.Target)
		nt.Plain.Actions = ca.Data.Actions
		nt.Plain.Priors = ca.Data.Priors
		nt.Plain.LMActions = ca.Data.LMActions
		return nil
	}

	nt := b.dest.AttachNewCond(dst, seg.lo, seg.hi, accSpace)
	for _, ca := range accConds {
		nt.Cond.Insert(ca)
	}
	return nil
}

// foldIn merges (accSpace, accConds) with a newly seen (tSpace, tConds)
// onto their combined space, unioning the branch info of every guard
// combination that survives on both sides (every combination survives:
// both lists are exhaustively expanded over the merged space, so they
// pair off index-for-index once sorted by CondVals).
func (b *builder) foldIn(accSpace *cond.Space, accConds []*graph.CondAp, tSpace *cond.Space, tConds []*graph.CondAp, info map[*graph.State]*branchInfo) (*cond.Space, []*graph.CondAp, error) {
	merged, err := b.ctx.Conds.Union(accSpace, tSpace)
	if err != nil {
		return nil, nil, err
	}
	expAcc, err := graph.ExpandCondList(b.ctx, accSpace, merged, accConds, b.costID)
	if err != nil {
		return nil, nil, err
	}
	expT, err := graph.ExpandCondList(b.ctx, tSpace, merged, tConds, b.costID)
	if err != nil {
		return nil, nil, err
	}

	byVals := make(map[cond.CondVals]*graph.CondAp, len(expT))
	for _, ca := range expT {
		byVals[ca.CondVals] = ca
	}

	out := make([]*graph.CondAp, 0, len(expAcc))
	for _, a := range expAcc {
		t, ok := byVals[a.CondVals]
		if !ok {
			out = append(out, a)
			continue
		}
		ia, it := info[a.Data.Target], info[t.Data.Target]
		combined := &branchInfo{
			targets: append(append([]*graph.State(nil), ia.targets...), it.targets...),
			actions: ia.actions.Clone(),
			priors:  ia.priors.Clone(),
			lm:      ia.lm.Clone(),
		}
		combined.actions.SetActions(it.actions)
		if err := combined.priors.SetPriors(it.priors); err != nil {
			return nil, nil, err
		}
		combined.lm.SetActions(it.lm)

		s := &graph.State{}
		info[s] = combined
		out = append(out, &graph.CondAp{CondVals: a.CondVals, Data: graph.TransData{
			Actions: combined.actions, Priors: combined.priors, LMActions: combined.lm, Target: s,
		}})
	}
	return merged, out, nil
}
