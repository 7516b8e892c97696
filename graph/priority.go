package graph

import (
	"github.com/gorelex/fsm/action"
	"github.com/gorelex/fsm/prior"
)

// AllTransPriority binds desc to the priority table of every transition
// in the graph.
func (f *Fsm) AllTransPriority(ordering action.Ordering, desc *prior.Desc) {
	for _, s := range f.States {
		for _, t := range s.Out {
			bindTransPriority(t, ordering, desc)
		}
	}
}

// StartFsmPriority binds desc to every out-transition of the start
// state, resolving ambiguity among the first symbols the machine can
// consume.
func (f *Fsm) StartFsmPriority(ordering action.Ordering, desc *prior.Desc) {
	if f.Start == nil {
		return
	}
	for _, t := range f.Start.Out {
		bindTransPriority(t, ordering, desc)
	}
}

// FinishFsmPriority binds desc to every transition that targets a final
// state, resolving ambiguity at the point of acceptance.
func (f *Fsm) FinishFsmPriority(ordering action.Ordering, desc *prior.Desc) {
	for _, s := range f.FinalStates() {
		for _, t := range InTrans(s) {
			bindTransPriority(t, ordering, desc)
		}
	}
}

// LeaveFsmPriority binds desc to every out-transition of every state,
// naming the same universe as AllTransPriority (priorities only exist on
// transitions, so "leaving a state" and "any transition" coincide) but
// kept as a distinct entry point for symmetry with the action-binding API
// (spec.md §6).
func (f *Fsm) LeaveFsmPriority(ordering action.Ordering, desc *prior.Desc) {
	for _, s := range f.States {
		for _, t := range s.Out {
			bindTransPriority(t, ordering, desc)
		}
	}
}

// bindTransPriority inserts (ordering, desc) directly via SetPrior.
// PriorInteraction is reserved for SetPriors merges of two independently
// built machines (spec.md §4.2's "Failure" note); a single fresh
// insertion here never raises it.
func bindTransPriority(t *Trans, ordering action.Ordering, desc *prior.Desc) {
	if t.IsConditional() {
		for _, ca := range t.Cond.Conds {
			ca.Data.Priors.SetPrior(ordering, desc)
		}
		return
	}
	t.Plain.Priors.SetPrior(ordering, desc)
}
