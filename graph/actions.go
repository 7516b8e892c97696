package graph

import "github.com/gorelex/fsm/action"

// TableKind selects which of a state's four action tables a state-scoped
// binding operation targets.
type TableKind int

const (
	TableToState TableKind = iota
	TableFromState
	TableEOF
	TableError
)

func tableFor(s *State, kind TableKind) *action.Table {
	switch kind {
	case TableFromState:
		return s.FromStateActions
	case TableEOF:
		return s.EOFActions
	case TableError:
		return s.ErrorActions
	default:
		return s.ToStateActions
	}
}

func refKindFor(kind TableKind) action.RefKind {
	switch kind {
	case TableFromState:
		return action.RefFromState
	case TableEOF:
		return action.RefEOF
	case TableError:
		return action.RefFromState // errors fire on the way out, same accounting as from-state
	default:
		return action.RefToState
	}
}

// StartFsmAction binds act to the start state, in the table selected by
// kind (default TableToState: it fires as control enters the start
// state, i.e. before scanning begins).
func (f *Fsm) StartFsmAction(ordering action.Ordering, act *action.Action, kind TableKind) {
	if f.Start == nil {
		return
	}
	if tableFor(f.Start, kind).SetAction(ordering, act) {
		act.AddRef(refKindFor(kind))
	}
}

// FinishFsmAction binds act to every final state, in the table selected
// by kind (default TableToState: it fires as control reaches acceptance).
func (f *Fsm) FinishFsmAction(ordering action.Ordering, act *action.Action, kind TableKind) {
	for _, s := range f.FinalStates() {
		if tableFor(s, kind).SetAction(ordering, act) {
			act.AddRef(refKindFor(kind))
		}
	}
}

// LeaveFsmAction binds act to every state in the graph, in the table
// selected by kind (default TableFromState: it fires whenever any
// transition is taken away from any state).
func (f *Fsm) LeaveFsmAction(ordering action.Ordering, act *action.Action, kind TableKind) {
	if kind == TableToState {
		// LeaveFsmAction's natural default differs from Start/Finish's.
		kind = TableFromState
	}
	for _, s := range f.States {
		if tableFor(s, kind).SetAction(ordering, act) {
			act.AddRef(refKindFor(kind))
		}
	}
}

// AllTransAction binds act to every transition in the graph (both plain
// transitions and every CondAp branch of a conditional transition).
func (f *Fsm) AllTransAction(ordering action.Ordering, act *action.Action) {
	for _, s := range f.States {
		for _, t := range s.Out {
			bindTransAction(t, ordering, act)
		}
	}
}

func bindTransAction(t *Trans, ordering action.Ordering, act *action.Action) {
	if t.IsConditional() {
		for _, ca := range t.Cond.Conds {
			if ca.Data.Actions.SetAction(ordering, act) {
				act.AddRef(action.RefTrans)
			}
		}
		return
	}
	if t.Plain.Actions.SetAction(ordering, act) {
		act.AddRef(action.RefTrans)
	}
}
