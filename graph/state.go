package graph

import (
	"sort"

	"github.com/gorelex/fsm/action"
	"github.com/gorelex/fsm/cond"
	"github.com/gorelex/fsm/key"
)

// AddState allocates a fresh state, appends it to the state list, and
// returns it (spec.md §4.11).
func (f *Fsm) AddState() *State {
	s := &State{
		id:               f.nextID,
		EntryIDs:         make(map[int]bool),
		ToStateActions:   action.NewTable(),
		FromStateActions: action.NewTable(),
		OutActions:       action.NewTable(),
		EOFActions:       action.NewTable(),
		ErrorActions:     action.NewTable(),
	}
	f.nextID++
	f.States = append(f.States, s)
	return s
}

// DetachState removes s from every list it appears on (state list, misfit
// list, nfa list, entry map, final set, start/error pointers) after its
// in-lists have been detached by the caller. It does not detach s's own
// transitions; callers must do that first via DetachTrans.
func (f *Fsm) DetachState(s *State) {
	f.States = removeState(f.States, s)
	f.Misfit = removeState(f.Misfit, s)
	f.Nfa = removeState(f.Nfa, s)
	for id, st := range f.Entries {
		if st == s {
			delete(f.Entries, id)
		}
	}
	delete(f.final, s)
	if f.Start == s {
		f.Start = nil
	}
	if f.Error == s {
		f.Error = nil
	}
}

func removeState(list []*State, s *State) []*State {
	for i, st := range list {
		if st == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// SetFinState marks s final and adds it to the final-state set.
func (f *Fsm) SetFinState(s *State) {
	s.Final = true
	f.final[s] = true
}

// UnsetFinState clears s's final marking.
func (f *Fsm) UnsetFinState(s *State) {
	s.Final = false
	delete(f.final, s)
}

// SetStartState sets the graph's start state.
func (f *Fsm) SetStartState(s *State) { f.Start = s }

// UnsetStartState clears the graph's start state.
func (f *Fsm) UnsetStartState() { f.Start = nil }

// MarkMisfit parks s on the misfit list: temporarily unreachable during
// construction, but may be revived.
func (f *Fsm) MarkMisfit(s *State) {
	for _, m := range f.Misfit {
		if m == s {
			return
		}
	}
	f.Misfit = append(f.Misfit, s)
}

// attachIn records t on target's appropriate in-list.
func attachIn(target *State, t *Trans) {
	if target == nil {
		return
	}
	if t.IsConditional() {
		target.inCond = append(target.inCond, t)
	} else {
		target.inPlain = append(target.inPlain, t)
	}
}

// detachIn removes t from target's in-list.
func detachIn(target *State, t *Trans) {
	if target == nil {
		return
	}
	if t.IsConditional() {
		target.inCond = removeTrans(target.inCond, t)
	} else {
		target.inPlain = removeTrans(target.inPlain, t)
	}
}

func removeTrans(list []*Trans, t *Trans) []*Trans {
	for i, x := range list {
		if x == t {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// AttachNewTrans allocates a new plain transition [lo,hi] from `from` to
// `to`, inserts it into from.Out keeping the out-list sorted, and links
// it onto to's in-list (spec.md §4.11).
func (f *Fsm) AttachNewTrans(from *State, lo, hi key.Key, to *State) *Trans {
	t := &Trans{Low: lo, High: hi, Plain: NewTransData(to)}
	f.AddTrans(from, t)
	return t
}

// AttachNewCond allocates a new conditional transition [lo,hi] from
// `from` over the given condition space, with no CondAp branches yet
// (callers populate via t.Cond.Insert), and links it into from.Out.
func (f *Fsm) AttachNewCond(from *State, lo, hi key.Key, space *cond.Space) *Trans {
	t := &Trans{Low: lo, High: hi, Cond: &CondTrans{Space: space}}
	f.AddTrans(from, t)
	return t
}

// InTransCount reports how many in-list references target t has across
// both plain and conditional in-lists, for invariant checks.
func InTransCount(target *State, t *Trans) int {
	n := 0
	for _, x := range target.inPlain {
		if x == t {
			n++
		}
	}
	for _, x := range target.inCond {
		if x == t {
			n++
		}
	}
	return n
}

// InTrans returns every transition (plain and conditional) that targets s.
func InTrans(s *State) []*Trans {
	out := make([]*Trans, 0, len(s.inPlain)+len(s.inCond))
	out = append(out, s.inPlain...)
	out = append(out, s.inCond...)
	return out
}

// sortOut keeps a state's out-list sorted by Low, the invariant every
// mutator below must restore before returning.
func sortOut(s *State) {
	sort.Slice(s.Out, func(i, j int) bool { return s.Out[i].Low < s.Out[j].Low })
}

// AddTrans links an already-constructed transition onto `from`'s out-list
// and onto every target's in-list. Low/High must not overlap any existing
// out-transition of from; callers combining automata go through
// rangeiter/crossTransitions instead, which guarantees this.
func (f *Fsm) AddTrans(from *State, t *Trans) {
	t.From = from
	from.Out = append(from.Out, t)
	sortOut(from)
	linkTargets(t)
}

func linkTargets(t *Trans) {
	if t.IsConditional() {
		for _, ca := range t.Cond.Conds {
			attachIn(ca.Data.Target, t)
		}
	} else {
		attachIn(t.Plain.Target, t)
	}
}

func unlinkTargets(t *Trans) {
	if t.IsConditional() {
		for _, ca := range t.Cond.Conds {
			detachIn(ca.Data.Target, t)
		}
	} else {
		detachIn(t.Plain.Target, t)
	}
}

// DetachTrans unlinks t from its From state's out-list and from every
// target's in-list.
func (f *Fsm) DetachTrans(t *Trans) {
	if t.From != nil {
		t.From.Out = removeTrans(t.From.Out, t)
	}
	unlinkTargets(t)
	t.From = nil
}

// Retarget changes a plain transition's target, maintaining in-lists.
func (t *Trans) Retarget(newTarget *State) {
	if t.IsConditional() {
		return
	}
	detachIn(t.Plain.Target, t)
	t.Plain.Target = newTarget
	attachIn(newTarget, t)
}

// RetargetCond changes a single CondAp's target, maintaining in-lists.
func (t *Trans) RetargetCond(ca *CondAp, newTarget *State) {
	if !t.IsConditional() {
		return
	}
	detachIn(ca.Data.Target, t)
	ca.Data.Target = newTarget
	attachIn(newTarget, t)
}

// NewPlainTrans constructs an unattached plain transition; call
// (*Fsm).AddTrans to link it.
func NewPlainTrans(lo, hi key.Key, to *State) *Trans {
	return &Trans{Low: lo, High: hi, Plain: NewTransData(to)}
}

// EmbedCondition extends s's out-carrier by the supplied guard and
// selected value, following spec.md §4.3's embedCondition: on next use
// these are fused into outgoing transitions by convertToCondAp /
// expandConds (see condition.go).
func (s *State) EmbedCondition(space *cond.Space, vals cond.CondVals) {
	if s.OutCond == nil || s.OutCond.Space() != space {
		s.OutCond = cond.NewVectorSet(space)
	}
	s.OutCond.Select(vals)
}
