package graph

// SetEntry records id as an external entry point into state s, both on
// the graph's Entries map and on s's own EntryIDs set (spec.md §4.9).
// An entry id is how a caller (typically a parser building a scanner
// with mid-machine re-entrance) names a state independent of the
// graph's own allocation order.
func (f *Fsm) SetEntry(id int, s *State) {
	f.Entries[id] = s
	s.EntryIDs[id] = true
}

// UnsetEntry removes id from both the graph's Entries map and the
// target state's EntryIDs set, if present.
func (f *Fsm) UnsetEntry(id int) {
	s, ok := f.Entries[id]
	if !ok {
		return
	}
	delete(s.EntryIDs, id)
	delete(f.Entries, id)
}

// EpsilonTrans records a pending epsilon transition from s to the state
// entered under id: unlike a plain transition it consumes no input and
// is resolved to a real, keyless linkage only once every entry point in
// the graph is known (spec.md §4.9's resolveEpsilonTrans). id may name
// an entry point not yet registered via SetEntry; resolution is
// deferred until then.
func (s *State) EpsilonTrans(id int) {
	for _, existing := range s.EpsilonTargets {
		if existing == id {
			return
		}
	}
	s.EpsilonTargets = append(s.EpsilonTargets, id)
}

// resolveEpsilonTrans walks every state's pending epsilon targets and
// links them to the entry point they name, recursively chasing chains
// of epsilon transitions (an entry point that is itself the source of
// another pending epsilon). eptVect guards against an epsilon cycle
// (spec.md §9's cycle-termination question, resolved in DESIGN.md): a
// state visited twice in the same chase is treated as fully resolved
// rather than looped forever.
func (f *Fsm) resolveEpsilonTrans(s *State, eptVect map[*State]bool) []*State {
	if eptVect[s] {
		return nil
	}
	eptVect[s] = true

	var resolved []*State
	for _, id := range s.EpsilonTargets {
		target, ok := f.Entries[id]
		if !ok {
			continue
		}
		resolved = append(resolved, target)
		if len(target.EpsilonTargets) > 0 {
			resolved = append(resolved, f.resolveEpsilonTrans(target, eptVect)...)
		}
	}
	return resolved
}

// ResolveEpsilonTrans resolves every state's pending epsilon targets in
// the graph, replacing EpsilonTargets (entry ids) with real epsilon
// linkage recorded on NfaOut/NfaIn (spec.md §4.9, §3's "nfa-out map").
// Epsilon transitions consume no input and so never take the form of a
// keyed Trans; they exist only while a graph is being assembled as an
// NFA, ahead of fillInStates's subset construction. Call once, after
// every entry point participating in the graph has been registered via
// SetEntry.
func (f *Fsm) ResolveEpsilonTrans() {
	for _, s := range f.States {
		if len(s.EpsilonTargets) == 0 {
			continue
		}
		targets := f.resolveEpsilonTrans(s, make(map[*State]bool))
		for _, t := range targets {
			linkNfaEpsilon(s, t)
		}
		s.EpsilonTargets = nil
	}
}

func linkNfaEpsilon(from, to *State) {
	if from.NfaOut == nil {
		from.NfaOut = make(map[*State]NfaAction)
	}
	from.NfaOut[to] = NfaAction{}
	if to.NfaIn == nil {
		to.NfaIn = make(map[*State]bool)
	}
	to.NfaIn[from] = true
}

// IsolateStartState guarantees the graph's start state has no in-edges,
// splitting it into a fresh predecessor-free state when it does
// (spec.md §4.9): some algebraic operators (notably repeat/star) require
// an isolated start so wiring a new entry loop back to it cannot also
// re-enter whatever previously pointed at the old start state.
func (f *Fsm) IsolateStartState() {
	if f.Start == nil || len(InTrans(f.Start)) == 0 {
		return
	}
	old := f.Start
	fresh := f.AddState()
	for _, t := range old.Out {
		cloneTransOnto(f, fresh, t)
	}
	if f.IsFinal(old) {
		f.SetFinState(fresh)
	}
	f.SetStartState(fresh)
}

// cloneTransOnto duplicates t (targets shared, actions/priorities
// cloned) as a new outgoing transition of from.
func cloneTransOnto(f *Fsm, from *State, t *Trans) {
	if t.IsConditional() {
		nt := f.AttachNewCond(from, t.Low, t.High, t.Cond.Space)
		for _, ca := range t.Cond.Conds {
			nt.Cond.Insert(&CondAp{CondVals: ca.CondVals, Data: ca.Data.Clone()})
		}
		linkTargets(nt)
		return
	}
	nt := f.AttachNewTrans(from, t.Low, t.High, t.Plain.Target)
	nt.Plain = t.Plain.Clone()
	nt.Plain.Target = t.Plain.Target
	unlinkTargets(nt)
	linkTargets(nt)
}
