package graph

// markReachableFromHere performs a forward DFS from s over Out
// transitions (both plain targets and every CondAp target), marking each
// visited state in seen.
func markReachableFromHere(s *State, seen map[*State]bool) {
	if seen[s] {
		return
	}
	seen[s] = true
	for _, t := range s.Out {
		for _, target := range t.Targets() {
			markReachableFromHere(target, seen)
		}
	}
	for target := range s.NfaOut {
		markReachableFromHere(target, seen)
	}
}

// markReachableFromHereReverse performs a backward DFS from s over
// in-transitions, marking each visited state in seen. Used to find
// states that can reach s (spec.md §4.10's dead-end-state pass: a state
// is dead if no path from it reaches any final state).
func markReachableFromHereReverse(s *State, seen map[*State]bool) {
	if seen[s] {
		return
	}
	seen[s] = true
	for _, t := range InTrans(s) {
		if t.From != nil {
			markReachableFromHereReverse(t.From, seen)
		}
	}
	for from := range s.NfaIn {
		markReachableFromHereReverse(from, seen)
	}
}

// RemoveUnreachableStates deletes every state not reachable from the
// start state by forward traversal (spec.md §4.10). Detaches each
// removed state's transitions first so in-lists stay consistent.
func (f *Fsm) RemoveUnreachableStates() {
	if f.Start == nil {
		return
	}
	seen := make(map[*State]bool)
	markReachableFromHere(f.Start, seen)
	f.removeStatesNotIn(seen)
}

// RemoveDeadEndStates deletes every state from which no final state is
// reachable (spec.md §4.10): such a state can never contribute to a
// successful match, no matter what input follows.
func (f *Fsm) RemoveDeadEndStates() {
	canReachFinal := make(map[*State]bool)
	for _, fin := range f.FinalStates() {
		markReachableFromHereReverse(fin, canReachFinal)
	}
	f.removeStatesNotIn(canReachFinal)
}

func (f *Fsm) removeStatesNotIn(keep map[*State]bool) {
	var doomed []*State
	for _, s := range f.States {
		if !keep[s] {
			doomed = append(doomed, s)
		}
	}
	for _, s := range doomed {
		f.detachAndRemove(s)
	}
}

func (f *Fsm) detachAndRemove(s *State) {
	for _, t := range append([]*Trans(nil), s.Out...) {
		f.DetachTrans(t)
	}
	for _, t := range append([]*Trans(nil), InTrans(s)...) {
		f.DetachTrans(t)
	}
	for target := range s.NfaOut {
		delete(target.NfaIn, s)
	}
	for from := range s.NfaIn {
		delete(from.NfaOut, s)
	}
	f.DetachState(s)
}

// RemoveMisfits detaches and discards every state on the misfit list
// (spec.md §4.10): states parked mid-construction that never became
// reachable and were never revived.
func (f *Fsm) RemoveMisfits() {
	for _, s := range append([]*State(nil), f.Misfit...) {
		f.detachAndRemove(s)
	}
	f.Misfit = nil
}
