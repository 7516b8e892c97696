package graph

import "fmt"

// VerifyIntegrity checks the structural invariants spec.md §3 places on
// every graph: out-transitions sorted and pairwise disjoint by key
// range, in-list bookkeeping consistent with every state's out-list,
// and the start state (if any) actually present in the state list. It
// returns every violation found, rather than stopping at the first.
func (f *Fsm) VerifyIntegrity() []error {
	var errs []error
	inState := make(map[*State]bool, len(f.States))
	for _, s := range f.States {
		inState[s] = true
	}
	if f.Start != nil && !inState[f.Start] {
		errs = append(errs, fmt.Errorf("start state not a member of the state list"))
	}
	for _, s := range f.States {
		errs = append(errs, verifyOutSorted(s)...)
		errs = append(errs, verifyOutDisjoint(s)...)
		errs = append(errs, verifyTargetsKnown(s, inState)...)
	}
	errs = append(errs, verifyInListsConsistent(f)...)
	return errs
}

func verifyOutSorted(s *State) []error {
	var errs []error
	for i := 1; i < len(s.Out); i++ {
		if s.Out[i-1].Low > s.Out[i].Low {
			errs = append(errs, fmt.Errorf("state %d: out-list not sorted at index %d", s.ID(), i))
		}
	}
	return errs
}

func verifyOutDisjoint(s *State) []error {
	var errs []error
	for i := 1; i < len(s.Out); i++ {
		if s.Out[i-1].High >= s.Out[i].Low {
			errs = append(errs, fmt.Errorf("state %d: out-transitions %d and %d overlap", s.ID(), i-1, i))
		}
	}
	return errs
}

func verifyTargetsKnown(s *State, known map[*State]bool) []error {
	var errs []error
	for _, t := range s.Out {
		for _, target := range t.Targets() {
			if !known[target] {
				errs = append(errs, fmt.Errorf("state %d: transition targets a state outside the graph", s.ID()))
			}
		}
	}
	return errs
}

func verifyInListsConsistent(f *Fsm) []error {
	var errs []error
	expected := make(map[*State]map[*Trans]int)
	for _, s := range f.States {
		for _, t := range s.Out {
			for _, target := range t.Targets() {
				if expected[target] == nil {
					expected[target] = make(map[*Trans]int)
				}
				expected[target][t]++
			}
		}
	}
	for _, s := range f.States {
		for t, want := range expected[s] {
			if got := InTransCount(s, t); got != want {
				errs = append(errs, fmt.Errorf("state %d: in-list count %d for a transition, want %d", s.ID(), got, want))
			}
		}
	}
	return errs
}

// VerifyReachability reports every state not reachable from the start
// state by forward traversal, without mutating the graph (spec.md
// §4.10). Compare RemoveUnreachableStates, which performs the same
// analysis and then deletes the offending states.
func (f *Fsm) VerifyReachability() []*State {
	if f.Start == nil {
		return append([]*State(nil), f.States...)
	}
	seen := make(map[*State]bool)
	markReachableFromHere(f.Start, seen)
	var unreachable []*State
	for _, s := range f.States {
		if !seen[s] {
			unreachable = append(unreachable, s)
		}
	}
	return unreachable
}

// VerifyNoDeadEndStates reports every state from which no final state is
// reachable, without mutating the graph. Compare RemoveDeadEndStates.
func (f *Fsm) VerifyNoDeadEndStates() []*State {
	canReachFinal := make(map[*State]bool)
	for _, fin := range f.FinalStates() {
		markReachableFromHereReverse(fin, canReachFinal)
	}
	var deadEnds []*State
	for _, s := range f.States {
		if !canReachFinal[s] {
			deadEnds = append(deadEnds, s)
		}
	}
	return deadEnds
}
