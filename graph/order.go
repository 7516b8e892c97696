package graph

// DepthFirstOrdering renumbers every state by reverse post-order DFS
// from the start state (so the start state comes first), reassigning
// f.States to that order (SPEC_FULL.md §11):
// code generators want states laid out so that a state's most common
// successor tends to sit immediately after it, which improves branch
// locality in a generated switch/jump table the way Ragel's own
// state-ordering pass does. States unreachable from the start state are
// appended afterward, in their prior relative order, so the pass never
// silently drops a state.
func (f *Fsm) DepthFirstOrdering() {
	if f.Start == nil {
		return
	}
	visited := make(map[*State]bool, len(f.States))
	var order []*State
	var visit func(s *State)
	visit = func(s *State) {
		if visited[s] {
			return
		}
		visited[s] = true
		for _, t := range s.Out {
			for _, target := range t.Targets() {
				visit(target)
			}
		}
		order = append(order, s)
	}
	visit(f.Start)

	// order is post-order (children before parents); reverse it so the
	// start state leads.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	for _, s := range f.States {
		if !visited[s] {
			order = append(order, s)
		}
	}
	f.States = order
	f.setStateNumbers()
}

// setStateNumbers stamps each state's scratch.number with its current
// position in f.States, for use by a code generator that must refer to
// states by a small dense integer rather than by pointer identity.
func (f *Fsm) setStateNumbers() {
	for i, s := range f.States {
		s.scratch.number = i
		s.scratch.hasNumber = true
	}
}

// StateNumber returns the number last assigned to s by
// DepthFirstOrdering, and whether one has been assigned at all.
func (s *State) StateNumber() (int, bool) {
	return s.scratch.number, s.scratch.hasNumber
}
