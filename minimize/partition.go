package minimize

import "github.com/gorelex/fsm/graph"

// Partition minimizes f using partition refinement (spec.md §4.8):
// states are grouped into graph.MinPartitions by increasingly precise
// signatures until no partition can be split further, then each
// partition is fused down to a single representative state.
func Partition(f *graph.Fsm) {
	partitions := initPartitions(f)
	for {
		split := false
		var next []*graph.MinPartition
		for _, p := range partitions {
			groups := refine(p)
			if len(groups) > 1 {
				split = true
			}
			next = append(next, groups...)
		}
		for i, p := range next {
			p.Index = i
			for _, s := range p.Members {
				s.SetPartition(p)
			}
		}
		partitions = next
		if !split {
			break
		}
	}
	for _, p := range partitions {
		fuseGroup(f, p)
	}
}

// initPartitions groups states by InitPartitionCompare: finality, the
// state-level action tables and the out-list length, ignoring the
// out-lists' contents (that is what refine narrows down next).
func initPartitions(f *graph.Fsm) []*graph.MinPartition {
	var groups []*graph.MinPartition
outer:
	for _, s := range f.States {
		for _, g := range groups {
			if initCompare(f, g.Members[0], s) {
				g.Members = append(g.Members, s)
				s.SetPartition(g)
				continue outer
			}
		}
		p := &graph.MinPartition{Members: []*graph.State{s}}
		s.SetPartition(p)
		groups = append(groups, p)
	}
	for i, p := range groups {
		p.Index = i
	}
	return groups
}

func initCompare(f *graph.Fsm, a, b *graph.State) bool {
	if f.IsFinal(a) != f.IsFinal(b) {
		return false
	}
	return a.ToStateActions.Equal(b.ToStateActions) &&
		a.FromStateActions.Equal(b.FromStateActions) &&
		a.OutActions.Equal(b.OutActions) &&
		a.EOFActions.Equal(b.EOFActions) &&
		a.ErrorActions.Equal(b.ErrorActions) &&
		len(a.Out) == len(b.Out)
}

// refine splits p into one or more sub-groups by comparing each
// member's out-segment target partitions against each group's first
// member (spec.md §4.8's split rule): "if two states in the same
// partition have an out-segment whose target lies in different
// partitions, split the partition."
func refine(p *graph.MinPartition) []*graph.MinPartition {
	if len(p.Members) <= 1 {
		return []*graph.MinPartition{p}
	}
	var groups []*graph.MinPartition
outer:
	for _, s := range p.Members {
		for _, g := range groups {
			if sameOutShape(g.Members[0], s) {
				g.Members = append(g.Members, s)
				continue outer
			}
		}
		groups = append(groups, &graph.MinPartition{Members: []*graph.State{s}})
	}
	return groups
}

func sameOutShape(a, b *graph.State) bool {
	if len(a.Out) != len(b.Out) {
		return false
	}
	for i, ta := range a.Out {
		tb := b.Out[i]
		if ta.Low != tb.Low || ta.High != tb.High || ta.IsConditional() != tb.IsConditional() {
			return false
		}
		if !ta.IsConditional() {
			if partitionOf(ta.Plain.Target) != partitionOf(tb.Plain.Target) {
				return false
			}
			continue
		}
		if ta.Cond.Space != tb.Cond.Space || len(ta.Cond.Conds) != len(tb.Cond.Conds) {
			return false
		}
		for _, ca := range ta.Cond.Conds {
			cb, ok := tb.Cond.Find(ca.CondVals)
			if !ok || partitionOf(ca.Data.Target) != partitionOf(cb.Data.Target) {
				return false
			}
		}
	}
	return true
}

func partitionOf(s *graph.State) *graph.MinPartition {
	if s == nil {
		return nil
	}
	return s.Partition()
}

// fuseGroup collapses every member of p onto its first member.
func fuseGroup(f *graph.Fsm, p *graph.MinPartition) {
	if len(p.Members) <= 1 {
		return
	}
	rep := p.Members[0]
	for _, s := range p.Members[1:] {
		fuseEquivStates(f, rep, s)
	}
}
