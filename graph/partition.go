package graph

// Partition returns the MinPartition currently assigned to s by
// package minimize's partition-refinement strategy, or nil if none has
// been assigned (or a prior phase's use of scratch has not been
// cleared). Guarded by the same phase discipline as scratch's other
// fields (spec.md §3's "scratch union on state" note): valid only
// while a MinPartition pass owns the field.
func (s *State) Partition() *MinPartition { return s.scratch.partition }

// SetPartition assigns s's current MinPartition.
func (s *State) SetPartition(p *MinPartition) { s.scratch.partition = p }
