// Package prior implements the priority system used to resolve ambiguity
// during subset construction: a shared descriptor carrying a partition
// key, a priority value and an optional guard id, and the ordered table
// of descriptors attached to a transition. Grounded on the teacher's
// tokenmodel/petri guard-and-invariant bookkeeping style (shared,
// immutable descriptors referenced by id from many sites).
package prior

import (
	"sort"

	"github.com/gorelex/fsm/action"
	"github.com/gorelex/fsm/fsmerr"
)

// Key partitions priorities: two priorities on the same transition only
// compete with each other if they share a Key.
type Key int

// Value is the priority level within a partition; higher wins.
type Value int

// GuardID names the guard action, if any, this priority is conditioned on.
type GuardID int

// NoGuard marks a priority with no guard.
const NoGuard GuardID = -1

// Desc is a shared priority descriptor. Descriptors outlive any single
// graph (spec.md §3, "Priority descriptors outlive graphs").
type Desc struct {
	Key        Key
	Priority   Value
	GuardID    GuardID
	Reciprocal *Desc // linked guard-pair partner, if any
}

type entry struct {
	Ordering action.Ordering
	Desc     *Desc
}

// Table is an ordered set of (ordering, desc) pairs on a transition.
type Table struct {
	entries []entry
}

// NewTable creates an empty priority table.
func NewTable() *Table { return &Table{} }

// SetPrior inserts (ordering, desc). If an entry with the same desc.Key
// already exists, the higher-priority entry wins; ties are broken by the
// lower ordering, for determinism (spec.md §4.2).
func (t *Table) SetPrior(ordering action.Ordering, desc *Desc) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.Desc.Key != desc.Key {
			continue
		}
		switch {
		case desc.Priority > e.Desc.Priority:
			*e = entry{ordering, desc}
		case desc.Priority == e.Desc.Priority && ordering < e.Ordering:
			*e = entry{ordering, desc}
		}
		return
	}
	t.entries = append(t.entries, entry{ordering, desc})
}

// SetPriors unions other into t, applying the §4.2 merge rule. Two
// priorities with the same Key but equal Priority values contributed by
// distinct descriptors is unresolvable ambiguity and is surfaced as
// PriorInteraction rather than silently broken by ordering: this only
// happens when merging two independently-built machines (e.g. during
// unionOp), not during ordinary single-table construction.
func (t *Table) SetPriors(other *Table) error {
	if other == nil {
		return nil
	}
	for _, e := range other.entries {
		if err := t.mergeOne(e.Ordering, e.Desc); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) mergeOne(ordering action.Ordering, desc *Desc) error {
	for i := range t.entries {
		e := &t.entries[i]
		if e.Desc.Key != desc.Key {
			continue
		}
		if e.Desc == desc {
			return nil // identical descriptor already present
		}
		switch {
		case desc.Priority > e.Desc.Priority:
			*e = entry{ordering, desc}
		case e.Desc.Priority > desc.Priority:
			// existing wins, no-op
		default:
			return &fsmerr.PriorInteraction{Key: int(desc.Key)}
		}
		return nil
	}
	t.entries = append(t.entries, entry{ordering, desc})
	return nil
}

// Len reports the number of entries.
func (t *Table) Len() int { return len(t.entries) }

// Empty reports whether the table has no entries.
func (t *Table) Empty() bool { return len(t.entries) == 0 }

// Sorted returns entries ordered by ordering, for deterministic display
// and comparison.
func (t *Table) Sorted() []struct {
	Ordering action.Ordering
	Desc     *Desc
} {
	out := make([]struct {
		Ordering action.Ordering
		Desc     *Desc
	}, len(t.entries))
	for i, e := range t.entries {
		out[i] = struct {
			Ordering action.Ordering
			Desc     *Desc
		}{e.Ordering, e.Desc}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordering < out[j].Ordering })
	return out
}

// Equal reports structural equality by descriptor identity (see
// DESIGN.md's Open Question resolution: comparison is by descriptor
// pointer identity, not by (key, value) pair).
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return (t == nil || t.Empty()) && (other == nil || other.Empty())
	}
	if t.Len() != other.Len() {
		return false
	}
	a, b := t.Sorted(), other.Sorted()
	for i := range a {
		if a[i].Ordering != b[i].Ordering || a[i].Desc != b[i].Desc {
			return false
		}
	}
	return true
}

// Clone returns a shallow copy of t.
func (t *Table) Clone() *Table {
	out := NewTable()
	out.entries = append(out.entries, t.entries...)
	return out
}

// WinnerFor returns the surviving descriptor for a given key, if any.
func (t *Table) WinnerFor(k Key) (*Desc, bool) {
	for _, e := range t.entries {
		if e.Desc.Key == k {
			return e.Desc, true
		}
	}
	return nil, false
}
