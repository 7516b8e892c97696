package action

import "sort"

// Table is an ordered map from ordering to Action. It is ordered so that
// equivalent tables compare equal by structure (spec.md §3), used on
// transitions and on state entry/exit/EOF/error/longest-match points.
type Table struct {
	entries map[Ordering]*Action
}

// NewTable creates an empty action table.
func NewTable() *Table {
	return &Table{entries: make(map[Ordering]*Action)}
}

// SetAction inserts (ordering, act) unless ordering is already present.
// Returns false if the ordering was already occupied.
func (t *Table) SetAction(ordering Ordering, act *Action) bool {
	if _, ok := t.entries[ordering]; ok {
		return false
	}
	t.entries[ordering] = act
	return true
}

// SetActions unions other into t by ordering.
func (t *Table) SetActions(other *Table) {
	if other == nil {
		return
	}
	for ord, act := range other.entries {
		if _, ok := t.entries[ord]; !ok {
			t.entries[ord] = act
		}
	}
}

// HasAction reports whether act appears anywhere in the table, scanning
// by value rather than ordering.
func (t *Table) HasAction(act *Action) bool {
	for _, a := range t.entries {
		if a == act {
			return true
		}
	}
	return false
}

// Len reports the number of entries.
func (t *Table) Len() int { return len(t.entries) }

// Empty reports whether the table has no entries.
func (t *Table) Empty() bool { return len(t.entries) == 0 }

// pair is one (ordering, action) entry, used for deterministic iteration.
type pair struct {
	Ordering Ordering
	Action   *Action
}

// Sorted returns the table's entries sorted by ordering.
func (t *Table) Sorted() []pair {
	out := make([]pair, 0, len(t.entries))
	for ord, act := range t.entries {
		out = append(out, pair{ord, act})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordering < out[j].Ordering })
	return out
}

// Equal reports whether t and other contain the same (ordering, action)
// pairs, compared positionally after sorting by ordering (spec.md §4.2).
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other || (t.Empty() && other == nil) || (other.Empty() && t == nil)
	}
	if t.Len() != other.Len() {
		return false
	}
	a, b := t.Sorted(), other.Sorted()
	for i := range a {
		if a[i].Ordering != b[i].Ordering || a[i].Action != b[i].Action {
			return false
		}
	}
	return true
}

// Clone returns a shallow copy of t (actions are shared, never deep
// copied, per spec.md §5's "shared, immutable from the graph's view").
func (t *Table) Clone() *Table {
	out := NewTable()
	for ord, act := range t.entries {
		out.entries[ord] = act
	}
	return out
}

// Actions returns the action of every entry in the table, in ordering
// order; an action bound at several orderings appears once per ordering.
func (t *Table) Actions() []*Action {
	sorted := t.Sorted()
	out := make([]*Action, len(sorted))
	for i, p := range sorted {
		out[i] = p.Action
	}
	return out
}
