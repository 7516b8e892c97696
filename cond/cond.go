// Package cond implements the condition-space machinery that multiplexes
// a single character range over a boolean vector of guard actions. Each
// condition space of cardinality n enumerates 2^n condition-value
// vectors; a CondVals value in [0, 2^n) selects one of them. Grounded on
// the teacher's tokenmodel/guard package (compiled, interned predicate
// expressions attached to transitions) and on bits-and-blooms/bitset for
// the "selected value-bitvectors" carrier described in spec.md §4.9,
// promoted from the teacher's own indirect dependency because it has no
// use for it in the zk-proving code path.
package cond

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bitset"

	"github.com/gorelex/fsm/action"
	"github.com/gorelex/fsm/fsmerr"
)

// MaxGuards bounds the cardinality of any single condition space. Beyond
// this, a CondVals value could not be represented without risking
// overflow of the fixed-width vector index; CondCostTooHigh is raised
// before that point is ever reached (spec.md §8, "Determinizing a
// machine with a condition space of maximum depth respects
// CondCostTooHigh before overflowing").
const MaxGuards = 62

// CondVals identifies one sub-transition (CondAp) of a conditional
// transition: the boolean assignment to every guard in its condition
// space, packed one bit per guard.
type CondVals uint64

// ID identifies an interned CondSpace.
type ID int

// Space is an interned, ordered set of guard actions. Two condition
// spaces with the same guard set (by CondID, sorted) share the same Space
// value and ID.
type Space struct {
	ID  ID
	Set []action.CondID // sorted ascending, deduplicated
}

// Cardinality returns the number of guards in the space.
func (s *Space) Cardinality() int { return len(s.Set) }

// FullSize returns 2^cardinality, the number of condition-value vectors.
func (s *Space) FullSize() int { return 1 << uint(len(s.Set)) }

// IndexOf returns the bit position of guard g within the space, or -1.
func (s *Space) IndexOf(g action.CondID) int {
	for i, c := range s.Set {
		if c == g {
			return i
		}
	}
	return -1
}

// Table is the interned map of condition spaces shared by a FsmCtx. It
// outlives any single graph (spec.md §3) and is append-only: operators
// may insert new spaces but never remove one (spec.md §5).
type Table struct {
	mu     sync.Mutex
	byKey  map[string]*Space
	spaces []*Space
	next   ID
}

// NewTable creates an empty, shared condition-space table.
func NewTable() *Table {
	return &Table{byKey: make(map[string]*Space)}
}

func setKey(set []action.CondID) string {
	sorted := append([]action.CondID(nil), set...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, len(sorted))
	for i, c := range sorted {
		parts[i] = strconv.Itoa(int(c))
	}
	return strings.Join(parts, ",")
}

// AddCondSpace interns the given guard set, returning the existing space
// if an equal one was already registered, or inserting a fresh one with a
// stable id otherwise.
func (t *Table) AddCondSpace(set []action.CondID) (*Space, error) {
	if len(set) > MaxGuards {
		return nil, &fsmerr.CondCostTooHigh{CostID: len(set), Cost: 1 << uint(len(set)&63), Budget: 1 << MaxGuards}
	}

	sorted := append([]action.CondID(nil), set...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	sorted = dedupe(sorted)
	key := setKey(sorted)

	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.byKey[key]; ok {
		return existing, nil
	}
	sp := &Space{ID: t.next, Set: sorted}
	t.next++
	t.byKey[key] = sp
	t.spaces = append(t.spaces, sp)
	return sp, nil
}

func dedupe(sorted []action.CondID) []action.CondID {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, c := range sorted[1:] {
		if c != out[len(out)-1] {
			out = append(out, c)
		}
	}
	return out
}

// Union interns the space representing the union of a and b's guard sets.
func (t *Table) Union(a, b *Space) (*Space, error) {
	merged := append([]action.CondID(nil), a.Set...)
	merged = append(merged, b.Set...)
	return t.AddCondSpace(merged)
}

// VectorSet is a bitset over [0, space.FullSize()), representing a
// "selected value-bitvectors" carrier: the set of condition-value vectors
// an out-carrier or embedCondition call has pushed toward future outgoing
// transitions (spec.md §4.9).
type VectorSet struct {
	space *Space
	bits  *bitset.BitSet
}

// NewVectorSet creates an empty vector set over space.
func NewVectorSet(space *Space) *VectorSet {
	return &VectorSet{space: space, bits: bitset.New(uint(space.FullSize()))}
}

// Space returns the condition space this vector set ranges over.
func (v *VectorSet) Space() *Space { return v.space }

// Select marks condVals as selected.
func (v *VectorSet) Select(vals CondVals) { v.bits.Set(uint(vals)) }

// IsSelected reports whether condVals is selected.
func (v *VectorSet) IsSelected(vals CondVals) bool { return v.bits.Test(uint(vals)) }

// Count returns the number of selected vectors.
func (v *VectorSet) Count() uint { return v.bits.Count() }

// Clone returns a deep copy.
func (v *VectorSet) Clone() *VectorSet {
	return &VectorSet{space: v.space, bits: v.bits.Clone()}
}

// Union merges other's selected vectors into v. Both must range over the
// same space.
func (v *VectorSet) Union(other *VectorSet) {
	v.bits = v.bits.Union(other.bits)
}

// All returns every selected CondVals value, ascending.
func (v *VectorSet) All() []CondVals {
	var out []CondVals
	for i, e := v.bits.NextSet(0); e; i, e = v.bits.NextSet(i + 1) {
		out = append(out, CondVals(i))
	}
	return out
}

// String renders the guard assignment a CondVals value represents over
// space, for diagnostics only.
func (space *Space) String(vals CondVals) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, g := range space.Set {
		if i > 0 {
			sb.WriteByte(',')
		}
		bit := (vals >> uint(i)) & 1
		fmt.Fprintf(&sb, "g%d=%d", g, bit)
	}
	sb.WriteByte('}')
	return sb.String()
}
