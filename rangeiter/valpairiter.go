package rangeiter

import "github.com/gorelex/fsm/cond"

// ValKind labels one event in a ValPairIter merge stream.
type ValKind int

const (
	// ValOnlyS1 is a value present only in the first list.
	ValOnlyS1 ValKind = iota
	// ValOnlyS2 is a value present only in the second list.
	ValOnlyS2
	// ValBoth is a value present in both lists.
	ValBoth
)

// ValItem is one entry of a cond-list: a single condVals key with an
// arbitrary payload (typically a *graph.CondAp).
type ValItem[T any] struct {
	Key     cond.CondVals
	Payload T
}

// ValEvent is one step of a ValPairIter merge stream.
type ValEvent[T any] struct {
	Kind   ValKind
	S1, S2 ValItem[T]
}

// ValPairIter performs the single-key merge walk spec.md §4.4 describes
// as ValPairIter's companion role: the same sorted two-list merge as
// Iter, but over discrete keys instead of ranges, so there is never a
// split state to carry across a yield.
type ValPairIter[T any] struct {
	s1, s2 []ValItem[T]
	i1, i2 int
}

// NewVal builds a value-pair iterator over s1 and s2, both already
// sorted ascending by Key.
func NewVal[T any](s1, s2 []ValItem[T]) *ValPairIter[T] {
	return &ValPairIter[T]{s1: s1, s2: s2}
}

// Next advances the merge and returns the next event, or ok == false
// once both lists are exhausted.
func (it *ValPairIter[T]) Next() (ValEvent[T], bool) {
	aok := it.i1 < len(it.s1)
	bok := it.i2 < len(it.s2)
	switch {
	case !aok && !bok:
		return ValEvent[T]{}, false
	case !aok:
		ev := ValEvent[T]{Kind: ValOnlyS2, S2: it.s2[it.i2]}
		it.i2++
		return ev, true
	case !bok:
		ev := ValEvent[T]{Kind: ValOnlyS1, S1: it.s1[it.i1]}
		it.i1++
		return ev, true
	}
	a, b := it.s1[it.i1], it.s2[it.i2]
	switch {
	case a.Key < b.Key:
		it.i1++
		return ValEvent[T]{Kind: ValOnlyS1, S1: a}, true
	case b.Key < a.Key:
		it.i2++
		return ValEvent[T]{Kind: ValOnlyS2, S2: b}, true
	default:
		it.i1++
		it.i2++
		return ValEvent[T]{Kind: ValBoth, S1: a, S2: b}, true
	}
}
