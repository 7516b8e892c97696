// Package rangeiter implements the range-pair and value-pair coroutine
// iterators that every binary graph operator is built from (spec.md
// §4.4): given two sorted, disjoint-range lists, walk them in lockstep
// and report a stream of overlap/disjoint/split events.
//
// The original expresses this as a hand-rolled coroutine using
// label-and-goto re-entry. Per spec.md §9's "Coroutine iterator" design
// note, this is instead an explicit resumable state machine: Iter holds
// its cursor position and any pending split halves between calls to
// Next, exactly the state a goto-based coroutine would keep live across
// a yield. No recursion is involved, so the per-segment split slots
// described in §4.4 survive across an arbitrary number of yields without
// growing a call stack.
package rangeiter

import "github.com/gorelex/fsm/key"

// Kind labels one event in the range-pair merge stream.
type Kind int

const (
	// RangeInS1 is a segment present only in the first list.
	RangeInS1 Kind = iota
	// RangeInS2 is a segment present only in the second list.
	RangeInS2
	// RangeOverlap is a segment present in both lists, low/high aligned.
	RangeOverlap
	// BreakS1 notifies the caller, before RangeInS1 or RangeOverlap, that
	// the first list's current range is about to be split: the caller
	// should duplicate any per-range payload so the two halves diverge
	// independently.
	BreakS1
	// BreakS2 is BreakS1's mirror for the second list.
	BreakS2
)

// Item is one range in either input list: a closed key interval
// [Low, High] carrying an arbitrary payload (typically a *graph.Trans).
type Item[T any] struct {
	Low, High key.Key
	Payload   T
}

// Event is one step of the merge stream. Only the fields relevant to
// Kind are populated: RangeInS1/BreakS1 populate S1 only, RangeInS2/
// BreakS2 populate S2 only, RangeOverlap populates both.
type Event[T any] struct {
	Kind   Kind
	S1, S2 Item[T]
}

// Iter walks two sorted, pairwise-disjoint range lists and yields the
// merge events of spec.md §4.4. It is single-pass and non-restartable.
type Iter[T any] struct {
	s1, s2  []Item[T]
	i1, i2  int
	pending []Event[T]
}

// New builds an iterator over s1 and s2. Both must already be sorted by
// Low and pairwise disjoint within each list; callers own that
// invariant (it mirrors a state's out-list, which sortOut maintains).
func New[T any](s1, s2 []Item[T]) *Iter[T] {
	return &Iter[T]{
		s1: append([]Item[T](nil), s1...),
		s2: append([]Item[T](nil), s2...),
	}
}

func (it *Iter[T]) curA() (Item[T], bool) {
	if it.i1 < len(it.s1) {
		return it.s1[it.i1], true
	}
	return Item[T]{}, false
}

func (it *Iter[T]) curB() (Item[T], bool) {
	if it.i2 < len(it.s2) {
		return it.s2[it.i2], true
	}
	return Item[T]{}, false
}

// Next advances the merge and returns the next event, or ok == false
// once both lists are exhausted.
func (it *Iter[T]) Next() (ev Event[T], ok bool) {
	if len(it.pending) > 0 {
		ev, it.pending = it.pending[0], it.pending[1:]
		return ev, true
	}
	it.step()
	if len(it.pending) == 0 {
		return Event[T]{}, false
	}
	ev, it.pending = it.pending[0], it.pending[1:]
	return ev, true
}

func (it *Iter[T]) emit(evs ...Event[T]) { it.pending = append(it.pending, evs...) }

func (it *Iter[T]) step() {
	a, aok := it.curA()
	b, bok := it.curB()
	switch {
	case !aok && !bok:
		return
	case !aok:
		it.emit(Event[T]{Kind: RangeInS2, S2: b})
		it.i2++
	case !bok:
		it.emit(Event[T]{Kind: RangeInS1, S1: a})
		it.i1++
	case a.High < b.Low:
		it.emit(Event[T]{Kind: RangeInS1, S1: a})
		it.i1++
	case b.High < a.Low:
		it.emit(Event[T]{Kind: RangeInS2, S2: b})
		it.i2++
	default:
		it.overlap(a, b)
	}
}

// overlap handles the case where a and b's ranges intersect, following
// the four sub-cases enumerated in spec.md §4.4 step 3.
func (it *Iter[T]) overlap(a, b Item[T]) {
	switch {
	case a.Low < b.Low:
		prefix := Item[T]{Low: a.Low, High: b.Low - 1, Payload: a.Payload}
		remainder := Item[T]{Low: b.Low, High: a.High, Payload: a.Payload}
		it.emit(
			Event[T]{Kind: BreakS1, S1: a},
			Event[T]{Kind: RangeInS1, S1: prefix},
		)
		it.s1[it.i1] = remainder

	case b.Low < a.Low:
		prefix := Item[T]{Low: b.Low, High: a.Low - 1, Payload: b.Payload}
		remainder := Item[T]{Low: a.Low, High: b.High, Payload: b.Payload}
		it.emit(
			Event[T]{Kind: BreakS2, S2: b},
			Event[T]{Kind: RangeInS2, S2: prefix},
		)
		it.s2[it.i2] = remainder

	case a.High < b.High:
		overlapping := Item[T]{Low: b.Low, High: a.High, Payload: b.Payload}
		remainder := Item[T]{Low: a.High + 1, High: b.High, Payload: b.Payload}
		it.emit(
			Event[T]{Kind: BreakS2, S2: b},
			Event[T]{Kind: RangeOverlap, S1: a, S2: overlapping},
		)
		it.i1++
		it.s2[it.i2] = remainder

	case b.High < a.High:
		overlapping := Item[T]{Low: a.Low, High: b.High, Payload: a.Payload}
		remainder := Item[T]{Low: b.High + 1, High: a.High, Payload: a.Payload}
		it.emit(
			Event[T]{Kind: BreakS1, S1: a},
			Event[T]{Kind: RangeOverlap, S1: overlapping, S2: b},
		)
		it.i2++
		it.s1[it.i1] = remainder

	default: // a.Low == b.Low && a.High == b.High
		it.emit(Event[T]{Kind: RangeOverlap, S1: a, S2: b})
		it.i1++
		it.i2++
	}
}
