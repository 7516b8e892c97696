package prior

import (
	"errors"
	"testing"

	"github.com/gorelex/fsm/fsmerr"
)

func TestSetPriorHigherPriorityWins(t *testing.T) {
	tbl := NewTable()
	low := &Desc{Key: 1, Priority: 1}
	high := &Desc{Key: 1, Priority: 5}
	tbl.SetPrior(0, low)
	tbl.SetPrior(1, high)
	winner, ok := tbl.WinnerFor(1)
	if !ok || winner != high {
		t.Fatalf("expected high to win, got %v (ok=%v)", winner, ok)
	}
}

func TestSetPriorTieBrokenByLowerOrdering(t *testing.T) {
	tbl := NewTable()
	first := &Desc{Key: 1, Priority: 3}
	second := &Desc{Key: 1, Priority: 3}
	tbl.SetPrior(5, first)
	tbl.SetPrior(2, second)
	winner, _ := tbl.WinnerFor(1)
	if winner != second {
		t.Fatalf("expected the lower-ordering entry to win a priority tie, got %v", winner)
	}
}

func TestSetPriorsIdenticalDescriptorIsNoop(t *testing.T) {
	shared := &Desc{Key: 1, Priority: 3}
	a := NewTable()
	a.SetPrior(0, shared)
	b := NewTable()
	b.SetPrior(0, shared)
	if err := a.SetPriors(b); err != nil {
		t.Fatalf("merging identical descriptors must not error: %v", err)
	}
	if a.Len() != 1 {
		t.Fatalf("expected 1 entry after merging an identical descriptor, got %d", a.Len())
	}
}

func TestSetPriorsEqualPriorityDistinctDescriptorsConflict(t *testing.T) {
	a := NewTable()
	a.SetPrior(0, &Desc{Key: 1, Priority: 3})
	b := NewTable()
	b.SetPrior(0, &Desc{Key: 1, Priority: 3})
	err := a.SetPriors(b)
	var conflict *fsmerr.PriorInteraction
	if !errors.As(err, &conflict) {
		t.Fatalf("expected *fsmerr.PriorInteraction, got %v", err)
	}
}

func TestSetPriorsDistinctKeysBothSurvive(t *testing.T) {
	a := NewTable()
	a.SetPrior(0, &Desc{Key: 1, Priority: 1})
	b := NewTable()
	b.SetPrior(0, &Desc{Key: 2, Priority: 1})
	if err := a.SetPriors(b); err != nil {
		t.Fatalf("SetPriors: %v", err)
	}
	if a.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", a.Len())
	}
}

func TestTableEqualByDescriptorIdentity(t *testing.T) {
	descA := &Desc{Key: 1, Priority: 1}
	descB := &Desc{Key: 1, Priority: 1}
	t1 := NewTable()
	t1.SetPrior(0, descA)
	t2 := NewTable()
	t2.SetPrior(0, descA)
	if !t1.Equal(t2) {
		t.Fatal("expected tables sharing the same descriptor to be equal")
	}
	t3 := NewTable()
	t3.SetPrior(0, descB)
	if t1.Equal(t3) {
		t.Fatal("expected tables built from structurally-identical but distinct descriptors to differ")
	}
}
