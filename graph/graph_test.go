package graph

import (
	"testing"

	"github.com/gorelex/fsm/key"
)

func testCtx() *Ctx {
	return NewCtx(WithKeyOps(key.Unsigned8()))
}

func TestVerifyIntegrityCleanGraph(t *testing.T) {
	f := New(testCtx())
	a := f.AddState()
	b := f.AddState()
	f.SetStartState(a)
	f.SetFinState(b)
	f.AttachNewTrans(a, 'x', 'x', b)
	if errs := f.VerifyIntegrity(); len(errs) != 0 {
		t.Fatalf("expected a clean graph, got %v", errs)
	}
}

func TestVerifyIntegrityUnsortedOutList(t *testing.T) {
	f := New(testCtx())
	a := f.AddState()
	b := f.AddState()
	c := f.AddState()
	f.SetStartState(a)
	// Attach in reverse order and bypass sortOut by mutating directly,
	// simulating a broken invariant a caller might introduce.
	a.Out = []*Trans{
		{Low: 20, High: 20, From: a, Plain: TransData{Target: c}},
		{Low: 10, High: 10, From: a, Plain: TransData{Target: b}},
	}
	errs := f.VerifyIntegrity()
	if len(errs) == 0 {
		t.Fatal("expected VerifyIntegrity to flag the unsorted out-list")
	}
}

func TestRemoveUnreachableStates(t *testing.T) {
	f := New(testCtx())
	start := f.AddState()
	reachable := f.AddState()
	orphan := f.AddState()
	f.SetStartState(start)
	f.AttachNewTrans(start, 'a', 'a', reachable)
	_ = orphan

	f.RemoveUnreachableStates()
	if len(f.States) != 2 {
		t.Fatalf("expected 2 states after pruning, got %d", len(f.States))
	}
	for _, s := range f.States {
		if s == orphan {
			t.Fatal("expected the orphan state to be removed")
		}
	}
}

func TestRemoveDeadEndStates(t *testing.T) {
	f := New(testCtx())
	start := f.AddState()
	deadEnd := f.AddState()
	final := f.AddState()
	f.SetStartState(start)
	f.SetFinState(final)
	f.AttachNewTrans(start, 'a', 'a', deadEnd)
	f.AttachNewTrans(start, 'b', 'b', final)

	f.RemoveDeadEndStates()
	for _, s := range f.States {
		if s == deadEnd {
			t.Fatal("expected the dead-end state to be removed")
		}
	}
}

func TestEntrySetAndUnset(t *testing.T) {
	f := New(testCtx())
	s := f.AddState()
	f.SetEntry(7, s)
	if f.Entries[7] != s || !s.EntryIDs[7] {
		t.Fatal("expected entry 7 to resolve to s")
	}
	f.UnsetEntry(7)
	if _, ok := f.Entries[7]; ok {
		t.Fatal("expected entry 7 to be removed")
	}
	if s.EntryIDs[7] {
		t.Fatal("expected s.EntryIDs[7] to be cleared")
	}
}

func TestResolveEpsilonTrans(t *testing.T) {
	f := New(testCtx())
	from := f.AddState()
	to := f.AddState()
	f.SetEntry(1, to)
	from.EpsilonTrans(1)

	f.ResolveEpsilonTrans()
	if _, ok := from.NfaOut[to]; !ok {
		t.Fatal("expected an NfaOut link from 'from' to 'to'")
	}
	if !to.NfaIn[from] {
		t.Fatal("expected an NfaIn link back from 'to' to 'from'")
	}
	if len(from.EpsilonTargets) != 0 {
		t.Fatal("expected EpsilonTargets to be cleared after resolution")
	}
}

func TestResolveEpsilonTransCycleTerminates(t *testing.T) {
	f := New(testCtx())
	a := f.AddState()
	b := f.AddState()
	f.SetEntry(1, a)
	f.SetEntry(2, b)
	a.EpsilonTrans(2)
	b.EpsilonTrans(1)

	// The assertion is that this returns at all: a naive chase of the
	// a->b->a epsilon cycle without eptVect's guard would recurse forever.
	f.ResolveEpsilonTrans()
	if _, ok := a.NfaOut[b]; !ok {
		t.Fatal("expected a->b to resolve despite the cycle")
	}
}

func TestIsolateStartState(t *testing.T) {
	f := New(testCtx())
	pre := f.AddState()
	start := f.AddState()
	f.SetStartState(start)
	f.AttachNewTrans(pre, 'a', 'a', start)

	f.IsolateStartState()
	if f.Start == start {
		t.Fatal("expected a fresh isolated start state")
	}
	if len(InTrans(f.Start)) != 0 {
		t.Fatal("expected the new start state to have no in-edges")
	}
}

func TestIsolateStartStateNoOpWhenAlreadyIsolated(t *testing.T) {
	f := New(testCtx())
	start := f.AddState()
	f.SetStartState(start)
	f.IsolateStartState()
	if f.Start != start {
		t.Fatal("expected no change when the start state already has no in-edges")
	}
}

func TestDuplicateIsIndependent(t *testing.T) {
	f := New(testCtx())
	a := f.AddState()
	b := f.AddState()
	f.SetStartState(a)
	f.SetFinState(b)
	f.AttachNewTrans(a, 'x', 'x', b)

	dup := f.Duplicate()
	if len(dup.States) != len(f.States) {
		t.Fatalf("expected %d states, got %d", len(f.States), len(dup.States))
	}
	if dup.Start == f.Start {
		t.Fatal("expected the duplicate's start state to be a distinct value")
	}
	if !dup.IsFinal(dup.Start.Out[0].Plain.Target) {
		t.Fatal("expected the duplicate's final marking to carry over")
	}
	// Mutating the copy must not affect the original.
	extra := dup.AddState()
	dup.AttachNewTrans(dup.Start.Out[0].Plain.Target, 'y', 'y', extra)
	if len(f.States) == len(dup.States) {
		t.Fatal("expected the original to be unaffected by mutating the duplicate")
	}
}

func TestDepthFirstOrderingAssignsNumbers(t *testing.T) {
	f := New(testCtx())
	a := f.AddState()
	b := f.AddState()
	f.SetStartState(a)
	f.AttachNewTrans(a, 'x', 'x', b)

	f.DepthFirstOrdering()
	na, ok := a.StateNumber()
	if !ok || na != 0 {
		t.Fatalf("expected start state numbered 0, got %d (ok=%v)", na, ok)
	}
	nb, ok := b.StateNumber()
	if !ok || nb != 1 {
		t.Fatalf("expected second state numbered 1, got %d (ok=%v)", nb, ok)
	}
}

func TestConvertToCondApAndAsCondList(t *testing.T) {
	ctx := testCtx()
	f := New(ctx)
	a := f.AddState()
	b := f.AddState()
	tr := f.AttachNewTrans(a, 'x', 'x', b)

	space, err := f.ConvertToCondAp(a)
	if err != nil {
		t.Fatalf("ConvertToCondAp: %v", err)
	}
	if !tr.IsConditional() {
		t.Fatal("expected the transition to become conditional")
	}
	if tr.Cond.Space != space {
		t.Fatal("expected the transition's space to be the returned space")
	}
	gotSpace, conds, err := AsCondList(ctx, tr)
	if err != nil {
		t.Fatalf("AsCondList: %v", err)
	}
	if gotSpace != space || len(conds) != 1 {
		t.Fatalf("unexpected AsCondList result: space=%v conds=%v", gotSpace, conds)
	}
}

func TestAsCondListPlainTransitionSynthesizesSpace(t *testing.T) {
	ctx := testCtx()
	f := New(ctx)
	a := f.AddState()
	b := f.AddState()
	tr := f.AttachNewTrans(a, 'x', 'x', b)

	space, conds, err := AsCondList(ctx, tr)
	if err != nil {
		t.Fatalf("AsCondList: %v", err)
	}
	if space.Cardinality() != 0 {
		t.Fatalf("expected a zero-cardinality plain space, got %d", space.Cardinality())
	}
	if len(conds) != 1 || conds[0].Data.Target != b {
		t.Fatalf("unexpected synthesized cond-list: %v", conds)
	}
}
