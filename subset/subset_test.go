package subset

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/gorelex/fsm/action"
	"github.com/gorelex/fsm/fsmerr"
	"github.com/gorelex/fsm/graph"
	"github.com/gorelex/fsm/key"
)

func testCtx(opts ...graph.CtxOption) *graph.Ctx {
	return graph.NewCtx(append([]graph.CtxOption{graph.WithKeyOps(key.Unsigned8())}, opts...)...)
}

func accepts(f *graph.Fsm, s string) bool {
	cur := f.Start
	if cur == nil {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := key.Key(s[i])
		var next *graph.State
		for _, t := range cur.Out {
			if t.IsConditional() {
				continue
			}
			if t.Low <= c && c <= t.High {
				next = t.Plain.Target
				break
			}
		}
		if next == nil {
			return false
		}
		cur = next
	}
	return f.IsFinal(cur)
}

// buildBranchingNfa returns an NFA whose start epsilon-branches to two
// states, each accepting a single symbol into a shared final state:
// language {"a", "b"}.
func buildBranchingNfa(ctx *graph.Ctx) *graph.Fsm {
	f := graph.New(ctx)
	start := f.AddState()
	f.SetStartState(start)
	branchA := f.AddState()
	branchB := f.AddState()
	final := f.AddState()
	f.SetFinState(final)

	f.SetEntry(1, branchA)
	f.SetEntry(2, branchB)
	start.EpsilonTrans(1)
	start.EpsilonTrans(2)
	f.ResolveEpsilonTrans()

	f.AttachNewTrans(branchA, 'a', 'a', final)
	f.AttachNewTrans(branchB, 'b', 'b', final)
	return f
}

func TestFillInStatesDeterminizesBranchingNfa(t *testing.T) {
	ctx := testCtx()
	nfa := buildBranchingNfa(ctx)

	dfa, err := FillInStates(nfa, 0)
	if err != nil {
		t.Fatalf("FillInStates: %v", err)
	}
	for _, s := range []string{"a", "b"} {
		if !accepts(dfa, s) {
			t.Errorf("expected %q to be accepted", s)
		}
	}
	for _, s := range []string{"", "c", "aa", "ab"} {
		if accepts(dfa, s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestFillInStatesEmptyStartYieldsEmptyGraph(t *testing.T) {
	ctx := testCtx()
	nfa := graph.New(ctx)
	dfa, err := FillInStates(nfa, 0)
	if err != nil {
		t.Fatalf("FillInStates: %v", err)
	}
	if dfa.Start != nil || len(dfa.States) != 0 {
		t.Fatalf("expected an empty destination graph, got %+v", dfa)
	}
}

func TestFillInStatesTooManyStates(t *testing.T) {
	ctx := testCtx(graph.WithStateLimit(1))
	nfa := buildBranchingNfa(ctx)

	_, err := FillInStates(nfa, 0)
	var tooMany *fsmerr.TooManyStates
	if !errors.As(err, &tooMany) {
		t.Fatalf("expected *fsmerr.TooManyStates, got %v", err)
	}
}

// buildGuardedNfa returns an NFA whose start epsilon-branches to two
// states, each carrying a distinct single-guard condition on the same
// input symbol: determinizing must fold both conditional transitions
// onto their union space (spec.md §8 scenario 5).
func buildGuardedNfa(ctx *graph.Ctx, costID int) (*graph.Fsm, error) {
	f := graph.New(ctx)
	start := f.AddState()
	f.SetStartState(start)
	branchA := f.AddState()
	branchB := f.AddState()
	final := f.AddState()
	f.SetFinState(final)

	f.SetEntry(1, branchA)
	f.SetEntry(2, branchB)
	start.EpsilonTrans(1)
	start.EpsilonTrans(2)
	f.ResolveEpsilonTrans()

	f.AttachNewTrans(branchA, 'x', 'x', final)
	f.AttachNewTrans(branchB, 'x', 'x', final)

	guardA := action.CondID(0)
	guardB := action.CondID(1)
	if err := f.EmbedCondition(branchA, guardA, true); err != nil {
		return nil, err
	}
	if err := f.FuseOutCond(branchA, costID); err != nil {
		return nil, err
	}
	if err := f.EmbedCondition(branchB, guardB, true); err != nil {
		return nil, err
	}
	if err := f.FuseOutCond(branchB, costID); err != nil {
		return nil, err
	}
	return f, nil
}

func TestFillInStatesCondCostTooHigh(t *testing.T) {
	// Budget 3 admits buildGuardedNfa's own single-guard expansions (cost
	// 2 each) but not FillInStates's fold of two 2-branch lists onto the
	// two-guard union space (cost 4).
	ctx := testCtx(graph.WithCondCostBudget(3))
	nfa, err := buildGuardedNfa(ctx, 0)
	if err != nil {
		t.Fatalf("buildGuardedNfa: %v", err)
	}
	_, err = FillInStates(nfa, 0)
	var tooHigh *fsmerr.CondCostTooHigh
	if !errors.As(err, &tooHigh) {
		t.Fatalf("expected *fsmerr.CondCostTooHigh, got %v", err)
	}
}

func TestFillInStatesRespectsBudgetWhenAmple(t *testing.T) {
	ctx := testCtx(graph.WithCondCostBudget(1000))
	nfa, err := buildGuardedNfa(ctx, 0)
	if err != nil {
		t.Fatalf("buildGuardedNfa: %v", err)
	}
	if _, err := FillInStates(nfa, 0); err != nil {
		t.Fatalf("expected success under an ample budget, got %v", err)
	}
}

func TestFillInStatesLoggerHookFires(t *testing.T) {
	ctx := testCtx()
	nfa := buildBranchingNfa(ctx)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := FillInStates(nfa, 0, WithLogger(logger)); err != nil {
		t.Fatalf("FillInStates: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected the logger hook to emit at least one record")
	}
}

func TestFillInStatesNilLoggerIsSilent(t *testing.T) {
	ctx := testCtx()
	nfa := buildBranchingNfa(ctx)
	if _, err := FillInStates(nfa, 0, WithLogger(nil)); err != nil {
		t.Fatalf("FillInStates with a nil logger: %v", err)
	}
}
