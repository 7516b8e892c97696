package ops

import (
	"testing"

	"github.com/gorelex/fsm/construct"
	"github.com/gorelex/fsm/graph"
	"github.com/gorelex/fsm/key"
	"github.com/gorelex/fsm/minimize"
)

func testCtx() *graph.Ctx {
	return graph.NewCtx(graph.WithKeyOps(key.Unsigned8()), graph.WithMinimizeLevel(graph.MinimizeStable))
}

func chars(s string) []key.Key {
	out := make([]key.Key, len(s))
	for i := range s {
		out[i] = key.Key(s[i])
	}
	return out
}

// accepts walks a plain DFA over s. Every graph built in this file's
// tests is either already a DFA (construct.* outputs) or has just been
// run through minimize.Run, so this is enough to decide acceptance.
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

// sampleStrings is the fixed probe set every algebraic-law test checks
// language equivalence against: short enough to cover boundary lengths
// (empty, 1, 2, 3) without an exponential blowup.
var sampleStrings = []string{
	"", "a", "b", "c", "ab", "ac", "ba", "bc", "abc", "aab", "abb", "aaa",
}

func languageEqual(t *testing.T, a, b *graph.Fsm) {
	t.Helper()
	for _, s := range sampleStrings {
		if accepts(a, s) != accepts(b, s) {
			t.Errorf("acceptance of %q differs: a=%v b=%v", s, accepts(a, s), accepts(b, s))
		}
	}
}

func abFsm(ctx *graph.Ctx) *graph.Fsm { return construct.ConcatFsmN(ctx, chars("ab")) }
func acFsm(ctx *graph.Ctx) *graph.Fsm { return construct.ConcatFsmN(ctx, chars("ac")) }

func TestUnionSelfIdempotent(t *testing.T) {
	ctx := testCtx()
	a := abFsm(ctx)
	ref := abFsm(ctx)
	dup := abFsm(ctx)
	if err := UnionOp(a, dup, 0); err != nil {
		t.Fatalf("UnionOp: %v", err)
	}
	minimize.Run(a)
	minimize.Run(ref)
	languageEqual(t, a, ref)
}

func TestIntersectSelfIdempotent(t *testing.T) {
	ctx := testCtx()
	a := abFsm(ctx)
	ref := abFsm(ctx)
	dup := abFsm(ctx)
	if err := IntersectOp(a, dup, 0); err != nil {
		t.Fatalf("IntersectOp: %v", err)
	}
	minimize.Run(a)
	minimize.Run(ref)
	languageEqual(t, a, ref)
}

func TestSubtractSelfIsEmpty(t *testing.T) {
	ctx := testCtx()
	a := abFsm(ctx)
	dup := abFsm(ctx)
	if err := SubtractOp(a, dup, 0); err != nil {
		t.Fatalf("SubtractOp: %v", err)
	}
	for _, s := range sampleStrings {
		if accepts(a, s) {
			t.Errorf("subtract(A,A) accepted %q, want empty language", s)
		}
	}
}

func TestConcatWithLambdaIsIdentity(t *testing.T) {
	ctx := testCtx()
	a := abFsm(ctx)
	ref := abFsm(ctx)
	lambda := construct.LambdaFsm(ctx)
	if err := ConcatOp(a, lambda); err != nil {
		t.Fatalf("ConcatOp: %v", err)
	}
	languageEqual(t, a, ref)
}

func TestStarOfStarIsStar(t *testing.T) {
	ctx := testCtx()
	digitsA, err := construct.RangeFsm(ctx, key.Key('0'), key.Key('9'))
	if err != nil {
		t.Fatalf("RangeFsm: %v", err)
	}
	digitsB, err := construct.RangeFsm(ctx, key.Key('0'), key.Key('9'))
	if err != nil {
		t.Fatalf("RangeFsm: %v", err)
	}
	if err := StarOp(digitsA, 0); err != nil {
		t.Fatalf("StarOp: %v", err)
	}
	if err := StarOp(digitsB, 0); err != nil {
		t.Fatalf("StarOp: %v", err)
	}
	if err := StarOp(digitsA, 0); err != nil {
		t.Fatalf("second StarOp: %v", err)
	}
	for _, s := range []string{"", "0", "9", "123", "999999", "5a"} {
		if accepts(digitsA, s) != accepts(digitsB, s) {
			t.Errorf("acceptance of %q differs between star(star(A)) and star(A)", s)
		}
	}
}

func TestDigitStarScenario(t *testing.T) {
	ctx := testCtx()
	f, err := construct.RangeFsm(ctx, key.Key('0'), key.Key('9'))
	if err != nil {
		t.Fatalf("RangeFsm: %v", err)
	}
	if err := StarOp(f, 0); err != nil {
		t.Fatalf("StarOp: %v", err)
	}
	if len(f.States) != 2 {
		t.Fatalf("expected 2 states, got %d", len(f.States))
	}
	if !f.IsFinal(f.Start) {
		t.Fatal("expected the start state to be final")
	}
	for _, s := range []string{"", "0", "9", "5", "00", "059", "999999"} {
		if !accepts(f, s) {
			t.Errorf("expected %q to be accepted", s)
		}
	}
	for _, s := range []string{"a", "0a", "5a9"} {
		if accepts(f, s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}

	// The start state's own out-list is untouched by the splice (spec.md
	// §6: "the start state itself is left untouched"); the self-loop
	// lands on the state the splice was performed against instead.
	if len(f.Start.Out) != 1 {
		t.Fatalf("expected the start state to keep its single original transition, got %d", len(f.Start.Out))
	}
	next := f.Start.Out[0]
	if next.Low != key.Key('0') || next.High != key.Key('9') || next.Plain.Target == f.Start {
		t.Fatalf("expected the start state's transition to lead away to a distinct state, got [%v,%v] -> %v", next.Low, next.High, next.Plain.Target)
	}
	loopState := next.Plain.Target
	if !f.IsFinal(loopState) {
		t.Fatal("expected the spliced-into state to remain final")
	}
	if len(loopState.Out) != 1 {
		t.Fatalf("expected exactly one self-loop out of the spliced-into state, got %d", len(loopState.Out))
	}
	loop := loopState.Out[0]
	if loop.Low != key.Key('0') || loop.High != key.Key('9') || loop.Plain.Target != loopState {
		t.Fatalf("expected a self-loop over [0x30,0x39], got [%v,%v] -> %v", loop.Low, loop.High, loop.Plain.Target)
	}
}

func TestRepeatZeroIsLambda(t *testing.T) {
	ctx := testCtx()
	f := abFsm(ctx)
	if err := RepeatOp(f, 0, 0); err != nil {
		t.Fatalf("RepeatOp(0): %v", err)
	}
	lambda := construct.LambdaFsm(ctx)
	languageEqual(t, f, lambda)
}

func TestRepeatNMatchesConcatOfNCopies(t *testing.T) {
	ctx := testCtx()
	f := abFsm(ctx)
	if err := RepeatOp(f, 3, 0); err != nil {
		t.Fatalf("RepeatOp(3): %v", err)
	}
	if !accepts(f, "ababab") {
		t.Fatal("expected \"ababab\" to be accepted")
	}
	for _, s := range []string{"", "ab", "abab", "abababab"} {
		if accepts(f, s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestRepeatNegativeRaisesRepetitionError(t *testing.T) {
	ctx := testCtx()
	f := abFsm(ctx)
	if err := RepeatOp(f, -1, 0); err == nil {
		t.Fatal("expected an error for a negative repeat count")
	}
}

func TestOptionalRepeatRange(t *testing.T) {
	ctx := testCtx()
	f := abFsm(ctx)
	if err := OptionalRepeatOp(f, 1, 2, 0); err != nil {
		t.Fatalf("OptionalRepeatOp: %v", err)
	}
	for _, s := range []string{"ab", "abab"} {
		if !accepts(f, s) {
			t.Errorf("expected %q to be accepted", s)
		}
	}
	for _, s := range []string{"", "ababab"} {
		if accepts(f, s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestOptionalRepeatInvalidBounds(t *testing.T) {
	ctx := testCtx()
	f := abFsm(ctx)
	if err := OptionalRepeatOp(f, 2, 1, 0); err == nil {
		t.Fatal("expected an error when hi < lo")
	}
}

func TestCaseInsensitiveConcatUnionScenario(t *testing.T) {
	ctx := testCtx()
	a, err := construct.ConcatFsmCI(ctx, chars("ab"))
	if err != nil {
		t.Fatalf("ConcatFsmCI: %v", err)
	}
	b, err := construct.ConcatFsmCI(ctx, chars("ac"))
	if err != nil {
		t.Fatalf("ConcatFsmCI: %v", err)
	}
	if err := UnionOp(a, b, 0); err != nil {
		t.Fatalf("UnionOp: %v", err)
	}
	minimize.Run(a)
	if len(a.States) != 4 {
		t.Fatalf("expected 4 states, got %d", len(a.States))
	}
	for _, s := range []string{"ab", "aB", "Ab", "AB", "ac", "aC", "Ac", "AC"} {
		if !accepts(a, s) {
			t.Errorf("expected %q to be accepted", s)
		}
	}
	for _, s := range []string{"", "a", "abc", "ba", "bc"} {
		if accepts(a, s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestLetterUnionApproximateScenario(t *testing.T) {
	ctx := graph.NewCtx(graph.WithKeyOps(key.Unsigned8()), graph.WithMinimizeLevel(graph.MinimizeApproximate))
	lower, err := construct.RangeFsm(ctx, key.Key('a'), key.Key('z'))
	if err != nil {
		t.Fatalf("RangeFsm: %v", err)
	}
	upper, err := construct.RangeFsm(ctx, key.Key('A'), key.Key('Z'))
	if err != nil {
		t.Fatalf("RangeFsm: %v", err)
	}
	if err := UnionOp(lower, upper, 0); err != nil {
		t.Fatalf("UnionOp: %v", err)
	}
	minimize.Run(lower)
	if len(lower.States) != 2 {
		t.Fatalf("expected 2 states, got %d", len(lower.States))
	}
	for _, s := range []string{"a", "z", "A", "Z", "m", "M"} {
		if !accepts(lower, s) {
			t.Errorf("expected %q to be accepted", s)
		}
	}
	for _, s := range []string{"", "0", "aa"} {
		if accepts(lower, s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestDisjointIntersectIsEmpty(t *testing.T) {
	ctx := testCtx()
	a := abFsm(ctx)
	b := acFsm(ctx)
	if err := IntersectOp(a, b, 0); err != nil {
		t.Fatalf("IntersectOp: %v", err)
	}
	a.RemoveDeadEndStates()
	for _, s := range a.States {
		if a.IsFinal(s) {
			t.Fatal("expected no final state reachable from start")
		}
	}
}

func TestSelfSubtractThenPrune(t *testing.T) {
	ctx := testCtx()
	m, err := construct.RangeFsm(ctx, key.Key('a'), key.Key('z'))
	if err != nil {
		t.Fatalf("RangeFsm: %v", err)
	}
	other, err := construct.RangeFsm(ctx, key.Key('a'), key.Key('z'))
	if err != nil {
		t.Fatalf("RangeFsm: %v", err)
	}
	if err := SubtractOp(m, other, 0); err != nil {
		t.Fatalf("SubtractOp: %v", err)
	}
	m.RemoveDeadEndStates()
	m.RemoveUnreachableStates()
	if len(m.States) > 1 {
		t.Fatalf("expected at most one state, got %d", len(m.States))
	}
	for _, s := range m.States {
		if m.IsFinal(s) {
			t.Fatal("expected the surviving state to be non-final")
		}
	}
}
