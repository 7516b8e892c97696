package construct

import (
	"errors"
	"testing"

	"github.com/gorelex/fsm/fsmerr"
	"github.com/gorelex/fsm/graph"
	"github.com/gorelex/fsm/key"
)

func testCtx() *graph.Ctx {
	return graph.NewCtx(graph.WithKeyOps(key.Unsigned8()))
}

// accepts walks a plain (non-conditional) DFA over s, following the
// unique out-transition covering each byte. Every graph built by this
// package's constructors is plain, so this is enough to check them.
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

func TestEmptyFsm(t *testing.T) {
	f := EmptyFsm(testCtx())
	if accepts(f, "") || accepts(f, "a") {
		t.Fatal("EmptyFsm must accept nothing")
	}
}

func TestLambdaFsm(t *testing.T) {
	f := LambdaFsm(testCtx())
	if !accepts(f, "") {
		t.Fatal("LambdaFsm must accept the empty string")
	}
	if accepts(f, "a") {
		t.Fatal("LambdaFsm must accept nothing else")
	}
}

func TestRangeFsm(t *testing.T) {
	cases := []struct {
		s     string
		match bool
	}{
		{"0", true}, {"9", true}, {"5", true},
		{"", false}, {"a", false}, {"00", false},
	}
	f, err := RangeFsm(testCtx(), key.Key('0'), key.Key('9'))
	if err != nil {
		t.Fatalf("RangeFsm: %v", err)
	}
	for _, c := range cases {
		if got := accepts(f, c.s); got != c.match {
			t.Errorf("accepts(%q) = %v, want %v", c.s, got, c.match)
		}
	}
}

func TestRangeFsmInverted(t *testing.T) {
	_, err := RangeFsm(testCtx(), key.Key('9'), key.Key('0'))
	var densityErr *fsmerr.TransDensity
	if !errors.As(err, &densityErr) {
		t.Fatalf("expected *fsmerr.TransDensity, got %v", err)
	}
}

func TestRangeStarFsm(t *testing.T) {
	f, err := RangeStarFsm(testCtx(), key.Key('0'), key.Key('9'))
	if err != nil {
		t.Fatalf("RangeStarFsm: %v", err)
	}
	if len(f.States) != 2 {
		t.Fatalf("expected 2 states, got %d", len(f.States))
	}
	for _, s := range []string{"", "0", "12345", "999"} {
		if !accepts(f, s) {
			t.Errorf("expected %q to be accepted", s)
		}
	}
	if accepts(f, "12a") {
		t.Fatal("expected \"12a\" to be rejected")
	}
}

func chars(s string) []key.Key {
	out := make([]key.Key, len(s))
	for i := range s {
		out[i] = key.Key(s[i])
	}
	return out
}

func TestConcatFsmN(t *testing.T) {
	f := ConcatFsmN(testCtx(), chars("ab"))
	if !accepts(f, "ab") {
		t.Fatal("expected \"ab\" to be accepted")
	}
	for _, s := range []string{"", "a", "abc", "ba"} {
		if accepts(f, s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestConcatFsmNEmpty(t *testing.T) {
	f := ConcatFsmN(testCtx(), nil)
	if !accepts(f, "") {
		t.Fatal("ConcatFsmN(nil) must behave like LambdaFsm")
	}
}

func TestConcatFsmCI(t *testing.T) {
	f, err := ConcatFsmCI(testCtx(), chars("ab"))
	if err != nil {
		t.Fatalf("ConcatFsmCI: %v", err)
	}
	for _, s := range []string{"ab", "aB", "Ab", "AB"} {
		if !accepts(f, s) {
			t.Errorf("expected %q to be accepted", s)
		}
	}
	for _, s := range []string{"ac", "", "abc"} {
		if accepts(f, s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestConcatFsmCINonLetter(t *testing.T) {
	f, err := ConcatFsmCI(testCtx(), chars("a1"))
	if err != nil {
		t.Fatalf("ConcatFsmCI: %v", err)
	}
	if !accepts(f, "a1") || !accepts(f, "A1") {
		t.Fatal("expected both letter cases to be accepted around a non-letter")
	}
}
