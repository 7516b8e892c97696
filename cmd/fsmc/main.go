// Command fsmc drives the FSM algebra core through spec.md §8's worked
// scenarios end to end, one graph.Ctx per scenario, logging each stage
// transition. Grounded on the teacher's cmd/pflow main.go shape: flag
// parsing into a small options struct, one slog.Logger built once at
// startup, and business logic factored into a run function returning
// error so main itself only handles the exit path.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gorelex/fsm/construct"
	"github.com/gorelex/fsm/graph"
	"github.com/gorelex/fsm/key"
	"github.com/gorelex/fsm/minimize"
	"github.com/gorelex/fsm/ops"
	"github.com/gorelex/fsm/subset"
)

type options struct {
	verbose bool
}

func main() {
	var opts options
	flag.BoolVar(&opts.verbose, "v", false, "log subset-construction worklist progress at debug level")
	flag.Parse()

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, opts); err != nil {
		logger.Error("scenario failed", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, opts options) error {
	scenarios := []struct {
		name string
		fn   func(*slog.Logger) error
	}{
		{"case-insensitive-concat-union", scenarioCaseInsensitiveUnion},
		{"digit-star", scenarioDigitStar},
		{"letter-union-approximate", scenarioLetterUnionApproximate},
		{"disjoint-intersect", scenarioDisjointIntersect},
		{"nfa-group-subset", scenarioNfaGroupSubset},
		{"self-subtract", scenarioSelfSubtract},
	}
	for _, sc := range scenarios {
		logger.Info("scenario start", "name", sc.name)
		if err := sc.fn(logger); err != nil {
			return fmt.Errorf("%s: %w", sc.name, err)
		}
		logger.Info("scenario done", "name", sc.name)
	}
	return nil
}

func newCtx() *graph.Ctx {
	return graph.NewCtx(graph.WithKeyOps(key.Unsigned8()), graph.WithMinimizeLevel(graph.MinimizeStable))
}

func chars(s string) []key.Key {
	out := make([]key.Key, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = key.Key(s[i])
	}
	return out
}

// scenarioCaseInsensitiveUnion is spec.md §8 scenario 1: concatFsmCI("ab")
// unioned with concatFsmCI("ac"), minimized stable, expected to collapse
// to 4 states.
func scenarioCaseInsensitiveUnion(logger *slog.Logger) error {
	ctx := newCtx()
	a, err := construct.ConcatFsmCI(ctx, chars("ab"))
	if err != nil {
		return err
	}
	b, err := construct.ConcatFsmCI(ctx, chars("ac"))
	if err != nil {
		return err
	}
	if err := ops.UnionOp(a, b, 0); err != nil {
		return err
	}
	minimize.Run(a)
	logger.Info("result", "states", len(a.States))
	if len(a.States) != 4 {
		return fmt.Errorf("expected 4 states, got %d", len(a.States))
	}
	return nil
}

// scenarioDigitStar is spec.md §8 scenario 2: rangeFsm('0','9') then
// starOp, expected exactly 2 states with a single self-loop.
func scenarioDigitStar(logger *slog.Logger) error {
	ctx := newCtx()
	f, err := construct.RangeFsm(ctx, key.Key('0'), key.Key('9'))
	if err != nil {
		return err
	}
	if err := ops.StarOp(f, 0); err != nil {
		return err
	}
	logger.Info("result", "states", len(f.States), "final", f.IsFinal(f.Start))
	if len(f.States) != 2 || !f.IsFinal(f.Start) {
		return fmt.Errorf("expected 2 states with a final start, got %d states", len(f.States))
	}
	return nil
}

// scenarioLetterUnionApproximate is spec.md §8 scenario 3: rangeFsm('a',
// 'z') union rangeFsm('A','Z') then minimizeApproximate, expected to
// collapse to 2 states.
func scenarioLetterUnionApproximate(logger *slog.Logger) error {
	ctx := graph.NewCtx(graph.WithKeyOps(key.Unsigned8()), graph.WithMinimizeLevel(graph.MinimizeApproximate))
	lower, err := construct.RangeFsm(ctx, key.Key('a'), key.Key('z'))
	if err != nil {
		return err
	}
	upper, err := construct.RangeFsm(ctx, key.Key('A'), key.Key('Z'))
	if err != nil {
		return err
	}
	if err := ops.UnionOp(lower, upper, 0); err != nil {
		return err
	}
	minimize.Run(lower)
	logger.Info("result", "states", len(lower.States))
	if len(lower.States) != 2 {
		return fmt.Errorf("expected 2 states, got %d", len(lower.States))
	}
	return nil
}

// scenarioDisjointIntersect is spec.md §8 scenario 4: intersect of "ab"
// and "ac" has an empty language after removing dead ends.
func scenarioDisjointIntersect(logger *slog.Logger) error {
	ctx := newCtx()
	a := construct.ConcatFsmN(ctx, chars("ab"))
	b := construct.ConcatFsmN(ctx, chars("ac"))
	if err := ops.IntersectOp(a, b, 0); err != nil {
		return err
	}
	a.RemoveDeadEndStates()
	logger.Info("result", "states", len(a.States))
	for _, s := range a.States {
		if a.IsFinal(s) {
			return errors.New("expected no final state reachable from start")
		}
	}
	return nil
}

// scenarioNfaGroupSubset exercises the NFA-preserving union/repeat path
// (spec.md §4.7) followed by subset.FillInStates with the diagnostics
// hook enabled, so -v shows the determinization worklist draining.
func scenarioNfaGroupSubset(logger *slog.Logger) error {
	ctx := newCtx()
	a, err := construct.RangeFsm(ctx, key.Key('a'), key.Key('a'))
	if err != nil {
		return err
	}
	b, err := construct.RangeFsm(ctx, key.Key('b'), key.Key('b'))
	if err != nil {
		return err
	}
	nfa := construct.EmptyFsm(ctx)
	if err := ops.NfaUnionOp(nfa, []*graph.Fsm{a, b}, nil, nil); err != nil {
		return err
	}
	round := &ops.NfaRound{}
	if err := ops.NfaRepeatOp(nfa, round, nil, nil); err != nil {
		return err
	}
	dfa, err := subset.FillInStates(nfa, 0, subset.WithLogger(logger))
	if err != nil {
		return err
	}
	minimize.Run(dfa)
	logger.Info("result", "states", len(dfa.States))
	return nil
}

// scenarioSelfSubtract is spec.md §8 scenario 6: subtract(M,M) followed
// by removeDeadEndStates/removeUnreachableStates leaves at most one
// non-final state.
func scenarioSelfSubtract(logger *slog.Logger) error {
	ctx := newCtx()
	m, err := construct.RangeFsm(ctx, key.Key('a'), key.Key('z'))
	if err != nil {
		return err
	}
	other, err := construct.RangeFsm(ctx, key.Key('a'), key.Key('z'))
	if err != nil {
		return err
	}
	if err := ops.SubtractOp(m, other, 0); err != nil {
		return err
	}
	m.RemoveDeadEndStates()
	m.RemoveUnreachableStates()
	logger.Info("result", "states", len(m.States))
	if len(m.States) > 1 {
		return fmt.Errorf("expected at most one state, got %d", len(m.States))
	}
	for _, s := range m.States {
		if m.IsFinal(s) {
			return errors.New("expected the surviving state to be non-final")
		}
	}
	return nil
}
