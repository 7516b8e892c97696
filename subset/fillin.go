// Package subset implements fillInStates, the subset-construction driver
// that determinizes an NFA-marked graph.Fsm into an equivalent DFA
// (spec.md §4.6). Grounded on the teacher's cache.StateCache for the
// state dictionary and on package ops's productBuilder for the
// pointwise out-list merge, generalized here from a fixed pair of
// operands to an arbitrary state set.
package subset

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/gorelex/fsm/action"
	"github.com/gorelex/fsm/fsmerr"
	"github.com/gorelex/fsm/graph"
	"github.com/gorelex/fsm/key"
	"github.com/gorelex/fsm/prior"
)

// Option configures FillInStates. Grounded on the teacher's
// functional-options constructors (e.g. petri.NewModel's ModelOption):
// zero options is a valid, fully working call.
type Option func(*builder)

// WithLogger attaches a diagnostics hook: one debug record per worklist
// item consumed, reporting the growing size of the state set being
// interned and the destination state it was assigned. A nil logger (the
// default) disables the hook entirely at negligible cost — every call
// site is guarded by b.log != nil rather than relying on slog's own
// level filtering, so a caller that never wants the hook pays nothing.
func WithLogger(logger *slog.Logger) Option {
	return func(b *builder) { b.log = logger }
}

// FillInStates determinizes nfa, returning a fresh graph sharing nfa's
// Ctx. nfa is left as-is; its states become the (untouched) source of
// truth the new graph's states are built from — callers that no longer
// need the NFA form are free to discard it.
//
// Maintains a state dictionary keyed by the closed set of NFA states
// each destination state represents (spec.md §4.6), seeded with the
// epsilon closure of nfa's start state. For each newly discovered set,
// its out-list is built by folding crossTransitions-equivalent merge
// logic leftward across every member, exactly as spec.md §4.6 describes,
// generalized from package ops's fixed two-operand pair to an arbitrary
// N-way set via an explicit breakpoint sweep instead of the two-stream
// range-pair iterator (rangeiter.Iter is specialized to exactly two
// inputs; N-way folding needs the general case).
func FillInStates(nfa *graph.Fsm, costID int, opts ...Option) (*graph.Fsm, error) {
	dest := graph.New(nfa.Ctx)
	if nfa.Start == nil {
		return dest, nil
	}
	b := &builder{ctx: nfa.Ctx, src: nfa, dest: dest, costID: costID, dict: make(map[string]*graph.State)}
	for _, opt := range opts {
		opt(b)
	}
	start, err := b.intern(closure([]*graph.State{nfa.Start}))
	if err != nil {
		return nil, err
	}
	dest.SetStartState(start)
	for len(b.worklist) > 0 {
		item := b.worklist[0]
		b.worklist = b.worklist[1:]
		if b.log != nil {
			b.log.Debug("subset worklist", "build", b.ctx.ID, "set_size", len(item.set), "dst_state", item.dst.ID(), "remaining", len(b.worklist))
		}
		if err := b.fillOut(item); err != nil {
			return nil, err
		}
	}
	return dest, nil
}

type workItem struct {
	set []*graph.State
	dst *graph.State
}

type builder struct {
	ctx      *graph.Ctx
	src      *graph.Fsm
	dest     *graph.Fsm
	costID   int
	dict     map[string]*graph.State
	worklist []workItem
	log      *slog.Logger
}

// closure returns the epsilon closure of seed under the source graph's
// NfaOut linkage, sorted by source state id for a canonical dictionary
// key (spec.md §4.7: "subsequent determinization... consumes it by the
// same fillInStates route, treating epsilon closures as set-formation").
func closure(seed []*graph.State) []*graph.State {
	seen := make(map[*graph.State]bool)
	var walk func(s *graph.State)
	walk = func(s *graph.State) {
		if seen[s] {
			return
		}
		seen[s] = true
		for t := range s.NfaOut {
			walk(t)
		}
	}
	for _, s := range seed {
		walk(s)
	}
	out := make([]*graph.State, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func setKey(set []*graph.State) string {
	var b strings.Builder
	for i, s := range set {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", s.ID())
	}
	return b.String()
}

// intern looks up or allocates the destination state for set, unioning
// finality, entry ids, longest-match items and state-level action tables
// across its members (spec.md §4.6 step 3).
func (b *builder) intern(set []*graph.State) (*graph.State, error) {
	k := setKey(set)
	if s, ok := b.dict[k]; ok {
		return s, nil
	}
	s := b.dest.AddState()
	if b.ctx.StateLimit > 0 && len(b.dest.States) > b.ctx.StateLimit {
		return nil, &fsmerr.TooManyStates{BuildID: b.ctx.ID, Limit: b.ctx.StateLimit, Count: len(b.dest.States)}
	}
	b.dict[k] = s
	var eofSources []*graph.State
	for _, m := range set {
		if b.src.IsFinal(m) {
			b.dest.SetFinState(s)
		}
		for id := range m.EntryIDs {
			b.dest.SetEntry(id, s)
		}
		s.LMItems = append(s.LMItems, m.LMItems...)
		s.ToStateActions.SetActions(m.ToStateActions)
		s.FromStateActions.SetActions(m.FromStateActions)
		s.OutActions.SetActions(m.OutActions)
		s.EOFActions.SetActions(m.EOFActions)
		s.ErrorActions.SetActions(m.ErrorActions)
		if m.EOFTarget != nil {
			eofSources = append(eofSources, m.EOFTarget)
		}
	}
	b.worklist = append(b.worklist, workItem{set: set, dst: s})
	if len(eofSources) > 0 {
		eofTarget, err := b.intern(closure(eofSources))
		if err != nil {
			return nil, err
		}
		s.EOFTarget = eofTarget
	}
	return s, nil
}

type segment struct {
	lo, hi key.Key
	trs    []*graph.Trans
}

// collectSegments splits the pooled out-transitions of a state set into
// maximal sub-ranges over which the same subset of transitions applies,
// by sweeping the sorted, deduplicated set of range boundaries every
// transition contributes (spec.md §4.4's overlap-splitting idea,
// generalized from two inputs to N).
func collectSegments(ops key.Ops, all []*graph.Trans) []segment {
	if len(all) == 0 {
		return nil
	}
	bpSet := make(map[key.Key]bool)
	for _, t := range all {
		bpSet[t.Low] = true
		if t.High != ops.Max {
			bpSet[ops.Increment(t.High)] = true
		}
	}
	bps := make([]key.Key, 0, len(bpSet))
	for k := range bpSet {
		bps = append(bps, k)
	}
	sort.Slice(bps, func(i, j int) bool { return bps[i] < bps[j] })

	var segs []segment
	for i, lo := range bps {
		hi := ops.Max
		if i+1 < len(bps) {
			hi = ops.Decrement(bps[i+1])
		}
		var covering []*graph.Trans
		for _, t := range all {
			if t.Low <= lo && hi <= t.High {
				covering = append(covering, t)
			}
		}
		if len(covering) == 0 {
			continue
		}
		segs = append(segs, segment{lo: lo, hi: hi, trs: covering})
	}
	return segs
}

// fillOut computes item.dst's out-list as the merge of every member of
// item.set's out-lists, then attaches the resulting transitions.
func (b *builder) fillOut(item workItem) error {
	var all []*graph.Trans
	for _, s := range item.set {
		all = append(all, s.Out...)
	}
	segs := collectSegments(b.ctx.KeyOps, all)
	for _, seg := range segs {
		if err := b.emitSegment(item.dst, seg); err != nil {
			return err
		}
	}
	return nil
}

// branchInfo is the fold accumulator for one guard combination: the
// source states it currently resolves to (until closure/intern replaces
// them with a single destination state) plus its merged action and
// priority tables.
type branchInfo struct {
	targets []*graph.State
	actions *action.Table
	priors  *prior.Table
	lm      *action.Table
}
