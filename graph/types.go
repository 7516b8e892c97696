// Package graph implements the FSM data model: states, transitions
// (plain and conditional), the graph value itself, and its shared build
// context. It owns the allocation/ownership and invariant rules of
// spec.md §3 and the housekeeping operations of §4.2, §4.9, §4.10 and
// §4.11. The heavier algorithms (range-pair iteration, subset
// construction, minimization, the algebraic operators) live in sibling
// packages that operate on the types defined here.
//
// Grounded on the teacher's tokenmodel/petri.Model (owned element lists,
// interned identity, structural equality) and on noru-rfsm's explicit
// State/Transition/Guard typing for the tagged-union transition shape.
package graph

import (
	"github.com/google/uuid"

	"github.com/gorelex/fsm/action"
	"github.com/gorelex/fsm/cond"
	"github.com/gorelex/fsm/key"
	"github.com/gorelex/fsm/prior"
)

// MinimizeLevel selects a minimization strategy (spec.md §4.8).
type MinimizeLevel int

const (
	MinimizeNone MinimizeLevel = iota
	MinimizeStable
	MinimizeApproximate
	MinimizePartition
)

// Ctx is the shared FsmCtx: host-language settings, key ops, the interned
// condition-space table, the shared action dictionary, minimization
// selectors, and resource limits. Every graph participating in a binary
// operator must share the same Ctx (spec.md §5); mixing Ctx pointers
// across operands of a binary operator is a programming error, not a
// recoverable fault.
type Ctx struct {
	// ID is a build-session identifier, minted once per Ctx and attached
	// to TooManyStates errors and to subset.FillInStates's debug records
	// so a failure can be correlated back to the graph
	// build that produced it — the same role the teacher's uuid package
	// plays for its event log entries (graphql/eventsource.go).
	ID string

	KeyOps  key.Ops
	Actions *action.Dict
	Conds   *cond.Table

	StateLimit     int // <=0 means unlimited
	CondCostBudget int // <=0 means unlimited

	MinimizeLevel MinimizeLevel

	// NfaTermCheck records the nfa-term-check setting (spec.md §4.9).
	// Nothing in this module reads it: resolveEpsilonTrans's eptVect
	// cycle guard is always applied, whatever this flag says.
	NfaTermCheck bool

	// UnionInProgress is set while nfaUnionOp is wiring epsilon
	// transitions between operands, so re-entrant helpers can tell
	// whether they are being called mid-union.
	UnionInProgress bool

	nextOrdering action.Ordering
}

// CtxOption configures a Ctx via functional options (teacher precedent:
// cache.CachedEvaluator's WithTimeSpan/WithOptions chain).
type CtxOption func(*Ctx)

// WithStateLimit bounds the number of states subset construction may
// create before raising TooManyStates.
func WithStateLimit(n int) CtxOption { return func(c *Ctx) { c.StateLimit = n } }

// WithCondCostBudget bounds the cost of each single condition-space
// expansion (the number of cond entries it produces); an expansion over
// the budget raises CondCostTooHigh. Costs are not accumulated across
// expansions.
func WithCondCostBudget(n int) CtxOption { return func(c *Ctx) { c.CondCostBudget = n } }

// WithMinimizeLevel selects the default minimization strategy.
func WithMinimizeLevel(l MinimizeLevel) CtxOption { return func(c *Ctx) { c.MinimizeLevel = l } }

// WithKeyOps overrides the default (Unsigned8) key algebra.
func WithKeyOps(ops key.Ops) CtxOption { return func(c *Ctx) { c.KeyOps = ops } }

// WithNfaTermCheck sets Ctx.NfaTermCheck (see that field: the
// epsilon-closure cycle guard does not depend on it).
func WithNfaTermCheck(on bool) CtxOption { return func(c *Ctx) { c.NfaTermCheck = on } }

// NewCtx builds a fresh, shared build context.
func NewCtx(opts ...CtxOption) *Ctx {
	c := &Ctx{
		ID:            uuid.New().String(),
		KeyOps:        key.Unsigned8(),
		Actions:       action.NewDict(),
		Conds:         cond.NewTable(),
		MinimizeLevel: MinimizeStable,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NextOrdering hands out the next monotonically increasing ordering.
// Real compilers assign orderings at the parser layer as actions are
// encountered in source order (spec.md §6); this is a convenience for
// callers (including this repo's own tests) that don't need to interleave
// orderings with an external parser.
func (c *Ctx) NextOrdering() action.Ordering {
	o := c.nextOrdering
	c.nextOrdering++
	return o
}

// SameCtx reports whether a and b share the same build context. Binary
// operators must check this before combining two graphs.
func SameCtx(a, b *Ctx) bool { return a == b }

// TransData is the payload of a plain transition, or of one CondAp branch
// of a conditional transition.
type TransData struct {
	Actions   *action.Table
	Priors    *prior.Table
	LMActions *action.Table
	Target    *State
}

// NewTransData returns an empty TransData targeting to.
func NewTransData(to *State) TransData {
	return TransData{
		Actions:   action.NewTable(),
		Priors:    prior.NewTable(),
		LMActions: action.NewTable(),
		Target:    to,
	}
}

// Clone returns a shallow copy of d — action/priority tables are cloned
// (their entries are shared references), the target is shared.
func (d TransData) Clone() TransData {
	return TransData{
		Actions:   d.Actions.Clone(),
		Priors:    d.Priors.Clone(),
		LMActions: d.LMActions.Clone(),
		Target:    d.Target,
	}
}

// CondAp is one sub-transition of a conditional transition, keyed by the
// boolean guard assignment CondVals.
type CondAp struct {
	CondVals cond.CondVals
	Data     TransData
}

// CondTrans is the payload of a conditional transition: a condition space
// plus its ordered, deduplicated list of CondAp branches.
type CondTrans struct {
	Space *cond.Space
	Conds []*CondAp // sorted ascending by CondVals, unique
}

// Find returns the CondAp for vals, if present.
func (c *CondTrans) Find(vals cond.CondVals) (*CondAp, bool) {
	for _, ca := range c.Conds {
		if ca.CondVals == vals {
			return ca, true
		}
	}
	return nil, false
}

// Insert adds or replaces the CondAp for vals, keeping Conds sorted.
func (c *CondTrans) Insert(ca *CondAp) {
	for i, existing := range c.Conds {
		if existing.CondVals == ca.CondVals {
			c.Conds[i] = ca
			return
		}
		if existing.CondVals > ca.CondVals {
			c.Conds = append(c.Conds, nil)
			copy(c.Conds[i+1:], c.Conds[i:])
			c.Conds[i] = ca
			return
		}
	}
	c.Conds = append(c.Conds, ca)
}

// Trans is a single out-transition, spanning the key range [Low, High].
// It is a tagged union on Cond: Cond == nil means the transition is
// plain (Plain is populated); Cond != nil means it is conditional (Plain
// is the zero value). This is the explicit tagged variant DESIGN.md's
// "tagged-union transition" note calls for, replacing the original's
// two-base-class inheritance trick.
type Trans struct {
	Low, High key.Key

	From *State
	Plain TransData
	Cond  *CondTrans

	// Intrusive in-list links, non-owning: the transition's From state
	// owns it; every target state it reaches keeps it on an in-list for
	// O(1) detachment (spec.md §4.11). Represented as slice membership on
	// the target rather than raw prev/next pointers (DESIGN.md's
	// "intrusive in-lists" note): ownership-tracking languages make the
	// in-list a collection of non-owning handles, not pointers.
}

// IsConditional reports whether t is a conditional transition.
func (t *Trans) IsConditional() bool { return t.Cond != nil }

// Targets returns every target state this transition can reach: the
// single Plain.Target for a plain transition, or every distinct CondAp
// target for a conditional one.
func (t *Trans) Targets() []*State {
	if !t.IsConditional() {
		if t.Plain.Target == nil {
			return nil
		}
		return []*State{t.Plain.Target}
	}
	seen := make(map[*State]bool)
	var out []*State
	for _, ca := range t.Cond.Conds {
		if ca.Data.Target != nil && !seen[ca.Data.Target] {
			seen[ca.Data.Target] = true
			out = append(out, ca.Data.Target)
		}
	}
	return out
}

// LMItem is a longest-match item: a sub-automaton within a scanner
// representing a single alternation with its terminal action, kept
// distinct from ordinary action tables (SPEC_FULL.md §11) because it
// participates in a separate "longest wins" resolution pass at codegen
// time.
type LMItem struct {
	AltIndex int
	Action   *action.Action
}

// NfaAction bundles the push/pop action pair an epsilon transition
// carries while its graph is operating as an NFA (spec.md §3, "nfa-out
// map").
type NfaAction struct {
	Push *action.Action
	Pop  *action.Action
}

// State is a single automaton state.
type State struct {
	id int

	Out []*Trans // sorted by Low, pairwise disjoint, non-empty (spec.md §3 invariant)

	inPlain []*Trans // in-list: transitions targeting this state, non-owning
	inCond  []*Trans

	EntryIDs       map[int]bool
	EpsilonTargets []int // pending epsilon target state ids, before resolveEpsilonTrans
	EOFTarget      *State

	Final      bool
	Marked     bool
	OnList     bool
	NfaRep     bool
	FromGraph1 bool
	FromGraph2 bool

	ToStateActions   *action.Table
	FromStateActions *action.Table
	OutActions       *action.Table
	EOFActions       *action.Table
	ErrorActions     *action.Table

	// OutCond is the out-condition carrier: guards that will be fused
	// into every future outgoing transition of this state (spec.md
	// §4.9's embedCondition).
	OutCond *cond.VectorSet

	LMItems []LMItem

	NfaOut map[*State]NfaAction
	NfaIn  map[*State]bool

	// scratch multiplexes unrelated temporaries over the state's
	// lifetime, guarded by phase discipline (DESIGN.md's "scratch union
	// on state" note): a partition pointer (partition minimization) and a
	// plain state number (depthFirstOrdering / setStateNumbers). The
	// dupMap field is reserved and currently unused: Duplicate and
	// ConcatOp track original-to-copy correspondence in local maps
	// instead. Each field in use belongs to exactly one phase; callers
	// must not read a field outside of that phase.
	scratch scratchUnion
}

type scratchUnion struct {
	dupMap    map[*State]*State
	partition *MinPartition
	number    int
	hasNumber bool
}

// ID returns the state's stable allocation-order identifier.
func (s *State) ID() int { return s.id }

// MinPartition groups states believed language-equivalent during
// partition-based minimization (spec.md §4.8).
type MinPartition struct {
	Index   int
	Members []*State
}

// Fsm is the graph value: the state list, misfit list, nfa list, entry
// map, start state, optional error state, final-state set, and a
// back-pointer to the shared Ctx (spec.md §3's FsmAp).
type Fsm struct {
	Ctx *Ctx

	States  []*State
	Misfit  []*State
	Nfa     []*State
	Entries map[int]*State
	Start   *State
	Error   *State
	final   map[*State]bool

	IsNfa bool

	nextID int
}

// New creates an empty graph sharing ctx.
func New(ctx *Ctx) *Fsm {
	return &Fsm{
		Ctx:     ctx,
		Entries: make(map[int]*State),
		final:   make(map[*State]bool),
	}
}

// IsFinal reports whether s is a member of the final-state set.
func (f *Fsm) IsFinal(s *State) bool { return f.final[s] }

// Absorb replaces f's entire contents with src's (state list, misfit and
// nfa lists, entry map, start/error states, final-state set, allocation
// counter, and NFA marking), for algebraic operators that build their
// result in a scratch graph and then hand it back through the left
// operand's handle (spec.md §6: "All mutate this; other is consumed").
func (f *Fsm) Absorb(src *Fsm) {
	f.States = src.States
	f.Misfit = src.Misfit
	f.Nfa = src.Nfa
	f.Entries = src.Entries
	f.Start = src.Start
	f.Error = src.Error
	f.IsNfa = src.IsNfa
	f.nextID = src.nextID
	f.final = src.final
}

// FinalStates returns every final state, in state-list order.
func (f *Fsm) FinalStates() []*State {
	var out []*State
	for _, s := range f.States {
		if f.final[s] {
			out = append(out, s)
		}
	}
	return out
}
