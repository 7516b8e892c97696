package graph

import (
	"github.com/gorelex/fsm/action"
	"github.com/gorelex/fsm/cond"
	"github.com/gorelex/fsm/fsmerr"
)

// ConvertToCondAp rewrites every plain out-transition of s into a
// conditional one under a fresh, empty condition space: a single CondAp
// with CondVals == 0 carrying the original plain data (spec.md §4.3).
// It is idempotent: transitions already conditional are left untouched.
func (f *Fsm) ConvertToCondAp(s *State) (*cond.Space, error) {
	space, err := f.Ctx.Conds.AddCondSpace(nil)
	if err != nil {
		return nil, err
	}
	for _, t := range s.Out {
		if t.IsConditional() {
			continue
		}
		data := t.Plain
		unlinkTargets(t)
		t.Plain = TransData{}
		t.Cond = &CondTrans{Space: space}
		t.Cond.Insert(&CondAp{CondVals: 0, Data: data})
		linkTargets(t)
	}
	return space, nil
}

// EmbedCondition extends s's out-carrier with guard and the boolean sense
// it must hold, following spec.md §4.3: on next use (ExpandConds) this is
// fused into s's outgoing transitions.
func (f *Fsm) EmbedCondition(s *State, guard action.CondID, sense bool) error {
	space, err := f.Ctx.Conds.AddCondSpace([]action.CondID{guard})
	if err != nil {
		return err
	}
	var vals cond.CondVals
	if sense {
		vals = 1
	}
	s.EmbedCondition(space, vals)
	return nil
}

func chargeCost(ctx *Ctx, costID, amount int) error {
	if ctx.CondCostBudget <= 0 {
		return nil
	}
	if amount > ctx.CondCostBudget {
		return &fsmerr.CondCostTooHigh{CostID: costID, Cost: amount, Budget: ctx.CondCostBudget}
	}
	return nil
}

// ExpandConds re-distributes trans's cond-list when its condition space
// is widened from fromSpace to mergedSpace: each existing cond value v
// over fromSpace expands to 2^(|merged|-|from|) values over mergedSpace,
// preserving the boolean assignment for the original guards and ranging
// over the new ones (spec.md §4.3). costID identifies this expansion site
// for CondCostTooHigh accounting.
func ExpandConds(ctx *Ctx, trans *Trans, fromSpace, mergedSpace *cond.Space, costID int) error {
	if fromSpace == mergedSpace {
		return nil
	}
	expanded, err := ExpandCondList(ctx, fromSpace, mergedSpace, trans.Cond.Conds, costID)
	if err != nil {
		return err
	}
	trans.Cond.Space = mergedSpace
	trans.Cond.Conds = nil
	for _, nc := range expanded {
		trans.Cond.Insert(nc)
	}
	return nil
}

// ExpandCondList re-distributes a bare cond-list from fromSpace to
// mergedSpace, without requiring the list to live on a *Trans. This is
// the reusable core ExpandConds wraps, and is also what package ops's
// crossTransitions uses to bring two operands' cond-lists onto a common
// merged space before pairing them cond by cond (spec.md §4.5).
func ExpandCondList(ctx *Ctx, fromSpace, mergedSpace *cond.Space, conds []*CondAp, costID int) ([]*CondAp, error) {
	if fromSpace == mergedSpace {
		return conds, nil
	}
	extra := mergedSpace.Cardinality() - fromSpace.Cardinality()
	if extra < 0 {
		return conds, nil
	}
	growth := 1 << uint(extra)
	if err := chargeCost(ctx, costID, growth*len(conds)); err != nil {
		return nil, err
	}

	// Map each guard of fromSpace to its bit position in mergedSpace.
	posInMerged := make([]int, fromSpace.Cardinality())
	for i, g := range fromSpace.Set {
		posInMerged[i] = mergedSpace.IndexOf(g)
	}
	extraPositions := extraBitPositions(fromSpace, mergedSpace)

	out := make([]*CondAp, 0, len(conds)*growth)
	for _, ca := range conds {
		base := cond.CondVals(0)
		for i, pos := range posInMerged {
			bit := (ca.CondVals >> uint(i)) & 1
			base |= bit << uint(pos)
		}
		for combo := 0; combo < growth; combo++ {
			vals := base
			for i, pos := range extraPositions {
				bit := cond.CondVals((combo >> uint(i)) & 1)
				vals |= bit << uint(pos)
			}
			out = append(out, &CondAp{CondVals: vals, Data: ca.Data.Clone()})
		}
	}
	return out, nil
}

func extraBitPositions(fromSpace, mergedSpace *cond.Space) []int {
	fromSet := make(map[action.CondID]bool, len(fromSpace.Set))
	for _, g := range fromSpace.Set {
		fromSet[g] = true
	}
	var out []int
	for i, g := range mergedSpace.Set {
		if !fromSet[g] {
			out = append(out, i)
		}
	}
	return out
}

// PlainSpace returns the shared, cardinality-0 condition space that
// stands in for "no guards" when a plain transition must be treated
// uniformly with a conditional one, e.g. crossing a plain transition
// against a conditional one in package ops's crossTransitions.
func PlainSpace(ctx *Ctx) (*cond.Space, error) {
	return ctx.Conds.AddCondSpace(nil)
}

// AsCondList returns t's condition space and cond-list, synthesizing a
// single-branch list over PlainSpace when t is plain. This lets a
// caller treat every transition uniformly as "a space plus a cond-list"
// (spec.md §4.5's crossTransitions does exactly this when one operand
// is conditional and the other is not).
func AsCondList(ctx *Ctx, t *Trans) (*cond.Space, []*CondAp, error) {
	if t.IsConditional() {
		return t.Cond.Space, t.Cond.Conds, nil
	}
	space, err := PlainSpace(ctx)
	if err != nil {
		return nil, nil, err
	}
	return space, []*CondAp{{CondVals: 0, Data: t.Plain}}, nil
}

// StartFsmCondition embeds guard/sense on the start state's out-carrier.
func (f *Fsm) StartFsmCondition(guard action.CondID, sense bool) error {
	if f.Start == nil {
		return nil
	}
	return f.EmbedCondition(f.Start, guard, sense)
}

// AllTransCondition embeds guard/sense on every state's out-carrier, so
// it is fused into every future outgoing transition in the graph.
func (f *Fsm) AllTransCondition(guard action.CondID, sense bool) error {
	for _, s := range f.States {
		if err := f.EmbedCondition(s, guard, sense); err != nil {
			return err
		}
	}
	return nil
}

// LeaveFsmCondition is the leaving-state analogue of AllTransCondition:
// guard/sense is embedded on every state's out-carrier, so it fires on
// every transition taken away from any state.
func (f *Fsm) LeaveFsmCondition(guard action.CondID, sense bool) error {
	return f.AllTransCondition(guard, sense)
}

// FuseOutCond materializes s's pending out-carrier into every one of its
// outgoing transitions: each plain transition is converted to
// conditional (if not already) and its cond-list expanded to include the
// carried guards, following spec.md §4.9's description of the
// out-condition carrier. Call this once construction of s's out-list is
// complete, before the carrier's guards need to actually gate matching.
func (f *Fsm) FuseOutCond(s *State, costID int) error {
	if s.OutCond == nil || s.OutCond.Count() == 0 {
		return nil
	}
	carriedSpace := s.OutCond.Space()
	for _, t := range s.Out {
		if !t.IsConditional() {
			if _, err := f.ConvertToCondAp(s); err != nil {
				return err
			}
		}
	}
	for _, t := range s.Out {
		merged, err := f.Ctx.Conds.Union(t.Cond.Space, carriedSpace)
		if err != nil {
			return err
		}
		if err := ExpandConds(f.Ctx, t, t.Cond.Space, merged, costID); err != nil {
			return err
		}
	}
	s.OutCond = nil
	return nil
}
