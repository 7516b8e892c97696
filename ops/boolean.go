package ops

import "github.com/gorelex/fsm/graph"

// UnionOp mutates dest into the union of dest and other (accepts a
// string iff dest or other does), consuming other: the result is a fresh
// product automaton built from both operands' states, which dest then
// takes over; other's own state list is not modified (spec.md §6). dest
// and other must share the same Ctx.
func UnionOp(dest, other *graph.Fsm, costID int) error {
	return boolOp(dest, other, OpUnion, costID)
}

// IntersectOp mutates dest into the intersection of dest and other
// (accepts a string iff both do), consuming other.
func IntersectOp(dest, other *graph.Fsm, costID int) error {
	return boolOp(dest, other, OpIntersect, costID)
}

// SubtractOp mutates dest into dest minus other (accepts a string iff
// dest does and other does not), consuming other.
func SubtractOp(dest, other *graph.Fsm, costID int) error {
	return boolOp(dest, other, OpSubtract, costID)
}

func boolOp(dest, other *graph.Fsm, op BoolOp, costID int) error {
	if !graph.SameCtx(dest.Ctx, other.Ctx) {
		panic("ops: operands do not share a Ctx")
	}
	result := graph.New(dest.Ctx)
	pb := newProductBuilder(result, dest, other, op, costID)
	start, err := pb.build(dest.Start, other.Start)
	if err != nil {
		return err
	}
	result.SetStartState(start)
	dest.Absorb(result)
	return nil
}
