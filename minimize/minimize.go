package minimize

import "github.com/gorelex/fsm/graph"

// Run applies whichever strategy f.Ctx.MinimizeLevel selects, or does
// nothing under MinimizeNone (spec.md §4.8: "selection between
// strategies is a field of FsmCtx").
func Run(f *graph.Fsm) {
	switch f.Ctx.MinimizeLevel {
	case graph.MinimizeStable:
		Stable(f)
	case graph.MinimizeApproximate:
		Approximate(f)
	case graph.MinimizePartition:
		Partition(f)
	}
}
