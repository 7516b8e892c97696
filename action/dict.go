package action

import "sync"

// Dict is the single shared action dictionary a FsmCtx hands to every
// graph participating in an operator. Actions are append-only references
// into this table: operators never delete from it, they only adjust
// reference counts (spec.md §5, "Shared-resource policy").
type Dict struct {
	mu      sync.Mutex
	actions []*Action
	next    ID
}

// NewDict creates an empty, shared action dictionary.
func NewDict() *Dict {
	return &Dict{}
}

// New allocates and interns a fresh Action, assigning it the next id in
// declaration order.
func (d *Dict) New(name, loc string, body Body, condID CondID) *Action {
	d.mu.Lock()
	defer d.mu.Unlock()

	a := &Action{
		ID:     d.next,
		Name:   name,
		Loc:    loc,
		Body:   body,
		CondID: condID,
	}
	d.next++
	d.actions = append(d.actions, a)
	return a
}

// All returns every action ever interned, in declaration order. The
// returned slice is owned by the caller.
func (d *Dict) All() []*Action {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]*Action, len(d.actions))
	copy(out, d.actions)
	return out
}

// DeadActions returns every interned action with no remaining references,
// the set the downstream code generator is expected to elide.
func (d *Dict) DeadActions() []*Action {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []*Action
	for _, a := range d.actions {
		if a.Dead() {
			out = append(out, a)
		}
	}
	return out
}
