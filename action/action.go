// Package action implements the host-language action dictionary: the
// deduplicated table of opaque code fragments a compiled FSM attaches to
// transitions and state entry/exit points, keyed by a monotonically
// assigned ordering that preserves source order across algebraic
// operators. Grounded on the teacher's tokenmodel/petri Model tables
// (deduplicated, ID-addressed collections with reference bookkeeping).
package action

// Ordering is a monotonically increasing integer tagging each action or
// priority embedding, assigned by the caller (the parser layer, out of
// scope here). It is the only cross-operator evidence of the temporal
// order actions were written in the source grammar.
type Ordering int

// ID identifies an Action within the shared Dict.
type ID int

// CondID identifies an Action when it is used as a boolean guard inside a
// condition space (cond.CondSpace). Actions not usable as guards carry
// CondID == NoCondID.
type CondID int

// NoCondID marks an action that is not a guard.
const NoCondID CondID = -1

// Body is the opaque host-language inline code fragment carried by an
// Action. The core never inspects it; it crosses the FSM boundary to the
// out-of-scope code generator untouched.
type Body interface{}

// Action is a single host-language code fragment, identified by a stable
// name (or "line:column" location if the source left it anonymous).
type Action struct {
	ID     ID
	Name   string // stable name, or "line:column" if anonymous
	Loc    string // "line:column" source location, always present
	Body   Body
	CondID CondID

	// Reference counters. Their sum drives dead-action elimination
	// downstream (in the out-of-scope code generator); this package only
	// maintains the counts, it never acts on them.
	TransRefs     int
	ToStateRefs   int
	FromStateRefs int
	EOFRefs       int
	CondRefs      int
	NfaRefs       int
}

// TotalRefs sums every reference counter.
func (a *Action) TotalRefs() int {
	return a.TransRefs + a.ToStateRefs + a.FromStateRefs + a.EOFRefs + a.CondRefs + a.NfaRefs
}

// Dead reports whether no live reference to a remains.
func (a *Action) Dead() bool { return a.TotalRefs() == 0 }

// RefKind selects which counter a binding operation increments.
type RefKind int

const (
	RefTrans RefKind = iota
	RefToState
	RefFromState
	RefEOF
	RefCond
	RefNfa
)

// AddRef increments the counter selected by kind.
func (a *Action) AddRef(kind RefKind) {
	switch kind {
	case RefTrans:
		a.TransRefs++
	case RefToState:
		a.ToStateRefs++
	case RefFromState:
		a.FromStateRefs++
	case RefEOF:
		a.EOFRefs++
	case RefCond:
		a.CondRefs++
	case RefNfa:
		a.NfaRefs++
	}
}

// RemoveRef decrements the counter selected by kind, floored at zero.
func (a *Action) RemoveRef(kind RefKind) {
	switch kind {
	case RefTrans:
		if a.TransRefs > 0 {
			a.TransRefs--
		}
	case RefToState:
		if a.ToStateRefs > 0 {
			a.ToStateRefs--
		}
	case RefFromState:
		if a.FromStateRefs > 0 {
			a.FromStateRefs--
		}
	case RefEOF:
		if a.EOFRefs > 0 {
			a.EOFRefs--
		}
	case RefCond:
		if a.CondRefs > 0 {
			a.CondRefs--
		}
	case RefNfa:
		if a.NfaRefs > 0 {
			a.NfaRefs--
		}
	}
}
