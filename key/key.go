// Package key implements the ordered symbol algebra that every FSM
// transition range is expressed over. Signedness is a run-time property of
// the target host language, not a static property of the Go type used to
// hold a key, so all comparisons go through an explicit Ops value rather
// than Go's native operator set.
package key

// Key is a single character/codepoint value. It is wide enough to hold
// either a signed or an unsigned representation of the host's character
// type without truncation.
type Key int32

// Ops carries the signedness and bounds of the host character type and
// supplies every comparison and stepping operation used by the graph and
// range-pair iterator. Two graphs may only be combined by an operator if
// they were built with equivalent Ops (same signedness, same bounds).
type Ops struct {
	Signed bool
	Min    Key
	Max    Key
}

// Unsigned8 describes an 8-bit unsigned character type (e.g. the default
// scanner alphabet for byte-oriented input).
func Unsigned8() Ops { return Ops{Signed: false, Min: 0, Max: 0xff} }

// Signed8 describes an 8-bit signed character type.
func Signed8() Ops { return Ops{Signed: true, Min: -0x80, Max: 0x7f} }

// Unsigned32 describes a 32-bit unsigned codepoint alphabet (e.g. UTF-32
// scanning), the widest practical alphabet this package supports.
func Unsigned32() Ops { return Ops{Signed: false, Min: 0, Max: 0x7fffffff} }

// Lt reports whether a orders strictly before b under these Ops.
func (o Ops) Lt(a, b Key) bool { return a < b }

// Gt reports whether a orders strictly after b under these Ops.
func (o Ops) Gt(a, b Key) bool { return a > b }

// Ne reports whether a and b differ.
func (o Ops) Ne(a, b Key) bool { return a != b }

// Increment returns the key that immediately follows a. Callers must not
// call Increment on Ops.Max; a well-formed range never needs to.
func (o Ops) Increment(a Key) Key { return a + 1 }

// Decrement returns the key that immediately precedes a. Callers must not
// call Decrement on Ops.Min.
func (o Ops) Decrement(a Key) Key { return a - 1 }

// InRange reports whether k lies within [lo, hi] inclusive.
func (o Ops) InRange(k, lo, hi Key) bool { return k >= lo && k <= hi }

// Printable reports whether k falls in the conventional printable ASCII
// band; used only for diagnostics (error messages, dot/debug dumps), never
// for algorithmic decisions.
func (o Ops) Printable(k Key) bool { return k >= 0x20 && k < 0x7f }

// Width returns the number of values expressible in [lo, hi], or 0 if the
// range is empty or inverted.
func (o Ops) Width(lo, hi Key) int64 {
	if hi < lo {
		return 0
	}
	return int64(hi) - int64(lo) + 1
}
