package walk

import (
	"velac/report"
	"velac/types"
)

// The error kinds surfaced by the checker all funnel through the helpers
// below so their wordings stay uniform.  Each reports recoverably and
// inference proceeds.  The helpers do not change any node's type; a caller
// that gives up on a node returns the absorbing error type for it itself.

// reportMismatch reports that found is not a subtype of expected.
func (w *Walker) reportMismatch(span *report.TextSpan, expected, found types.Type) {
	w.recError(span, "type mismatch: expected `%s`, found `%s`", expected.Repr(), found.Repr())
}

// reportInfiniteType reports a unification of a variable with a type that
// structurally contains it.
func (w *Walker) reportInfiniteType(span *report.TextSpan, tv *types.TypeVar, typ types.Type) {
	w.recError(span, "infinite type: `%s` occurs in `%s`", tv.Repr(), typ.Repr())
}

// reportUnknownMember reports a member access that resolved to nothing.
func (w *Walker) reportUnknownMember(span *report.TextSpan, owner types.Type, name string) {
	w.recError(span, "`%s` has no member named `%s`", owner.Repr(), name)
}

// reportArityMismatch reports mismatched arities between tuples, type
// applications, or function arguments.
func (w *Walker) reportArityMismatch(span *report.TextSpan, what string, expected, found int) {
	w.recError(span, "%s arity mismatch: expected %d, found %d", what, expected, found)
}

// reportUnsatisfiedBound reports a trait obligation the resolver could not
// discharge at the use site.
func (w *Walker) reportUnsatisfiedBound(span *report.TextSpan, clause types.Type) {
	w.recError(span, "unsatisfied trait bound: no impl of `%s` is visible here", clause.Repr())
}
