package ast

import "velac/common"

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
}

// Enumeration of literal kinds.
const (
	LitInt = iota
	LitFloat
	LitBool
	LitUnit
)

// LiteralExpr represents a literal value.
type LiteralExpr struct {
	NodeBase

	// The literal's kind: one of the enumerated literal kinds.
	Kind int

	// The literal's source text.
	Value string
}

// IdentExpr represents a reference to a named value.
type IdentExpr struct {
	NodeBase

	// The referenced name.
	Name string

	// The resolved symbol; set by the checker.
	Sym *common.Symbol
}

// TupleExpr represents a tuple construction.  An empty tuple is the unit
// value.
type TupleExpr struct {
	NodeBase

	// The element expressions, in order.
	Exprs []Expr
}

// CallExpr represents a function application.
type CallExpr struct {
	NodeBase

	// The called expression.
	Fn Expr

	// The argument expressions, in order.
	Args []Expr
}

// FnExpr represents an anonymous function.
type FnExpr struct {
	NodeBase

	// The function's parameters.
	Params []*FnParam

	// The function's body.
	Body Expr
}

// LetExpr represents a let binding scoped over a body expression.
type LetExpr struct {
	NodeBase

	// The bound name.
	Name string

	// The binding's type annotation; nil to infer.
	Ann TypeExpr

	// The bound value.
	Value Expr

	// The expression the binding scopes over.
	Body Expr

	// The symbol declared by the binding; set by the checker.
	Sym *common.Symbol
}

// IfExpr represents a conditional expression.
type IfExpr struct {
	NodeBase

	// The condition.
	Cond Expr

	// The branch taken when the condition holds.
	Then Expr

	// The branch taken otherwise; nil for statement-position conditionals.
	Else Expr
}

// BlockExpr represents a sequence of expressions evaluated in order; its
// value is the value of the last expression.
type BlockExpr struct {
	NodeBase

	// The block's expressions, in order.
	Exprs []Expr
}

// AddrExpr represents taking a reference to a value.
type AddrExpr struct {
	NodeBase

	// The referenced expression.
	Elem Expr

	// Whether the reference permits mutation.
	Mut bool
}

// DerefExpr represents dereferencing a pointer or reference.
type DerefExpr struct {
	NodeBase

	// The dereferenced expression.
	Ptr Expr
}

// FieldExpr represents a member access.
type FieldExpr struct {
	NodeBase

	// The accessed expression.
	Root Expr

	// The accessed member's name.
	FieldName string

	// The resolved member index; set by the checker.
	FieldIndex int
}

// AnnExpr represents a type ascription.
type AnnExpr struct {
	NodeBase

	// The ascribed expression.
	Expr Expr

	// The ascribed type.
	Ann TypeExpr
}
