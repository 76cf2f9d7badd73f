package ast

import "velac/common"

// Program is the root of a checked AST: the top-level declarations of a
// compilation unit.
type Program struct {
	// The top-level declarations, in source order.
	Decls []Decl
}

// Decl is the interface for all declaration nodes.  Declarations form a
// parent chain used to walk outward from a use site: through enclosing
// functions (for where clauses) and enclosing modules (for registered impls).
type Decl interface {
	Node

	// The enclosing declaration; nil at the top level.
	DeclParent() Decl
}

// DeclBase is the utility base struct for all declarations.
type DeclBase struct {
	NodeBase

	// The enclosing declaration.
	Parent Decl
}

func (db *DeclBase) DeclParent() Decl {
	return db.Parent
}

/* -------------------------------------------------------------------------- */

// ModDecl represents a module declaration: a named scope of declarations.
type ModDecl struct {
	DeclBase

	// The module's name.
	Name string

	// The module's declarations, in source order.
	Decls []Decl
}

// TypeParam represents a type-parameter declaration.  Type variables are
// interned by the identity of this node.
type TypeParam struct {
	NodeBase

	// The parameter's name.
	Name string

	// The trait obligations bounding the parameter.
	Bounds []TypeExpr
}

// WhereClause represents a trait obligation attached to a function or impl.
// The clause's obligation type is stored in the node's type slot once the
// checker resolves it.
type WhereClause struct {
	NodeBase

	// The obligation's unresolved type expression.
	Obligation TypeExpr
}

// FnParam represents a single function parameter.
type FnParam struct {
	NodeBase

	// The parameter's name.
	Name string

	// The parameter's type annotation.
	TypeAnn TypeExpr

	// The symbol declared by the parameter; set by the checker.
	Sym *common.Symbol
}

// FnDecl represents a function declaration.
type FnDecl struct {
	DeclBase

	// The function's name.
	Name string

	// The function's type parameters; empty for monomorphic functions.
	TypeParams []*TypeParam

	// The function's where clauses.
	WhereClauses []*WhereClause

	// The function's parameters.
	Params []*FnParam

	// The function's return type annotation; nil means the unit type.
	ReturnType TypeExpr

	// The function's body; nil for bodyless declarations (trait methods
	// without defaults, external functions).
	Body Expr
}

// StructField represents a single field of a struct declaration.
type StructField struct {
	NodeBase

	// The field's name.  Tuple-like structs use positional names.
	Name string

	// The field's type annotation.
	TypeAnn TypeExpr

	// The field's default initializer; nil if the field has none.
	Init Expr
}

// StructDecl represents a structure declaration.
type StructDecl struct {
	DeclBase

	// The struct's name.
	Name string

	// The struct's type parameters.
	TypeParams []*TypeParam

	// The struct's where clauses.
	WhereClauses []*WhereClause

	// The struct's fields, in source order.
	Fields []*StructField

	// Whether the struct is tuple-like: positional, unnamed fields.
	TupleLike bool
}

// EnumOption represents a single option of an enum declaration.
type EnumOption struct {
	NodeBase

	// The option's name.
	Name string

	// The option's payload type annotation; nil for payload-free options.
	Payload TypeExpr
}

// EnumDecl represents an enumeration declaration.
type EnumDecl struct {
	DeclBase

	// The enum's name.
	Name string

	// The enum's type parameters.
	TypeParams []*TypeParam

	// The enum's options, in source order.
	Options []*EnumOption
}

// TraitDecl represents a trait declaration.
type TraitDecl struct {
	DeclBase

	// The trait's name.
	Name string

	// The trait's type parameters.
	TypeParams []*TypeParam

	// The trait's method declarations.  A method with a non-nil body is a
	// default method.
	Decls []*FnDecl
}

// ImplDecl represents an impl block associating a trait to a type.
type ImplDecl struct {
	DeclBase

	// The display name of the impl, for diagnostics.
	Name string

	// The trait obligation the impl discharges.
	TraitType TypeExpr

	// The impl's type parameters.
	TypeParams []*TypeParam

	// The impl's where clauses.
	WhereClauses []*WhereClause

	// The impl's method definitions.
	Decls []*FnDecl
}

// TypeDecl represents a type alias declaration.
type TypeDecl struct {
	DeclBase

	// The alias's name.
	Name string

	// The alias's type parameters.
	TypeParams []*TypeParam

	// The aliased type expression.
	Aliased TypeExpr
}
