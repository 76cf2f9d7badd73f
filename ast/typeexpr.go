package ast

import "velac/types"

// TypeExpr is the interface for all type-expression nodes.  The checker
// converts each type expression into an interned type and attaches it to the
// node's type slot.
type TypeExpr interface {
	Node
}

// PrimTypeExpr represents a primitive type label.
type PrimTypeExpr struct {
	NodeBase

	// The labeled primitive kind.
	Kind types.PrimKind
}

// TupleTypeExpr represents a tuple type label.  An empty tuple is the unit
// type.
type TupleTypeExpr struct {
	NodeBase

	// The element type expressions, in order.
	Elems []TypeExpr
}

// ArrayTypeExpr represents an array type label.
type ArrayTypeExpr struct {
	NodeBase

	// The element type expression.
	Elem TypeExpr

	// The array size; negative for unsized arrays.
	Size int

	// Whether the array is a SIMD vector.
	IsSimd bool
}

// PtrTypeExpr represents a pointer type label.
type PtrTypeExpr struct {
	NodeBase

	// The pointee type expression.
	Elem TypeExpr

	// Whether the pointee may be mutated through the pointer.
	Mut bool

	// The pointee's address space.
	AddrSpace int
}

// RefTypeExpr represents a reference type label.
type RefTypeExpr struct {
	NodeBase

	// The referent type expression.
	Elem TypeExpr

	// Whether the referent may be mutated through the reference.
	Mut bool

	// The referent's address space.
	AddrSpace int
}

// FuncTypeExpr represents a function type label.
type FuncTypeExpr struct {
	NodeBase

	// The domain type expression.
	Dom TypeExpr

	// The codomain type expression; nil marks a continuation.
	Codom TypeExpr
}

// NamedTypeExpr represents a reference to a declared type, possibly applied
// to type arguments.
type NamedTypeExpr struct {
	NodeBase

	// The referenced name.
	Name string

	// The referenced declaration, linked by the name resolver: a StructDecl,
	// EnumDecl, TraitDecl, TypeDecl, or TypeParam.
	Ref Node

	// The type arguments; empty for unapplied references.
	Args []TypeExpr
}
