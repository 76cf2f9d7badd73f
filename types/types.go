package types

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Type is the parent interface for all types in Vela.  All types are
// immutable, hash-consed, and owned by exactly one TypeUniverse: two types
// constructed from equal arguments are the same Go pointer, so `==` on Type
// values is structural equality.
type Type interface {
	// Repr returns a representative string of the type for purposes of error
	// reporting.
	Repr() string

	// equals and hash are the internal, per-variant implementations used by
	// the universe's interning table.  They should NEVER be called directly
	// except by the universe.  Since every constructor argument is itself
	// already interned, child comparisons reduce to pointer identity.
	equals(other Type) bool
	hash() uint64
}

// Per-variant hash seeds.  The discriminant is folded into every hash so that
// different variants with identical children do not collide.
const (
	hashSeedPrim uint64 = iota + 0x9e3779b97f4a7c15
	hashSeedTuple
	hashSeedSizedArray
	hashSeedUnsizedArray
	hashSeedPtr
	hashSeedRef
	hashSeedFunc
	hashSeedApp
	hashSeedBottom
	hashSeedTop
	hashSeedNoRet
	hashSeedError
	hashSeedTypeVar
	hashSeedForall
	hashSeedNominal
)

// hashCombine folds a value into a running FNV-style hash.
func hashCombine(h, x uint64) uint64 {
	return (h ^ x) * 0x100000001b3
}

// hashTypes folds a sequence of interned types into a hash.
func hashTypes(h uint64, ts []Type) uint64 {
	for _, t := range ts {
		h = hashCombine(h, t.hash())
	}

	return h
}

/* -------------------------------------------------------------------------- */

// PrimKind identifies a primitive type.  It must be one of the enumerated
// primitive kinds below.
type PrimKind int

// Enumeration of the different primitive kinds.
const (
	PrimBool PrimKind = iota
	PrimI8
	PrimI16
	PrimI32
	PrimI64
	PrimU8
	PrimU16
	PrimU32
	PrimU64
	PrimF16
	PrimF32
	PrimF64
)

// IsIntegral returns whether this primitive kind is an integral kind.
func (pk PrimKind) IsIntegral() bool {
	return PrimI8 <= pk && pk <= PrimU64
}

// IsFloating returns whether this primitive kind is a floating-point kind.
func (pk PrimKind) IsFloating() bool {
	return PrimF16 <= pk && pk <= PrimF64
}

// IsSigned returns whether this primitive kind is a signed integral kind.
func (pk PrimKind) IsSigned() bool {
	return PrimI8 <= pk && pk <= PrimI64
}

// BitSize returns the width of this primitive kind in bits.
func (pk PrimKind) BitSize() int {
	switch pk {
	case PrimBool:
		return 1
	case PrimI8, PrimU8:
		return 8
	case PrimI16, PrimU16, PrimF16:
		return 16
	case PrimI32, PrimU32, PrimF32:
		return 32
	default:
		return 64
	}
}

func (pk PrimKind) String() string {
	switch pk {
	case PrimBool:
		return "bool"
	case PrimF16, PrimF32, PrimF64:
		return fmt.Sprintf("f%d", pk.BitSize())
	default:
		if pk.IsSigned() {
			return fmt.Sprintf("i%d", pk.BitSize())
		}

		return fmt.Sprintf("u%d", pk.BitSize())
	}
}

// PrimType represents a primitive type.
type PrimType struct {
	Kind PrimKind
}

func (pt *PrimType) Repr() string {
	return pt.Kind.String()
}

func (pt *PrimType) equals(other Type) bool {
	opt, ok := other.(*PrimType)
	return ok && pt.Kind == opt.Kind
}

func (pt *PrimType) hash() uint64 {
	return hashCombine(hashSeedPrim, uint64(pt.Kind))
}

/* -------------------------------------------------------------------------- */

// TupleType represents a tuple type.  The empty tuple is the unit type.
type TupleType struct {
	// The element types of the tuple in order.
	Elems []Type
}

func (tt *TupleType) Repr() string {
	return "(" + strings.Join(lo.Map(tt.Elems, func(t Type, _ int) string {
		return t.Repr()
	}), ", ") + ")"
}

func (tt *TupleType) equals(other Type) bool {
	ott, ok := other.(*TupleType)
	if !ok || len(tt.Elems) != len(ott.Elems) {
		return false
	}

	for i, elem := range tt.Elems {
		if elem != ott.Elems[i] {
			return false
		}
	}

	return true
}

func (tt *TupleType) hash() uint64 {
	return hashTypes(hashCombine(hashSeedTuple, uint64(len(tt.Elems))), tt.Elems)
}

/* -------------------------------------------------------------------------- */

// SizedArrayType represents an array type with a statically known size.
type SizedArrayType struct {
	// The element type of the array.
	Elem Type

	// The number of elements in the array.
	Size int

	// Whether the array is a SIMD vector.
	IsSimd bool
}

func (sat *SizedArrayType) Repr() string {
	if sat.IsSimd {
		return fmt.Sprintf("simd[%s; %d]", sat.Elem.Repr(), sat.Size)
	}

	return fmt.Sprintf("[%s; %d]", sat.Elem.Repr(), sat.Size)
}

func (sat *SizedArrayType) equals(other Type) bool {
	oat, ok := other.(*SizedArrayType)
	return ok && sat.Elem == oat.Elem && sat.Size == oat.Size && sat.IsSimd == oat.IsSimd
}

func (sat *SizedArrayType) hash() uint64 {
	h := hashCombine(hashSeedSizedArray, sat.Elem.hash())
	h = hashCombine(h, uint64(sat.Size))
	if sat.IsSimd {
		h = hashCombine(h, 1)
	}

	return h
}

// UnsizedArrayType represents an array type whose size is not statically
// known.  Values of this type may only exist behind a pointer or reference.
type UnsizedArrayType struct {
	// The element type of the array.
	Elem Type
}

func (uat *UnsizedArrayType) Repr() string {
	return "[" + uat.Elem.Repr() + "]"
}

func (uat *UnsizedArrayType) equals(other Type) bool {
	oat, ok := other.(*UnsizedArrayType)
	return ok && uat.Elem == oat.Elem
}

func (uat *UnsizedArrayType) hash() uint64 {
	return hashCombine(hashSeedUnsizedArray, uat.Elem.hash())
}

/* -------------------------------------------------------------------------- */

// addrRepr renders the shared pointer/reference suffix of PtrType and RefType.
func addrRepr(sigil string, pointee Type, mut bool, addrSpace int) string {
	sb := strings.Builder{}
	sb.WriteString(sigil)

	if mut {
		sb.WriteString("mut ")
	}

	sb.WriteString(pointee.Repr())

	if addrSpace != 0 {
		sb.WriteString(fmt.Sprintf(" in %d", addrSpace))
	}

	return sb.String()
}

// PtrType represents a pointer type with an address space.  Address space 0
// is the generic address space.
type PtrType struct {
	// The pointed-to type.
	Pointee Type

	// Whether the pointee may be mutated through this pointer.
	Mut bool

	// The address space the pointee lives in.
	AddrSpace int
}

func (pt *PtrType) Repr() string {
	return addrRepr("*", pt.Pointee, pt.Mut, pt.AddrSpace)
}

func (pt *PtrType) equals(other Type) bool {
	opt, ok := other.(*PtrType)
	return ok && pt.Pointee == opt.Pointee && pt.Mut == opt.Mut && pt.AddrSpace == opt.AddrSpace
}

func (pt *PtrType) hash() uint64 {
	h := hashCombine(hashSeedPtr, pt.Pointee.hash())
	if pt.Mut {
		h = hashCombine(h, 1)
	}

	return hashCombine(h, uint64(pt.AddrSpace))
}

// RefType represents a reference type with an address space.  References
// auto-dereference during subtyping.
type RefType struct {
	// The referenced type.
	Pointee Type

	// Whether the referent may be mutated through this reference.
	Mut bool

	// The address space the referent lives in.
	AddrSpace int
}

func (rt *RefType) Repr() string {
	return addrRepr("&", rt.Pointee, rt.Mut, rt.AddrSpace)
}

func (rt *RefType) equals(other Type) bool {
	ort, ok := other.(*RefType)
	return ok && rt.Pointee == ort.Pointee && rt.Mut == ort.Mut && rt.AddrSpace == ort.AddrSpace
}

func (rt *RefType) hash() uint64 {
	h := hashCombine(hashSeedRef, rt.Pointee.hash())
	if rt.Mut {
		h = hashCombine(h, 1)
	}

	return hashCombine(h, uint64(rt.AddrSpace))
}

/* -------------------------------------------------------------------------- */

// FuncType represents a function type.  The domain is a single type: functions
// of several parameters take a tuple.  A codomain of NoRetType marks a
// continuation: a function that never returns in direct style.
type FuncType struct {
	// The domain (parameter) type of the function.
	Dom Type

	// The codomain (return) type of the function.
	Codom Type
}

func (ft *FuncType) Repr() string {
	if _, ok := ft.Codom.(*NoRetType); ok {
		return "cn " + ft.Dom.Repr()
	}

	return "fn " + ft.Dom.Repr() + " -> " + ft.Codom.Repr()
}

func (ft *FuncType) equals(other Type) bool {
	oft, ok := other.(*FuncType)
	return ok && ft.Dom == oft.Dom && ft.Codom == oft.Codom
}

func (ft *FuncType) hash() uint64 {
	return hashCombine(hashCombine(hashSeedFunc, ft.Dom.hash()), ft.Codom.hash())
}

/* -------------------------------------------------------------------------- */

// AppType represents the application of a nominal, parameterized type to a
// sequence of type arguments.  Alias applications never intern an AppType:
// the universe rewrites them to the substituted alias body.
type AppType struct {
	// The applied nominal type.
	Applied Type

	// The ordered type arguments.
	Args []Type
}

func (at *AppType) Repr() string {
	return at.Applied.Repr() + "[" + strings.Join(lo.Map(at.Args, func(t Type, _ int) string {
		return t.Repr()
	}), ", ") + "]"
}

func (at *AppType) equals(other Type) bool {
	oat, ok := other.(*AppType)
	if !ok || at.Applied != oat.Applied || len(at.Args) != len(oat.Args) {
		return false
	}

	for i, arg := range at.Args {
		if arg != oat.Args[i] {
			return false
		}
	}

	return true
}

func (at *AppType) hash() uint64 {
	return hashTypes(hashCombine(hashSeedApp, at.Applied.hash()), at.Args)
}

/* -------------------------------------------------------------------------- */

// BottomType is the type with no values: a subtype of every type.
type BottomType struct{}

func (*BottomType) Repr() string { return "never" }

func (bt *BottomType) equals(o Type) bool { _, ok := o.(*BottomType); return ok }

func (*BottomType) hash() uint64 { return hashSeedBottom }

// TopType is the supertype of every type.
type TopType struct{}

func (*TopType) Repr() string { return "any" }

func (tt *TopType) equals(o Type) bool { _, ok := o.(*TopType); return ok }

func (*TopType) hash() uint64 { return hashSeedTop }

// NoRetType is the codomain marker for continuations: functions that never
// return in direct style.
type NoRetType struct{}

func (*NoRetType) Repr() string { return "!" }

func (nt *NoRetType) equals(o Type) bool { _, ok := o.(*NoRetType); return ok }

func (*NoRetType) hash() uint64 { return hashSeedNoRet }

// ErrorType is the absorbing type produced when checking fails.  Operations
// on it produce it again without further reports so one error does not
// cascade into noise.
type ErrorType struct{}

func (*ErrorType) Repr() string { return "<error>" }

func (et *ErrorType) equals(o Type) bool { _, ok := o.(*ErrorType); return ok }

func (*ErrorType) hash() uint64 { return hashSeedError }

/* -------------------------------------------------------------------------- */

// TypeVar represents a type variable.  Type variables are interned by the
// identity of their declaring type parameter, not by name.
type TypeVar struct {
	// The declaring type parameter.  Compared by identity only; the universe
	// never dereferences it.
	Param any

	// The display name of the variable.
	Name string

	id uint64
}

func (tv *TypeVar) Repr() string {
	return tv.Name
}

func (tv *TypeVar) equals(other Type) bool {
	otv, ok := other.(*TypeVar)
	return ok && tv.Param == otv.Param
}

func (tv *TypeVar) hash() uint64 {
	return hashCombine(hashSeedTypeVar, tv.id)
}

/* -------------------------------------------------------------------------- */

// ForallType represents the polymorphic type of a generic function.  It is
// interned by the identity of the declaring function.
type ForallType struct {
	// The declaring function.  Compared by identity only.
	Decl any

	// The display name of the declaring function.
	Name string

	// The bound type variables, in declaration order.
	Params []*TypeVar

	// The body of the polymorphic type.  Set once after construction since
	// the body may mention the forall's own variables.
	body Type

	id uint64
}

// Body returns the body of the polymorphic type.
func (ft *ForallType) Body() Type {
	return ft.body
}

func (ft *ForallType) Repr() string {
	params := strings.Join(lo.Map(ft.Params, func(tv *TypeVar, _ int) string {
		return tv.Name
	}), ", ")

	if ft.body == nil {
		return "forall [" + params + "] ..."
	}

	return "forall [" + params + "] " + ft.body.Repr()
}

func (ft *ForallType) equals(other Type) bool {
	oft, ok := other.(*ForallType)
	return ok && ft.Decl == oft.Decl
}

func (ft *ForallType) hash() uint64 {
	return hashCombine(hashSeedForall, ft.id)
}

/* -------------------------------------------------------------------------- */

// AliasType represents a defined type alias.  Aliases are transparent: the
// universe rewrites every application of an alias to the substituted alias
// body, so aliases never appear inside normalized types.
type AliasType struct {
	// The declaring alias definition.  Compared by identity only.
	Decl any

	// The display name of the alias.
	Name string

	// The alias's type parameters, in declaration order.
	Params []*TypeVar

	// The aliased body.  Set once after construction.
	body Type

	id uint64
}

// Body returns the aliased type.
func (at *AliasType) Body() Type {
	return at.body
}

// ReplaceMapFor builds the substitution mapping the alias's parameters to the
// given type arguments.
func (at *AliasType) ReplaceMapFor(args []Type) ReplaceMap {
	m := make(ReplaceMap, len(at.Params))
	for i, param := range at.Params {
		if i < len(args) {
			m[param] = args[i]
		}
	}

	return m
}

func (at *AliasType) Repr() string {
	return at.Name
}

func (at *AliasType) equals(other Type) bool {
	oat, ok := other.(*AliasType)
	return ok && at.Decl == oat.Decl
}

func (at *AliasType) hash() uint64 {
	return hashCombine(hashSeedNominal, at.id)
}
