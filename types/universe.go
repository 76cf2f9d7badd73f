package types

import "velac/report"

// TypeUniverse owns every Type.  It is the sole factory for types: each
// constructor interns its result so that pointer identity coincides with
// structural equality.  Structural variants are interned by content; nominal
// variants by the identity of the referenced declaration.  All types live for
// the lifetime of the universe; nothing deletes a type individually.
//
// The universe is single threaded: all operations on it, the resolver, and
// the checker run on one goroutine.
type TypeUniverse struct {
	// buckets is the interning table for structural variants, keyed by hash.
	buckets map[uint64][]Type

	// Cached primitive and singleton types.
	prims     map[PrimKind]*PrimType
	unit      *TupleType
	bottom    *BottomType
	top       *TopType
	noRet     *NoRetType
	typeError *ErrorType

	// Nominal interning tables, keyed by declaration identity.
	typeVars map[any]*TypeVar
	foralls  map[any]*ForallType
	structs  map[any]*StructType
	enums    map[any]*EnumType
	traits   map[any]*TraitType
	impls    map[any]*ImplType
	mods     map[any]*ModType
	aliases  map[any]*AliasType

	// nextID numbers nominal types for hashing.
	nextID uint64

	// Memo tables for the structural queries.
	sizedMemo    map[Type]bool
	orderMemo    map[Type]int
	containsMemo map[typePair]bool
}

type typePair struct {
	t, target Type
}

// NewTypeUniverse creates a new, empty type universe.
func NewTypeUniverse() *TypeUniverse {
	return &TypeUniverse{
		buckets:      make(map[uint64][]Type),
		prims:        make(map[PrimKind]*PrimType),
		typeVars:     make(map[any]*TypeVar),
		foralls:      make(map[any]*ForallType),
		structs:      make(map[any]*StructType),
		enums:        make(map[any]*EnumType),
		traits:       make(map[any]*TraitType),
		impls:        make(map[any]*ImplType),
		mods:         make(map[any]*ModType),
		aliases:      make(map[any]*AliasType),
		sizedMemo:    make(map[Type]bool),
		orderMemo:    make(map[Type]int),
		containsMemo: make(map[typePair]bool),
	}
}

// intern returns the canonical instance of t, storing t if it is new.
func (u *TypeUniverse) intern(t Type) Type {
	h := t.hash()

	for _, existing := range u.buckets[h] {
		if existing.equals(t) {
			return existing
		}
	}

	u.buckets[h] = append(u.buckets[h], t)
	return t
}

// nominalID hands out the next nominal identity.
func (u *TypeUniverse) nominalID() uint64 {
	u.nextID++
	return u.nextID
}

/* -------------------------------------------------------------------------- */

// PrimType returns the primitive type of the given kind.
func (u *TypeUniverse) PrimType(kind PrimKind) *PrimType {
	if pt, ok := u.prims[kind]; ok {
		return pt
	}

	pt := &PrimType{Kind: kind}
	u.prims[kind] = pt
	u.buckets[pt.hash()] = append(u.buckets[pt.hash()], pt)
	return pt
}

// BoolType returns the boolean primitive type.
func (u *TypeUniverse) BoolType() *PrimType {
	return u.PrimType(PrimBool)
}

// UnitType returns the unit type: the empty tuple.
func (u *TypeUniverse) UnitType() *TupleType {
	if u.unit == nil {
		u.unit = u.TupleType(nil)
	}

	return u.unit
}

// TupleType returns the tuple type over the given element types.
func (u *TypeUniverse) TupleType(elems []Type) *TupleType {
	return u.intern(&TupleType{Elems: elems}).(*TupleType)
}

// SizedArrayType returns the array type with the given element type and
// statically known size.
func (u *TypeUniverse) SizedArrayType(elem Type, size int, isSimd bool) *SizedArrayType {
	if size < 0 {
		report.ReportICE("sized array with negative size %d", size)
	}

	return u.intern(&SizedArrayType{Elem: elem, Size: size, IsSimd: isSimd}).(*SizedArrayType)
}

// UnsizedArrayType returns the array type with the given element type and no
// statically known size.
func (u *TypeUniverse) UnsizedArrayType(elem Type) *UnsizedArrayType {
	return u.intern(&UnsizedArrayType{Elem: elem}).(*UnsizedArrayType)
}

// PtrType returns the pointer type over the given pointee.
func (u *TypeUniverse) PtrType(pointee Type, mut bool, addrSpace int) *PtrType {
	return u.intern(&PtrType{Pointee: pointee, Mut: mut, AddrSpace: addrSpace}).(*PtrType)
}

// RefType returns the reference type over the given referent.
func (u *TypeUniverse) RefType(pointee Type, mut bool, addrSpace int) *RefType {
	return u.intern(&RefType{Pointee: pointee, Mut: mut, AddrSpace: addrSpace}).(*RefType)
}

// FuncType returns the function type with the given domain and codomain.
func (u *TypeUniverse) FuncType(dom, codom Type) *FuncType {
	return u.intern(&FuncType{Dom: dom, Codom: codom}).(*FuncType)
}

// CnType returns the continuation type over the given domain: a function
// type whose codomain is the no-return marker.
func (u *TypeUniverse) CnType(dom Type) *FuncType {
	return u.FuncType(dom, u.NoRetType())
}

// BottomType returns the bottom type.
func (u *TypeUniverse) BottomType() *BottomType {
	if u.bottom == nil {
		u.bottom = &BottomType{}
		u.buckets[u.bottom.hash()] = append(u.buckets[u.bottom.hash()], u.bottom)
	}

	return u.bottom
}

// TopType returns the top type.
func (u *TypeUniverse) TopType() *TopType {
	if u.top == nil {
		u.top = &TopType{}
		u.buckets[u.top.hash()] = append(u.buckets[u.top.hash()], u.top)
	}

	return u.top
}

// NoRetType returns the no-return codomain marker.
func (u *TypeUniverse) NoRetType() *NoRetType {
	if u.noRet == nil {
		u.noRet = &NoRetType{}
		u.buckets[u.noRet.hash()] = append(u.buckets[u.noRet.hash()], u.noRet)
	}

	return u.noRet
}

// ErrorType returns the absorbing error type.
func (u *TypeUniverse) ErrorType() *ErrorType {
	if u.typeError == nil {
		u.typeError = &ErrorType{}
		u.buckets[u.typeError.hash()] = append(u.buckets[u.typeError.hash()], u.typeError)
	}

	return u.typeError
}

/* -------------------------------------------------------------------------- */

// TypeVar returns the type variable for the given type-parameter declaration.
func (u *TypeUniverse) TypeVar(param any, name string) *TypeVar {
	if tv, ok := u.typeVars[param]; ok {
		return tv
	}

	tv := &TypeVar{Param: param, Name: name, id: u.nominalID()}
	u.typeVars[param] = tv
	return tv
}

// ForallType returns the polymorphic type for the given function declaration.
func (u *TypeUniverse) ForallType(decl any, name string, params []*TypeVar) *ForallType {
	if ft, ok := u.foralls[decl]; ok {
		return ft
	}

	ft := &ForallType{Decl: decl, Name: name, Params: params, id: u.nominalID()}
	u.foralls[decl] = ft
	return ft
}

// SetForallBody attaches the body of a polymorphic type.  The body is set
// after construction since it may mention the forall's own variables.
func (u *TypeUniverse) SetForallBody(ft *ForallType, body Type) {
	if ft.body != nil {
		report.ReportICE("body of forall `%s` set twice", ft.Name)
	}

	ft.body = body
}

// StructType returns the struct type for the given declaration.
func (u *TypeUniverse) StructType(decl any, name string, tupleLike bool) *StructType {
	if st, ok := u.structs[decl]; ok {
		return st
	}

	st := &StructType{
		complexBase: complexBase{decl: decl, name: name, id: u.nominalID()},
		TupleLike:   tupleLike,
	}
	u.structs[decl] = st
	return st
}

// EnumType returns the enum type for the given declaration.
func (u *TypeUniverse) EnumType(decl any, name string) *EnumType {
	if et, ok := u.enums[decl]; ok {
		return et
	}

	et := &EnumType{complexBase{decl: decl, name: name, id: u.nominalID()}}
	u.enums[decl] = et
	return et
}

// TraitType returns the trait type for the given declaration.
func (u *TypeUniverse) TraitType(decl any, name string) *TraitType {
	if tt, ok := u.traits[decl]; ok {
		return tt
	}

	tt := &TraitType{complexBase{decl: decl, name: name, id: u.nominalID()}}
	u.traits[decl] = tt
	return tt
}

// ImplType returns the impl type for the given declaration.
func (u *TypeUniverse) ImplType(decl any, name string) *ImplType {
	if it, ok := u.impls[decl]; ok {
		return it
	}

	it := &ImplType{complexBase: complexBase{decl: decl, name: name, id: u.nominalID()}}
	u.impls[decl] = it
	return it
}

// ModType returns the module type for the given declaration.
func (u *TypeUniverse) ModType(decl any, name string) *ModType {
	if mt, ok := u.mods[decl]; ok {
		return mt
	}

	mt := &ModType{complexBase: complexBase{decl: decl, name: name, id: u.nominalID()}}
	u.mods[decl] = mt
	return mt
}

// TypeAlias returns the alias type for the given declaration.
func (u *TypeUniverse) TypeAlias(decl any, name string, params []*TypeVar) *AliasType {
	if at, ok := u.aliases[decl]; ok {
		return at
	}

	at := &AliasType{Decl: decl, Name: name, Params: params, id: u.nominalID()}
	u.aliases[decl] = at
	return at
}

// SetAliasBody attaches the body of a type alias.
func (u *TypeUniverse) SetAliasBody(at *AliasType, body Type) {
	if at.body != nil {
		report.ReportICE("body of alias `%s` set twice", at.Name)
	}

	at.body = body
}

// TypeApp applies a nominal type to the given type arguments.  Applications
// of aliases are transparent: the substituted alias body is returned and no
// AppType is interned.  Applying to no arguments returns the applied type
// itself.
func (u *TypeUniverse) TypeApp(applied Type, args []Type) Type {
	if alias, ok := applied.(*AliasType); ok && alias.body != nil {
		return u.Replace(alias.body, alias.ReplaceMapFor(args))
	}

	if len(args) == 0 {
		return applied
	}

	return u.intern(&AppType{Applied: applied, Args: args})
}
