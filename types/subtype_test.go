package types

import "testing"

func TestSubtypePrimViaReference(t *testing.T) {
	u := NewTypeUniverse()

	i32 := u.PrimType(PrimI32)
	ref := u.RefType(i32, false, 0)

	if !u.Subtype(ref, i32) {
		t.Error("&i32 should be a subtype of i32 (auto-dereference)")
	}

	if u.Subtype(i32, ref) {
		t.Error("i32 should not be a subtype of &i32")
	}
}

func TestSubtypePointerToArrayCoercion(t *testing.T) {
	u := NewTypeUniverse()

	i32 := u.PrimType(PrimI32)

	sized := u.SizedArrayType(i32, 4, false)
	simd := u.SizedArrayType(i32, 4, true)
	unsized := u.UnsizedArrayType(i32)

	if !u.Subtype(u.PtrType(sized, false, 0), u.PtrType(unsized, false, 0)) {
		t.Error("*[i32; 4] should coerce to *[i32]")
	}

	if u.Subtype(u.PtrType(simd, false, 0), u.PtrType(unsized, false, 0)) {
		t.Error("SIMD arrays should not decay")
	}

	// Mutability: a mutable pointer coerces to an immutable one, never the
	// reverse.
	if !u.Subtype(u.PtrType(i32, true, 0), u.PtrType(i32, false, 0)) {
		t.Error("*mut i32 should coerce to *i32")
	}

	if u.Subtype(u.PtrType(i32, false, 0), u.PtrType(i32, true, 0)) {
		t.Error("*i32 should not coerce to *mut i32")
	}

	// Address spaces do not mix.
	if u.Subtype(u.PtrType(i32, false, 1), u.PtrType(i32, false, 2)) {
		t.Error("pointers in different address spaces should not coerce")
	}

	// A sized array coerces directly to an unsized-array pointer in the
	// generic address space only.
	if !u.Subtype(sized, u.PtrType(unsized, false, 0)) {
		t.Error("[i32; 4] should coerce to *[i32]")
	}

	if u.Subtype(sized, u.PtrType(unsized, false, 1)) {
		t.Error("[i32; 4] should not coerce to *[i32] outside the generic address space")
	}

	// Auto-address: a value coerces to an immutable pointer to itself, but
	// never to a mutable one, and pointers never auto-address.
	if !u.Subtype(i32, u.PtrType(i32, false, 0)) {
		t.Error("i32 should coerce to *i32")
	}

	if u.Subtype(i32, u.PtrType(i32, true, 0)) {
		t.Error("i32 should not coerce to *mut i32")
	}

	p := u.PtrType(i32, false, 0)
	if u.Subtype(p, u.PtrType(p, false, 0)) {
		t.Error("pointer-of-pointer coercion should be disallowed")
	}
}

func TestSubtypeFunctionVariance(t *testing.T) {
	u := NewTypeUniverse()

	top := u.TopType()
	bottom := u.BottomType()

	if !u.Subtype(u.FuncType(top, bottom), u.FuncType(bottom, top)) {
		t.Error("fn any -> never should be a subtype of fn never -> any")
	}

	if u.Subtype(u.FuncType(bottom, top), u.FuncType(top, bottom)) {
		t.Error("fn never -> any should not be a subtype of fn any -> never")
	}
}

func TestSubtypeTuples(t *testing.T) {
	u := NewTypeUniverse()

	i32 := u.PrimType(PrimI32)
	bottom := u.BottomType()

	if !u.Subtype(u.TupleType([]Type{i32, bottom}), u.TupleType([]Type{i32, i32})) {
		t.Error("(i32, never) should be a subtype of (i32, i32)")
	}

	if u.Subtype(u.TupleType([]Type{i32}), u.TupleType([]Type{i32, i32})) {
		t.Error("tuples of different arities should not be subtypes")
	}
}

// subtypeGenerator builds a small closed set of types for the relational
// property checks.
func subtypeGenerator(u *TypeUniverse) []Type {
	i32 := u.PrimType(PrimI32)
	u32 := u.PrimType(PrimU32)
	bottom := u.BottomType()
	top := u.TopType()

	return []Type{
		i32,
		u32,
		bottom,
		top,
		u.UnitType(),
		u.TupleType([]Type{i32, i32}),
		u.TupleType([]Type{bottom, i32}),
		u.TupleType([]Type{i32, top}),
		u.RefType(i32, false, 0),
		u.RefType(u.TupleType([]Type{i32, i32}), false, 0),
		u.PtrType(i32, false, 0),
		u.PtrType(i32, true, 0),
		u.FuncType(i32, i32),
		u.FuncType(top, bottom),
		u.FuncType(bottom, top),
		u.SizedArrayType(i32, 4, false),
		u.PtrType(u.SizedArrayType(i32, 4, false), false, 0),
		u.PtrType(u.UnsizedArrayType(i32), false, 0),
	}
}

func TestSubtypeReflexivity(t *testing.T) {
	u := NewTypeUniverse()

	for _, typ := range subtypeGenerator(u) {
		if !u.Subtype(typ, typ) {
			t.Errorf("`%s` is not a subtype of itself", typ.Repr())
		}
	}
}

func TestSubtypeTransitivity(t *testing.T) {
	u := NewTypeUniverse()

	gen := subtypeGenerator(u)
	for _, a := range gen {
		for _, b := range gen {
			for _, c := range gen {
				if u.Subtype(a, b) && u.Subtype(b, c) && !u.Subtype(a, c) {
					t.Errorf(
						"transitivity violated: `%s` <: `%s` <: `%s` but not `%s` <: `%s`",
						a.Repr(), b.Repr(), c.Repr(), a.Repr(), c.Repr(),
					)
				}
			}
		}
	}
}

func TestJoin(t *testing.T) {
	u := NewTypeUniverse()

	i32 := u.PrimType(PrimI32)
	bottom := u.BottomType()

	pair := u.TupleType([]Type{i32, i32})
	pairBottom := u.TupleType([]Type{i32, bottom})

	if got := u.Join(pairBottom, pair); got != Type(pair) {
		t.Errorf("join((i32, never), (i32, i32)) = `%s`, want `(i32, i32)`", got.Repr())
	}

	if got := u.Join(u.TupleType([]Type{i32}), pair); got != Type(u.TopType()) {
		t.Errorf("join of incomparable tuples = `%s`, want `any`", got.Repr())
	}

	// Both operands are subtypes of their join.
	gen := subtypeGenerator(u)
	for _, a := range gen {
		for _, b := range gen {
			j := u.Join(a, b)
			if !u.Subtype(a, j) || !u.Subtype(b, j) {
				t.Errorf("join(`%s`, `%s`) = `%s` is not an upper bound", a.Repr(), b.Repr(), j.Repr())
			}
		}
	}
}
