package types

import "testing"

func TestVarianceFunction(t *testing.T) {
	u := NewTypeUniverse()

	x := u.TypeVar(&declStub{name: "X"}, "X")
	y := u.TypeVar(&declStub{name: "Y"}, "Y")

	// fn X -> Y entered covariantly: X is contravariant, Y covariant.
	vars := make(map[*TypeVar]TypeVariance)
	u.Variance(u.FuncType(x, y), vars, true)

	if vars[x] != Contravariant {
		t.Errorf("domain variable recorded %s, want contravariant", vars[x])
	}

	if vars[y] != Covariant {
		t.Errorf("codomain variable recorded %s, want covariant", vars[y])
	}
}

func TestVarianceDoubleFlip(t *testing.T) {
	u := NewTypeUniverse()

	x := u.TypeVar(&declStub{name: "X"}, "X")
	unit := u.UnitType()

	// fn (fn X -> ()) -> (): X sits under two domain flips, restoring
	// covariance.
	vars := make(map[*TypeVar]TypeVariance)
	u.Variance(u.FuncType(u.FuncType(x, unit), unit), vars, true)

	if vars[x] != Covariant {
		t.Errorf("doubly flipped variable recorded %s, want covariant", vars[x])
	}
}

func TestVarianceInvariant(t *testing.T) {
	u := NewTypeUniverse()

	x := u.TypeVar(&declStub{name: "X"}, "X")

	// fn X -> X: X appears in both directions.
	vars := make(map[*TypeVar]TypeVariance)
	u.Variance(u.FuncType(x, x), vars, true)

	if vars[x] != Invariant {
		t.Errorf("two-direction variable recorded %s, want invariant", vars[x])
	}
}

func TestVarianceDefault(t *testing.T) {
	u := NewTypeUniverse()

	x := u.TypeVar(&declStub{name: "X"}, "X")

	// A variable the analysis never encounters defaults to covariant.
	vars := make(map[*TypeVar]TypeVariance)
	u.Variance(u.PrimType(PrimI32), vars, true)

	if _, ok := vars[x]; ok {
		t.Error("unencountered variable should be absent from the record")
	}

	if VarianceOf(vars, x) != Covariant {
		t.Error("unencountered variable should default to covariant")
	}
}

func TestVarianceContainers(t *testing.T) {
	u := NewTypeUniverse()

	x := u.TypeVar(&declStub{name: "X"}, "X")

	// Containers propagate the direction unchanged.
	for _, typ := range []Type{
		u.TupleType([]Type{x, u.PrimType(PrimI32)}),
		u.SizedArrayType(x, 2, false),
		u.UnsizedArrayType(x),
		u.PtrType(x, false, 0),
		u.RefType(x, true, 0),
	} {
		vars := make(map[*TypeVar]TypeVariance)
		u.Variance(typ, vars, true)

		if vars[x] != Covariant {
			t.Errorf("`%s`: recorded %s, want covariant", typ.Repr(), vars[x])
		}
	}
}

/* -------------------------------------------------------------------------- */

func TestBoundsContributions(t *testing.T) {
	u := NewTypeUniverse()

	i32 := u.PrimType(PrimI32)
	x := u.TypeVar(&declStub{name: "X"}, "X")

	// A covariant occurrence contributes [target, any].
	bounds := make(map[*TypeVar]TypeBounds)
	if !u.Bounds(x, bounds, i32, true) {
		t.Fatal("bounds against a variable leaf failed")
	}

	if b := bounds[x]; b.Lower != Type(i32) || b.Upper != Type(u.TopType()) {
		t.Errorf("covariant bounds [%s, %s], want [i32, any]", b.Lower.Repr(), b.Upper.Repr())
	}

	// A contravariant occurrence contributes [never, target].
	bounds = make(map[*TypeVar]TypeBounds)
	if !u.Bounds(x, bounds, i32, false) {
		t.Fatal("bounds against a variable leaf failed")
	}

	if b := bounds[x]; b.Lower != Type(u.BottomType()) || b.Upper != Type(i32) {
		t.Errorf("contravariant bounds [%s, %s], want [never, i32]", b.Lower.Repr(), b.Upper.Repr())
	}
}

func TestBoundsFunctionTarget(t *testing.T) {
	u := NewTypeUniverse()

	i32 := u.PrimType(PrimI32)
	u32 := u.PrimType(PrimU32)
	x := u.TypeVar(&declStub{name: "X"}, "X")

	// fn X -> X against fn i32 -> u32: the domain contributes an upper bound
	// of i32 and the codomain a lower bound of u32; the interval [u32, i32]
	// admits no instantiation, which shows in its unordered endpoints.
	bounds := make(map[*TypeVar]TypeBounds)
	if !u.Bounds(u.FuncType(x, x), bounds, u.FuncType(i32, u32), true) {
		t.Fatal("bounds destructuring failed")
	}

	b := bounds[x]
	if b.Lower != Type(u32) || b.Upper != Type(i32) {
		t.Errorf("bounds [%s, %s], want [u32, i32]", b.Lower.Repr(), b.Upper.Repr())
	}

	if u.Subtype(b.Lower, b.Upper) {
		t.Error("interval should be unsatisfiable")
	}
}

func TestBoundsMismatch(t *testing.T) {
	u := NewTypeUniverse()

	i32 := u.PrimType(PrimI32)
	x := u.TypeVar(&declStub{name: "X"}, "X")

	if u.Bounds(u.TupleType([]Type{x}), make(map[*TypeVar]TypeBounds), i32, true) {
		t.Error("bounds against a mismatched target should fail")
	}
}

func TestMeetBounds(t *testing.T) {
	u := NewTypeUniverse()

	i32 := u.PrimType(PrimI32)
	u32 := u.PrimType(PrimU32)
	top := u.TopType()
	bottom := u.BottomType()

	testCases := []struct {
		name string
		a, b TypeBounds
		want TypeBounds
	}{
		{
			"TightensLower",
			TypeBounds{Lower: bottom, Upper: top},
			TypeBounds{Lower: i32, Upper: top},
			TypeBounds{Lower: i32, Upper: top},
		},
		{
			"TightensUpper",
			TypeBounds{Lower: bottom, Upper: top},
			TypeBounds{Lower: bottom, Upper: i32},
			TypeBounds{Lower: bottom, Upper: i32},
		},
		{
			"IncompatibleLowers",
			TypeBounds{Lower: i32, Upper: top},
			TypeBounds{Lower: u32, Upper: top},
			TypeBounds{Lower: top, Upper: top},
		},
		{
			"IncompatibleUppers",
			TypeBounds{Lower: bottom, Upper: i32},
			TypeBounds{Lower: bottom, Upper: u32},
			TypeBounds{Lower: bottom, Upper: bottom},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := u.MeetBounds(tc.a, tc.b)
			if got.Lower != tc.want.Lower || got.Upper != tc.want.Upper {
				t.Errorf(
					"meet = [%s, %s], want [%s, %s]",
					got.Lower.Repr(), got.Upper.Repr(), tc.want.Lower.Repr(), tc.want.Upper.Repr(),
				)
			}
		})
	}
}
