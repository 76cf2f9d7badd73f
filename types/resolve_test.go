package types

import "testing"

// newTrait creates a trait with a single type parameter for resolver tests.
func newTrait(u *TypeUniverse, name string) *TraitType {
	tt := u.TraitType(&declStub{name: name}, name)
	tt.SetTypeParams([]*TypeVar{u.TypeVar(&declStub{name: name + ".T"}, "T")})
	return tt
}

// newImpl creates an impl of the given obligation with optional where
// clauses, registered in mod.
func newImpl(u *TypeUniverse, r *ImplResolver, name string, mod any, impled Type, clauses ...Type) *ImplType {
	it := u.ImplType(&declStub{name: name}, name)
	it.SetImpledType(impled, mod)
	it.SetWhereClauses(clauses)
	r.RegisterImpl(it)
	return it
}

func TestFindImplDirect(t *testing.T) {
	u := NewTypeUniverse()
	r := NewImplResolver(u)

	i32 := u.PrimType(PrimI32)
	mod := &declStub{name: "M"}
	show := newTrait(u, "Show")

	impl := newImpl(u, r, "impl Show[i32]", mod, u.TypeApp(show, []Type{i32}))

	ctx := &ResolutionContext{Mods: []any{mod}}

	got, ok := r.FindImpl(ctx, u.TypeApp(show, []Type{i32}))
	if !ok || got != Type(impl) {
		t.Fatal("direct impl lookup failed")
	}

	if _, ok := r.FindImpl(ctx, u.TypeApp(show, []Type{u.PrimType(PrimU32)})); ok {
		t.Error("lookup for an unimplemented instantiation should fail")
	}
}

func TestFindImplWithRecursiveBounds(t *testing.T) {
	u := NewTypeUniverse()
	r := NewImplResolver(u)

	i32 := u.PrimType(PrimI32)
	mod := &declStub{name: "M"}
	trait := newTrait(u, "Trait")

	// impl Trait[i32]
	newImpl(u, r, "impl Trait[i32]", mod, u.TypeApp(trait, []Type{i32}))

	// impl Trait[(a, a)] where Trait[a]
	alpha := u.TypeVar(&declStub{name: "a"}, "a")
	pairImpl := newImpl(
		u, r, "impl Trait[(a, a)]", mod,
		u.TypeApp(trait, []Type{u.TupleType([]Type{alpha, alpha})}),
		u.TypeApp(trait, []Type{alpha}),
	)

	ctx := &ResolutionContext{Mods: []any{mod}}

	// Trait[(i32, i32)] unifies the pair impl with a -> i32, then discharges
	// Trait[i32] via the first impl.
	target := u.TypeApp(trait, []Type{u.TupleType([]Type{i32, i32})})
	got, ok := r.FindImpl(ctx, target)
	if !ok || got != Type(pairImpl) {
		t.Fatal("recursive bound resolution failed")
	}

	// Trait[(u32, u32)] matches the pair impl but Trait[u32] has no witness.
	u32 := u.PrimType(PrimU32)
	if _, ok := r.FindImpl(ctx, u.TypeApp(trait, []Type{u.TupleType([]Type{u32, u32})})); ok {
		t.Error("resolution should fail when a where clause has no witness")
	}
}

func TestFindImplWhereClauseAssumption(t *testing.T) {
	u := NewTypeUniverse()
	r := NewImplResolver(u)

	mod := &declStub{name: "M"}
	trait := newTrait(u, "Trait")

	// No impls registered: the obligation is discharged by the enclosing
	// function's own where clause.
	alpha := u.TypeVar(&declStub{name: "a"}, "a")
	clause := u.TypeApp(trait, []Type{alpha})

	ctx := &ResolutionContext{
		WhereClauses: []Type{clause},
		Mods:         []any{mod},
	}

	got, ok := r.FindImpl(ctx, clause)
	if !ok || got != clause {
		t.Fatal("where-clause assumption should discharge its own obligation")
	}
}

func TestFindImplRegistrationOrder(t *testing.T) {
	u := NewTypeUniverse()
	r := NewImplResolver(u)

	i32 := u.PrimType(PrimI32)
	mod := &declStub{name: "M"}
	trait := newTrait(u, "Trait")

	// Two overlapping impls: the first registered wins.
	first := newImpl(u, r, "first", mod, u.TypeApp(trait, []Type{i32}))
	newImpl(u, r, "second", mod, u.TypeApp(trait, []Type{i32}))

	ctx := &ResolutionContext{Mods: []any{mod}}

	got, ok := r.FindImpl(ctx, u.TypeApp(trait, []Type{i32}))
	if !ok || got != Type(first) {
		t.Error("candidates should be searched in registration order")
	}
}

func TestFindImplInnermostModuleFirst(t *testing.T) {
	u := NewTypeUniverse()
	r := NewImplResolver(u)

	i32 := u.PrimType(PrimI32)
	inner := &declStub{name: "inner"}
	outer := &declStub{name: "outer"}
	trait := newTrait(u, "Trait")

	outerImpl := newImpl(u, r, "outer impl", outer, u.TypeApp(trait, []Type{i32}))
	innerImpl := newImpl(u, r, "inner impl", inner, u.TypeApp(trait, []Type{i32}))

	// From inside the inner module, its impl shadows the outer one.
	ctx := &ResolutionContext{Mods: []any{inner, outer}}
	if got, ok := r.FindImpl(ctx, u.TypeApp(trait, []Type{i32})); !ok || got != Type(innerImpl) {
		t.Error("the innermost module's impl should win")
	}

	// From the outer module only the outer impl is visible.
	ctx = &ResolutionContext{Mods: []any{outer}}
	if got, ok := r.FindImpl(ctx, u.TypeApp(trait, []Type{i32})); !ok || got != Type(outerImpl) {
		t.Error("the outer module's impl should be found from the outer module")
	}
}

func TestFindImplSelfReferentialClauseTerminates(t *testing.T) {
	u := NewTypeUniverse()
	r := NewImplResolver(u)

	i32 := u.PrimType(PrimI32)
	mod := &declStub{name: "M"}
	trait := newTrait(u, "Foo")

	// impl Foo[i32] where Foo[i32]: pathological, but must terminate.
	obligation := u.TypeApp(trait, []Type{i32})
	newImpl(u, r, "impl Foo[i32] where Foo[i32]", mod, obligation, obligation)

	ctx := &ResolutionContext{Mods: []any{mod}}

	if _, ok := r.FindImpl(ctx, obligation); ok {
		t.Error("a self-justifying impl should not resolve")
	}
}

func TestFindImplNonTraitTarget(t *testing.T) {
	u := NewTypeUniverse()
	r := NewImplResolver(u)

	ctx := &ResolutionContext{Mods: []any{&declStub{name: "M"}}}

	if _, ok := r.FindImpl(ctx, u.PrimType(PrimI32)); ok {
		t.Error("a non-trait obligation should not resolve")
	}
}
