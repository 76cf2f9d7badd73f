package types

// implKey identifies a candidate list: all impls of one trait registered in
// one module.
type implKey struct {
	mod   any
	trait *TraitType
}

// ImplResolver resolves trait obligations against the use site's assumed
// where clauses and the impls registered in its enclosing modules.  All
// registration must happen before the first FindImpl; after that the
// candidate map is read-only.
type ImplResolver struct {
	u *TypeUniverse

	// impl candidates in registration order per (module, trait) pair.
	candidates map[implKey][]*ImplType
}

// NewImplResolver creates a new impl resolver over the given universe.
func NewImplResolver(u *TypeUniverse) *ImplResolver {
	return &ImplResolver{
		u:          u,
		candidates: make(map[implKey][]*ImplType),
	}
}

// ResolutionContext captures the use site of a trait obligation: the where
// clauses of its enclosing functions and the identities of its enclosing
// modules, both ordered innermost first.
type ResolutionContext struct {
	// The where-clause types assumed at the use site, innermost first.
	WhereClauses []Type

	// The enclosing module identities, innermost first.
	Mods []any
}

// RegisterImpl adds an impl to the candidate list of its trait within its
// enclosing module.  The impl's impled type and module key must have been
// attached beforehand.
func (r *ImplResolver) RegisterImpl(impl *ImplType) {
	trait, ok := traitOf(impl.ImpledType())
	if !ok {
		return
	}

	key := implKey{mod: impl.ModKey(), trait: trait}
	r.candidates[key] = append(r.candidates[key], impl)
}

// traitOf extracts the trait nominal from an obligation: either a bare trait
// type or an application over one.
func traitOf(target Type) (*TraitType, bool) {
	switch v := target.(type) {
	case *TraitType:
		return v, true
	case *AppType:
		if tt, ok := v.Applied.(*TraitType); ok {
			return tt, true
		}
	}

	return nil, false
}

// FindImpl finds a witness for the given trait obligation at the given use
// site.  Enclosing functions' where clauses are consulted first: a clause
// equal to the target discharges the obligation by assumption.  Otherwise
// the registered impls of the target's trait are tried module by module,
// innermost first, in registration order within each module; the first impl
// whose impled type unifies with the target and whose own where clauses all
// resolve recursively is the witness.
//
// The search returns the first match without reporting ambiguity; callers
// that require uniqueness must iterate candidates themselves.
func (r *ImplResolver) FindImpl(ctx *ResolutionContext, target Type) (Type, bool) {
	return r.findImpl(ctx, target, make(map[Type]bool))
}

func (r *ImplResolver) findImpl(ctx *ResolutionContext, target Type, visiting map[Type]bool) (Type, bool) {
	trait, ok := traitOf(target)
	if !ok {
		return nil, false
	}

	// A self-referential clause chain (eg. `impl Foo[T] where Foo[T]`) would
	// recurse forever; an obligation already in progress cannot discharge
	// itself.
	if visiting[target] {
		return nil, false
	}
	visiting[target] = true
	defer delete(visiting, target)

	// Assumptions from the enclosing functions' where clauses are discharged
	// by the caller's environment.
	for _, clause := range ctx.WhereClauses {
		if clause == target {
			return clause, true
		}
	}

	for _, mod := range ctx.Mods {
		for _, impl := range r.candidates[implKey{mod: mod, trait: trait}] {
			m := make(ReplaceMap)
			if !r.u.Unify(impl.ImpledType(), target, m) {
				continue
			}

			if r.dischargeClauses(ctx, impl, m, visiting) {
				return impl, true
			}
		}
	}

	return nil, false
}

// dischargeClauses recursively resolves every where clause of a chosen impl
// under the unifying substitution.
func (r *ImplResolver) dischargeClauses(ctx *ResolutionContext, impl *ImplType, m ReplaceMap, visiting map[Type]bool) bool {
	for _, clause := range impl.WhereClauses() {
		obligation := r.u.Replace(clause, m)
		if _, ok := r.findImpl(ctx, obligation, visiting); !ok {
			return false
		}
	}

	return true
}
