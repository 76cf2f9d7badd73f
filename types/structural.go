package types

// ReplaceMap is a finite substitution from type variables to types, keyed by
// variable identity.  It is used to instantiate polymorphic types and to
// rewrite alias bodies.
type ReplaceMap map[*TypeVar]Type

// appReplaceMap builds the substitution mapping the applied type's parameters
// to the application's arguments.
func appReplaceMap(at *AppType) ReplaceMap {
	ct, ok := at.Applied.(ComplexType)
	if !ok {
		return nil
	}

	params := ct.TypeParams()
	m := make(ReplaceMap, len(params))
	for i, param := range params {
		if i < len(at.Args) {
			m[param] = at.Args[i]
		}
	}

	return m
}

// AppliedComplex returns the complex type applied by at, if any.
func AppliedComplex(at *AppType) (ComplexType, bool) {
	ct, ok := at.Applied.(ComplexType)
	return ct, ok
}

// AppliedMemberType returns the i-th member type of an application's applied
// complex type, instantiated with the application's type arguments.
func (u *TypeUniverse) AppliedMemberType(at *AppType, i int) Type {
	ct, ok := at.Applied.(ComplexType)
	if !ok {
		return u.ErrorType()
	}

	return u.Replace(ct.MemberType(i), appReplaceMap(at))
}

/* -------------------------------------------------------------------------- */

// Contains returns whether t is target or structurally contains target.
// Nominal member graphs may be cyclic, so recursion through complex types is
// cut by a visited set.  Results for completed top-level queries are
// memoized on the universe.
func (u *TypeUniverse) Contains(t, target Type) bool {
	key := typePair{t, target}
	if res, ok := u.containsMemo[key]; ok {
		return res
	}

	res := u.contains(t, target, make(map[Type]bool))
	u.containsMemo[key] = res
	return res
}

func (u *TypeUniverse) contains(t, target Type, visited map[Type]bool) bool {
	if t == target {
		return true
	}

	if visited[t] {
		return false
	}
	visited[t] = true

	switch v := t.(type) {
	case *TupleType:
		for _, elem := range v.Elems {
			if u.contains(elem, target, visited) {
				return true
			}
		}
	case *SizedArrayType:
		return u.contains(v.Elem, target, visited)
	case *UnsizedArrayType:
		return u.contains(v.Elem, target, visited)
	case *PtrType:
		return u.contains(v.Pointee, target, visited)
	case *RefType:
		return u.contains(v.Pointee, target, visited)
	case *FuncType:
		return u.contains(v.Dom, target, visited) || u.contains(v.Codom, target, visited)
	case *AppType:
		if u.contains(v.Applied, target, visited) {
			return true
		}

		for _, arg := range v.Args {
			if u.contains(arg, target, visited) {
				return true
			}
		}
	case *ForallType:
		if v.body != nil {
			return u.contains(v.body, target, visited)
		}
	case *AliasType:
		if v.body != nil {
			return u.contains(v.body, target, visited)
		}
	case ComplexType:
		for i := 0; i < v.MemberCount(); i++ {
			if u.contains(v.MemberType(i), target, visited) {
				return true
			}
		}
	}

	return false
}

/* -------------------------------------------------------------------------- */

// IsSized returns whether values of t have a statically known size.  A type
// is unsized iff some non-reference path transitively reaches an unsized
// array through a value position; pointer and reference types are always
// sized.  A nominal cycle reached through a value position is infinitely
// large and therefore unsized.
func (u *TypeUniverse) IsSized(t Type) bool {
	if res, ok := u.sizedMemo[t]; ok {
		return res
	}

	res := u.isSized(t, make(map[Type]bool))
	u.sizedMemo[t] = res
	return res
}

func (u *TypeUniverse) isSized(t Type, seen map[Type]bool) bool {
	switch v := t.(type) {
	case *UnsizedArrayType:
		return false
	case *PtrType, *RefType, *FuncType:
		return true
	case *TupleType:
		for _, elem := range v.Elems {
			if !u.isSized(elem, seen) {
				return false
			}
		}

		return true
	case *SizedArrayType:
		return u.isSized(v.Elem, seen)
	case *AppType:
		if seen[t] {
			return false
		}
		seen[t] = true
		defer delete(seen, t)

		ct, ok := v.Applied.(ComplexType)
		if !ok {
			return true
		}

		m := appReplaceMap(v)
		for i := 0; i < ct.MemberCount(); i++ {
			if !u.isSized(u.Replace(ct.MemberType(i), m), seen) {
				return false
			}
		}

		return true
	case *ForallType:
		if v.body == nil {
			return true
		}

		return u.isSized(v.body, seen)
	case *AliasType:
		if v.body == nil {
			return true
		}

		return u.isSized(v.body, seen)
	case ComplexType:
		if seen[t] {
			return false
		}
		seen[t] = true
		defer delete(seen, t)

		for i := 0; i < v.MemberCount(); i++ {
			if !u.isSized(v.MemberType(i), seen) {
				return false
			}
		}

		return true
	default:
		// Primitives, singletons, and type variables.
		return true
	}
}

/* -------------------------------------------------------------------------- */

// Order returns the higher-order depth of t: zero for first-order data, and
// one more than the deeper of domain and codomain for each function arrow.
// Container types propagate the maximum of their parts; nominal types recurse
// through members under a visited set.
func (u *TypeUniverse) Order(t Type) int {
	if res, ok := u.orderMemo[t]; ok {
		return res
	}

	res := u.order(t, make(map[Type]bool))
	u.orderMemo[t] = res
	return res
}

func (u *TypeUniverse) order(t Type, seen map[Type]bool) int {
	switch v := t.(type) {
	case *FuncType:
		return 1 + maxInt(u.order(v.Dom, seen), u.order(v.Codom, seen))
	case *TupleType:
		max := 0
		for _, elem := range v.Elems {
			max = maxInt(max, u.order(elem, seen))
		}

		return max
	case *SizedArrayType:
		return u.order(v.Elem, seen)
	case *UnsizedArrayType:
		return u.order(v.Elem, seen)
	case *PtrType:
		return u.order(v.Pointee, seen)
	case *RefType:
		return u.order(v.Pointee, seen)
	case *AppType:
		if seen[t] {
			return 0
		}
		seen[t] = true

		max := 0
		if ct, ok := v.Applied.(ComplexType); ok {
			for i := 0; i < ct.MemberCount(); i++ {
				max = maxInt(max, u.order(ct.MemberType(i), seen))
			}
		}

		for _, arg := range v.Args {
			max = maxInt(max, u.order(arg, seen))
		}

		return max
	case *ForallType:
		if v.body == nil {
			return 0
		}

		return u.order(v.body, seen)
	case *AliasType:
		if v.body == nil {
			return 0
		}

		return u.order(v.body, seen)
	case ComplexType:
		if seen[t] {
			return 0
		}
		seen[t] = true

		max := 0
		for i := 0; i < v.MemberCount(); i++ {
			max = maxInt(max, u.order(v.MemberType(i), seen))
		}

		return max
	default:
		return 0
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}

/* -------------------------------------------------------------------------- */

// Replace rewrites t under the given substitution.  Type variables present in
// the map are replaced; structural types are rebuilt through the universe so
// the result is interned; nominal types are the identity under replacement —
// their parameters are captured through enclosing applications.  Sharing
// within a single call is preserved by a local cache.
func (u *TypeUniverse) Replace(t Type, m ReplaceMap) Type {
	if len(m) == 0 {
		return t
	}

	return u.replace(t, m, make(map[Type]Type))
}

func (u *TypeUniverse) replace(t Type, m ReplaceMap, cache map[Type]Type) Type {
	if cached, ok := cache[t]; ok {
		return cached
	}

	var res Type

	switch v := t.(type) {
	case *TypeVar:
		if mapped, ok := m[v]; ok {
			res = mapped
		} else {
			res = v
		}
	case *TupleType:
		elems := make([]Type, len(v.Elems))
		for i, elem := range v.Elems {
			elems[i] = u.replace(elem, m, cache)
		}

		res = u.TupleType(elems)
	case *SizedArrayType:
		res = u.SizedArrayType(u.replace(v.Elem, m, cache), v.Size, v.IsSimd)
	case *UnsizedArrayType:
		res = u.UnsizedArrayType(u.replace(v.Elem, m, cache))
	case *PtrType:
		res = u.PtrType(u.replace(v.Pointee, m, cache), v.Mut, v.AddrSpace)
	case *RefType:
		res = u.RefType(u.replace(v.Pointee, m, cache), v.Mut, v.AddrSpace)
	case *FuncType:
		res = u.FuncType(u.replace(v.Dom, m, cache), u.replace(v.Codom, m, cache))
	case *AppType:
		args := make([]Type, len(v.Args))
		for i, arg := range v.Args {
			args[i] = u.replace(arg, m, cache)
		}

		res = u.TypeApp(u.replace(v.Applied, m, cache), args)
	default:
		// Nominal types, primitives, and singletons.
		res = t
	}

	cache[t] = res
	return res
}
