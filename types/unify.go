package types

// Unify attempts to extend m so that from rewritten under m equals to.  It
// returns whether it succeeded; on failure m may hold partial bindings and
// should be discarded.
//
// Unification is one-sided: only the from side carries variables, and a
// variable already bound to a different type fails rather than rebinding.
// Binding a variable to a type that contains it would produce an infinite
// type, so the occurs check rejects it here; the façade reports the error.
// This is deliberately not full first-order unification — it is exactly what
// impl matching needs.
func (u *TypeUniverse) Unify(from, to Type, m ReplaceMap) bool {
	if from == to {
		return true
	}

	switch vf := from.(type) {
	case *TypeVar:
		if existing, ok := m[vf]; ok {
			return existing == to
		}

		if u.Contains(to, vf) {
			return false
		}

		m[vf] = to
		return true
	case *TupleType:
		tt, ok := to.(*TupleType)
		if !ok || len(vf.Elems) != len(tt.Elems) {
			return false
		}

		for i, elem := range vf.Elems {
			if !u.Unify(elem, tt.Elems[i], m) {
				return false
			}
		}

		return true
	case *SizedArrayType:
		st, ok := to.(*SizedArrayType)
		return ok && vf.Size == st.Size && vf.IsSimd == st.IsSimd && u.Unify(vf.Elem, st.Elem, m)
	case *UnsizedArrayType:
		ut, ok := to.(*UnsizedArrayType)
		return ok && u.Unify(vf.Elem, ut.Elem, m)
	case *PtrType:
		pt, ok := to.(*PtrType)
		return ok && vf.Mut == pt.Mut && vf.AddrSpace == pt.AddrSpace && u.Unify(vf.Pointee, pt.Pointee, m)
	case *RefType:
		rt, ok := to.(*RefType)
		return ok && vf.Mut == rt.Mut && vf.AddrSpace == rt.AddrSpace && u.Unify(vf.Pointee, rt.Pointee, m)
	case *FuncType:
		ft, ok := to.(*FuncType)
		return ok && u.Unify(vf.Dom, ft.Dom, m) && u.Unify(vf.Codom, ft.Codom, m)
	case *AppType:
		at, ok := to.(*AppType)
		if !ok || vf.Applied != at.Applied || len(vf.Args) != len(at.Args) {
			return false
		}

		for i, arg := range vf.Args {
			if !u.Unify(arg, at.Args[i], m) {
				return false
			}
		}

		return true
	}

	return false
}
