package types

// Subtype decides whether a is a subtype of b.  The relation is reflexive
// and transitive.  It admits the bottom and top types, reference
// auto-dereference, pointer auto-address and sized-to-unsized array decay,
// componentwise tuples, and function types contravariant in their domain and
// covariant in their codomain.
func (u *TypeUniverse) Subtype(a, b Type) bool {
	// Reflexivity: types are interned, so identity is structural equality.
	if a == b {
		return true
	}

	if _, ok := a.(*BottomType); ok {
		return true
	}

	if _, ok := b.(*TopType); ok {
		return true
	}

	// References auto-dereference on the left.
	if ra, ok := a.(*RefType); ok {
		return u.Subtype(ra.Pointee, b)
	}

	if pb, ok := b.(*PtrType); ok {
		// Auto-address: a value coerces to an immutable pointer to it.
		// Pointer-of-pointer coercion is disallowed at this step.
		if _, aIsPtr := a.(*PtrType); !aIsPtr {
			if !pb.Mut && u.Subtype(a, pb.Pointee) {
				return true
			}
		}

		if pa, ok := a.(*PtrType); ok && pa.AddrSpace == pb.AddrSpace && (pa.Mut || !pb.Mut) {
			// The pointees are not related by auto-addressing either, so *T
			// never coerces to **T.
			_, qIsPtr := pb.Pointee.(*PtrType)
			_, pIsPtr := pa.Pointee.(*PtrType)
			_, pIsBottom := pa.Pointee.(*BottomType)
			if (!qIsPtr || pIsPtr || pIsBottom) && u.Subtype(pa.Pointee, pb.Pointee) {
				return true
			}

			// &[T; N] decays to &[T].  SIMD arrays do not decay.
			if ub, ok := pb.Pointee.(*UnsizedArrayType); ok {
				if sa, ok := pa.Pointee.(*SizedArrayType); ok && !sa.IsSimd && sa.Elem == ub.Elem {
					return true
				}
			}
		}

		// A sized array coerces to an unsized-array pointer in the generic
		// address space.
		if pb.AddrSpace == 0 {
			if ub, ok := pb.Pointee.(*UnsizedArrayType); ok {
				if sa, ok := a.(*SizedArrayType); ok && !sa.IsSimd && sa.Elem == ub.Elem {
					return true
				}
			}
		}

		return false
	}

	switch va := a.(type) {
	case *TupleType:
		tb, ok := b.(*TupleType)
		if !ok || len(va.Elems) != len(tb.Elems) {
			return false
		}

		for i, elem := range va.Elems {
			if !u.Subtype(elem, tb.Elems[i]) {
				return false
			}
		}

		return true
	case *FuncType:
		fb, ok := b.(*FuncType)
		if !ok {
			return false
		}

		// Contravariant domain, covariant codomain.
		return u.Subtype(fb.Dom, va.Dom) && u.Subtype(va.Codom, fb.Codom)
	}

	return false
}

// Join returns the least common supertype of a and b where one is definable:
// the larger of the two when they are comparable, and the top type otherwise.
func (u *TypeUniverse) Join(a, b Type) Type {
	if u.Subtype(a, b) {
		return b
	}

	if u.Subtype(b, a) {
		return a
	}

	return u.TopType()
}
