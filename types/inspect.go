package types

// IsError returns whether the given type is the absorbing error type.
func IsError(t Type) bool {
	_, ok := t.(*ErrorType)
	return ok
}

// IsUnit returns whether the given type is the unit type.
func IsUnit(t Type) bool {
	tt, ok := t.(*TupleType)
	return ok && len(tt.Elems) == 0
}

// IsNoRet returns whether the given type is the no-return marker.
func IsNoRet(t Type) bool {
	_, ok := t.(*NoRetType)
	return ok
}

// IsIntegral returns whether the given type is an integral primitive.
func IsIntegral(t Type) bool {
	pt, ok := t.(*PrimType)
	return ok && pt.Kind.IsIntegral()
}

// IsFloating returns whether the given type is a floating-point primitive.
func IsFloating(t Type) bool {
	pt, ok := t.(*PrimType)
	return ok && pt.Kind.IsFloating()
}

// IsNumeric returns whether the given type is a numeric primitive.
func IsNumeric(t Type) bool {
	return IsIntegral(t) || IsFloating(t)
}

// IsBool returns whether the given type is the boolean primitive.
func IsBool(t Type) bool {
	pt, ok := t.(*PrimType)
	return ok && pt.Kind == PrimBool
}
