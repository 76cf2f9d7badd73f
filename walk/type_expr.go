package walk

import (
	"velac/ast"
	"velac/report"
	"velac/types"

	"github.com/samber/lo"
)

// convertTypeExpr converts a type expression into an interned type, attaching
// the result to the node.  Conversion is idempotent: a node converted earlier
// returns its attached type.
func (w *Walker) convertTypeExpr(te ast.TypeExpr) types.Type {
	if te.Type() != nil {
		return te.Type()
	}

	var t types.Type

	switch v := te.(type) {
	case *ast.PrimTypeExpr:
		t = w.uni.PrimType(v.Kind)
	case *ast.TupleTypeExpr:
		if len(v.Elems) == 0 {
			t = w.uni.UnitType()
		} else {
			t = w.uni.TupleType(lo.Map(v.Elems, func(elem ast.TypeExpr, _ int) types.Type {
				return w.convertTypeExpr(elem)
			}))
		}
	case *ast.ArrayTypeExpr:
		elem := w.convertTypeExpr(v.Elem)

		if v.Size < 0 {
			t = w.uni.UnsizedArrayType(elem)
		} else {
			t = w.uni.SizedArrayType(elem, v.Size, v.IsSimd)
		}
	case *ast.PtrTypeExpr:
		t = w.uni.PtrType(w.convertTypeExpr(v.Elem), v.Mut, v.AddrSpace)
	case *ast.RefTypeExpr:
		t = w.uni.RefType(w.convertTypeExpr(v.Elem), v.Mut, v.AddrSpace)
	case *ast.FuncTypeExpr:
		dom := w.convertTypeExpr(v.Dom)

		if v.Codom == nil {
			t = w.uni.CnType(dom)
		} else {
			t = w.uni.FuncType(dom, w.convertTypeExpr(v.Codom))
		}
	case *ast.NamedTypeExpr:
		t = w.convertNamedTypeExpr(v)
	default:
		report.ReportICE("unknown type expression %T", te)
	}

	te.SetType(t)
	return t
}

// convertNamedTypeExpr converts a reference to a declared type, applying any
// type arguments.  Alias applications are rewritten transparently by the
// universe.
func (w *Walker) convertNamedTypeExpr(nte *ast.NamedTypeExpr) types.Type {
	var applied types.Type
	var params []*types.TypeVar

	switch ref := nte.Ref.(type) {
	case *ast.TypeParam:
		if len(nte.Args) > 0 {
			w.error(nte.Span(), "type parameter `%s` cannot take type arguments", nte.Name)
		}

		return w.uni.TypeVar(ref, ref.Name)
	case *ast.StructDecl:
		st := w.uni.StructType(ref, ref.Name, ref.TupleLike)
		applied, params = st, st.TypeParams()
	case *ast.EnumDecl:
		et := w.uni.EnumType(ref, ref.Name)
		applied, params = et, et.TypeParams()
	case *ast.TraitDecl:
		tt := w.uni.TraitType(ref, ref.Name)
		applied, params = tt, tt.TypeParams()
	case *ast.TypeDecl:
		at := w.uni.TypeAlias(ref, ref.Name, paramVars(w.uni, ref.TypeParams))
		applied, params = at, at.Params
	case nil:
		w.error(nte.Span(), "undefined type: `%s`", nte.Name)
	default:
		report.ReportICE("named type expression refers to %T", nte.Ref)
	}

	if len(nte.Args) != len(params) {
		w.reportArityMismatch(nte.Span(), "type application", len(params), len(nte.Args))
		return w.uni.ErrorType()
	}

	args := lo.Map(nte.Args, func(arg ast.TypeExpr, _ int) types.Type {
		return w.convertTypeExpr(arg)
	})

	return w.uni.TypeApp(applied, args)
}

// paramVars interns the type variables of a type-parameter list.
func paramVars(uni *types.TypeUniverse, tps []*ast.TypeParam) []*types.TypeVar {
	return lo.Map(tps, func(tp *ast.TypeParam, _ int) *types.TypeVar {
		return uni.TypeVar(tp, tp.Name)
	})
}
