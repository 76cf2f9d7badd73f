package walk

import (
	"fmt"

	"velac/ast"
	"velac/common"
	"velac/report"
	"velac/types"

	"github.com/samber/lo"
)

// inferParam is the declaration key of an inference variable.  Each minted
// variable gets a fresh key, so variables are unique by pointer identity.
type inferParam struct {
	name string
}

// pendingBound is a trait obligation queued at an instantiation site and
// discharged once the definition's equations are solved.
type pendingBound struct {
	clause types.Type
	span   *report.TextSpan
}

// newTypeVar mints a fresh inference variable at the current rank.
func (w *Walker) newTypeVar() *types.TypeVar {
	p := &inferParam{name: fmt.Sprintf("T%d", w.varCount)}
	w.varCount++

	tv := w.uni.TypeVar(p, p.name)
	w.mintedVars = append(w.mintedVars, tv)
	w.varRank[tv] = w.rank

	return tv
}

// isInferVar returns the inference variable t is, if it is one.  Universally
// quantified variables (from type parameters) are not inference variables and
// never acquire equations.
func isInferVar(t types.Type) (*types.TypeVar, bool) {
	if tv, ok := t.(*types.TypeVar); ok {
		if _, ok := tv.Param.(*inferParam); ok {
			return tv, true
		}
	}

	return nil, false
}

// shallowResolve chases equations at the head of t.
func (w *Walker) shallowResolve(t types.Type) types.Type {
	for {
		tv, ok := isInferVar(t)
		if !ok {
			return t
		}

		eq, ok := w.eqs[tv]
		if !ok {
			return t
		}

		t = eq.typ
	}
}

// hasInferVars returns whether t mentions any of this definition's inference
// variables.
func (w *Walker) hasInferVars(t types.Type) bool {
	return lo.SomeBy(w.mintedVars, func(tv *types.TypeVar) bool {
		return w.uni.Contains(t, tv)
	})
}

// bind records the substitution of an inference variable, rejecting infinite
// types via the occurs check.
func (w *Walker) bind(tv *types.TypeVar, t types.Type, span *report.TextSpan) {
	if w.uni.Contains(t, tv) {
		w.reportInfiniteType(span, tv, t)
		return
	}

	w.eqs[tv] = &equation{typ: t, rank: w.varRank[tv], span: span}
}

/* -------------------------------------------------------------------------- */

// unify asserts that two types must be equal, binding inference variables as
// needed.  The expected type comes first so mismatch reports read correctly.
func (w *Walker) unify(expected, actual types.Type, span *report.TextSpan) {
	expected = w.shallowResolve(expected)
	actual = w.shallowResolve(actual)

	// The error type absorbs: the mismatch was already reported.
	if types.IsError(expected) || types.IsError(actual) {
		return
	}

	if expected == actual {
		return
	}

	if tv, ok := isInferVar(expected); ok {
		w.bind(tv, actual, span)
		return
	}

	if tv, ok := isInferVar(actual); ok {
		w.bind(tv, expected, span)
		return
	}

	switch ve := expected.(type) {
	case *types.TupleType:
		if ta, ok := actual.(*types.TupleType); ok {
			if len(ve.Elems) != len(ta.Elems) {
				w.reportArityMismatch(span, "tuple", len(ve.Elems), len(ta.Elems))
				return
			}

			for i, elem := range ve.Elems {
				w.unify(elem, ta.Elems[i], span)
			}

			return
		}
	case *types.FuncType:
		if fa, ok := actual.(*types.FuncType); ok {
			w.unify(fa.Dom, ve.Dom, span)
			w.unify(ve.Codom, fa.Codom, span)
			return
		}
	case *types.SizedArrayType:
		if sa, ok := actual.(*types.SizedArrayType); ok && ve.Size == sa.Size && ve.IsSimd == sa.IsSimd {
			w.unify(ve.Elem, sa.Elem, span)
			return
		}
	case *types.UnsizedArrayType:
		if ua, ok := actual.(*types.UnsizedArrayType); ok {
			w.unify(ve.Elem, ua.Elem, span)
			return
		}
	case *types.PtrType:
		if pa, ok := actual.(*types.PtrType); ok && ve.Mut == pa.Mut && ve.AddrSpace == pa.AddrSpace {
			w.unify(ve.Pointee, pa.Pointee, span)
			return
		}
	case *types.RefType:
		if ra, ok := actual.(*types.RefType); ok && ve.Mut == ra.Mut && ve.AddrSpace == ra.AddrSpace {
			w.unify(ve.Pointee, ra.Pointee, span)
			return
		}
	case *types.AppType:
		if aa, ok := actual.(*types.AppType); ok && ve.Applied == aa.Applied {
			if len(ve.Args) != len(aa.Args) {
				w.reportArityMismatch(span, "type application", len(ve.Args), len(aa.Args))
				return
			}

			for i, arg := range ve.Args {
				w.unify(arg, aa.Args[i], span)
			}

			return
		}
	}

	w.reportMismatch(span, expected, actual)
}

// coerce checks that actual can be used where expected is required.  When
// inference variables are involved the check is equational; otherwise it is
// the subtype relation.
func (w *Walker) coerce(expected, actual types.Type, span *report.TextSpan) {
	if expected == nil || types.IsError(expected) || types.IsError(actual) {
		return
	}

	if w.hasInferVars(expected) || w.hasInferVars(actual) {
		w.unify(expected, actual, span)
		return
	}

	if !w.uni.Subtype(actual, expected) {
		w.reportMismatch(span, expected, actual)
	}
}

// expect checks an inferred type against a known expected type at a described
// position.  It is the checking half of the façade: where an expected type is
// known, subtyping decides acceptability.
func (w *Walker) expect(what string, span *report.TextSpan, expected, actual types.Type) {
	if types.IsError(expected) || types.IsError(actual) {
		return
	}

	if w.hasInferVars(expected) || w.hasInferVars(actual) {
		w.unify(expected, actual, span)
		return
	}

	if !w.uni.Subtype(actual, expected) {
		w.recError(span, "type mismatch in %s: expected `%s`, found `%s`", what, expected.Repr(), actual.Repr())
	}
}

/* -------------------------------------------------------------------------- */

// inferExpr produces a type for an expression, threading the expected type
// where one is known.  The computed type is recorded and attached to the node
// once the enclosing definition's equations are solved.
func (w *Walker) inferExpr(expr ast.Expr, expected types.Type) types.Type {
	t := w.doInferExpr(expr, expected)
	w.setNodeType(expr, t)
	return t
}

func (w *Walker) doInferExpr(expr ast.Expr, expected types.Type) types.Type {
	switch v := expr.(type) {
	case *ast.LiteralExpr:
		return w.inferLiteral(v, expected)
	case *ast.IdentExpr:
		sym := w.lookup(v.Name, v.Span())
		v.Sym = sym

		if sym.Type == nil {
			return w.uni.ErrorType()
		}

		// Generic values are instantiated with fresh variables at each use.
		if fa, ok := sym.Type.(*types.ForallType); ok {
			return w.instantiate(fa, v.Span())
		}

		return sym.Type
	case *ast.TupleExpr:
		if len(v.Exprs) == 0 {
			return w.uni.UnitType()
		}

		// Destructure the expectation when it matches the tuple's shape.
		var expectedElems []types.Type
		if expected != nil {
			if et, ok := w.shallowResolve(expected).(*types.TupleType); ok && len(et.Elems) == len(v.Exprs) {
				expectedElems = et.Elems
			}
		}

		elems := make([]types.Type, len(v.Exprs))
		for i, elem := range v.Exprs {
			var ee types.Type
			if expectedElems != nil {
				ee = expectedElems[i]
			}

			elems[i] = w.inferExpr(elem, ee)
		}

		return w.uni.TupleType(elems)
	case *ast.CallExpr:
		return w.inferCall(v)
	case *ast.FnExpr:
		return w.inferFn(v, expected)
	case *ast.LetExpr:
		return w.inferLet(v)
	case *ast.IfExpr:
		return w.inferIf(v, expected)
	case *ast.BlockExpr:
		if len(v.Exprs) == 0 {
			return w.uni.UnitType()
		}

		for _, inner := range v.Exprs[:len(v.Exprs)-1] {
			w.inferExpr(inner, nil)
		}

		return w.inferExpr(v.Exprs[len(v.Exprs)-1], expected)
	case *ast.AddrExpr:
		var expectedElem types.Type
		if expected != nil {
			if rt, ok := w.shallowResolve(expected).(*types.RefType); ok {
				expectedElem = rt.Pointee
			}
		}

		elemT := w.inferExpr(v.Elem, expectedElem)
		if types.IsError(elemT) {
			return elemT
		}

		return w.uni.RefType(elemT, v.Mut, 0)
	case *ast.DerefExpr:
		return w.inferDeref(v)
	case *ast.FieldExpr:
		return w.inferField(v)
	case *ast.AnnExpr:
		annT := w.convertTypeExpr(v.Ann)
		exprT := w.inferExpr(v.Expr, annT)
		w.coerce(annT, exprT, v.Span())
		return annT
	default:
		report.ReportICE("unknown expression %T", expr)
		return nil
	}
}

// inferLiteral types a literal, adopting a matching expectation where one
// exists and falling back to the literal kind's default type.
func (w *Walker) inferLiteral(lit *ast.LiteralExpr, expected types.Type) types.Type {
	switch lit.Kind {
	case ast.LitBool:
		return w.uni.BoolType()
	case ast.LitUnit:
		return w.uni.UnitType()
	case ast.LitInt:
		if expected != nil {
			if et, ok := w.shallowResolve(expected).(*types.PrimType); ok && et.Kind.IsIntegral() {
				return et
			}
		}

		return w.uni.PrimType(types.PrimI32)
	default:
		// ast.LitFloat
		if expected != nil {
			if et, ok := w.shallowResolve(expected).(*types.PrimType); ok && et.Kind.IsFloating() {
				return et
			}
		}

		return w.uni.PrimType(types.PrimF64)
	}
}

// instantiate replaces a forall's bound variables with fresh inference
// variables and queues the declaration's obligations for discharge.
func (w *Walker) instantiate(fa *types.ForallType, span *report.TextSpan) types.Type {
	m := make(types.ReplaceMap, len(fa.Params))
	for _, param := range fa.Params {
		m[param] = w.newTypeVar()
	}

	if fnDecl, ok := fa.Decl.(*ast.FnDecl); ok {
		for _, clause := range w.assumedClauses(fnDecl) {
			w.pendingBounds = append(w.pendingBounds, pendingBound{
				clause: w.uni.Replace(clause, m),
				span:   span,
			})
		}
	}

	if fa.Body() == nil {
		return w.uni.ErrorType()
	}

	return w.uni.Replace(fa.Body(), m)
}

// inferCall types a function application.
func (w *Walker) inferCall(call *ast.CallExpr) types.Type {
	fnT := w.shallowResolve(w.inferExpr(call.Fn, nil))
	if types.IsError(fnT) {
		for _, arg := range call.Args {
			w.inferExpr(arg, nil)
		}

		return fnT
	}

	switch ft := fnT.(type) {
	case *types.FuncType:
		// Argument-wise checking against a tuple domain gives precise arity
		// errors; otherwise the whole domain checks at once.
		if dom, ok := w.shallowResolve(ft.Dom).(*types.TupleType); ok && len(call.Args) != 1 {
			if len(call.Args) != len(dom.Elems) {
				w.reportArityMismatch(call.Span(), "argument", len(dom.Elems), len(call.Args))
				return w.uni.ErrorType()
			}

			for i, arg := range call.Args {
				argT := w.inferExpr(arg, dom.Elems[i])
				w.coerce(dom.Elems[i], argT, arg.Span())
			}
		} else if len(call.Args) == 1 {
			argT := w.inferExpr(call.Args[0], ft.Dom)
			w.coerce(ft.Dom, argT, call.Args[0].Span())
		} else {
			argTs := make([]types.Type, len(call.Args))
			for i, arg := range call.Args {
				argTs[i] = w.inferExpr(arg, nil)
			}

			w.coerce(ft.Dom, w.uni.TupleType(argTs), call.Span())
		}

		return ft.Codom
	default:
		if tv, ok := isInferVar(fnT); ok {
			// Calling an as-yet-unknown value constrains it to a function
			// over the argument types.
			argTs := make([]types.Type, len(call.Args))
			for i, arg := range call.Args {
				argTs[i] = w.inferExpr(arg, nil)
			}

			var dom types.Type
			if len(argTs) == 1 {
				dom = argTs[0]
			} else {
				dom = w.uni.TupleType(argTs)
			}

			resT := w.newTypeVar()
			w.bind(tv, w.uni.FuncType(dom, resT), call.Span())
			return resT
		}

		w.recError(call.Fn.Span(), "cannot call value of type `%s`", fnT.Repr())
		return w.uni.ErrorType()
	}
}

// inferFn types an anonymous function.  An unannotated parameter takes the
// expected domain when a function type is expected and the function has one
// parameter; otherwise it receives a fresh inference variable.
func (w *Walker) inferFn(fn *ast.FnExpr, expected types.Type) types.Type {
	// Destructure the expected function type for parameter hints.
	var expectedFn *types.FuncType
	if expected != nil {
		expectedFn, _ = w.shallowResolve(expected).(*types.FuncType)
	}

	w.pushScope()
	defer w.popScope()

	paramTs := make([]types.Type, len(fn.Params))
	for i, param := range fn.Params {
		var pt types.Type
		if param.TypeAnn != nil {
			pt = w.convertTypeExpr(param.TypeAnn)
		} else if expectedFn != nil && len(fn.Params) == 1 {
			pt = expectedFn.Dom
		} else {
			pt = w.newTypeVar()
		}

		// The parameter's final type is attached once equations solve: a
		// fresh variable here may still be refined by the body.
		w.setNodeType(param, pt)
		paramTs[i] = pt

		sym := &common.Symbol{
			Name:    param.Name,
			DefSpan: param.Span(),
			Type:    pt,
			DefKind: common.DefKindValue,
		}
		param.Sym = sym
		w.defineLocal(sym)
	}

	var dom types.Type
	if len(paramTs) == 1 {
		dom = paramTs[0]
	} else {
		dom = w.uni.TupleType(paramTs)
	}

	var expectedBody types.Type
	if expectedFn != nil {
		expectedBody = expectedFn.Codom
	}

	bodyT := w.inferExpr(fn.Body, expectedBody)
	return w.uni.FuncType(dom, bodyT)
}

// inferLet types a let binding and the body it scopes over.  The rank
// counter brackets the bound value for let-generalization.
func (w *Walker) inferLet(let *ast.LetExpr) types.Type {
	var annT types.Type
	if let.Ann != nil {
		annT = w.convertTypeExpr(let.Ann)
	}

	w.rank++
	valT := w.inferExpr(let.Value, annT)
	w.rank--

	if annT != nil {
		w.coerce(annT, valT, let.Value.Span())
		valT = annT
	}

	sym := &common.Symbol{
		Name:    let.Name,
		DefSpan: let.Span(),
		Type:    valT,
		DefKind: common.DefKindValue,
	}
	let.Sym = sym

	if let.Body == nil {
		// A statement-position binding scopes over the remainder of its
		// block; the symbol goes into the current scope.
		if len(w.localScopes) == 0 {
			w.pushScope()
		}

		w.defineLocal(sym)
		return w.uni.UnitType()
	}

	w.pushScope()
	w.defineLocal(sym)
	bodyT := w.inferExpr(let.Body, nil)
	w.popScope()

	return bodyT
}

// inferIf types a conditional.  The branches join to the least common
// supertype; a missing else branch makes the conditional a unit statement.
func (w *Walker) inferIf(ifExpr *ast.IfExpr, expected types.Type) types.Type {
	condT := w.inferExpr(ifExpr.Cond, w.uni.BoolType())
	w.expect("condition", ifExpr.Cond.Span(), w.uni.BoolType(), condT)

	thenT := w.inferExpr(ifExpr.Then, expected)

	if ifExpr.Else == nil {
		return w.uni.UnitType()
	}

	elseT := w.inferExpr(ifExpr.Else, expected)

	if types.IsError(thenT) || types.IsError(elseT) {
		return w.uni.ErrorType()
	}

	if w.hasInferVars(thenT) || w.hasInferVars(elseT) {
		w.unify(thenT, elseT, ifExpr.Span())
		return thenT
	}

	return w.uni.Join(thenT, elseT)
}

// inferDeref types a pointer or reference dereference.
func (w *Walker) inferDeref(deref *ast.DerefExpr) types.Type {
	ptrT := w.shallowResolve(w.inferExpr(deref.Ptr, nil))

	switch pt := ptrT.(type) {
	case *types.PtrType:
		return pt.Pointee
	case *types.RefType:
		return pt.Pointee
	case *types.ErrorType:
		return pt
	default:
		w.recError(deref.Span(), "cannot dereference value of type `%s`", ptrT.Repr())
		return w.uni.ErrorType()
	}
}

// inferField types a member access, auto-dereferencing references.
func (w *Walker) inferField(field *ast.FieldExpr) types.Type {
	rootT := w.shallowResolve(w.inferExpr(field.Root, nil))
	if types.IsError(rootT) {
		return rootT
	}

	for {
		if rt, ok := rootT.(*types.RefType); ok {
			rootT = rt.Pointee
			continue
		}

		break
	}

	switch owner := rootT.(type) {
	case types.ComplexType:
		if i, ok := owner.FindMember(field.FieldName); ok {
			field.FieldIndex = i
			return owner.MemberType(i)
		}
	case *types.AppType:
		if ct, ok := types.AppliedComplex(owner); ok {
			if i, ok := ct.FindMember(field.FieldName); ok {
				field.FieldIndex = i
				return w.uni.AppliedMemberType(owner, i)
			}
		}
	}

	w.reportUnknownMember(field.Span(), rootT, field.FieldName)
	return w.uni.ErrorType()
}

/* -------------------------------------------------------------------------- */

// setNodeType records an expression's pending type for attachment at
// finalization.
func (w *Walker) setNodeType(n ast.Node, t types.Type) {
	if _, ok := w.nodeTypes[n]; !ok {
		w.typedNodes = append(w.typedNodes, n)
	}

	w.nodeTypes[n] = t
}

// finalizeDef solves the definition's equations, attaches every recorded
// node type exactly once, and discharges queued trait obligations.
func (w *Walker) finalizeDef() {
	solved := w.solvedEqs()

	for _, node := range w.typedNodes {
		t := w.uni.Replace(w.nodeTypes[node], solved)

		if w.hasInferVars(t) {
			w.recError(node.Span(), "undetermined type: `%s`", t.Repr())
			t = w.uni.ErrorType()
		}

		node.SetType(t)
	}

	ctx := w.resolutionContext()
	for _, pb := range w.pendingBounds {
		obligation := w.uni.Replace(pb.clause, solved)
		if types.IsError(obligation) || w.uni.Contains(obligation, w.uni.ErrorType()) {
			continue
		}

		if w.hasInferVars(obligation) {
			w.recError(pb.span, "undetermined trait bound: `%s`", obligation.Repr())
			continue
		}

		if _, ok := w.res.FindImpl(ctx, obligation); !ok {
			w.reportUnsatisfiedBound(pb.span, obligation)
		}
	}
}

// solvedEqs saturates the equations map into a single substitution.  The
// occurs check keeps the equation graph acyclic, so repeated rewriting
// reaches a fixpoint.
func (w *Walker) solvedEqs() types.ReplaceMap {
	solved := make(types.ReplaceMap, len(w.eqs))
	for tv, eq := range w.eqs {
		solved[tv] = eq.typ
	}

	for i := 0; i <= len(solved); i++ {
		changed := false

		for tv, t := range solved {
			if nt := w.uni.Replace(t, solved); nt != t {
				solved[tv] = nt
				changed = true
			}
		}

		if !changed {
			break
		}
	}

	return solved
}
