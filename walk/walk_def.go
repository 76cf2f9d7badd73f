package walk

import (
	"velac/ast"
	"velac/common"
	"velac/depm"
	"velac/report"
	"velac/types"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// DeclareFile creates the nominal type shells and type symbols for every
// declaration of the given file.  It must run over all files of a package
// before DefineFile so mutually recursive declarations can see each other.
func DeclareFile(vFile *depm.VelaFile, uni *types.TypeUniverse) {
	for _, def := range vFile.Defs {
		declareDef(vFile.Parent, uni, def)
	}
}

func declareDef(pkg *depm.VelaPackage, uni *types.TypeUniverse, def ast.Decl) {
	switch d := def.(type) {
	case *ast.StructDecl:
		st := uni.StructType(d, d.Name, d.TupleLike)
		st.SetTypeParams(paramVars(uni, d.TypeParams))
		defineTypeSymbol(pkg, d.Name, st, d.Span())
	case *ast.EnumDecl:
		et := uni.EnumType(d, d.Name)
		et.SetTypeParams(paramVars(uni, d.TypeParams))
		defineTypeSymbol(pkg, d.Name, et, d.Span())
	case *ast.TraitDecl:
		tt := uni.TraitType(d, d.Name)
		tt.SetTypeParams(paramVars(uni, d.TypeParams))
		defineTypeSymbol(pkg, d.Name, tt, d.Span())
	case *ast.TypeDecl:
		at := uni.TypeAlias(d, d.Name, paramVars(uni, d.TypeParams))
		defineTypeSymbol(pkg, d.Name, at, d.Span())
	case *ast.ModDecl:
		mt := uni.ModType(d, d.Name)
		defineTypeSymbol(pkg, d.Name, mt, d.Span())

		for _, inner := range d.Decls {
			declareDef(pkg, uni, inner)
		}
	}
}

func defineTypeSymbol(pkg *depm.VelaPackage, name string, typ types.Type, span *report.TextSpan) {
	pkg.Define(&common.Symbol{
		Name:     name,
		DefSpan:  span,
		Type:     typ,
		DefKind:  common.DefKindType,
		Constant: true,
	})
}

/* -------------------------------------------------------------------------- */

// DefineFile resolves the type expressions of every declaration of the given
// file: member lists, alias bodies, function signatures, and impl
// obligations.  Impls are registered with the resolver here; registration
// must complete before any body is walked.
func DefineFile(vFile *depm.VelaFile, uni *types.TypeUniverse, res *types.ImplResolver) {
	w := NewWalker(vFile, uni, res)

	for _, def := range vFile.Defs {
		w.defineDef(def)
	}
}

// defineDef resolves one declaration, catching any conversion errors so a
// malformed declaration does not abort the rest of the file.
func (w *Walker) defineDef(def ast.Decl) {
	defer report.CatchErrors(w.vFile.AbsPath, w.vFile.ReprPath)

	w.doDefineDef(def)
}

func (w *Walker) doDefineDef(def ast.Decl) {
	switch d := def.(type) {
	case *ast.StructDecl:
		st := w.uni.StructType(d, d.Name, d.TupleLike)

		members := make([]types.Member, len(d.Fields))
		for i, field := range d.Fields {
			ft := w.convertTypeExpr(field.TypeAnn)
			field.SetType(ft)
			members[i] = types.Member{Name: field.Name, Type: ft, HasDefault: field.Init != nil}
		}

		st.SetMembers(members)
		w.convertWhereClauses(d.WhereClauses)
		d.SetType(st)
	case *ast.EnumDecl:
		et := w.uni.EnumType(d, d.Name)

		members := make([]types.Member, len(d.Options))
		for i, opt := range d.Options {
			var payload types.Type = w.uni.UnitType()
			if opt.Payload != nil {
				payload = w.convertTypeExpr(opt.Payload)
			}

			opt.SetType(payload)
			members[i] = types.Member{Name: opt.Name, Type: payload}
		}

		et.SetMembers(members)
		d.SetType(et)
	case *ast.TraitDecl:
		tt := w.uni.TraitType(d, d.Name)

		members := make([]types.Member, len(d.Decls))
		for i, method := range d.Decls {
			members[i] = types.Member{
				Name:       method.Name,
				Type:       w.fnDeclType(method),
				HasDefault: method.Body != nil,
			}
		}

		tt.SetMembers(members)
		d.SetType(tt)
	case *ast.TypeDecl:
		at := w.uni.TypeAlias(d, d.Name, paramVars(w.uni, d.TypeParams))
		w.uni.SetAliasBody(at, w.convertTypeExpr(d.Aliased))
		d.SetType(at)
	case *ast.FnDecl:
		ft := w.fnDeclType(d)

		w.vFile.Parent.Define(&common.Symbol{
			Name:     d.Name,
			DefSpan:  d.Span(),
			Type:     ft,
			DefKind:  common.DefKindFunc,
			Constant: true,
		})
	case *ast.ImplDecl:
		it := w.uni.ImplType(d, d.Name)
		it.SetTypeParams(paramVars(w.uni, d.TypeParams))

		impled := w.convertTypeExpr(d.TraitType)
		it.SetImpledType(impled, w.modStack[0])
		it.SetWhereClauses(w.convertWhereClauses(d.WhereClauses))

		members := make([]types.Member, len(d.Decls))
		for i, method := range d.Decls {
			members[i] = types.Member{Name: method.Name, Type: w.fnDeclType(method)}
		}

		it.SetMembers(members)
		w.res.RegisterImpl(it)
		d.SetType(it)
	case *ast.ModDecl:
		mt := w.uni.ModType(d, d.Name)
		mt.SetMemberFunc(func() []types.Member { return modMembers(d) })
		d.SetType(mt)

		w.pushMod(d)
		for _, inner := range d.Decls {
			w.doDefineDef(inner)
		}
		w.popMod()
	}
}

// convertWhereClauses resolves a where-clause list into obligation types,
// attaching each to its clause node.
func (w *Walker) convertWhereClauses(clauses []*ast.WhereClause) []types.Type {
	obligations := make([]types.Type, len(clauses))
	for i, clause := range clauses {
		obligations[i] = w.convertTypeExpr(clause.Obligation)
		clause.SetType(obligations[i])
	}

	return obligations
}

// fnDeclType computes and attaches the type of a function declaration: a
// function type over the annotated parameters, wrapped in a forall when the
// function is generic.
func (w *Walker) fnDeclType(d *ast.FnDecl) types.Type {
	if d.Type() != nil {
		return d.Type()
	}

	paramTs := make([]types.Type, len(d.Params))
	for i, param := range d.Params {
		paramTs[i] = w.convertTypeExpr(param.TypeAnn)
		param.SetType(paramTs[i])
	}

	var dom types.Type
	if len(paramTs) == 1 {
		dom = paramTs[0]
	} else {
		dom = w.uni.TupleType(paramTs)
	}

	var codom types.Type = w.uni.UnitType()
	if d.ReturnType != nil {
		codom = w.convertTypeExpr(d.ReturnType)
	}

	ft := w.uni.FuncType(dom, codom)
	w.convertWhereClauses(d.WhereClauses)

	var result types.Type = ft
	if len(d.TypeParams) > 0 {
		fa := w.uni.ForallType(d, d.Name, paramVars(w.uni, d.TypeParams))
		w.uni.SetForallBody(fa, ft)
		result = fa
	}

	d.SetType(result)
	return result
}

// modMembers materializes a module's member list by filtering its named
// declarations.  Members are sorted by name so introspection order is stable.
func modMembers(d *ast.ModDecl) []types.Member {
	var members []types.Member

	for _, inner := range d.Decls {
		var name string
		switch v := inner.(type) {
		case *ast.StructDecl:
			name = v.Name
		case *ast.EnumDecl:
			name = v.Name
		case *ast.TraitDecl:
			name = v.Name
		case *ast.TypeDecl:
			name = v.Name
		case *ast.FnDecl:
			name = v.Name
		case *ast.ModDecl:
			name = v.Name
		default:
			continue
		}

		if inner.Type() != nil {
			members = append(members, types.Member{Name: name, Type: inner.Type()})
		}
	}

	slices.SortFunc(members, func(a, b types.Member) bool {
		return a.Name < b.Name
	})

	return members
}

/* -------------------------------------------------------------------------- */

// doWalkDef walks the bodies of one definition.
func (w *Walker) doWalkDef(def ast.Decl) {
	switch d := def.(type) {
	case *ast.FnDecl:
		w.walkFnBody(d)
	case *ast.StructDecl:
		for _, field := range d.Fields {
			if field.Init != nil {
				initT := w.inferExpr(field.Init, field.Type())
				w.expect("field initializer", field.Init.Span(), field.Type(), initT)
			}
		}
	case *ast.TraitDecl:
		for _, method := range d.Decls {
			if method.Body != nil {
				w.walkFnBody(method)
			}
		}
	case *ast.ImplDecl:
		// The impl's own where clauses are assumptions within its methods.
		clauses := clauseTypes(d.WhereClauses)
		w.clauseStack = append(clauses, w.clauseStack...)

		for _, method := range d.Decls {
			w.walkFnBody(method)
		}

		w.clauseStack = w.clauseStack[len(clauses):]
	case *ast.ModDecl:
		w.pushMod(d)
		for _, inner := range d.Decls {
			w.doWalkDef(inner)
		}
		w.popMod()
	}
}

// walkFnBody type-checks a function body against its declared signature.
func (w *Walker) walkFnBody(d *ast.FnDecl) {
	if d.Body == nil {
		return
	}

	// Unwrap the signature from the forall for generic functions.
	sig := d.Type()
	if fa, ok := sig.(*types.ForallType); ok {
		sig = fa.Body()
	}

	ft, ok := sig.(*types.FuncType)
	if !ok {
		return
	}

	w.pushScope()
	defer w.popScope()

	for _, param := range d.Params {
		sym := &common.Symbol{
			Name:    param.Name,
			DefSpan: param.Span(),
			Type:    param.Type(),
			DefKind: common.DefKindValue,
		}
		param.Sym = sym
		w.defineLocal(sym)
	}

	// The function's where clauses and type-parameter bounds are assumptions
	// available to obligations arising in the body.
	clauses := w.assumedClauses(d)
	w.clauseStack = append(clauses, w.clauseStack...)
	defer func() {
		w.clauseStack = w.clauseStack[len(clauses):]
	}()

	outerReturn := w.enclosingReturnType
	w.enclosingReturnType = ft.Codom
	defer func() {
		w.enclosingReturnType = outerReturn
	}()

	bodyT := w.inferExpr(d.Body, ft.Codom)
	w.expect("function body", d.Body.Span(), ft.Codom, bodyT)
}

// clauseTypes reads the resolved obligation types off a where-clause list.
func clauseTypes(clauses []*ast.WhereClause) []types.Type {
	return lo.FilterMap(clauses, func(clause *ast.WhereClause, _ int) (types.Type, bool) {
		return clause.Type(), clause.Type() != nil
	})
}

// assumedClauses collects the obligations a function's callers must have
// discharged: its where clauses plus its type parameters' bounds.
func (w *Walker) assumedClauses(d *ast.FnDecl) []types.Type {
	var clauses []types.Type

	for _, clause := range d.WhereClauses {
		if clause.Type() != nil {
			clauses = append(clauses, clause.Type())
		}
	}

	for _, tp := range d.TypeParams {
		for _, bound := range tp.Bounds {
			clauses = append(clauses, w.convertTypeExpr(bound))
		}
	}

	return clauses
}
