package walk_test

import (
	"os"
	"testing"

	"velac/ast"
	"velac/depm"
	"velac/report"
	"velac/types"
	"velac/walk"

	"github.com/sanity-io/litter"
)

func TestMain(m *testing.M) {
	report.InitReporter(report.LogLevelSilent)
	os.Exit(m.Run())
}

// sp returns a fresh dummy span: the tests build ASTs directly, so positions
// carry no real source locations.
func sp() *report.TextSpan {
	return &report.TextSpan{}
}

func base() ast.NodeBase {
	return ast.NewNodeBaseOn(sp())
}

func declBase() ast.DeclBase {
	return ast.DeclBase{NodeBase: ast.NewNodeBaseOn(sp())}
}

// newPkg wraps a list of definitions into a single-file package.
func newPkg(defs ...ast.Decl) *depm.VelaPackage {
	pkg := depm.NewPackage(1, "test")
	pkg.Files = append(pkg.Files, &depm.VelaFile{
		AbsPath:  "/test/test.vl",
		ReprPath: "test.vl",
		Parent:   pkg,
		Defs:     defs,
	})

	return pkg
}

func check(t *testing.T, pkg *depm.VelaPackage) (int, *types.TypeUniverse) {
	t.Helper()

	uni := types.NewTypeUniverse()
	res := types.NewImplResolver(uni)
	errs := walk.CheckPackage(pkg, uni, res)
	return errs, uni
}

func primTE(kind types.PrimKind) *ast.PrimTypeExpr {
	return &ast.PrimTypeExpr{NodeBase: base(), Kind: kind}
}

func param(name string, te ast.TypeExpr) *ast.FnParam {
	return &ast.FnParam{NodeBase: base(), Name: name, TypeAnn: te}
}

func ident(name string) *ast.IdentExpr {
	return &ast.IdentExpr{NodeBase: base(), Name: name}
}

func intLit(text string) *ast.LiteralExpr {
	return &ast.LiteralExpr{NodeBase: base(), Kind: ast.LitInt, Value: text}
}

func boolLit(text string) *ast.LiteralExpr {
	return &ast.LiteralExpr{NodeBase: base(), Kind: ast.LitBool, Value: text}
}

/* -------------------------------------------------------------------------- */

func TestCheckSimpleFunction(t *testing.T) {
	// fn first(x: i32, y: i32) -> i32 { x }
	body := ident("x")
	fn := &ast.FnDecl{
		DeclBase:   declBase(),
		Name:       "first",
		Params:     []*ast.FnParam{param("x", primTE(types.PrimI32)), param("y", primTE(types.PrimI32))},
		ReturnType: primTE(types.PrimI32),
		Body:       body,
	}

	pkg := newPkg(fn)
	errs, uni := check(t, pkg)

	if errs != 0 {
		t.Fatalf("expected no errors, got %d", errs)
	}

	i32 := uni.PrimType(types.PrimI32)

	if body.Type() != types.Type(i32) {
		t.Errorf("body typed `%s`, want `i32`", body.Type().Repr())
	}

	want := uni.FuncType(uni.TupleType([]types.Type{i32, i32}), i32)
	if fn.Type() != types.Type(want) {
		t.Errorf("declaration typed `%s`, want `%s`\nast: %s", fn.Type().Repr(), want.Repr(), litter.Sdump(fn.Type()))
	}
}

func TestCheckBodyMismatch(t *testing.T) {
	// fn bad() -> i32 { true }
	fn := &ast.FnDecl{
		DeclBase:   declBase(),
		Name:       "bad",
		ReturnType: primTE(types.PrimI32),
		Body:       boolLit("true"),
	}

	errs, _ := check(t, newPkg(fn))
	if errs != 1 {
		t.Errorf("expected exactly 1 error, got %d", errs)
	}
}

func TestErrorTypeAbsorbs(t *testing.T) {
	// fn bad() -> i32 { let x: i32 = true in x }
	// The initializer mismatch reports once; the use of x does not cascade.
	fn := &ast.FnDecl{
		DeclBase:   declBase(),
		Name:       "bad",
		ReturnType: primTE(types.PrimI32),
		Body: &ast.LetExpr{
			NodeBase: base(),
			Name:     "x",
			Ann:      primTE(types.PrimI32),
			Value:    boolLit("true"),
			Body:     ident("x"),
		},
	}

	errs, _ := check(t, newPkg(fn))
	if errs != 1 {
		t.Errorf("expected exactly 1 error, got %d", errs)
	}
}

func TestInferGenericCall(t *testing.T) {
	// fn id[T](x: T) -> T { x }
	tp := &ast.TypeParam{NodeBase: base(), Name: "T"}
	tpRef := func() *ast.NamedTypeExpr {
		return &ast.NamedTypeExpr{NodeBase: base(), Name: "T", Ref: tp}
	}

	id := &ast.FnDecl{
		DeclBase:   declBase(),
		Name:       "id",
		TypeParams: []*ast.TypeParam{tp},
		Params:     []*ast.FnParam{param("x", tpRef())},
		ReturnType: tpRef(),
		Body:       ident("x"),
	}

	// fn main() -> i32 { id(42) }
	call := &ast.CallExpr{
		NodeBase: base(),
		Fn:       ident("id"),
		Args:     []ast.Expr{intLit("42")},
	}
	main := &ast.FnDecl{
		DeclBase:   declBase(),
		Name:       "main",
		ReturnType: primTE(types.PrimI32),
		Body:       call,
	}

	errs, uni := check(t, newPkg(id, main))
	if errs != 0 {
		t.Fatalf("expected no errors, got %d", errs)
	}

	if call.Type() != types.Type(uni.PrimType(types.PrimI32)) {
		t.Errorf("call typed `%s`, want `i32`", call.Type().Repr())
	}

	// The generic declaration itself carries its forall.
	if _, ok := id.Type().(*types.ForallType); !ok {
		t.Errorf("generic declaration typed `%s`, want a forall", id.Type().Repr())
	}
}

func TestIfJoinsBranches(t *testing.T) {
	// fn pick(c: bool) -> i32 { if c 1 else 2 }
	ifExpr := &ast.IfExpr{
		NodeBase: base(),
		Cond:     ident("c"),
		Then:     intLit("1"),
		Else:     intLit("2"),
	}
	fn := &ast.FnDecl{
		DeclBase:   declBase(),
		Name:       "pick",
		Params:     []*ast.FnParam{param("c", primTE(types.PrimBool))},
		ReturnType: primTE(types.PrimI32),
		Body:       ifExpr,
	}

	errs, uni := check(t, newPkg(fn))
	if errs != 0 {
		t.Fatalf("expected no errors, got %d", errs)
	}

	if ifExpr.Type() != types.Type(uni.PrimType(types.PrimI32)) {
		t.Errorf("conditional typed `%s`, want `i32`", ifExpr.Type().Repr())
	}
}

func TestUnknownMember(t *testing.T) {
	// struct Point { x: i32 }
	point := &ast.StructDecl{
		DeclBase: declBase(),
		Name:     "Point",
		Fields:   []*ast.StructField{{NodeBase: base(), Name: "x", TypeAnn: primTE(types.PrimI32)}},
	}

	// fn get(p: Point) -> i32 { p.y }
	fn := &ast.FnDecl{
		DeclBase: declBase(),
		Name:     "get",
		Params: []*ast.FnParam{
			param("p", &ast.NamedTypeExpr{NodeBase: base(), Name: "Point", Ref: point}),
		},
		ReturnType: primTE(types.PrimI32),
		Body:       &ast.FieldExpr{NodeBase: base(), Root: ident("p"), FieldName: "y"},
	}

	errs, _ := check(t, newPkg(point, fn))
	if errs != 1 {
		t.Errorf("expected exactly 1 error, got %d", errs)
	}
}

func TestFieldAccess(t *testing.T) {
	// struct Point { x: i32 }  /  fn get(p: Point) -> i32 { p.x }
	point := &ast.StructDecl{
		DeclBase: declBase(),
		Name:     "Point",
		Fields:   []*ast.StructField{{NodeBase: base(), Name: "x", TypeAnn: primTE(types.PrimI32)}},
	}

	access := &ast.FieldExpr{NodeBase: base(), Root: ident("p"), FieldName: "x"}
	fn := &ast.FnDecl{
		DeclBase: declBase(),
		Name:     "get",
		Params: []*ast.FnParam{
			param("p", &ast.NamedTypeExpr{NodeBase: base(), Name: "Point", Ref: point}),
		},
		ReturnType: primTE(types.PrimI32),
		Body:       access,
	}

	errs, uni := check(t, newPkg(point, fn))
	if errs != 0 {
		t.Fatalf("expected no errors, got %d", errs)
	}

	if access.Type() != types.Type(uni.PrimType(types.PrimI32)) {
		t.Errorf("field access typed `%s`, want `i32`", access.Type().Repr())
	}

	if access.FieldIndex != 0 {
		t.Errorf("field index %d, want 0", access.FieldIndex)
	}
}

// traitBoundPkg builds a fresh package declaring `trait Show[T]`, an
// `impl Show[i32]`, a bounded generic `fn show_it[T](x: T) where Show[T]`,
// and a caller passing the given argument.  Each call builds fresh AST since
// node type slots are write-once.
func traitBoundPkg(arg ast.Expr) *depm.VelaPackage {
	showTP := &ast.TypeParam{NodeBase: base(), Name: "T"}
	show := &ast.TraitDecl{
		DeclBase:   declBase(),
		Name:       "Show",
		TypeParams: []*ast.TypeParam{showTP},
	}

	impl := &ast.ImplDecl{
		DeclBase: declBase(),
		Name:     "impl Show[i32]",
		TraitType: &ast.NamedTypeExpr{
			NodeBase: base(),
			Name:     "Show",
			Ref:      show,
			Args:     []ast.TypeExpr{primTE(types.PrimI32)},
		},
	}

	tp := &ast.TypeParam{NodeBase: base(), Name: "T"}
	showIt := &ast.FnDecl{
		DeclBase:   declBase(),
		Name:       "show_it",
		TypeParams: []*ast.TypeParam{tp},
		WhereClauses: []*ast.WhereClause{{
			NodeBase: base(),
			Obligation: &ast.NamedTypeExpr{
				NodeBase: base(),
				Name:     "Show",
				Ref:      show,
				Args:     []ast.TypeExpr{&ast.NamedTypeExpr{NodeBase: base(), Name: "T", Ref: tp}},
			},
		}},
		Params: []*ast.FnParam{param("x", &ast.NamedTypeExpr{NodeBase: base(), Name: "T", Ref: tp})},
		Body:   &ast.TupleExpr{NodeBase: base()},
	}

	caller := &ast.FnDecl{
		DeclBase: declBase(),
		Name:     "caller",
		Body: &ast.CallExpr{
			NodeBase: base(),
			Fn:       ident("show_it"),
			Args:     []ast.Expr{arg},
		},
	}

	return newPkg(show, impl, showIt, caller)
}

func TestTraitBoundDischarge(t *testing.T) {
	// show_it(42) instantiates T to i32 and discharges Show[i32] via the
	// registered impl.
	errs, _ := check(t, traitBoundPkg(intLit("42")))
	if errs != 0 {
		t.Fatalf("expected no errors, got %d", errs)
	}

	// show_it(true) needs Show[bool], which has no witness.
	errs, _ = check(t, traitBoundPkg(boolLit("true")))
	if errs != 1 {
		t.Errorf("expected exactly 1 error for the missing witness, got %d", errs)
	}
}

func TestArgumentArityMismatch(t *testing.T) {
	// fn two(x: i32, y: i32) {}  /  fn main() { two(1, 2, 3) }
	two := &ast.FnDecl{
		DeclBase: declBase(),
		Name:     "two",
		Params:   []*ast.FnParam{param("x", primTE(types.PrimI32)), param("y", primTE(types.PrimI32))},
		Body:     &ast.TupleExpr{NodeBase: base()},
	}

	main := &ast.FnDecl{
		DeclBase: declBase(),
		Name:     "main",
		Body: &ast.CallExpr{
			NodeBase: base(),
			Fn:       ident("two"),
			Args:     []ast.Expr{intLit("1"), intLit("2"), intLit("3")},
		},
	}

	errs, _ := check(t, newPkg(two, main))
	if errs != 1 {
		t.Errorf("expected exactly 1 error, got %d", errs)
	}
}
