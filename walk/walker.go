package walk

import (
	"velac/ast"
	"velac/common"
	"velac/depm"
	"velac/report"
	"velac/types"
)

// Walker is responsible for walking source files and performing semantic
// analysis on their definitions: declaring types and symbols, inferring the
// types of expressions, and checking them against their expected types.
type Walker struct {
	// The Vela source file being walked.
	vFile *depm.VelaFile

	// The type universe owning every type the walker constructs.
	uni *types.TypeUniverse

	// The impl resolver used to discharge trait obligations.
	res *types.ImplResolver

	// The stack of local scopes used to look up symbols.
	localScopes []map[string]*common.Symbol

	// The equations map: substitutions recorded for inference variables,
	// keyed by variable identity.
	eqs map[*types.TypeVar]*equation

	// The rank counter for let-generalization: incremented on entering a
	// let binding's value and decremented on leaving it.
	rank int

	// The number of inference variables minted so far.
	varCount int

	// The inference variables minted for the current definition.
	mintedVars []*types.TypeVar

	// The rank at which each inference variable was minted.
	varRank map[*types.TypeVar]int

	// Trait obligations queued at instantiation sites, discharged once the
	// definition's equations are solved.
	pendingBounds []pendingBound

	// The nodes whose types are finalized when the current definition
	// completes, in attachment order.
	typedNodes []ast.Node

	// The pending types for typedNodes; attached write-once at finalization.
	nodeTypes map[ast.Node]types.Type

	// The return type of the enclosing function.  If this is nil, there is
	// no enclosing function.
	enclosingReturnType types.Type

	// The where-clause obligations of the enclosing functions, innermost
	// first.
	clauseStack []types.Type

	// The enclosing module keys, innermost first.  The final entry is the
	// package itself.
	modStack []any
}

// equation records the substitution chosen for one inference variable.
type equation struct {
	// The substituted type.
	typ types.Type

	// The rank at which the variable was minted.
	rank int

	// The span of the constraint that bound the variable.
	span *report.TextSpan
}

// NewWalker creates a walker for the given source file over the given
// universe and resolver.
func NewWalker(vFile *depm.VelaFile, uni *types.TypeUniverse, res *types.ImplResolver) *Walker {
	return &Walker{
		vFile:     vFile,
		uni:       uni,
		res:       res,
		nodeTypes: make(map[ast.Node]types.Type),
		modStack:  []any{vFile.Parent},
	}
}

// WalkFile semantically analyzes the given source file.  Declarations must
// already have been processed by DeclareFile and DefineFile across the whole
// package.
func WalkFile(vFile *depm.VelaFile, uni *types.TypeUniverse, res *types.ImplResolver) {
	w := NewWalker(vFile, uni, res)

	for _, def := range vFile.Defs {
		w.walkDef(def)
	}
}

// walkDef walks a definition and catches any errors that occur.
func (w *Walker) walkDef(def ast.Decl) {
	// Catch any errors that occur while walking the definition.
	defer report.CatchErrors(w.vFile.AbsPath, w.vFile.ReprPath)

	// Ensure that the walker is reset for the next definition.
	defer func() {
		w.localScopes = nil
		w.eqs = nil
		w.rank = 0
		w.mintedVars = nil
		w.pendingBounds = nil
		w.typedNodes = nil
		w.nodeTypes = make(map[ast.Node]types.Type)
		w.enclosingReturnType = nil
		w.clauseStack = nil
	}()

	w.eqs = make(map[*types.TypeVar]*equation)
	w.varRank = make(map[*types.TypeVar]int)

	w.doWalkDef(def)
	w.finalizeDef()
}

/* -------------------------------------------------------------------------- */

// lookup looks up a symbol by name in all visible scopes.  If no symbol by
// the given name can be found, then an error is reported.
func (w *Walker) lookup(name string, span *report.TextSpan) *common.Symbol {
	// Traverse local scopes in reverse order to implement shadowing.
	for i := len(w.localScopes) - 1; i > -1; i-- {
		if sym, ok := w.localScopes[i][name]; ok {
			return sym
		}
	}

	if sym, ok := w.vFile.Parent.SymbolTable[name]; ok {
		return sym
	}

	w.error(span, "undefined symbol: `%s`", name)
	return nil
}

// defineLocal defines a local symbol in the current local scope.  If the
// symbol is already defined there, then an error is reported.
func (w *Walker) defineLocal(sym *common.Symbol) {
	currScope := w.localScopes[len(w.localScopes)-1]

	if _, ok := currScope[sym.Name]; ok {
		w.error(sym.DefSpan, "multiple symbols named `%s` defined in immediate local scope", sym.Name)
	}

	currScope[sym.Name] = sym
}

// pushScope pushes a new local scope onto the scope stack.
func (w *Walker) pushScope() {
	w.localScopes = append(w.localScopes, make(map[string]*common.Symbol))
}

// popScope removes the top local scope from the scope stack.
func (w *Walker) popScope() {
	w.localScopes = w.localScopes[:len(w.localScopes)-1]
}

/* -------------------------------------------------------------------------- */

// resolutionContext captures the current use site for the impl resolver.
func (w *Walker) resolutionContext() *types.ResolutionContext {
	return &types.ResolutionContext{
		WhereClauses: w.clauseStack,
		Mods:         w.modStack,
	}
}

// pushMod enters a module declaration.
func (w *Walker) pushMod(key any) {
	w.modStack = append([]any{key}, w.modStack...)
}

// popMod leaves the innermost module declaration.
func (w *Walker) popMod() {
	w.modStack = w.modStack[1:]
}

/* -------------------------------------------------------------------------- */

// error reports an error on the given span that aborts walking of the
// current definition.
func (w *Walker) error(span *report.TextSpan, msg string, args ...interface{}) {
	panic(report.Raise(span, msg, args...))
}

// recError reports a recoverable error on the given span.
func (w *Walker) recError(span *report.TextSpan, msg string, args ...interface{}) {
	report.ReportCompileError(
		w.vFile.AbsPath,
		w.vFile.ReprPath,
		span,
		msg,
		args...,
	)
}

// warn reports a compile warning.
func (w *Walker) warn(span *report.TextSpan, msg string, args ...interface{}) {
	report.ReportCompileWarning(
		w.vFile.AbsPath,
		w.vFile.ReprPath,
		span,
		msg,
		args...,
	)
}
