package build

import (
	"velac/depm"
	"velac/mods"
	"velac/report"
	"velac/types"
	"velac/walk"
)

// Frontend is the parsing collaborator: it produces packages whose
// declarations are already parsed and name-resolved.  The compiler core only
// consumes the resulting AST.
type Frontend interface {
	// ParseModule parses and name-resolves the packages of the given module.
	ParseModule(mod *mods.VelaModule) ([]*depm.VelaPackage, error)
}

// Compiler orchestrates the type-checking pipeline for one module.
type Compiler struct {
	// The module being checked and the selected build profile.
	mod     *mods.VelaModule
	profile *mods.BuildProfile

	// The linked front end; nil when the compiler is used as a library.
	frontend Frontend

	// The type universe and impl resolver shared by every package of the
	// module.
	uni *types.TypeUniverse
	res *types.ImplResolver
}

// NewCompiler creates a compiler for the given module and profile.
func NewCompiler(mod *mods.VelaModule, profile *mods.BuildProfile, frontend Frontend) *Compiler {
	uni := types.NewTypeUniverse()

	return &Compiler{
		mod:      mod,
		profile:  profile,
		frontend: frontend,
		uni:      uni,
		res:      types.NewImplResolver(uni),
	}
}

// Universe returns the compiler's type universe.  Back ends read checked
// types out of it; its lifetime bounds theirs.
func (c *Compiler) Universe() *types.TypeUniverse {
	return c.uni
}

// Check runs the typing pipeline over the module and returns whether it
// completed without errors.
func (c *Compiler) Check() bool {
	report.ReportCompileHeader(c.profile.TargetOS+"/"+c.profile.TargetArch, c.mod.ShouldCache)

	if c.frontend == nil {
		report.ReportModuleError(c.mod.Name, "no front end is linked into this build")
		return false
	}

	report.BeginPhase("Parsing")
	pkgs, err := c.frontend.ParseModule(c.mod)
	if err != nil {
		report.EndPhase(false)
		report.ReportModuleError(c.mod.Name, "%s", err)
		return false
	}
	report.EndPhase(true)

	report.BeginPhase("Typechecking")
	errs := 0
	for _, pkg := range pkgs {
		errs += walk.CheckPackage(pkg, c.uni, c.res)
	}
	report.EndPhase(errs == 0)

	report.ReportCompilationFinished()
	return errs == 0
}
