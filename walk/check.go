package walk

import (
	"velac/depm"
	"velac/report"
	"velac/types"
)

// CheckPackage runs the full typing pipeline over a package: declaring
// nominal shells, defining member lists and signatures, registering impls,
// and walking every body.  It returns the number of errors reported.
//
// After a zero-error return, every declaration, expression, and
// type-expression node reachable from the package's files carries a non-nil
// type pointing into the universe.
func CheckPackage(pkg *depm.VelaPackage, uni *types.TypeUniverse, res *types.ImplResolver) int {
	before := report.ErrorCount()

	// All shells across all files exist before any member resolves.
	for _, vFile := range pkg.Files {
		DeclareFile(vFile, uni)
	}

	// All impls are registered before any body is walked: after this point
	// the resolver's candidate map is read-only.
	for _, vFile := range pkg.Files {
		DefineFile(vFile, uni, res)
	}

	for _, vFile := range pkg.Files {
		WalkFile(vFile, uni, res)
	}

	return report.ErrorCount() - before
}
