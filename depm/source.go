package depm

import (
	"velac/ast"
	"velac/common"
)

// VelaFile represents a Vela source file whose declarations have already been
// parsed and name-resolved by the front end.
type VelaFile struct {
	// The absolute path to the source file, used to print source excerpts.
	AbsPath string

	// The representative path to the source file, used in message banners.
	ReprPath string

	// The parent package to the file.
	Parent *VelaPackage

	// The top-level declarations that make up this source file.
	Defs []ast.Decl
}

// VelaPackage represents a Vela source package.
type VelaPackage struct {
	// The unique ID of this package.
	ID uint64

	// The package name.
	Name string

	// The Vela source files that belong to this package.
	Files []*VelaFile

	// The global symbol table for this package.
	SymbolTable map[string]*common.Symbol
}

// NewPackage creates a new, empty package with the given ID and name.
func NewPackage(id uint64, name string) *VelaPackage {
	return &VelaPackage{
		ID:          id,
		Name:        name,
		SymbolTable: make(map[string]*common.Symbol),
	}
}

// Define adds a symbol to the package's global table.  It returns false if a
// symbol by the same name is already defined.
func (pkg *VelaPackage) Define(sym *common.Symbol) bool {
	if _, ok := pkg.SymbolTable[sym.Name]; ok {
		return false
	}

	sym.ParentID = pkg.ID
	pkg.SymbolTable[sym.Name] = sym
	return true
}
