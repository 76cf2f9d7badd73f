package common

import (
	"velac/report"
	"velac/types"
)

// Symbol represents a semantic symbol: a named value or definition.
type Symbol struct {
	// The name of the symbol.
	Name string

	// The ID of the parent package to this symbol.
	ParentID uint64

	// Where the symbol was defined.
	DefSpan *report.TextSpan

	// The type of the value stored in the symbol.
	Type types.Type

	// The symbol's kind: what kind of thing does this symbol represent.  This
	// must be one of the enumerated definition kinds.
	DefKind int

	// Whether or not the symbol is immutable.
	Constant bool
}

// Enumeration of different symbol kinds.
const (
	DefKindValue = iota
	DefKindFunc
	DefKindType
)
