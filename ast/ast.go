package ast

import (
	"velac/report"
	"velac/types"
)

// Node is the abstract interface for all AST nodes.  Every node carries a
// source span and a type slot that the checker fills exactly once.
type Node interface {
	// The text span of the node.
	Span() *report.TextSpan

	// The type attached to the node; nil until checking reaches it.
	Type() types.Type

	// SetType attaches the node's type.  The slot is write-once; only the
	// absorbing error type may overwrite an earlier value during recovery.
	SetType(typ types.Type)
}

// NodeBase is a utility base struct for all AST nodes.
type NodeBase struct {
	// The span over which the node occurs.
	span *report.TextSpan

	// The type attached to the node.
	typ types.Type
}

// NewNodeBaseOn creates a new node base with the given span.
func NewNodeBaseOn(span *report.TextSpan) NodeBase {
	return NodeBase{span: span}
}

// NewNodeBaseOver creates a new node base spanning over two spans.
func NewNodeBaseOver(start, end *report.TextSpan) NodeBase {
	return NodeBase{span: report.NewSpanOver(start, end)}
}

func (nb *NodeBase) Span() *report.TextSpan {
	return nb.span
}

func (nb *NodeBase) Type() types.Type {
	return nb.typ
}

func (nb *NodeBase) SetType(typ types.Type) {
	if nb.typ != nil && !types.IsError(typ) {
		report.ReportICE("type attached to AST node twice: `%s` then `%s`", nb.typ.Repr(), typ.Repr())
	}

	nb.typ = typ
}
