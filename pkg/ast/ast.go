// Package ast defines the module-level syntax tree shared by the parser,
// the export classifier and the emitter.
//
// The tree is intentionally shallow. Only the shapes the classifier rewrites
// are modelled structurally (exported variable declarations and their
// declarators); every other statement is kept as verbatim source text so it
// can be re-emitted byte for byte.
package ast

import "github.com/leapstack-labs/routefold/pkg/token"

// Node is the base interface for all AST nodes.
type Node interface {
	// Pos returns the position of the first character of the node.
	Pos() token.Position
	// End returns the position of the character immediately after the node.
	End() token.Position
}

// NodeInfo carries the source span of a node. Synthesised nodes leave it
// zero, which makes Span().IsValid() false.
type NodeInfo struct {
	Span token.Span
}

// Pos implements Node.
func (n NodeInfo) Pos() token.Position { return n.Span.Start }

// End implements Node.
func (n NodeInfo) End() token.Position { return n.Span.End }

// Stmt is a marker interface for top-level statements.
type Stmt interface {
	Node
	stmtNode()
	// LeadingTrivia returns the whitespace and comments that precede the
	// statement in the original source.
	LeadingTrivia() string
}

// Decl is a marker interface for the payload of an export declaration.
type Decl interface {
	Node
	declNode()
}

// Pattern is a marker interface for declarator bindings.
type Pattern interface {
	Node
	patternNode()
}

// Expr is a marker interface for initializer expressions.
type Expr interface {
	Node
	exprNode()
}

// Module is an ordered sequence of top-level statements.
type Module struct {
	Body []Stmt

	// Trailing holds whitespace and comments after the last statement.
	Trailing string
}

// Exports returns the export declarations of the module in source order.
func (m *Module) Exports() []*ExportDecl {
	var out []*ExportDecl
	for _, s := range m.Body {
		if e, ok := s.(*ExportDecl); ok {
			out = append(out, e)
		}
	}
	return out
}
