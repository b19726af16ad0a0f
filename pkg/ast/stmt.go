package ast

// ---------- Statements ----------

// RawStmt is any statement the classifier passes through untouched:
// imports, plain declarations, expression statements, `export default`,
// `export { ... }` and re-exports.
type RawStmt struct {
	NodeInfo
	Leading string
	Text    string
}

func (*RawStmt) stmtNode() {}

// LeadingTrivia implements Stmt.
func (s *RawStmt) LeadingTrivia() string { return s.Leading }

// ExportDecl is an `export <declaration>` statement.
type ExportDecl struct {
	NodeInfo
	Leading string
	Decl    Decl
}

func (*ExportDecl) stmtNode() {}

// LeadingTrivia implements Stmt.
func (s *ExportDecl) LeadingTrivia() string { return s.Leading }

// Var returns the variable declaration payload, or nil if the export wraps
// some other kind of declaration.
func (s *ExportDecl) Var() *VarDecl {
	v, _ := s.Decl.(*VarDecl)
	return v
}

// ---------- Declarations ----------

// VarKind is the binding keyword of a variable declaration.
type VarKind string

// VarKind constants.
const (
	VarKindVar        VarKind = "var"
	VarKindLet        VarKind = "let"
	VarKindConst      VarKind = "const"
	VarKindUsing      VarKind = "using"
	VarKindAwaitUsing VarKind = "await using"
)

// VarDecl is a variable declaration: `[declare] const a = 1, b`.
type VarDecl struct {
	NodeInfo
	Kind    VarKind
	Declare bool
	Decls   []*VarDeclarator
}

func (*VarDecl) declNode() {}

// OtherDecl is any exported declaration that is not a variable declaration
// (function, class, interface, type alias, enum, namespace). The classifier
// rejects these; the text is kept so tooling can report it.
type OtherDecl struct {
	NodeInfo
	Keyword string // function, class, interface, type, enum, namespace, ...
	Name    string // declared name when one could be read
	Text    string // declaration source without the leading `export`
}

func (*OtherDecl) declNode() {}

// VarDeclarator is a single `name[!][: T][ = init]` binding.
type VarDeclarator struct {
	NodeInfo
	Name     Pattern
	TypeAnn  string // type annotation source without the colon; not inspected
	Definite bool   // `let x!: T`
	Init     Expr   // nil when absent
}

// Ident returns the binding identifier, or nil for destructuring patterns.
func (d *VarDeclarator) Ident() *Ident {
	id, _ := d.Name.(*Ident)
	return id
}

// ---------- Patterns ----------

// Ident is a simple identifier binding.
type Ident struct {
	NodeInfo
	Name string
}

func (*Ident) patternNode() {}

// RawPattern is a destructuring binding (`{ a, b }` or `[a, b]`) kept as text.
type RawPattern struct {
	NodeInfo
	Text string
}

func (*RawPattern) patternNode() {}

// ---------- Expressions ----------

// RawExpr is an initializer kept as its exact source text.
type RawExpr struct {
	NodeInfo
	Text string
}

func (*RawExpr) exprNode() {}

// NumberLit is a numeric literal. The classifier uses it for placeholders.
type NumberLit struct {
	NodeInfo
	Value float64
}

func (*NumberLit) exprNode() {}
