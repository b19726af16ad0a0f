package emit

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/leapstack-labs/routefold/pkg/ast"
)

// Printer writes a module back to TypeScript source.
type Printer struct {
	output *bytes.Buffer
}

func newPrinter() *Printer {
	return &Printer{output: &bytes.Buffer{}}
}

// String returns the printed source.
func (p *Printer) String() string {
	return p.output.String()
}

func (p *Printer) write(s string) {
	p.output.WriteString(s)
}

func (p *Printer) printModule(mod *ast.Module) {
	for _, stmt := range mod.Body {
		p.write(stmt.LeadingTrivia())
		p.printStmt(stmt)
	}
	p.write(mod.Trailing)
}

func (p *Printer) printStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.RawStmt:
		p.write(s.Text)
	case *ast.ExportDecl:
		p.write("export ")
		p.printDecl(s.Decl)
	}
}

func (p *Printer) printDecl(decl ast.Decl) {
	switch d := decl.(type) {
	case *ast.OtherDecl:
		p.write(d.Text)
	case *ast.VarDecl:
		if d.Declare {
			p.write("declare ")
		}
		p.write(string(d.Kind))
		p.write(" ")
		for i, vd := range d.Decls {
			if i > 0 {
				p.write(", ")
			}
			p.printDeclarator(vd)
		}
		p.write(";")
	}
}

func (p *Printer) printDeclarator(d *ast.VarDeclarator) {
	p.printPattern(d.Name)
	if d.Definite {
		p.write("!")
	}
	if d.TypeAnn != "" {
		p.write(": ")
		p.write(d.TypeAnn)
	}
	if d.Init != nil {
		p.write(" = ")
		p.printExpr(d.Init)
	}
}

func (p *Printer) printPattern(pat ast.Pattern) {
	switch n := pat.(type) {
	case *ast.Ident:
		p.write(n.Name)
	case *ast.RawPattern:
		p.write(n.Text)
	}
}

func (p *Printer) printExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.RawExpr:
		p.write(e.Text)
	case *ast.NumberLit:
		p.write(formatNumber(e.Value))
	}
}

// formatNumber prints the shortest decimal form that round-trips.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.HasPrefix(s, "-") {
		return "(" + s + ")"
	}
	return s
}
