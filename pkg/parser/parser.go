// Package parser reads TypeScript and JavaScript modules into the shallow
// statement tree defined by package ast.
//
// # Usage
//
//	mod, err := parser.Parse(src, parser.TypeScript)
//	if err != nil {
//	    // err is a *parser.DiagnosticsError
//	}
//
// Use ParseWithOptions to attach a filename to diagnostics or to run the
// esbuild syntax check before splitting:
//
//	mod, err := parser.ParseWithOptions(src, parser.Options{
//	    Dialect:  parser.TypeScript,
//	    Filename: "routes/index.ts",
//	    Validate: true,
//	})
//
// # Grammar Overview
//
// The parser does not build expression trees. It splits the token stream
// into top-level statements and only looks inside exports:
//
//	module       → { statement }
//	statement    → export_var | export_other | raw
//	export_var   → "export" ["declare"] var_kind declarator { "," declarator } [";"]
//	var_kind     → "const" | "let" | "var" | "using" | "await" "using"
//	declarator   → binding ["!"] [":" type] ["=" init]
//	binding      → IDENT | "{" ... "}" | "[" ... "]"
//	export_other → "export" ["declare"] (function | class | interface | type | enum | namespace) ...
//
// Everything that is not an export declaration is kept as raw source text.
// The text between statements (whitespace and comments) is attached to the
// following statement, so emitting an unchanged module reproduces its source.
package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/routefold/pkg/ast"
	"github.com/leapstack-labs/routefold/pkg/token"
)

// Options configures a parse.
type Options struct {
	Dialect  Dialect
	Filename string // used in diagnostics only
	Validate bool   // run the esbuild syntax check first
}

// Parser splits a token stream into top-level statements.
type Parser struct {
	src    string
	opts   Options
	toks   []token.Token
	errors []Diagnostic
}

// NewParser tokenizes src and returns a parser ready to build the module.
func NewParser(src string, opts Options) *Parser {
	p := &Parser{src: src, opts: opts}
	l := NewLexer(src)
	for {
		t := l.NextToken()
		p.toks = append(p.toks, t)
		if t.Type == token.EOF {
			break
		}
	}
	p.errors = append(p.errors, l.Errors()...)
	return p
}

// Parse parses src in the given dialect.
func Parse(src string, d Dialect) (*ast.Module, error) {
	return ParseWithOptions(src, Options{Dialect: d})
}

// ParseWithOptions parses src and returns the module, or a
// *DiagnosticsError listing every problem found.
func ParseWithOptions(src string, opts Options) (*ast.Module, error) {
	var diags []Diagnostic
	if opts.Validate {
		diags = append(diags, Validate(src, opts)...)
	}

	p := NewParser(src, opts)
	mod := p.ParseModule()
	diags = append(diags, p.errors...)

	if len(diags) > 0 {
		sort.SliceStable(diags, func(i, j int) bool {
			return diags[i].Pos.Offset < diags[j].Pos.Offset
		})
		return nil, &DiagnosticsError{Filename: opts.Filename, Diagnostics: diags}
	}
	return mod, nil
}

// Errors returns the diagnostics collected by the lexer and parser.
func (p *Parser) Errors() []Diagnostic {
	return p.errors
}

// ParseModule builds the module from the token stream.
func (p *Parser) ParseModule() *ast.Module {
	mod := &ast.Module{}
	prevEnd := 0
	for i := 0; p.at(i).Type != token.EOF; {
		end := p.statementEnd(i)
		leading := p.src[prevEnd:p.at(i).Pos.Offset]
		mod.Body = append(mod.Body, p.buildStatement(i, end, leading))
		prevEnd = p.at(end).End.Offset
		i = end + 1
	}
	mod.Trailing = p.src[prevEnd:]
	return mod
}

// ---------- Token helpers ----------

// at returns token i, or the EOF token when i is out of range.
func (p *Parser) at(i int) token.Token {
	if i < 0 || i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) span(from, to int) token.Span {
	return token.Span{Start: p.at(from).Pos, End: p.at(to).End}
}

func (p *Parser) text(from, to int) string {
	return p.src[p.at(from).Pos.Offset:p.at(to).End.Offset]
}

func (p *Parser) isTS() bool {
	return p.opts.Dialect == TypeScript
}

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	p.errors = append(p.errors, Diagnostic{Pos: pos, Message: msg, Source: SourceParser})
}

// ---------- Statement building ----------

func (p *Parser) buildStatement(start, end int, leading string) ast.Stmt {
	if p.at(start).Is("export") {
		if stmt := p.parseExport(start, end, leading); stmt != nil {
			return stmt
		}
	}
	return &ast.RawStmt{
		NodeInfo: ast.NodeInfo{Span: p.span(start, end)},
		Leading:  leading,
		Text:     p.text(start, end),
	}
}

// parseExport returns nil for exports that pass through as raw text
// (default exports, export lists, re-exports) and for malformed exports,
// which are reported as diagnostics.
func (p *Parser) parseExport(start, end int, leading string) ast.Stmt {
	i := start + 1
	t := p.at(i)
	if i > end {
		p.errorf(p.at(start).End, ErrExportTarget, "end of statement")
		return nil
	}

	switch {
	case t.Is("default"), t.Is("import"), t.Is("as"):
		return nil
	case t.Type == token.LBRACE, t.Type == token.ASSIGN:
		return nil
	case t.Type == token.OPERATOR && t.Literal == "*":
		return nil
	case t.Is("type") && (p.at(i+1).Type == token.LBRACE || p.at(i+1).Literal == "*"):
		return nil
	}

	declStart := i
	declare := false
	if p.isTS() && t.Is("declare") {
		declare = true
		i++
	}

	var decl ast.Decl
	if kind, n, ok := p.varKind(i); ok {
		decl = p.parseVarDecl(declStart, i+n, end, kind, declare)
	} else if other := p.parseOtherDecl(declStart, i, end); other != nil {
		decl = other
	} else {
		return nil
	}

	return &ast.ExportDecl{
		NodeInfo: ast.NodeInfo{Span: p.span(start, end)},
		Leading:  leading,
		Decl:     decl,
	}
}

// varKind reports whether token i starts a variable declaration and how
// many tokens its keyword occupies.
func (p *Parser) varKind(i int) (ast.VarKind, int, bool) {
	t, next := p.at(i), p.at(i+1)
	switch {
	case t.Is("const") && !next.Is("enum"):
		return ast.VarKindConst, 1, true
	case t.Is("let"):
		return ast.VarKindLet, 1, true
	case t.Is("var"):
		return ast.VarKindVar, 1, true
	case t.Is("using") && next.Type == token.IDENT && !next.NewlineBefore:
		return ast.VarKindUsing, 1, true
	case t.Is("await") && next.Is("using") && !next.NewlineBefore:
		return ast.VarKindAwaitUsing, 2, true
	}
	return "", 0, false
}

var otherDeclKeywords = map[string]bool{
	"function":  true,
	"class":     true,
	"interface": true,
	"type":      true,
	"enum":      true,
	"namespace": true,
	"module":    true,
	"global":    true,
}

func (p *Parser) parseOtherDecl(declStart, i, end int) *ast.OtherDecl {
	for p.at(i).Is("abstract") || p.at(i).Is("async") || (p.at(i).Is("const") && p.at(i+1).Is("enum")) {
		i++
	}
	kw := p.at(i)
	if kw.Type != token.IDENT || !otherDeclKeywords[kw.Literal] || i > end {
		p.errorf(kw.Pos, ErrExportTarget, kw.Literal)
		return nil
	}

	decl := &ast.OtherDecl{
		NodeInfo: ast.NodeInfo{Span: p.span(declStart, end)},
		Keyword:  kw.Literal,
		Text:     p.text(declStart, end),
	}
	n := i + 1
	if p.at(n).Type == token.OPERATOR && p.at(n).Literal == "*" {
		n++ // generator
	}
	if n <= end {
		switch name := p.at(n); name.Type {
		case token.IDENT:
			decl.Name = name.Literal
		case token.STRING:
			decl.Name = strings.Trim(name.Literal, `"'`)
		}
	}
	return decl
}

func (p *Parser) parseVarDecl(declStart, first, end int, kind ast.VarKind, declare bool) *ast.VarDecl {
	decl := &ast.VarDecl{
		NodeInfo: ast.NodeInfo{Span: p.span(declStart, end)},
		Kind:     kind,
		Declare:  declare,
	}

	last := end
	if p.at(last).Type == token.SEMICOLON {
		last--
	}
	if first > last {
		p.errorf(p.at(first-1).End, ErrExpectedDeclarator, string(kind))
		return decl
	}

	for _, seg := range p.splitDeclarators(first, last) {
		if seg.from > seg.to {
			p.errorf(p.at(seg.from-1).Pos, ErrExpectedDeclarator, p.at(seg.from-1).Literal)
			continue
		}
		decl.Decls = append(decl.Decls, p.parseDeclarator(seg.from, seg.to))
	}
	return decl
}

type segment struct{ from, to int }

type declPhase int

const (
	phaseBinding declPhase = iota
	phaseType
	phaseInit
)

// splitDeclarators splits tokens [from, to] on top-level commas. Inside a
// type annotation angle brackets also nest, so `Map<K, V>` stays whole. In
// an initializer they nest only around type arguments, see genericClose.
func (p *Parser) splitDeclarators(from, to int) []segment {
	var segs []segment
	segStart := from
	depth, angle := 0, 0
	phase := phaseBinding

	for i := from; i <= to; i++ {
		t := p.at(i)
		switch t.Type {
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			if depth > 0 {
				depth--
			}
		case token.LT:
			if phase == phaseType {
				angle++
			} else if phase == phaseInit && depth == 0 && i > from {
				if prev := p.at(i - 1).Type; prev == token.IDENT || prev == token.ASSIGN {
					if end := p.genericClose(i, to); end >= 0 {
						i = end
					}
				}
			}
		case token.GT:
			if phase == phaseType && angle > 0 {
				angle--
			}
		case token.COLON:
			if depth == 0 && phase == phaseBinding {
				phase = phaseType
			}
		case token.ASSIGN:
			if depth == 0 && angle == 0 {
				phase = phaseInit
			}
		case token.COMMA:
			if depth == 0 && angle == 0 {
				segs = append(segs, segment{segStart, i - 1})
				segStart = i + 1
				phase = phaseBinding
			}
		}
	}
	return append(segs, segment{segStart, to})
}

// genericClose returns the index of the ">" closing type arguments opened
// at lt, or -1 when the tokens read as a comparison instead: a ";" or "="
// comes first, a bracket closes that was not opened, or the ">" is not
// followed by a call, a member access or the end of the expression.
func (p *Parser) genericClose(lt, to int) int {
	angle, depth := 0, 0
	for i := lt; i <= to; i++ {
		switch p.at(i).Type {
		case token.LT:
			if depth == 0 {
				angle++
			}
		case token.GT:
			if depth > 0 {
				continue
			}
			angle--
			if angle == 0 {
				if i == to {
					return i
				}
				switch p.at(i + 1).Type {
				case token.LPAREN, token.COMMA, token.DOT, token.SEMICOLON,
					token.RPAREN, token.RBRACKET, token.RBRACE, token.TEMPLATE:
					return i
				}
				return -1
			}
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			if depth == 0 {
				return -1
			}
			depth--
		case token.SEMICOLON:
			return -1
		case token.ASSIGN:
			if depth == 0 {
				return -1
			}
		}
	}
	return -1
}

func (p *Parser) parseDeclarator(from, to int) *ast.VarDeclarator {
	d := &ast.VarDeclarator{NodeInfo: ast.NodeInfo{Span: p.span(from, to)}}
	t := p.at(from)
	i := from

	switch t.Type {
	case token.IDENT:
		d.Name = &ast.Ident{NodeInfo: ast.NodeInfo{Span: p.span(from, from)}, Name: t.Literal}
		i++
	case token.LBRACE, token.LBRACKET:
		closeIdx := p.matchClose(from, to)
		if closeIdx < 0 {
			p.errorf(t.Pos, ErrUnclosed, t.Literal)
			return d
		}
		d.Name = &ast.RawPattern{NodeInfo: ast.NodeInfo{Span: p.span(from, closeIdx)}, Text: p.text(from, closeIdx)}
		i = closeIdx + 1
	default:
		p.errorf(t.Pos, ErrExpectedBinding, t.Literal)
		return d
	}

	if i <= to && p.at(i).Type == token.BANG {
		d.Definite = true
		i++
	}

	if i <= to && p.at(i).Type == token.COLON {
		colon := p.at(i)
		i++
		typeStart := i
		depth, angle := 0, 0
		for ; i <= to; i++ {
			tt := p.at(i)
			if depth == 0 && angle == 0 && tt.Type == token.ASSIGN {
				break
			}
			switch tt.Type {
			case token.LPAREN, token.LBRACKET, token.LBRACE:
				depth++
			case token.RPAREN, token.RBRACKET, token.RBRACE:
				depth--
			case token.LT:
				angle++
			case token.GT:
				angle--
			}
		}
		if typeStart > i-1 {
			p.errorf(colon.End, ErrExpectedTypeAnn)
		} else {
			d.TypeAnn = p.text(typeStart, i-1)
		}
	}

	if i <= to && p.at(i).Type == token.ASSIGN {
		eq := p.at(i)
		i++
		if i > to {
			p.errorf(eq.End, ErrExpectedInit)
		} else {
			d.Init = &ast.RawExpr{NodeInfo: ast.NodeInfo{Span: p.span(i, to)}, Text: p.text(i, to)}
			i = to + 1
		}
	}

	if i <= to {
		p.errorf(p.at(i).Pos, ErrUnexpectedToken, p.at(i).Literal)
	}
	return d
}

// matchClose returns the index of the bracket closing the one at open, or
// -1 if it is not closed within [open, to].
func (p *Parser) matchClose(open, to int) int {
	depth := 0
	for i := open; i <= to; i++ {
		switch t := p.at(i); {
		case t.Type.IsOpening():
			depth++
		case t.Type.IsClosing():
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
