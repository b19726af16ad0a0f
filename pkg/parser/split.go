package parser

import "github.com/leapstack-labs/routefold/pkg/token"

// stmtHead is the shape of a statement as far as its end is concerned.
type stmtHead int

const (
	headSimple  stmtHead = iota // ends at ';', ASI or EOF
	headDecl                    // function, class, interface, enum, namespace: ends with its body
	headControl                 // if, for, while, switch, try, with, do, block
)

// words that cannot end a statement, so a newline after them never
// triggers automatic semicolon insertion.
var nonEndingWords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"switch": true, "case": true, "try": true, "catch": true, "finally": true,
	"function": true, "class": true, "const": true, "let": true, "var": true,
	"new": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"delete": true, "export": true, "import": true, "extends": true,
	"implements": true, "interface": true, "enum": true, "declare": true,
	"abstract": true, "default": true, "as": true, "satisfies": true,
	"keyof": true, "readonly": true, "with": true, "await": true,
	"infer": true, "unique": true, "is": true, "asserts": true,
}

// words that begin a declaration; used to end a declaration head that was
// written without a body, e.g. an overload signature.
var declStartWords = map[string]bool{
	"export": true, "import": true, "function": true, "class": true,
	"interface": true, "type": true, "enum": true, "declare": true,
	"const": true, "let": true, "var": true, "namespace": true,
	"module": true, "abstract": true, "async": true,
}

var controlWords = map[string]bool{
	"if": true, "for": true, "while": true, "with": true,
	"switch": true, "try": true, "do": true,
}

// classifyHead inspects the first tokens of the statement at start.
func (p *Parser) classifyHead(start int) (stmtHead, string) {
	i := start
	if p.at(i).Is("export") {
		i++
		if p.at(i).Is("default") {
			i++
		}
	}
	for p.isHeadModifier(i) {
		i++
	}
	t, next := p.at(i), p.at(i+1)
	switch {
	case t.Is("function"), t.Is("class"):
		return headDecl, t.Literal
	case p.isTS() && (t.Is("interface") || t.Is("enum")) && next.Type == token.IDENT:
		return headDecl, t.Literal
	case p.isTS() && (t.Is("namespace") || t.Is("module")) &&
		(next.Type == token.IDENT || next.Type == token.STRING) && !next.NewlineBefore:
		return headDecl, t.Literal
	case p.isTS() && t.Is("global") && i > start && next.Type == token.LBRACE:
		return headDecl, t.Literal
	}
	if i == start {
		if t.Type == token.IDENT && controlWords[t.Literal] {
			return headControl, t.Literal
		}
		if t.Type == token.LBRACE {
			return headControl, "{"
		}
	}
	return headSimple, ""
}

// isHeadModifier reports whether token i is a modifier in front of a
// declaration keyword.
func (p *Parser) isHeadModifier(i int) bool {
	t, next := p.at(i), p.at(i+1)
	switch {
	case p.isTS() && t.Is("declare") && next.Type == token.IDENT && !next.NewlineBefore:
		return true
	case t.Is("abstract") && next.Is("class"):
		return true
	case t.Is("async") && next.Is("function") && !next.NewlineBefore:
		return true
	case t.Is("const") && next.Is("enum"):
		return true
	}
	return false
}

// statementEnd returns the index of the last token of the statement that
// begins at start.
func (p *Parser) statementEnd(start int) int {
	head, word := p.classifyHead(start)
	var openers []token.Token
	bodyOpen := false    // the depth-0 brace currently open is the body
	bodyClosed := false  // a body has been seen
	headerParen := false // the depth-0 paren currently open is a control header
	afterHeader := false // the previous token closed a control header

	for i := start; ; i++ {
		t := p.at(i)
		depth := len(openers)
		if t.Type == token.EOF {
			if depth > 0 {
				o := openers[depth-1]
				p.errorf(o.Pos, ErrUnclosed, o.Literal)
			}
			return i - 1
		}
		if i > start && depth == 0 && t.NewlineBefore && !afterHeader && p.asiEnds(head, word, i, bodyClosed) {
			return i - 1
		}
		afterHeader = false

		switch t.Type {
		case token.LPAREN, token.LBRACKET:
			if depth == 0 && t.Type == token.LPAREN && head == headControl && p.isHeaderParen(i, word) {
				headerParen = true
			}
			openers = append(openers, t)
		case token.LBRACE:
			if depth == 0 && head != headSimple && p.isBodyBrace(i, start) {
				bodyOpen = true
			}
			openers = append(openers, t)
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			if depth == 0 {
				p.errorf(t.Pos, ErrUnbalanced, t.Literal)
				return i
			}
			if o := openers[depth-1]; !matches(o.Type, t.Type) {
				p.errorf(t.Pos, ErrUnbalanced, t.Literal)
			}
			openers = openers[:depth-1]
			if depth > 1 {
				continue
			}
			switch {
			case t.Type == token.RPAREN && headerParen:
				headerParen = false
				afterHeader = true
			case t.Type == token.RBRACE && bodyOpen:
				bodyOpen = false
				bodyClosed = true
				next := p.at(i + 1)
				if continuesAfterBody(word, next) {
					continue
				}
				if next.Type == token.SEMICOLON && !next.NewlineBefore {
					return i + 1
				}
				return i
			}
		case token.SEMICOLON:
			if depth > 0 {
				continue
			}
			next := p.at(i + 1)
			if (word == "if" && next.Is("else")) || (word == "do" && next.Is("while")) {
				continue
			}
			return i
		}
	}
}

func matches(open, closing token.TokenType) bool {
	switch open {
	case token.LPAREN:
		return closing == token.RPAREN
	case token.LBRACKET:
		return closing == token.RBRACKET
	case token.LBRACE:
		return closing == token.RBRACE
	}
	return false
}

func continuesAfterBody(word string, next token.Token) bool {
	switch word {
	case "if":
		return next.Is("else")
	case "try":
		return next.Is("catch") || next.Is("finally")
	case "do":
		return next.Is("while")
	}
	return false
}

// isHeaderParen reports whether the paren at i opens a control header such
// as `if (...)`. The `while` that closes a do-loop is not a header.
func (p *Parser) isHeaderParen(i int, word string) bool {
	prev := p.at(i - 1)
	if prev.Is("await") && p.at(i-2).Is("for") {
		return true
	}
	if prev.Type != token.IDENT {
		return false
	}
	switch prev.Literal {
	case "if", "for", "with", "switch", "catch":
		return true
	case "while":
		return word != "do"
	}
	return false
}

// isBodyBrace reports whether the depth-0 brace at i opens a statement
// body rather than an object literal or object type.
func (p *Parser) isBodyBrace(i, start int) bool {
	if i == start {
		return true
	}
	switch p.at(i - 1).Type {
	case token.COLON, token.ASSIGN, token.OPERATOR, token.LT, token.COMMA,
		token.LPAREN, token.ARROW, token.QUESTION:
		return false
	}
	return true
}

// asiEnds reports whether a newline before token i ends the statement.
func (p *Parser) asiEnds(head stmtHead, word string, i int, bodyClosed bool) bool {
	next := p.at(i)
	if head == headDecl && !bodyClosed {
		if next.Type == token.OPERATOR && next.Literal == "@" {
			return true
		}
		return next.Type == token.IDENT && declStartWords[next.Literal]
	}
	if !p.canEndStatement(i - 1) {
		return false
	}
	return !continuesExpression(next, word)
}

func (p *Parser) canEndStatement(i int) bool {
	t := p.at(i)
	switch t.Type {
	case token.IDENT:
		if nonEndingWords[t.Literal] {
			prev := p.at(i - 1)
			return prev.Type == token.DOT || prev.Literal == "?."
		}
		return true
	case token.PRIVATE_NAME, token.NUMBER, token.STRING, token.TEMPLATE, token.REGEX,
		token.RPAREN, token.RBRACKET, token.RBRACE, token.GT, token.BANG:
		return true
	case token.OPERATOR:
		return t.Literal == "++" || t.Literal == "--"
	}
	return false
}

func continuesExpression(next token.Token, word string) bool {
	switch next.Type {
	case token.OPERATOR:
		switch next.Literal {
		case "++", "--", "...", "@", "~":
			return false
		}
		return true
	case token.DOT, token.COMMA, token.QUESTION, token.COLON, token.ASSIGN,
		token.ARROW, token.LT, token.GT, token.LPAREN, token.LBRACKET, token.TEMPLATE:
		return true
	case token.IDENT:
		switch next.Literal {
		case "in", "instanceof", "as", "satisfies", "else", "catch", "finally":
			return true
		}
		return word == "do" && next.Literal == "while"
	}
	return false
}
