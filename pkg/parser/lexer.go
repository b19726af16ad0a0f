package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/routefold/pkg/token"
)

// Lexer tokenizes TypeScript and JavaScript module source.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	// prev is the last significant token; regex-vs-division depends on it.
	prev  token.Token
	prev2 token.Token

	// parens records, per open parenthesis, whether it opens a control
	// header such as if (...). headerClosed is set when the last ")"
	// closed one, since a slash after it starts a regular expression.
	parens       []bool
	headerClosed bool

	errors []Diagnostic
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// Errors returns the lexical errors collected so far.
func (l *Lexer) Errors() []Diagnostic {
	return l.errors
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos > len(l.input) {
		l.pos = len(l.input)
		l.ch = 0
		return
	}
	if l.readPos == len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.pos > 0 && l.input[l.pos-1] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// advance consumes n bytes.
func (l *Lexer) advance(n int) {
	for i := 0; i < n; i++ {
		l.readChar()
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// peekCharAt returns the character n bytes after the current one.
func (l *Lexer) peekCharAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// currentRune decodes the (possibly multi-byte) rune at the current position.
func (l *Lexer) currentRune() (rune, int) {
	if l.atEOF() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

func (l *Lexer) errorf(pos token.Position, msg string) {
	l.errors = append(l.errors, Diagnostic{Pos: pos, Message: msg, Source: SourceLexer})
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	newline := l.skipWhitespaceAndComments()

	pos := l.currentPos()
	tok := l.scan(pos)
	tok.Pos = pos
	tok.End = l.currentPos()
	tok.NewlineBefore = newline
	if tok.Type != token.EOF && tok.Literal == "" {
		tok.Literal = l.input[pos.Offset:tok.End.Offset]
	}
	if tok.Type != token.EOF {
		l.trackParens(tok)
		l.prev2 = l.prev
		l.prev = tok
	}
	return tok
}

// headerKeywords introduce a parenthesised header followed by a statement.
var headerKeywords = map[string]bool{
	"if": true, "while": true, "for": true, "with": true,
}

func (l *Lexer) trackParens(tok token.Token) {
	switch tok.Type {
	case token.LPAREN:
		header := l.prev.Type == token.IDENT && headerKeywords[l.prev.Literal] ||
			l.prev.Is("await") && l.prev2.Is("for")
		l.parens = append(l.parens, header)
	case token.RPAREN:
		l.headerClosed = false
		if n := len(l.parens); n > 0 {
			l.headerClosed = l.parens[n-1]
			l.parens = l.parens[:n-1]
		}
	}
}

// scan reads one token starting at the current character.
func (l *Lexer) scan(pos token.Position) token.Token {
	if l.atEOF() {
		return token.Token{Type: token.EOF}
	}

	single := func(t token.TokenType) token.Token {
		l.readChar()
		return token.Token{Type: t}
	}

	switch l.ch {
	case '(':
		return single(token.LPAREN)
	case ')':
		return single(token.RPAREN)
	case '[':
		return single(token.LBRACKET)
	case ']':
		return single(token.RBRACKET)
	case '{':
		return single(token.LBRACE)
	case '}':
		return single(token.RBRACE)
	case ';':
		return single(token.SEMICOLON)
	case ',':
		return single(token.COMMA)
	case ':':
		return single(token.COLON)
	case '<':
		return single(token.LT)
	case '>':
		return single(token.GT)
	case '\'', '"':
		return l.readString(pos)
	case '`':
		return l.readTemplate(pos)
	case '#':
		if isIdentStart(l.peekChar()) {
			l.readChar()
			l.readIdentifier()
			return token.Token{Type: token.PRIVATE_NAME}
		}
		return single(token.ILLEGAL)
	case '.':
		if isDigit(l.peekChar()) {
			return l.readNumber()
		}
		if l.peekChar() == '.' && l.peekCharAt(2) == '.' {
			l.advance(3)
			return token.Token{Type: token.OPERATOR}
		}
		return single(token.DOT)
	case '=':
		switch {
		case l.peekChar() == '>':
			l.advance(2)
			return token.Token{Type: token.ARROW}
		case l.peekChar() == '=':
			return l.readOperator()
		}
		return single(token.ASSIGN)
	case '!':
		if l.peekChar() == '=' {
			return l.readOperator()
		}
		return single(token.BANG)
	case '?':
		next := l.peekChar()
		if next == '?' || (next == '.' && !isDigit(l.peekCharAt(2))) {
			return l.readOperator()
		}
		return single(token.QUESTION)
	case '/':
		if l.regexAllowed() {
			return l.readRegex(pos)
		}
		return l.readOperator()
	}

	switch {
	case isDigit(l.ch):
		return l.readNumber()
	case isIdentStart(l.ch):
		l.readIdentifier()
		return token.Token{Type: token.IDENT}
	case l.ch >= utf8.RuneSelf:
		r, size := l.currentRune()
		if unicode.IsLetter(r) || r == '\u2118' || r == '\u212E' {
			l.readIdentifier()
			return token.Token{Type: token.IDENT}
		}
		l.advance(size)
		l.errorf(pos, "unexpected character "+string(r))
		return token.Token{Type: token.ILLEGAL}
	case strings.IndexByte(operatorChars, l.ch) >= 0:
		return l.readOperator()
	}

	l.errorf(pos, "unexpected character "+string(l.ch))
	return single(token.ILLEGAL)
}

// operatorChars are the first bytes of punctuators folded into OPERATOR.
const operatorChars = "+-*/%&|^~@=!?"

// operators lists multi-character punctuators, longest first.
var operators = []string{
	"...", "===", "!==", "**=", "&&=", "||=", "??=",
	"==", "!=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"++", "--", "**", "&&", "||", "??", "?.",
}

// readOperator consumes the longest operator at the current position.
func (l *Lexer) readOperator() token.Token {
	rest := l.input[l.pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			l.advance(len(op))
			return token.Token{Type: token.OPERATOR}
		}
	}
	l.readChar()
	return token.Token{Type: token.OPERATOR}
}

// regexKeywords are words after which a slash starts a regular expression.
var regexKeywords = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "throw": true, "case": true,
	"do": true, "else": true, "yield": true, "await": true, "extends": true,
}

// regexAllowed reports whether a slash at the current position begins a
// regular expression literal rather than a division operator.
func (l *Lexer) regexAllowed() bool {
	switch l.prev.Type {
	case token.EOF:
		return true
	case token.IDENT:
		return regexKeywords[l.prev.Literal]
	case token.RPAREN:
		return l.headerClosed
	case token.NUMBER, token.STRING, token.TEMPLATE, token.REGEX, token.PRIVATE_NAME,
		token.RBRACKET, token.RBRACE:
		return false
	case token.OPERATOR:
		return l.prev.Literal != "++" && l.prev.Literal != "--"
	}
	return true
}

// skipWhitespaceAndComments skips whitespace and comments and reports
// whether a line terminator was crossed.
func (l *Lexer) skipWhitespaceAndComments() bool {
	newline := false
	if l.pos == 0 && l.ch == '#' && l.peekChar() == '!' {
		l.skipLineComment()
	}
	for !l.atEOF() {
		switch {
		case l.ch == '\n':
			newline = true
			l.readChar()
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\v' || l.ch == '\f':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			l.skipLineComment()
		case l.ch == '/' && l.peekChar() == '*':
			if l.skipBlockComment() {
				newline = true
			}
		case l.ch >= utf8.RuneSelf:
			r, size := l.currentRune()
			switch {
			case r == '\u2028' || r == '\u2029':
				newline = true
			case r == '\uFEFF' || unicode.IsSpace(r):
			default:
				return newline
			}
			l.advance(size)
		default:
			return newline
		}
	}
	return newline
}

func (l *Lexer) skipLineComment() {
	for !l.atEOF() && l.ch != '\n' {
		l.readChar()
	}
}

// skipBlockComment skips a block comment and reports whether it spans lines.
func (l *Lexer) skipBlockComment() bool {
	pos := l.currentPos()
	l.advance(2) // skip '/*'
	multiline := false
	for !l.atEOF() {
		if l.ch == '*' && l.peekChar() == '/' {
			l.advance(2)
			return multiline
		}
		if l.ch == '\n' {
			multiline = true
		}
		l.readChar()
	}
	l.errorf(pos, ErrUnterminatedComment)
	return multiline
}

// readString reads a quoted string literal.
func (l *Lexer) readString(pos token.Position) token.Token {
	quote := l.ch
	l.readChar() // skip opening quote
	for !l.atEOF() {
		switch l.ch {
		case '\\':
			l.advance(2)
			continue
		case '\n':
			l.errorf(pos, ErrUnterminatedString)
			return token.Token{Type: token.STRING}
		case quote:
			l.readChar() // skip closing quote
			return token.Token{Type: token.STRING}
		}
		l.readChar()
	}
	l.errorf(pos, ErrUnterminatedString)
	return token.Token{Type: token.STRING}
}

// readTemplate reads a template literal including its substitutions.
// Substitutions are tokenized recursively so nested braces, strings and
// templates are balanced correctly.
func (l *Lexer) readTemplate(pos token.Position) token.Token {
	l.readChar() // skip opening backtick
	for !l.atEOF() {
		switch {
		case l.ch == '\\':
			l.advance(2)
		case l.ch == '`':
			l.readChar()
			return token.Token{Type: token.TEMPLATE}
		case l.ch == '$' && l.peekChar() == '{':
			l.advance(2)
			l.prev, l.prev2 = token.Token{}, token.Token{}
			depth := 1
			for depth > 0 {
				tok := l.NextToken()
				switch tok.Type {
				case token.LBRACE:
					depth++
				case token.RBRACE:
					depth--
				case token.EOF:
					l.errorf(pos, ErrUnterminatedTemplate)
					return token.Token{Type: token.TEMPLATE}
				}
			}
		default:
			l.readChar()
		}
	}
	l.errorf(pos, ErrUnterminatedTemplate)
	return token.Token{Type: token.TEMPLATE}
}

// readRegex reads a regular expression literal with its flags.
func (l *Lexer) readRegex(pos token.Position) token.Token {
	l.readChar() // skip opening slash
	inClass := false
	for !l.atEOF() {
		switch l.ch {
		case '\\':
			l.advance(2)
			continue
		case '\n':
			l.errorf(pos, ErrUnterminatedRegex)
			return token.Token{Type: token.REGEX}
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				l.readChar()
				for isIdentPart(l.ch) {
					l.readChar()
				}
				return token.Token{Type: token.REGEX}
			}
		}
		l.readChar()
	}
	l.errorf(pos, ErrUnterminatedRegex)
	return token.Token{Type: token.REGEX}
}

// readNumber reads a numeric literal: decimal, hex/octal/binary, with
// separators, exponent and bigint suffix.
func (l *Lexer) readNumber() token.Token {
	if l.ch == '0' && strings.IndexByte("xXoObB", l.peekChar()) >= 0 {
		l.advance(2)
		for isHexDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	} else {
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		if l.ch == '.' {
			l.readChar()
			for isDigit(l.ch) || l.ch == '_' {
				l.readChar()
			}
		}
		if l.ch == 'e' || l.ch == 'E' {
			next := l.peekChar()
			if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekCharAt(2))) {
				l.advance(2)
				for isDigit(l.ch) || l.ch == '_' {
					l.readChar()
				}
			}
		}
	}
	if l.ch == 'n' {
		l.readChar()
	}
	return token.Token{Type: token.NUMBER}
}

// readIdentifier reads an identifier, including unicode letters. A backslash
// is consumed as part of the name so \uXXXX escapes stay intact.
func (l *Lexer) readIdentifier() {
	for !l.atEOF() {
		switch {
		case isIdentPart(l.ch):
			l.readChar()
		case l.ch >= utf8.RuneSelf:
			r, size := l.currentRune()
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r) &&
				!unicode.Is(unicode.Mc, r) && !unicode.Is(unicode.Pc, r) && r != '\u200C' && r != '\u200D' {
				return
			}
			l.advance(size)
		default:
			return
		}
	}
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isIdentStart(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_' || ch == '$' || ch == '\\'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
