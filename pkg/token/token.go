// Package token defines the lexical tokens of the module scanner.
//
// The scanner is deliberately shallow: keywords are reported as IDENT and
// recognised by their literal text, and every operator that the statement
// splitter does not care about collapses into OPERATOR.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT        // foo, export, const
	PRIVATE_NAME // #field
	NUMBER       // 123, 0x1f, 1_000n
	STRING       // 'a', "b"
	TEMPLATE     // `a ${b} c`, substitutions included
	REGEX        // /ab+c/gi

	// Punctuation the splitter inspects
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	LBRACE    // {
	RBRACE    // }
	SEMICOLON // ;
	COMMA     // ,
	COLON     // :
	DOT       // .
	QUESTION  // ?
	ASSIGN    // =
	ARROW     // =>
	BANG      // !
	LT        // <
	GT        // >, always a single character so nested generics close one at a time

	// OPERATOR covers every other punctuator (+, ===, ?., ??=, ..., @, ...).
	OPERATOR
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:        "IDENT",
	PRIVATE_NAME: "PRIVATE_NAME",
	NUMBER:       "NUMBER",
	STRING:       "STRING",
	TEMPLATE:     "TEMPLATE",
	REGEX:        "REGEX",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	LBRACE:    "{",
	RBRACE:    "}",
	SEMICOLON: ";",
	COMMA:     ",",
	COLON:     ":",
	DOT:       ".",
	QUESTION:  "?",
	ASSIGN:    "=",
	ARROW:     "=>",
	BANG:      "!",
	LT:        "<",
	GT:        ">",
	OPERATOR:  "OPERATOR",
}

// Token is a single lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position // first byte
	End     Position // one past the last byte

	// NewlineBefore reports whether a line terminator separates this token
	// from the previous one. Automatic semicolon insertion depends on it.
	NewlineBefore bool
}

// Span returns the source range covered by the token.
func (t Token) Span() Span {
	return Span{Start: t.Pos, End: t.End}
}

// Is reports whether the token is the identifier or keyword word.
func (t Token) Is(word string) bool {
	return t.Type == IDENT && t.Literal == word
}

// IsOpening reports whether the token opens a bracket group.
func (t TokenType) IsOpening() bool {
	return t == LPAREN || t == LBRACKET || t == LBRACE
}

// IsClosing reports whether the token closes a bracket group.
func (t TokenType) IsClosing() bool {
	return t == RPAREN || t == RBRACKET || t == RBRACE
}
