package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/routefold/pkg/token"
)

// Diagnostic sources.
const (
	SourceLexer   = "lexer"
	SourceParser  = "parser"
	SourceEsbuild = "esbuild"
)

// Diagnostic is a single problem found while reading a module.
type Diagnostic struct {
	Pos     token.Position
	Message string
	Source  string // SourceLexer, SourceParser or SourceEsbuild
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s error at line %d, column %d: %s", d.Source, d.Pos.Line, d.Pos.Column, d.Message)
}

// DiagnosticsError is returned when a module cannot be parsed. It carries
// every diagnostic collected, in source order.
type DiagnosticsError struct {
	Filename    string
	Diagnostics []Diagnostic
}

func (e *DiagnosticsError) Error() string {
	if len(e.Diagnostics) == 0 {
		return "parse failed"
	}
	var sb strings.Builder
	first := e.Diagnostics[0]
	if e.Filename != "" {
		fmt.Fprintf(&sb, "%s:%d:%d: %s", e.Filename, first.Pos.Line, first.Pos.Column, first.Message)
	} else {
		sb.WriteString(first.Error())
	}
	if n := len(e.Diagnostics) - 1; n > 0 {
		fmt.Fprintf(&sb, " (and %d more)", n)
	}
	return sb.String()
}

// Common error messages
const (
	ErrUnterminatedString   = "unterminated string literal"
	ErrUnterminatedTemplate = "unterminated template literal"
	ErrUnterminatedRegex    = "unterminated regular expression"
	ErrUnterminatedComment  = "unterminated block comment"

	ErrUnexpectedToken    = "unexpected token %q"
	ErrUnbalanced         = "unbalanced %q"
	ErrUnclosed           = "%q is never closed"
	ErrExpectedBinding    = "expected a binding name or pattern, found %q"
	ErrExpectedDeclarator = "expected a declarator after %q"
	ErrExpectedTypeAnn    = "expected a type after ':'"
	ErrExpectedInit       = "expected an initializer after '='"
	ErrExportTarget       = "expected a declaration after 'export', found %q"
)
