package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Dialect selects the source syntax accepted by the parser.
type Dialect int

// Supported dialects. TypeScript is a superset of JavaScript; the parser
// only reads type annotations as opaque text.
const (
	TypeScript Dialect = iota
	JavaScript
)

// String returns the canonical dialect name.
func (d Dialect) String() string {
	switch d {
	case TypeScript:
		return "ts"
	case JavaScript:
		return "js"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// ParseDialect converts a dialect name ("ts", "typescript", "js",
// "javascript") to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ts", "typescript":
		return TypeScript, nil
	case "js", "javascript":
		return JavaScript, nil
	}
	return TypeScript, fmt.Errorf("unknown dialect %q (expected ts or js)", s)
}

// DialectForPath infers the dialect from a file extension. The second
// result is false when the extension is not a module source extension.
func DialectForPath(path string) (Dialect, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return TypeScript, true
	case ".js", ".mjs", ".cjs":
		return JavaScript, true
	}
	return TypeScript, false
}

// Loader returns the esbuild loader for the dialect.
func (d Dialect) Loader() api.Loader {
	if d == JavaScript {
		return api.LoaderJS
	}
	return api.LoaderTS
}
