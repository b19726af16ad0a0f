// Package emit prints a module tree back to source text.
package emit

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/leapstack-labs/routefold/pkg/ast"
)

// Target is the output language.
type Target int

// Output targets.
const (
	TargetTS Target = iota // TypeScript, types kept
	TargetJS               // JavaScript, types stripped by esbuild
)

func (t Target) String() string {
	if t == TargetJS {
		return "js"
	}
	return "ts"
}

// ParseTarget converts "ts" or "js" to a Target.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ts", "typescript":
		return TargetTS, nil
	case "js", "javascript":
		return TargetJS, nil
	}
	return TargetTS, fmt.Errorf("unknown emit target %q (expected ts or js)", s)
}

// Options configures emission.
type Options struct {
	Target   Target
	Filename string // used in esbuild error messages
}

// Module prints mod as TypeScript. Statements that were not rewritten are
// printed from their original source text together with the comments and
// whitespace that preceded them.
func Module(mod *ast.Module) string {
	p := newPrinter()
	p.printModule(mod)
	return p.String()
}

// ModuleWithOptions prints mod for the requested target.
func ModuleWithOptions(mod *ast.Module, opts Options) (string, error) {
	src := Module(mod)
	if opts.Target != TargetJS {
		return src, nil
	}

	result := api.Transform(src, api.TransformOptions{
		Loader:     api.LoaderTS,
		Format:     api.FormatESModule,
		Sourcefile: opts.Filename,
		LogLevel:   api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		var errMsg string
		for _, err := range result.Errors {
			if err.Location == nil {
				errMsg += err.Text + "\n"
				continue
			}
			errMsg += fmt.Sprintf("%s:%d:%d: %s\n",
				err.Location.File,
				err.Location.Line,
				err.Location.Column,
				err.Text)
		}
		return "", fmt.Errorf("esbuild errors:\n%s", errMsg)
	}
	return string(result.Code), nil
}
