package parser

import (
	"github.com/evanw/esbuild/pkg/api"

	"github.com/leapstack-labs/routefold/pkg/token"
)

// Validate runs esbuild's parser over src and converts its errors into
// diagnostics. It catches syntax errors inside statements, which the
// statement splitter keeps as opaque text.
func Validate(src string, opts Options) []Diagnostic {
	result := api.Transform(src, api.TransformOptions{
		Loader:     opts.Dialect.Loader(),
		Sourcefile: opts.Filename,
		LogLevel:   api.LogLevelSilent,
	})
	if len(result.Errors) == 0 {
		return nil
	}

	lines := lineOffsets(src)
	diags := make([]Diagnostic, 0, len(result.Errors))
	for _, msg := range result.Errors {
		d := Diagnostic{Message: msg.Text, Source: SourceEsbuild}
		if loc := msg.Location; loc != nil {
			d.Pos = token.Position{Line: loc.Line, Column: loc.Column + 1}
			if loc.Line >= 1 && loc.Line <= len(lines) {
				d.Pos.Offset = lines[loc.Line-1] + loc.Column
			}
		}
		diags = append(diags, d)
	}
	return diags
}

// lineOffsets returns the byte offset at which each line of src starts.
func lineOffsets(src string) []int {
	offsets := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}
