package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/routefold/pkg/ast"
	"github.com/leapstack-labs/routefold/pkg/classify"
	"github.com/leapstack-labs/routefold/pkg/parser"
)

func parseTS(t *testing.T, src string) *ast.Module {
	t.Helper()
	mod, err := parser.Parse(src, parser.TypeScript)
	require.NoError(t, err)
	return mod
}

func TestModule_Passthrough(t *testing.T) {
	inputs := []string{
		"",
		"// only a comment\n",
		"import x from 'x'\n\nfunction f() {\n  return x\n}\n",
		"export default { a: 1 }\nexport * from './b'\n/* tail */",
		"class A {\n  #p = 1\n}\nconst re = /a\\/b/g\n",
	}

	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			assert.Equal(t, src, Module(parseTS(t, src)))
		})
	}
}

func TestModule_Classified(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "page server load",
			input: "export const server_load = async () => {}\n",
			want:  "export const load = 41;\n",
		},
		{
			name:  "keeps trivia around exports",
			input: "import a from 'a';\n\n// handlers\nexport const GET = a, POST = a;\n",
			want:  "import a from 'a';\n\n// handlers\nexport const GET = 52, POST = 62;\n",
		},
		{
			name:  "declare and type annotation",
			input: "export declare const client_load: Loader",
			want:  "export declare const load: Loader;",
		},
		{
			name:  "definite assignment",
			input: "export let actions!: Actions;",
			want:  "export let actions!: Actions;",
		},
		{
			name:  "destructuring passes through",
			input: "export const { a, b } = obj, GET = 1;",
			want:  "export const { a, b } = obj, GET = 36;",
		},
		{
			name:  "await using",
			input: "export await using GET = open()",
			want:  "export await using GET = 31;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := classify.Classify(parseTS(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, Module(res.Module))
		})
	}
}

func TestModule_UnclassifiedExportIsNormalised(t *testing.T) {
	assert.Equal(t, "export const a = 1;\n", Module(parseTS(t, "export const a=1\n")))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", formatNumber(0))
	assert.Equal(t, "41", formatNumber(41))
	assert.Equal(t, "1.5", formatNumber(1.5))
	assert.Equal(t, "(-1)", formatNumber(-1))
}

func TestModuleWithOptions_JS(t *testing.T) {
	res, err := classify.Classify(parseTS(t, "export const GET: number = handler;\n"))
	require.NoError(t, err)

	out, err := ModuleWithOptions(res.Module, Options{Target: TargetJS})
	require.NoError(t, err)
	assert.Contains(t, out, "export const GET = 34;")
	assert.NotContains(t, out, "number")

	ts, err := ModuleWithOptions(res.Module, Options{Target: TargetTS})
	require.NoError(t, err)
	assert.Equal(t, "export const GET: number = 34;\n", ts)
}

func TestModuleWithOptions_JSError(t *testing.T) {
	mod := &ast.Module{Body: []ast.Stmt{&ast.RawStmt{Text: "const = ;"}}}
	_, err := ModuleWithOptions(mod, Options{Target: TargetJS, Filename: "bad.ts"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.ts:1:")
}

func TestParseTarget(t *testing.T) {
	tg, err := ParseTarget("JS")
	require.NoError(t, err)
	assert.Equal(t, TargetJS, tg)
	assert.Equal(t, "js", tg.String())

	tg, err = ParseTarget("")
	require.NoError(t, err)
	assert.Equal(t, TargetTS, tg)

	_, err = ParseTarget("wasm")
	require.Error(t, err)
}
