package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/routefold/internal/testutil"
	"github.com/leapstack-labs/routefold/pkg/classify"
	"github.com/leapstack-labs/routefold/pkg/emit"
	"github.com/leapstack-labs/routefold/pkg/parser"
)

const routeModule = `import { db } from "./db";

export const server_load = async () => db.load();
export const client_load = () => null;
export const GET = () => new Response("ok");
`

func newPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	cfg.Logger = testutil.NewTestLogger(t)
	p, err := New(cfg)
	require.NoError(t, err)
	return p
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNew_Defaults(t *testing.T) {
	p, err := New(Config{})
	require.NoError(t, err)

	cfg := p.Config()
	assert.Equal(t, DefaultSuffix, cfg.Suffix)
	assert.Equal(t, DefaultCacheSize, cfg.CacheSize)
	assert.Positive(t, cfg.Workers)
}

func TestProcessSource(t *testing.T) {
	p := newPipeline(t, Config{})

	res, err := p.ProcessSource(context.Background(), "routes/page.ts", routeModule)
	require.NoError(t, err)

	assert.Equal(t, "routes/page.ts", res.Path)
	assert.Equal(t, filepath.Join("routes", "page_edit.ts"), res.OutPath)
	assert.False(t, res.Cached)
	assert.Contains(t, res.Output, `import { db } from "./db";`)
	assert.Contains(t, res.Output, "export const load = 76;")
	assert.NotContains(t, res.Output, "server_load")

	counts := res.Result.Counts()
	assert.Equal(t, 1, counts[classify.PageServer])
	assert.Equal(t, 1, counts[classify.Server])
	assert.Equal(t, 1, counts[classify.Client])
}

func TestProcessSource_Cache(t *testing.T) {
	p := newPipeline(t, Config{})
	ctx := context.Background()

	first, err := p.ProcessSource(ctx, "a.ts", routeModule)
	require.NoError(t, err)

	second, err := p.ProcessSource(ctx, "b.ts", routeModule)
	require.NoError(t, err)

	assert.True(t, second.Cached)
	assert.Equal(t, "b.ts", second.Path)
	assert.Equal(t, "b_edit.ts", second.OutPath)
	assert.Equal(t, first.Output, second.Output)
	assert.False(t, first.Cached, "cached copies do not alias the stored result")
}

func TestProcessSource_Errors(t *testing.T) {
	p := newPipeline(t, Config{})
	ctx := context.Background()

	_, err := p.ProcessSource(ctx, "bad.ts", "export foo")
	require.Error(t, err)
	var diagErr *parser.DiagnosticsError
	assert.True(t, errors.As(err, &diagErr))
	assert.Contains(t, err.Error(), "bad.ts: ")

	_, err = p.ProcessSource(ctx, "fn.ts", "export function GET() {}")
	require.Error(t, err)
	assert.True(t, errors.Is(err, classify.ErrMalformedExport))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = p.ProcessSource(cancelled, "a.ts", routeModule)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessSource_LogsWarnings(t *testing.T) {
	rec, logger := testutil.NewRecorder()
	p, err := New(Config{Logger: logger})
	require.NoError(t, err)

	res, err := p.ProcessSource(context.Background(), "page.ts", "export const { a } = b, GET = 1;\n")
	require.NoError(t, err)
	require.Len(t, res.Result.Warnings, 1)

	warns := rec.Entries(slog.LevelWarn)
	require.Len(t, warns, 1)
	assert.Equal(t, "declarator not classified", warns[0].Message)
	assert.Equal(t, "page.ts", warns[0].Attrs["path"])
	assert.Equal(t, "unsupported-binding-pattern", warns[0].Attrs["kind"])
	assert.Equal(t, "{ a }", warns[0].Attrs["pattern"])
}

func TestProcessSource_JSTarget(t *testing.T) {
	p := newPipeline(t, Config{Target: emit.TargetJS})

	res, err := p.ProcessSource(context.Background(), "page.ts", "export const GET: number = 1;\n")
	require.NoError(t, err)
	assert.Equal(t, "page_edit.js", res.OutPath)
	assert.Contains(t, res.Output, "export const GET = 28;")
}

func TestProcessSource_DialectFromExtension(t *testing.T) {
	p := newPipeline(t, Config{Dialect: parser.TypeScript})

	// declare is a TypeScript modifier; in a .js file it is rejected.
	_, err := p.ProcessSource(context.Background(), "a.js", "export declare const x = 1")
	require.Error(t, err)

	_, err = p.ProcessSource(context.Background(), "a.ts", "export declare const x = 1")
	require.NoError(t, err)
}

func TestProcessFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.ts", "export const GET = 1;\n"),
		writeFile(t, dir, "b.ts", "export const client_load = 2;\n"),
		writeFile(t, dir, "nested/c.ts", "export const actions = {};\n"),
	}

	p := newPipeline(t, Config{Workers: 2})
	results, err := p.ProcessFiles(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, res := range results {
		assert.Equal(t, paths[i], res.Path, "results keep input order")
		assert.NoError(t, res.Err)
	}
	assert.Len(t, results[1].Result.Client, 1)
	assert.Len(t, results[2].Result.PageServer, 1)
}

func TestProcessFiles_FailFast(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "good.ts", "export const GET = 1;\n"),
		writeFile(t, dir, "bad.ts", "export class C {}\n"),
	}

	p := newPipeline(t, Config{})
	results, err := p.ProcessFiles(context.Background(), paths)
	require.Error(t, err)
	assert.Nil(t, results)
	assert.True(t, errors.Is(err, classify.ErrMalformedExport))
}

func TestProcessFiles_KeepGoing(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "good.ts", "export const GET = 1;\n"),
		writeFile(t, dir, "bad.ts", "export class C {}\n"),
		filepath.Join(dir, "missing.ts"),
	}

	p := newPipeline(t, Config{KeepGoing: true})
	results, err := p.ProcessFiles(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.True(t, errors.Is(results[1].Err, classify.ErrMalformedExport))
	assert.ErrorIs(t, results[2].Err, os.ErrNotExist)
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "example.ts", routeModule)
	outDir := filepath.Join(dir, "out")

	p := newPipeline(t, Config{OutDir: outDir})
	res, err := p.ProcessFile(context.Background(), in)
	require.NoError(t, err)
	require.NoError(t, p.WriteOutput(res))

	data, err := os.ReadFile(filepath.Join(outDir, "example_edit.ts"))
	require.NoError(t, err)
	assert.Equal(t, res.Output, string(data))

	err = p.WriteOutput(&FileResult{Path: in, Err: errors.New("boom")})
	require.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		in   string
		want string
	}{
		{"default suffix", Config{}, "src/example.ts", filepath.Join("src", "example_edit.ts")},
		{"custom suffix", Config{Suffix: ".split"}, "page.mts", "page.split.mts"},
		{"out dir", Config{OutDir: "build"}, "src/page.ts", filepath.Join("build", "page_edit.ts")},
		{"js target", Config{Target: emit.TargetJS}, "page.cts", "page_edit.cjs"},
		{"js input", Config{Target: emit.TargetJS}, "page.mjs", "page_edit.mjs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPipeline(t, tt.cfg)
			assert.Equal(t, tt.want, p.OutputPath(tt.in))
		})
	}
}

func TestIsOutput(t *testing.T) {
	p := newPipeline(t, Config{})
	assert.True(t, p.IsOutput("dir/example_edit.ts"))
	assert.False(t, p.IsOutput("dir/example.ts"))

	assert.True(t, IsModulePath("a.mts"))
	assert.False(t, IsModulePath("a.tsx"))
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	p := newPipeline(t, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu      sync.Mutex
		results []*FileResult
	)
	done := make(chan error, 1)
	go func() {
		done <- p.Watch(ctx, dir, 20*time.Millisecond, func(res *FileResult, err error) {
			if err != nil {
				return
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, dir, "page.ts", "export const server_load = 1;\n")
	writeFile(t, dir, "notes.md", "ignored")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(results) > 0
	}, 5*time.Second, 20*time.Millisecond)

	_, err := os.Stat(filepath.Join(dir, "page_edit.ts"))
	require.NoError(t, err)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	for _, res := range results {
		assert.Equal(t, filepath.Join(dir, "page.ts"), res.Path)
	}
}
