package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/routefold/internal/cli/config"
	"github.com/leapstack-labs/routefold/internal/cli/testutil"
)

const pageEdit = `import { db } from "./db";

export const load = 76;
export const load = 115;
export const GET = 160;
`

// inProject switches to a fresh test project with default configuration.
func inProject(t *testing.T) string {
	t.Helper()
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)
	config.ResetConfig()
	return dir
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		name  string
		new   func() *cobra.Command
		use   string
		flags []string
	}{
		{name: "classify", new: NewClassifyCommand, use: "classify <file|dir>...", flags: []string{"stdout", "format"}},
		{name: "watch", new: NewWatchCommand, use: "watch [dir]", flags: []string{"debounce", "initial"}},
		{name: "routes", new: NewRoutesCommand, use: "routes", flags: []string{"in", "out", "check"}},
		{name: "names", new: NewNamesCommand, use: "names"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.new()
			assert.Equal(t, tt.use, cmd.Use)
			assert.NotEmpty(t, cmd.Short, "Short should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestClassifyCommand(t *testing.T) {
	dir := inProject(t)

	stdout, _, err := testutil.Execute(t, NewClassifyCommand(), "routes")
	require.NoError(t, err)

	assert.Equal(t, pageEdit, testutil.ReadFile(t, filepath.Join(dir, "routes", "page_edit.ts")))
	assert.Equal(t, "export const POST = 27, helper = 39;\n",
		testutil.ReadFile(t, filepath.Join(dir, "routes", "api", "users_edit.ts")))

	// Not a terminal, so the report is markdown.
	assert.Contains(t, stdout, "### routes/api/users.ts")
	assert.Contains(t, stdout, "### routes/page.ts")
	assert.Contains(t, stdout, "| page-server | `load` | 76 | 3 |")
	assert.Contains(t, stdout, "| client | `load` | 115 | 4 |")
	testutil.AssertNoANSI(t, stdout)
	testutil.AssertValidMarkdown(t, stdout)
}

func TestClassifyCommand_Stdout(t *testing.T) {
	dir := inProject(t)

	stdout, _, err := testutil.Execute(t, NewClassifyCommand(), "routes/page.ts", "--stdout")
	require.NoError(t, err)
	assert.Equal(t, pageEdit, stdout)
	assert.NoFileExists(t, filepath.Join(dir, "routes", "page_edit.ts"))
}

func TestClassifyCommand_Errors(t *testing.T) {
	dir := inProject(t)
	testutil.WriteFile(t, filepath.Join(dir, "broken", "page.ts"), testutil.BrokenModule)
	testutil.WriteFile(t, filepath.Join(dir, "empty", "notes.md"), "")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "malformed export", args: []string{"broken"}, wantErr: "malformed export"},
		{name: "no modules", args: []string{"empty"}, wantErr: "no route modules found"},
		{name: "missing path", args: []string{"missing.ts"}, wantErr: "failed to stat"},
		{name: "no args", args: []string{}, wantErr: "requires at least 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := testutil.Execute(t, NewClassifyCommand(), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
	assert.NoFileExists(t, filepath.Join(dir, "broken", "page_edit.ts"))
}

func TestRoutesCommand(t *testing.T) {
	dir := inProject(t)

	stdout, _, err := testutil.Execute(t, NewRoutesCommand())
	require.NoError(t, err)

	assert.Contains(t, stdout, "| /home | routes/page.ts |  |  |")
	assert.Contains(t, stdout, "| /api/users |  | routes/api/users.ts |  |")
	testutil.AssertValidMarkdown(t, stdout)

	written := testutil.ReadFile(t, filepath.Join(dir, "Routes.json"))
	assert.Contains(t, written, `"name": "users"`)
	assert.Contains(t, written, `"guard": "auth"`)
}

func TestRoutesCommand_Check(t *testing.T) {
	dir := inProject(t)

	_, _, err := testutil.Execute(t, NewRoutesCommand(), "--check")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "Routes.json"))

	testutil.WriteFile(t, filepath.Join(dir, "Routes.toml"), "[[routes]]\nname = \"a\"\n\n[[routes]]\nname = \"a\"\n")
	_, _, err = testutil.Execute(t, NewRoutesCommand(), "--check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a: duplicate route name")
}

func TestNamesCommand(t *testing.T) {
	inProject(t)

	stdout, _, err := testutil.Execute(t, NewNamesCommand())
	require.NoError(t, err)
	assert.Contains(t, stdout, "| client | `client_load` | `load` |")
	assert.Contains(t, stdout, "| server | `PATCH` | `PATCH` |")
	testutil.AssertValidMarkdown(t, stdout)
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchCommand(t *testing.T) {
	dir := inProject(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	cmd := NewWatchCommand()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"routes", "--debounce", "20ms"})
	cmd.SetContext(ctx)

	done := make(chan error, 1)
	go func() { done <- cmd.Execute() }()

	pageOut := filepath.Join(dir, "routes", "page_edit.ts")
	require.Eventually(t, func() bool {
		return testutil.ReadFileIfExists(pageOut) == pageEdit
	}, 5*time.Second, 10*time.Millisecond, "initial pass rewrites existing modules")

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	testutil.WriteFile(t, filepath.Join(dir, "routes", "new.ts"), "export const actions = 1;\n")

	newOut := filepath.Join(dir, "routes", "new_edit.ts")
	require.Eventually(t, func() bool {
		return testutil.ReadFileIfExists(newOut) == "export const actions = 24;\n"
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}

	assert.Contains(t, out.String(), "routes/new.ts -> routes/new_edit.ts (1 page-server, 0 server, 0 client)")
}
