// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// PageModule is a route module with one export per bucket.
const PageModule = `import { db } from "./db";

export const server_load = async () => db.load();
export const client_load = () => null;
export const GET = () => new Response("ok");
`

// BrokenModule exports a function, which cannot be rewritten.
const BrokenModule = `export function handler() {}
`

// RoutesTOML is a two-level route manifest.
const RoutesTOML = `[[routes]]
name = "home"
page = "routes/page.ts"

[[routes]]
name = "api"
guard = "auth"

[[routes.routes]]
name = "users"
controller = "routes/api/users.ts"
`

// SetupTestProject creates a temporary project with route modules and a
// Routes.toml, and returns its directory.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	files := map[string]string{
		"routes/page.ts":      PageModule,
		"routes/api/users.ts": "export const POST = handler, helper = 1;\n",
		"Routes.toml":         RoutesTOML,
	}
	for name, content := range files {
		WriteFile(t, filepath.Join(tmpDir, name), content)
	}
	return tmpDir
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// ReadFile returns the contents of path, failing the test if it is missing.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test path
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// Execute runs cmd with args and returns what it wrote to stdout and stderr.
func Execute(t *testing.T, cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown checks that every line of a markdown table has the
// same number of cells and that headers have content.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	cells := -1
	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
		if !strings.HasPrefix(trimmed, "|") {
			cells = -1
			continue
		}
		n := strings.Count(trimmed, "|")
		if cells >= 0 && n != cells {
			t.Errorf("table row at line %d has %d separators, want %d: %q", i+1, n, cells, line)
		}
		cells = n
	}
}

// ReadFileIfExists returns the contents of path, or "" if it cannot be read.
func ReadFileIfExists(path string) string {
	data, err := os.ReadFile(path) //nolint:gosec // test path
	if err != nil {
		return ""
	}
	return string(data)
}
