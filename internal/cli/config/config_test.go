package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyDir switches to a fresh directory with no config file above it.
func emptyDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	ResetConfig()
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("out-dir", "", "")
	fs.String("suffix", "", "")
	fs.String("format", "", "")
	fs.String("in", "", "")
	fs.Bool("keep-going", false, "")
	fs.Int("workers", 0, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	emptyDir(t)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultSuffix, cfg.Suffix)
	assert.Equal(t, DefaultDialect, cfg.Dialect)
	assert.Equal(t, DefaultEmit, cfg.Emit)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultRoutesIn, cfg.Routes.In)
	assert.Equal(t, DefaultRoutesOut, cfg.Routes.Out)
	assert.Empty(t, cfg.OutDir)
	assert.Zero(t, cfg.Workers)
	assert.False(t, cfg.ValidateSyntax)
	assert.False(t, cfg.KeepGoing)
	assert.Empty(t, cfg.ProjectRoot)

	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	dir := emptyDir(t)
	writeFile(t, filepath.Join(dir, "routefold.yaml"), `out_dir: build
emit: js
validate: true
workers: 2
routes:
  in: app/Routes.yaml
`)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "routefold.yaml", filepath.Base(GetConfigFileUsed()))
	assert.Equal(t, filepath.Base(dir), filepath.Base(cfg.ProjectRoot))
	assert.Equal(t, "js", cfg.Emit)
	assert.True(t, cfg.ValidateSyntax)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, "build"), cfg.OutDir)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, "app", "Routes.yaml"), cfg.Routes.In)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultRoutesOut), cfg.Routes.Out)
}

func TestLoadConfig_FileFoundUpward(t *testing.T) {
	dir := emptyDir(t)
	writeFile(t, filepath.Join(dir, "routefold.yml"), "suffix: _split\n")
	sub := filepath.Join(dir, "src", "routes")
	require.NoError(t, os.MkdirAll(sub, 0750))
	t.Chdir(sub)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "_split", cfg.Suffix)
	assert.Equal(t, "routefold.yml", filepath.Base(GetConfigFileUsed()))
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	dir := emptyDir(t)
	path := filepath.Join(dir, "conf", "custom.yaml")
	writeFile(t, path, "dialect: js\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "js", cfg.Dialect)
	assert.Equal(t, path, GetConfigFileUsed())

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Env(t *testing.T) {
	emptyDir(t)
	t.Setenv("ROUTEFOLD_WORKERS", "3")
	t.Setenv("ROUTEFOLD_KEEP_GOING", "true")
	t.Setenv("ROUTEFOLD_ROUTES__OUT", "public/routes.json")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.True(t, cfg.KeepGoing)
	assert.Equal(t, "public/routes.json", cfg.Routes.Out)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := emptyDir(t)
	writeFile(t, filepath.Join(dir, ".env"), "ROUTEFOLD_SUFFIX=_dotenv\n")
	t.Cleanup(func() { _ = os.Unsetenv("ROUTEFOLD_SUFFIX") })

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "_dotenv", cfg.Suffix)
}

func TestLoadConfig_FlagsWin(t *testing.T) {
	dir := emptyDir(t)
	writeFile(t, filepath.Join(dir, "routefold.yaml"), "out_dir: from-file\nworkers: 2\n")
	t.Setenv("ROUTEFOLD_WORKERS", "4")

	flags := testFlags(t, "--out-dir", "cli-out", "--format", "json", "--in", "x/Routes.toml", "--keep-going")
	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "cli-out", cfg.OutDir, "flag paths stay relative to the working directory")
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "x/Routes.toml", cfg.Routes.In)
	assert.True(t, cfg.KeepGoing)
	assert.Equal(t, 4, cfg.Workers, "env beats the file when the flag is unset")
	assert.Equal(t, DefaultSuffix, cfg.Suffix)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := emptyDir(t)
	writeFile(t, filepath.Join(dir, "routefold.yaml"), "dialect: coffee\n")

	_, err := LoadConfig("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "dialect")
	assert.Nil(t, GetCurrentConfig())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "javascript", mutate: func(c *Config) { c.Dialect = "javascript"; c.Emit = "js" }},
		{name: "bad dialect", mutate: func(c *Config) { c.Dialect = "coffee" }, wantErr: "dialect"},
		{name: "bad emit", mutate: func(c *Config) { c.Emit = "wasm" }, wantErr: "emit"},
		{name: "bad output", mutate: func(c *Config) { c.OutputFormat = "xml" }, wantErr: "output"},
		{name: "negative workers", mutate: func(c *Config) { c.Workers = -1 }, wantErr: "workers must not be negative"},
		{name: "suffix with separator", mutate: func(c *Config) { c.Suffix = "_x/y" }, wantErr: "path separator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	ctx := context.WithValue(context.Background(), LoggerKey(), GetLogger(context.Background()))
	assert.Same(t, ctx.Value(LoggerKey()), GetLogger(ctx))
}
