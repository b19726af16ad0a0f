// Package pipeline drives route modules through parse, classify and emit,
// one file at a time or as a parallel batch.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/routefold/pkg/classify"
	"github.com/leapstack-labs/routefold/pkg/emit"
	"github.com/leapstack-labs/routefold/pkg/parser"
)

// Defaults.
const (
	DefaultSuffix    = "_edit"
	DefaultCacheSize = 256
)

// Config configures a Pipeline.
type Config struct {
	// Dialect is used for files whose extension does not name one.
	Dialect  parser.Dialect
	Validate bool
	Target   emit.Target

	OutDir string // empty writes next to the input
	Suffix string // appended to the output base name; defaults to DefaultSuffix

	Workers   int  // parallel files in a batch; <= 0 means runtime.NumCPU()
	KeepGoing bool // record per-file errors instead of failing the batch
	CacheSize int  // <= 0 means DefaultCacheSize

	Logger *slog.Logger
}

// FileResult is the outcome of processing one module.
type FileResult struct {
	Path    string
	OutPath string
	Output  string
	Result  *classify.Result

	// Err is set only for files that failed in a KeepGoing batch.
	Err error
	// Cached reports whether the result came from the cache.
	Cached bool
}

// Pipeline processes route modules. It is safe for concurrent use.
type Pipeline struct {
	cfg    Config
	cache  *lru.Cache[string, *FileResult]
	logger *slog.Logger
}

// New creates a pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Suffix == "" {
		cfg.Suffix = DefaultSuffix
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cache, err := lru.New[string, *FileResult](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}

	return &Pipeline{cfg: cfg, cache: cache, logger: logger}, nil
}

// Config returns the effective configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// ProcessFile reads path and processes its contents.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*FileResult, error) {
	src, err := os.ReadFile(path) //nolint:gosec // path comes from the user
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return p.ProcessSource(ctx, path, string(src))
}

// ProcessSource parses, classifies and emits src. The path selects the
// dialect and the output path; it is not read.
func (p *Pipeline) ProcessSource(ctx context.Context, path, src string) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dialect := p.dialectFor(path)
	key := p.cacheKey(dialect, src)
	if cached, ok := p.cache.Get(key); ok {
		p.logger.Debug("cache hit", "path", path)
		res := *cached
		res.Path = path
		res.OutPath = p.OutputPath(path)
		res.Cached = true
		return &res, nil
	}

	mod, err := parser.ParseWithOptions(src, parser.Options{
		Dialect:  dialect,
		Validate: p.cfg.Validate,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	result, err := classify.Classify(mod)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, w := range result.Warnings {
		p.logger.Warn("declarator not classified",
			"path", path,
			"kind", string(w.Kind),
			"line", w.Pos.Line,
			"column", w.Pos.Column,
			"pattern", w.Text)
	}

	out, err := emit.ModuleWithOptions(result.Module, emit.Options{
		Target:   p.cfg.Target,
		Filename: path,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	counts := result.Counts()
	p.logger.Debug("classified module",
		"path", path,
		"page_server", counts[classify.PageServer],
		"server", counts[classify.Server],
		"client", counts[classify.Client])

	res := &FileResult{
		Path:    path,
		OutPath: p.OutputPath(path),
		Output:  out,
		Result:  result,
	}
	p.cache.Add(key, res)
	return res, nil
}

// ProcessFiles processes paths in parallel, at most Workers at a time.
// Results are returned in input order. Without KeepGoing the first error
// cancels the batch; with it, failed files carry their error in Err.
func (p *Pipeline) ProcessFiles(ctx context.Context, paths []string) ([]*FileResult, error) {
	results := make([]*FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)

	for i, path := range paths {
		g.Go(func() error {
			res, err := p.ProcessFile(gctx, path)
			if err != nil {
				if !p.cfg.KeepGoing || ctx.Err() != nil {
					return err
				}
				p.logger.Error("failed to process file", "path", path, "error", err)
				res = &FileResult{Path: path, OutPath: p.OutputPath(path), Err: err}
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// WriteOutput writes the emitted source of res to res.OutPath.
func (p *Pipeline) WriteOutput(res *FileResult) error {
	if res.Err != nil {
		return fmt.Errorf("refusing to write failed result for %s: %w", res.Path, res.Err)
	}
	if dir := filepath.Dir(res.OutPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(res.OutPath, []byte(res.Output), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", res.OutPath, err)
	}
	p.logger.Debug("wrote output", "path", res.OutPath)
	return nil
}

// OutputPath returns where the output for path is written: the base name
// with Suffix inserted before the extension, in OutDir or next to path.
// JavaScript targets switch TypeScript extensions to their JS form.
func (p *Pipeline) OutputPath(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	if p.cfg.Target == emit.TargetJS {
		ext = jsExtension(ext)
	}

	dir := p.cfg.OutDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	return filepath.Join(dir, base+p.cfg.Suffix+ext)
}

// IsOutput reports whether path looks like a file written by this
// pipeline, so watchers and globs can skip it.
func (p *Pipeline) IsOutput(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(strings.TrimSuffix(base, filepath.Ext(base)), p.cfg.Suffix)
}

func (p *Pipeline) dialectFor(path string) parser.Dialect {
	if d, ok := parser.DialectForPath(path); ok {
		return d
	}
	return p.cfg.Dialect
}

func (p *Pipeline) cacheKey(d parser.Dialect, src string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%t\x00", d, p.cfg.Target, p.cfg.Validate)
	h.Write([]byte(src))
	return hex.EncodeToString(h.Sum(nil))
}

func jsExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".ts":
		return ".js"
	case ".mts":
		return ".mjs"
	case ".cts":
		return ".cjs"
	}
	return ext
}

// IsModulePath reports whether path has a TypeScript or JavaScript module
// extension.
func IsModulePath(path string) bool {
	_, ok := parser.DialectForPath(path)
	return ok
}
