package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// skipDirs are never descended into when collecting.
var skipDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
}

// Collect expands paths into the module files to process. Files are kept
// as given; directories are walked for module files, skipping outputs,
// hidden directories and dependency folders. Duplicates are dropped.
func (p *Pipeline) Collect(paths []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			out = append(out, clean)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		var found []string
		err = filepath.WalkDir(path, func(walked string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if walked != path && (skipDirs[name] || strings.HasPrefix(name, ".")) {
					return filepath.SkipDir
				}
				return nil
			}
			if p.isInput(walked) {
				found = append(found, walked)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", path, err)
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}
	return out, nil
}

// isInput reports whether path is a module the pipeline should rewrite.
func (p *Pipeline) isInput(path string) bool {
	return IsModulePath(path) && !p.IsOutput(path) && !isDeclarationFile(path)
}

func isDeclarationFile(path string) bool {
	base := filepath.Base(path)
	for _, ext := range []string{".d.ts", ".d.mts", ".d.cts"} {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}
	return false
}
