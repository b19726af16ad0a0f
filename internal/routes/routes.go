// Package routes reads the human-edited route manifest (Routes.toml) and
// writes the machine-consumed Routes.json.
package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Manifest is the root of a route manifest.
type Manifest struct {
	Routes []Route `koanf:"routes" json:"routes"`
}

// Route is one node of the route tree. Optional fields are written as
// null when unset.
type Route struct {
	Name       string  `koanf:"name" json:"name"`
	Page       *string `koanf:"page" json:"page"`
	Controller *string `koanf:"controller" json:"controller"`
	Guard      *string `koanf:"guard" json:"guard"`
	Routes     []Route `koanf:"routes" json:"routes"`
}

// parserFor picks the koanf parser for a manifest file extension.
func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return kjson.Parser(), nil
	}
	return nil, fmt.Errorf("unsupported manifest format %q (expected .toml, .yaml, .yml or .json)", filepath.Ext(path))
}

// Load reads a manifest from path. The format follows the extension.
func Load(path string) (*Manifest, error) {
	p, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), p); err != nil {
		return nil, fmt.Errorf("error reading manifest %s: %w", path, err)
	}

	// Unknown keys are rejected so a misspelt field is not silently dropped.
	var m Manifest
	if err := k.UnmarshalWithConf("", &m, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &m,
			TagName:          "koanf",
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode manifest %s: %w", path, err)
	}
	return &m, nil
}

// ValidationError lists every problem found in a manifest.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid route manifest: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid route manifest (%d problems):\n  %s", len(e.Problems), strings.Join(e.Problems, "\n  "))
}

// Validate checks that every route has a name and that sibling names are
// unique.
func (m *Manifest) Validate() error {
	var problems []string
	validateLevel(m.Routes, "", &problems)
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func validateLevel(routes []Route, parent string, problems *[]string) {
	seen := make(map[string]bool, len(routes))
	for i, r := range routes {
		if r.Name == "" {
			*problems = append(*problems, fmt.Sprintf("%sroutes[%d]: missing name", prefix(parent), i))
			continue
		}
		if seen[r.Name] {
			*problems = append(*problems, fmt.Sprintf("%s%s: duplicate route name", prefix(parent), r.Name))
		}
		seen[r.Name] = true
		validateLevel(r.Routes, joinPath(parent, r.Name), problems)
	}
}

func prefix(parent string) string {
	if parent == "" {
		return ""
	}
	return parent + "/"
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// Entry is a route with its position in the tree.
type Entry struct {
	Path  string // names from the root joined with "/"
	Depth int
	Route *Route
}

// Flatten lists the routes depth first, parents before children.
func (m *Manifest) Flatten() []Entry {
	var out []Entry
	var walk func(routes []Route, parent string, depth int)
	walk = func(routes []Route, parent string, depth int) {
		for i := range routes {
			r := &routes[i]
			path := joinPath(parent, r.Name)
			out = append(out, Entry{Path: path, Depth: depth, Route: r})
			walk(r.Routes, path, depth+1)
		}
	}
	walk(m.Routes, "", 0)
	return out
}

// MarshalIndent renders the manifest as JSON indented by two spaces, with
// fields in declaration order and no trailing newline.
func (m *Manifest) MarshalIndent() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteJSON writes m to path as indented JSON.
func WriteJSON(path string, m *Manifest) error {
	data, err := m.MarshalIndent()
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Convert loads the manifest at in, validates it and writes it to out as
// JSON.
func Convert(in, out string) (*Manifest, error) {
	m, err := Load(in)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := WriteJSON(out, m); err != nil {
		return nil, err
	}
	return m, nil
}
