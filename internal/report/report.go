// Package report renders classification results, route manifests and the
// name table as text tables, markdown or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Format is an output format.
type Format string

// Output formats.
const (
	FormatAuto     Format = "auto" // text on a terminal, markdown otherwise
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case "md":
		return FormatMarkdown, nil
	case FormatAuto, FormatText, FormatMarkdown, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (expected auto, text, markdown or json)", s)
}

// Resolve replaces FormatAuto with the concrete format for w.
func (f Format) Resolve(w io.Writer) Format {
	if f != FormatAuto && f != "" {
		return f
	}
	if isTerminal(w) {
		return FormatText
	}
	return FormatMarkdown
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd())) //nolint:gosec // fd fits in int
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func markdownRow(w io.Writer, cells ...string) {
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
}

func markdownHeader(w io.Writer, cols ...string) {
	markdownRow(w, cols...)
	seps := make([]string, len(cols))
	for i := range seps {
		seps[i] = "---"
	}
	markdownRow(w, seps...)
}
