package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/routefold/internal/routes"
)

type routeRow struct {
	Path       string `json:"path"`
	Page       string `json:"page,omitempty"`
	Controller string `json:"controller,omitempty"`
	Guard      string `json:"guard,omitempty"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Routes renders the flattened route tree of m.
func Routes(w io.Writer, m *routes.Manifest, f Format) error {
	entries := m.Flatten()
	rows := make([]routeRow, len(entries))
	for i, e := range entries {
		rows[i] = routeRow{
			Path:       "/" + e.Path,
			Page:       deref(e.Route.Page),
			Controller: deref(e.Route.Controller),
			Guard:      deref(e.Route.Guard),
		}
	}

	switch f.Resolve(w) {
	case FormatJSON:
		return writeJSON(w, rows)
	case FormatMarkdown:
		markdownHeader(w, "Path", "Page", "Controller", "Guard")
		for _, r := range rows {
			markdownRow(w, r.Path, r.Page, r.Controller, r.Guard)
		}
	default:
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Path", "Page", "Controller", "Guard"})
		for i, r := range rows {
			indent := strings.Repeat("  ", entries[i].Depth)
			t.AppendRow(table.Row{indent + r.Path, r.Page, r.Controller, r.Guard})
		}
		t.Render()
		_, _ = fmt.Fprintf(w, "(%d routes)\n", len(rows))
	}
	return nil
}
