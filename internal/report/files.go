package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/routefold/internal/pipeline"
	"github.com/leapstack-labs/routefold/pkg/ast"
	"github.com/leapstack-labs/routefold/pkg/classify"
)

// Row is one classified declarator.
type Row struct {
	Bucket      classify.Bucket `json:"bucket"`
	Name        string          `json:"name"`
	Placeholder *float64        `json:"placeholder"`
	Line        int             `json:"line"`
}

// WarningRow is a classification warning.
type WarningRow struct {
	Kind   classify.WarningKind `json:"kind"`
	Line   int                  `json:"line"`
	Column int                  `json:"column"`
	Text   string               `json:"text"`
}

// FileReport is the JSON shape of one processed file.
type FileReport struct {
	Path     string       `json:"path"`
	OutPath  string       `json:"output_path,omitempty"`
	Error    string       `json:"error,omitempty"`
	Counts   Counts       `json:"counts"`
	Rows     []Row        `json:"declarators"`
	Warnings []WarningRow `json:"warnings"`
}

// Counts holds bucket sizes.
type Counts struct {
	PageServer int `json:"page_server"`
	Server     int `json:"server"`
	Client     int `json:"client"`
}

// Rows lists the classified declarators of res bucket by bucket.
func Rows(res *classify.Result) []Row {
	var rows []Row
	for _, b := range classify.Buckets {
		for _, d := range res.Bucket(b) {
			row := Row{Bucket: b, Line: d.Pos().Line}
			if id := d.Ident(); id != nil {
				row.Name = id.Name
			}
			if n, ok := d.Init.(*ast.NumberLit); ok {
				v := n.Value
				row.Placeholder = &v
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// NewFileReport converts a pipeline result into its report form.
func NewFileReport(fr *pipeline.FileResult) FileReport {
	rep := FileReport{
		Path:     fr.Path,
		OutPath:  fr.OutPath,
		Rows:     []Row{},
		Warnings: []WarningRow{},
	}
	if fr.Err != nil {
		rep.Error = fr.Err.Error()
		rep.OutPath = ""
		return rep
	}
	if fr.Result == nil {
		return rep
	}

	rep.Rows = append(rep.Rows, Rows(fr.Result)...)
	rep.Counts = Counts{
		PageServer: len(fr.Result.PageServer),
		Server:     len(fr.Result.Server),
		Client:     len(fr.Result.Client),
	}
	for _, w := range fr.Result.Warnings {
		rep.Warnings = append(rep.Warnings, WarningRow{
			Kind:   w.Kind,
			Line:   w.Pos.Line,
			Column: w.Pos.Column,
			Text:   w.Text,
		})
	}
	return rep
}

// Files renders pipeline results.
func Files(w io.Writer, results []*pipeline.FileResult, f Format) error {
	reports := make([]FileReport, 0, len(results))
	for _, fr := range results {
		if fr != nil {
			reports = append(reports, NewFileReport(fr))
		}
	}

	switch f.Resolve(w) {
	case FormatJSON:
		return writeJSON(w, reports)
	case FormatMarkdown:
		filesMarkdown(w, reports)
	default:
		filesText(w, reports)
	}
	return nil
}

func formatPlaceholder(p *float64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func filesText(w io.Writer, reports []FileReport) {
	for i, rep := range reports {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		if rep.Error != "" {
			_, _ = fmt.Fprintf(w, "%s: FAILED\n  %s\n", rep.Path, rep.Error)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s -> %s\n", rep.Path, rep.OutPath)

		if len(rep.Rows) == 0 {
			_, _ = fmt.Fprintln(w, "(no exported variables)")
		} else {
			t := table.NewWriter()
			t.SetOutputMirror(w)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Bucket", "Name", "Placeholder", "Line"})
			for _, r := range rep.Rows {
				t.AppendRow(table.Row{r.Bucket.String(), r.Name, formatPlaceholder(r.Placeholder), r.Line})
			}
			t.Render()
		}

		for _, warn := range rep.Warnings {
			_, _ = fmt.Fprintf(w, "warning: %d:%d: %s: %s\n", warn.Line, warn.Column, warn.Kind, warn.Text)
		}
		_, _ = fmt.Fprintf(w, "(%d page-server, %d server, %d client)\n",
			rep.Counts.PageServer, rep.Counts.Server, rep.Counts.Client)
	}
}

func filesMarkdown(w io.Writer, reports []FileReport) {
	for i, rep := range reports {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintf(w, "### %s\n\n", rep.Path)
		if rep.Error != "" {
			_, _ = fmt.Fprintf(w, "**Error:** %s\n", rep.Error)
			continue
		}
		_, _ = fmt.Fprintf(w, "Output: `%s`\n\n", rep.OutPath)

		if len(rep.Rows) > 0 {
			markdownHeader(w, "Bucket", "Name", "Placeholder", "Line")
			for _, r := range rep.Rows {
				markdownRow(w, r.Bucket.String(), "`"+r.Name+"`", formatPlaceholder(r.Placeholder), strconv.Itoa(r.Line))
			}
		} else {
			_, _ = fmt.Fprintln(w, "_No exported variables._")
		}

		if len(rep.Warnings) > 0 {
			_, _ = fmt.Fprintln(w)
			for _, warn := range rep.Warnings {
				_, _ = fmt.Fprintf(w, "- **%s** at %d:%d: `%s`\n", warn.Kind, warn.Line, warn.Column, warn.Text)
			}
		}
	}
}
