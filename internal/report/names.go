package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/routefold/pkg/classify"
)

type nameRow struct {
	Bucket   classify.Bucket `json:"bucket"`
	Name     string          `json:"name"`
	Rewrites string          `json:"rewrites_to"`
}

func nameRows() []nameRow {
	var rows []nameRow
	for _, b := range classify.Buckets {
		for _, n := range classify.Names(b) {
			_, rewritten := classify.BucketFor(n)
			rows = append(rows, nameRow{Bucket: b, Name: n, Rewrites: rewritten})
		}
	}
	return rows
}

// Names renders the naming convention table. Names outside the table are
// routed to the server bucket unchanged.
func Names(w io.Writer, f Format) error {
	rows := nameRows()

	switch f.Resolve(w) {
	case FormatJSON:
		return writeJSON(w, rows)
	case FormatMarkdown:
		markdownHeader(w, "Bucket", "Name", "Rewrites to")
		for _, r := range rows {
			markdownRow(w, r.Bucket.String(), "`"+r.Name+"`", "`"+r.Rewrites+"`")
		}
		markdownRow(w, classify.Server.String(), "_any other name_", "_unchanged_")
	default:
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Bucket", "Name", "Rewrites to"})
		for _, r := range rows {
			t.AppendRow(table.Row{r.Bucket.String(), r.Name, r.Rewrites})
		}
		t.AppendFooter(table.Row{classify.Server.String(), "(any other name)", "(unchanged)"})
		t.Render()
	}
	return nil
}
