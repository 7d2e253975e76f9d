// Package report renders the pipeline's operator-facing tables: the
// scored results and the data-quality audit (uncoercible values and
// unresolved duplicate submissions). Charting is out of scope; the
// scored table is the hand-off point to analysis tooling.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dcosme/score-qualtrics/lib/qualtrics"
	"github.com/dcosme/score-qualtrics/lib/rubric"
	"github.com/dcosme/score-qualtrics/lib/scorestore"
	"github.com/dcosme/score-qualtrics/lib/scoring"
	"github.com/dcosme/score-qualtrics/lib/tidy"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newWriter(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	return t
}

func formatScore(r scoring.Result) string {
	if !r.Valid {
		return "NULL"
	}
	if r.Method == rubric.Passthrough {
		return r.Text
	}
	return strconv.FormatFloat(r.Score, 'f', -1, 64)
}

func RenderResults(out io.Writer, results []scoring.Result) {
	t := newWriter(out)
	t.AppendHeader(table.Row{"Survey", "Wave", "SID", "Scale", "Scored scale", "Score", "Missing", "Method"})
	for _, r := range results {
		t.AppendRow(table.Row{
			r.Survey, r.Wave, r.SID, r.Scale, r.ScoredScale, formatScore(r), r.NMissing, r.Method.String(),
		})
	}
	t.Render()
}

func RenderCoercionAudit(out io.Writer, fails []scorestore.AuditRow) {
	if len(fails) == 0 {
		fmt.Fprintln(out, "no uncoercible values")
		return
	}
	t := newWriter(out)
	t.AppendHeader(table.Row{"Survey", "Item", "SID", "Value"})
	for _, f := range fails {
		t.AppendRow(table.Row{f.Survey, f.Item, f.SID, f.Value})
	}
	t.Render()
}

func RenderDuplicates(out io.Writer, dups []tidy.Duplicate) {
	if len(dups) == 0 {
		fmt.Fprintln(out, "no duplicate responses")
		return
	}
	t := newWriter(out)
	t.AppendHeader(table.Row{"Survey", "SID", "Responses", "Response IDs"})
	for _, d := range dups {
		t.AppendRow(table.Row{
			d.Survey, d.SID, len(d.ResponseIDs), strings.Join(d.ResponseIDs, ", "),
		})
	}
	t.Render()
}

func RenderRubricProblems(out io.Writer, problems []rubric.Problem) {
	if len(problems) == 0 {
		return
	}
	t := newWriter(out)
	t.AppendHeader(table.Row{"Scale", "Subscale", "Item", "Did you mean"})
	for _, p := range problems {
		t.AppendRow(table.Row{p.Scale, p.Subscale, p.Pattern, p.Suggestion})
	}
	t.Render()
}

func RenderSurveys(out io.Writer, surveys []qualtrics.Survey) {
	t := newWriter(out)
	t.AppendHeader(table.Row{"ID", "Name", "Active", "Last modified"})
	for _, s := range surveys {
		t.AppendRow(table.Row{s.Id, s.Name, s.IsActive, s.LastModified})
	}
	t.Render()
}
