package report

import (
	"strings"
	"testing"

	"github.com/dcosme/score-qualtrics/lib/rubric"
	"github.com/dcosme/score-qualtrics/lib/scorestore"
	"github.com/dcosme/score-qualtrics/lib/scoring"
	"github.com/dcosme/score-qualtrics/lib/tidy"

	"github.com/stretchr/testify/require"
)

func TestRenderResults(t *testing.T) {
	var out strings.Builder
	RenderResults(&out, []scoring.Result{
		{Survey: "FP Survey 1", Wave: 1, SID: "FP001", Scale: "MOOD", ScoredScale: "MOOD", Score: 3, Valid: true, NMissing: 1, Method: rubric.Mean},
		{Survey: "FP Survey 1", Wave: 1, SID: "FP002", Scale: "MOOD", ScoredScale: "MOOD", Valid: false, NMissing: 3, Method: rubric.Mean},
		{Survey: "FP Survey 2", Wave: 2, SID: "FP001", Scale: "FEEDBACK", ScoredScale: "comments", Text: "all good", Valid: true, Method: rubric.Passthrough},
	})

	rendered := out.String()
	require.Contains(t, rendered, "FP001")
	require.Contains(t, rendered, "FP Survey 2")
	require.Contains(t, rendered, "3")
	// a tolerance-exceeded score renders as NULL, not as zero
	require.Contains(t, rendered, "NULL")
	// passthrough renders the raw text
	require.Contains(t, rendered, "all good")
}

func TestRenderAuditTables(t *testing.T) {
	var out strings.Builder
	RenderCoercionAudit(&out, []scorestore.AuditRow{
		{Survey: "FP Survey 1", Item: "CVS_1", SID: "FP001", Value: "about 20"},
	})
	require.Contains(t, out.String(), "about 20")

	out.Reset()
	RenderCoercionAudit(&out, nil)
	require.Contains(t, out.String(), "no uncoercible values")

	out.Reset()
	RenderDuplicates(&out, []tidy.Duplicate{
		{Survey: "FP Survey 1", SID: "FP001", ResponseIDs: []string{"R_1", "R_2"}},
	})
	require.Contains(t, out.String(), "R_1, R_2")

	out.Reset()
	RenderDuplicates(&out, nil)
	require.Contains(t, out.String(), "no duplicate responses")
}
