package tidy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDuplicateResolution(t *testing.T) {
	records := []Response{
		{ResponseID: "R_1", Survey: "FP Survey 1", SID: "FP001", Item: "CVS_1", Value: "1"},
		{ResponseID: "R_1", Survey: "FP Survey 1", SID: "FP001", Item: "CVS_2", Value: "2"},
		{ResponseID: "R_2", Survey: "FP Survey 1", SID: "FP001", Item: "CVS_1", Value: "3"},
		{ResponseID: "R_2", Survey: "FP Survey 1", SID: "FP001", Item: "CVS_2", Value: "4"},
		{ResponseID: "R_3", Survey: "FP Survey 1", SID: "FP002", Item: "CVS_1", Value: "5"},
	}

	dups := FindDuplicates(records)
	require.Equal(t, []Duplicate{
		{Survey: "FP Survey 1", SID: "FP001", ResponseIDs: []string{"R_1", "R_2"}},
	}, dups)

	// dropping one whole response instance resolves the conflict
	resolved := DropResponses(records, []string{"R_1"})
	require.Len(t, resolved, 3)
	require.Empty(t, FindDuplicates(resolved))

	for _, r := range resolved {
		if r.ResponseID == "R_1" {
			t.Fatal("dropped response id still present")
		}
	}
}

func TestDropResponsesNoop(t *testing.T) {
	records := []Response{
		{ResponseID: "R_1", Survey: "s", SID: "FP001", Item: "CVS_1", Value: "1"},
	}
	require.Equal(t, records, DropResponses(records, nil))
}
