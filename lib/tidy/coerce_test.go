package tidy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuditCoercion(t *testing.T) {
	records := []Response{
		{ResponseID: "R_1", Survey: "s", SID: "FP001", Item: "CVS_1", Value: "18"},
		{ResponseID: "R_1", Survey: "s", SID: "FP001", Item: "CVS_2", Value: "about 20"},
		{ResponseID: "R_1", Survey: "s", SID: "FP001", Item: "CVS_3", Value: Missing},
		{ResponseID: "R_2", Survey: "s", SID: "FP002", Item: "comments", Value: "all good"},
	}

	fails := AuditCoercion(records, func(item string) bool {
		return item != "comments"
	})

	// missing values and text items are not coercion failures
	require.Equal(t, []CoercionFailure{
		{Item: "CVS_2", SID: "FP001", Value: "about 20"},
	}, fails)
}

func TestCorrectionsApplyBeforeAudit(t *testing.T) {
	records := []Response{
		{ResponseID: "R_1", Survey: "s", SID: "FP007", Item: "CVS_1", Value: "eighteen"},
		{ResponseID: "R_2", Survey: "s", SID: "FP008", Item: "CVS_1", Value: "abc"},
	}

	applied := ApplyCorrections(records, []Correction{
		{SID: "FP007", Item: "CVS_1", Value: "18"},
		{SID: "FP404", Item: "CVS_1", Value: "1"}, // matches nothing
	})
	require.Equal(t, 1, applied)

	fails := AuditCoercion(records, nil)

	// the corrected value never shows up in the audit
	for _, f := range fails {
		if f.SID == "FP007" {
			t.Fatal("corrected value reported as uncoercible:", f)
		}
	}
	require.Equal(t, []CoercionFailure{
		{Item: "CVS_1", SID: "FP008", Value: "abc"},
	}, fails)
}

func TestNumeric(t *testing.T) {
	cases := []struct {
		value string
		n     float64
		ok    bool
	}{
		{"18", 18, true},
		{" 3.5 ", 3.5, true},
		{"-2", -2, true},
		{"", 0, false},
		{Missing, 0, false},
		{"about 20", 0, false},
	}
	for _, test := range cases {
		n, ok := Numeric(test.value)
		if ok != test.ok || n != test.n {
			t.Fatal("Numeric", test.value, "returned", n, ok)
		}
	}
}
