package tidy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

var testConfig = Config{
	ResponseIDColumn:   "ResponseId",
	SIDColumn:          "SID",
	FallbackSIDColumns: []string{"Q1"},
	IdentityColumns:    []string{"StartDate"},
	KeepSIDPattern:     `^FP[0-9]{3}$`,
	DropSIDPattern:     `^FP999$`,
}

func TestMelt(t *testing.T) {
	table := WideTable{
		Columns: []string{"ResponseId", "StartDate", "SID", "Q1", "CVS_1", "CVS_2"},
		Rows: [][]string{
			{"R_1", "2024-01-01", "FP001", "", "3", "4"},
			{"R_2", "2024-01-01", "FP002", "", "", "2"},
			{"R_3", "2024-01-01", "nonsense", "", "1", "1"},
			{"R_4", "2024-01-01", "FP999", "", "1", "1"},
		},
	}

	records, err := Melt(context.Background(), "FP Survey 1", table, testConfig)
	if err != nil {
		t.Fatal(err)
	}

	// 2 retained rows x 2 item columns
	require.Len(t, records, 4)
	for _, r := range records {
		require.Equal(t, "FP Survey 1", r.Survey)
		require.NotEqual(t, "nonsense", r.SID)
		require.NotEqual(t, "FP999", r.SID)
	}

	require.Equal(t, Response{
		ResponseID: "R_1",
		Survey:     "FP Survey 1",
		SID:        "FP001",
		Item:       "CVS_1",
		Value:      "3",
	}, records[0])

	// the empty CVS_1 answer of FP002 is recoded, not dropped
	require.Equal(t, "CVS_1", records[2].Item)
	require.Equal(t, Missing, records[2].Value)
}

func TestMeltIdentityFallback(t *testing.T) {
	table := WideTable{
		Columns: []string{"ResponseId", "StartDate", "SID", "Q1", "CVS_1", "CVS_2"},
		Rows: [][]string{
			// blank primary id, the fallback column holds the real one
			{"R_1", "2024-01-01", "", "FP010", "5", "6"},
		},
	}

	records, err := Melt(context.Background(), "FP Survey 2", table, testConfig)
	if err != nil {
		t.Fatal(err)
	}

	// identity resolution happens before pattern filtering, so the
	// record survives the inclusion filter under its fallback id
	require.Len(t, records, 2)
	require.Equal(t, "FP010", records[0].SID)
}

func TestMeltUnknownColumns(t *testing.T) {
	table := WideTable{
		Columns: []string{"ResponseId", "SID"},
		Rows:    [][]string{{"R_1", "FP001"}},
	}

	cfg := testConfig
	cfg.FallbackSIDColumns = nil
	cfg.SIDColumn = "NoSuchColumn"
	_, err := Melt(context.Background(), "s", table, cfg)
	require.Error(t, err)
}

func TestWave(t *testing.T) {
	cases := []struct {
		survey string
		wave   int
	}{
		{"FP Survey 1", 1},
		{"FP Survey 12", 12},
		{"Baseline Battery", 0},
	}
	for _, test := range cases {
		if got := Wave(test.survey); got != test.wave {
			t.Fatal("wrong wave for", test.survey, "expected", test.wave, "got", got)
		}
	}
}
