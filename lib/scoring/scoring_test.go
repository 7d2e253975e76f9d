package scoring

import (
	"context"
	"testing"

	"github.com/dcosme/score-qualtrics/lib/rubric"
	"github.com/dcosme/score-qualtrics/lib/tidy"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func moodRubric(tolerance float64) rubric.Rubric {
	return rubric.Rubric{
		Name:      "MOOD",
		Min:       1,
		Max:       5,
		Tolerance: tolerance,
		Subscales: []rubric.Subscale{
			{
				Name:   "MOOD",
				Method: rubric.Mean,
				Items: []rubric.Item{
					{Pattern: "M1"},
					{Pattern: "M2"},
					{Pattern: "M3"},
				},
			},
		},
	}
}

func responses(sid string, values map[string]string) []tidy.Response {
	var out []tidy.Response
	for item, value := range values {
		out = append(out, tidy.Response{
			ResponseID: "R_" + sid,
			Survey:     "s",
			SID:        sid,
			Item:       item,
			Value:      value,
		})
	}
	return out
}

func TestMeanWithinTolerance(t *testing.T) {
	records := responses("FP001", map[string]string{
		"M1": "4",
		"M2": tidy.Missing,
		"M3": "2",
	})

	results := Score(context.Background(), records, []rubric.Rubric{moodRubric(1)})

	diff := cmp.Diff([]Result{{
		Survey:      "s",
		SID:         "FP001",
		Scale:       "MOOD",
		ScoredScale: "MOOD",
		Score:       3.0,
		Valid:       true,
		NMissing:    1,
		Method:      rubric.Mean,
	}}, results)
	if diff != "" {
		t.Fatal("unexpected results (-want +got):\n" + diff)
	}
}

func TestToleranceExceeded(t *testing.T) {
	records := responses("FP001", map[string]string{
		"M1": tidy.Missing,
		"M2": tidy.Missing,
		"M3": "2",
	})

	results := Score(context.Background(), records, []rubric.Rubric{moodRubric(1)})

	require.Len(t, results, 1)
	require.False(t, results[0].Valid)
	require.Equal(t, 2, results[0].NMissing)
}

func TestAllMissing(t *testing.T) {
	records := responses("FP001", map[string]string{
		"M1": tidy.Missing,
		"M2": tidy.Missing,
		"M3": tidy.Missing,
	})

	// a generous tolerance still never computes a score from nothing
	results := Score(context.Background(), records, []rubric.Rubric{moodRubric(3)})

	require.Len(t, results, 1)
	require.False(t, results[0].Valid)
	require.Equal(t, 3, results[0].NMissing)
}

func TestSumSingleItem(t *testing.T) {
	records := responses("FP007", map[string]string{"CVS_1": "18"})

	r := rubric.Rubric{
		Name: "CVS",
		Min:  0,
		Max:  100,
		Subscales: []rubric.Subscale{
			{Name: "CVS", Method: rubric.Sum, Items: []rubric.Item{{Pattern: "CVS_1"}}},
		},
	}
	results := Score(context.Background(), records, []rubric.Rubric{r})

	require.Len(t, results, 1)
	require.True(t, results[0].Valid)
	require.Equal(t, 18.0, results[0].Score)
	require.Equal(t, 0, results[0].NMissing)
}

func TestReverseCoding(t *testing.T) {
	records := responses("FP001", map[string]string{
		"M1": "2",
		"M2": "2",
	})

	r := rubric.Rubric{
		Name: "MOOD",
		Min:  1,
		Max:  5,
		Subscales: []rubric.Subscale{
			{
				Name:   "MOOD",
				Method: rubric.Sum,
				Items: []rubric.Item{
					{Pattern: "M1"},
					{Pattern: "M2", Reverse: true},
				},
			},
		},
	}
	results := Score(context.Background(), records, []rubric.Rubric{r})

	// 2 + reverse(2) = 2 + 4
	require.Equal(t, 6.0, results[0].Score)
}

func TestPassthrough(t *testing.T) {
	records := responses("FP001", map[string]string{"comments": "all good"})

	r := rubric.Rubric{
		Name: "FEEDBACK",
		Subscales: []rubric.Subscale{
			{Name: "comments", Method: rubric.Passthrough, Items: []rubric.Item{{Pattern: "comments"}}},
		},
	}
	results := Score(context.Background(), records, []rubric.Rubric{r})

	require.Len(t, results, 1)
	require.True(t, results[0].Valid)
	require.Equal(t, "all good", results[0].Text)
}

func TestUncoercibleCountsAsMissing(t *testing.T) {
	records := responses("FP001", map[string]string{
		"M1": "4",
		"M2": "about 20",
		"M3": "2",
	})

	results := Score(context.Background(), records, []rubric.Rubric{moodRubric(1)})

	require.True(t, results[0].Valid)
	require.Equal(t, 1, results[0].NMissing)
	require.Equal(t, 3.0, results[0].Score)
}

func TestWavesScoreIndependently(t *testing.T) {
	r := rubric.Rubric{
		Name: "MOOD",
		Min:  1,
		Max:  5,
		Subscales: []rubric.Subscale{
			{Name: "MOOD", Method: rubric.Sum, Items: []rubric.Item{{Pattern: "M1"}}},
		},
	}

	// both waves reuse the item name M1 for the same subject
	records := []tidy.Response{
		{ResponseID: "R_1", Survey: "FP Survey 1", SID: "FP001", Item: "M1", Value: "1"},
		{ResponseID: "R_2", Survey: "FP Survey 2", SID: "FP001", Item: "M1", Value: "5"},
	}

	results := Score(context.Background(), records, []rubric.Rubric{r})

	diff := cmp.Diff([]Result{
		{
			Survey: "FP Survey 1", Wave: 1, SID: "FP001",
			Scale: "MOOD", ScoredScale: "MOOD",
			Score: 1, Valid: true, Method: rubric.Sum,
		},
		{
			Survey: "FP Survey 2", Wave: 2, SID: "FP001",
			Scale: "MOOD", ScoredScale: "MOOD",
			Score: 5, Valid: true, Method: rubric.Sum,
		},
	}, results)
	if diff != "" {
		t.Fatal("unexpected results (-want +got):\n" + diff)
	}
}

func TestPartitionSetIsExact(t *testing.T) {
	big5 := rubric.Rubric{
		Name:      "BIG5",
		Min:       1,
		Max:       7,
		Tolerance: 1,
		Subscales: []rubric.Subscale{
			{Name: "extraversion", Method: rubric.Mean, Items: []rubric.Item{{Pattern: "E1"}, {Pattern: "E2"}}},
			{Name: "neuroticism", Method: rubric.Mean, Items: []rubric.Item{{Pattern: "N1"}}},
		},
	}

	records := append(
		responses("FP001", map[string]string{"E1": "1", "E2": "2", "N1": "3"}),
		responses("FP002", map[string]string{"E1": "4", "E2": "5", "N1": "6"})...,
	)

	results := Score(context.Background(), records, []rubric.Rubric{big5, moodRubric(1)})

	// exactly one row per (subject, partition), subjects sorted,
	// partitions in rubric declaration order
	var got [][2]string
	for _, r := range results {
		got = append(got, [2]string{r.SID, r.ScoredScale})
	}
	require.Equal(t, [][2]string{
		{"FP001", "extraversion"},
		{"FP001", "neuroticism"},
		{"FP001", "MOOD"},
		{"FP002", "extraversion"},
		{"FP002", "neuroticism"},
		{"FP002", "MOOD"},
	}, got)
}
