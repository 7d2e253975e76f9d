package rubric

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const moodTable = `scale_name,item,subscale,reverse,min,max,method,tolerance
MOOD,M1,,0,1,5,mean,1
MOOD,M2,,1,1,5,mean,1
MOOD,M3,,0,1,5,mean,1
`

const subscaleTable = `scale_name,item,subscale,reverse,min,max,method,tolerance
BIG5,E1,extraversion,0,1,7,mean,0
BIG5,E2,extraversion,1,1,7,mean,0
BIG5,N1,neuroticism,0,1,7,mean,0
BIG5,comments,free_text,0,,,passthrough,0
`

func TestParseTable(t *testing.T) {
	rubrics, err := Parse(strings.NewReader(moodTable))
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, rubrics, 1)

	r := rubrics[0]
	require.Equal(t, "MOOD", r.Name)
	require.Equal(t, 1.0, r.Min)
	require.Equal(t, 5.0, r.Max)
	require.Equal(t, 1.0, r.Tolerance)

	// no subscale column values, so the whole scale is one partition
	require.Len(t, r.Subscales, 1)
	require.Equal(t, "MOOD", r.Subscales[0].Name)
	require.Equal(t, Mean, r.Subscales[0].Method)
	require.Equal(t, []Item{
		{Pattern: "M1"},
		{Pattern: "M2", Reverse: true},
		{Pattern: "M3"},
	}, r.Subscales[0].Items)
}

func TestParseSubscales(t *testing.T) {
	rubrics, err := Parse(strings.NewReader(subscaleTable))
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, rubrics, 1)

	r := rubrics[0]
	// subscales keep their declaration order
	require.Len(t, r.Subscales, 3)
	require.Equal(t, "extraversion", r.Subscales[0].Name)
	require.Equal(t, "neuroticism", r.Subscales[1].Name)
	require.Equal(t, "free_text", r.Subscales[2].Name)
	require.Equal(t, Passthrough, r.Subscales[2].Method)
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"",
		"item\nM1",
		"scale_name,item,method\nMOOD,M1,golf",
		"scale_name,item,reverse\nMOOD,M1,maybe",
		"scale_name,item,subscale,method\nS,a,x,sum\nS,b,x,mean",
	}
	for _, table := range cases {
		_, err := Parse(strings.NewReader(table))
		require.Error(t, err, "table: %q", table)
	}
}

func TestReverseValueInvolution(t *testing.T) {
	r := Rubric{Min: 1, Max: 7}
	for v := 1.0; v <= 7; v++ {
		require.Equal(t, v, r.ReverseValue(r.ReverseValue(v)))
	}
	require.Equal(t, 7.0, r.ReverseValue(1))
	require.Equal(t, 1.0, r.ReverseValue(7))
}

func TestMaxMissing(t *testing.T) {
	require.Equal(t, 2, Rubric{Tolerance: 2}.MaxMissing(10))
	// fractional tolerance reads as a proportion of the item count
	require.Equal(t, 2, Rubric{Tolerance: 0.25}.MaxMissing(10))
	require.Equal(t, 0, Rubric{}.MaxMissing(10))
}

func TestResolvePatterns(t *testing.T) {
	available := []string{"CVS_1", "CVS_2", "CVS_10", "comments"}

	sub := Subscale{Items: []Item{{Pattern: `CVS_[0-9]+`, Reverse: true}}}
	require.Equal(t, []ResolvedItem{
		{Name: "CVS_1", Reverse: true},
		{Name: "CVS_10", Reverse: true},
		{Name: "CVS_2", Reverse: true},
	}, sub.Resolve(available))

	// literal names resolve even when absent, so unanswered items
	// still count toward the partition
	sub = Subscale{Items: []Item{{Pattern: "CVS_99"}}}
	require.Equal(t, []ResolvedItem{{Name: "CVS_99"}}, sub.Resolve(available))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"mood_scoring_rubric.csv",
		"big5_scoring_rubric.csv",
		"notes.csv",
		"readme.txt",
	} {
		err := os.WriteFile(filepath.Join(dir, name), []byte(moodTable), 0644)
		if err != nil {
			t.Fatal(err)
		}
	}

	paths, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []string{
		filepath.Join(dir, "big5_scoring_rubric.csv"),
		filepath.Join(dir, "mood_scoring_rubric.csv"),
	}, paths)

	rubrics, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, rubrics, 2)
}

func TestValidate(t *testing.T) {
	rubrics, err := Parse(strings.NewReader(moodTable))
	if err != nil {
		t.Fatal(err)
	}
	r := rubrics[0]

	require.Empty(t, Validate(r, []string{"M1", "M2", "M3"}))

	cvs := Rubric{
		Name: "CVS",
		Subscales: []Subscale{
			{Name: "CVS", Items: []Item{{Pattern: "CVS_3"}}},
		},
	}
	problems := Validate(cvs, []string{"CVS_33", "comments", "M1"})
	require.Len(t, problems, 1)
	require.Equal(t, "CVS_3", problems[0].Pattern)
	require.Equal(t, "CVS_33", problems[0].Suggestion)
}
