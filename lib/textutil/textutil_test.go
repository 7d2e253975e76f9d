package textutil

import "testing"

func TestCollapseSpace(t *testing.T) {
	cases := [][2]string{
		{"  a   b\n\tc ", "a b c"},
		{"already clean", "already clean"},
		{"", ""},
	}
	for _, test := range cases {
		if got := CollapseSpace(test[0]); got != test[1] {
			t.Fatal("CollapseSpace", test[0], "returned", got)
		}
	}
}

func TestMatchName(t *testing.T) {
	if !MatchName("FP Survey 1", []string{"fp survey"}) {
		t.Fatal("expected a loose match")
	}
	if MatchName("FP Survey 1", []string{"baseline"}) {
		t.Fatal("unexpected match")
	}
}
