package rubric

import (
	"regexp"

	"github.com/antzucaro/matchr"
)

// Problem is a rubric item pattern that matches nothing in the
// response table, usually a typo in the rubric file.
type Problem struct {
	Scale      string
	Subscale   string
	Pattern    string
	Suggestion string
}

const maxSuggestionDistance = 3

// Validate checks each rubric item against the item names actually
// present in the response table. Literal names that are absent get a
// nearest-name suggestion; patterns that match nothing are reported
// without one. Problems are diagnostics, not errors: scoring treats
// absent items as missing.
func Validate(r Rubric, available []string) []Problem {
	availableSet := make(map[string]bool, len(available))
	for _, name := range available {
		availableSet[name] = true
	}

	var out []Problem
	for _, sub := range r.Subscales {
		for _, item := range sub.Items {
			if item.literal() {
				if availableSet[item.Pattern] {
					continue
				}
				out = append(out, Problem{
					Scale:      r.Name,
					Subscale:   sub.Name,
					Pattern:    item.Pattern,
					Suggestion: nearest(item.Pattern, available),
				})
				continue
			}

			re, err := regexp.Compile("^(?:" + item.Pattern + ")$")
			if err != nil {
				out = append(out, Problem{Scale: r.Name, Subscale: sub.Name, Pattern: item.Pattern})
				continue
			}
			matched := false
			for _, name := range available {
				if re.MatchString(name) {
					matched = true
					break
				}
			}
			if !matched {
				out = append(out, Problem{Scale: r.Name, Subscale: sub.Name, Pattern: item.Pattern})
			}
		}
	}
	return out
}

func nearest(name string, available []string) string {
	best := ""
	bestDistance := maxSuggestionDistance + 1
	for _, candidate := range available {
		d := matchr.Levenshtein(name, candidate)
		if d < bestDistance {
			best = candidate
			bestDistance = d
		}
	}
	return best
}
