// Package rubric models scoring rubrics: which items compose a scale
// or subscale, which are reverse-coded, and how they aggregate. A
// rubric is parsed once from its flat tabular form into this
// structure instead of being re-derived on every scoring pass.
package rubric

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

type Method int

const (
	Sum Method = iota
	Mean
	Count
	// Passthrough keeps a non-numeric item's raw value unchanged
	// instead of aggregating it.
	Passthrough
)

func (m Method) String() string {
	switch m {
	case Sum:
		return "sum"
	case Mean:
		return "mean"
	case Count:
		return "count"
	case Passthrough:
		return "passthrough"
	}
	return fmt.Sprintf("method(%d)", int(m))
}

func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sum":
		return Sum, nil
	case "mean", "average":
		return Mean, nil
	case "count":
		return Count, nil
	case "passthrough", "identity", "":
		return Passthrough, nil
	}
	return 0, fmt.Errorf("unknown scoring method %q", s)
}

// Item names one item of a subscale. Pattern is either a literal item
// name or, when it contains regexp metacharacters, an anchored regexp
// over item names (e.g. `CVS_[0-9]+`).
type Item struct {
	Pattern string
	Reverse bool
}

var regexpMeta = `^$.*+?()[]{}|\`

func (i Item) literal() bool {
	return !strings.ContainsAny(i.Pattern, regexpMeta)
}

type Subscale struct {
	Name   string
	Method Method
	Items  []Item
}

type Rubric struct {
	Name string
	// scale bounds used by reverse-coding
	Min, Max float64
	// maximum missing items per subscale before the score is marked
	// invalid. values in (0, 1) are read as a proportion of the
	// subscale's item count, anything else as an absolute count.
	Tolerance float64
	Subscales []Subscale
}

// ReverseValue maps a raw value so high raw answers score low, per
// the declared scale bounds. Applying it twice is the identity.
func (r Rubric) ReverseValue(v float64) float64 {
	return r.Max + r.Min - v
}

// MaxMissing resolves the tolerance against a subscale's item count.
func (r Rubric) MaxMissing(itemCount int) int {
	if r.Tolerance > 0 && r.Tolerance < 1 {
		return int(r.Tolerance * float64(itemCount))
	}
	return int(r.Tolerance)
}

// ResolvedItem is one concrete item name a subscale scored, after
// pattern expansion against the response table.
type ResolvedItem struct {
	Name    string
	Reverse bool
}

// Resolve expands the subscale's item patterns against the item names
// present in the response table. Literal names resolve to themselves
// even when absent, so an unanswered item still counts toward the
// partition's size (and its missing count).
func (s Subscale) Resolve(available []string) []ResolvedItem {
	var out []ResolvedItem
	seen := map[string]bool{}
	add := func(name string, reverse bool) {
		if seen[name] {
			return
		}
		seen[name] = true
		out = append(out, ResolvedItem{Name: name, Reverse: reverse})
	}

	for _, item := range s.Items {
		if item.literal() {
			add(item.Pattern, item.Reverse)
			continue
		}
		re, err := regexp.Compile("^(?:" + item.Pattern + ")$")
		if err != nil {
			continue
		}
		var matched []string
		for _, name := range available {
			if re.MatchString(name) {
				matched = append(matched, name)
			}
		}
		sort.Strings(matched)
		for _, name := range matched {
			add(name, item.Reverse)
		}
	}
	return out
}
