package tidy

import (
	"sort"
	"strconv"
	"strings"
)

// Numeric parses a raw survey value as a number. Missing values and
// empty strings are not numbers.
func Numeric(value string) (float64, bool) {
	if value == "" || value == Missing {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CoercionFailure is a value that was expected to be numeric but does
// not parse as one.
type CoercionFailure struct {
	Item  string
	SID   string
	Value string
}

// AuditCoercion reports every (item, subject, value) triple that will
// be lost to numeric coercion, for operator review. Missing values
// are not failures; they are accounted for by the scoring engine.
// The audit never blocks the pipeline.
func AuditCoercion(records []Response, isNumericItem func(item string) bool) []CoercionFailure {
	var out []CoercionFailure
	for _, r := range records {
		if r.Value == Missing {
			continue
		}
		if isNumericItem != nil && !isNumericItem(r.Item) {
			continue
		}
		if _, ok := Numeric(r.Value); ok {
			continue
		}
		out = append(out, CoercionFailure{Item: r.Item, SID: r.SID, Value: r.Value})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Item != out[j].Item {
			return out[i].Item < out[j].Item
		}
		if out[i].SID != out[j].SID {
			return out[i].SID < out[j].SID
		}
		return out[i].Value < out[j].Value
	})
	return out
}
