package tidy

import "sort"

// Duplicate is a (survey, subject) pair with more than one submitted
// response. The pipeline never picks a winner on its own: resolution
// is a drop-list curated by the operator, because guessing a
// tie-break would silently change research results.
type Duplicate struct {
	Survey      string
	SID         string
	ResponseIDs []string
}

// FindDuplicates groups records by (survey, subject) and reports the
// groups with more than one distinct response id.
func FindDuplicates(records []Response) []Duplicate {
	groups := map[[2]string]map[string]bool{}
	for _, r := range records {
		key := [2]string{r.Survey, r.SID}
		if groups[key] == nil {
			groups[key] = map[string]bool{}
		}
		groups[key][r.ResponseID] = true
	}

	var out []Duplicate
	for key, rids := range groups {
		if len(rids) < 2 {
			continue
		}
		ids := make([]string, 0, len(rids))
		for id := range rids {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out = append(out, Duplicate{Survey: key[0], SID: key[1], ResponseIDs: ids})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Survey != out[j].Survey {
			return out[i].Survey < out[j].Survey
		}
		return out[i].SID < out[j].SID
	})
	return out
}

// DropResponses removes every record belonging to the listed response
// ids, i.e. whole response instances rather than individual items.
func DropResponses(records []Response, drop []string) []Response {
	if len(drop) == 0 {
		return records
	}
	dropSet := make(map[string]bool, len(drop))
	for _, id := range drop {
		dropSet[id] = true
	}

	out := records[:0:0]
	for _, r := range records {
		if dropSet[r.ResponseID] {
			continue
		}
		out = append(out, r)
	}
	return out
}
