package tidy

import "log/slog"

// Correction is a point-fix for a free-text entry error discovered by
// hand: the value recorded for (SID, Item) is replaced verbatim.
// There is deliberately no inference here.
type Correction struct {
	SID   string `json:"sid"`
	Item  string `json:"item"`
	Value string `json:"value"`
}

// ApplyCorrections rewrites records in declared order and reports how
// many corrections matched at least one record. Corrections must run
// before the coercion audit so fixed values never show up in it.
func ApplyCorrections(records []Response, fixes []Correction) int {
	index := make(map[[2]string][]int, len(records))
	for i, r := range records {
		key := [2]string{r.SID, r.Item}
		index[key] = append(index[key], i)
	}

	applied := 0
	for _, fix := range fixes {
		positions, ok := index[[2]string{fix.SID, fix.Item}]
		if !ok {
			slog.Warn(
				"manual correction matched nothing",
				"sid", fix.SID, "item", fix.Item,
			)
			continue
		}
		for _, i := range positions {
			records[i].Value = fix.Value
		}
		applied++
	}
	return applied
}
