// Package scoring aggregates cleaned long-format survey responses
// into composite scale scores, one result per (survey, subject,
// scale, subscale) partition declared by a rubric.
package scoring

import (
	"context"
	"sort"
	"strings"

	"github.com/dcosme/score-qualtrics/lib/rubric"
	"github.com/dcosme/score-qualtrics/lib/tidy"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("scoring")

// Result is one scored partition for one subject in one survey
// administration. When Valid is false the partition exceeded its
// rubric's missing tolerance and the score is null; NMissing is
// recorded either way. Text carries the raw value(s) of passthrough
// partitions.
type Result struct {
	Survey      string
	Wave        int
	SID         string
	Scale       string
	ScoredScale string
	Score       float64
	Valid       bool
	Text        string
	NMissing    int
	Method      rubric.Method
}

// Score produces one result per (survey, subject, scale, subscale).
// Surveys are scored independently so that waves of the same
// instrument, which share item names, never shadow each other.
// Surveys and subjects are emitted in sorted order and a subject's
// partitions in rubric declaration order, so output is deterministic.
// A problem with one subject or item never aborts the rest of the
// run.
func Score(ctx context.Context, records []tidy.Response, rubrics []rubric.Rubric) []Result {
	_, span := tracer.Start(ctx, "Score")
	defer span.End()

	bySurvey := map[string][]tidy.Response{}
	for _, r := range records {
		bySurvey[r.Survey] = append(bySurvey[r.Survey], r)
	}
	surveys := make([]string, 0, len(bySurvey))
	for survey := range bySurvey {
		surveys = append(surveys, survey)
	}
	sort.Strings(surveys)

	var out []Result
	for _, survey := range surveys {
		out = append(out, scoreSurvey(survey, bySurvey[survey], rubrics)...)
	}

	span.SetAttributes(
		attribute.Int("surveys", len(surveys)),
		attribute.Int("results", len(out)),
	)
	return out
}

func scoreSurvey(survey string, records []tidy.Response, rubrics []rubric.Rubric) []Result {
	// at most one value per (subject, item) within a survey is assumed
	// here; residual duplicates are a cleaning-stage defect, not
	// resolved here
	values := map[string]map[string]string{}
	itemSet := map[string]bool{}
	for _, r := range records {
		if values[r.SID] == nil {
			values[r.SID] = map[string]string{}
		}
		if _, ok := values[r.SID][r.Item]; !ok {
			values[r.SID][r.Item] = r.Value
		}
		itemSet[r.Item] = true
	}

	items := make([]string, 0, len(itemSet))
	for item := range itemSet {
		items = append(items, item)
	}
	sort.Strings(items)

	subjects := make([]string, 0, len(values))
	for sid := range values {
		subjects = append(subjects, sid)
	}
	sort.Strings(subjects)

	type partition struct {
		scale  string
		name   string
		method rubric.Method
		items  []rubric.ResolvedItem
		rub    rubric.Rubric
	}
	var partitions []partition
	for _, rub := range rubrics {
		for _, sub := range rub.Subscales {
			partitions = append(partitions, partition{
				scale:  rub.Name,
				name:   sub.Name,
				method: sub.Method,
				items:  sub.Resolve(items),
				rub:    rub,
			})
		}
	}

	wave := tidy.Wave(survey)
	var out []Result
	for _, sid := range subjects {
		answers := values[sid]
		for _, p := range partitions {
			result := scorePartition(sid, p.scale, p.name, p.method, p.items, p.rub, answers)
			result.Survey = survey
			result.Wave = wave
			out = append(out, result)
		}
	}
	return out
}

func scorePartition(
	sid, scale, scoredScale string,
	method rubric.Method,
	items []rubric.ResolvedItem,
	rub rubric.Rubric,
	answers map[string]string,
) Result {
	result := Result{
		SID:         sid,
		Scale:       scale,
		ScoredScale: scoredScale,
		Method:      method,
	}

	var numeric []float64
	var raw []string
	for _, item := range items {
		value, ok := answers[item.Name]
		if !ok || value == tidy.Missing {
			result.NMissing++
			continue
		}

		if method == rubric.Passthrough {
			raw = append(raw, value)
			continue
		}

		n, ok := tidy.Numeric(value)
		if !ok {
			// coercion failure, already surfaced by the audit
			result.NMissing++
			continue
		}
		if item.Reverse {
			n = rub.ReverseValue(n)
		}
		numeric = append(numeric, n)
	}

	// a fully missing partition is always null, whatever the tolerance
	if len(items) > 0 && result.NMissing == len(items) {
		return result
	}
	if result.NMissing > rub.MaxMissing(len(items)) {
		return result
	}
	result.Valid = true

	switch method {
	case rubric.Sum:
		for _, n := range numeric {
			result.Score += n
		}
	case rubric.Mean:
		if len(numeric) == 0 {
			result.Valid = false
			return result
		}
		var sum float64
		for _, n := range numeric {
			sum += n
		}
		result.Score = sum / float64(len(numeric))
	case rubric.Count:
		result.Score = float64(len(numeric))
	case rubric.Passthrough:
		result.Text = strings.Join(raw, "; ")
	}
	return result
}
