// Package tidy reshapes wide survey exports into long-format response
// records and cleans the known data-quality problems in them: blank
// subject ids, test accounts, empty values, free-text typos and
// duplicated submissions.
package tidy

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("tidy")

// Missing marks a value that was absent from the export. It is
// distinct from the empty string so downstream stages can tell "not
// answered" apart from a legitimate blank/zero answer.
const Missing = "NA"

// Response is one (subject, item) observation from one submission of
// one survey.
type Response struct {
	ResponseID string
	Survey     string
	SID        string
	Item       string
	Value      string
}

// WideTable is a raw survey export: one row per submission, one
// column per item plus identity columns.
type WideTable struct {
	Columns []string
	Rows    [][]string
}

func (t WideTable) columnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

type Config struct {
	// column holding the platform-assigned id of the submission
	ResponseIDColumn string `json:"response_id_column"`
	// primary subject id column
	SIDColumn string `json:"sid_column"`
	// columns to substitute, in order, when the primary subject id is
	// blank. resolution happens before any pattern filtering.
	FallbackSIDColumns []string `json:"fallback_sid_columns"`
	// non-item columns (timestamps, metadata, contact info) dropped
	// from the long table
	IdentityColumns []string `json:"identity_columns"`
	// keep only subjects matching this pattern, e.g. `^FP[0-9]{3}$`
	KeepSIDPattern string `json:"keep_sid_pattern"`
	// then drop subjects matching this pattern, e.g. test accounts
	DropSIDPattern string `json:"drop_sid_pattern"`
}

// Melt converts a wide export into long Response records. Identity
// resolution happens first, then the inclusion filter, then the
// exclusion filter. Empty item values are recoded to Missing.
func Melt(ctx context.Context, survey string, table WideTable, cfg Config) ([]Response, error) {
	_, span := tracer.Start(ctx, "Melt")
	defer span.End()
	span.SetAttributes(attribute.String("survey", survey))

	var keep, drop *regexp.Regexp
	var err error
	if cfg.KeepSIDPattern != "" {
		keep, err = regexp.Compile(cfg.KeepSIDPattern)
		if err != nil {
			return nil, fmt.Errorf("keep_sid_pattern: %w", err)
		}
	}
	if cfg.DropSIDPattern != "" {
		drop, err = regexp.Compile(cfg.DropSIDPattern)
		if err != nil {
			return nil, fmt.Errorf("drop_sid_pattern: %w", err)
		}
	}

	ridIdx := table.columnIndex(cfg.ResponseIDColumn)
	if ridIdx < 0 {
		return nil, fmt.Errorf("response id column %q not in export", cfg.ResponseIDColumn)
	}
	sidIdx := table.columnIndex(cfg.SIDColumn)
	if sidIdx < 0 {
		return nil, fmt.Errorf("subject id column %q not in export", cfg.SIDColumn)
	}
	var fallbackIdx []int
	for _, c := range cfg.FallbackSIDColumns {
		i := table.columnIndex(c)
		if i < 0 {
			return nil, fmt.Errorf("fallback subject id column %q not in export", c)
		}
		fallbackIdx = append(fallbackIdx, i)
	}

	identity := map[string]bool{
		cfg.ResponseIDColumn: true,
		cfg.SIDColumn:        true,
	}
	for _, c := range cfg.FallbackSIDColumns {
		identity[c] = true
	}
	for _, c := range cfg.IdentityColumns {
		identity[c] = true
	}

	var out []Response
	for _, row := range table.Rows {
		if len(row) != len(table.Columns) {
			return nil, fmt.Errorf("row has %d cells, export has %d columns", len(row), len(table.Columns))
		}

		sid := row[sidIdx]
		for _, i := range fallbackIdx {
			if sid != "" {
				break
			}
			sid = row[i]
		}

		if keep != nil && !keep.MatchString(sid) {
			continue
		}
		if drop != nil && drop.MatchString(sid) {
			continue
		}

		for i, col := range table.Columns {
			if identity[col] {
				continue
			}
			value := row[i]
			if value == "" {
				value = Missing
			}
			out = append(out, Response{
				ResponseID: row[ridIdx],
				Survey:     survey,
				SID:        sid,
				Item:       col,
				Value:      value,
			})
		}
	}

	span.SetAttributes(attribute.Int("records", len(out)))
	return out, nil
}

var waveSuffix = regexp.MustCompile(`([0-9]+)\s*$`)

// Wave derives the administration wave from a survey name, e.g.
// "FP Survey 3" is wave 3. Names without a trailing number are wave 0.
func Wave(survey string) int {
	m := waveSuffix.FindStringSubmatch(survey)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
