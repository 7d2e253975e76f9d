// Package scorestore persists the pipeline's tables between stages:
// cleaned responses and their audit findings after `clean`, scored
// results per run after `score`. Stages can then be rerun and
// inspected independently.
package scorestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/dcosme/score-qualtrics/lib/rubric"
	"github.com/dcosme/score-qualtrics/lib/scoring"
	"github.com/dcosme/score-qualtrics/lib/tidy"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// AuditRow is a stored coercion failure, tagged with the survey it
// came from.
type AuditRow struct {
	Survey string
	Item   string
	SID    string
	Value  string
}

// PushClean replaces a survey's cleaned records and audit findings in
// one transaction, so a rerun of `clean` never leaves a half-updated
// survey behind.
func (s Store) PushClean(
	ctx context.Context,
	survey string,
	records []tidy.Response,
	fails []tidy.CoercionFailure,
	dups []tidy.Duplicate,
) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM responses WHERE survey = ?`,
		`DELETE FROM coercion_failures WHERE survey = ?`,
		`DELETE FROM duplicate_conflicts WHERE survey = ?`,
	} {
		_, err = tx.ExecContext(ctx, stmt, survey)
		if err != nil {
			return err
		}
	}

	for _, r := range records {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO responses (survey, response_id, sid, item, value)
			 VALUES (?, ?, ?, ?, ?)`,
			survey, r.ResponseID, r.SID, r.Item, r.Value,
		)
		if err != nil {
			return err
		}
	}
	for _, f := range fails {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO coercion_failures (survey, item, sid, value)
			 VALUES (?, ?, ?, ?)`,
			survey, f.Item, f.SID, f.Value,
		)
		if err != nil {
			return err
		}
	}
	for _, d := range dups {
		ids, err := json.Marshal(d.ResponseIDs)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO duplicate_conflicts (survey, sid, response_ids)
			 VALUES (?, ?, ?)`,
			survey, d.SID, string(ids),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// PullResponses returns the cleaned records of one survey, or of
// every survey when the name is empty.
func (s Store) PullResponses(ctx context.Context, survey string) ([]tidy.Response, error) {
	query := `SELECT survey, response_id, sid, item, value FROM responses
	          ORDER BY survey, sid, item, response_id`
	args := []any{}
	if survey != "" {
		query = `SELECT survey, response_id, sid, item, value FROM responses
		         WHERE survey = ? ORDER BY sid, item, response_id`
		args = append(args, survey)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tidy.Response
	for rows.Next() {
		var r tidy.Response
		err = rows.Scan(&r.Survey, &r.ResponseID, &r.SID, &r.Item, &r.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PullAudit returns every stored coercion failure and duplicate
// conflict, for the operator-facing audit report.
func (s Store) PullAudit(ctx context.Context) ([]AuditRow, []tidy.Duplicate, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT survey, item, sid, value FROM coercion_failures
		 ORDER BY survey, item, sid`,
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var fails []AuditRow
	for rows.Next() {
		var f AuditRow
		err = rows.Scan(&f.Survey, &f.Item, &f.SID, &f.Value)
		if err != nil {
			return nil, nil, err
		}
		fails = append(fails, f)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	dupRows, err := s.db.QueryContext(
		ctx,
		`SELECT survey, sid, response_ids FROM duplicate_conflicts
		 ORDER BY survey, sid`,
	)
	if err != nil {
		return nil, nil, err
	}
	defer dupRows.Close()

	var dups []tidy.Duplicate
	for dupRows.Next() {
		var d tidy.Duplicate
		var ids string
		err = dupRows.Scan(&d.Survey, &d.SID, &ids)
		if err != nil {
			return nil, nil, err
		}
		err = json.Unmarshal([]byte(ids), &d.ResponseIDs)
		if err != nil {
			return nil, nil, err
		}
		dups = append(dups, d)
	}
	return fails, dups, dupRows.Err()
}

// PushResults records a scoring run. Results keep their emission
// order so reports stay in rubric declaration order.
func (s Store) PushResults(ctx context.Context, runId string, at time.Time, results []scoring.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO runs (run_id, created_at) VALUES (?, ?)`,
		runId, at.Unix(),
	)
	if err != nil {
		return err
	}

	for seq, r := range results {
		score := sql.NullFloat64{Float64: r.Score, Valid: r.Valid}
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO scored_results
			 (run_id, seq, survey, wave, sid, scale, scored_scale, score, text, n_missing, method)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runId, seq, r.Survey, r.Wave, r.SID, r.Scale, r.ScoredScale,
			score, r.Text, r.NMissing, r.Method.String(),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// PullResults returns a run's scored results in emission order.
func (s Store) PullResults(ctx context.Context, runId string) ([]scoring.Result, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT survey, wave, sid, scale, scored_scale, score, text, n_missing, method
		 FROM scored_results WHERE run_id = ? ORDER BY seq`,
		runId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []scoring.Result
	for rows.Next() {
		var r scoring.Result
		var score sql.NullFloat64
		var method string
		err = rows.Scan(&r.Survey, &r.Wave, &r.SID, &r.Scale, &r.ScoredScale, &score, &r.Text, &r.NMissing, &method)
		if err != nil {
			return nil, err
		}
		r.Score = score.Float64
		r.Valid = score.Valid
		r.Method, err = rubric.ParseMethod(method)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LatestRun returns the id of the most recent scoring run, or "" when
// nothing has been scored yet.
func (s Store) LatestRun(ctx context.Context) (string, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT run_id FROM runs ORDER BY created_at DESC, run_id DESC LIMIT 1`,
	)
	var runId string
	err := row.Scan(&runId)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return runId, nil
}
