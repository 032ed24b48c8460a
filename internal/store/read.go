package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/catalogcheck/internal/contract"
	"github.com/roach88/catalogcheck/internal/harness"
)

// RunSummary is one row of the history listing.
type RunSummary struct {
	RunID      string          `json:"run_id"`
	BaseURL    string          `json:"base_url"`
	Suite      string          `json:"suite,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Summary    harness.Summary `json:"summary"`
}

// ScenarioResult is one past outcome of a single scenario.
type ScenarioResult struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	Status     harness.Status `json:"status"`
	Violations int            `json:"violations"`
}

// ListRuns returns the most recent runs, newest first. A limit below 1
// returns every run.
//
// Returns an empty slice (not nil) if nothing is recorded.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit < 1 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, base_url, suite, started_at, finished_at,
		       total, pass, fail, heuristic, known_defect, fixed, error
		FROM runs
		ORDER BY started_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LoadReport reads a stored run back as a report.
// Returns sql.ErrNoRows (wrapped) if the run is not recorded.
func (s *Store) LoadReport(ctx context.Context, runID string) (*harness.Report, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, base_url, suite, started_at, finished_at,
		       total, pass, fail, heuristic, known_defect, fixed, error
		FROM runs
		WHERE id = ?
	`, runID)
	run, err := scanRun(row)
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}

	outcomes, err := s.readOutcomes(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}

	return &harness.Report{
		RunID:      run.RunID,
		BaseURL:    run.BaseURL,
		Suite:      run.Suite,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Outcomes:   outcomes,
		Summary:    run.Summary,
	}, nil
}

// ScenarioHistory returns the most recent outcomes of one scenario across
// runs, newest first.
func (s *Store) ScenarioHistory(ctx context.Context, name string, limit int) ([]ScenarioResult, error) {
	if limit < 1 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.started_at, o.status,
		       (SELECT COUNT(*) FROM violations v WHERE v.run_id = o.run_id AND v.outcome_seq = o.seq)
		FROM outcomes o
		JOIN runs r ON r.id = o.run_id
		WHERE o.name = ?
		ORDER BY r.started_at DESC, r.id COLLATE BINARY DESC
		LIMIT ?
	`, name, limit)
	if err != nil {
		return nil, fmt.Errorf("query scenario history: %w", err)
	}
	defer rows.Close()

	results := []ScenarioResult{}
	for rows.Next() {
		var (
			res     ScenarioResult
			started string
			status  string
		)
		if err := rows.Scan(&res.RunID, &started, &status, &res.Violations); err != nil {
			return nil, fmt.Errorf("scan scenario history: %w", err)
		}
		if res.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}
		res.Status = harness.Status(status)
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenario history: %w", err)
	}
	return results, nil
}

// readOutcomes returns a run's outcomes in report order.
func (s *Store) readOutcomes(ctx context.Context, runID string) ([]harness.Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, name, class, status, known_defect, error, duration_ns, calls
		FROM outcomes
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var (
		outcomes []harness.Outcome
		seqs     []int
	)
	for rows.Next() {
		var (
			o                    harness.Outcome
			seq                  int
			class, status, calls string
			known                int
			duration             int64
		)
		if err := rows.Scan(&seq, &o.Name, &class, &status, &known, &o.Error, &duration, &calls); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Class = harness.Class(class)
		o.Status = harness.Status(status)
		o.KnownDefect = known != 0
		o.Duration = time.Duration(duration)
		if o.Calls, err = unmarshalCalls(calls); err != nil {
			return nil, fmt.Errorf("outcome %s: %w", o.Name, err)
		}
		outcomes = append(outcomes, o)
		seqs = append(seqs, seq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	rows.Close()

	// Violations are read after the outcome cursor is closed: the pool
	// holds a single connection.
	findings, err := s.readViolations(ctx, runID)
	if err != nil {
		return nil, err
	}
	for i, seq := range seqs {
		outcomes[i].Violations = findings[seq]
	}
	return outcomes, nil
}

// readViolations returns a run's findings keyed by outcome seq, each list
// in report order.
func (s *Store) readViolations(ctx context.Context, runID string) (map[int][]harness.Finding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT outcome_seq, validator, field, expected, actual, severity, request
		FROM violations
		WHERE run_id = ?
		ORDER BY outcome_seq ASC, seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query violations: %w", err)
	}
	defer rows.Close()

	out := make(map[int][]harness.Finding)
	for rows.Next() {
		var (
			seq      int
			v        contract.Violation
			severity string
			request  string
		)
		if err := rows.Scan(&seq, &v.Validator, &v.Field, &v.Expected, &v.Actual, &severity, &request); err != nil {
			return nil, fmt.Errorf("scan violation: %w", err)
		}
		v.Severity = contract.Severity(severity)
		out[seq] = append(out[seq], harness.Finding{Violation: &v, Request: request})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate violations: %w", err)
	}
	return out, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRun scans a runs row. sql.ErrNoRows is returned unwrapped so callers
// can test for it.
func scanRun(row rowScanner) (RunSummary, error) {
	var (
		run               RunSummary
		started, finished string
		sum               = &run.Summary
	)
	err := row.Scan(&run.RunID, &run.BaseURL, &run.Suite, &started, &finished,
		&sum.Total, &sum.Pass, &sum.Fail, &sum.Heuristic, &sum.KnownDefect, &sum.Fixed, &sum.Error)
	if err == sql.ErrNoRows {
		return RunSummary{}, err
	}
	if err != nil {
		return RunSummary{}, fmt.Errorf("scan run: %w", err)
	}
	if run.StartedAt, err = parseTime(started); err != nil {
		return RunSummary{}, err
	}
	if run.FinishedAt, err = parseTime(finished); err != nil {
		return RunSummary{}, err
	}
	return run, nil
}
