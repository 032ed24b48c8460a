package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/catalogcheck/internal/harness"
)

// SaveReport records a run with its outcomes and violations in one
// transaction. Uses ON CONFLICT(id) DO NOTHING for idempotency: saving a
// run ID that is already stored leaves the stored run untouched.
func (s *Store) SaveReport(ctx context.Context, r *harness.Report) (err error) {
	if r == nil || r.RunID == "" {
		return errors.New("save report: run id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save report: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	sum := r.Summary
	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, base_url, suite, started_at, finished_at, total, pass, fail, heuristic, known_defect, fixed, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		r.RunID,
		r.BaseURL,
		r.Suite,
		formatTime(r.StartedAt),
		formatTime(r.FinishedAt),
		sum.Total, sum.Pass, sum.Fail, sum.Heuristic, sum.KnownDefect, sum.Fixed, sum.Error,
	)
	if err != nil {
		return fmt.Errorf("save report: insert run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	if n == 0 {
		// Already recorded.
		return tx.Commit()
	}

	for i, o := range r.Outcomes {
		if err := writeOutcome(ctx, tx, r.RunID, i, o); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save report: commit: %w", err)
	}
	return nil
}

// writeOutcome inserts one outcome and its violations at position seq.
func writeOutcome(ctx context.Context, tx *sql.Tx, runID string, seq int, o harness.Outcome) error {
	callsJSON, err := marshalCalls(o.Calls)
	if err != nil {
		return fmt.Errorf("outcome %s: %w", o.Name, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO outcomes
		(run_id, seq, name, class, status, known_defect, error, duration_ns, calls)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		runID,
		seq,
		o.Name,
		string(o.Class),
		string(o.Status),
		boolToInt(o.KnownDefect),
		o.Error,
		int64(o.Duration),
		callsJSON,
	)
	if err != nil {
		return fmt.Errorf("insert outcome %s: %w", o.Name, err)
	}

	for j, f := range o.Violations {
		if f.Violation == nil {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO violations
			(run_id, outcome_seq, seq, validator, field, expected, actual, severity, request)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			runID,
			seq,
			j,
			f.Validator,
			f.Field,
			f.Expected,
			f.Actual,
			string(f.Severity),
			f.Request,
		)
		if err != nil {
			return fmt.Errorf("insert violation %s[%d]: %w", o.Name, j, err)
		}
	}
	return nil
}

// DeleteRun removes a run and, through the foreign keys, its outcomes and
// violations. Deleting an unknown run is not an error.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID); err != nil {
		return fmt.Errorf("delete run %s: %w", runID, err)
	}
	return nil
}
