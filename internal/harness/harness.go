package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/catalogcheck/internal/client"
	"github.com/roach88/catalogcheck/internal/ordering"
)

// Runner executes scenarios against one catalog.
//
// Every scenario gets its own Session, so scenarios share nothing mutable
// and may run concurrently. Calls inside one scenario are always
// sequential. Outcomes are reported in input order whatever the
// parallelism.
type Runner struct {
	// Client is the catalog client. Required.
	Client *client.Client

	// Order is the collation used by sort checks. Zero means English.
	Order ordering.Checker

	// Logger receives one line per scenario. Defaults to discard.
	Logger *slog.Logger

	// Clock stamps the report and times scenarios. Defaults to time.Now.
	Clock func() time.Time

	// NewID generates the run ID. Defaults to a UUIDv7.
	NewID func() string

	// Suite names the suite in the report. Optional.
	Suite string

	// Parallel is the number of scenarios run at once. Values below 1
	// mean 1.
	Parallel int
}

// Run executes scenarios and returns the report. The error is reserved for
// a misconfigured runner; scenario failures are reported in the outcomes.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) (*Report, error) {
	if r.Client == nil {
		return nil, errors.New("runner: client is required")
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	clock := r.Clock
	if clock == nil {
		clock = time.Now
	}
	newID := r.NewID
	if newID == nil {
		newID = func() string { return uuid.Must(uuid.NewV7()).String() }
	}
	parallel := r.Parallel
	if parallel < 1 {
		parallel = 1
	}

	report := &Report{
		RunID:     newID(),
		BaseURL:   r.Client.BaseURL(),
		Suite:     r.Suite,
		StartedAt: clock(),
	}
	logger.Info("run started", "run_id", report.RunID, "base_url", report.BaseURL, "scenarios", len(scenarios), "parallel", parallel)

	outcomes := make([]Outcome, len(scenarios))
	var g errgroup.Group
	g.SetLimit(parallel)
	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			outcomes[i] = r.runOne(ctx, sc, clock, logger)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	report.FinishedAt = clock()
	report.Outcomes = outcomes
	report.Summary = Summarize(outcomes)

	logger.Info("run finished",
		"run_id", report.RunID,
		"pass", report.Summary.Pass,
		"fail", report.Summary.Fail,
		"heuristic", report.Summary.Heuristic,
		"known_defect", report.Summary.KnownDefect,
		"fixed", report.Summary.Fixed,
		"error", report.Summary.Error,
	)
	return report, nil
}

// runOne executes a single scenario on a fresh session. A panic inside the
// scenario is reported as an error outcome.
func (r *Runner) runOne(ctx context.Context, sc Scenario, clock func() time.Time, logger *slog.Logger) (out Outcome) {
	session := NewSession(r.Client, r.Order)
	start := clock()

	out = Outcome{
		Name:        sc.Name,
		Class:       sc.Class,
		KnownDefect: sc.KnownDefect,
	}

	var err error
	func() {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("scenario panicked: %v", p)
			}
		}()
		if sc.Run == nil {
			err = errors.New("scenario has no run function")
			return
		}
		err = sc.Run(ctx, session)
	}()

	out.Calls = session.Calls()
	out.Violations = session.Findings()
	out.Status = classify(sc.KnownDefect, out.Violations, err)
	if err != nil {
		out.Error = err.Error()
	}
	out.Duration = clock().Sub(start)

	level := slog.LevelDebug
	if out.Status == StatusFail || out.Status == StatusError {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, "scenario finished",
		"scenario", sc.Name,
		"status", out.Status,
		"violations", len(out.Violations),
		"calls", len(out.Calls),
		"elapsed", out.Duration,
	)
	return out
}
