package harness

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/catalogcheck/internal/client"
	"github.com/roach88/catalogcheck/internal/contract"
	"github.com/roach88/catalogcheck/internal/fakecatalog"
	"github.com/roach88/catalogcheck/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newClient serves h on a test server and returns a client for it.
func newClient(t *testing.T, h http.Handler) *client.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	c, err := client.New(ts.URL, client.WithHTTPClient(ts.Client()), client.WithLogger(discardLogger()))
	require.NoError(t, err)
	return c
}

func newRunner(c *client.Client) *Runner {
	return &Runner{
		Client: c,
		Logger: discardLogger(),
		Clock:  testutil.NewDeterministicClock(time.Time{}, time.Millisecond).Now,
		NewID:  testutil.NewFixedIDGenerator("test-run").Generate,
	}
}

func statuses(r *Report) map[string]Status {
	out := make(map[string]Status, len(r.Outcomes))
	for _, o := range r.Outcomes {
		out[o.Name] = o.Status
	}
	return out
}

func TestDefaultSuite_ReferenceCatalog(t *testing.T) {
	c := newClient(t, fakecatalog.New(fakecatalog.Options{}))

	report, err := newRunner(c).Run(context.Background(), DefaultSuite(DefaultParams()))
	require.NoError(t, err)

	for _, o := range report.Outcomes {
		switch o.Name {
		case "sort-title-asc", "sort-title-desc":
			// The reference catalog sorts correctly, so the known defect is fixed.
			assert.Equal(t, StatusFixed, o.Status, o.Name)
		default:
			assert.Equal(t, StatusPass, o.Status, "%s: %v %s", o.Name, o.Violations, o.Error)
		}
		assert.NotEmpty(t, o.Calls, o.Name)
	}

	assert.Equal(t, len(DefaultSuite(DefaultParams())), report.Summary.Total)
	assert.Equal(t, 2, report.Summary.Fixed)
	assert.False(t, report.Failed(false))
	assert.True(t, report.Failed(true), "fixed known defects fail strict runs")
}

func TestDefaultSuite_SortDefect(t *testing.T) {
	c := newClient(t, fakecatalog.New(fakecatalog.Options{SortDefect: true}))

	report, err := newRunner(c).Run(context.Background(), DefaultSuite(DefaultParams()))
	require.NoError(t, err)

	got := statuses(report)
	assert.Equal(t, StatusKnownDefect, got["sort-title-asc"])
	assert.Equal(t, StatusKnownDefect, got["sort-title-desc"])
	assert.Equal(t, report.Summary.Total-2, report.Summary.Pass)
	assert.False(t, report.Failed(true))

	for _, o := range report.Outcomes {
		if o.Name != "sort-title-asc" {
			continue
		}
		require.Len(t, o.Violations, 1)
		assert.Equal(t, contract.ValidatorOrdering, o.Violations[0].Validator)
		assert.Equal(t, "GET /products?limit=30&order=asc&sortBy=title", o.Violations[0].Request)
	}
}

func TestRunner_ParallelPreservesOrder(t *testing.T) {
	c := newClient(t, fakecatalog.New(fakecatalog.Options{SortDefect: true}))
	suite := DefaultSuite(DefaultParams())

	sequential, err := newRunner(c).Run(context.Background(), suite)
	require.NoError(t, err)

	r := newRunner(c)
	r.Parallel = 8
	parallel, err := r.Run(context.Background(), suite)
	require.NoError(t, err)

	require.Len(t, parallel.Outcomes, len(suite))
	for i, o := range parallel.Outcomes {
		assert.Equal(t, suite[i].Name, o.Name)
		assert.Equal(t, sequential.Outcomes[i].Status, o.Status, o.Name)
		assert.Equal(t, sequential.Outcomes[i].Calls, o.Calls, o.Name)
	}
	assert.Equal(t, sequential.Summary, parallel.Summary)
}

func TestRunner_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	c, err := client.New(ts.URL)
	require.NoError(t, err)
	ts.Close()

	report, err := newRunner(c).Run(context.Background(), DefaultSuite(DefaultParams())[:3])
	require.NoError(t, err)

	for _, o := range report.Outcomes {
		assert.Equal(t, StatusError, o.Status, o.Name)
		assert.NotEmpty(t, o.Error)
		assert.Empty(t, o.Calls)
	}
	assert.Equal(t, 3, report.Summary.Error)
	assert.True(t, report.Failed(false))
}

func TestRunner_PanicIsError(t *testing.T) {
	c := newClient(t, fakecatalog.New(fakecatalog.Options{}))
	suite := []Scenario{{
		Name:  "boom",
		Class: ClassBehavior,
		Run: func(ctx context.Context, s *Session) error {
			var m map[string]any
			_ = m["x"].(string)
			return nil
		},
	}}

	report, err := newRunner(c).Run(context.Background(), suite)
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, StatusError, report.Outcomes[0].Status)
	assert.Contains(t, report.Outcomes[0].Error, "panicked")
}

func TestRunner_MissingRunFunc(t *testing.T) {
	c := newClient(t, fakecatalog.New(fakecatalog.Options{}))

	report, err := newRunner(c).Run(context.Background(), []Scenario{{Name: "empty", Class: ClassFormat}})
	require.NoError(t, err)
	assert.Equal(t, StatusError, report.Outcomes[0].Status)
}

func TestRunner_RequiresClient(t *testing.T) {
	_, err := (&Runner{}).Run(context.Background(), nil)
	require.Error(t, err)
}

func TestRunner_DeterministicStamps(t *testing.T) {
	c := newClient(t, fakecatalog.New(fakecatalog.Options{}))
	suite := DefaultSuite(DefaultParams())[:2]

	report, err := newRunner(c).Run(context.Background(), suite)
	require.NoError(t, err)

	assert.Equal(t, "test-run", report.RunID)
	assert.Equal(t, c.BaseURL(), report.BaseURL)
	assert.Equal(t, testutil.DefaultStart, report.StartedAt)
	// start, then two clock reads per scenario, then finish
	assert.Equal(t, testutil.DefaultStart.Add(5*time.Millisecond), report.FinishedAt)
	for _, o := range report.Outcomes {
		assert.Equal(t, time.Millisecond, o.Duration)
	}
}

func TestRunner_DefaultRunIDIsUUID(t *testing.T) {
	c := newClient(t, fakecatalog.New(fakecatalog.Options{}))

	r := &Runner{Client: c}
	report, err := r.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, report.RunID, 36)
	assert.Empty(t, report.Outcomes)
}

func TestClassify(t *testing.T) {
	hard := Finding{Violation: &contract.Violation{Severity: contract.SeverityHard}}
	soft := Finding{Violation: &contract.Violation{Severity: contract.SeverityHeuristic}}

	tests := []struct {
		name     string
		known    bool
		findings []Finding
		err      error
		want     Status
	}{
		{"clean", false, nil, nil, StatusPass},
		{"hard", false, []Finding{soft, hard}, nil, StatusFail},
		{"heuristic only", false, []Finding{soft}, nil, StatusHeuristic},
		{"known defect fails", true, []Finding{hard}, nil, StatusKnownDefect},
		{"known defect passes", true, nil, nil, StatusFixed},
		{"known defect heuristic only", true, []Finding{soft}, nil, StatusFixed},
		{"error wins", false, []Finding{hard}, io.ErrUnexpectedEOF, StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.known, tt.findings, tt.err))
		})
	}
}

func TestReport_Failed(t *testing.T) {
	tests := []struct {
		name           string
		summary        Summary
		normal, strict bool
	}{
		{"all pass", Summary{Total: 2, Pass: 2}, false, false},
		{"fail", Summary{Total: 2, Pass: 1, Fail: 1}, true, true},
		{"error", Summary{Total: 1, Error: 1}, true, true},
		{"heuristic", Summary{Total: 2, Pass: 1, Heuristic: 1}, false, true},
		{"known defect", Summary{Total: 2, Pass: 1, KnownDefect: 1}, false, false},
		{"fixed", Summary{Total: 1, Fixed: 1}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Report{Summary: tt.summary}
			assert.Equal(t, tt.normal, r.Failed(false))
			assert.Equal(t, tt.strict, r.Failed(true))
		})
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Outcome{
		{Status: StatusPass}, {Status: StatusPass}, {Status: StatusFail},
		{Status: StatusHeuristic}, {Status: StatusKnownDefect}, {Status: StatusFixed}, {Status: StatusError},
	})
	assert.Equal(t, Summary{Total: 7, Pass: 2, Fail: 1, Heuristic: 1, KnownDefect: 1, Fixed: 1, Error: 1}, s)
}
