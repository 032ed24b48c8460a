package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/catalogcheck/internal/contract"
	"github.com/roach88/catalogcheck/internal/harness"
	"github.com/roach88/catalogcheck/internal/testutil"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// testReport builds a small report started at offset after DefaultStart.
func testReport(id string, offset time.Duration) *harness.Report {
	start := testutil.DefaultStart.Add(offset)
	outcomes := []harness.Outcome{
		{
			Name:     "products-envelope",
			Class:    harness.ClassFormat,
			Status:   harness.StatusPass,
			Calls:    []harness.Call{{Method: "GET", Path: "/products", Query: "limit=5", Status: 200}},
			Duration: 12 * time.Millisecond,
		},
		{
			Name:        "sort-title-asc",
			Class:       harness.ClassBehavior,
			Status:      harness.StatusKnownDefect,
			KnownDefect: true,
			Calls:       []harness.Call{{Method: "GET", Path: "/products", Query: "limit=30&order=asc&sortBy=title", Status: 200}},
			Violations: []harness.Finding{
				{
					Violation: &contract.Violation{
						Validator: contract.ValidatorOrdering,
						Field:     "title",
						Expected:  "30 values sorted asc",
						Actual:    `"b" at index 0 precedes "a" at index 1`,
						Severity:  contract.SeverityHard,
					},
					Request: "GET /products?limit=30&order=asc&sortBy=title",
				},
				{
					Violation: &contract.Violation{
						Validator: contract.ValidatorRelevance,
						Field:     "products[0].description",
						Expected:  `text containing "x"`,
						Actual:    "missing",
						Severity:  contract.SeverityHeuristic,
					},
					Request: "GET /products?limit=30&order=asc&sortBy=title",
				},
			},
			Duration: 20 * time.Millisecond,
		},
		{
			Name:     "unknown-product-id",
			Class:    harness.ClassNegative,
			Status:   harness.StatusError,
			Error:    "GET /products/99999: connection refused",
			Duration: time.Millisecond,
		},
	}
	return &harness.Report{
		RunID:      id,
		BaseURL:    "http://catalog.test",
		Suite:      "local",
		StartedAt:  start,
		FinishedAt: start.Add(time.Second),
		Outcomes:   outcomes,
		Summary:    harness.Summarize(outcomes),
	}
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		s.Close()
	}

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	for _, table := range []string{"runs", "outcomes", "violations"} {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %q not found after idempotent opens", table)
	}

	var index string
	err = s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name='idx_outcomes_name'").Scan(&index)
	assert.NoError(t, err)
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("synchronous", "1")) // NORMAL
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "test.db"))
	assert.Error(t, err)
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, (&Store{}).Close())
}

func TestSaveReport_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	want := testReport("run-1", 0)

	require.NoError(t, s.SaveReport(ctx, want))

	got, err := s.LoadReport(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveReport_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveReport(ctx, testReport("run-1", 0)))

	changed := testReport("run-1", time.Hour)
	changed.BaseURL = "http://elsewhere.test"
	require.NoError(t, s.SaveReport(ctx, changed))

	got, err := s.LoadReport(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "http://catalog.test", got.BaseURL)
	assert.Len(t, got.Outcomes, 3)

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM violations").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestSaveReport_RequiresRunID(t *testing.T) {
	s := createTestStore(t)
	assert.Error(t, s.SaveReport(context.Background(), &harness.Report{}))
	assert.Error(t, s.SaveReport(context.Background(), nil))
}

func TestLoadReport_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.LoadReport(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestLoadReport_EmptyRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	r := &harness.Report{RunID: "empty", StartedAt: testutil.DefaultStart, FinishedAt: testutil.DefaultStart}
	require.NoError(t, s.SaveReport(ctx, r))

	got, err := s.LoadReport(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, got.Outcomes)
	assert.Equal(t, 0, got.Summary.Total)
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveReport(ctx, testReport("run-a", 0)))
	require.NoError(t, s.SaveReport(ctx, testReport("run-c", 2*time.Hour)))
	require.NoError(t, s.SaveReport(ctx, testReport("run-b", time.Hour)))

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-c", runs[0].RunID)
	assert.Equal(t, "run-b", runs[1].RunID)
	assert.Equal(t, "run-a", runs[2].RunID)

	assert.Equal(t, "local", runs[0].Suite)
	assert.Equal(t, testutil.DefaultStart.Add(2*time.Hour), runs[0].StartedAt)
	assert.Equal(t, harness.Summary{Total: 3, Pass: 1, KnownDefect: 1, Error: 1}, runs[0].Summary)

	runs, err = s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestListRuns_Empty(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestScenarioHistory(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first := testReport("run-1", 0)
	second := testReport("run-2", time.Hour)
	second.Outcomes[1].Status = harness.StatusFixed
	second.Outcomes[1].Violations = nil
	require.NoError(t, s.SaveReport(ctx, first))
	require.NoError(t, s.SaveReport(ctx, second))

	hist, err := s.ScenarioHistory(ctx, "sort-title-asc", 10)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, ScenarioResult{
		RunID:      "run-2",
		StartedAt:  testutil.DefaultStart.Add(time.Hour),
		Status:     harness.StatusFixed,
		Violations: 0,
	}, hist[0])
	assert.Equal(t, harness.StatusKnownDefect, hist[1].Status)
	assert.Equal(t, 2, hist[1].Violations)

	hist, err = s.ScenarioHistory(ctx, "no-such-scenario", 10)
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestDeleteRun_Cascades(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveReport(ctx, testReport("run-1", 0)))
	require.NoError(t, s.DeleteRun(ctx, "run-1"))
	require.NoError(t, s.DeleteRun(ctx, "run-1"))

	for _, table := range []string{"runs", "outcomes", "violations"} {
		var count int
		require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&count))
		assert.Zero(t, count, table)
	}
}

func TestMarshalCalls(t *testing.T) {
	data, err := marshalCalls([]harness.Call{{Method: "GET", Path: "/products", Query: "a=1&b=<2>", Status: 200}})
	require.NoError(t, err)
	assert.Equal(t, `[{"method":"GET","path":"/products","query":"a=1&b=<2>","status":200}]`, data)

	data, err = marshalCalls(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", data)

	calls, err := unmarshalCalls("[]")
	require.NoError(t, err)
	assert.Nil(t, calls)

	_, err = unmarshalCalls("{")
	assert.Error(t, err)
}
