package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/catalogcheck/internal/fakecatalog"
	"github.com/roach88/catalogcheck/internal/store"
)

// recordRun runs a filtered suite with --record and returns the run ID.
func recordRun(t *testing.T, url, db string) string {
	t.Helper()
	out, err := execute(t, "run", "--base-url", url, "--record", db, "--format", "json", "--filter", "sort-title-asc,products-envelope")
	require.NoError(t, err)

	var resp runResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotEmpty(t, resp.RunID)
	return resp.RunID
}

func TestHistory_RecordListShowDelete(t *testing.T) {
	url := startCatalog(t, fakecatalog.Options{SortDefect: true})
	db := filepath.Join(t.TempDir(), "history.db")

	first := recordRun(t, url, db)
	second := recordRun(t, url, db)

	out, err := execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, first)
	assert.Contains(t, out, second)
	assert.Contains(t, out, "2 scenarios: 1 pass, 0 fail, 0 heuristic, 1 known-defect, 0 fixed, 0 error")

	out, err = execute(t, "history", "show", first, "--db", db, "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "run "+first+" against "+url)
	assert.Contains(t, out, "  XFAIL sort-title-asc")
	assert.Contains(t, out, "ordering title: expected 30 values sorted asc")

	out, err = execute(t, "history", "--db", db, "--scenario", "sort-title-asc", "--format", "json")
	require.NoError(t, err)
	var resp struct {
		Data []store.ScenarioResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "known-defect", string(resp.Data[0].Status))
	assert.Equal(t, 1, resp.Data[0].Violations)

	_, err = execute(t, "history", "delete", first, "--db", db)
	require.NoError(t, err)

	_, err = execute(t, "history", "show", first, "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "not found")
}

func TestHistory_Empty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	out, err := execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No recorded runs.")

	out, err = execute(t, "history", "--db", db, "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":[]}`, out)
}

func TestHistory_RequiresDB(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := execute(t, "history")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "--db")
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(wd)) })
}
