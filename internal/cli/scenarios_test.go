package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_Text(t *testing.T) {
	out, err := execute(t, "scenarios")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 24)
	assert.True(t, strings.HasPrefix(lines[0], "format     products-envelope"))
	assert.Contains(t, out, "sort-title-asc")
	assert.Contains(t, out, "[known defect]")
}

func TestScenarios_JSONWithSuite(t *testing.T) {
	suite := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(suite, []byte(`
include: ["sort-*"]
known_defects:
  sort-title-desc: false
`), 0o644))

	out, err := execute(t, "scenarios", "--suite", suite, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data []ScenarioInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "sort-title-asc", resp.Data[0].Name)
	assert.True(t, resp.Data[0].KnownDefect)
	assert.False(t, resp.Data[1].KnownDefect)
}

func TestScenarios_BadSuite(t *testing.T) {
	suite := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(suite, []byte("known_defects:\n  typo: true\n"), 0o644))

	_, err := execute(t, "scenarios", "--suite", suite)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
