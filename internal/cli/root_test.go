package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/catalogcheck/internal/fakecatalog"
)

// execute runs the root command with args and returns stdout and the error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

// startCatalog serves the reference catalog for the test and returns its URL.
func startCatalog(t *testing.T, opts fakecatalog.Options) string {
	t.Helper()
	ts := httptest.NewServer(fakecatalog.New(opts))
	t.Cleanup(ts.Close)
	return ts.URL
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "catalogcheck", cmd.Use)
	assert.Contains(t, cmd.Long, "pagination")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{{"run"}, {"scenarios"}, {"serve"}, {"history"}, {"history", "show"}, {"history", "delete"}, {"schema"}}

	for _, path := range commands {
		t.Run(path[len(path)-1], func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestRunCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	runCmd, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)

	for _, name := range []string{"base-url", "suite", "filter", "exclude", "parallel", "strict", "record", "timeout", "locale"} {
		assert.NotNil(t, runCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "1", runCmd.Flags().Lookup("parallel").DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "scenarios", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.False(t, isValidFormat("yaml"))
	assert.False(t, isValidFormat(""))
}

func TestExecute_JSONCommandError(t *testing.T) {
	url := startCatalog(t, fakecatalog.Options{})
	var stdout, stderr bytes.Buffer

	code := Execute([]string{"--format", "json", "run", "--base-url", url, "--filter", "nothing-*"}, &stdout, &stderr)
	assert.Equal(t, ExitCommandError, code)
	assert.Empty(t, stderr.String())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeSuite, resp.Error.Code)
	assert.Equal(t, "no scenarios selected", resp.Error.Message)
}

func TestExecute_TextCommandError(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := Execute([]string{"history"}, &stdout, &stderr)
	assert.Equal(t, ExitCommandError, code)
	assert.Empty(t, stdout.String())
	assert.Equal(t, "Error [E003]: --db is required\n", stderr.String())

	stderr.Reset()
	code = Execute([]string{"run", "--no-such-flag"}, &stdout, &stderr)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr.String(), "Error [E001]: unknown flag")
}

func TestExecute_CheckFailure(t *testing.T) {
	url := startCatalog(t, fakecatalog.Options{})
	var stdout, stderr bytes.Buffer

	code := Execute([]string{"run", "--base-url", url, "--filter", "sort-title-asc", "--strict"}, &stdout, &stderr)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout.String(), "sort-title-asc")
	assert.Contains(t, stderr.String(), "Error: run ")
}
