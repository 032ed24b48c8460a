package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/roach88/catalogcheck/internal/client"
	"github.com/roach88/catalogcheck/internal/harness"
	"github.com/roach88/catalogcheck/internal/ordering"
	"github.com/roach88/catalogcheck/internal/store"
)

// RunOptions holds flags for the run command that are not configuration.
type RunOptions struct {
	*RootOptions
	Filter  []string // include glob patterns
	Exclude []string // exclude glob patterns
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the contract suite against a catalog",
		Long: `Run the contract suite against a catalog API.

Every scenario issues its requests, validates the responses and is
classified as pass, fail, heuristic, known-defect, fixed or error.

Exit codes:
  0 - No scenario failed
  1 - A scenario failed or errored (with --strict, also heuristic or fixed)
  2 - Command error (bad config, unreadable suite file, etc.)

Examples:
  catalogcheck run
  catalogcheck run --base-url http://127.0.0.1:8080 --parallel 4
  catalogcheck run --filter "*-envelope" --filter "limit-*"
  catalogcheck run --suite staging.yaml --strict --record history.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(opts, cmd)
		},
	}

	cmd.Flags().String("base-url", "", "catalog API root (default https://dummyjson.com)")
	cmd.Flags().String("suite", "", "suite file overriding params, filters and known defects")
	cmd.Flags().StringSliceVar(&opts.Filter, "filter", nil, "run only scenarios matching these glob patterns")
	cmd.Flags().StringSliceVar(&opts.Exclude, "exclude", nil, "skip scenarios matching these glob patterns")
	cmd.Flags().Int("parallel", 1, "scenarios run at once")
	cmd.Flags().Bool("strict", false, "fail on heuristic mismatches and fixed known defects")
	cmd.Flags().String("record", "", "record the report in this SQLite database")
	cmd.Flags().Duration("timeout", 0, "per-request timeout (default 15s)")
	cmd.Flags().String("locale", "", "collation locale for sort checks (default en)")

	return cmd
}

func runSuite(opts *RunOptions, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	cfg, err := loadConfig(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid config", err)
	}

	sf := &harness.SuiteFile{Params: harness.DefaultParams()}
	if cfg.Suite != "" {
		if sf, err = harness.LoadSuite(cfg.Suite); err != nil {
			return suiteError("failed to load suite", err)
		}
	}
	scenarios, err := sf.Scenarios()
	if err != nil {
		return suiteError("invalid suite", err)
	}
	if scenarios, err = harness.Select(scenarios, opts.Filter, opts.Exclude); err != nil {
		return suiteError("invalid filter", err)
	}
	if len(scenarios) == 0 {
		return suiteError("no scenarios selected", nil)
	}

	c, err := client.New(cfg.BaseURL,
		client.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		client.WithLogger(logger),
	)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid base url", err)
	}
	tag, _ := cfg.Tag() // validated above

	runner := &harness.Runner{
		Client:   c,
		Order:    ordering.New(tag),
		Logger:   logger,
		Suite:    sf.Name,
		Parallel: cfg.Parallel,
	}
	out.VerboseLog("running %d scenarios against %s", len(scenarios), cfg.BaseURL)

	report, err := runner.Run(cmd.Context(), scenarios)
	if err != nil {
		return WrapExitError(ExitCommandError, "run failed", err)
	}

	if cfg.Record != "" {
		if err := record(cmd, cfg.Record, report); err != nil {
			return err
		}
		out.VerboseLog("recorded run %s in %s", report.RunID, cfg.Record)
	}

	if out.JSON() {
		if err := out.SuccessRun(report.RunID, report); err != nil {
			return err
		}
	} else if err := harness.RenderText(cmd.OutOrStdout(), report, opts.Verbose); err != nil {
		return err
	}

	if report.Failed(cfg.Strict) {
		s := report.Summary
		return NewExitError(ExitFailure, fmt.Sprintf("run %s failed: %d fail, %d error, %d heuristic, %d fixed",
			report.RunID, s.Fail, s.Error, s.Heuristic, s.Fixed))
	}
	return nil
}

// record saves report in the history database at path.
func record(cmd *cobra.Command, path string, report *harness.Report) error {
	st, err := store.Open(path)
	if err != nil {
		return storeError("failed to open history", err)
	}
	defer st.Close()

	if err := st.SaveReport(cmd.Context(), report); err != nil {
		return storeError("failed to record run", err)
	}
	return nil
}
