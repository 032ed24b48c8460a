package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/catalogcheck/internal/harness"
	"github.com/roach88/catalogcheck/internal/store"
)

// HistoryOptions holds flags shared by the history commands.
type HistoryOptions struct {
	*RootOptions
	DB       string
	Limit    int
	Scenario string
}

// NewHistoryCommand creates the history command and its subcommands.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List runs recorded with "run --record", newest first.

With --scenario, list the past outcomes of one scenario instead.

Examples:
  catalogcheck history --db history.db
  catalogcheck history --db history.db --scenario sort-title-asc
  catalogcheck history show <run-id> --db history.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistory(opts, cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "history database (default: the configured record path)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum rows to list (0 for all)")
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "list the history of one scenario")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showRun(opts, cmd, args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteRun(opts, cmd, args[0])
		},
	})

	return cmd
}

// openHistory opens the database named by --db, falling back to the
// configured record path.
func openHistory(opts *HistoryOptions, cmd *cobra.Command) (*store.Store, error) {
	path := opts.DB
	if path == "" {
		cfg, err := loadConfig(opts.RootOptions, cmd)
		if err != nil {
			return nil, err
		}
		path = cfg.Record
	}
	if path == "" {
		return nil, storeError("--db is required", nil)
	}

	st, err := store.Open(path)
	if err != nil {
		return nil, storeError("failed to open history", err)
	}
	return st, nil
}

func listHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)
	st, err := openHistory(opts, cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	if opts.Scenario != "" {
		results, err := st.ScenarioHistory(cmd.Context(), opts.Scenario, opts.Limit)
		if err != nil {
			return storeError("failed to read history", err)
		}
		if out.JSON() {
			return out.Success(results)
		}
		w := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintf(w, "No recorded outcomes for %s.\n", opts.Scenario)
			return nil
		}
		for _, r := range results {
			fmt.Fprintf(w, "%s  %s  %-12s %d violations\n", r.RunID, r.StartedAt.Format(time.RFC3339), r.Status, r.Violations)
		}
		return nil
	}

	runs, err := st.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		return storeError("failed to read history", err)
	}
	if out.JSON() {
		return out.Success(runs)
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No recorded runs.")
		return nil
	}
	for _, r := range runs {
		s := r.Summary
		fmt.Fprintf(w, "%s  %s  %s  %d scenarios: %d pass, %d fail, %d heuristic, %d known-defect, %d fixed, %d error\n",
			r.RunID, r.StartedAt.Format(time.RFC3339), r.BaseURL,
			s.Total, s.Pass, s.Fail, s.Heuristic, s.KnownDefect, s.Fixed, s.Error)
	}
	return nil
}

func showRun(opts *HistoryOptions, cmd *cobra.Command, runID string) error {
	out := newFormatter(opts.RootOptions, cmd)
	st, err := openHistory(opts, cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	report, err := st.LoadReport(cmd.Context(), runID)
	if errors.Is(err, sql.ErrNoRows) {
		return storeError(fmt.Sprintf("run %s not found", runID), nil)
	}
	if err != nil {
		return storeError("failed to read history", err)
	}

	if out.JSON() {
		return out.SuccessRun(report.RunID, report)
	}
	return harness.RenderText(cmd.OutOrStdout(), report, opts.Verbose)
}

func deleteRun(opts *HistoryOptions, cmd *cobra.Command, runID string) error {
	out := newFormatter(opts.RootOptions, cmd)
	st, err := openHistory(opts, cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteRun(cmd.Context(), runID); err != nil {
		return storeError("failed to delete run", err)
	}
	return out.Success(fmt.Sprintf("deleted run %s", runID))
}
