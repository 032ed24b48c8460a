package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/catalogcheck/internal/harness"
)

// ScenarioInfo describes one scenario in the listing.
type ScenarioInfo struct {
	Name        string        `json:"name"`
	Class       harness.Class `json:"class"`
	KnownDefect bool          `json:"known_defect,omitempty"`
	Description string        `json:"description"`
}

// NewScenariosCommand creates the scenarios command.
func NewScenariosCommand(rootOpts *RootOptions) *cobra.Command {
	var suite string

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List the scenarios a run would execute",
		Long: `List scenario names, classes and known defects.

With --suite the suite file's filters and known-defect overrides are
applied first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listScenarios(rootOpts, cmd, suite)
		},
	}

	cmd.Flags().StringVar(&suite, "suite", "", "suite file to apply")

	return cmd
}

func listScenarios(opts *RootOptions, cmd *cobra.Command, suite string) error {
	out := newFormatter(opts, cmd)

	sf := &harness.SuiteFile{Params: harness.DefaultParams()}
	if suite != "" {
		var err error
		if sf, err = harness.LoadSuite(suite); err != nil {
			return suiteError("failed to load suite", err)
		}
	}
	scenarios, err := sf.Scenarios()
	if err != nil {
		return suiteError("invalid suite", err)
	}

	infos := make([]ScenarioInfo, len(scenarios))
	for i, sc := range scenarios {
		infos[i] = ScenarioInfo{Name: sc.Name, Class: sc.Class, KnownDefect: sc.KnownDefect, Description: sc.Description}
	}
	if out.JSON() {
		return out.Success(infos)
	}

	w := cmd.OutOrStdout()
	for _, info := range infos {
		flag := ""
		if info.KnownDefect {
			flag = " [known defect]"
		}
		fmt.Fprintf(w, "%-10s %-32s %s%s\n", info.Class, info.Name, info.Description, flag)
	}
	return nil
}
