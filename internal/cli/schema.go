package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/catalogcheck/internal/contract"
)

// SchemaResult is the JSON payload of the schema command.
type SchemaResult struct {
	Definition string                `json:"definition"`
	File       string                `json:"file"`
	Valid      bool                  `json:"valid"`
	Violations []*contract.Violation `json:"violations,omitempty"`
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema <definition> <file>",
		Short: "Check a captured JSON body against a contract definition",
		Long: `Check a captured response body against one of the CUE contract
definitions. Use "-" as the file to read standard input.

Definitions: ` + strings.Join(contract.Definitions, ", ") + `

Exit codes:
  0 - The body satisfies the definition
  1 - The body violates the definition
  2 - Command error (unknown definition, unreadable file)

Examples:
  catalogcheck schema Product product.json
  curl -s https://dummyjson.com/products | catalogcheck schema ProductList -`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkSchema(rootOpts, cmd, args[0], args[1])
		},
	}
	return cmd
}

func checkSchema(opts *RootOptions, cmd *cobra.Command, def, file string) error {
	out := newFormatter(opts, cmd)

	var (
		body []byte
		err  error
	)
	if file == "-" {
		body, err = io.ReadAll(cmd.InOrStdin())
	} else {
		body, err = os.ReadFile(file)
	}
	if err != nil {
		return schemaError("failed to read body", err)
	}

	schema, err := contract.NewSchema()
	if err != nil {
		return schemaError("failed to compile contracts", err)
	}
	violations, err := schema.Check(def, body)
	if err != nil {
		return schemaError("schema check failed", err)
	}

	result := SchemaResult{Definition: def, File: file, Valid: len(violations) == 0, Violations: violations}
	if out.JSON() {
		if err := out.Success(result); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		if result.Valid {
			fmt.Fprintf(w, "%s: valid %s\n", file, def)
		}
		for _, v := range violations {
			fmt.Fprintf(w, "%s: %s\n", file, v)
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d schema violations", len(violations)))
	}
	return nil
}
