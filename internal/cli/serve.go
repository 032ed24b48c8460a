package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/catalogcheck/internal/fakecatalog"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reference catalog",
		Long: `Serve an in-memory catalog implementing the same endpoints as the
public service, seeded with deterministic products.

With --sort-defect the server ignores sortBy, reproducing the known
sorting defect of the public service.

Examples:
  catalogcheck serve
  catalogcheck serve --addr :9000 --sort-defect`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(rootOpts, cmd)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default 127.0.0.1:8080)")
	cmd.Flags().Bool("sort-defect", false, "ignore sortBy like the public service")
	cmd.Flags().String("locale", "", "collation locale for sortBy (default en)")

	return cmd
}

func serve(opts *RootOptions, cmd *cobra.Command) error {
	logger := newLogger(opts, cmd.ErrOrStderr())

	cfg, err := loadConfig(opts, cmd)
	if err != nil {
		return err
	}
	tag, err := cfg.Tag()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid config", err)
	}

	srv := fakecatalog.New(fakecatalog.Options{
		SortDefect: cfg.Serve.SortDefect,
		Logger:     logger,
		Locale:     tag,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "serving %d products on %s\n", srv.Total(), cfg.Serve.Addr)
	if err := fakecatalog.ListenAndServe(ctx, cfg.Serve.Addr, srv); err != nil {
		return WrapExitError(ExitCommandError, "serve failed", err)
	}
	return nil
}
