package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coreassistant/planned/internal/logger"
	"github.com/coreassistant/planned/internal/planner"
	"github.com/coreassistant/planned/internal/render"
)

// NewShowCmd creates the show command, the default entry point: fetch
// everything and print the bucketed agenda to stdout.
func NewShowCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the agenda",
		Long:  "Fetch tasks and events from the configured sources and print them grouped by time bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, clk, log, err := bootstrap(debug)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync(log) }()

			ctx := cmd.Context()
			p, err := planner.New(ctx, cfg, clk, log)
			if err != nil {
				return err
			}

			buckets, err := p.Plan(ctx)
			if err != nil {
				return err
			}

			presenter, err := render.NewConsolePresenter(clk, os.Stdout, cfg.IndentStep)
			if err != nil {
				return err
			}
			if err := presenter.Present(buckets); err != nil {
				return fmt.Errorf("failed to render agenda: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	return cmd
}
