package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coreassistant/planned/internal/logger"
	"github.com/coreassistant/planned/internal/model"
	"github.com/coreassistant/planned/internal/planner"
)

func kindLabel(kind model.ListKind) string {
	switch kind {
	case model.ListKindCalendar:
		return "calendar"
	case model.ListKindTaskList:
		return "task list"
	case model.ListKindTodoistProject:
		return "todoist project"
	case model.ListKindTodoistFilter:
		return "todoist filter"
	default:
		return string(kind)
	}
}

// NewSourcesCmd creates the sources command: list every container the
// active sources expose, after the ignore filter.
func NewSourcesCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the configured containers",
		Long:  "List the task lists, calendars and projects visible with the current configuration",
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

			lists, err := p.Containers(ctx)
			if err != nil {
				return err
			}
			if len(lists) == 0 {
				fmt.Println("No containers found")
				return nil
			}

			for _, list := range lists {
				fmt.Printf("  - %s (%s, id %s)\n", list.Name, kindLabel(list.Kind), list.ID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	return cmd
}
