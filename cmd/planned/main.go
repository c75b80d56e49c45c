package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coreassistant/planned/cmd/planned/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "planned",
		Short: "Unified agenda for Google Tasks, Google Calendar and Todoist",
		Long:  "Fetches tasks and events from the configured sources and presents them grouped into time buckets",
	}

	rootCmd.AddCommand(commands.NewShowCmd())
	rootCmd.AddCommand(commands.NewSourcesCmd())
	rootCmd.AddCommand(commands.NewServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
