package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/relay/internal/cli"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "Inspect the configured action provider",
}

var actionsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the action provider credential",
	Run: func(cmd *cobra.Command, args []string) {
		runActions(cmd, cli.RunActionsCheck)
	},
}

var actionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the actions exposed by the provider",
	Run: func(cmd *cobra.Command, args []string) {
		runActions(cmd, cli.RunActionsList)
	},
}

var actionsToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Show the tool definitions translated from the catalog",
	Run: func(cmd *cobra.Command, args []string) {
		runActions(cmd, cli.RunActionsTools)
	},
}

func runActions(cmd *cobra.Command, fn func(context.Context, cli.ActionsOptions) error) {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	jsonOut, _ := cmd.Flags().GetBool("json")

	ctx, cancel := cli.NewSignalContext(context.Background())
	defer cancel()

	if err := fn(ctx, cli.ActionsOptions{ConfigPath: configPath, Debug: debug, JSON: jsonOut}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(actionsCmd)
	actionsCmd.AddCommand(actionsCheckCmd)
	actionsCmd.AddCommand(actionsListCmd)
	actionsCmd.AddCommand(actionsToolsCmd)
	actionsCmd.PersistentFlags().Bool("json", false, "Output machine-readable JSON")
}
