package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/relay/internal/cli"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the action catalog as an MCP tool server",
	Long:  `Serves the translated action catalog over the Model Context Protocol, on stdio by default or over SSE with --sse-port.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")
		ssePort, _ := cmd.Flags().GetInt("sse-port")

		ctx, cancel := cli.NewSignalContext(context.Background())
		defer cancel()

		err := cli.RunMCP(ctx, cli.MCPOptions{
			ConfigPath: configPath,
			Debug:      debug,
			SSEPort:    ssePort,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().Int("sse-port", 0, "Serve over SSE on this port instead of stdio")
}
