package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/relay/internal/cli"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <dir>",
	Short: "Embed local markdown documents into a searchable index",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")
		out, _ := cmd.Flags().GetString("out")

		ctx, cancel := cli.NewSignalContext(context.Background())
		defer cancel()

		err := cli.RunIngest(ctx, cli.IngestOptions{
			ConfigPath: configPath,
			Dir:        args[0],
			OutPath:    out,
			Debug:      debug,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Search a previously built index",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")
		index, _ := cmd.Flags().GetString("index")
		topK, _ := cmd.Flags().GetInt("top")

		ctx, cancel := cli.NewSignalContext(context.Background())
		defer cancel()

		err := cli.RunQuery(ctx, cli.IngestOptions{
			ConfigPath: configPath,
			Query:      args[0],
			OutPath:    index,
			TopK:       topK,
			Debug:      debug,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringP("out", "o", "relay-index.json", "Path for the index file")

	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().String("index", "relay-index.json", "Path of the index file")
	queryCmd.Flags().Int("top", 3, "Number of results to return")
}
