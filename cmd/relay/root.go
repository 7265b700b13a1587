package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "Relay bridges assistant runs to HTTP action providers",
	Long:  `Relay translates an action provider's OpenAPI catalog into assistant tools, then drives assistant runs and executes the tool calls they request.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "relay.yaml", "Path to the config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
