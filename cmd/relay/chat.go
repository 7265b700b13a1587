package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/relay/internal/cli"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation with an assistant",
	Long:  `Starts a conversation loop on stdin/stdout. Creates a fresh assistant from the action catalog unless --assistant or --session is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")
		assistantID, _ := cmd.Flags().GetString("assistant")
		sessionID, _ := cmd.Flags().GetString("session")
		name, _ := cmd.Flags().GetString("name")
		instructions, _ := cmd.Flags().GetString("instructions")
		quiet, _ := cmd.Flags().GetBool("quiet")

		ctx, cancel := cli.NewSignalContext(context.Background())
		defer cancel()

		err := cli.RunChat(ctx, cli.ChatOptions{
			ConfigPath:   configPath,
			AssistantID:  assistantID,
			SessionID:    sessionID,
			Name:         name,
			Instructions: instructions,
			Debug:        debug,
			Quiet:        quiet,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("assistant", "a", "", "Existing assistant id to attach to")
	chatCmd.Flags().StringP("session", "s", "", "Existing session id to resume")
	chatCmd.Flags().String("name", "", "Name for a newly created assistant")
	chatCmd.Flags().String("instructions", "", "Instructions for a newly created assistant")
	chatCmd.Flags().BoolP("quiet", "q", false, "Suppress banner and system messages")
}
