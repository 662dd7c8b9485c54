package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"metacache/internal/shell"
)

func init() {
	rootCmd.AddCommand(shellCmd)
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive metacache shell",
	Long: `Interactive metacache shell, similar to redis-cli.

Examples:
  metacache shell
  metacache shell --addr 127.0.0.1:11211`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := dial(cmd)
		if err != nil {
			return err
		}
		defer client.Close()

		fmt.Println("metacache shell — type 'help', 'quit' to exit")
		return shell.Run(client, shell.Config{Prompt: "metacache> "})
	},
}
