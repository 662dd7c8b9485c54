package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// buildVersion is the CLI binary's own version, independent of the
// server VERSION token a live connection reports.
const buildVersion = "0.1.0"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the metacache CLI version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("metacache %s (%s/%s)\n", buildVersion, runtime.GOOS, runtime.GOARCH)
	},
}
