package main

import (
	"os"

	"github.com/spf13/cobra"

	"metacache/internal/logger"
)

// rootCmd represents the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "metacache",
	Short: "A memcached meta-text-protocol client CLI",
	Long: `metacache talks the memcached meta text protocol (mg/ms/md, VA/HD/NS/EX/NF)
directly, without a classic-protocol fallback. Use get/set/del for one-shot
commands, shell for an interactive session, or bench for a meta-set
round-trip throughput test.`,
}

func init() {
	rootCmd.PersistentFlags().String("addr", "127.0.0.1:11211", "server address (host:port)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cobra.OnInitialize(initLogger)
}

func initLogger() {
	level := logger.LogLevel(getStringFlag(rootCmd, "log-level", "info"))
	logger.Init(level)
}

// Execute runs the root command, exiting the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Errorf("metacache: %v", err)
		os.Exit(1)
	}
}

func getStringFlag(cmd *cobra.Command, name, fallback string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil || v == "" {
		return fallback
	}
	return v
}

func getIntFlag(cmd *cobra.Command, name string, fallback int) int {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return fallback
	}
	return v
}
