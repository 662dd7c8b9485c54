package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"metacache/internal/bench"
)

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().Int("requests", 10000, "total number of requests")
	benchCmd.Flags().IntP("concurrency", "c", 50, "number of parallel connections")
	benchCmd.Flags().Int("value-size", 64, "size in bytes of the value used for each meta-set")
	benchCmd.Flags().Duration("timeout", 5*time.Second, "per-connection dial timeout")
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run a meta-set round-trip throughput benchmark",
	Long: `Run a meta-set throughput benchmark against a live server, similar in
spirit to redis-benchmark but scoped to the meta protocol's mset command.

Examples:
  metacache bench --addr 127.0.0.1:11211 --requests 50000 --concurrency 20`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		addr := getStringFlag(cmd, "addr", "127.0.0.1:11211")
		requests := getIntFlag(cmd, "requests", 10000)
		concurrency := getIntFlag(cmd, "concurrency", 50)
		valueSize := getIntFlag(cmd, "value-size", 64)
		timeout, err := cmd.Flags().GetDuration("timeout")
		if err != nil {
			timeout = 5 * time.Second
		}

		result, err := bench.Run(bench.Config{
			Addr:        addr,
			Requests:    requests,
			Concurrency: concurrency,
			ValueSize:   valueSize,
			Timeout:     timeout,
		})
		if err != nil {
			return err
		}

		fmt.Printf("requests: %d  errors: %d  duration: %s\n", result.Requests, result.Errors, result.Duration)
		fmt.Printf("throughput: %.1f req/s\n", result.Throughput)
		fmt.Printf("p50: %s  p95: %s  p99: %s\n", result.P50, result.P95, result.P99)
		return nil
	},
}
