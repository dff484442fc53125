package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "kestrel",
	Short: "Kestrel - log rotation and archival daemon for signal collection platforms",
	Long: `Kestrel manages the lifecycle of capture logs on field-deployed
signal collection units with constrained storage.

It provides:
  - Size-, age-, and free-space-triggered log rotation
  - Gzip compression of rotated artifacts
  - Background archival to local, syslog, or S3-compatible storage
  - Category-based retention with local and archive-tier sweeps
  - Prometheus metrics for rotation, compression, and archival activity`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "kestrel.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
