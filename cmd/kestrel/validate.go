package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sigwatch-hq/kestrel/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate a configuration file and report every violation.

Exits non-zero when the configuration is invalid.

Examples:
  kestrel validate --config kestrel.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(os.Stderr, "✗ %s is invalid:\n", cfgFile)
			for _, fe := range verr.Errors {
				fmt.Fprintf(os.Stderr, "  - %s\n", fe.Error())
			}
			os.Exit(1)
		}
		return err
	}

	fmt.Printf("✓ %s is valid\n", cfgFile)
	fmt.Printf("  policies: %d\n", len(cfg.Policies))
	fmt.Printf("  backends: %d\n", len(cfg.Backends))
	fmt.Printf("  managed files: %d\n", len(cfg.Files))
	return nil
}
