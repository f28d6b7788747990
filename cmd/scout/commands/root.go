package commands

import (
	"github.com/spf13/cobra"

	"github.com/proplens/scout/pkg/config"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "Scout - suburb investment scoring and recommendations",
	Long: `Scout scores suburbs for property investment.

Suburb metrics run through feature engineering, three random forest
models (growth, yield, risk) train against the customer profile, and
the composite scores come back as a ranked, explained shortlist.

Usage:
  go run ./cmd/scout [command]

Examples:
  go run ./cmd/scout score --table suburbs.csv --profile customer.yaml
  go run ./cmd/scout check --table suburbs.csv
  go run ./cmd/scout importance --table suburbs.csv --target growth
  go run ./cmd/scout api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// cliConfig builds the configuration for file-driven commands, which
// run without DATABASE_URL. The api command uses config.Load instead.
func cliConfig() *config.Config {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "warn",
		LogFormat: "console",
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg
}
