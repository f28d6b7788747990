package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/proplens/scout/internal/contracts"
	"github.com/proplens/scout/internal/dataset"
	"github.com/proplens/scout/internal/scoring"
	"github.com/proplens/scout/pkg/logger"
)

// importanceCmd represents the importance command
var importanceCmd = &cobra.Command{
	Use:   "importance",
	Short: "Train and print per-model feature importances",
	Long: `Trains the models and prints which features each one leaned on,
largest weight first.

Example:
  go run ./cmd/scout importance --table suburbs.csv
  go run ./cmd/scout importance --table suburbs.csv --target growth`,
	RunE: runImportance,
}

var (
	importanceTablePath   string
	importanceProfilePath string
	importanceTarget      string
	importanceJSON        bool
)

func init() {
	rootCmd.AddCommand(importanceCmd)

	importanceCmd.Flags().StringVar(&importanceTablePath, "table", "", "suburb metrics CSV file (required)")
	importanceCmd.Flags().StringVar(&importanceProfilePath, "profile", "", "customer profile YAML file")
	importanceCmd.Flags().StringVar(&importanceTarget, "target", "", "limit to one model (growth|yield|risk)")
	importanceCmd.Flags().BoolVar(&importanceJSON, "json", false, "emit JSON instead of tables")
	importanceCmd.MarkFlagRequired("table")
}

func runImportance(cmd *cobra.Command, args []string) error {
	targets := contracts.AllTargets()
	if importanceTarget != "" {
		target := contracts.Target(importanceTarget)
		valid := false
		for _, t := range targets {
			if t == target {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown target %q (valid: growth, yield, risk)", importanceTarget)
		}
		targets = []contracts.Target{target}
	}

	cfg := cliConfig()
	log := logger.New(cfg)

	table, err := dataset.LoadCSV(importanceTablePath)
	if err != nil {
		return fmt.Errorf("load table: %w", err)
	}

	p, _, err := loadProfile(importanceProfilePath)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	engine := scoring.NewEngine(scoring.DefaultConfig(), log)
	report, err := engine.Train(context.Background(), table, p)
	if err != nil {
		return fmt.Errorf("train models: %w", err)
	}

	if importanceJSON {
		out := make(map[contracts.Target]map[string]float64, len(targets))
		for _, target := range targets {
			out[target] = engine.FeatureImportance(target)
		}
		return printJSON(out)
	}

	fmt.Println("=== Scout Feature Importance ===")
	for _, target := range targets {
		if state := report.States[target]; !state.Trained {
			fmt.Printf("\n%s model skipped: %s\n", target, state.Reason)
			continue
		}
		fmt.Println()
		renderImportances(target, engine.FeatureImportance(target))
	}

	return nil
}
