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

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score suburbs and print the shortlist",
	Long: `Trains the growth, yield and risk models against the customer
profile and prints the ranked shortlist with reasons.

The metrics table is a CSV with Suburb and State columns plus numeric
metric columns. The profile is a YAML file; omit it to score with
neutral defaults. Pass --all to print every scored suburb instead of
the filtered shortlist.

Example:
  go run ./cmd/scout score --table suburbs.csv --profile customer.yaml
  go run ./cmd/scout score --table suburbs.csv --top 5 --json
  go run ./cmd/scout score --table suburbs.csv --all`,
	RunE: runScore,
}

var (
	scoreTablePath   string
	scoreProfilePath string
	scoreTopN        int
	scoreAll         bool
	scoreJSON        bool
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scoreTablePath, "table", "", "suburb metrics CSV file (required)")
	scoreCmd.Flags().StringVar(&scoreProfilePath, "profile", "", "customer profile YAML file")
	scoreCmd.Flags().IntVar(&scoreTopN, "top", 10, "shortlist size")
	scoreCmd.Flags().BoolVar(&scoreAll, "all", false, "print every scored suburb, unfiltered")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "emit JSON instead of tables")
	scoreCmd.MarkFlagRequired("table")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg := cliConfig()
	log := logger.New(cfg)

	table, err := dataset.LoadCSV(scoreTablePath)
	if err != nil {
		return fmt.Errorf("load table: %w", err)
	}

	p, warnings, err := loadProfile(scoreProfilePath)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	engine := scoring.NewEngine(scoring.DefaultConfig(), log)

	ctx := context.Background()
	report, err := engine.Train(ctx, table, p)
	if err != nil {
		return fmt.Errorf("train models: %w", err)
	}

	var shortlist *contracts.Shortlist
	var all []contracts.ScoredSuburb
	if scoreAll {
		if all, err = engine.Predict(ctx, table, p); err != nil {
			return fmt.Errorf("score suburbs: %w", err)
		}
	} else {
		if shortlist, err = engine.Shortlist(ctx, table, p, scoreTopN); err != nil {
			return fmt.Errorf("build shortlist: %w", err)
		}
	}

	if scoreJSON {
		out := map[string]interface{}{
			"training": report,
			"warnings": warnings,
		}
		if scoreAll {
			out["count"] = len(all)
			out["scores"] = all
		} else {
			out["shortlist"] = shortlist
		}
		return printJSON(out)
	}

	purpose := p.Purpose()
	weights := scoring.WeightsFor(purpose)

	fmt.Println("=== Scout Suburb Scoring ===")
	fmt.Printf("Table   : %s (%d suburbs)\n", scoreTablePath, table.Len())
	fmt.Printf("Purpose : %s\n", purpose)
	fmt.Printf("Weights : growth %.1f / yield %.1f / risk %.1f\n",
		weights.Growth, weights.Yield, weights.Risk)
	for _, w := range warnings {
		fmt.Printf("Warning : %s\n", w)
	}

	fmt.Println()
	renderTraining(report)

	if !report.Trained {
		fmt.Println("\nNot every model trained; no scores were produced.")
		return nil
	}

	fmt.Println()
	if scoreAll {
		renderScores(all)
		return nil
	}

	renderShortlist(shortlist)
	renderDetails(shortlist.Entries)
	return nil
}
