package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/proplens/scout/internal/contracts"
	"github.com/proplens/scout/internal/dataset"
	"github.com/proplens/scout/internal/features"
	"github.com/proplens/scout/internal/profile"
	"github.com/proplens/scout/internal/scoring"
	"github.com/proplens/scout/pkg/logger"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a metrics table before scoring",
	Long: `Runs feature engineering over the table and reports what scoring
would have to repair or skip: dropped rows, imputed cells, and whether
each model reaches its feature floor.

Example:
  go run ./cmd/scout check --table suburbs.csv`,
	RunE: runCheck,
}

var (
	checkTablePath string
	checkJSON      bool
)

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkTablePath, "table", "", "suburb metrics CSV file (required)")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "emit JSON instead of tables")
	checkCmd.MarkFlagRequired("table")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := cliConfig()
	log := logger.New(cfg)

	raw, err := dataset.LoadCSV(checkTablePath)
	if err != nil {
		return fmt.Errorf("load table: %w", err)
	}

	engineer := features.NewEngineer(log)
	engineered, quality := engineer.Run(raw, &profile.CustomerProfile{})
	featureSets := scoring.BuildFeatureSets(engineered)

	if checkJSON {
		return printJSON(map[string]interface{}{
			"quality":      quality,
			"feature_sets": featureSets,
		})
	}

	fmt.Println("=== Scout Data Check ===")
	fmt.Printf("Table   : %s\n", checkTablePath)
	fmt.Printf("Rows    : %d in, %d kept, %d dropped\n", quality.RowsIn, quality.RowsKept, quality.RowsDropped)
	fmt.Printf("Columns : %d numeric after engineering\n", len(engineered.NumericColumns()))

	if quality.TotalImputed() > 0 {
		fmt.Println()
		t := newTable()
		t.AppendHeader(table.Row{"Column", "Imputed cells"})
		for _, col := range quality.ImputedColumns() {
			t.AppendRow(table.Row{col, quality.ImputedCells[col]})
		}
		t.Render()
	}

	if len(quality.Issues) > 0 {
		fmt.Println()
		for _, issue := range quality.Issues {
			fmt.Printf("Issue: %s\n", issue)
		}
	}

	fmt.Println()
	t := newTable()
	t.AppendHeader(table.Row{"Target", "Features", "Floor met", "Columns"})
	for _, target := range contracts.AllTargets() {
		fs := featureSets[target]
		floorMet := "no"
		if fs.Usable() {
			floorMet = "yes"
		}
		t.AppendRow(table.Row{
			string(target), len(fs.Columns), floorMet, strings.Join(fs.Columns, ", "),
		})
	}
	t.Render()

	return nil
}
