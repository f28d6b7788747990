package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/proplens/scout/internal/contracts"
	"github.com/proplens/scout/internal/profile"
)

// Shared rendering helpers so every command prints the same way.

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	return t
}

// loadProfile reads the profile file, or returns an all-defaults
// profile when no path was given. Warnings come back as printable
// strings.
func loadProfile(path string) (*profile.CustomerProfile, []string, error) {
	if path == "" {
		return &profile.CustomerProfile{}, nil, nil
	}

	p, err := profile.Load(path)
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	for _, w := range profile.Warn(p) {
		warnings = append(warnings, w.String())
	}
	return p, warnings, nil
}

// renderTraining prints the per-target training outcome
func renderTraining(report *contracts.TrainReport) {
	t := newTable()
	t.AppendHeader(table.Row{"Target", "Status", "Features", "R²", "MSE", "Rows"})

	for _, target := range contracts.AllTargets() {
		state := report.States[target]
		status := "trained"
		if !state.Trained {
			status = "skipped: " + state.Reason
		}

		r2, mse, rows := "-", "-", "-"
		if eval, ok := report.Evaluations[target]; ok {
			r2 = fmt.Sprintf("%.3f", eval.R2)
			mse = fmt.Sprintf("%.4f", eval.MSE)
			rows = fmt.Sprintf("%d/%d", eval.TrainRows, eval.TestRows)
			if !eval.Holdout {
				rows += " (no holdout)"
			}
		}
		t.AppendRow(table.Row{string(target), status, state.FeatureCount, r2, mse, rows})
	}
	t.Render()
}

// renderShortlist prints the ranked entries with their reasons
func renderShortlist(s *contracts.Shortlist) {
	if len(s.Entries) == 0 {
		fmt.Println("No suburbs to show.")
		printRunSummary(s)
		return
	}

	t := newTable()
	t.AppendHeader(table.Row{"#", "Suburb", "State", "Overall", "Growth", "Yield", "Risk", "Confidence", "Why"})
	for _, e := range s.Entries {
		t.AppendRow(table.Row{
			e.Rank, e.Suburb, e.State,
			fmt.Sprintf("%.3f", e.OverallScore),
			fmt.Sprintf("%.3f", e.GrowthScore),
			fmt.Sprintf("%.3f", e.YieldScore),
			fmt.Sprintf("%.3f", e.RiskScore),
			e.Confidence,
			strings.Join(e.Reasons, "; "),
		})
	}
	t.Render()

	printRunSummary(s)
}

// renderScores prints the full scored set, best first, without the
// shortlist's filters or truncation.
func renderScores(scored []contracts.ScoredSuburb) {
	if len(scored) == 0 {
		fmt.Println("No suburbs to show.")
		return
	}

	ordered := make([]contracts.ScoredSuburb, len(scored))
	copy(ordered, scored)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].OverallScore != ordered[j].OverallScore {
			return ordered[i].OverallScore > ordered[j].OverallScore
		}
		if ordered[i].Suburb != ordered[j].Suburb {
			return ordered[i].Suburb < ordered[j].Suburb
		}
		return ordered[i].State < ordered[j].State
	})

	t := newTable()
	t.AppendHeader(table.Row{"Suburb", "State", "Overall", "Growth", "Yield", "Risk", "Confidence"})
	for _, e := range ordered {
		t.AppendRow(table.Row{
			e.Suburb, e.State,
			fmt.Sprintf("%.3f", e.OverallScore),
			fmt.Sprintf("%.3f", e.GrowthScore),
			fmt.Sprintf("%.3f", e.YieldScore),
			fmt.Sprintf("%.3f", e.RiskScore),
			e.Confidence,
		})
	}
	t.Render()
	fmt.Printf("%d suburbs scored\n", len(ordered))
}

// renderDetails prints the narrative lines under the shortlist table.
func renderDetails(entries []contracts.ScoredSuburb) {
	printed := false
	for _, e := range entries {
		if len(e.Narratives) == 0 {
			continue
		}
		if !printed {
			fmt.Println("\nDetails:")
			printed = true
		}
		fmt.Printf("  %d. %s, %s\n", e.Rank, e.Suburb, e.State)
		for _, line := range e.Narratives {
			fmt.Printf("     - %s\n", line)
		}
	}
}

func printRunSummary(s *contracts.Shortlist) {
	line := fmt.Sprintf("Run %s: %d scored, %d shortlisted", s.RunID, s.TotalScored, len(s.Entries))
	if len(s.Filtered) > 0 {
		names := make([]string, 0, len(s.Filtered))
		for name := range s.Filtered {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = fmt.Sprintf("%s=%d", name, s.Filtered[name])
		}
		line += ", filtered " + strings.Join(parts, " ")
	}
	fmt.Println(line)
}

// renderImportances prints one target's feature weights, largest first
func renderImportances(target contracts.Target, importances map[string]float64) {
	fmt.Printf("%s model\n", target)
	if len(importances) == 0 {
		fmt.Println("  (not trained)")
		return
	}

	type fw struct {
		feature string
		weight  float64
	}
	ranked := make([]fw, 0, len(importances))
	for f, w := range importances {
		ranked = append(ranked, fw{f, w})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].weight != ranked[j].weight {
			return ranked[i].weight > ranked[j].weight
		}
		return ranked[i].feature < ranked[j].feature
	})

	t := newTable()
	t.AppendHeader(table.Row{"Feature", "Weight"})
	for _, r := range ranked {
		t.AppendRow(table.Row{r.feature, fmt.Sprintf("%.4f", r.weight)})
	}
	t.Render()
}
