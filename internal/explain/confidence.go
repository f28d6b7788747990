package explain

import "github.com/proplens/scout/internal/dataset"

// Confidence labels.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// Confidence labels the agreement between the three sub-scores. The
// spread of {growth, yield, 1-risk} is what is measured: when all
// three point the same way the label is High. This is sub-score
// consistency, not statistical confidence.
func Confidence(growth, yield, risk float64) string {
	spread := dataset.PopulationStd([]float64{growth, yield, 1 - risk})
	switch {
	case spread < 0.2:
		return ConfidenceHigh
	case spread < 0.4:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
