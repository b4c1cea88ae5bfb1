package services

import (
	"fmt"

	"hardware-distribution-backend/db/models"
)

// GenerateSuggestions returns improvement hints for one import.
func GenerateSuggestions(perf models.ImportPerformance) []string {
	suggestions := []string{}

	if perf.AccuracyPercentage < 90 {
		skipped := perf.TotalRows - perf.ValidRows
		suggestions = append(suggestions,
			fmt.Sprintf("%d of %d rows were skipped. Make sure every row has a store name in the first column.", skipped, perf.TotalRows))
	}
	if len(perf.ErrorsDetected) > 0 {
		suggestions = append(suggestions,
			fmt.Sprintf("%d rows could not be saved. Check for duplicate stores and invalid values before re-importing.", len(perf.ErrorsDetected)))
	}
	if perf.ImportDuration > 60 {
		suggestions = append(suggestions, "Large files import faster when split into several smaller files.")
	}
	if perf.QualityScore < 90 {
		suggestions = append(suggestions, "Fill in contact person, phone and email for each store to raise the data quality score.")
	}
	return suggestions
}
