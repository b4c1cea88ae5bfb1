package services

import (
	"math"

	"hardware-distribution-backend/db/models"
)

const maxReportedErrors = 20

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AccuracyPercentage is validRows/totalRows as a percentage rounded to two
// decimals. An empty file scores zero.
func AccuracyPercentage(validRows, totalRows int) float64 {
	if totalRows <= 0 {
		return 0
	}
	return round2(float64(validRows) / float64(totalRows) * 100)
}

// QualityScore is the share of optional contact fields (contact person,
// phone, email) that were filled in across the imported stores.
func QualityScore(stores []models.HardwareStore) float64 {
	if len(stores) == 0 {
		return 0
	}
	filled := 0
	for _, s := range stores {
		for _, field := range []*string{s.ContactPerson, s.Phone, s.Email} {
			if field != nil && *field != "" {
				filled++
			}
		}
	}
	return round2(float64(filled) / float64(len(stores)*3) * 100)
}

// BuildPerformance turns a finished file into the summary the achievement
// engine consumes. Files that failed or had no data rows produce nothing.
func BuildPerformance(result FileResult, stores []models.HardwareStore, rowErrors []models.ImportRowError) *models.ImportPerformance {
	if result.Status != models.FileImportSuccess || result.TotalRows == 0 {
		return nil
	}

	errs := make([]string, 0, len(rowErrors))
	for _, rowErr := range rowErrors {
		if len(errs) == maxReportedErrors {
			break
		}
		errs = append(errs, rowErr.Reason)
	}

	return &models.ImportPerformance{
		AccuracyPercentage: AccuracyPercentage(result.ValidRows, result.TotalRows),
		ValidRows:          result.ValidRows,
		TotalRows:          result.TotalRows,
		ImportDuration:     round2(float64(result.DurationMs) / 1000),
		QualityScore:       QualityScore(stores),
		ErrorsDetected:     errs,
	}
}
