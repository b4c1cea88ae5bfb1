package models

// ImportPerformance summarises one imported file for the achievement engine.
// It is not persisted directly; ImportAccuracyMetrics keeps the audit copy.
type ImportPerformance struct {
	AccuracyPercentage float64  `json:"accuracyPercentage"`
	ValidRows          int      `json:"validRows"`
	TotalRows          int      `json:"totalRows"`
	ImportDuration     float64  `json:"importDuration"`
	QualityScore       float64  `json:"qualityScore"`
	ErrorsDetected     []string `json:"errorsDetected"`
}
