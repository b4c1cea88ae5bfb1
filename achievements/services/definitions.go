package services

import "hardware-distribution-backend/db/models"

// Criterion is the single threshold an achievement is unlocked by.
type Criterion struct {
	Metric        string  `json:"metric"`
	Threshold     float64 `json:"threshold"`
	LowerIsBetter bool    `json:"lowerIsBetter,omitempty"`
}

type AchievementDefinition struct {
	Type        models.AchievementType
	Level       int
	Name        string
	Description string
	Icon        string
	Points      int
	Criterion   Criterion
}

const (
	MetricBestAccuracy       = "best_accuracy"
	MetricTotalRecords       = "total_records_imported"
	MetricConsecutiveImports = "consecutive_successful_imports"
	MetricAverageImportTime  = "average_import_time"
	MetricQualityScore       = "quality_score"
)

// Definitions is the fixed catalogue of import achievements.
var Definitions = []AchievementDefinition{
	{Type: models.AccuracyAchievement, Level: 1, Name: "Accuracy Rookie", Description: "Reach 80% import accuracy", Icon: "target", Points: 50,
		Criterion: Criterion{Metric: MetricBestAccuracy, Threshold: 80}},
	{Type: models.AccuracyAchievement, Level: 3, Name: "Sharp Eye", Description: "Reach 95% import accuracy", Icon: "eye", Points: 150,
		Criterion: Criterion{Metric: MetricBestAccuracy, Threshold: 95}},
	{Type: models.AccuracyAchievement, Level: 5, Name: "Precision Master", Description: "Import a file with 100% accuracy", Icon: "crosshair", Points: 500,
		Criterion: Criterion{Metric: MetricBestAccuracy, Threshold: 100}},

	{Type: models.VolumeAchievement, Level: 1, Name: "Bulk Beginner", Description: "Import 500 records", Icon: "package", Points: 50,
		Criterion: Criterion{Metric: MetricTotalRecords, Threshold: 500}},
	{Type: models.VolumeAchievement, Level: 3, Name: "Volume Veteran", Description: "Import 5,000 records", Icon: "boxes", Points: 200,
		Criterion: Criterion{Metric: MetricTotalRecords, Threshold: 5000}},
	{Type: models.VolumeAchievement, Level: 5, Name: "Data Titan", Description: "Import 50,000 records", Icon: "database", Points: 500,
		Criterion: Criterion{Metric: MetricTotalRecords, Threshold: 50000}},

	{Type: models.StreakAchievement, Level: 3, Name: "Consistency Champion", Description: "Five imports in a row at 90% accuracy or better", Icon: "flame", Points: 250,
		Criterion: Criterion{Metric: MetricConsecutiveImports, Threshold: 5}},

	{Type: models.SpeedAchievement, Level: 2, Name: "Speed Demon", Description: "Average import time of 30 seconds or less", Icon: "zap", Points: 100,
		Criterion: Criterion{Metric: MetricAverageImportTime, Threshold: 30, LowerIsBetter: true}},

	{Type: models.QualityAchievement, Level: 4, Name: "Quality Guardian", Description: "Import data with a quality score of 95 or more", Icon: "shield", Points: 300,
		Criterion: Criterion{Metric: MetricQualityScore, Threshold: 95}},
}

// metricValue reads the value a criterion compares against from the
// progress row of the achievement's type.
func metricValue(metric string, p *models.UserAchievementProgress) float64 {
	switch metric {
	case MetricBestAccuracy:
		return p.BestAccuracy
	case MetricTotalRecords:
		return float64(p.TotalRecordsImported)
	case MetricConsecutiveImports:
		return float64(p.ConsecutiveSuccessfulImports)
	case MetricAverageImportTime:
		return p.AverageImportTime
	case MetricQualityScore:
		return p.CurrentProgress
	}
	return 0
}

// Met reports whether the progress row satisfies the criterion.
func (d AchievementDefinition) Met(p *models.UserAchievementProgress) bool {
	if p == nil || p.AchievementType != d.Type {
		return false
	}
	value := metricValue(d.Criterion.Metric, p)
	if d.Criterion.LowerIsBetter {
		// An average over zero imports is not a time.
		return p.TotalImports > 0 && value <= d.Criterion.Threshold
	}
	return value >= d.Criterion.Threshold
}

var typeMetric = map[models.AchievementType]string{
	models.AccuracyAchievement: MetricBestAccuracy,
	models.VolumeAchievement:   MetricTotalRecords,
	models.StreakAchievement:   MetricConsecutiveImports,
	models.SpeedAchievement:    MetricAverageImportTime,
	models.QualityAchievement:  MetricQualityScore,
}
