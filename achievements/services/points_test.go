package services

import (
	"fmt"
	"testing"

	"hardware-distribution-backend/db/models"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePoints(t *testing.T) {
	tests := []struct {
		name string
		perf models.ImportPerformance
		want int
	}{
		{"perfect small import", models.ImportPerformance{AccuracyPercentage: 100, ValidRows: 50, ImportDuration: 20, QualityScore: 98}, 200},
		{"bands add up", models.ImportPerformance{AccuracyPercentage: 95, ValidRows: 5000, ImportDuration: 45, QualityScore: 92}, 75 + 50 + 25 + 25},
		{"lower band edges", models.ImportPerformance{AccuracyPercentage: 80, ValidRows: 1000, ImportDuration: 60, QualityScore: 90}, 25 + 25 + 25 + 25},
		{"huge import", models.ImportPerformance{AccuracyPercentage: 90, ValidRows: 10000, ImportDuration: 30, QualityScore: 95}, 50 + 100 + 50 + 50},
		{"nothing earned", models.ImportPerformance{AccuracyPercentage: 79.99, ValidRows: 999, ImportDuration: 60.01, QualityScore: 89.9}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculatePoints(tt.perf))
		})
	}
}

func TestLevelForPoints(t *testing.T) {
	tests := []struct {
		points int
		want   string
	}{
		{0, "Bronze"},
		{499, "Bronze"},
		{500, "Silver"},
		{999, "Silver"},
		{1000, "Gold"},
		{2500, "Platinum"},
		{4999, "Platinum"},
		{5000, "Diamond"},
		{120000, "Diamond"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForPoints(tt.points).Name, "points=%d", tt.points)
	}
}

func TestNextLevelAt(t *testing.T) {
	next := NextLevelAt(0)
	if assert.NotNil(t, next) {
		assert.Equal(t, 500, *next)
	}
	next = NextLevelAt(2500)
	if assert.NotNil(t, next) {
		assert.Equal(t, 5000, *next)
	}
	assert.Nil(t, NextLevelAt(5000))
}

func TestApplyLadder(t *testing.T) {
	tests := []struct {
		name       string
		progress   models.UserAchievementProgress
		wantLevel  int
		wantTarget float64
	}{
		{"no accuracy yet", models.UserAchievementProgress{AchievementType: models.AccuracyAchievement}, 1, 80},
		{"accuracy 96", models.UserAchievementProgress{AchievementType: models.AccuracyAchievement, BestAccuracy: 96, TotalImports: 1}, 3, 98},
		{"volume above top rung", models.UserAchievementProgress{AchievementType: models.VolumeAchievement, TotalRecordsImported: 60000, TotalImports: 9}, 5, 50000},
		{"speed without imports", models.UserAchievementProgress{AchievementType: models.SpeedAchievement}, 1, 120},
		{"speed 12s", models.UserAchievementProgress{AchievementType: models.SpeedAchievement, AverageImportTime: 12, TotalImports: 2}, 4, 10},
		{"streak of 4", models.UserAchievementProgress{AchievementType: models.StreakAchievement, ConsecutiveSuccessfulImports: 4, TotalImports: 4}, 1, 5},
		{"quality 85", models.UserAchievementProgress{AchievementType: models.QualityAchievement, CurrentProgress: 85, TotalImports: 1}, 2, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.progress
			applyLadder(&p)
			assert.Equal(t, tt.wantLevel, p.Level)
			assert.Equal(t, tt.wantTarget, p.TargetProgress)
		})
	}
}

func TestDefinitionsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range Definitions {
		key := fmt.Sprintf("%s/%d", d.Type, d.Level)
		assert.False(t, seen[key], "duplicate definition %s", key)
		seen[key] = true
		assert.GreaterOrEqual(t, d.Level, 1)
		assert.LessOrEqual(t, d.Level, 5)
		assert.Positive(t, d.Points)
	}
	assert.Len(t, Definitions, 9)
}

func TestGenerateSuggestions(t *testing.T) {
	assert.Empty(t, GenerateSuggestions(models.ImportPerformance{AccuracyPercentage: 100, TotalRows: 10, ValidRows: 10, ImportDuration: 5, QualityScore: 100}))

	s := GenerateSuggestions(models.ImportPerformance{AccuracyPercentage: 50, TotalRows: 10, ValidRows: 5, ImportDuration: 5, QualityScore: 100})
	if assert.Len(t, s, 1) {
		assert.Contains(t, s[0], "5 of 10 rows")
	}
}
