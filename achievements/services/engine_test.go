package services

import (
	"context"
	"encoding/json"
	"testing"

	"hardware-distribution-backend/db/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perfectImport() models.ImportPerformance {
	return models.ImportPerformance{
		AccuracyPercentage: 100,
		ValidRows:          50,
		TotalRows:          50,
		ImportDuration:     20,
		QualityScore:       98,
		ErrorsDetected:     []string{},
	}
}

func achievementNames(achievements []models.ImportAchievement) []string {
	names := make([]string, 0, len(achievements))
	for _, a := range achievements {
		names = append(names, a.Name)
	}
	return names
}

func TestRecordImportMetrics_FirstPerfectImport(t *testing.T) {
	userID := uuid.New()
	repo := newFakeAchievementRepo(userID)
	publisher := &recordingPublisher{}
	engine := NewAchievementEngine(repo, nil, publisher, nil)

	result, err := engine.RecordImportMetrics(context.Background(), userID, "session-1", "stores.xlsx", perfectImport())
	require.NoError(t, err)

	assert.Equal(t, 200, result.PointsEarned)
	assert.ElementsMatch(t, []string{
		"Accuracy Rookie", "Sharp Eye", "Precision Master", "Speed Demon", "Quality Guardian",
	}, achievementNames(result.NewAchievements))
	assert.Len(t, publisher.events, 5)
	for _, ev := range publisher.events {
		assert.Equal(t, EventAchievementUnlocked, ev.eventType)
		assert.Equal(t, userID, ev.userID)
	}

	require.Len(t, repo.metrics, 1)
	assert.Equal(t, 200, repo.metrics[0].PointsEarned)
	assert.Equal(t, "stores.xlsx", repo.metrics[0].FileName)
	assert.JSONEq(t, `[]`, string(repo.metrics[0].ErrorsDetected))

	accuracy := repo.progressOf(userID, models.AccuracyAchievement)
	assert.Equal(t, 1, accuracy.TotalImports)
	assert.Equal(t, 50, accuracy.TotalRecordsImported)
	assert.Equal(t, 200, accuracy.TotalPoints)
	assert.Equal(t, float64(100), accuracy.BestAccuracy)
	assert.Equal(t, float64(100), accuracy.CurrentProgress)
	assert.Equal(t, 5, accuracy.Level)

	volume := repo.progressOf(userID, models.VolumeAchievement)
	assert.Equal(t, float64(50), volume.CurrentProgress)
	assert.Equal(t, 1, volume.Level)
	assert.Equal(t, float64(100), volume.TargetProgress)

	speed := repo.progressOf(userID, models.SpeedAchievement)
	assert.Equal(t, float64(20), speed.AverageImportTime)
	assert.Equal(t, 3, speed.Level)
	assert.Equal(t, float64(15), speed.TargetProgress)
}

func TestRecordImportMetrics_RepeatIsIdempotent(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := newFakeAchievementRepo(userID)
	engine := NewAchievementEngine(repo, nil, nil, nil)

	_, err := engine.RecordImportMetrics(ctx, userID, "session-1", "stores.xlsx", perfectImport())
	require.NoError(t, err)
	unlockedAfterFirst := len(repo.achievements)

	second, err := engine.RecordImportMetrics(ctx, userID, "session-2", "stores.xlsx", perfectImport())
	require.NoError(t, err)

	assert.Empty(t, second.NewAchievements)
	assert.Len(t, repo.achievements, unlockedAfterFirst)

	for _, typ := range models.AllAchievementTypes {
		p := repo.progressOf(userID, typ)
		assert.Equal(t, 2, p.TotalImports, typ)
		assert.Equal(t, 100, p.TotalRecordsImported, typ)
		assert.Equal(t, 400, p.TotalPoints, typ)
		assert.Equal(t, 2, p.ConsecutiveSuccessfulImports, typ)
	}
	assert.Len(t, repo.metrics, 2)
}

func TestRecordImportMetrics_StreakResetsBelowNinety(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := newFakeAchievementRepo(userID)
	engine := NewAchievementEngine(repo, nil, nil, nil)

	for i := 0; i < 3; i++ {
		_, err := engine.RecordImportMetrics(ctx, userID, "s", "f.xlsx", perfectImport())
		require.NoError(t, err)
	}
	assert.Equal(t, 3, repo.progressOf(userID, models.StreakAchievement).ConsecutiveSuccessfulImports)

	weak := perfectImport()
	weak.AccuracyPercentage = 89.99
	weak.ValidRows = 45
	_, err := engine.RecordImportMetrics(ctx, userID, "s", "f.xlsx", weak)
	require.NoError(t, err)

	streak := repo.progressOf(userID, models.StreakAchievement)
	assert.Equal(t, 0, streak.ConsecutiveSuccessfulImports)
	assert.Equal(t, float64(0), streak.CurrentProgress)

	accuracy := repo.progressOf(userID, models.AccuracyAchievement)
	assert.Equal(t, 89.99, accuracy.LastImportAccuracy)
	assert.Equal(t, float64(100), accuracy.BestAccuracy, "best accuracy never decreases")
	assert.Equal(t, float64(90), accuracy.CurrentProgress)
}

func TestRecordImportMetrics_StreakUnlocksConsistencyChampion(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := newFakeAchievementRepo(userID)
	engine := NewAchievementEngine(repo, nil, nil, nil)

	var last *RecordResult
	for i := 0; i < 5; i++ {
		perf := perfectImport()
		perf.AccuracyPercentage = 92
		result, err := engine.RecordImportMetrics(ctx, userID, "s", "f.xlsx", perf)
		require.NoError(t, err)
		last = result
	}
	assert.Contains(t, achievementNames(last.NewAchievements), "Consistency Champion")
}

func TestRecordImportMetrics_RunningAverageImportTime(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := newFakeAchievementRepo(userID)
	engine := NewAchievementEngine(repo, nil, nil, nil)

	for _, d := range []float64{10, 40, 70} {
		perf := perfectImport()
		perf.ImportDuration = d
		_, err := engine.RecordImportMetrics(ctx, userID, "s", "f.xlsx", perf)
		require.NoError(t, err)
	}
	speed := repo.progressOf(userID, models.SpeedAchievement)
	assert.InDelta(t, 40.0, speed.AverageImportTime, 1e-9)
	assert.Equal(t, float64(70), speed.CurrentProgress)
}

func TestRecordImportMetrics_SlowFirstImportDoesNotUnlockSpeed(t *testing.T) {
	userID := uuid.New()
	repo := newFakeAchievementRepo(userID)
	engine := NewAchievementEngine(repo, nil, nil, nil)

	perf := perfectImport()
	perf.ImportDuration = 45
	result, err := engine.RecordImportMetrics(context.Background(), userID, "s", "f.xlsx", perf)
	require.NoError(t, err)
	assert.NotContains(t, achievementNames(result.NewAchievements), "Speed Demon")
}

func TestRecordImportMetrics_UnknownUser(t *testing.T) {
	engine := NewAchievementEngine(newFakeAchievementRepo(), nil, nil, nil)
	_, err := engine.RecordImportMetrics(context.Background(), uuid.New(), "s", "f.xlsx", perfectImport())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRecordImportMetrics_InvalidPerformance(t *testing.T) {
	userID := uuid.New()
	engine := NewAchievementEngine(newFakeAchievementRepo(userID), nil, nil, nil)

	tests := []struct {
		name   string
		mutate func(p *models.ImportPerformance)
	}{
		{"accuracy above 100", func(p *models.ImportPerformance) { p.AccuracyPercentage = 101 }},
		{"negative accuracy", func(p *models.ImportPerformance) { p.AccuracyPercentage = -1 }},
		{"valid exceeds total", func(p *models.ImportPerformance) { p.ValidRows = p.TotalRows + 1 }},
		{"negative duration", func(p *models.ImportPerformance) { p.ImportDuration = -0.5 }},
		{"quality above 100", func(p *models.ImportPerformance) { p.QualityScore = 100.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perf := perfectImport()
			tt.mutate(&perf)
			_, err := engine.RecordImportMetrics(context.Background(), userID, "s", "f.xlsx", perf)
			assert.ErrorIs(t, err, ErrInvalidPerformance)
		})
	}
}

func TestRecordImportMetrics_StoresSuggestions(t *testing.T) {
	userID := uuid.New()
	repo := newFakeAchievementRepo(userID)
	engine := NewAchievementEngine(repo, nil, nil, nil)

	perf := models.ImportPerformance{
		AccuracyPercentage: 60,
		ValidRows:          6,
		TotalRows:          10,
		ImportDuration:     90,
		QualityScore:       40,
		ErrorsDetected:     []string{"Row 4: duplicate key"},
	}
	result, err := engine.RecordImportMetrics(context.Background(), userID, "s", "f.xlsx", perf)
	require.NoError(t, err)
	assert.Equal(t, 0, result.PointsEarned)
	assert.Len(t, result.Suggestions, 4)

	var stored []string
	require.NoError(t, json.Unmarshal(repo.metrics[0].Suggestions, &stored))
	assert.Equal(t, result.Suggestions, stored)
}

func TestRecordImportMetrics_MetricsFailureAborts(t *testing.T) {
	userID := uuid.New()
	repo := newFakeAchievementRepo(userID)
	repo.failMetrics = true
	engine := NewAchievementEngine(repo, nil, nil, nil)

	_, err := engine.RecordImportMetrics(context.Background(), userID, "s", "f.xlsx", perfectImport())
	require.Error(t, err)
	assert.Empty(t, repo.achievements)
}

func TestInitializeUserProgress(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := newFakeAchievementRepo(userID)
	engine := NewAchievementEngine(repo, nil, nil, nil)

	require.NoError(t, engine.InitializeUserProgress(ctx, userID))
	require.NoError(t, engine.InitializeUserProgress(ctx, userID))

	rows := repo.progress[userID]
	require.Len(t, rows, len(models.AllAchievementTypes))
	for _, p := range rows {
		assert.Equal(t, 1, p.Level)
		assert.Zero(t, p.CurrentProgress)
		assert.Equal(t, InitialTarget(p.AchievementType), p.TargetProgress)
	}
	assert.Equal(t, float64(80), repo.progressOf(userID, models.AccuracyAchievement).TargetProgress)
	assert.Equal(t, float64(120), repo.progressOf(userID, models.SpeedAchievement).TargetProgress)
}

func TestInitializeUserProgress_UnknownUser(t *testing.T) {
	engine := NewAchievementEngine(newFakeAchievementRepo(), nil, nil, nil)
	err := engine.InitializeUserProgress(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserAchievements(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := newFakeAchievementRepo(userID)
	engine := NewAchievementEngine(repo, nil, nil, nil)

	_, err := engine.RecordImportMetrics(ctx, userID, "s", "f.xlsx", perfectImport())
	require.NoError(t, err)

	snapshot, err := engine.GetUserAchievements(ctx, userID)
	require.NoError(t, err)

	assert.Len(t, snapshot.Achievements, 5)
	require.Len(t, snapshot.Progress, 5)
	for i, typ := range models.AllAchievementTypes {
		assert.Equal(t, typ, snapshot.Progress[i].AchievementType)
	}
	assert.Len(t, snapshot.RecentMetrics, 1)
	// 200 import points plus 50+150+500+100+300 for the badges.
	assert.Equal(t, 1300, snapshot.TotalPoints)
	assert.Equal(t, "Gold", snapshot.Level)
	require.NotNil(t, snapshot.NextLevelAt)
	assert.Equal(t, 2500, *snapshot.NextLevelAt)
}

func TestGetUserAchievements_RecentMetricsCapped(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := newFakeAchievementRepo(userID)
	engine := NewAchievementEngine(repo, nil, nil, nil)

	for i := 0; i < 12; i++ {
		_, err := engine.RecordImportMetrics(ctx, userID, uuid.NewString(), "f.xlsx", perfectImport())
		require.NoError(t, err)
	}
	snapshot, err := engine.GetUserAchievements(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, snapshot.RecentMetrics, 10)
	assert.Equal(t, repo.metrics[11].SessionID, snapshot.RecentMetrics[0].SessionID)
}

func TestGetUserAchievements_FreshUser(t *testing.T) {
	userID := uuid.New()
	engine := NewAchievementEngine(newFakeAchievementRepo(userID), nil, nil, nil)

	snapshot, err := engine.GetUserAchievements(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Achievements)
	assert.Empty(t, snapshot.RecentMetrics)
	assert.Equal(t, 0, snapshot.TotalPoints)
	assert.Equal(t, "Bronze", snapshot.Level)
}

func TestGetUserAchievements_CacheInvalidatedOnRecord(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cache := newMemoryCache()
	engine := NewAchievementEngine(newFakeAchievementRepo(userID), cache, nil, nil)

	first, err := engine.GetUserAchievements(ctx, userID)
	require.NoError(t, err)
	assert.Contains(t, cache.entries, userID)

	_, err = engine.RecordImportMetrics(ctx, userID, "s", "f.xlsx", perfectImport())
	require.NoError(t, err)
	assert.NotContains(t, cache.entries, userID)

	second, err := engine.GetUserAchievements(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, first.TotalPoints)
	assert.Equal(t, 1300, second.TotalPoints)
}
