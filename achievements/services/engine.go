package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"hardware-distribution-backend/achievements/repositories"
	"hardware-distribution-backend/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	recentMetricsLimit = 10
	streakAccuracy     = 90
)

const (
	EventAchievementUnlocked = "ACHIEVEMENT_UNLOCKED"
)

// EventPublisher pushes engine events to connected clients.
type EventPublisher interface {
	Publish(userID uuid.UUID, eventType string, payload interface{})
}

type AchievementSnapshot struct {
	UserID        uuid.UUID                        `json:"userId"`
	Achievements  []models.ImportAchievement       `json:"achievements"`
	Progress      []models.UserAchievementProgress `json:"progress"`
	RecentMetrics []models.ImportAccuracyMetrics   `json:"recentMetrics"`
	TotalPoints   int                              `json:"totalPoints"`
	Level         string                           `json:"level"`
	NextLevelAt   *int                             `json:"nextLevelAt,omitempty"`
}

type RecordResult struct {
	Metrics         models.ImportAccuracyMetrics `json:"metrics"`
	PointsEarned    int                          `json:"pointsEarned"`
	Suggestions     []string                     `json:"suggestions"`
	NewAchievements []models.ImportAchievement   `json:"newAchievements"`
}

type AchievementEngine struct {
	repo      repositories.AchievementRepository
	cache     SnapshotCache
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewAchievementEngine accepts a nil cache and a nil publisher.
func NewAchievementEngine(
	repo repositories.AchievementRepository,
	cache SnapshotCache,
	publisher EventPublisher,
	logger *zap.Logger,
) *AchievementEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AchievementEngine{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func ValidatePerformance(perf models.ImportPerformance) error {
	switch {
	case perf.AccuracyPercentage < 0 || perf.AccuracyPercentage > 100:
		return fmt.Errorf("%w: accuracyPercentage must be between 0 and 100", ErrInvalidPerformance)
	case perf.ValidRows < 0 || perf.TotalRows < 0:
		return fmt.Errorf("%w: row counts must not be negative", ErrInvalidPerformance)
	case perf.ValidRows > perf.TotalRows:
		return fmt.Errorf("%w: validRows exceeds totalRows", ErrInvalidPerformance)
	case perf.ImportDuration < 0:
		return fmt.Errorf("%w: importDuration must not be negative", ErrInvalidPerformance)
	case perf.QualityScore < 0 || perf.QualityScore > 100:
		return fmt.Errorf("%w: qualityScore must be between 0 and 100", ErrInvalidPerformance)
	}
	return nil
}

func (e *AchievementEngine) ensureUser(ctx context.Context, userID uuid.UUID) error {
	exists, err := e.repo.UserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("look up user %s: %w", userID, err)
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

// InitializeUserProgress creates the missing progress rows, one per type.
// Calling it again changes nothing.
func (e *AchievementEngine) InitializeUserProgress(ctx context.Context, userID uuid.UUID) error {
	if err := e.ensureUser(ctx, userID); err != nil {
		return err
	}
	if err := initializeProgress(ctx, e.repo, userID); err != nil {
		return err
	}
	e.invalidate(ctx, userID)
	return nil
}

func initializeProgress(ctx context.Context, repo repositories.AchievementRepository, userID uuid.UUID) error {
	existing, err := repo.GetProgress(ctx, userID)
	if err != nil {
		return fmt.Errorf("load progress for %s: %w", userID, err)
	}
	have := make(map[models.AchievementType]bool, len(existing))
	for _, p := range existing {
		have[p.AchievementType] = true
	}

	var missing []models.UserAchievementProgress
	for _, t := range models.AllAchievementTypes {
		if have[t] {
			continue
		}
		missing = append(missing, models.UserAchievementProgress{
			UserID:          userID,
			AchievementType: t,
			Level:           minLevel,
			TargetProgress:  InitialTarget(t),
		})
	}
	return repo.CreateProgressRows(ctx, missing)
}

// RecordImportMetrics scores one import, updates every progress row of the
// user and unlocks the achievements whose criteria are now met. All writes
// share one transaction with the progress rows locked.
func (e *AchievementEngine) RecordImportMetrics(
	ctx context.Context,
	userID uuid.UUID,
	sessionID string,
	fileName string,
	perf models.ImportPerformance,
) (*RecordResult, error) {
	if err := ValidatePerformance(perf); err != nil {
		return nil, err
	}
	if err := e.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	points := CalculatePoints(perf)
	suggestions := GenerateSuggestions(perf)
	result := &RecordResult{
		PointsEarned:    points,
		Suggestions:     suggestions,
		NewAchievements: []models.ImportAchievement{},
	}

	err := e.repo.WithTransaction(ctx, func(tx repositories.AchievementRepository) error {
		if err := initializeProgress(ctx, tx, userID); err != nil {
			return err
		}

		metrics, err := newMetricsRow(userID, sessionID, fileName, perf, points, suggestions)
		if err != nil {
			return err
		}
		if err := tx.CreateMetrics(ctx, metrics); err != nil {
			return err
		}
		result.Metrics = *metrics

		rows, err := tx.GetProgressForUpdate(ctx, userID)
		if err != nil {
			return fmt.Errorf("lock progress for %s: %w", userID, err)
		}
		byType := make(map[models.AchievementType]*models.UserAchievementProgress, len(rows))
		for i := range rows {
			applyImport(&rows[i], perf, points)
			if err := tx.SaveProgress(ctx, &rows[i]); err != nil {
				return err
			}
			byType[rows[i].AchievementType] = &rows[i]
		}

		unlocked, err := e.unlock(ctx, tx, userID, byType)
		if err != nil {
			return err
		}
		result.NewAchievements = unlocked
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.invalidate(ctx, userID)
	e.publishUnlocks(userID, result.NewAchievements)

	e.logger.Info("Import metrics recorded",
		zap.String("user_id", userID.String()),
		zap.String("session_id", sessionID),
		zap.String("file", fileName),
		zap.Int("points", points),
		zap.Int("new_achievements", len(result.NewAchievements)),
	)
	return result, nil
}

func newMetricsRow(userID uuid.UUID, sessionID, fileName string, perf models.ImportPerformance, points int, suggestions []string) (*models.ImportAccuracyMetrics, error) {
	detected := perf.ErrorsDetected
	if detected == nil {
		detected = []string{}
	}
	errorsJSON, err := json.Marshal(detected)
	if err != nil {
		return nil, fmt.Errorf("encode detected errors: %w", err)
	}
	suggestionsJSON, err := json.Marshal(suggestions)
	if err != nil {
		return nil, fmt.Errorf("encode suggestions: %w", err)
	}
	return &models.ImportAccuracyMetrics{
		UserID:             userID,
		SessionID:          sessionID,
		FileName:           fileName,
		AccuracyPercentage: perf.AccuracyPercentage,
		ValidRows:          perf.ValidRows,
		TotalRows:          perf.TotalRows,
		ImportDuration:     perf.ImportDuration,
		QualityScore:       perf.QualityScore,
		ErrorsDetected:     datatypes.JSON(errorsJSON),
		PointsEarned:       points,
		Suggestions:        datatypes.JSON(suggestionsJSON),
	}, nil
}

// applyImport folds one import into a progress row.
func applyImport(p *models.UserAchievementProgress, perf models.ImportPerformance, points int) {
	prevCount := p.TotalImports

	p.TotalImports++
	p.TotalRecordsImported += perf.ValidRows
	p.TotalPoints += points
	p.LastImportAccuracy = perf.AccuracyPercentage
	if perf.AccuracyPercentage > p.BestAccuracy {
		p.BestAccuracy = perf.AccuracyPercentage
	}
	if perf.AccuracyPercentage >= streakAccuracy {
		p.ConsecutiveSuccessfulImports++
	} else {
		p.ConsecutiveSuccessfulImports = 0
	}
	p.AverageImportTime = (p.AverageImportTime*float64(prevCount) + perf.ImportDuration) / float64(prevCount+1)

	switch p.AchievementType {
	case models.AccuracyAchievement:
		p.CurrentProgress = math.Round(perf.AccuracyPercentage)
	case models.VolumeAchievement:
		p.CurrentProgress = float64(perf.ValidRows)
	case models.StreakAchievement:
		p.CurrentProgress = float64(p.ConsecutiveSuccessfulImports)
	case models.SpeedAchievement:
		p.CurrentProgress = perf.ImportDuration
	case models.QualityAchievement:
		p.CurrentProgress = perf.QualityScore
	}

	applyLadder(p)
}

func (e *AchievementEngine) unlock(
	ctx context.Context,
	tx repositories.AchievementRepository,
	userID uuid.UUID,
	byType map[models.AchievementType]*models.UserAchievementProgress,
) ([]models.ImportAchievement, error) {
	unlocked := []models.ImportAchievement{}
	for _, def := range Definitions {
		progress, ok := byType[def.Type]
		if !ok || !def.Met(progress) {
			continue
		}
		has, err := tx.HasAchievement(ctx, userID, def.Type, def.Level)
		if err != nil {
			return nil, fmt.Errorf("check %s level %d: %w", def.Type, def.Level, err)
		}
		if has {
			continue
		}

		criteria, err := json.Marshal(def.Criterion)
		if err != nil {
			return nil, fmt.Errorf("encode criteria for %s: %w", def.Name, err)
		}
		achievement := models.ImportAchievement{
			UserID:           userID,
			AchievementType:  def.Type,
			Level:            def.Level,
			Name:             def.Name,
			Description:      def.Description,
			Icon:             def.Icon,
			PointsAwarded:    def.Points,
			CriteriaSnapshot: datatypes.JSON(criteria),
			UnlockedAt:       e.now(),
		}
		created, err := tx.CreateAchievement(ctx, &achievement)
		if err != nil {
			return nil, err
		}
		if created {
			unlocked = append(unlocked, achievement)
		}
	}
	return unlocked, nil
}

// GetUserAchievements assembles the read-only snapshot for a user.
func (e *AchievementEngine) GetUserAchievements(ctx context.Context, userID uuid.UUID) (*AchievementSnapshot, error) {
	if e.cache != nil {
		if snapshot, ok := e.cache.Get(ctx, userID); ok {
			return snapshot, nil
		}
	}
	if err := e.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	achievements, err := e.repo.GetAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load achievements for %s: %w", userID, err)
	}
	progress, err := e.repo.GetProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load progress for %s: %w", userID, err)
	}
	metrics, err := e.repo.GetRecentMetrics(ctx, userID, recentMetricsLimit)
	if err != nil {
		return nil, fmt.Errorf("load metrics for %s: %w", userID, err)
	}
	if achievements == nil {
		achievements = []models.ImportAchievement{}
	}
	if metrics == nil {
		metrics = []models.ImportAccuracyMetrics{}
	}
	sortProgress(progress)

	total := TotalPoints(progress, achievements)
	snapshot := &AchievementSnapshot{
		UserID:        userID,
		Achievements:  achievements,
		Progress:      progress,
		RecentMetrics: metrics,
		TotalPoints:   total,
		Level:         LevelForPoints(total).Name,
		NextLevelAt:   NextLevelAt(total),
	}

	if e.cache != nil {
		e.cache.Set(ctx, snapshot)
	}
	return snapshot, nil
}

// TotalPoints is the import points carried by the progress rows plus the
// points of every unlocked achievement. Every row accumulates the same
// import points, so the largest one is taken rather than the sum.
func TotalPoints(progress []models.UserAchievementProgress, achievements []models.ImportAchievement) int {
	importPoints := 0
	for _, p := range progress {
		if p.TotalPoints > importPoints {
			importPoints = p.TotalPoints
		}
	}
	total := importPoints
	for _, a := range achievements {
		total += a.PointsAwarded
	}
	return total
}

func sortProgress(rows []models.UserAchievementProgress) {
	order := make(map[models.AchievementType]int, len(models.AllAchievementTypes))
	for i, t := range models.AllAchievementTypes {
		order[t] = i
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return order[rows[i].AchievementType] < order[rows[j].AchievementType]
	})
}

func (e *AchievementEngine) invalidate(ctx context.Context, userID uuid.UUID) {
	if e.cache == nil {
		return
	}
	e.cache.Invalidate(ctx, userID)
}

func (e *AchievementEngine) publishUnlocks(userID uuid.UUID, unlocked []models.ImportAchievement) {
	if e.publisher == nil {
		return
	}
	for _, a := range unlocked {
		e.publisher.Publish(userID, EventAchievementUnlocked, a)
	}
}
