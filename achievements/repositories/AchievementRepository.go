package repositories

import (
	"context"
	"errors"
	"fmt"

	"hardware-distribution-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUserNotFound = errors.New("user not found")

type AchievementRepository interface {
	// WithTransaction runs fn against a repository bound to one transaction.
	WithTransaction(ctx context.Context, fn func(tx AchievementRepository) error) error

	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)

	GetProgress(ctx context.Context, userID uuid.UUID) ([]models.UserAchievementProgress, error)
	// GetProgressForUpdate locks the user's progress rows until the
	// surrounding transaction ends.
	GetProgressForUpdate(ctx context.Context, userID uuid.UUID) ([]models.UserAchievementProgress, error)
	CreateProgressRows(ctx context.Context, rows []models.UserAchievementProgress) error
	SaveProgress(ctx context.Context, progress *models.UserAchievementProgress) error

	GetAchievements(ctx context.Context, userID uuid.UUID) ([]models.ImportAchievement, error)
	HasAchievement(ctx context.Context, userID uuid.UUID, achievementType models.AchievementType, level int) (bool, error)
	// CreateAchievement reports false when the (user, type, level) row already exists.
	CreateAchievement(ctx context.Context, achievement *models.ImportAchievement) (bool, error)

	CreateMetrics(ctx context.Context, metrics *models.ImportAccuracyMetrics) error
	GetRecentMetrics(ctx context.Context, userID uuid.UUID, limit int) ([]models.ImportAccuracyMetrics, error)
}

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{
		db: db,
	}
}

func (r *achievementRepository) WithTransaction(ctx context.Context, fn func(tx AchievementRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&achievementRepository{db: tx})
	})
}

func (r *achievementRepository) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *achievementRepository) GetProgress(ctx context.Context, userID uuid.UUID) ([]models.UserAchievementProgress, error) {
	var rows []models.UserAchievementProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *achievementRepository) GetProgressForUpdate(ctx context.Context, userID uuid.UUID) ([]models.UserAchievementProgress, error) {
	var rows []models.UserAchievementProgress
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// CreateProgressRows skips rows that a concurrent initializer already wrote.
func (r *achievementRepository) CreateProgressRows(ctx context.Context, rows []models.UserAchievementProgress) error {
	if len(rows) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("create achievement progress: %w", err)
	}
	return nil
}

func (r *achievementRepository) SaveProgress(ctx context.Context, progress *models.UserAchievementProgress) error {
	if err := r.db.WithContext(ctx).Save(progress).Error; err != nil {
		return fmt.Errorf("save %s progress: %w", progress.AchievementType, err)
	}
	return nil
}

func (r *achievementRepository) GetAchievements(ctx context.Context, userID uuid.UUID) ([]models.ImportAchievement, error) {
	var achievements []models.ImportAchievement
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Find(&achievements).Error
	return achievements, err
}

func (r *achievementRepository) HasAchievement(ctx context.Context, userID uuid.UUID, achievementType models.AchievementType, level int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ImportAchievement{}).
		Where("user_id = ? AND achievement_type = ? AND level = ?", userID, achievementType, level).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *achievementRepository) CreateAchievement(ctx context.Context, achievement *models.ImportAchievement) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(achievement)
	if result.Error != nil {
		return false, fmt.Errorf("unlock %s level %d: %w", achievement.AchievementType, achievement.Level, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *achievementRepository) CreateMetrics(ctx context.Context, metrics *models.ImportAccuracyMetrics) error {
	if err := r.db.WithContext(ctx).Create(metrics).Error; err != nil {
		return fmt.Errorf("record import metrics: %w", err)
	}
	return nil
}

func (r *achievementRepository) GetRecentMetrics(ctx context.Context, userID uuid.UUID, limit int) ([]models.ImportAccuracyMetrics, error) {
	var metrics []models.ImportAccuracyMetrics
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&metrics).Error
	return metrics, err
}
